// Package archive wraps the tar invocations of an upgrade: the optional backup
// of the installation root and the extraction of the new version over it.
package archive
