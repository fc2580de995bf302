// Package upgrader performs an in-place upgrade of a local Cribl installation.
//
// A run validates the installation, stops the application, optionally backs up
// the installation root, extracts the new version over it and starts the
// application again. Each step is logged; the first failure is logged at error
// level and aborts everything after it, leaving the application as it was at
// that point.
package upgrader
