// Package version holds the build metadata stamped into cribl-upgrade at link time.
package version
