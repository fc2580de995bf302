// Package executor runs external commands (service managers, the application
// binary, tar) behind a small interface so callers can be tested without
// touching the real operating system.
package executor
