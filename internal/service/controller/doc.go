// Package controller starts and stops the installed application.
//
// The mechanism is a Strategy chosen once per run: the systemd unit on
// Debian-family systems, the generic service command elsewhere, or the
// application's own binary when it does not run as a service. Failures are
// never retried.
package controller
