// Package platform detects which family of operating system the upgrader runs on,
// so the service controller can pick the matching service manager command.
package platform
