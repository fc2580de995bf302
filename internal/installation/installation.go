// Package installation checks the preconditions of an upgrade: that the
// application is installed where the settings say, and that the new
// version's archive is present.
package installation

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var (
	// ErrMissingInstallation is returned when the installation root has no application executable.
	ErrMissingInstallation = errors.New("cribl installation not found")
	// ErrMissingPackage is returned when the new-version archive is unset or absent.
	ErrMissingPackage = errors.New("new version archive not found")
)

// ExecutablePath returns the application binary beneath home.
func ExecutablePath(home string) string {
	return filepath.Join(home, "bin", "cribl")
}

// Validate confirms that home contains the application executable.
func Validate(home string) error {
	executable := ExecutablePath(home)

	info, err := os.Stat(executable)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w at %s", ErrMissingInstallation, home)
		}

		return fmt.Errorf("stat %s: %w", executable, err)
	}

	if info.IsDir() {
		return fmt.Errorf("%w at %s: %s is a directory", ErrMissingInstallation, home, executable)
	}

	return nil
}

// ValidatePackage confirms that path names an existing regular file.
func ValidatePackage(path string) error {
	if path == "" {
		return fmt.Errorf("%w: TAR_FILE is not set", ErrMissingPackage)
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrMissingPackage, path)
		}

		return fmt.Errorf("stat %s: %w", path, err)
	}

	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s is not a regular file", ErrMissingPackage, path)
	}

	return nil
}
