package installation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestValidate accepts a home with bin/cribl and rejects anything else.
func TestValidate(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	require.ErrorIs(t, Validate(home), ErrMissingInstallation)

	// A directory in place of the binary is not an installation.
	require.NoError(t, os.MkdirAll(ExecutablePath(home), 0o755))
	require.ErrorIs(t, Validate(home), ErrMissingInstallation)
	require.NoError(t, os.Remove(ExecutablePath(home)))

	require.NoError(t, os.WriteFile(ExecutablePath(home), []byte("#!/bin/sh\n"), 0o755))
	require.NoError(t, Validate(home))

	require.ErrorIs(t, Validate(filepath.Join(home, "nowhere")), ErrMissingInstallation)
}

// TestValidatePackage requires a configured, existing regular file.
func TestValidatePackage(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	require.ErrorIs(t, ValidatePackage(""), ErrMissingPackage)
	require.ErrorIs(t, ValidatePackage(filepath.Join(dir, "v2.tar.gz")), ErrMissingPackage)
	require.ErrorIs(t, ValidatePackage(dir), ErrMissingPackage)

	archive := filepath.Join(dir, "v2.tar.gz")
	require.NoError(t, os.WriteFile(archive, []byte("not really gzip"), 0o600))
	require.NoError(t, ValidatePackage(archive))
}

// TestExecutablePath keeps the binary location stable.
func TestExecutablePath(t *testing.T) {
	t.Parallel()

	require.Equal(t, filepath.Join("/opt/cribl", "bin", "cribl"), ExecutablePath("/opt/cribl/"))
}
