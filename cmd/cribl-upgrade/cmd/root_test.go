package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/cribl-upgrade/internal/config"
	"github.com/oshokin/cribl-upgrade/internal/logger"
	"github.com/oshokin/cribl-upgrade/internal/version"
)

// TestHelp prints the settings keys and does nothing else.
func TestHelp(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	root := newRootCommand()

	var out bytes.Buffer

	root.SetOut(&out)
	root.SetArgs([]string{"--help"})

	require.NoError(t, root.Execute())

	for _, key := range []string{
		config.KeyTarFile,
		config.KeyHome,
		config.KeyIsService,
		config.KeyArchiveLocation,
	} {
		require.Contains(t, out.String(), key)
	}

	require.Contains(t, out.String(), version.Full())

	// Neither the settings file nor the log file is touched.
	_, err := os.Stat(filepath.Join(dir, logger.DefaultFilename))
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestRejectsArguments keeps the surface to the help flag only.
func TestRejectsArguments(t *testing.T) {
	root := newRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	root.SetArgs([]string{"now"})
	require.Error(t, root.Execute())

	root.SetArgs([]string{"--force"})
	require.Error(t, root.Execute())
}

// TestMissingSettingsFails logs the failure and returns it.
func TestMissingSettingsFails(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	root := newRootCommand()
	root.SetArgs([]string{})

	require.Error(t, root.Execute())

	contents, err := os.ReadFile(filepath.Join(dir, logger.DefaultFilename))
	require.NoError(t, err)
	require.Contains(t, string(contents), " - ERROR - Failed to load settings")
}

// chdir changes the working directory for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
