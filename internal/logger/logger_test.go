package logger

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fileLinePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2},\d{3} - (INFO|ERROR) - .+$`)

// TestNewFile_Format verifies the "<timestamp> - <LEVEL> - <message>" layout of file entries.
func TestNewFile_Format(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), DefaultFilename)

	l, closeFn, err := NewFile(path, zap.NewAtomicLevelAt(zap.InfoLevel))
	require.NoError(t, err)

	l.Info("Cribl stopped successfully")
	l.Error("Failed to start Cribl: boom")
	l.Debug("filtered out")
	closeFn()

	contents, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(contents)), "\n")
	require.Len(t, lines, 2)

	for _, line := range lines {
		require.Regexp(t, fileLinePattern, line)
	}

	require.True(t, strings.HasSuffix(lines[0], " - INFO - Cribl stopped successfully"))
	require.True(t, strings.HasSuffix(lines[1], " - ERROR - Failed to start Cribl: boom"))
}

// TestNewFile_Appends ensures a second logger keeps the entries of the first one.
func TestNewFile_Appends(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "update.log")

	for _, message := range []string{"first run", "second run"} {
		l, closeFn, err := NewFile(path, nil)
		require.NoError(t, err)

		l.Info(message)
		closeFn()
	}

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(contents), "first run")
	require.Contains(t, string(contents), "second run")
	require.Equal(t, 2, strings.Count(string(contents), " - INFO - "))
}

// TestFromContext checks the fallback to the global logger and the context override.
func TestFromContext(t *testing.T) {
	t.Parallel()

	require.Same(t, global, FromContext(context.Background()))

	custom := zap.NewNop().Sugar()
	ctx := ToContext(context.Background(), custom)
	require.Same(t, custom, FromContext(ctx))

	named := WithName(ctx, "cribl-upgrade")
	require.NotNil(t, FromContext(named))
	require.NotSame(t, custom, FromContext(named))
}
