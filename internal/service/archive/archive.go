package archive

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/oshokin/cribl-upgrade/internal/executor"
	"github.com/oshokin/cribl-upgrade/internal/logger"
)

const (
	// BackupFilename is the archive written into a backup destination directory.
	BackupFilename = "cribl_backup.tar.gz"

	// tarExecutable creates and extracts the gzip tar archives.
	tarExecutable = "tar"

	// backupDirMode is used when the backup destination directory has to be created.
	backupDirMode os.FileMode = 0o755
)

var (
	// ErrArchive wraps every failure to back up the installation.
	ErrArchive = errors.New("archive error")
	// ErrExtraction wraps every failure to unpack the new version.
	ErrExtraction = errors.New("extraction error")
	// ErrPackageNotConfigured is returned when no new-version archive path was provided.
	ErrPackageNotConfigured = errors.New("archive path is not configured")
)

// BackupPath resolves the backup file for a destination.
// A destination that already names a .tar.gz or .tgz file is used as-is;
// anything else is a directory receiving BackupFilename.
func BackupPath(destination string) string {
	lower := strings.ToLower(destination)
	if strings.HasSuffix(lower, ".tar.gz") || strings.HasSuffix(lower, ".tgz") {
		return filepath.Clean(destination)
	}

	return filepath.Join(destination, BackupFilename)
}

// Archiver backs up the installation root before it is overwritten.
type Archiver struct {
	home        string
	destination string
	exec        executor.Executor
}

// NewArchiver creates an Archiver for home. An empty destination disables it.
func NewArchiver(home, destination string, exec executor.Executor) *Archiver {
	return &Archiver{
		home:        home,
		destination: destination,
		exec:        exec,
	}
}

// Enabled reports whether a backup destination was configured.
func (a *Archiver) Enabled() bool {
	return a.destination != ""
}

// Archive writes a compressed tar of the whole installation root and returns its path.
// It does nothing and returns an empty path when the archiver is disabled.
func (a *Archiver) Archive(ctx context.Context) (string, error) {
	if !a.Enabled() {
		logger.Debug(ctx, "No backup destination configured, skipping archive")
		return "", nil
	}

	backup, err := filepath.Abs(BackupPath(a.destination))
	if err != nil {
		return "", fmt.Errorf("%w: resolve %s: %w", ErrArchive, a.destination, err)
	}

	if err = os.MkdirAll(filepath.Dir(backup), backupDirMode); err != nil {
		return "", fmt.Errorf("%w: create %s: %w", ErrArchive, filepath.Dir(backup), err)
	}

	args := []string{"czf", backup}

	// A backup kept inside the installation root must not archive itself.
	if rel, ok := insideDir(a.home, backup); ok {
		args = append(args, "--exclude", "./"+filepath.ToSlash(rel))
	}

	cmd := executor.Command{
		Name: tarExecutable,
		Args: append(args, "-C", a.home, "."),
	}

	if _, err = a.exec.Run(ctx, cmd); err != nil {
		return "", fmt.Errorf("%w: %w", ErrArchive, err)
	}

	return backup, nil
}

// insideDir returns path relative to dir when path lies beneath dir.
func insideDir(dir, path string) (string, bool) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}

	rel, err := filepath.Rel(absDir, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}

	return rel, true
}

// Unpacker extracts a new version over the installation root.
type Unpacker struct {
	home    string
	archive string
	exec    executor.Executor
}

// NewUnpacker creates an Unpacker extracting archive into home.
func NewUnpacker(home, archive string, exec executor.Executor) *Unpacker {
	return &Unpacker{
		home:    home,
		archive: archive,
		exec:    exec,
	}
}

// Extract unpacks the archive into the installation root, overwriting existing files.
// A relative archive path is resolved against the working directory, not the installation root.
func (u *Unpacker) Extract(ctx context.Context) error {
	if u.archive == "" {
		return fmt.Errorf("%w: %w", ErrExtraction, ErrPackageNotConfigured)
	}

	archive, err := filepath.Abs(u.archive)
	if err != nil {
		return fmt.Errorf("%w: resolve %s: %w", ErrExtraction, u.archive, err)
	}

	cmd := executor.Command{
		Name: tarExecutable,
		Args: []string{"xzf", archive, "-C", u.home},
	}

	if _, err = u.exec.Run(ctx, cmd); err != nil {
		return fmt.Errorf("%w: %w", ErrExtraction, err)
	}

	return nil
}
