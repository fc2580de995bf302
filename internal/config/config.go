package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/oshokin/cribl-upgrade/internal/installation"
)

// Recognized settings keys.
const (
	// KeyTarFile is the path to the archive holding the new version.
	KeyTarFile = "TAR_FILE"
	// KeyHome is the root directory of the installed application.
	KeyHome = "CRIBL_HOME"
	// KeyIsService tells whether the application runs under the OS service manager.
	KeyIsService = "IS_SERVICE"
	// KeyArchiveLocation is where the pre-upgrade backup is written.
	KeyArchiveLocation = "ARCHIVE_LOCATION"
)

const (
	// DefaultSettingsFilename is the settings file read from the working directory.
	DefaultSettingsFilename = ".env"

	// DefaultHome is the installation root used when CRIBL_HOME is not set.
	DefaultHome = "/opt/cribl/"
)

var (
	// ErrParse is returned when a settings line does not hold exactly one '='.
	ErrParse = errors.New("malformed settings line")
	// ErrInvalidValue is returned when a recognized key holds a value of the wrong type.
	ErrInvalidValue = errors.New("invalid settings value")
)

// Config holds the upgrade settings. It is built once and passed by value.
type Config struct {
	// TarFile is the new-version archive; empty when not configured.
	TarFile string
	// Home is the installation root.
	Home string
	// IsService selects the OS service manager over direct executable invocation.
	IsService bool
	// ArchiveLocation is the backup destination; empty disables the backup.
	ArchiveLocation string
}

// ExecutablePath returns the application binary beneath the installation root.
func (c Config) ExecutablePath() string {
	return installation.ExecutablePath(c.Home)
}

// BackupEnabled reports whether a pre-upgrade backup was requested.
func (c Config) BackupEnabled() bool {
	return c.ArchiveLocation != ""
}

// knownKeys lists every recognized settings key.
func knownKeys() []string {
	return []string{KeyTarFile, KeyHome, KeyIsService, KeyArchiveLocation}
}

// Load reads the settings file at path and builds the configuration from it.
func Load(path string) (Config, error) {
	values, err := ReadSettings(path)
	if err != nil {
		return Config{}, err
	}

	return FromValues(values)
}

// ReadSettings reads KEY=VALUE assignments from the file at path.
func ReadSettings(path string) (map[string]string, error) {
	if path == "" {
		path = DefaultSettingsFilename
	}

	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	defer func() {
		_ = file.Close()
	}()

	values, err := ParseSettings(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return values, nil
}

// ParseSettings parses one KEY=VALUE assignment per line.
// Blank lines are skipped; keys and values are taken verbatim with no quoting support.
func ParseSettings(r io.Reader) (map[string]string, error) {
	values := make(map[string]string)
	scanner := bufio.NewScanner(r)
	lineNumber := 0

	for scanner.Scan() {
		lineNumber++

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.Count(line, "=") != 1 {
			return nil, fmt.Errorf("line %d: %w: expected exactly one '='", lineNumber, ErrParse)
		}

		key, value, _ := strings.Cut(line, "=")
		if key == "" {
			return nil, fmt.Errorf("line %d: %w: empty key", lineNumber, ErrParse)
		}

		values[key] = value
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan settings: %w", err)
	}

	return values, nil
}

// FromValues builds a Config from parsed settings.
// Precedence: settings values, then the process environment, then defaults.
// Empty values are treated as unset.
func FromValues(values map[string]string) (Config, error) {
	v := viper.New()
	v.SetDefault(KeyHome, DefaultHome)
	v.SetDefault(KeyIsService, "false")

	for _, key := range knownKeys() {
		if err := v.BindEnv(key); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", key, err)
		}

		// Unknown keys are parsed but never reach viper.
		if value := values[key]; value != "" {
			v.Set(key, value)
		}
	}

	cfg := Config{
		TarFile:         strings.TrimSpace(v.GetString(KeyTarFile)),
		Home:            strings.TrimSpace(v.GetString(KeyHome)),
		ArchiveLocation: strings.TrimSpace(v.GetString(KeyArchiveLocation)),
	}

	if cfg.Home == "" {
		cfg.Home = DefaultHome
	}

	isService, err := parseBool(v.GetString(KeyIsService))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", KeyIsService, err)
	}

	cfg.IsService = isService

	return cfg, nil
}

// parseBool accepts the strconv.ParseBool spellings and treats an empty value as false.
func parseBool(raw string) (bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, nil
	}

	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %q is not a boolean", ErrInvalidValue, raw)
	}

	return parsed, nil
}
