package logger

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// DefaultFilename is the append-only log file written next to the settings file.
	DefaultFilename = "cribl_update.log"

	// fileTimeLayout renders timestamps the way operators grep for them: 2006-01-02 15:04:05,000.
	fileTimeLayout = "2006-01-02 15:04:05,000"

	// fileSeparator joins the timestamp, level and message of a file entry.
	fileSeparator = " - "
)

var (
	// global is the shared logger instance used throughout the application.
	//nolint:gochecknoglobals // Logger is used all over the project, so it's okay.
	global *zap.SugaredLogger
	// defaultLevel is the minimum log level for messages to be processed.
	//nolint:gochecknoglobals // If the logging level is not set, the application will have no logs.
	defaultLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
)

func init() { //nolint:gochecknoinits // If the logging level is not set, the application will have no logs.
	SetLogger(zap.New(stdoutCore(defaultLevel)).Sugar())
}

// NewFile creates a logger that appends every entry to the file at path
// and mirrors it to stdout. The returned function flushes and closes the file.
func NewFile(path string, level zapcore.LevelEnabler, options ...zap.Option) (*zap.SugaredLogger, func(), error) {
	if level == nil {
		level = defaultLevel
	}

	if path == "" {
		path = DefaultFilename
	}

	// zap.Open appends to existing files and creates missing ones.
	sink, closeSink, err := zap.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file %s: %w", path, err)
	}

	core := zapcore.NewTee(
		zapcore.NewCore(fileEncoder(), sink, level),
		stdoutCore(level),
	)

	l := zap.New(core, options...).Sugar()

	closeFn := func() {
		//nolint:errcheck // Nothing useful can be done if the final flush fails.
		_ = l.Sync()

		closeSink()
	}

	return l, closeFn, nil
}

// stdoutCore builds the colored console core used for interactive output.
func stdoutCore(level zapcore.LevelEnabler) zapcore.Core {
	//nolint:exhaustruct // I'm okay with default encoder configuration values.
	encoder := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:          "time",
		MessageKey:       "message",
		LevelKey:         "level",
		StacktraceKey:    "stacktrace",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeLevel:      zapcore.CapitalColorLevelEncoder,
		EncodeTime:       zapcore.ISO8601TimeEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: ", ",
	})

	return zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), level)
}

// fileEncoder renders "<timestamp> - <LEVEL> - <message>" lines without color codes.
func fileEncoder() zapcore.Encoder {
	//nolint:exhaustruct // Caller and logger name are intentionally omitted from the file.
	return zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:          "time",
		MessageKey:       "message",
		LevelKey:         "level",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeTime:       zapcore.TimeEncoderOfLayout(fileTimeLayout),
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: fileSeparator,
	})
}

// SetLogger sets the global logger.
// This function is not thread-safe.
func SetLogger(l *zap.SugaredLogger) {
	global = l
}

// Debug writes a debug level message using the logger from the context.
func Debug(ctx context.Context, args ...any) {
	FromContext(ctx).Debug(args...)
}

// Debugf writes a formatted debug level message using the logger from the context.
func Debugf(ctx context.Context, format string, args ...any) {
	FromContext(ctx).Debugf(format, args...)
}

// DebugKV writes a message and key-value pairs
// at the debug level using the logger from the context.
func DebugKV(ctx context.Context, message string, kvs ...any) {
	FromContext(ctx).Debugw(message, kvs...)
}

// Info writes an information level message using the logger from the context.
func Info(ctx context.Context, args ...any) {
	FromContext(ctx).Info(args...)
}

// Infof writes a formatted information level message using the logger from the context.
func Infof(ctx context.Context, format string, args ...any) {
	FromContext(ctx).Infof(format, args...)
}

// Errorf writes a formatted error level message using the logger from the context.
func Errorf(ctx context.Context, format string, args ...any) {
	FromContext(ctx).Errorf(format, args...)
}
