package logging

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/Onimbus/proz/internal/config"
)

const (
	DefaultLogFilePath = "proz.log"
	DefaultMaxSizeMB   = 50
	DefaultMaxBackups  = 5
	DefaultMaxAgeDays  = 30
	DefaultCompress    = true
)

const timeFormat = "2006-01-02 15:04:05"

// Setup installs a console-only logger at the given level. It is used
// before the database, and so the log settings, is available.
func Setup(level string) {
	ApplyLevel(level)
	log.Logger = zerolog.New(consoleWriter()).With().Timestamp().Logger()
}

// Apply sets the global log level and output writers (console + rotating file).
// logFilePath is the destination file; when empty, a default filename in the current working directory is used.
func Apply(level string, loader *config.Loader, logFilePath string) {
	ApplyLevel(level)
	applyOutputs(loader, logFilePath)
}

// ApplyLevel sets the global zerolog level from its name.
func ApplyLevel(level string) {
	switch level {
	case "trace":
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// FileOptions holds the rotation settings for the log file.
type FileOptions struct {
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// LoadFileOptions reads rotation settings, falling back to the defaults for
// missing or out-of-range values.
func LoadFileOptions(loader *config.Loader) FileOptions {
	opts := FileOptions{
		MaxSizeMB:  DefaultMaxSizeMB,
		MaxBackups: DefaultMaxBackups,
		MaxAgeDays: DefaultMaxAgeDays,
		Compress:   DefaultCompress,
	}
	if val := loader.Int("log.max_size_mb", DefaultMaxSizeMB); val > 0 {
		opts.MaxSizeMB = val
	}
	if val := loader.Int("log.max_backups", DefaultMaxBackups); val >= 0 {
		opts.MaxBackups = val
	}
	if val := loader.Int("log.max_age_days", DefaultMaxAgeDays); val >= 0 {
		opts.MaxAgeDays = val
	}
	opts.Compress = loader.Bool("log.compress", DefaultCompress)
	return opts
}

func applyOutputs(loader *config.Loader, logFilePath string) {
	opts := LoadFileOptions(loader)

	if logFilePath == "" {
		logFilePath = DefaultLogFilePath
	}

	console := consoleWriter()
	log.Logger = zerolog.New(console).With().Timestamp().Logger()

	if err := ensureLogDir(logFilePath); err != nil {
		log.Error().Err(err).Str("path", logFilePath).Msg("Failed to prepare log directory; logging to console only")
		return
	}

	fileWriter := &lumberjack.Logger{
		Filename:   logFilePath,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		Compress:   opts.Compress,
	}

	fileConsole := zerolog.ConsoleWriter{
		Out:        fileWriter,
		TimeFormat: timeFormat,
		NoColor:    true,
	}

	multi := zerolog.MultiLevelWriter(console, fileConsole)
	log.Logger = zerolog.New(multi).With().Timestamp().Logger()
}

func consoleWriter() zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: timeFormat}
}

// FilePathForDB returns a log file path that lives alongside the database file.
func FilePathForDB(dbPath string) string {
	if dbPath == "" {
		return DefaultLogFilePath
	}
	absDBPath, err := filepath.Abs(dbPath)
	if err != nil {
		return filepath.Join(filepath.Dir(dbPath), DefaultLogFilePath)
	}
	return filepath.Join(filepath.Dir(absDBPath), DefaultLogFilePath)
}

func ensureLogDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
