// Package logging configures the application logger.
//
// 日记应用的 TUI 独占终端, 日志必须写入文件而不是 stderr.
// The interactive UI owns the terminal, so logs go to a file under the
// data directory. Line mode may still log to stderr when requested.
package logging

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// FileName is the log file created under the data directory.
const FileName = "diary.log"

// New opens (or creates) the log file under baseDir and returns a logger
// writing JSON lines to it. baseDir is created if missing. When the file
// cannot be opened the returned logger discards everything rather than
// corrupting the UI.
func New(baseDir string) (zerolog.Logger, func() error) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return zerolog.Nop(), func() error { return nil }
	}
	path := filepath.Join(baseDir, FileName)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return zerolog.Nop(), func() error { return nil }
	}

	logger := zerolog.New(f).With().
		Timestamp().
		Str("app", "moodiary").
		Logger()
	return logger, f.Close
}

// NewConsole returns a human-readable logger on stderr for line mode.
func NewConsole() zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	out := zerolog.ConsoleWriter{Out: os.Stderr}
	return zerolog.New(out).With().Timestamp().Logger()
}

// SetLevel applies a named level to the global zerolog filter.
// Unknown names fall back to info.
func SetLevel(name string) {
	switch name {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
