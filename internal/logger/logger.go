// Package logger builds the structured logger shared by the services and tooling.
package logger

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/pkordes/tourgraph/internal/config"
)

// New returns a JSON slog.Logger at cfg.LogLevel and the closer for its
// output. Logs go to stdout unless cfg.LogFile is set, in which case they go
// to a size-rotated file. An unrecognised level falls back to info.
//
// The caller closes the returned io.Closer on shutdown; for stdout it is a no-op.
func New(cfg config.Config) (*slog.Logger, io.Closer) {
	var w io.WriteCloser = nopCloser{os.Stdout}
	if cfg.LogFile != "" {
		w = &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    cfg.LogMaxSizeMB, // megabytes
			MaxBackups: cfg.LogMaxBackups,
			Compress:   true,
		}
	}
	return NewWithWriter(w, cfg.LogLevel), w
}

// NewWithWriter returns a JSON slog.Logger writing to w at the named level.
func NewWithWriter(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)}))
}

// ParseLevel maps debug/info/warn/error (any case) to a slog.Level,
// defaulting to info.
func ParseLevel(s string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
