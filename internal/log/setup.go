package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

type Options struct {
	Level string
	// File receives every record at Level or above. Empty discards them.
	File string
	// Stderr receives error records while mirroring is enabled.
	Stderr io.Writer
}

// New builds the application logger. The returned closer releases the log
// file and is never nil.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	lvl, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nopCloser{}, err
	}

	var primary slog.Handler
	var closer io.Closer = nopCloser{}
	if path := strings.TrimSpace(opts.File); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, closer, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, closer, fmt.Errorf("open log file: %w", err)
		}
		closer = f
		primary = slog.NewJSONHandler(f, &slog.HandlerOptions{Level: lvl, ReplaceAttr: replaceLevel})
	}

	var secondary slog.Handler
	if opts.Stderr != nil {
		secondary = slog.NewTextHandler(opts.Stderr, &slog.HandlerOptions{Level: slog.LevelError, ReplaceAttr: replaceLevel})
	}
	return slog.New(NewDualHandler(primary, secondary)), closer, nil
}

// Discard returns a logger that drops everything. Tests use it.
func Discard() *slog.Logger {
	return slog.New(NewDualHandler(nil, nil))
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
