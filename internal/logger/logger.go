// Package logger configures the application's zerolog logger. The TUI
// owns the terminal while running, so log output goes to a file under
// the config directory rather than stderr.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// Setup returns a logger writing to the file at path. With debug set the
// level drops to Debug, which includes per-request gateway logging. If
// the file cannot be opened the logger discards everything rather than
// corrupting the TUI.
func Setup(path string, debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	var out io.Writer = io.Discard
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err == nil {
			f, err := os.OpenFile(
				path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
			if err == nil {
				out = f
			}
		}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
