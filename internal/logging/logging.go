// Package logging builds the structured logger shared by every component.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
)

// DefaultFile is the log file used while the TUI owns the terminal.
const DefaultFile = "neurobeats/neurobeats.log"

// Options selects where and how verbosely to log.
type Options struct {
	Level string // debug, info, warn, error; empty means info
	File  string // explicit log path, used only when ToFile is set
	// ToFile sends output to File, or the xdg state file when File is empty.
	ToFile bool
}

// ParseLevel maps a config level name to a log.Level.
func ParseLevel(s string) (log.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return log.InfoLevel, nil
	}
	lvl, err := log.ParseLevel(s)
	if err != nil {
		return log.InfoLevel, fmt.Errorf("log level %q: %w", s, err)
	}
	return lvl, nil
}

// New returns a logger and a closer for its output. The closer is a no-op
// when logging to stderr.
func New(opts Options) (*log.Logger, io.Closer, error) {
	lvl, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}

	var (
		w      io.Writer = os.Stderr
		closer io.Closer = nopCloser{}
	)
	if opts.ToFile {
		f, err := openFile(opts.File)
		if err != nil {
			return nil, nil, err
		}
		w, closer = f, f
	}

	logger := log.NewWithOptions(w, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	})
	return logger, closer, nil
}

// Component returns a child logger tagged with the component name.
func Component(parent *log.Logger, name string) *log.Logger {
	if parent == nil {
		parent = log.Default()
	}
	return parent.WithPrefix(name)
}

func openFile(path string) (*os.File, error) {
	if path == "" {
		p, err := xdg.StateFile(DefaultFile)
		if err != nil {
			return nil, fmt.Errorf("resolve log file: %w", err)
		}
		path = p
	} else if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
