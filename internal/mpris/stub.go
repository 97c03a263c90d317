//go:build !linux

package mpris

import "github.com/charmbracelet/log"

// Adapter exists so callers compile everywhere; it is never returned.
type Adapter struct{}

// New reports ErrUnsupported: there is no session bus outside Linux.
func New(Session, *log.Logger) (*Adapter, error) {
	return nil, ErrUnsupported
}

func (*Adapter) Close() error { return nil }
