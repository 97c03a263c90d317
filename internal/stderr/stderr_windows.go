//go:build windows

// Package stderr is a no-op on Windows, whose audio backend does not write
// to the console.
package stderr

import "os"

// Capture is a no-op on Windows.
type Capture struct{}

// Start is a no-op on Windows.
func Start(_ func(line string)) (*Capture, error) {
	return &Capture{}, nil
}

// WriteOriginal writes to stderr.
func (c *Capture) WriteOriginal(msg string) {
	_, _ = os.Stderr.WriteString(msg)
}

// Stop is a no-op on Windows.
func (c *Capture) Stop() {}
