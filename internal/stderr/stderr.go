//go:build !windows

// Package stderr captures output that C audio libraries (ALSA, faad2) write
// straight to file descriptor 2, so it cannot corrupt the TUI layout.
package stderr

import (
	"bufio"
	"os"
	"strings"
	"sync"
	"syscall"
)

// Capture redirects fd 2 into a pipe and hands each non-empty line to a sink.
type Capture struct {
	orig  int
	read  *os.File
	write *os.File
	done  chan struct{}
	once  sync.Once
}

// Start begins capturing. The sink runs on a dedicated goroutine. On error
// nothing is redirected and the program can carry on without capture.
func Start(sink func(line string)) (*Capture, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}

	orig, err := syscall.Dup(int(os.Stderr.Fd()))
	if err != nil {
		r.Close()
		w.Close()
		return nil, err
	}

	if err := syscall.Dup2(int(w.Fd()), int(os.Stderr.Fd())); err != nil {
		syscall.Close(orig)
		r.Close()
		w.Close()
		return nil, err
	}

	c := &Capture{orig: orig, read: r, write: w, done: make(chan struct{})}
	go c.pump(sink)
	return c, nil
}

func (c *Capture) pump(sink func(string)) {
	defer close(c.done)
	scanner := bufio.NewScanner(c.read)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			sink(line)
		}
	}
}

// WriteOriginal writes to the terminal's stderr, bypassing capture.
func (c *Capture) WriteOriginal(msg string) {
	_, _ = syscall.Write(c.orig, []byte(msg))
}

// Stop restores fd 2 and waits for buffered lines to drain.
func (c *Capture) Stop() {
	c.once.Do(func() {
		_ = syscall.Dup2(c.orig, int(os.Stderr.Fd()))
		_ = syscall.Close(c.orig)
		c.write.Close()
		<-c.done
		c.read.Close()
	})
}
