// Package stopwatch counts whole seconds of session time.
package stopwatch

import (
	"fmt"
	"sync"
	"time"
)

// Stopwatch counts whole elapsed seconds while running. Ticks are scheduled
// against the time Start was called, so the count does not drift.
type Stopwatch struct {
	mu      sync.Mutex
	elapsed int
	running bool
	gen     uint64
	anchor  time.Time
	base    int
	timer   *time.Timer
	onTick  func(elapsed int)
}

// New returns a stopped stopwatch at zero.
func New() *Stopwatch {
	return &Stopwatch{}
}

// OnTick registers fn to be called after every increment with the new count.
// fn runs on the timer goroutine with no stopwatch lock held.
func (s *Stopwatch) OnTick(fn func(elapsed int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onTick = fn
}

// Start begins counting from the current value. No-op if already running.
func (s *Stopwatch) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.gen++
	s.anchor = time.Now()
	s.base = s.elapsed
	s.scheduleLocked()
}

// Pause freezes the count. The partial second in progress is dropped.
func (s *Stopwatch) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.haltLocked()
}

// Reset stops the stopwatch and sets the count to zero.
func (s *Stopwatch) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.haltLocked()
	s.elapsed = 0
}

// Elapsed returns the number of whole seconds counted.
func (s *Stopwatch) Elapsed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsed
}

// Running reports whether the stopwatch is counting.
func (s *Stopwatch) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Stopwatch) haltLocked() {
	s.running = false
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Stopwatch) scheduleLocked() {
	gen := s.gen
	next := s.anchor.Add(time.Duration(s.elapsed-s.base+1) * time.Second)
	s.timer = time.AfterFunc(max(time.Until(next), 0), func() { s.tick(gen) })
}

func (s *Stopwatch) tick(gen uint64) {
	s.mu.Lock()
	if !s.running || gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.elapsed++
	n := s.elapsed
	fn := s.onTick
	s.scheduleLocked()
	s.mu.Unlock()

	if fn != nil {
		fn(n)
	}
}

// Format renders seconds as MM:SS. Minutes are not capped at 59.
func Format(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
