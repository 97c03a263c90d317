package player

import (
	"path"
	"sync"
	"time"

	"github.com/llehouerou/neurobeats/internal/task"
)

// VolumeSample is one level applied to an audible source.
type VolumeSample struct {
	Ref   task.TrackRef
	Level float64
}

type mockLoad struct {
	ref  task.TrackRef
	done LoadFunc
}

// Mock is a Driver test double. Loads stay pending until CompleteLoad is
// called, or complete on their own after the configured latency.
type Mock struct {
	mu sync.Mutex

	token   uint64
	state   State
	level   float64
	current task.TrackRef
	pending map[uint64]mockLoad
	onError ErrorFunc

	latency     time.Duration
	loadErrs    map[task.TrackRef]error
	gated       bool
	touched     bool
	interaction int

	loads   []task.TrackRef
	samples []VolumeSample
	pauses  int
	resumes int
	resets  int
	closed  bool
}

// NewMock creates a mock driver whose loads wait for CompleteLoad.
func NewMock() *Mock {
	return &Mock{
		state:    Stopped,
		pending:  make(map[uint64]mockLoad),
		loadErrs: make(map[task.TrackRef]error),
	}
}

func (m *Mock) LoadAndPlay(ref task.TrackRef, done LoadFunc) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.token++
	token := m.token
	clear(m.pending)
	m.pending[token] = mockLoad{ref: ref, done: done}
	m.loads = append(m.loads, ref)
	m.current = ""
	m.level = 0
	m.state = Loading

	if m.latency > 0 {
		err := m.resultLocked(ref)
		time.AfterFunc(m.latency, func() { m.complete(token, err) })
	}
	return token
}

func (m *Mock) resultLocked(ref task.TrackRef) error {
	if m.gated && !m.touched {
		return ErrPlaybackBlocked
	}
	return m.loadErrs[ref]
}

// CompleteLoad finishes the latest pending load. A nil err lets the
// configured per-ref errors and the autoplay gate apply. It reports whether a
// load was pending.
func (m *Mock) CompleteLoad(err error) bool {
	m.mu.Lock()
	token := m.token
	l, ok := m.pending[token]
	if ok && err == nil {
		err = m.resultLocked(l.ref)
	}
	m.mu.Unlock()
	if !ok {
		return false
	}
	m.complete(token, err)
	return true
}

func (m *Mock) complete(token uint64, err error) {
	m.mu.Lock()
	l, ok := m.pending[token]
	if !ok || token != m.token {
		m.mu.Unlock()
		return
	}
	delete(m.pending, token)
	if err != nil {
		m.state = Stopped
	} else {
		m.current = l.ref
		m.state = Playing
		m.samples = append(m.samples, VolumeSample{Ref: l.ref, Level: m.level})
	}
	m.mu.Unlock()

	l.done(token, err)
}

func (m *Mock) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == Playing {
		m.state = Paused
		m.pauses++
	}
}

func (m *Mock) Resume() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == Paused {
		m.state = Playing
		m.resumes++
	}
}

func (m *Mock) ResetToStart() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current != "" {
		m.resets++
	}
}

func (m *Mock) SetVolume(level float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.level = clampLevel(level)
	if m.current != "" {
		m.samples = append(m.samples, VolumeSample{Ref: m.current, Level: m.level})
	}
}

func (m *Mock) Volume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.level
}

func (m *Mock) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Mock) TrackInfo() *TrackInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == "" {
		return nil
	}
	return &TrackInfo{Ref: m.current, Title: path.Base(string(m.current)), Format: "MOCK"}
}

func (m *Mock) NotifyInteraction() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.touched = true
	m.interaction++
}

func (m *Mock) OnError(fn ErrorFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onError = fn
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.token++
	clear(m.pending)
	m.current = ""
	m.state = Stopped
	return nil
}

// Test helpers

// SetLatency makes subsequent loads complete on their own after d.
func (m *Mock) SetLatency(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latency = d
}

// SetLoadError makes loads of ref fail with err.
func (m *Mock) SetLoadError(ref task.TrackRef, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.loadErrs, ref)
		return
	}
	m.loadErrs[ref] = err
}

// SetInteractionRequired gates loads behind NotifyInteraction.
func (m *Mock) SetInteractionRequired(required bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gated = required
}

// SimulateError raises err through the OnError callback for the current load.
func (m *Mock) SimulateError(err error) {
	m.mu.Lock()
	token := m.token
	fn := m.onError
	m.current = ""
	m.state = Stopped
	m.mu.Unlock()
	if fn != nil {
		fn(token, err)
	}
}

// Loads returns every ref passed to LoadAndPlay, in order.
func (m *Mock) Loads() []task.TrackRef {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]task.TrackRef(nil), m.loads...)
}

// Samples returns every level applied to an audible source, in order.
func (m *Mock) Samples() []VolumeSample {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]VolumeSample(nil), m.samples...)
}

// Current returns the ref of the audible source, or "".
func (m *Mock) Current() task.TrackRef {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Pending returns the number of loads awaiting completion.
func (m *Mock) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

func (m *Mock) Pauses() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pauses
}

func (m *Mock) Resumes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resumes
}

func (m *Mock) Resets() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resets
}

func (m *Mock) Interactions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.interaction
}

func (m *Mock) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
