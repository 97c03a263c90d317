package state

import (
	"sync"

	"github.com/llehouerou/neurobeats/internal/task"
)

// Mock is a test double for Manager.
type Mock struct {
	mu      sync.Mutex
	prefs   Prefs
	volumes []float64
	focuses []task.Task
	closed  bool
}

// NewMock creates a new mock preference store for testing.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) Load() (Prefs, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.prefs, nil
}

func (m *Mock) SaveVolume(v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volumes = append(m.volumes, v)
	m.prefs.Volume = &v
}

func (m *Mock) SaveFocus(t task.Task) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !t.Valid() {
		return
	}
	m.focuses = append(m.focuses, t)
	m.prefs.Focus = t
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Test helpers

func (m *Mock) SetPrefs(p Prefs) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prefs = p
}

func (m *Mock) Volumes() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.volumes...)
}

func (m *Mock) Focuses() []task.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]task.Task(nil), m.focuses...)
}

func (m *Mock) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
