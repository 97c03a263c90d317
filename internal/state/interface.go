package state

import "github.com/llehouerou/neurobeats/internal/task"

// Interface defines the preference store contract for dependency injection and testing.
type Interface interface {
	Load() (Prefs, error)
	SaveVolume(v float64)
	SaveFocus(t task.Task)
	Close() error
}

// Verify Manager implements Interface at compile time.
var _ Interface = (*Manager)(nil)
