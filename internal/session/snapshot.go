package session

import (
	"github.com/llehouerou/neurobeats/internal/errmsg"
	"github.com/llehouerou/neurobeats/internal/stopwatch"
	"github.com/llehouerou/neurobeats/internal/task"
)

// Snapshot is a read-only copy of the session state.
type Snapshot struct {
	State State
	// ActiveTask is the task whose track is (or was last) audible; None when
	// idle or stopped.
	ActiveTask task.Task
	// Target is the task being loaded while State is Loading.
	Target task.Task
	// Pending is a task waiting for user interaction before it can play.
	Pending        task.Task
	IsPlaying      bool
	ElapsedSeconds int
	// Volume is the user's target level, not the current ramp value.
	Volume     float64
	LastError  error
	TrackTitle string
}

// ElapsedFormatted renders ElapsedSeconds as MM:SS.
func (s Snapshot) ElapsedFormatted() string {
	return stopwatch.Format(s.ElapsedSeconds)
}

// LastErrorMessage returns the user-facing text for LastError, or "".
func (s Snapshot) LastErrorMessage() string {
	return errmsg.Media(s.LastError)
}
