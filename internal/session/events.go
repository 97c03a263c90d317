package session

import "github.com/llehouerou/neurobeats/internal/task"

// StateChange is emitted when the controller state changes.
type StateChange struct {
	Previous State
	Current  State
}

// TaskChange is emitted when the active task changes.
//
// Emitted when a load succeeds for a different task, and with Current ==
// task.None on stop or failure. A transition in progress does not emit;
// observe StateChange for Loading.
type TaskChange struct {
	Previous task.Task
	Current  task.Task
	Title    string
}

// ElapsedChange is emitted on every timer tick and on reset.
type ElapsedChange struct {
	Seconds   int
	Formatted string
}

// VolumeChange is emitted when the target volume changes.
type VolumeChange struct {
	Volume float64
}

// ErrorEvent is emitted when a load or playback fails.
type ErrorEvent struct {
	Task    task.Task
	Err     error
	Message string
}
