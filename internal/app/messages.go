package app

import "github.com/llehouerou/neurobeats/internal/session"

// SessionStateMsg is sent when the session state changes.
type SessionStateMsg session.StateChange

// TaskChangedMsg is sent when the audible task changes.
type TaskChangedMsg session.TaskChange

// ElapsedMsg is sent on every session timer tick.
type ElapsedMsg session.ElapsedChange

// VolumeMsg is sent when the target volume changes.
type VolumeMsg session.VolumeChange

// SessionErrorMsg is sent when a load or playback fails.
type SessionErrorMsg session.ErrorEvent

// SessionClosedMsg is sent when the session is closed.
type SessionClosedMsg struct{}
