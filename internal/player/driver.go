// Package player owns the single audio output of a session: loading a track,
// looping it, pausing, and applying volume.
package player

import (
	"time"

	"github.com/llehouerou/neurobeats/internal/task"
)

// LoadFunc receives the outcome of a LoadAndPlay call. It is never invoked
// from inside LoadAndPlay itself.
type LoadFunc func(token uint64, err error)

// ErrorFunc receives errors raised while a loaded source is playing.
type ErrorFunc func(token uint64, err error)

// Driver is the playback contract the session controller depends on.
type Driver interface {
	// LoadAndPlay replaces the current source with ref and starts it silent.
	// The returned token identifies this load; done is called once with the
	// same token unless a newer load supersedes it first.
	LoadAndPlay(ref task.TrackRef, done LoadFunc) uint64
	Pause()
	Resume()
	// ResetToStart rewinds the current source without changing play state.
	ResetToStart()
	SetVolume(level float64)
	Volume() float64
	State() State
	TrackInfo() *TrackInfo
	// NotifyInteraction records a user gesture, lifting the autoplay gate.
	NotifyInteraction()
	OnError(fn ErrorFunc)
	Close() error
}

// TrackInfo describes the loaded source.
type TrackInfo struct {
	Ref      task.TrackRef
	Title    string
	Artist   string
	Format   string
	Duration time.Duration
}

// Verify implementations at compile time.
var (
	_ Driver = (*Player)(nil)
	_ Driver = (*Mock)(nil)
)
