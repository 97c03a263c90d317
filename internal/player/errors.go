package player

import (
	"errors"
	"fmt"

	"github.com/llehouerou/neurobeats/internal/task"
)

// ErrPlaybackBlocked is returned when the output refuses to start until the
// user has interacted. It is recoverable and not a media failure.
var ErrPlaybackBlocked = errors.New("playback blocked until user interaction")

// Reason classifies a media failure.
type Reason int

const (
	NotFound Reason = iota + 1
	DecodeFailed
	NetworkFailed
)

func (r Reason) String() string {
	switch r {
	case NotFound:
		return "not found"
	case DecodeFailed:
		return "decode failed"
	case NetworkFailed:
		return "network failed"
	default:
		return "unknown"
	}
}

// MediaError reports that a track could not be fetched, opened or decoded.
type MediaError struct {
	Reason Reason
	Ref    task.TrackRef
	Err    error
}

func (e *MediaError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Ref, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %v", e.Ref, e.Reason, e.Err)
}

func (e *MediaError) Unwrap() error { return e.Err }

func mediaErr(reason Reason, ref task.TrackRef, err error) error {
	return &MediaError{Reason: reason, Ref: ref, Err: err}
}

// ReasonOf returns the media failure reason carried by err, or 0.
func ReasonOf(err error) Reason {
	var me *MediaError
	if errors.As(err, &me) {
		return me.Reason
	}
	return 0
}
