// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import (
	"errors"
	"fmt"

	"github.com/llehouerou/neurobeats/internal/player"
)

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Playback operations
	OpPlaybackStart Op = "start playback"
	OpTrackLoad     Op = "load audio"

	// Host integrations
	OpMetricsServe Op = "serve metrics"
	OpMPRISStart   Op = "start media key integration"
	OpNotify       Op = "show notification"

	// Initialization
	OpConfigLoad Op = "load configuration"
	OpLogOpen    Op = "open log file"
	OpInitialize Op = "initialize application"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// Wrap is Format as an error that keeps err in its chain.
func Wrap(op Op, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("Failed to %s: %w", op, err) //nolint:staticcheck // user-facing, capitalized
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}

// Media turns a playback failure into a short message for the status line.
func Media(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, player.ErrPlaybackBlocked) {
		return "Press any key to start audio"
	}
	switch player.ReasonOf(err) {
	case player.NotFound:
		return "Failed to load audio. Please check the file path."
	case player.DecodeFailed:
		return "Failed to decode audio. The track may be corrupt or unsupported."
	case player.NetworkFailed:
		return "Failed to load audio. Please check your connection."
	default:
		return Format(OpPlaybackStart, err)
	}
}
