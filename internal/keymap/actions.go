// Package keymap defines key bindings and action dispatch for the TUI.
package keymap

// Action represents a user-triggerable action.
type Action string

const (
	// Global actions
	ActionQuit Action = "quit"
	ActionHelp Action = "help"

	// Task selection
	ActionSelectMath     Action = "select_math"
	ActionSelectReading  Action = "select_reading"
	ActionSelectCoding   Action = "select_coding"
	ActionSelectCreative Action = "select_creative"
	ActionNextTask       Action = "next_task"
	ActionPrevTask       Action = "prev_task"
	ActionPlayFocused    Action = "play_focused" // enter - play the highlighted task

	// Playback actions
	ActionPlayPause  Action = "play_pause"
	ActionStop       Action = "stop"
	ActionVolumeUp   Action = "volume_up"
	ActionVolumeDown Action = "volume_down"
)
