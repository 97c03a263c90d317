// Package icons selects the glyphs used by the TUI.
package icons

import "github.com/llehouerou/neurobeats/internal/task"

// Style represents the icon style to use.
type Style string

const (
	StyleNerd    Style = "nerd"
	StyleUnicode Style = "unicode"
	StyleNone    Style = "none"
)

// Icons holds the icon characters for the current style.
type Icons struct {
	Play    string
	Pause   string
	Stop    string
	Loading string
	Waiting string // playback held until a key press
	Volume  string
	Mute    string
	Timer   string

	Math     string
	Reading  string
	Coding   string
	Creative string
}

var (
	nerdIcons = Icons{
		Play:    "", // nf-fa-play
		Pause:   "", // nf-fa-pause
		Stop:    "", // nf-fa-stop
		Loading: "󰔟",      // nf-md-timer_sand
		Waiting: "󰌌",      // nf-md-keyboard
		Volume:  "󰕾",      // nf-md-volume_high
		Mute:    "󰝟",      // nf-md-volume_off
		Timer:   "󱎫",      // nf-md-timer_outline

		Math:     "󰪚", // nf-md-calculator_variant
		Reading:  "󰂺", // nf-md-book_open_variant
		Coding:   "", // nf-fa-code
		Creative: "󰏘", // nf-md-palette
	}

	unicodeIcons = Icons{
		Play:    "▶",
		Pause:   "⏸",
		Stop:    "⏹",
		Loading: "⏳",
		Waiting: "⌨",
		Volume:  "🔊",
		Mute:    "🔇",
		Timer:   "⏱",

		Math:     "∑",
		Reading:  "📖",
		Coding:   "⌘",
		Creative: "🎨",
	}

	noneIcons = Icons{
		Play:    ">",
		Pause:   "||",
		Stop:    "[]",
		Loading: "...",
		Waiting: "[key]",
		Volume:  "vol",
		Mute:    "mute",
		Timer:   "",
	}

	// current holds the active icon set
	current = noneIcons
)

// Init initializes the icons based on the style.
// Call this once at startup with the config value.
func Init(style string) {
	switch Style(style) {
	case StyleNerd:
		current = nerdIcons
	case StyleUnicode:
		current = unicodeIcons
	case StyleNone:
		current = noneIcons
	default:
		current = noneIcons
	}
}

// Play returns the playing indicator.
func Play() string { return current.Play }

// Pause returns the paused indicator.
func Pause() string { return current.Pause }

// Stop returns the stopped indicator.
func Stop() string { return current.Stop }

// Loading returns the loading indicator.
func Loading() string { return current.Loading }

// Waiting returns the indicator for playback held until a key press.
func Waiting() string { return current.Waiting }

// Volume returns the volume icon, or the mute icon at level 0.
func Volume(level float64) string {
	if level <= 0 {
		return current.Mute
	}
	return current.Volume
}

// FormatTimer prefixes the elapsed time with the timer icon.
func FormatTimer(elapsed string) string {
	if current.Timer == "" {
		return elapsed
	}
	return current.Timer + " " + elapsed
}

// FormatTask prefixes a task name with its icon.
func FormatTask(t task.Task, name string) string {
	var icon string
	switch t {
	case task.Math:
		icon = current.Math
	case task.Reading:
		icon = current.Reading
	case task.Coding:
		icon = current.Coding
	case task.Creative:
		icon = current.Creative
	case task.None:
	}
	if icon == "" {
		return name
	}
	return icon + " " + name
}
