package keymap

// Binding maps keys to an action and describes it for help.
type Binding struct {
	Action      Action
	Keys        []string
	Description string
	Context     string // "global", "tasks", "playback"
}

// All contains all key bindings.
var All = []Binding{
	// Global
	{ActionQuit, []string{"q", "ctrl+c"}, "Quit application", "global"},
	{ActionHelp, []string{"?"}, "Toggle help", "global"},

	// Tasks
	{ActionSelectMath, []string{"1", "m"}, "Math", "tasks"},
	{ActionSelectReading, []string{"2", "r"}, "Reading", "tasks"},
	{ActionSelectCoding, []string{"3", "c"}, "Coding", "tasks"},
	{ActionSelectCreative, []string{"4", "x"}, "Creative", "tasks"},
	{ActionNextTask, []string{"l", "right", "tab"}, "Highlight next task", "tasks"},
	{ActionPrevTask, []string{"h", "left", "shift+tab"}, "Highlight previous task", "tasks"},
	{ActionPlayFocused, []string{"enter"}, "Play highlighted task", "tasks"},

	// Playback
	{ActionPlayPause, []string{" "}, "Play/pause", "playback"},
	{ActionStop, []string{"s"}, "Stop session", "playback"},
	{ActionVolumeUp, []string{"+", "=", "k", "up"}, "Volume up", "playback"},
	{ActionVolumeDown, []string{"-", "j", "down"}, "Volume down", "playback"},
}

// ByContext returns key bindings filtered by context.
func ByContext(context string) []Binding {
	var result []Binding
	for _, kb := range All {
		if kb.Context == context {
			result = append(result, kb)
		}
	}
	return result
}
