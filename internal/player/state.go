package player

// State is the driver's view of its single source.
//
//	Stopped --LoadAndPlay--> Loading --ready--> Playing <--Pause/Resume--> Paused
//	Loading --error--> Stopped
//
// A new LoadAndPlay from any state goes back to Loading.
type State int

const (
	Stopped State = iota
	Loading
	Playing
	Paused
)

// String returns the state name for debugging.
func (s State) String() string {
	switch s {
	case Stopped:
		return "Stopped"
	case Loading:
		return "Loading"
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// HasSource reports whether a source is loaded and audible or pausable.
func (s State) HasSource() bool {
	return s == Playing || s == Paused
}
