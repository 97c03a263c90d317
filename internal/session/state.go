package session

// State is the controller's position in the session lifecycle.
//
//	Idle|Stopped --SelectTask--> Loading --ready--> Playing
//	Loading --blocked|error--> Idle
//	Playing --SelectTask(other)--> Loading
//	Playing --Pause--> Paused --Resume--> Playing
//	any --Stop--> Stopped
//	any --driver error--> Idle
type State int

const (
	Idle State = iota
	Loading
	Playing
	Paused
	Stopped
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Loading:
		return "Loading"
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	case Stopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// IsActive returns true if a task is selected and audible or pausable.
func (s State) IsActive() bool {
	return s == Playing || s == Paused
}
