// Package playerbar renders the session status line: state, task, elapsed
// time and volume.
package playerbar

import (
	"github.com/llehouerou/neurobeats/internal/icons"
	"github.com/llehouerou/neurobeats/internal/session"
	"github.com/llehouerou/neurobeats/internal/task"
	"github.com/llehouerou/neurobeats/internal/ui/render"
	"github.com/llehouerou/neurobeats/internal/ui/styles"
)

// Height is the rendered height including borders.
const Height = 3

const maxTitleWidth = 40

// State holds everything needed to render the bar.
type State struct {
	Session session.State
	Task    task.Task // active task, or the target while loading
	Pending task.Task
	Title   string
	Elapsed string
	Volume  float64
	Spinner string // animated glyph shown while loading, if any
}

// NewState builds a State from a session snapshot.
func NewState(snap session.Snapshot) State {
	t := snap.ActiveTask
	if snap.State == session.Loading {
		t = snap.Target
	}
	return State{
		Session: snap.State,
		Task:    t,
		Pending: snap.Pending,
		Title:   snap.TrackTitle,
		Elapsed: snap.ElapsedFormatted(),
		Volume:  snap.Volume,
	}
}

// Render draws the bar at the given outer width.
func Render(s State, width int) string {
	inner := max(width-barStyle.GetHorizontalFrameSize(), 0)
	style := barStyle.Width(max(width-barStyle.GetHorizontalBorderSize(), 0))

	left := s.status()
	right := icons.FormatTimer(s.Elapsed) + "   " + RenderVolume(s.Volume, volumeBarWidth)

	return style.Render(render.Row(left, right, inner))
}

func (s State) status() string {
	st := styles.T().S()
	switch s.Session {
	case session.Playing:
		return st.Playing.Render(icons.Play()+" "+s.taskLabel(s.Task)) + s.titleSuffix()
	case session.Paused:
		return st.Muted.Render(icons.Pause() + " " + s.taskLabel(s.Task) + " (paused)")
	case session.Loading:
		glyph := icons.Loading()
		if s.Spinner != "" {
			glyph = s.Spinner
		}
		return glyph + st.Muted.Render(" Loading "+s.taskLabel(s.Task)+"…")
	case session.Stopped:
		return st.Muted.Render(icons.Stop() + " Stopped")
	case session.Idle:
		if s.Pending.Valid() {
			return st.Warning.Render(icons.Waiting() + " Press any key to start " + s.taskLabel(s.Pending))
		}
	}
	return st.Subtle.Render("Pick a task to start focusing")
}

func (s State) taskLabel(t task.Task) string {
	if !t.Valid() {
		return ""
	}
	return icons.FormatTask(t, task.Lookup(t).Name)
}

func (s State) titleSuffix() string {
	if s.Title == "" || !s.Task.Valid() || s.Title == task.Lookup(s.Task).Name {
		return ""
	}
	return styles.T().S().Muted.Render(" · " + render.Truncate(s.Title, maxTitleWidth))
}
