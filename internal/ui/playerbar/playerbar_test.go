package playerbar

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/llehouerou/neurobeats/internal/icons"
	"github.com/llehouerou/neurobeats/internal/session"
	"github.com/llehouerou/neurobeats/internal/task"
)

func TestRenderLevelBar(t *testing.T) {
	tests := []struct {
		level float64
		width int
		want  string
	}{
		{0, 4, "░░░░"},
		{1, 4, "▓▓▓▓"},
		{0.5, 4, "▓▓░░"},
		{1.7, 3, "▓▓▓"},
		{-1, 3, "░░░"},
		{0.5, 0, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RenderLevelBar(tt.level, tt.width), "level %v width %d", tt.level, tt.width)
	}
}

func TestRenderVolume(t *testing.T) {
	icons.Init("none")
	assert.Contains(t, RenderVolume(0.5, 4), "vol ▓▓░░  50%")
	assert.Contains(t, RenderVolume(0, 4), "mute")
}

func TestNewState_LoadingShowsTarget(t *testing.T) {
	s := NewState(session.Snapshot{
		State:          session.Loading,
		ActiveTask:     task.Math,
		Target:         task.Coding,
		ElapsedSeconds: 65,
		Volume:         0.5,
	})
	assert.Equal(t, task.Coding, s.Task)
	assert.Equal(t, "01:05", s.Elapsed)
}

func TestRender_Statuses(t *testing.T) {
	icons.Init("none")
	tests := []struct {
		name  string
		state State
		want  string
	}{
		{"idle", State{Session: session.Idle}, "Pick a task"},
		{"pending", State{Session: session.Idle, Pending: task.Reading}, "Press any key to start Reading"},
		{"loading", State{Session: session.Loading, Task: task.Coding}, "Loading Coding"},
		{"playing", State{Session: session.Playing, Task: task.Math, Title: "Pulse"}, "Math · Pulse"},
		{"paused", State{Session: session.Paused, Task: task.Math}, "(paused)"},
		{"stopped", State{Session: session.Stopped}, "Stopped"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.state.Elapsed = "00:00"
			out := Render(tt.state, 100)
			assert.Contains(t, out, tt.want)
			assert.Equal(t, Height, lipgloss.Height(out))
		})
	}
}

func TestRender_FitsWidth(t *testing.T) {
	icons.Init("none")
	out := Render(State{Session: session.Playing, Task: task.Creative, Elapsed: "12:34", Volume: 1}, 80)
	for _, line := range strings.Split(out, "\n") {
		assert.Equal(t, 80, lipgloss.Width(line))
	}
}

func TestRender_NarrowKeepsStatus(t *testing.T) {
	icons.Init("none")
	out := Render(State{Session: session.Stopped, Elapsed: "00:00"}, 16)
	assert.Contains(t, out, "Stopped")
}

func TestRender_LongTitleIsShortened(t *testing.T) {
	s := State{
		Session: session.Playing,
		Task:    task.Coding,
		Title:   strings.Repeat("x", 80),
		Elapsed: "00:05",
		Volume:  0.5,
	}
	out := Render(s, 200)
	assert.NotContains(t, out, strings.Repeat("x", maxTitleWidth+1))
	assert.Contains(t, out, "…")
}
