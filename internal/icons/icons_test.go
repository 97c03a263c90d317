//nolint:goconst // test cases intentionally repeat strings for readability
package icons

import (
	"strings"
	"testing"

	"github.com/llehouerou/neurobeats/internal/task"
)

func TestInit(t *testing.T) {
	tests := []struct {
		name     string
		style    string
		expected Icons
	}{
		{"nerd style", "nerd", nerdIcons},
		{"unicode style", "unicode", unicodeIcons},
		{"none style", "none", noneIcons},
		{"empty string defaults to none", "", noneIcons},
		{"unknown style defaults to none", "invalid", noneIcons},
		{"case sensitive - NERD defaults to none", "NERD", noneIcons},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Init(tt.style)
			t.Cleanup(func() { Init("none") })

			if current != tt.expected {
				t.Errorf("Init(%q) selected the wrong icon set", tt.style)
			}
		})
	}
}

func TestFormatTask(t *testing.T) {
	Init("none")
	if got := FormatTask(task.Math, "Math"); got != "Math" {
		t.Errorf("FormatTask() with none style = %q, want %q", got, "Math")
	}

	Init("unicode")
	t.Cleanup(func() { Init("none") })
	for _, tk := range task.All {
		got := FormatTask(tk, "x")
		if !strings.HasSuffix(got, " x") || got == " x" {
			t.Errorf("FormatTask(%s) = %q, want icon prefix", tk, got)
		}
	}
	if got := FormatTask(task.None, "idle"); got != "idle" {
		t.Errorf("FormatTask(None) = %q, want no icon", got)
	}
}

func TestVolume(t *testing.T) {
	Init("none")
	if got := Volume(0); got != "mute" {
		t.Errorf("Volume(0) = %q, want mute", got)
	}
	if got := Volume(0.5); got != "vol" {
		t.Errorf("Volume(0.5) = %q, want vol", got)
	}
}

func TestFormatTimer(t *testing.T) {
	Init("none")
	if got := FormatTimer("01:02"); got != "01:02" {
		t.Errorf("FormatTimer() = %q", got)
	}

	Init("unicode")
	t.Cleanup(func() { Init("none") })
	if got := FormatTimer("01:02"); got != "⏱ 01:02" {
		t.Errorf("FormatTimer() = %q", got)
	}
}
