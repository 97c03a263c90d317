// Package task defines the closed set of focus tasks and maps each one to
// the track that plays while it is selected.
package task

import (
	"fmt"
	"strings"
)

// Task identifies a focus activity. The zero value is None.
type Task uint8

const (
	None Task = iota
	Math
	Reading
	Coding
	Creative
)

// All lists every selectable task in display order.
var All = []Task{Math, Reading, Coding, Creative}

// String returns the upper-case identifier used in config files and logs.
func (t Task) String() string {
	switch t {
	case None:
		return "NONE"
	case Math:
		return "MATH"
	case Reading:
		return "READING"
	case Coding:
		return "CODING"
	case Creative:
		return "CREATIVE"
	default:
		return fmt.Sprintf("Task(%d)", uint8(t))
	}
}

// Valid reports whether t is one of the selectable tasks.
func (t Task) Valid() bool {
	return t >= Math && t <= Creative
}

// Next returns the task after t in display order, wrapping around.
// None yields the first task.
func (t Task) Next() Task {
	if !t.Valid() {
		return All[0]
	}
	return All[int(t-Math+1)%len(All)]
}

// Prev returns the task before t in display order, wrapping around.
// None yields the last task.
func (t Task) Prev() Task {
	if !t.Valid() {
		return All[len(All)-1]
	}
	return All[(int(t-Math)+len(All)-1)%len(All)]
}

// Parse converts a case-insensitive identifier ("reading", "MATH") into a
// Task.
func Parse(s string) (Task, error) {
	key := strings.ToUpper(strings.TrimSpace(s))
	for _, t := range All {
		if key == t.String() {
			return t, nil
		}
	}
	return None, fmt.Errorf("unknown task %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (t Task) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid task %d", uint8(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Task) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
