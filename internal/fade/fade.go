// Package fade ramps a volume between two levels over a fixed duration using
// a cubic ease-out curve sampled at a fixed number of steps.
package fade

import (
	"math"
	"sync"
	"time"
)

// DefaultSteps is the number of samples taken over one fade.
const DefaultSteps = 20

// Target is anything whose volume can be set. Levels are in [0,1].
type Target interface {
	SetVolume(level float64)
}

// EaseOutCubic maps linear progress p in [0,1] onto a monotonic curve that
// moves quickly at first and settles gently.
func EaseOutCubic(p float64) float64 {
	p = clamp(p)
	return 1 - math.Pow(1-p, 3)
}

// Level returns the volume of a fade from→to at the given step.
// The last step is exactly to.
func Level(from, to float64, step, steps int) float64 {
	from, to = clamp(from), clamp(to)
	if steps <= 0 || step >= steps {
		return to
	}
	if step <= 0 {
		return from
	}
	eased := EaseOutCubic(float64(step) / float64(steps))
	return clamp(from + (to-from)*eased)
}

func clamp(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// Operation is a single in-flight fade.
type Operation struct {
	From     float64
	To       float64
	Duration time.Duration

	engine     *Engine
	target     Target
	onComplete func()
	steps      int
	step       int
	started    time.Time
	timer      *time.Timer
	finished   bool
}

// Cancel stops the fade if it is still the engine's active operation. The
// volume stays at the last applied sample and onComplete is not called.
func (o *Operation) Cancel() {
	o.engine.mu.Lock()
	defer o.engine.mu.Unlock()
	o.engine.cancelLocked(o)
}

// Done reports whether the operation finished or was cancelled.
func (o *Operation) Done() bool {
	o.engine.mu.Lock()
	defer o.engine.mu.Unlock()
	return o.finished
}

// Engine runs at most one fade at a time. Starting a fade cancels the one in
// flight, so a single target never sees two interleaved ramps.
type Engine struct {
	mu      sync.Mutex
	steps   int
	current *Operation
}

// Option configures an Engine.
type Option func(*Engine)

// WithSteps sets the number of samples per fade.
func WithSteps(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.steps = n
		}
	}
}

// NewEngine creates a fade engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{steps: DefaultSteps}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start ramps target from→to over d. Sample k is applied at start+k*d/steps.
// onComplete, if non-nil, runs on the timer goroutine after the final sample,
// with no engine lock held.
func (e *Engine) Start(target Target, from, to float64, d time.Duration, onComplete func()) *Operation {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.current != nil {
		e.cancelLocked(e.current)
	}

	op := &Operation{
		From:       clamp(from),
		To:         clamp(to),
		Duration:   max(d, 0),
		engine:     e,
		target:     target,
		onComplete: onComplete,
		steps:      e.steps,
		started:    time.Now(),
	}
	e.current = op
	op.timer = time.AfterFunc(op.delayUntil(1), func() { e.advance(op) })
	return op
}

// Cancel stops the active fade, if any.
func (e *Engine) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current != nil {
		e.cancelLocked(e.current)
	}
}

// Active reports whether a fade is in flight.
func (e *Engine) Active() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current != nil
}

func (e *Engine) cancelLocked(op *Operation) {
	if op.finished {
		return
	}
	op.finished = true
	if op.timer != nil {
		op.timer.Stop()
	}
	if e.current == op {
		e.current = nil
	}
}

// delayUntil returns how long to wait from now until sample k is due.
func (o *Operation) delayUntil(k int) time.Duration {
	due := o.started.Add(o.Duration * time.Duration(k) / time.Duration(o.steps))
	return max(time.Until(due), 0)
}

func (e *Engine) advance(op *Operation) {
	e.mu.Lock()
	if op.finished || e.current != op {
		e.mu.Unlock()
		return
	}

	op.step++
	op.target.SetVolume(Level(op.From, op.To, op.step, op.steps))

	if op.step < op.steps {
		op.timer = time.AfterFunc(op.delayUntil(op.step+1), func() { e.advance(op) })
		e.mu.Unlock()
		return
	}

	op.finished = true
	e.current = nil
	done := op.onComplete
	e.mu.Unlock()

	if done != nil {
		done()
	}
}
