// Package session runs the focus-music session: which task is playing, the
// crossfade between tasks, and the elapsed session time.
package session

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/llehouerou/neurobeats/internal/fade"
	"github.com/llehouerou/neurobeats/internal/observe"
	"github.com/llehouerou/neurobeats/internal/player"
	"github.com/llehouerou/neurobeats/internal/stopwatch"
	"github.com/llehouerou/neurobeats/internal/task"
)

// Controller is the only writer of session state. Every input returns
// immediately; fades and loads finish on other goroutines and report back
// through callbacks guarded by a transition generation and the driver's load
// token.
//
// Lock order is controller, then fade engine, then driver.
type Controller struct {
	mu sync.Mutex

	log      *log.Logger
	metrics  *observe.Metrics
	driver   player.Driver
	resolver *task.Resolver
	fader    *fade.Engine
	clock    *stopwatch.Stopwatch

	fadeDuration time.Duration
	fadeSteps    int
	loadTimeout  time.Duration

	state      State
	active     task.Task
	target     task.Task
	pending    task.Task
	volume     float64
	lastErr    error
	title      string
	foreground bool
	interacted bool

	gen       uint64
	loadToken uint64
	loadStart time.Time
	loadTimer *time.Timer
	closed    bool

	subs       []*Subscription
	subsMu     sync.Mutex
	subsClosed bool
}

// New creates an idle controller driving d.
func New(d player.Driver, r *task.Resolver, opts ...Option) *Controller {
	c := &Controller{
		log:          log.Default(),
		driver:       d,
		resolver:     r,
		clock:        stopwatch.New(),
		fadeDuration: DefaultFadeDuration,
		fadeSteps:    fade.DefaultSteps,
		volume:       DefaultVolume,
		foreground:   true,
		state:        Idle,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.metrics == nil {
		c.metrics = observe.DefaultMetrics()
	}
	c.fader = fade.NewEngine(fade.WithSteps(c.fadeSteps))
	c.clock.OnTick(c.onTick)
	d.OnError(c.onDriverError)
	return c
}

// SelectTask switches the session to t. Selecting the task that is already
// playing does nothing; selecting it while paused resumes it. Any other
// selection, including one made mid-transition, starts a fresh transition.
// It panics if t is not a selectable task.
func (c *Controller) SelectTask(t task.Task) {
	if !t.Valid() {
		panic(fmt.Sprintf("session: select %s: not a selectable task", t))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	switch {
	case c.state == Playing && c.active == t:
		return
	case c.state == Paused && c.active == t:
		c.resumeLocked()
		return
	}
	c.beginLocked(t)
}

// beginLocked starts a transition toward t. If anything is audible it is
// faded out first; the new source is requested only after that fade lands.
func (c *Controller) beginLocked(t task.Task) {
	c.gen++
	gen := c.gen
	c.stopLoadTimerLocked()

	c.target = t
	c.pending = task.None
	c.lastErr = nil
	c.setStateLocked(Loading)
	c.resetClockLocked()
	c.metrics.RecordTaskSwitch(context.Background(), t.String())
	c.log.Debug("transition", "target", t, "gen", gen)

	if c.audibleLocked() {
		c.fader.Start(c.driver, c.driver.Volume(), 0, c.fadeDuration, func() {
			c.fadedOut(gen)
		})
		return
	}
	c.fader.Cancel()
	c.loadLocked(gen, t)
}

func (c *Controller) audibleLocked() bool {
	return c.driver.State() == player.Playing && c.driver.Volume() > 0
}

func (c *Controller) fadedOut(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen || c.state != Loading || c.closed {
		return
	}
	c.loadLocked(gen, c.target)
}

func (c *Controller) loadLocked(gen uint64, t task.Task) {
	ref := c.resolver.Resolve(t)
	c.loadStart = time.Now()
	token := c.driver.LoadAndPlay(ref, func(token uint64, err error) {
		c.loadDone(gen, t, token, err)
	})
	c.loadToken = token
	c.log.Debug("loading", "task", t, "ref", ref, "token", token)

	if c.loadTimeout > 0 {
		c.loadTimer = time.AfterFunc(c.loadTimeout, func() {
			c.loadTimedOut(gen, t, ref, token)
		})
	}
}

func (c *Controller) loadDone(gen uint64, t task.Task, token uint64, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if token != c.loadToken || c.closed {
		c.metrics.RecordSuperseded(context.Background())
		c.log.Debug("ignoring stale load", "task", t, "token", token, "current", c.loadToken)
		return
	}
	if gen != c.gen {
		// The transition was abandoned without a newer load, e.g. by Stop.
		// A source that started anyway must not stay audible.
		c.metrics.RecordSuperseded(context.Background())
		if err == nil {
			c.driver.Pause()
			c.driver.ResetToStart()
		}
		return
	}
	c.stopLoadTimerLocked()

	switch {
	case err == nil:
		c.metrics.RecordLoad(context.Background(), t.String(), "ok", time.Since(c.loadStart))
		c.startPlayingLocked(t)
	case errors.Is(err, player.ErrPlaybackBlocked):
		c.metrics.RecordLoad(context.Background(), t.String(), "blocked", time.Since(c.loadStart))
		c.log.Info("playback blocked until interaction", "task", t)
		c.target = task.None
		c.pending = t
		c.setActiveLocked(task.None, "")
		c.setStateLocked(Idle)
	default:
		c.metrics.RecordLoad(context.Background(), t.String(), "error", time.Since(c.loadStart))
		c.failLocked(t, err)
	}
}

func (c *Controller) startPlayingLocked(t task.Task) {
	title := ""
	if info := c.driver.TrackInfo(); info != nil {
		title = info.Title
	}
	c.target = task.None
	c.setActiveLocked(t, title)
	c.setStateLocked(Playing)
	c.resetClockLocked()
	if c.foreground {
		c.clock.Start()
	}
	c.fader.Start(c.driver, 0, c.volume, c.fadeDuration, nil)
	c.log.Info("playing", "task", t, "title", title)
}

func (c *Controller) loadTimedOut(gen uint64, t task.Task, ref task.TrackRef, token uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen || token != c.loadToken || c.state != Loading || c.closed {
		return
	}
	// Abandon the transition so a late success is paused and rewound.
	c.gen++
	c.loadTimer = nil
	c.metrics.RecordLoad(context.Background(), t.String(), "timeout", time.Since(c.loadStart))
	c.failLocked(t, &player.MediaError{
		Reason: player.NetworkFailed,
		Ref:    ref,
		Err:    fmt.Errorf("no response after %s: %w", c.loadTimeout, context.DeadlineExceeded),
	})
}

func (c *Controller) onDriverError(token uint64, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if token != c.loadToken || c.closed {
		return
	}
	c.gen++
	c.stopLoadTimerLocked()
	c.failLocked(c.active, err)
}

// failLocked silences audio and returns to Idle with err recorded.
func (c *Controller) failLocked(t task.Task, err error) {
	c.log.Error("playback failed", "task", t, "err", err)
	c.metrics.RecordLoadFailure(context.Background(), t.String(), player.ReasonOf(err).String())

	c.lastErr = err
	c.fader.Cancel()
	c.driver.SetVolume(0)
	c.driver.Pause()
	c.target = task.None
	c.pending = task.None
	c.resetClockLocked()
	c.setActiveLocked(task.None, "")
	c.setStateLocked(Idle)
	c.emitError(ErrorEvent{Task: t, Err: err, Message: Snapshot{LastError: err}.LastErrorMessage()})
}

// Stop silences the session and clears the active task. The timer and
// IsPlaying reset at once; the driver is paused and rewound once the
// fade-out lands.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.state == Stopped {
		return
	}

	c.gen++
	gen := c.gen
	c.stopLoadTimerLocked()
	c.target = task.None
	c.pending = task.None
	c.resetClockLocked()
	c.setActiveLocked(task.None, "")
	c.setStateLocked(Stopped)

	if c.audibleLocked() {
		c.fader.Start(c.driver, c.driver.Volume(), 0, c.fadeDuration, func() {
			c.silenced(gen, true)
		})
		return
	}
	c.fader.Cancel()
	c.driver.Pause()
	c.driver.ResetToStart()
}

// silenced runs after a stop or pause fade-out lands.
func (c *Controller) silenced(gen uint64, rewind bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen || c.closed {
		return
	}
	c.driver.Pause()
	if rewind {
		c.driver.ResetToStart()
	}
}

// Pause fades out and holds the position of the playing task. The timer
// freezes without resetting.
func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.pauseLocked()
}

func (c *Controller) pauseLocked() {
	if c.state != Playing {
		return
	}
	c.gen++
	gen := c.gen
	c.setStateLocked(Paused)
	c.clock.Pause()
	c.fader.Start(c.driver, c.driver.Volume(), 0, c.fadeDuration, func() {
		c.silenced(gen, false)
	})
}

// Resume continues a paused task.
func (c *Controller) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.resumeLocked()
}

func (c *Controller) resumeLocked() {
	if c.state != Paused {
		return
	}
	c.gen++
	c.driver.Resume()
	c.setStateLocked(Playing)
	if c.foreground {
		c.clock.Start()
	}
	c.fader.Start(c.driver, c.driver.Volume(), c.volume, c.fadeDuration, nil)
}

// Toggle pauses a playing session and resumes a paused one.
func (c *Controller) Toggle() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	switch c.state {
	case Playing:
		c.pauseLocked()
	case Paused:
		c.resumeLocked()
	}
}

// Interaction records a user gesture. The first one lifts the driver's
// autoplay gate; a task blocked by that gate is then selected again.
func (c *Controller) Interaction() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if !c.interacted {
		c.interacted = true
		c.driver.NotifyInteraction()
	}
	if c.pending != task.None && c.state == Idle {
		t := c.pending
		c.log.Debug("retrying blocked selection", "task", t)
		c.beginLocked(t)
	}
}

// SetVolume sets the target level, clamped to [0,1]. While playing it is
// applied at once, replacing any fade-in.
func (c *Controller) SetVolume(v float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	v = clampVolume(v)
	if v == c.volume {
		return
	}
	c.volume = v
	if c.state == Playing {
		c.fader.Cancel()
		c.driver.SetVolume(v)
	}
	c.emitVolume(VolumeChange{Volume: v})
}

// SetForeground pauses the session timer while the host is in the background.
func (c *Controller) SetForeground(fg bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.foreground = fg
	if c.state != Playing {
		return
	}
	if fg {
		c.clock.Start()
	} else {
		c.clock.Pause()
	}
}

func (c *Controller) onTick(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	// A reset may have landed between the tick and this call.
	if c.closed || c.clock.Elapsed() != n {
		return
	}
	if c.active != task.None {
		c.metrics.RecordListenSecond(context.Background(), c.active.String())
	}
	c.emitElapsed(n)
}

func (c *Controller) resetClockLocked() {
	if c.clock.Elapsed() == 0 && !c.clock.Running() {
		return
	}
	c.clock.Reset()
	c.emitElapsed(0)
}

func (c *Controller) stopLoadTimerLocked() {
	if c.loadTimer != nil {
		c.loadTimer.Stop()
		c.loadTimer = nil
	}
}

func (c *Controller) setStateLocked(s State) {
	if c.state == s {
		return
	}
	prev := c.state
	c.state = s
	c.emitState(StateChange{Previous: prev, Current: s})
}

func (c *Controller) setActiveLocked(t task.Task, title string) {
	c.title = title
	if c.active == t {
		return
	}
	prev := c.active
	c.active = t
	c.emitTask(TaskChange{Previous: prev, Current: t, Title: title})
}

// Snapshot returns a copy of the session state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		State:          c.state,
		ActiveTask:     c.active,
		Target:         c.target,
		Pending:        c.pending,
		IsPlaying:      c.state == Playing,
		ElapsedSeconds: c.clock.Elapsed(),
		Volume:         c.volume,
		LastError:      c.lastErr,
		TrackTitle:     c.title,
	}
}

// State returns the current controller state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ActiveTask returns the task currently selected and loaded, or task.None.
func (c *Controller) ActiveTask() task.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// IsPlaying reports whether the active task is audible.
func (c *Controller) IsPlaying() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == Playing
}

// TrackFor returns the track a task resolves to.
func (c *Controller) TrackFor(t task.Task) task.TrackRef {
	return c.resolver.Resolve(t)
}

// Elapsed returns the whole seconds counted in the current session.
func (c *Controller) Elapsed() int {
	return c.clock.Elapsed()
}

// ElapsedFormatted returns the session time as MM:SS.
func (c *Controller) ElapsedFormatted() string {
	return stopwatch.Format(c.clock.Elapsed())
}

// Volume returns the target level.
func (c *Controller) Volume() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.volume
}

// LastErrorMessage returns the user-facing text of the last failure, or "".
func (c *Controller) LastErrorMessage() string {
	return c.Snapshot().LastErrorMessage()
}

// Subscribe creates a new event subscription. Subscribing after Close
// returns an already finished subscription.
func (c *Controller) Subscribe() *Subscription {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	sub := newSubscription()
	if c.subsClosed {
		sub.close()
		return sub
	}
	c.subs = append(c.subs, sub)
	return sub
}

// Close stops all activity, closes the driver and ends every subscription.
func (c *Controller) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.gen++
	c.stopLoadTimerLocked()
	c.fader.Cancel()
	c.clock.Reset()
	c.state = Idle
	c.active, c.target, c.pending = task.None, task.None, task.None
	c.title = ""
	err := c.driver.Close()
	c.mu.Unlock()

	c.subsMu.Lock()
	for _, sub := range c.subs {
		sub.close()
	}
	c.subs = nil
	c.subsClosed = true
	c.subsMu.Unlock()

	if err != nil {
		return fmt.Errorf("close driver: %w", err)
	}
	return nil
}

func (c *Controller) emitState(e StateChange) {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	for _, sub := range c.subs {
		send(sub.stateCh, e)
	}
}

func (c *Controller) emitTask(e TaskChange) {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	for _, sub := range c.subs {
		send(sub.taskCh, e)
	}
}

func (c *Controller) emitElapsed(n int) {
	e := ElapsedChange{Seconds: n, Formatted: stopwatch.Format(n)}
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	for _, sub := range c.subs {
		send(sub.elapsedCh, e)
	}
}

func (c *Controller) emitVolume(e VolumeChange) {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	for _, sub := range c.subs {
		send(sub.volumeCh, e)
	}
}

func (c *Controller) emitError(e ErrorEvent) {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	for _, sub := range c.subs {
		send(sub.errorCh, e)
	}
}

func clampVolume(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
