package player

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"

	"github.com/llehouerou/neurobeats/internal/task"
)

var (
	speakerMu          sync.Mutex
	speakerInitialized bool
	speakerSampleRate  beep.SampleRate
)

// initSpeaker opens the output device once, at the first track's rate.
func initSpeaker(rate beep.SampleRate) (beep.SampleRate, error) {
	speakerMu.Lock()
	defer speakerMu.Unlock()
	if speakerInitialized {
		return speakerSampleRate, nil
	}
	if err := speaker.Init(rate, rate.N(time.Second/10)); err != nil {
		return 0, err
	}
	speakerInitialized = true
	speakerSampleRate = rate
	return rate, nil
}

// source is one decoded, looping track wired into the speaker.
type source struct {
	stream beep.StreamSeekCloser
	ctrl   *beep.Ctrl
	volume *effects.Volume
	info   *TrackInfo
}

// Option configures a Player.
type Option func(*Player)

// WithLogger sets the logger. Defaults to log.Default().
func WithLogger(l *log.Logger) Option {
	return func(p *Player) { p.log = l }
}

// WithHTTPClient sets the client used to fetch remote tracks.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Player) { p.client = c }
}

// WithInteractionRequired makes loads fail with ErrPlaybackBlocked until
// NotifyInteraction is called.
func WithInteractionRequired() Option {
	return func(p *Player) { p.gated = true }
}

// Player plays tracks through the system speaker.
type Player struct {
	mu      sync.Mutex
	log     *log.Logger
	client  *http.Client
	gated   bool
	touched bool

	token   uint64
	cancel  context.CancelFunc
	state   State
	level   float64
	src     *source
	onError ErrorFunc
	closed  bool
}

// New creates a stopped player.
func New(opts ...Option) *Player {
	p := &Player{
		log:    log.Default(),
		client: http.DefaultClient,
		state:  Stopped,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// LoadAndPlay drops the current source and loads ref in the background.
func (p *Player) LoadAndPlay(ref task.TrackRef, done LoadFunc) uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.token++
	token := p.token
	if p.cancel != nil {
		p.cancel()
	}
	p.releaseLocked()
	p.level = 0

	if p.closed {
		go done(token, errors.New("player closed"))
		return token
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.state = Loading
	blocked := p.gated && !p.touched

	go p.load(ctx, token, ref, blocked, done)
	return token
}

func (p *Player) load(ctx context.Context, token uint64, ref task.TrackRef, blocked bool, done LoadFunc) {
	if blocked {
		p.finish(token, nil, ErrPlaybackBlocked, done)
		return
	}
	start := time.Now()
	src, err := p.openSource(ctx, token, ref)
	if err == nil {
		p.log.Debug("track ready", "ref", ref, "format", src.info.Format, "took", time.Since(start))
	}
	p.finish(token, src, err, done)
}

func (p *Player) openSource(ctx context.Context, token uint64, ref task.TrackRef) (*source, error) {
	rs, err := open(ctx, p.client, p.log, ref)
	if err != nil {
		return nil, err
	}
	info := readTrackInfo(rs, ref)

	stream, format, codec, err := decode(rs, ref.Ext())
	if err != nil {
		rs.Close()
		return nil, mediaErr(DecodeFailed, ref, err)
	}
	info.Format = codec
	info.Duration = format.SampleRate.D(stream.Len())

	rate, err := initSpeaker(format.SampleRate)
	if err != nil {
		stream.Close()
		return nil, mediaErr(DecodeFailed, ref, fmt.Errorf("init speaker: %w", err))
	}

	var s beep.Streamer = &loopStreamer{
		src: stream,
		onErr: func(err error) {
			go p.streamFailed(token, mediaErr(DecodeFailed, ref, err))
		},
	}
	if format.SampleRate != rate {
		s = beep.Resample(4, format.SampleRate, rate, s)
	}
	ctrl := &beep.Ctrl{Streamer: s}
	return &source{
		stream: stream,
		ctrl:   ctrl,
		volume: &effects.Volume{Streamer: ctrl, Base: 2, Silent: true},
		info:   info,
	}, nil
}

// finish installs src if token is still current, then reports. A superseded
// load is released without a callback.
func (p *Player) finish(token uint64, src *source, err error, done LoadFunc) {
	p.mu.Lock()
	if token != p.token || p.closed {
		p.mu.Unlock()
		if src != nil {
			src.stream.Close()
		}
		p.log.Debug("dropping superseded load", "token", token)
		return
	}
	if err != nil {
		p.state = Stopped
		p.mu.Unlock()
		done(token, err)
		return
	}

	p.src = src
	p.state = Playing
	p.applyLevelLocked()
	speaker.Play(src.volume)
	p.mu.Unlock()

	done(token, nil)
}

func (p *Player) streamFailed(token uint64, err error) {
	p.mu.Lock()
	if token != p.token || p.src == nil {
		p.mu.Unlock()
		return
	}
	p.log.Error("stream failed", "err", err)
	p.releaseLocked()
	fn := p.onError
	p.mu.Unlock()

	if fn != nil {
		fn(token, err)
	}
}

// releaseLocked stops and closes the current source.
func (p *Player) releaseLocked() {
	p.state = Stopped
	if p.src == nil {
		return
	}
	speaker.Clear()
	if err := p.src.stream.Close(); err != nil {
		p.log.Debug("closing source", "err", err)
	}
	p.src = nil
}

// Pause silences output and holds the position.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != Playing || p.src == nil {
		return
	}
	speaker.Lock()
	p.src.ctrl.Paused = true
	speaker.Unlock()
	p.state = Paused
}

// Resume continues a paused source.
func (p *Player) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != Paused || p.src == nil {
		return
	}
	speaker.Lock()
	p.src.ctrl.Paused = false
	speaker.Unlock()
	p.state = Playing
}

// ResetToStart rewinds the current source.
func (p *Player) ResetToStart() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.src == nil {
		return
	}
	speaker.Lock()
	err := p.src.stream.Seek(0)
	speaker.Unlock()
	if err != nil {
		p.log.Warn("rewind failed", "err", err)
	}
}

// SetVolume sets the output level (0.0 to 1.0). While a load is in flight
// the level is held and applied when the source starts.
func (p *Player) SetVolume(level float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.level = clampLevel(level)
	p.applyLevelLocked()
}

func (p *Player) applyLevelLocked() {
	if p.src == nil {
		return
	}
	speaker.Lock()
	p.src.volume.Silent = p.level <= 0
	p.src.volume.Volume = levelToVolume(p.level)
	speaker.Unlock()
}

// Volume returns the current output level.
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}

// State returns the current playback state.
func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// TrackInfo returns metadata of the loaded source, or nil.
func (p *Player) TrackInfo() *TrackInfo {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.src == nil {
		return nil
	}
	info := *p.src.info
	return &info
}

// NotifyInteraction lifts the autoplay gate for subsequent loads.
func (p *Player) NotifyInteraction() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.touched = true
}

// OnError sets the callback for errors raised during playback.
func (p *Player) OnError(fn ErrorFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onError = fn
}

// Close stops playback. Pending loads complete silently.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	p.token++
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.releaseLocked()
	return nil
}
