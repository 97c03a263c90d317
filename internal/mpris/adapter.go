// Package mpris exposes the focus session over the MPRIS D-Bus interface.
package mpris

import (
	"errors"
	"fmt"
	"hash/fnv"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/llehouerou/neurobeats/internal/session"
	"github.com/llehouerou/neurobeats/internal/task"
)

// ErrUnsupported is returned by New on platforms without a session bus.
var ErrUnsupported = errors.New("mpris: not supported on this platform")

// Session is the part of the session controller driven by media keys.
type Session interface {
	SelectTask(t task.Task)
	Stop()
	Pause()
	Resume()
	Toggle()
	Interaction()
	SetVolume(v float64)
	Snapshot() session.Snapshot
	Subscribe() *session.Subscription
	TrackFor(t task.Task) task.TrackRef
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct{}

func (r *rootAdapter) Raise() error {
	return nil // Not supported
}

func (r *rootAdapter) Quit() error {
	return nil // Not supported - app manages its own lifecycle
}

func (r *rootAdapter) CanQuit() (bool, error) {
	return false, nil
}

func (r *rootAdapter) CanRaise() (bool, error) {
	return false, nil
}

func (r *rootAdapter) HasTrackList() (bool, error) {
	return false, nil
}

func (r *rootAdapter) Identity() (string, error) {
	return "Neurobeats", nil
}

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{}, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter. Next and
// Previous cycle through the tasks.
type playerAdapter struct {
	session Session

	mu   sync.Mutex
	last task.Task // most recent task that played, kept across stop
}

func newPlayerAdapter(s Session) *playerAdapter {
	return &playerAdapter{session: s}
}

// follow records the last audible task until done closes.
func (p *playerAdapter) follow(sub *session.Subscription, done <-chan struct{}) {
	for {
		select {
		case e := <-sub.TaskChanged:
			p.remember(e.Current)
		case <-sub.Done:
			return
		case <-done:
			return
		}
	}
}

func (p *playerAdapter) remember(t task.Task) {
	if !t.Valid() {
		return
	}
	p.mu.Lock()
	p.last = t
	p.mu.Unlock()
}

// current is the task the user perceives as selected.
func (p *playerAdapter) current(snap session.Snapshot) task.Task {
	switch {
	case snap.State == session.Loading && snap.Target.Valid():
		return snap.Target
	case snap.ActiveTask.Valid():
		return snap.ActiveTask
	case snap.Pending.Valid():
		return snap.Pending
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

func (p *playerAdapter) Next() error {
	p.session.SelectTask(p.current(p.session.Snapshot()).Next())
	return nil
}

func (p *playerAdapter) Previous() error {
	p.session.SelectTask(p.current(p.session.Snapshot()).Prev())
	return nil
}

func (p *playerAdapter) Pause() error {
	p.session.Pause()
	return nil
}

func (p *playerAdapter) PlayPause() error {
	snap := p.session.Snapshot()
	if snap.State == session.Playing || snap.State == session.Paused {
		p.session.Toggle()
		return nil
	}
	return p.Play()
}

func (p *playerAdapter) Stop() error {
	p.session.Stop()
	return nil
}

// Play resumes a paused session, releases a task held for interaction, or
// restarts the last task.
func (p *playerAdapter) Play() error {
	snap := p.session.Snapshot()
	switch {
	case snap.State == session.Paused:
		p.session.Resume()
	case snap.State == session.Playing, snap.State == session.Loading:
	case snap.Pending.Valid():
		p.session.Interaction()
	default:
		t := p.current(snap)
		if !t.Valid() {
			t = task.All[0]
		}
		p.session.SelectTask(t)
	}
	return nil
}

func (p *playerAdapter) Seek(_ types.Microseconds) error {
	return nil // Not supported
}

func (p *playerAdapter) SetPosition(_ string, _ types.Microseconds) error {
	return nil // Not supported
}

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(_ string) error {
	return nil // Not supported
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	switch p.session.Snapshot().State {
	case session.Playing, session.Loading:
		return types.PlaybackStatusPlaying, nil
	case session.Paused:
		return types.PlaybackStatusPaused, nil
	case session.Idle, session.Stopped:
		return types.PlaybackStatusStopped, nil
	}
	return types.PlaybackStatusStopped, nil
}

func (p *playerAdapter) Rate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) SetRate(_ float64) error {
	return nil // Not supported
}

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	snap := p.session.Snapshot()
	t := snap.ActiveTask
	if !t.Valid() {
		return types.Metadata{}, nil
	}

	info := task.Lookup(t)
	ref := p.session.TrackFor(t)
	title := snap.TrackTitle
	if title == "" {
		title = info.Name
	}

	meta := types.Metadata{
		TrackId: dbus.ObjectPath(formatTrackID(ref)),
		Title:   title,
		Artist:  []string{"Neurobeats"},
		Album:   info.Name + " · " + info.BPM,
	}
	if !ref.IsRemote() {
		if artPath := FindAlbumArt(string(ref)); artPath != "" {
			meta.ArtUrl = "file://" + artPath
		}
	}
	return meta, nil
}

func (p *playerAdapter) Volume() (float64, error) {
	return p.session.Snapshot().Volume, nil
}

func (p *playerAdapter) SetVolume(v float64) error {
	p.session.SetVolume(v)
	return nil
}

// Position reports the session timer, the only clock the session keeps.
func (p *playerAdapter) Position() (int64, error) {
	return int64(p.session.Snapshot().ElapsedSeconds) * 1_000_000, nil
}

func (p *playerAdapter) MinimumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) MaximumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) CanGoNext() (bool, error) {
	return true, nil
}

func (p *playerAdapter) CanGoPrevious() (bool, error) {
	return true, nil
}

func (p *playerAdapter) CanPlay() (bool, error) {
	return true, nil
}

func (p *playerAdapter) CanPause() (bool, error) {
	return true, nil
}

func (p *playerAdapter) CanSeek() (bool, error) {
	return false, nil
}

func (p *playerAdapter) CanControl() (bool, error) {
	return true, nil
}

func formatTrackID(ref task.TrackRef) string {
	h := fnv.New64a()
	h.Write([]byte(ref))
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%x", h.Sum64())
}
