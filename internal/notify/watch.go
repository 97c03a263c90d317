package notify

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/llehouerou/neurobeats/internal/session"
	"github.com/llehouerou/neurobeats/internal/task"
)

const (
	timeout      int32 = 4000
	taskCategory       = "x-neurobeats.task"
)

// Watcher turns session events into desktop notifications. Task changes
// replace one another so only the latest stays on screen.
type Watcher struct {
	notifier Notifier
	trackFor func(task.Task) task.TrackRef
	log      *log.Logger
	lastID   uint32
}

// NewWatcher creates a watcher. trackFor supplies the track used to find
// artwork.
func NewWatcher(n Notifier, trackFor func(task.Task) task.TrackRef, logger *log.Logger) *Watcher {
	if logger == nil {
		logger = log.Default()
	}
	return &Watcher{notifier: n, trackFor: trackFor, log: logger}
}

// Run consumes sub until ctx is cancelled or the subscription ends.
func (w *Watcher) Run(ctx context.Context, sub *session.Subscription) {
	for {
		select {
		case e := <-sub.StateChanged:
			if e.Current == session.Stopped {
				w.withdraw()
			}
		case e := <-sub.TaskChanged:
			w.taskChanged(e)
		case e := <-sub.Error:
			w.failed(e)
		case <-sub.Done:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (w *Watcher) taskChanged(e session.TaskChange) {
	if !e.Current.Valid() {
		return
	}
	info := task.Lookup(e.Current)

	body := info.BPM
	if e.Title != "" && e.Title != info.Name {
		body = e.Title + " · " + body
	}
	var icon string
	if w.trackFor != nil {
		icon = FindAlbumArtPath(w.trackFor(e.Current))
	}

	w.send(Notification{
		Title:      "Now focusing: " + info.Name,
		Body:       body,
		Icon:       icon,
		Timeout:    timeout,
		ReplacesID: w.lastID,
		Urgency:    UrgencyLow,
		Category:   taskCategory,
		Transient:  true,
	})
}

func (w *Watcher) failed(e session.ErrorEvent) {
	if e.Message == "" {
		return
	}
	title := "Playback failed"
	if e.Task.Valid() {
		title = task.Lookup(e.Task).Name + ": " + strings.ToLower(title)
	}
	w.send(Notification{
		Title:      title,
		Body:       e.Message,
		Timeout:    timeout,
		ReplacesID: w.lastID,
		Urgency:    UrgencyNormal,
	})
}

// withdraw closes the notification on screen, if any.
func (w *Watcher) withdraw() {
	if w.lastID == 0 {
		return
	}
	if err := w.notifier.Close(w.lastID); err != nil {
		w.log.Debug("closing notification failed", "id", w.lastID, "err", err)
	}
	w.lastID = 0
}

func (w *Watcher) send(n Notification) {
	id, err := w.notifier.Notify(n)
	if err != nil {
		w.log.Debug("notification failed", "title", n.Title, "err", err)
		return
	}
	if id != 0 {
		w.lastID = id
	}
}
