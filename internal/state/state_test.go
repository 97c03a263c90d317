package state

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/llehouerou/neurobeats/internal/session"
	"github.com/llehouerou/neurobeats/internal/task"
)

func openTestManager(t *testing.T, path string) *Manager {
	t.Helper()
	m, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return m
}

func TestLoad_Empty(t *testing.T) {
	m := openTestManager(t, ":memory:")
	defer m.Close()

	p, err := m.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if p.Volume != nil {
		t.Errorf("Volume = %v, want nil", *p.Volume)
	}
	if p.Focus != task.None {
		t.Errorf("Focus = %v, want None", p.Focus)
	}
}

func TestSave_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.db")

	m := openTestManager(t, path)
	m.SaveVolume(0.7)
	m.SaveFocus(task.Coding)
	if err := m.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	m = openTestManager(t, path)
	defer m.Close()
	p, err := m.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if p.Volume == nil || *p.Volume != 0.7 {
		t.Errorf("Volume = %v, want 0.7", p.Volume)
	}
	if p.Focus != task.Coding {
		t.Errorf("Focus = %v, want CODING", p.Focus)
	}
}

func TestLoad_SeesPendingWrites(t *testing.T) {
	m := openTestManager(t, ":memory:")
	defer m.Close()

	m.SaveFocus(task.Reading)

	p, err := m.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if p.Focus != task.Reading {
		t.Errorf("Focus = %v, want READING", p.Focus)
	}
}

func TestSave_PartialUpdateKeepsOtherField(t *testing.T) {
	m := openTestManager(t, ":memory:")
	defer m.Close()

	if err := savePrefs(m.db, Prefs{Focus: task.Math}); err != nil {
		t.Fatalf("savePrefs failed: %v", err)
	}
	v := 0.3
	if err := savePrefs(m.db, Prefs{Volume: &v}); err != nil {
		t.Fatalf("savePrefs failed: %v", err)
	}

	p, err := loadPrefs(m.db)
	if err != nil {
		t.Fatalf("loadPrefs failed: %v", err)
	}
	if p.Focus != task.Math {
		t.Errorf("Focus = %v, want MATH", p.Focus)
	}
	if p.Volume == nil || *p.Volume != 0.3 {
		t.Errorf("Volume = %v, want 0.3", p.Volume)
	}
}

func TestSaveFocus_IgnoresNone(t *testing.T) {
	m := openTestManager(t, ":memory:")
	defer m.Close()

	m.SaveFocus(task.Creative)
	m.SaveFocus(task.None)

	p, _ := m.Load()
	if p.Focus != task.Creative {
		t.Errorf("Focus = %v, want CREATIVE", p.Focus)
	}
}

func TestLoad_ForgetsUnknownFocus(t *testing.T) {
	m := openTestManager(t, ":memory:")
	defer m.Close()

	if _, err := m.db.Exec(`INSERT INTO preferences (id, focus, updated_at) VALUES (1, 'JAZZ', 0)`); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	p, err := m.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if p.Focus != task.None {
		t.Errorf("Focus = %v, want None", p.Focus)
	}
}

func TestSave_Debounced(t *testing.T) {
	m := openTestManager(t, ":memory:")
	defer m.Close()

	m.SaveVolume(0.4)

	p, err := loadPrefs(m.db)
	if err != nil {
		t.Fatalf("loadPrefs failed: %v", err)
	}
	if p.Volume != nil {
		t.Fatalf("volume written before debounce: %v", *p.Volume)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if p, _ = loadPrefs(m.db); p.Volume != nil {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}
	if p.Volume == nil || *p.Volume != 0.4 {
		t.Errorf("Volume = %v, want 0.4 after debounce", p.Volume)
	}
}

func TestClose_LateFlushNeverWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.db")

	m := openTestManager(t, path)
	m.SaveVolume(0.3)
	if err := m.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// A debounce timer that fired just before Close lands here afterwards.
	m.saveMu.Lock()
	m.pending, m.dirty = Prefs{Volume: new(float64)}, true
	m.saveMu.Unlock()
	if err := m.flush(); err != nil {
		t.Errorf("flush after Close = %v, want nil", err)
	}
	if err := m.Close(); err != nil {
		t.Errorf("second Close = %v, want nil", err)
	}

	m = openTestManager(t, path)
	defer m.Close()
	p, err := m.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if p.Volume == nil || *p.Volume != 0.3 {
		t.Errorf("Volume = %v, want 0.3", p.Volume)
	}
}

func TestFlushInBackground_LogsFailure(t *testing.T) {
	var buf bytes.Buffer
	m, err := Open(context.Background(), ":memory:", WithLogger(log.New(&buf)))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	m.SaveVolume(0.4)
	m.saveMu.Lock()
	m.saveTimer.Stop()
	m.saveMu.Unlock()

	_ = m.db.Close()
	m.flushInBackground()

	if !strings.Contains(buf.String(), "save preferences") {
		t.Errorf("log = %q, want a save failure", buf.String())
	}
}

func TestOpen_SchemaIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.db")
	openTestManager(t, path).Close()

	m := openTestManager(t, path)
	defer m.Close()

	var version int
	if err := m.db.QueryRow(`SELECT MAX(version) FROM schema_version`).Scan(&version); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if version != currentSchemaVersion {
		t.Errorf("version = %d, want %d", version, currentSchemaVersion)
	}
}

type fakeEvents struct {
	state   chan session.StateChange
	task    chan session.TaskChange
	elapsed chan session.ElapsedChange
	volume  chan session.VolumeChange
	errs    chan session.ErrorEvent
	done    chan struct{}
}

func newFakeEvents() (*fakeEvents, *session.Subscription) {
	f := &fakeEvents{
		state:   make(chan session.StateChange),
		task:    make(chan session.TaskChange),
		elapsed: make(chan session.ElapsedChange),
		volume:  make(chan session.VolumeChange),
		errs:    make(chan session.ErrorEvent),
		done:    make(chan struct{}),
	}
	return f, &session.Subscription{
		StateChanged:   f.state,
		TaskChanged:    f.task,
		ElapsedChanged: f.elapsed,
		VolumeChanged:  f.volume,
		Error:          f.errs,
		Done:           f.done,
	}
}

func TestFollow_RecordsVolumeAndTask(t *testing.T) {
	f, sub := newFakeEvents()
	store := NewMock()

	finished := make(chan struct{})
	go func() {
		Follow(context.Background(), store, sub)
		close(finished)
	}()

	f.volume <- session.VolumeChange{Volume: 0.65}
	f.task <- session.TaskChange{Previous: task.None, Current: task.Math}
	f.task <- session.TaskChange{Previous: task.Math, Current: task.None}
	f.elapsed <- session.ElapsedChange{Seconds: 1}
	close(f.done)
	<-finished

	if got := store.Volumes(); len(got) != 1 || got[0] != 0.65 {
		t.Errorf("Volumes = %v, want [0.65]", got)
	}
	if got := store.Focuses(); len(got) != 1 || got[0] != task.Math {
		t.Errorf("Focuses = %v, want [MATH]", got)
	}
}

func TestFollow_StopsOnContext(t *testing.T) {
	_, sub := newFakeEvents()
	ctx, cancel := context.WithCancel(context.Background())

	finished := make(chan struct{})
	go func() {
		Follow(ctx, NewMock(), sub)
		close(finished)
	}()
	cancel()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("Follow did not return after cancel")
	}
}
