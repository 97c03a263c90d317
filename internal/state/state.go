// Package state remembers user preferences between runs: the last volume
// and the last focused task. It records no session history.
package state

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"

	dbutil "github.com/llehouerou/neurobeats/internal/db"
	"github.com/llehouerou/neurobeats/internal/task"
)

const (
	appName      = "neurobeats"
	dbFileName   = "neurobeats.db"
	saveDebounce = 500 * time.Millisecond
)

// Prefs are the remembered preferences. Nil or None fields were never saved.
type Prefs struct {
	Volume *float64
	Focus  task.Task
}

type Manager struct {
	db  *sql.DB
	log *log.Logger

	saveMu    sync.Mutex
	saveTimer *time.Timer
	pending   Prefs
	dirty     bool

	// flushMu orders database writes and guards closed.
	flushMu sync.Mutex
	closed  bool
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger reports failed background writes to l.
func WithLogger(l *log.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// Open opens the preference store at path, or at the xdg data location
// when path is empty.
func Open(ctx context.Context, path string, opts ...Option) (*Manager, error) {
	if path == "" {
		var err error
		if path, err = xdg.DataFile(filepath.Join(appName, dbFileName)); err != nil {
			return nil, err
		}
	}

	db, err := dbutil.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	m := &Manager{db: db, log: log.New(io.Discard)}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Load returns the saved preferences merged with any not yet flushed.
func (m *Manager) Load() (Prefs, error) {
	p, err := loadPrefs(m.db)
	if err != nil {
		return Prefs{}, err
	}
	m.saveMu.Lock()
	defer m.saveMu.Unlock()
	if m.dirty {
		p = merge(p, m.pending)
	}
	return p, nil
}

// SaveVolume records v. Writes are debounced.
func (m *Manager) SaveVolume(v float64) {
	m.save(Prefs{Volume: &v})
}

// SaveFocus records t. Writes are debounced.
func (m *Manager) SaveFocus(t task.Task) {
	if !t.Valid() {
		return
	}
	m.save(Prefs{Focus: t})
}

func (m *Manager) save(p Prefs) {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	m.pending = merge(m.pending, p)
	m.dirty = true

	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}
	m.saveTimer = time.AfterFunc(saveDebounce, m.flushInBackground)
}

func (m *Manager) flushInBackground() {
	if err := m.flush(); err != nil {
		m.log.Warn("save preferences", "err", err)
	}
}

// flush writes the pending preferences. Writes never overlap and never
// reach a closed database.
func (m *Manager) flush() error {
	m.flushMu.Lock()
	defer m.flushMu.Unlock()
	if m.closed {
		return nil
	}
	return m.flushLocked()
}

func (m *Manager) flushLocked() error {
	m.saveMu.Lock()
	pending, dirty := m.pending, m.dirty
	m.pending, m.dirty = Prefs{}, false
	m.saveMu.Unlock()

	if !dirty {
		return nil
	}
	return savePrefs(m.db, pending)
}

// Close flushes pending writes and closes the database.
func (m *Manager) Close() error {
	m.saveMu.Lock()
	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}
	m.saveMu.Unlock()

	m.flushMu.Lock()
	defer m.flushMu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	return errors.Join(m.flushLocked(), m.db.Close())
}

func merge(base, over Prefs) Prefs {
	if over.Volume != nil {
		base.Volume = over.Volume
	}
	if over.Focus.Valid() {
		base.Focus = over.Focus
	}
	return base
}

func loadPrefs(db *sql.DB) (Prefs, error) {
	var volume sql.NullFloat64
	var focus sql.NullString
	err := db.QueryRow(`SELECT volume, focus FROM preferences WHERE id = 1`).Scan(&volume, &focus)
	if errors.Is(err, sql.ErrNoRows) {
		return Prefs{}, nil
	}
	if err != nil {
		return Prefs{}, err
	}

	p := Prefs{Volume: dbutil.NullFloat64ToPtr(volume)}
	if name := dbutil.NullStringValue(focus); name != "" {
		// A task dropped from the catalog is simply forgotten.
		p.Focus, _ = task.Parse(name)
	}
	return p, nil
}

func savePrefs(db *sql.DB, p Prefs) error {
	var volume sql.NullFloat64
	if p.Volume != nil {
		volume = sql.NullFloat64{Float64: *p.Volume, Valid: true}
	}
	var focus sql.NullString
	if p.Focus.Valid() {
		focus = sql.NullString{String: p.Focus.String(), Valid: true}
	}
	_, err := db.Exec(`
		INSERT INTO preferences (id, volume, focus, updated_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			volume = COALESCE(excluded.volume, volume),
			focus = COALESCE(excluded.focus, focus),
			updated_at = excluded.updated_at
	`, volume, focus, time.Now().Unix())
	return err
}
