//go:build linux

package mpris

import (
	"github.com/charmbracelet/log"
	"github.com/quarckster/go-mpris-server/pkg/server"
)

// Adapter publishes the session on the D-Bus session bus so media keys and
// desktop shells can control it.
type Adapter struct {
	server *server.Server
	player *playerAdapter
	done   chan struct{}
}

// New creates and starts a new MPRIS adapter.
func New(s Session, logger *log.Logger) (*Adapter, error) {
	if logger == nil {
		logger = log.Default()
	}
	a := &Adapter{
		player: newPlayerAdapter(s),
		done:   make(chan struct{}),
	}
	a.server = server.NewServer("neurobeats", &rootAdapter{}, a.player)

	go a.player.follow(s.Subscribe(), a.done)
	go func() {
		if err := a.server.Listen(); err != nil {
			logger.Warn("mpris server stopped", "err", err)
		}
	}()

	return a, nil
}

// Close stops the adapter and releases D-Bus resources.
func (a *Adapter) Close() error {
	close(a.done)
	return a.server.Stop()
}
