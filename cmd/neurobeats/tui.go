package main

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/llehouerou/neurobeats/internal/app"
	"github.com/llehouerou/neurobeats/internal/errmsg"
	"github.com/llehouerou/neurobeats/internal/logging"
	"github.com/llehouerou/neurobeats/internal/mpris"
	"github.com/llehouerou/neurobeats/internal/notify"
	"github.com/llehouerou/neurobeats/internal/stderr"
)

func runTUI(ctx context.Context, flags *globalFlags) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	rt, err := bootstrap(ctx, flags, true)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, rt.Close()) }()

	// ALSA and the C decoders write straight to fd 2; keep that out of the
	// alt screen and in the log instead.
	audioLog := logging.Component(rt.log, "audio")
	if capture, cerr := stderr.Start(func(line string) { audioLog.Warn(line) }); cerr != nil {
		rt.log.Warn("stderr capture unavailable", "err", cerr)
	} else {
		defer capture.Stop()
	}

	if rt.cfg.MPRISEnabled() {
		adapter, merr := mpris.New(rt.ctrl, logging.Component(rt.log, "mpris"))
		switch {
		case errors.Is(merr, mpris.ErrUnsupported):
			rt.log.Debug("mpris disabled", "reason", merr)
		case merr != nil:
			rt.log.Warn(errmsg.Format(errmsg.OpMPRISStart, merr))
		default:
			defer adapter.Close()
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	if rt.cfg.NotificationsEnabled() {
		notifier, nerr := notify.New()
		if nerr != nil {
			rt.log.Warn(errmsg.Format(errmsg.OpNotify, nerr))
		} else {
			w := notify.NewWatcher(notifier, rt.ctrl.TrackFor, logging.Component(rt.log, "notify"))
			sub := rt.ctrl.Subscribe()
			g.Go(func() error {
				w.Run(ctx, sub)
				return nil
			})
		}
	}

	g.Go(func() error { return rt.serveMetrics(ctx) })
	g.Go(func() error { return rt.followPrefs(ctx) })

	g.Go(func() error {
		defer cancel()
		p := tea.NewProgram(app.New(rt.ctrl).WithFocus(rt.saved.Focus),
			tea.WithAltScreen(),
			tea.WithReportFocus(),
			tea.WithContext(ctx),
		)
		_, perr := p.Run()
		if errors.Is(perr, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return perr
	})

	return g.Wait()
}
