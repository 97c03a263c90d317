package main

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/llehouerou/neurobeats/internal/config"
	"github.com/llehouerou/neurobeats/internal/errmsg"
	"github.com/llehouerou/neurobeats/internal/icons"
	"github.com/llehouerou/neurobeats/internal/logging"
	"github.com/llehouerou/neurobeats/internal/observe"
	"github.com/llehouerou/neurobeats/internal/player"
	"github.com/llehouerou/neurobeats/internal/session"
	"github.com/llehouerou/neurobeats/internal/state"
	"github.com/llehouerou/neurobeats/internal/task"
)

type globalFlags struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	var flags globalFlags

	root := &cobra.Command{
		Use:           "neurobeats",
		Short:         "Task-matched focus music",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), &flags)
		},
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/neurobeats/config.toml)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "debug, info, warn or error (overrides config)")

	root.AddCommand(newPlayCmd(&flags))
	root.AddCommand(newTasksCmd(&flags))
	return root
}

func loadConfig(flags *globalFlags) (*config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, errmsg.Wrap(errmsg.OpConfigLoad, err)
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	return cfg, nil
}

func newResolver(cfg *config.Config) (*task.Resolver, error) {
	overrides, err := cfg.TrackOverrides()
	if err != nil {
		return nil, errmsg.Wrap(errmsg.OpConfigLoad, err)
	}
	return task.NewResolver(cfg.TracksDir, overrides), nil
}

// runtime is everything a running session owns.
type runtime struct {
	cfg     *config.Config
	log     *log.Logger
	ctrl    *session.Controller
	prefs   state.Interface // nil when preferences are not remembered
	saved   state.Prefs
	closers []func() error
}

// bootstrap wires config, logging, metrics, the audio driver and the
// session controller. With tui set the log goes to a file so it does not
// draw over the interface.
func bootstrap(ctx context.Context, flags *globalFlags, tui bool) (*runtime, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}
	resolver, err := newResolver(cfg)
	if err != nil {
		return nil, err
	}

	logger, logCloser, err := logging.New(logging.Options{
		Level:  cfg.LogLevel(),
		File:   cfg.Log.File,
		ToFile: tui,
	})
	if err != nil {
		return nil, errmsg.Wrap(errmsg.OpLogOpen, err)
	}
	rt := &runtime{cfg: cfg, log: logger}
	rt.closers = append(rt.closers, logCloser.Close)

	if cfg.HasMetricsConfig() {
		shutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{ServiceVersion: version})
		if err != nil {
			_ = rt.Close()
			return nil, errmsg.Wrap(errmsg.OpInitialize, err)
		}
		rt.closers = append(rt.closers, func() error { return shutdown(context.Background()) })
	}

	icons.Init(cfg.IconStyle())

	if cfg.RememberEnabled() {
		rt.openPrefs(ctx)
	}

	popts := []player.Option{player.WithLogger(logging.Component(logger, "player"))}
	if cfg.RequireInteraction {
		popts = append(popts, player.WithInteractionRequired())
	}

	sc := cfg.GetSessionConfig()
	if cfg.Volume == nil && rt.saved.Volume != nil && *rt.saved.Volume >= 0 && *rt.saved.Volume <= 1 {
		sc.Volume = *rt.saved.Volume
	}
	rt.ctrl = session.New(player.New(popts...), resolver,
		session.WithLogger(logging.Component(logger, "session")),
		session.WithMetrics(observe.DefaultMetrics()),
		session.WithFadeDuration(sc.FadeDuration),
		session.WithFadeSteps(sc.FadeSteps),
		session.WithVolume(sc.Volume),
		session.WithLoadTimeout(sc.LoadTimeout),
	)
	// The controller closes before the log and metrics it reports to.
	rt.closers = append([]func() error{rt.ctrl.Close}, rt.closers...)

	logger.Debug("session ready",
		"fade", sc.FadeDuration, "steps", sc.FadeSteps, "volume", sc.Volume,
		"tracks_dir", cfg.TracksDir)
	return rt, nil
}

// openPrefs loads remembered preferences. A broken store only costs the
// restore, so failures are logged and the session starts without it.
func (rt *runtime) openPrefs(ctx context.Context) {
	store, err := state.Open(ctx, rt.cfg.StateFile, state.WithLogger(logging.Component(rt.log, "state")))
	if err != nil {
		rt.log.Warn("preferences unavailable", "err", err)
		return
	}
	saved, err := store.Load()
	if err != nil {
		rt.log.Warn("preferences unreadable", "err", err)
	}
	rt.prefs, rt.saved = store, saved
	rt.closers = append(rt.closers, store.Close)
}

// followPrefs saves preference changes until ctx is done.
func (rt *runtime) followPrefs(ctx context.Context) error {
	if rt.prefs != nil {
		state.Follow(ctx, rt.prefs, rt.ctrl.Subscribe())
	}
	return nil
}

// Close releases everything in order, reporting every failure.
func (rt *runtime) Close() error {
	var errs []error
	for _, c := range rt.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	rt.closers = nil
	return errors.Join(errs...)
}

// serveMetrics blocks serving /metrics until ctx is done, or returns at once
// when no listen address is configured.
func (rt *runtime) serveMetrics(ctx context.Context) error {
	if !rt.cfg.HasMetricsConfig() {
		return nil
	}
	if err := observe.Serve(ctx, rt.cfg.Metrics.Listen, logging.Component(rt.log, "metrics")); err != nil {
		return errmsg.Wrap(errmsg.OpMetricsServe, err)
	}
	return nil
}
