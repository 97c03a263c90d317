package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/llehouerou/neurobeats/internal/session"
	"github.com/llehouerou/neurobeats/internal/task"
)

func newPlayCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "play <task>",
		Short: "Play a task headless until interrupted",
		Long: "Play the track for a task and print the session time. Press Enter " +
			"if the audio backend waits for a key press; Ctrl+C fades out and exits.",
		Args:      cobra.ExactArgs(1),
		ValidArgs: taskNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := task.Parse(args[0])
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runPlay(ctx, flags, t, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func taskNames() []string {
	names := make([]string, len(task.All))
	for i, t := range task.All {
		names[i] = t.String()
	}
	return names
}

func runPlay(ctx context.Context, flags *globalFlags, t task.Task, in io.Reader, out io.Writer) (err error) {
	rt, err := bootstrap(ctx, flags, false)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, rt.Close()) }()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return rt.serveMetrics(gctx) })
	g.Go(func() error { return rt.followPrefs(gctx) })
	g.Go(func() error {
		// The helpers run until the session ends, even when it ends cleanly.
		defer cancel()
		return playSession(gctx, rt.ctrl, t, in, out, rt.cfg.GetSessionConfig().FadeDuration)
	})
	return g.Wait()
}

// Controller is the session surface the headless player drives.
type Controller interface {
	SelectTask(t task.Task)
	Stop()
	Interaction()
	Snapshot() session.Snapshot
	Subscribe() *session.Subscription
}

// playSession runs t until ctx is done or playback fails. Each line read
// from in counts as a user interaction.
func playSession(ctx context.Context, c Controller, t task.Task, in io.Reader, out io.Writer, fade time.Duration) error {
	sub := c.Subscribe()
	c.SelectTask(t)

	done := make(chan struct{})
	defer close(done)
	lines := make(chan struct{})
	go readLines(in, lines, done)

	name := task.Lookup(t).Name
	for {
		select {
		case e := <-sub.ElapsedChanged:
			_, _ = fmt.Fprintf(out, "\r%s  %s", name, e.Formatted)
		case e := <-sub.TaskChanged:
			if e.Current.Valid() && e.Title != "" {
				_, _ = fmt.Fprintf(out, "\r%s: %s\n", name, e.Title)
			}
		case e := <-sub.StateChanged:
			if e.Current == session.Idle && c.Snapshot().Pending.Valid() {
				_, _ = fmt.Fprintln(out, "\rPress Enter to start audio")
			}
		case e := <-sub.Error:
			_, _ = fmt.Fprintln(out)
			return fmt.Errorf("%s: %w", e.Message, e.Err)
		case <-lines:
			c.Interaction()
		case <-sub.Done:
			return nil
		case <-ctx.Done():
			_, _ = fmt.Fprintln(out)
			c.Stop()
			// Let the fade-out land before the driver closes.
			time.Sleep(fade)
			return nil
		}
	}
}

func readLines(in io.Reader, lines chan<- struct{}, done <-chan struct{}) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		select {
		case lines <- struct{}{}:
		case <-done:
			return
		}
	}
}
