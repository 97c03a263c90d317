package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/synctest"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/llehouerou/neurobeats/internal/observe"
	"github.com/llehouerou/neurobeats/internal/player"
	"github.com/llehouerou/neurobeats/internal/session"
	"github.com/llehouerou/neurobeats/internal/task"
)

func settle(d time.Duration) {
	time.Sleep(d)
	synctest.Wait()
}

func newTestController(t *testing.T, d *player.Mock) *session.Controller {
	t.Helper()
	metrics, err := observe.NewMetrics(noop.NewMeterProvider())
	require.NoError(t, err)
	c := session.New(d, task.NewResolver("", nil),
		session.WithLogger(log.New(io.Discard)),
		session.WithMetrics(metrics),
	)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestRootCmd_Flags(t *testing.T) {
	root := newRootCmd()

	for _, name := range []string{"config", "log-level"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(name), name)
	}
	var subs []string
	for _, c := range root.Commands() {
		subs = append(subs, c.Name())
	}
	assert.Subset(t, subs, []string{"play", "tasks"})
}

func TestPlayCmd_UnknownTask(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"play", "jazz"})
	root.SetOut(io.Discard)

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown task "jazz"`)
}

func TestPlayCmd_NeedsOneTask(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"play"})
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)

	assert.Error(t, root.Execute())
}

func TestTasksCmd_MissingConfig(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"tasks", "--config", filepath.Join(t.TempDir(), "nope.toml")})
	root.SetOut(io.Discard)

	err := root.Execute()
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Contains(t, err.Error(), "Failed to load configuration")
}

func TestPrintTasks(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "audio"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "audio", "maths.m4a"), make([]byte, 2000), 0o600))

	r := task.NewResolver(dir, map[task.Task]task.TrackRef{
		task.Coding: "https://example.com/code.m4a",
	})

	var buf bytes.Buffer
	require.NoError(t, printTasks(&buf, r))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1+len(task.All))
	assert.Equal(t, []string{"TASK", "BPM", "TRACK", "SIZE"}, strings.Fields(lines[0]))
	assert.NotContains(t, buf.String(), "│", "table is borderless")

	assert.Contains(t, lines[1], "Math")
	assert.Contains(t, lines[1], "2.0 kB")
	assert.Contains(t, lines[2], "Reading")
	assert.Contains(t, lines[2], "missing")
	assert.Contains(t, lines[3], "https://example.com/code.m4a")
	assert.Contains(t, lines[3], "remote")
}

func TestPlaySession_PrintsElapsedAndStops(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		d := player.NewMock()
		d.SetLatency(10 * time.Millisecond)
		c := newTestController(t, d)

		ctx, cancel := context.WithCancel(t.Context())
		var out bytes.Buffer
		errCh := make(chan error, 1)
		go func() {
			errCh <- playSession(ctx, c, task.Math, strings.NewReader(""), &out, time.Second)
		}()

		settle(2500 * time.Millisecond)
		assert.Equal(t, session.Playing, c.State())

		cancel()
		settle(2 * time.Second)
		require.NoError(t, <-errCh)

		assert.Contains(t, out.String(), "Math  00:02")
		assert.Equal(t, session.Stopped, c.State())
	})
}

func TestPlaySession_EnterUnblocksPlayback(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		d := player.NewMock()
		d.SetLatency(10 * time.Millisecond)
		d.SetInteractionRequired(true)
		c := newTestController(t, d)

		ctx, cancel := context.WithCancel(t.Context())
		pr, pw := io.Pipe()
		var out bytes.Buffer
		errCh := make(chan error, 1)
		go func() {
			errCh <- playSession(ctx, c, task.Reading, pr, &out, time.Second)
		}()

		settle(100 * time.Millisecond)
		assert.Equal(t, session.Idle, c.State())
		assert.Equal(t, task.Reading, c.Snapshot().Pending)

		_, err := pw.Write([]byte("\n"))
		require.NoError(t, err)
		settle(100 * time.Millisecond)

		assert.Equal(t, session.Playing, c.State())
		assert.Equal(t, 1, d.Interactions())

		require.NoError(t, pw.Close())
		cancel()
		settle(2 * time.Second)
		require.NoError(t, <-errCh)
		assert.Contains(t, out.String(), "Press Enter to start audio")
	})
}

func TestPlaySession_ReturnsLoadError(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		d := player.NewMock()
		c := newTestController(t, d)
		boom := errors.New("boom")

		errCh := make(chan error, 1)
		go func() {
			errCh <- playSession(t.Context(), c, task.Coding, strings.NewReader(""), io.Discard, time.Second)
		}()

		settle(10 * time.Millisecond)
		require.True(t, d.CompleteLoad(boom))
		synctest.Wait()

		err := <-errCh
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
	})
}
