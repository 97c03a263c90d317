package session

import (
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/neurobeats/internal/player"
	"github.com/llehouerou/neurobeats/internal/task"
)

func TestSubscription_NonBlockingSend(t *testing.T) {
	sub := newSubscription()
	for i := range eventBufferSize + 5 {
		send(sub.stateCh, StateChange{Current: State(i % 4)})
	}
	assert.Len(t, sub.StateChanged, eventBufferSize)
}

func TestSubscription_Close(t *testing.T) {
	sub := newSubscription()
	sub.close()
	select {
	case <-sub.Done:
	default:
		t.Fatal("Done not closed")
	}
}

func TestSubscription_ReceivesTransitionEvents(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		d := player.NewMock()
		c := newTestController(t, d)
		sub := c.Subscribe()

		c.SelectTask(task.Math)
		require.True(t, d.CompleteLoad(nil))
		settle(2 * time.Second)
		c.SetVolume(0.9)
		c.Stop()

		assert.Equal(t, StateChange{Previous: Idle, Current: Loading}, <-sub.StateChanged)
		assert.Equal(t, StateChange{Previous: Loading, Current: Playing}, <-sub.StateChanged)
		assert.Equal(t, StateChange{Previous: Playing, Current: Stopped}, <-sub.StateChanged)

		assert.Equal(t, TaskChange{Previous: task.None, Current: task.Math, Title: "maths.m4a"}, <-sub.TaskChanged)
		assert.Equal(t, TaskChange{Previous: task.Math, Current: task.None}, <-sub.TaskChanged)

		assert.Equal(t, ElapsedChange{Seconds: 1, Formatted: "00:01"}, <-sub.ElapsedChanged)
		assert.Equal(t, ElapsedChange{Seconds: 2, Formatted: "00:02"}, <-sub.ElapsedChanged)
		assert.Equal(t, ElapsedChange{Seconds: 0, Formatted: "00:00"}, <-sub.ElapsedChanged)

		assert.Equal(t, VolumeChange{Volume: 0.9}, <-sub.VolumeChanged)
		assert.Empty(t, sub.Error)
	})
}

func TestSubscription_SameVolumeDoesNotEmit(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		c := newTestController(t, player.NewMock())
		sub := c.Subscribe()
		c.SetVolume(DefaultVolume)
		assert.Empty(t, sub.VolumeChanged)
	})
}
