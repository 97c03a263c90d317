package player

import (
	"errors"
	"sync/atomic"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/neurobeats/internal/task"
)

func TestMock_LoadWaitsForCompletion(t *testing.T) {
	m := NewMock()
	var got []loadResult
	token := m.LoadAndPlay("a.mp3", func(tok uint64, err error) {
		got = append(got, loadResult{tok, err})
	})

	assert.Equal(t, Loading, m.State())
	assert.Empty(t, got, "never completes synchronously")
	assert.Equal(t, 1, m.Pending())

	require.True(t, m.CompleteLoad(nil))
	require.Len(t, got, 1)
	assert.Equal(t, token, got[0].token)
	require.NoError(t, got[0].err)
	assert.Equal(t, Playing, m.State())
	assert.Equal(t, task.TrackRef("a.mp3"), m.Current())
	assert.False(t, m.CompleteLoad(nil), "nothing left pending")
}

func TestMock_SupersededLoadIsDropped(t *testing.T) {
	m := NewMock()
	var firstCalled bool
	m.LoadAndPlay("a.mp3", func(uint64, error) { firstCalled = true })
	second := m.LoadAndPlay("b.mp3", func(uint64, error) {})

	assert.Equal(t, 1, m.Pending())
	m.CompleteLoad(nil)
	assert.False(t, firstCalled)
	assert.Equal(t, task.TrackRef("b.mp3"), m.Current())
	assert.Equal(t, uint64(2), second)
	assert.Equal(t, []task.TrackRef{"a.mp3", "b.mp3"}, m.Loads())
}

func TestMock_VolumeSamplesTrackSource(t *testing.T) {
	m := NewMock()
	m.SetVolume(0.4) // no source: buffered only
	m.LoadAndPlay("a.mp3", func(uint64, error) {})
	m.SetVolume(0.2) // still loading
	m.CompleteLoad(nil)
	m.SetVolume(0.6)

	assert.Equal(t, []VolumeSample{
		{Ref: "a.mp3", Level: 0.2},
		{Ref: "a.mp3", Level: 0.6},
	}, m.Samples())
}

func TestMock_ErrorsAndGate(t *testing.T) {
	m := NewMock()
	m.SetInteractionRequired(true)
	m.SetLoadError("bad.mp3", &MediaError{Reason: NotFound, Ref: "bad.mp3"})

	var last error
	done := func(_ uint64, err error) { last = err }

	m.LoadAndPlay("bad.mp3", done)
	m.CompleteLoad(nil)
	require.ErrorIs(t, last, ErrPlaybackBlocked)

	m.NotifyInteraction()
	assert.Equal(t, 1, m.Interactions())
	m.LoadAndPlay("bad.mp3", done)
	m.CompleteLoad(nil)
	assert.Equal(t, NotFound, ReasonOf(last))
	assert.Equal(t, Stopped, m.State())

	explicit := errors.New("explicit")
	m.LoadAndPlay("good.mp3", done)
	m.CompleteLoad(explicit)
	assert.ErrorIs(t, last, explicit)
}

func TestMock_LatencyCompletesOnItsOwn(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		m := NewMock()
		m.SetLatency(300 * time.Millisecond)
		var done atomic.Bool
		m.LoadAndPlay("a.mp3", func(uint64, error) { done.Store(true) })

		time.Sleep(299 * time.Millisecond)
		synctest.Wait()
		assert.False(t, done.Load())

		time.Sleep(time.Millisecond)
		synctest.Wait()
		assert.True(t, done.Load())
		assert.Equal(t, Playing, m.State())
	})
}

func TestMock_PauseResumeReset(t *testing.T) {
	m := NewMock()
	m.Pause()
	m.ResetToStart()
	assert.Zero(t, m.Pauses())
	assert.Zero(t, m.Resets())

	m.LoadAndPlay("a.mp3", func(uint64, error) {})
	m.CompleteLoad(nil)
	m.Pause()
	m.Pause()
	m.Resume()
	m.ResetToStart()

	assert.Equal(t, 1, m.Pauses())
	assert.Equal(t, 1, m.Resumes())
	assert.Equal(t, 1, m.Resets())
	assert.Equal(t, Playing, m.State())
}

func TestMock_SimulateError(t *testing.T) {
	m := NewMock()
	var got loadResult
	m.OnError(func(tok uint64, err error) { got = loadResult{tok, err} })
	token := m.LoadAndPlay("a.mp3", func(uint64, error) {})
	m.CompleteLoad(nil)

	boom := &MediaError{Reason: DecodeFailed, Ref: "a.mp3"}
	m.SimulateError(boom)
	assert.Equal(t, token, got.token)
	assert.Equal(t, DecodeFailed, ReasonOf(got.err))
	assert.Nil(t, m.TrackInfo())
}
