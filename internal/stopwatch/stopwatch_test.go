package stopwatch

import (
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "00:00"},
		{5, "00:05"},
		{59, "00:59"},
		{60, "01:00"},
		{754, "12:34"},
		{6000, "100:00"},
		{-3, "00:00"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.seconds))
		})
	}
}

func TestStopwatch_CountsWholeSeconds(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		s := New()
		s.Start()

		time.Sleep(999 * time.Millisecond)
		synctest.Wait()
		assert.Equal(t, 0, s.Elapsed())

		time.Sleep(time.Millisecond)
		synctest.Wait()
		assert.Equal(t, 1, s.Elapsed())

		time.Sleep(4 * time.Second)
		synctest.Wait()
		assert.Equal(t, 5, s.Elapsed())
		s.Reset()
	})
}

func TestStopwatch_OnTickReportsEveryIncrement(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var mu sync.Mutex
		var got []int
		s := New()
		s.OnTick(func(n int) {
			mu.Lock()
			got = append(got, n)
			mu.Unlock()
		})
		s.Start()
		time.Sleep(3*time.Second + 500*time.Millisecond)
		synctest.Wait()
		s.Pause()

		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, []int{1, 2, 3}, got)
	})
}

func TestStopwatch_PauseFreezesCount(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		s := New()
		s.Start()
		time.Sleep(2*time.Second + 300*time.Millisecond)
		synctest.Wait()

		s.Pause()
		assert.False(t, s.Running())
		time.Sleep(10 * time.Second)
		synctest.Wait()
		assert.Equal(t, 2, s.Elapsed())

		s.Start()
		time.Sleep(time.Second)
		synctest.Wait()
		assert.Equal(t, 3, s.Elapsed())
		s.Reset()
	})
}

func TestStopwatch_ResetZeroesAndStops(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		s := New()
		s.Start()
		time.Sleep(3 * time.Second)
		synctest.Wait()

		s.Reset()
		assert.Equal(t, 0, s.Elapsed())
		assert.False(t, s.Running())

		time.Sleep(5 * time.Second)
		synctest.Wait()
		assert.Equal(t, 0, s.Elapsed())
	})
}

func TestStopwatch_StartIsIdempotent(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		s := New()
		s.Start()
		time.Sleep(500 * time.Millisecond)
		s.Start()
		time.Sleep(500 * time.Millisecond)
		synctest.Wait()

		assert.Equal(t, 1, s.Elapsed(), "second Start must not re-anchor")
		s.Reset()
	})
}
