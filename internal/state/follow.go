package state

import (
	"context"

	"github.com/llehouerou/neurobeats/internal/session"
)

// Follow saves volume changes and newly active tasks from sub until ctx is
// done or the session closes.
func Follow(ctx context.Context, s Interface, sub *session.Subscription) {
	for {
		select {
		case e := <-sub.VolumeChanged:
			s.SaveVolume(e.Volume)
		case e := <-sub.TaskChanged:
			s.SaveFocus(e.Current)
		case <-sub.StateChanged:
		case <-sub.ElapsedChanged:
		case <-sub.Error:
		case <-sub.Done:
			return
		case <-ctx.Done():
			return
		}
	}
}
