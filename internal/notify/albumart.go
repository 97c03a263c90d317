package notify

import (
	"github.com/llehouerou/neurobeats/internal/mpris"
	"github.com/llehouerou/neurobeats/internal/task"
)

// FindAlbumArtPath returns artwork for a local track, if found. Remote
// tracks have none.
func FindAlbumArtPath(ref task.TrackRef) string {
	if ref == "" || ref.IsRemote() {
		return ""
	}
	return mpris.FindAlbumArt(string(ref))
}
