package player

import (
	"io"
	"path"
	"strings"

	"github.com/dhowden/tag"

	"github.com/llehouerou/neurobeats/internal/task"
)

// readTrackInfo reads tags from rs and rewinds it. Untagged sources fall back
// to the file name as title.
func readTrackInfo(rs io.ReadSeeker, ref task.TrackRef) *TrackInfo {
	info := &TrackInfo{Ref: ref, Title: baseTitle(ref)}
	if m, err := tag.ReadFrom(rs); err == nil {
		if t := strings.TrimSpace(m.Title()); t != "" {
			info.Title = t
		}
		info.Artist = m.Artist()
	}
	_, _ = rs.Seek(0, io.SeekStart)
	return info
}

func baseTitle(ref task.TrackRef) string {
	s := string(ref)
	if i := strings.IndexAny(s, "?#"); i >= 0 && ref.IsRemote() {
		s = s[:i]
	}
	return path.Base(s)
}
