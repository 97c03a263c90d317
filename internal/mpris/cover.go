package mpris

import (
	"os"
	"path/filepath"
	"strings"
)

var artExts = []string{".jpg", ".png", ".jpeg"}

// coverNames lists shared artwork filenames in priority order.
var coverNames = []string{"cover", "folder", "front"}

// FindAlbumArt looks for artwork next to a local track: first an image
// sharing the track's base name (read.mp3 -> read.jpg), then a shared cover
// file. Returns "" when none exists.
func FindAlbumArt(trackPath string) string {
	dir := filepath.Dir(trackPath)
	base := strings.TrimSuffix(filepath.Base(trackPath), filepath.Ext(trackPath))

	for _, name := range append([]string{base}, coverNames...) {
		for _, ext := range artExts {
			path := filepath.Join(dir, name+ext)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}
	return ""
}
