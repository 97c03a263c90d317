package player

import (
	"errors"
	"fmt"
	"io"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/wav"
)

const (
	extMP3  = ".mp3"
	extFLAC = ".flac"
	extWAV  = ".wav"
	extM4A  = ".m4a"
	extMP4  = ".mp4"
	extOGG  = ".ogg"
	extOGA  = ".oga"
	extOPUS = ".opus"
)

var errUnsupportedFormat = errors.New("unsupported format")

// decode picks a decoder by extension. On failure rs is left open.
func decode(rs io.ReadSeekCloser, ext string) (beep.StreamSeekCloser, beep.Format, string, error) {
	switch ext {
	case extMP3:
		s, f, err := decodeGoMP3(rs)
		return s, f, "MP3", err
	case extFLAC:
		// Some taggers prepend ID3v2 to FLAC files, which the decoder rejects.
		if err := skipID3v2(rs); err != nil {
			return nil, beep.Format{}, "", err
		}
		s, f, err := flac.Decode(rs)
		return s, f, "FLAC", err
	case extWAV:
		s, f, err := wav.Decode(rs)
		return s, f, "WAV", err
	case extM4A, extMP4:
		return decodeM4A(rs)
	case extOGG, extOGA, extOPUS:
		return decodeOgg(rs)
	default:
		return nil, beep.Format{}, "", fmt.Errorf("%w: %q", errUnsupportedFormat, ext)
	}
}

// skipID3v2 positions r after an ID3v2 tag, or at the start if there is none.
func skipID3v2(r io.ReadSeeker) error {
	header := make([]byte, 10)
	n, err := io.ReadFull(r, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return err
	}
	if n < 10 || string(header[0:3]) != "ID3" {
		_, err = r.Seek(0, io.SeekStart)
		return err
	}

	// Syncsafe integer: 7 bits per byte.
	size := int64(header[6])<<21 | int64(header[7])<<14 | int64(header[8])<<7 | int64(header[9])
	_, err = r.Seek(10+size, io.SeekStart)
	return err
}
