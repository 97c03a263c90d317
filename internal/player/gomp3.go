package player

import (
	"errors"
	"io"

	"github.com/gopxl/beep/v2"
	"github.com/llehouerou/go-mp3"
)

// mp3Stream adapts llehouerou/go-mp3, which always yields 16-bit stereo.
type mp3Stream struct {
	dec   *mp3.Decoder
	src   io.Closer
	err   error
	chunk []byte
}

func decodeGoMP3(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
	dec, err := mp3.NewDecoder(rc)
	if err != nil {
		return nil, beep.Format{}, err
	}
	if dec.SampleRate() == 0 {
		return nil, beep.Format{}, errors.New("mp3: invalid sample rate")
	}
	format := beep.Format{
		SampleRate:  beep.SampleRate(dec.SampleRate()),
		NumChannels: 2,
		Precision:   2,
	}
	return &mp3Stream{dec: dec, src: rc}, format, nil
}

func (s *mp3Stream) Stream(samples [][2]float64) (int, bool) {
	if s.err != nil {
		return 0, false
	}
	want := len(samples) * 4
	if cap(s.chunk) < want {
		s.chunk = make([]byte, want)
	}
	read, err := io.ReadFull(s.dec, s.chunk[:want])
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		s.err = err
		return 0, false
	}
	n := pcm16ToFrames(samples, s.chunk[:read], 2)
	return n, n > 0
}

func (s *mp3Stream) Err() error { return s.err }

func (s *mp3Stream) Len() int {
	return max(int(s.dec.SampleCount()), 0)
}

func (s *mp3Stream) Position() int {
	return int(s.dec.SamplePosition())
}

func (s *mp3Stream) Seek(p int) error {
	p = min(max(p, 0), s.Len())
	if err := s.dec.SeekToSample(int64(p)); err != nil {
		return err
	}
	s.err = nil
	return nil
}

func (s *mp3Stream) Close() error { return s.src.Close() }
