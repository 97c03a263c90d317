package player

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/llehouerou/alac"
	"github.com/llehouerou/go-faad2"
	"github.com/llehouerou/go-m4a"
)

// m4aStream reads MP4 audio samples and decodes them with faad2 (AAC) or
// alac (Apple Lossless).
type m4aStream struct {
	box      *m4a.Reader
	src      io.Closer
	codec    m4a.CodecType
	rate     int
	channels int
	depth    int
	total    int
	next     int
	err      error

	aac  *faad2.Decoder
	alac *alac.Alac

	pending [][2]float64
}

func decodeM4A(rc io.ReadSeekCloser) (beep.StreamSeekCloser, beep.Format, string, error) {
	box, err := m4a.Open(rc)
	if err != nil {
		return nil, beep.Format{}, "", err
	}

	s := &m4aStream{
		box:      box,
		src:      rc,
		codec:    box.Codec(),
		rate:     int(box.SampleRate()),
		channels: int(box.Channels()),
		depth:    int(box.SampleSize()),
	}
	s.total = int(box.Duration().Seconds() * float64(s.rate))

	precision := 2
	switch s.codec {
	case m4a.CodecAAC:
		ctx := context.Background()
		dec, err := faad2.NewDecoder(ctx)
		if err != nil {
			return nil, beep.Format{}, "", err
		}
		if err := dec.Init(ctx, box.CodecConfig()); err != nil {
			dec.Close(ctx)
			return nil, beep.Format{}, "", err
		}
		s.aac = dec
	case m4a.CodecALAC:
		dec, err := alac.NewWithConfig(alac.Config{
			SampleRate:  s.rate,
			SampleSize:  s.depth,
			NumChannels: s.channels,
			FrameSize:   4096,
		})
		if err != nil {
			return nil, beep.Format{}, "", err
		}
		s.alac = dec
		if s.depth == 24 {
			precision = 3
		}
	default:
		return nil, beep.Format{}, "", errors.New("m4a: unsupported codec")
	}

	format := beep.Format{
		SampleRate:  beep.SampleRate(s.rate),
		NumChannels: 2,
		Precision:   precision,
	}
	return s, format, s.codec.String(), nil
}

func (s *m4aStream) Stream(samples [][2]float64) (n int, ok bool) {
	if s.err != nil {
		return 0, false
	}
	for n < len(samples) {
		if len(s.pending) > 0 {
			c := copy(samples[n:], s.pending)
			s.pending = s.pending[c:]
			n += c
			continue
		}
		if s.next >= s.box.SampleCount() {
			return n, n > 0
		}
		frames, err := s.decodeNext()
		if err != nil {
			s.err = err
			return n, n > 0
		}
		s.pending = frames
	}
	return n, true
}

func (s *m4aStream) decodeNext() ([][2]float64, error) {
	data, err := s.box.ReadSample(s.next)
	if err != nil {
		return nil, err
	}
	s.next++

	if s.aac != nil {
		pcm, err := s.aac.Decode(context.Background(), data)
		if err != nil {
			return nil, err
		}
		return int16ToFrames(pcm, s.channels), nil
	}
	raw := s.alac.Decode(data)
	if s.depth == 24 {
		return pcm24ToFrames(raw, s.channels), nil
	}
	frames := make([][2]float64, len(raw)/(2*s.channels))
	pcm16ToFrames(frames, raw, s.channels)
	return frames, nil
}

func (s *m4aStream) Err() error { return s.err }

func (s *m4aStream) Len() int { return s.total }

func (s *m4aStream) Position() int {
	return int(s.box.SampleTime(s.next).Seconds() * float64(s.rate))
}

func (s *m4aStream) Seek(p int) error {
	p = min(max(p, 0), s.total)
	at := time.Duration(float64(p) / float64(s.rate) * float64(time.Second))
	s.next = s.box.SeekToTime(at)
	s.pending = nil
	s.err = nil
	return nil
}

func (s *m4aStream) Close() error {
	if s.aac != nil {
		s.aac.Close(context.Background())
	}
	return s.src.Close()
}
