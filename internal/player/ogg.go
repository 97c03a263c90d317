package player

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/gopxl/beep/v2"
	"github.com/jfreymuth/vorbis"
	"github.com/jj11hh/opus"
)

const (
	opusSampleRate = 48000
	// 120 ms at 48 kHz, the longest Opus packet.
	opusMaxFrame = 5760
)

var (
	errUnknownOggCodec = errors.New("ogg: not Vorbis or Opus")
	errBadOggPage      = errors.New("ogg: bad page header")
	errBadOggHeader    = errors.New("ogg: bad codec header")
)

// oggReader splits an Ogg bitstream into packets. Only the first logical
// stream matters; chained files are read as one stream.
type oggReader struct {
	r       io.ReadSeeker
	queue   [][]byte
	partial []byte
}

func (o *oggReader) readPage() error {
	var hdr [27]byte
	if _, err := io.ReadFull(o.r, hdr[:]); err != nil {
		return err
	}
	if string(hdr[:4]) != "OggS" {
		return errBadOggPage
	}
	lacing := make([]byte, hdr[26])
	if _, err := io.ReadFull(o.r, lacing); err != nil {
		return err
	}
	size := 0
	for _, l := range lacing {
		size += int(l)
	}
	body := make([]byte, size)
	if _, err := io.ReadFull(o.r, body); err != nil {
		return err
	}

	off := 0
	for _, l := range lacing {
		o.partial = append(o.partial, body[off:off+int(l)]...)
		off += int(l)
		// A lacing value below 255 ends the packet; 255 continues it,
		// possibly on the next page.
		if l < 255 {
			o.queue = append(o.queue, o.partial)
			o.partial = nil
		}
	}
	return nil
}

func (o *oggReader) packet() ([]byte, error) {
	for len(o.queue) == 0 {
		if err := o.readPage(); err != nil {
			return nil, err
		}
	}
	p := o.queue[0]
	o.queue = o.queue[1:]
	return p, nil
}

func (o *oggReader) rewind() error {
	o.queue, o.partial = nil, nil
	_, err := o.r.Seek(0, io.SeekStart)
	return err
}

// lastGranule walks the page headers and returns the final granule position.
func (o *oggReader) lastGranule() (int64, error) {
	if err := o.rewind(); err != nil {
		return 0, err
	}
	var last int64
	var hdr [27]byte
	for {
		if _, err := io.ReadFull(o.r, hdr[:]); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return last, nil
			}
			return 0, err
		}
		if string(hdr[:4]) != "OggS" {
			return 0, errBadOggPage
		}
		// -1 marks a page on which no packet ends.
		if g := int64(binary.LittleEndian.Uint64(hdr[6:14])); g > 0 {
			last = g
		}
		lacing := make([]byte, hdr[26])
		if _, err := io.ReadFull(o.r, lacing); err != nil {
			return last, nil
		}
		size := 0
		for _, l := range lacing {
			size += int(l)
		}
		if _, err := o.r.Seek(int64(size), io.SeekCurrent); err != nil {
			return 0, err
		}
	}
}

// oggCodec decodes the audio packets of one Ogg stream.
type oggCodec interface {
	name() string
	channels() int
	rate() int
	// headers is the number of header packets before audio.
	headers() int
	readHeader(pkt []byte) error
	// decode returns interleaved samples, valid until the next call.
	decode(pkt []byte) ([]float32, error)
	reset()
	preSkip() int
}

func newOggCodec(first []byte) (oggCodec, error) {
	switch {
	case len(first) >= 8 && string(first[:8]) == "OpusHead":
		return newOpusCodec(first)
	case len(first) >= 7 && first[0] == 0x01 && string(first[1:7]) == "vorbis":
		return newVorbisCodec(first)
	default:
		return nil, errUnknownOggCodec
	}
}

type opusCodec struct {
	dec  *opus.Decoder
	ch   int
	skip int
	pcm  []float32
}

// newOpusCodec parses an OpusHead packet.
func newOpusCodec(head []byte) (*opusCodec, error) {
	if len(head) < 19 || head[8] != 1 {
		return nil, errBadOggHeader
	}
	ch := int(head[9])
	if ch < 1 || ch > 2 {
		return nil, fmt.Errorf("opus: %d channels unsupported", ch)
	}
	dec, err := opus.NewDecoder(opusSampleRate, ch)
	if err != nil {
		return nil, err
	}
	return &opusCodec{
		dec:  dec,
		ch:   ch,
		skip: int(binary.LittleEndian.Uint16(head[10:12])),
		pcm:  make([]float32, opusMaxFrame*ch),
	}, nil
}

func (c *opusCodec) name() string  { return "Opus" }
func (c *opusCodec) channels() int { return c.ch }
func (c *opusCodec) rate() int     { return opusSampleRate }
func (c *opusCodec) headers() int  { return 2 } // OpusHead, OpusTags
func (c *opusCodec) preSkip() int  { return c.skip }
func (c *opusCodec) reset()        {}

func (c *opusCodec) readHeader([]byte) error { return nil }

func (c *opusCodec) decode(pkt []byte) ([]float32, error) {
	n, err := c.dec.DecodeFloat32(pkt, c.pcm)
	if err != nil {
		return nil, err
	}
	return c.pcm[:n*c.ch], nil
}

type vorbisCodec struct {
	dec vorbis.Decoder
	ch  int
	hz  int
}

// newVorbisCodec parses a Vorbis identification header.
func newVorbisCodec(ident []byte) (*vorbisCodec, error) {
	if len(ident) < 16 || binary.LittleEndian.Uint32(ident[7:11]) != 0 {
		return nil, errBadOggHeader
	}
	c := &vorbisCodec{
		ch: int(ident[11]),
		hz: int(binary.LittleEndian.Uint32(ident[12:16])),
	}
	if c.ch < 1 || c.ch > 2 {
		return nil, fmt.Errorf("vorbis: %d channels unsupported", c.ch)
	}
	return c, nil
}

func (c *vorbisCodec) name() string  { return "Vorbis" }
func (c *vorbisCodec) channels() int { return c.ch }
func (c *vorbisCodec) rate() int     { return c.hz }
func (c *vorbisCodec) headers() int  { return 3 } // identification, comment, setup
func (c *vorbisCodec) preSkip() int  { return 0 }
func (c *vorbisCodec) reset()        { c.dec.Clear() }

func (c *vorbisCodec) readHeader(pkt []byte) error { return c.dec.ReadHeader(pkt) }

func (c *vorbisCodec) decode(pkt []byte) ([]float32, error) { return c.dec.Decode(pkt) }

// oggStream is a beep.StreamSeekCloser over an Ogg Vorbis or Opus file.
type oggStream struct {
	rd    *oggReader
	codec oggCodec
	src   io.Closer

	buf    []float32
	pos    int
	skip   int
	played int
	total  int
	err    error
}

func decodeOgg(rc io.ReadSeekCloser) (beep.StreamSeekCloser, beep.Format, string, error) {
	rd := &oggReader{r: rc}
	first, err := rd.packet()
	if err != nil {
		return nil, beep.Format{}, "", err
	}
	codec, err := newOggCodec(first)
	if err != nil {
		return nil, beep.Format{}, "", err
	}

	s, err := newOggStream(rd, codec, rc)
	if err != nil {
		return nil, beep.Format{}, "", err
	}
	format := beep.Format{
		SampleRate:  beep.SampleRate(codec.rate()),
		NumChannels: codec.channels(),
		Precision:   2,
	}
	return s, format, codec.name(), nil
}

func newOggStream(rd *oggReader, codec oggCodec, src io.Closer) (*oggStream, error) {
	s := &oggStream{rd: rd, codec: codec, src: src}
	if err := s.start(true); err != nil {
		return nil, err
	}
	last, err := rd.lastGranule()
	if err != nil {
		return nil, err
	}
	s.total = max(0, int(last)-codec.preSkip())
	if err := s.start(false); err != nil {
		return nil, err
	}
	return s, nil
}

// start rewinds to the first audio packet. Header packets are handed to the
// codec only on the first pass.
func (s *oggStream) start(init bool) error {
	if err := s.rd.rewind(); err != nil {
		return err
	}
	for i := range s.codec.headers() {
		pkt, err := s.rd.packet()
		if err != nil {
			return fmt.Errorf("%w: %w", errBadOggHeader, err)
		}
		if init {
			if err := s.codec.readHeader(pkt); err != nil {
				return fmt.Errorf("header %d: %w", i, err)
			}
		}
	}
	s.codec.reset()
	s.buf, s.pos = nil, 0
	s.skip = s.codec.preSkip()
	s.played = 0
	s.err = nil
	return nil
}

func (s *oggStream) Stream(samples [][2]float64) (n int, ok bool) {
	if s.err != nil {
		return 0, false
	}
	ch := s.codec.channels()
	for n < len(samples) {
		if s.pos >= len(s.buf) {
			pkt, err := s.rd.packet()
			if err != nil {
				if !errors.Is(err, io.EOF) {
					s.err = err
				}
				return n, n > 0
			}
			pcm, err := s.codec.decode(pkt)
			if err != nil {
				// A corrupt packet is dropped like a lost frame.
				continue
			}
			s.buf, s.pos = pcm, 0
			if s.skip > 0 {
				d := min(s.skip, len(pcm)/ch)
				s.pos = d * ch
				s.skip -= d
			}
			continue
		}
		l := float64(s.buf[s.pos])
		r := l
		if ch > 1 {
			r = float64(s.buf[s.pos+1])
		}
		samples[n] = [2]float64{l, r}
		s.pos += ch
		s.played++
		n++
	}
	return n, true
}

func (s *oggStream) Err() error    { return s.err }
func (s *oggStream) Len() int      { return s.total }
func (s *oggStream) Position() int { return s.played }

// Seek rewinds and decodes forward to p. Looping only ever seeks to 0.
func (s *oggStream) Seek(p int) error {
	if err := s.start(false); err != nil {
		return err
	}
	scratch := make([][2]float64, 512)
	for s.played < p {
		want := min(len(scratch), p-s.played)
		if _, ok := s.Stream(scratch[:want]); !ok {
			break
		}
	}
	return s.err
}

func (s *oggStream) Close() error { return s.src.Close() }
