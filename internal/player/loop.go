package player

import (
	"github.com/gopxl/beep/v2"
)

var _ beep.Streamer = (*loopStreamer)(nil)

// loopStreamer plays a source forever, rewinding at its end. A decode error
// ends the stream and is handed to onErr exactly once. Stream runs on the
// speaker goroutine with the speaker lock held, so onErr must not block.
type loopStreamer struct {
	src    beep.StreamSeeker
	onErr  func(error)
	failed bool
}

func (l *loopStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	if l.failed {
		return 0, false
	}
	rewound := false
	for n < len(samples) {
		got, more := l.src.Stream(samples[n:])
		n += got
		if more && got > 0 {
			rewound = false
			continue
		}
		if err := l.src.Err(); err != nil {
			l.fail(err)
			return n, n > 0
		}
		// An empty source would spin forever.
		if rewound {
			return n, n > 0
		}
		if err := l.src.Seek(0); err != nil {
			l.fail(err)
			return n, n > 0
		}
		rewound = true
	}
	return n, true
}

func (l *loopStreamer) Err() error { return nil }

func (l *loopStreamer) fail(err error) {
	l.failed = true
	if l.onErr != nil {
		l.onErr(err)
	}
}
