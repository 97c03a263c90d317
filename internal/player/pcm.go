package player

import "encoding/binary"

const (
	scale16 = 1 << 15
	scale24 = 1 << 23
)

// pcm16ToFrames converts interleaved little-endian 16-bit PCM into stereo
// frames, duplicating mono. It returns the number of frames written.
func pcm16ToFrames(dst [][2]float64, src []byte, channels int) int {
	stride := 2 * channels
	n := min(len(src)/stride, len(dst))
	for i := range n {
		off := i * stride
		l := float64(int16(binary.LittleEndian.Uint16(src[off:]))) / scale16 //nolint:gosec // audio samples
		r := l
		if channels > 1 {
			r = float64(int16(binary.LittleEndian.Uint16(src[off+2:]))) / scale16 //nolint:gosec // audio samples
		}
		dst[i] = [2]float64{l, r}
	}
	return n
}

// pcm24ToFrames is pcm16ToFrames for packed 24-bit samples.
func pcm24ToFrames(src []byte, channels int) [][2]float64 {
	stride := 3 * channels
	frames := make([][2]float64, len(src)/stride)
	for i := range frames {
		off := i * stride
		l := float64(int24(src[off:])) / scale24
		r := l
		if channels > 1 {
			r = float64(int24(src[off+3:])) / scale24
		}
		frames[i] = [2]float64{l, r}
	}
	return frames
}

func int24(b []byte) int32 {
	v := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
	if v&0x800000 != 0 {
		v |= ^0xFFFFFF
	}
	return v
}

// int16ToFrames converts interleaved int16 samples into stereo frames.
func int16ToFrames(pcm []int16, channels int) [][2]float64 {
	if channels < 1 {
		channels = 1
	}
	frames := make([][2]float64, len(pcm)/channels)
	for i := range frames {
		l := float64(pcm[i*channels]) / scale16
		r := l
		if channels > 1 {
			r = float64(pcm[i*channels+1]) / scale16
		}
		frames[i] = [2]float64{l, r}
	}
	return frames
}
