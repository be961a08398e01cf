// Package audiosink drains the APU's bounded float32 sample queue into an
// ebiten audio.Player by wrapping it in a streaming io.Reader, the same
// pattern ebiten's own audio examples use for a synthesized source: the
// player pulls PCM bytes on demand rather than the emulator pushing them.
package audiosink

import (
	"io"
	"math"
)

// Source is the subset of *bus.Bus a Stream needs. Kept as an interface so
// tests can drive it with a synthetic sample source.
type Source interface {
	GetAudioSamples() []float32
}

// bytesPerFrame is 2 channels * 2 bytes/sample (signed 16-bit stereo), the
// PCM format ebiten's audio.Context expects from a player's io.Reader.
const bytesPerFrame = 4

// Stream adapts Source's mono float32 samples into the stereo 16-bit PCM
// byte stream an ebiten audio.Player reads from.
type Stream struct {
	source Source
	volume float32
	pending []byte // undelivered bytes from the last conversion, carried across partial Reads
}

// NewStream creates a Stream reading samples from source at the given
// initial volume (0.0-1.0).
func NewStream(source Source, volume float32) *Stream {
	return &Stream{source: source, volume: volume}
}

// SetVolume adjusts playback volume; out-of-range values are clamped.
func (s *Stream) SetVolume(volume float32) {
	switch {
	case volume < 0:
		volume = 0
	case volume > 1:
		volume = 1
	}
	s.volume = volume
}

// Read implements io.Reader, filling p with stereo 16-bit PCM bytes. When
// the APU has no fresh samples it emits silence rather than blocking, so a
// starved queue doesn't stall ebiten's audio goroutine.
func (s *Stream) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if len(s.pending) == 0 {
			samples := s.source.GetAudioSamples()
			if len(samples) == 0 {
				for ; n < len(p); n++ {
					p[n] = 0
				}
				return n, nil
			}
			s.pending = s.encode(samples)
		}
		copied := copy(p[n:], s.pending)
		n += copied
		s.pending = s.pending[copied:]
	}
	return n, nil
}

// encode converts mono float32 samples in [-1, 1] to little-endian signed
// 16-bit stereo PCM, duplicating the mono channel to both speakers and
// applying the current volume.
func (s *Stream) encode(samples []float32) []byte {
	out := make([]byte, len(samples)*bytesPerFrame)
	for i, sample := range samples {
		v := sample * s.volume
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		pcm := int16(math.Round(float64(v) * 32767))
		lo, hi := byte(pcm), byte(pcm>>8)
		base := i * bytesPerFrame
		out[base+0] = lo
		out[base+1] = hi
		out[base+2] = lo
		out[base+3] = hi
	}
	return out
}

var _ io.Reader = (*Stream)(nil)
