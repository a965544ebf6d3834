// ABOUTME: Sine tone source
// ABOUTME: Generates a finite test tone as 16-bit PCM bytes
package source

import (
	"io"
	"math"
	"time"

	"github.com/Cadenza-Audio/cadenza-go/pkg/audio"
)

// ToneSource generates a sine tone of fixed duration as 16-bit PCM bytes,
// duplicated across all channels.
type ToneSource struct {
	format      audio.Format
	frequency   float64
	sampleIndex uint64
	pos         int64
	length      int64
}

// NewTone creates a tone source. The format must be 16-bit PCM; a
// frequency of 0 defaults to 440 Hz.
func NewTone(format audio.Format, frequency float64, duration time.Duration) *ToneSource {
	if frequency == 0 {
		frequency = 440.0 // A4
	}
	frames := int64(duration.Seconds() * float64(format.SampleRate))
	return &ToneSource{
		format:    format,
		frequency: frequency,
		length:    frames * int64(format.BlockAlign()),
	}
}

func (s *ToneSource) Read(p []byte) (int, error) {
	if s.pos >= s.length {
		return 0, io.EOF
	}

	frameBytes := s.format.BlockAlign()
	n := len(p)
	if remaining := s.length - s.pos; int64(n) > remaining {
		n = int(remaining)
	}
	n -= n % frameBytes
	if n == 0 {
		return 0, io.EOF
	}

	frames := n / frameBytes
	for i := 0; i < frames; i++ {
		t := float64(s.sampleIndex+uint64(i)) / float64(s.format.SampleRate)
		sample := math.Sin(2 * math.Pi * s.frequency * t)
		pcm := int16(sample * 32767.0 * 0.5) // 50% volume

		for ch := 0; ch < s.format.Channels; ch++ {
			off := i*frameBytes + ch*2
			p[off] = byte(pcm)
			p[off+1] = byte(pcm >> 8)
		}
	}
	s.sampleIndex += uint64(frames)
	s.pos += int64(n)
	return n, nil
}

func (s *ToneSource) Format() audio.Format { return s.format }
func (s *ToneSource) Position() int64      { return s.pos }
func (s *ToneSource) Length() int64        { return s.length }
func (s *ToneSource) Close() error         { return nil }
