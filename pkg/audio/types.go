// ABOUTME: Audio type definitions
// ABOUTME: Defines PCM formats and 100ns tick arithmetic
package audio

import (
	"encoding/binary"
	"fmt"
	"time"
)

// TicksPerSecond is the number of 100-nanosecond ticks in one second.
// All timestamps and durations in this library use this unit.
const TicksPerSecond Ticks = 10_000_000

// Ticks is a timestamp or duration in 100-nanosecond units.
type Ticks int64

// Duration converts ticks to a time.Duration.
func (t Ticks) Duration() time.Duration {
	return time.Duration(t) * 100 * time.Nanosecond
}

// Seconds returns the tick count as floating-point seconds.
func (t Ticks) Seconds() float64 {
	return float64(t) / float64(TicksPerSecond)
}

// DurationTicks converts a byte count to ticks at the given byte rate.
// The division truncates; callers accumulating many small conversions will
// see the truncation error accumulate. That behavior is intentional and
// relied upon for timestamp reproducibility.
func DurationTicks(byteLen int, byteRate int) Ticks {
	return Ticks(int64(TicksPerSecond) * int64(byteLen) / int64(byteRate))
}

// Format describes a raw PCM stream: interleaved, little-endian,
// signed integer samples.
type Format struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// ByteRate returns the number of bytes per second of audio.
func (f Format) ByteRate() int {
	return f.SampleRate * f.Channels * f.BitDepth / 8
}

// BlockAlign returns the size in bytes of one frame (one sample per channel).
func (f Format) BlockAlign() int {
	return f.Channels * f.BitDepth / 8
}

// Validate checks that the format describes a usable PCM stream.
func (f Format) Validate() error {
	if f.SampleRate <= 0 {
		return fmt.Errorf("invalid sample rate: %d", f.SampleRate)
	}
	if f.Channels <= 0 {
		return fmt.Errorf("invalid channel count: %d", f.Channels)
	}
	if f.BitDepth != 8 && f.BitDepth != 16 && f.BitDepth != 24 && f.BitDepth != 32 {
		return fmt.Errorf("unsupported bit depth: %d", f.BitDepth)
	}
	return nil
}

// IsZero reports whether the format is the empty value.
func (f Format) IsZero() bool {
	return f == Format{}
}

func (f Format) String() string {
	return fmt.Sprintf("%dHz/%dch/%dbit", f.SampleRate, f.Channels, f.BitDepth)
}

// BytesToInt16 decodes little-endian 16-bit PCM bytes into samples.
// Trailing odd bytes are ignored.
func BytesToInt16(data []byte) []int16 {
	samples := make([]int16, len(data)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(data[i*2:]))
	}
	return samples
}

// Int16ToBytes encodes samples as little-endian 16-bit PCM bytes.
func Int16ToBytes(samples []int16) []byte {
	data := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(data[i*2:], uint16(s))
	}
	return data
}
