// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines Format, Ticks and PCM sample conversion helpers
// Package audio provides fundamental audio types shared across the cadenza library.
//
// This package defines the core types used throughout:
//   - Format: Describes a raw PCM stream (sample rate, channels, bit depth)
//   - Ticks: 100-nanosecond time unit used for all timestamps and durations
//
// It also provides conversion helpers between little-endian PCM bytes and
// int16 samples, and the byte-rate to tick arithmetic used by the sink
// writer.
//
// Example:
//
//	format := audio.Format{
//	    SampleRate: 44100,
//	    Channels:   2,
//	    BitDepth:   16,
//	}
//
//	// One second of audio at this format:
//	d := audio.DurationTicks(format.ByteRate(), format.ByteRate())
//	// d == audio.TicksPerSecond
package audio
