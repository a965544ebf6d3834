// ABOUTME: Unit tests for the sink registry and shared test helpers
// ABOUTME: Provides an in-memory seekable file used by the container tests
package sink

import (
	"errors"
	"fmt"
	"io"
	"math"
	"testing"

	"github.com/Cadenza-Audio/cadenza-go/pkg/audio"
)

// memFile is a minimal seekable in-memory file for container output.
type memFile struct {
	buf []byte
	pos int64
}

func (m *memFile) Write(p []byte) (int, error) {
	if end := m.pos + int64(len(p)); end > int64(len(m.buf)) {
		grown := make([]byte, end)
		copy(grown, m.buf)
		m.buf = grown
	}
	copy(m.buf[m.pos:], p)
	m.pos += int64(len(p))
	return len(p), nil
}

func (m *memFile) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		m.pos = offset
	case io.SeekCurrent:
		m.pos += offset
	case io.SeekEnd:
		m.pos = int64(len(m.buf)) + offset
	default:
		return 0, fmt.Errorf("invalid whence %d", whence)
	}
	return m.pos, nil
}

// sineBytes generates frames of a 440Hz tone as interleaved 16-bit PCM.
func sineBytes(frames int, format audio.Format) []byte {
	samples := make([]int16, frames*format.Channels)
	for i := 0; i < frames; i++ {
		t := float64(i) / float64(format.SampleRate)
		v := int16(math.Sin(2*math.Pi*440*t) * 32767.0 * 0.5)
		for ch := 0; ch < format.Channels; ch++ {
			samples[i*format.Channels+ch] = v
		}
	}
	return audio.Int16ToBytes(samples)
}

// openStream runs the standard sink setup sequence.
func openStream(t *testing.T, s Sink, format audio.Format) int {
	t.Helper()
	idx, err := s.AddStream(format)
	if err != nil {
		t.Fatalf("AddStream() failed: %v", err)
	}
	if err := s.SetInputFormat(idx, format); err != nil {
		t.Fatalf("SetInputFormat() failed: %v", err)
	}
	if err := s.BeginWriting(); err != nil {
		t.Fatalf("BeginWriting() failed: %v", err)
	}
	return idx
}

func TestParseContainer(t *testing.T) {
	tests := []struct {
		name    string
		want    Container
		wantErr bool
	}{
		{"wav", ContainerWAV, false},
		{"flac", ContainerFLAC, false},
		{"opus", ContainerOpus, false},
		{"pcm", ContainerPCM, false},
		{"mp4", ContainerUnknown, true},
		{"", ContainerUnknown, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseContainer(tt.name)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Errorf("ParseContainer(%q) error = %v, want ErrUnsupportedFormat", tt.name, err)
				}
				return
			}
			if err != nil {
				t.Errorf("ParseContainer(%q) unexpected error: %v", tt.name, err)
			}
			if got != tt.want {
				t.Errorf("ParseContainer(%q) = %v, want %v", tt.name, got, tt.want)
			}
			if got.String() != tt.name {
				t.Errorf("String() roundtrip = %q, want %q", got.String(), tt.name)
			}
		})
	}
}

func TestRegistry(t *testing.T) {
	Reset()
	defer RegisterBuiltins()

	if Registered(ContainerWAV) {
		t.Fatal("registry not empty after Reset")
	}
	if _, err := Open(&memFile{}, Options{Container: ContainerWAV}); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Open() on empty registry = %v, want ErrUnsupportedFormat", err)
	}

	RegisterBuiltins()
	for _, c := range []Container{ContainerWAV, ContainerFLAC, ContainerOpus, ContainerPCM} {
		if !Registered(c) {
			t.Errorf("builtin container %s not registered", c)
		}
	}

	s, err := Open(&memFile{}, Options{Container: ContainerPCM})
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if err := s.Release(); err != nil {
		t.Errorf("Release() failed: %v", err)
	}
}

func TestUnsupportedTargetFormats(t *testing.T) {
	tests := []struct {
		name    string
		factory Factory
		format  audio.Format
	}{
		{"wav 24-bit", newWAVSink, audio.Format{SampleRate: 44100, Channels: 2, BitDepth: 24}},
		{"flac 8 channels", newFLACSink, audio.Format{SampleRate: 44100, Channels: 8, BitDepth: 16}},
		{"opus 44.1kHz", newOpusSink, audio.Format{SampleRate: 44100, Channels: 2, BitDepth: 16}},
		{"opus 24-bit", newOpusSink, audio.Format{SampleRate: 48000, Channels: 2, BitDepth: 24}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := tt.factory(&memFile{}, Options{})
			if err != nil {
				t.Fatalf("factory failed: %v", err)
			}
			defer s.Release()

			if _, err := s.AddStream(tt.format); !errors.Is(err, ErrUnsupportedFormat) {
				t.Errorf("AddStream(%v) error = %v, want ErrUnsupportedFormat", tt.format, err)
			}
		})
	}
}

func TestReleaseIdempotent(t *testing.T) {
	s, err := newPCMSink(&memFile{}, Options{})
	if err != nil {
		t.Fatalf("newPCMSink() failed: %v", err)
	}
	if err := s.Release(); err != nil {
		t.Fatalf("Release() failed: %v", err)
	}
	if err := s.Release(); err != nil {
		t.Fatalf("second Release() failed: %v", err)
	}
	if err := s.WriteSample(0, []byte{0, 0}, 0, 0); !errors.Is(err, ErrReleased) {
		t.Errorf("WriteSample() after Release = %v, want ErrReleased", err)
	}
}
