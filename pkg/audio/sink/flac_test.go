// ABOUTME: Unit tests for the FLAC container sink
// ABOUTME: Encodes samples then parses the FLAC stream to verify them
package sink

import (
	"bytes"
	"io"
	"testing"

	"github.com/mewkiz/flac"

	"github.com/Cadenza-Audio/cadenza-go/pkg/audio"
)

func TestFLACSinkRoundtrip(t *testing.T) {
	format := audio.Format{SampleRate: 16000, Channels: 1, BitDepth: 16}
	storage := &memFile{}

	s, err := newFLACSink(storage, Options{})
	if err != nil {
		t.Fatalf("newFLACSink() failed: %v", err)
	}
	idx := openStream(t, s, format)

	// Enough for two full frames plus a partial one at finalize.
	const frames = 2*flacBlockSize + 1000
	data := sineBytes(frames, format)
	if err := s.WriteSample(idx, data, 0, audio.DurationTicks(len(data), format.ByteRate())); err != nil {
		t.Fatalf("WriteSample() failed: %v", err)
	}
	if err := s.Finalize(); err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}
	if err := s.Release(); err != nil {
		t.Fatalf("Release() failed: %v", err)
	}

	if len(storage.buf) < 4 || string(storage.buf[:4]) != "fLaC" {
		t.Fatal("output does not start with FLAC magic")
	}

	stream, err := flac.Parse(bytes.NewReader(storage.buf))
	if err != nil {
		t.Fatalf("parsing encoded FLAC: %v", err)
	}
	if int(stream.Info.SampleRate) != format.SampleRate {
		t.Errorf("decoded sample rate = %d, want %d", stream.Info.SampleRate, format.SampleRate)
	}

	var decoded int
	for {
		frame, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("ParseNext() failed: %v", err)
		}
		decoded += int(frame.BlockSize)
	}
	if decoded != frames {
		t.Errorf("decoded %d samples, want %d", decoded, frames)
	}
}

func TestFLACSinkStereo(t *testing.T) {
	format := audio.Format{SampleRate: 44100, Channels: 2, BitDepth: 16}
	storage := &memFile{}

	s, err := newFLACSink(storage, Options{})
	if err != nil {
		t.Fatalf("newFLACSink() failed: %v", err)
	}
	idx := openStream(t, s, format)

	const frames = flacBlockSize
	if err := s.WriteSample(idx, sineBytes(frames, format), 0, 0); err != nil {
		t.Fatalf("WriteSample() failed: %v", err)
	}
	if err := s.Finalize(); err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}
	s.Release()

	stream, err := flac.Parse(bytes.NewReader(storage.buf))
	if err != nil {
		t.Fatalf("parsing encoded FLAC: %v", err)
	}
	if stream.Info.NChannels != 2 {
		t.Errorf("decoded channels = %d, want 2", stream.Info.NChannels)
	}
}

func TestFLACSinkEmptyFinalize(t *testing.T) {
	format := audio.Format{SampleRate: 16000, Channels: 1, BitDepth: 16}
	s, err := newFLACSink(&memFile{}, Options{})
	if err != nil {
		t.Fatalf("newFLACSink() failed: %v", err)
	}
	openStream(t, s, format)

	// Finalize with no samples still produces a valid (empty) stream.
	if err := s.Finalize(); err != nil {
		t.Fatalf("Finalize() on empty sink failed: %v", err)
	}
	s.Release()
}
