// ABOUTME: Unit tests for the WAV container sink
// ABOUTME: Encodes samples then decodes the container to verify them
package sink

import (
	"bytes"
	"testing"

	"github.com/go-audio/wav"

	"github.com/Cadenza-Audio/cadenza-go/pkg/audio"
)

func TestWAVSinkRoundtrip(t *testing.T) {
	format := audio.Format{SampleRate: 16000, Channels: 1, BitDepth: 16}
	storage := &memFile{}

	s, err := newWAVSink(storage, Options{Container: ContainerWAV})
	if err != nil {
		t.Fatalf("newWAVSink() failed: %v", err)
	}
	idx := openStream(t, s, format)

	const frames = 8000 // half a second
	data := sineBytes(frames, format)
	if err := s.WriteSample(idx, data, 0, 5_000_000); err != nil {
		t.Fatalf("WriteSample() failed: %v", err)
	}

	stats, err := s.Statistics(idx)
	if err != nil {
		t.Fatalf("Statistics() failed: %v", err)
	}
	if stats.SamplesReceived != 1 || stats.QueuedByteCount != int64(len(data)) {
		t.Errorf("Statistics() = %+v, want 1 sample / %d queued bytes", stats, len(data))
	}

	if err := s.Finalize(); err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}
	if err := s.Release(); err != nil {
		t.Fatalf("Release() failed: %v", err)
	}

	dec := wav.NewDecoder(bytes.NewReader(storage.buf))
	dec.ReadInfo()
	if !dec.IsValidFile() {
		t.Fatal("output is not a valid WAV file")
	}
	if int(dec.SampleRate) != format.SampleRate {
		t.Errorf("decoded sample rate = %d, want %d", dec.SampleRate, format.SampleRate)
	}
	if int(dec.NumChans) != format.Channels {
		t.Errorf("decoded channels = %d, want %d", dec.NumChans, format.Channels)
	}

	pcm, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatalf("FullPCMBuffer() failed: %v", err)
	}
	if len(pcm.Data) != frames {
		t.Fatalf("decoded %d samples, want %d", len(pcm.Data), frames)
	}

	original := audio.BytesToInt16(data)
	for i := 0; i < 100; i++ {
		if int16(pcm.Data[i]) != original[i] {
			t.Fatalf("decoded sample %d = %d, want %d", i, pcm.Data[i], original[i])
		}
	}
}

func TestWAVSinkFinalizePatchesHeader(t *testing.T) {
	format := audio.Format{SampleRate: 44100, Channels: 2, BitDepth: 16}
	storage := &memFile{}

	s, err := newWAVSink(storage, Options{})
	if err != nil {
		t.Fatalf("newWAVSink() failed: %v", err)
	}
	idx := openStream(t, s, format)

	if err := s.WriteSample(idx, sineBytes(4410, format), 0, 1_000_000); err != nil {
		t.Fatalf("WriteSample() failed: %v", err)
	}
	if err := s.Finalize(); err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}

	stats, err := s.Statistics(idx)
	if err != nil {
		t.Fatalf("Statistics() failed: %v", err)
	}
	if stats.QueuedByteCount != 0 {
		t.Errorf("queued bytes after finalize = %d, want 0", stats.QueuedByteCount)
	}

	if string(storage.buf[:4]) != "RIFF" || string(storage.buf[8:12]) != "WAVE" {
		t.Error("finalized container missing RIFF/WAVE markers")
	}
	s.Release()
}

func TestWAVSinkSingleStreamOnly(t *testing.T) {
	format := audio.Format{SampleRate: 44100, Channels: 2, BitDepth: 16}
	s, err := newWAVSink(&memFile{}, Options{})
	if err != nil {
		t.Fatalf("newWAVSink() failed: %v", err)
	}
	defer s.Release()

	if _, err := s.AddStream(format); err != nil {
		t.Fatalf("AddStream() failed: %v", err)
	}
	if _, err := s.AddStream(format); err == nil {
		t.Error("second AddStream() succeeded, want single-stream error")
	}
}
