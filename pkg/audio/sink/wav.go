// ABOUTME: WAV container sink
// ABOUTME: Writes 16-bit PCM samples into a RIFF/WAVE container
package sink

import (
	"fmt"
	"io"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/Cadenza-Audio/cadenza-go/pkg/audio"
)

// wavSink writes samples into a RIFF/WAVE container. Finalize closes the
// encoder, which seeks back and patches the chunk sizes in the header.
type wavSink struct {
	storage io.WriteSeeker
	enc     *wav.Encoder

	target  audio.Format
	input   audio.Format
	added   bool
	writing bool

	stats    Statistics
	released bool
}

func newWAVSink(storage io.WriteSeeker, opts Options) (Sink, error) {
	return &wavSink{storage: storage}, nil
}

func (s *wavSink) AddStream(target audio.Format) (int, error) {
	if s.added {
		return 0, fmt.Errorf("wav sink: container holds a single stream")
	}
	if err := target.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	if target.BitDepth != 16 {
		return 0, fmt.Errorf("%w: wav sink encodes 16-bit PCM, got %d-bit", ErrUnsupportedFormat, target.BitDepth)
	}
	s.target = target
	s.input = target
	s.added = true
	return 0, nil
}

func (s *wavSink) SetInputFormat(streamIndex int, src audio.Format) error {
	if err := s.checkStream(streamIndex); err != nil {
		return err
	}
	if src.BitDepth != 16 {
		return fmt.Errorf("%w: wav sink accepts 16-bit PCM input, got %d-bit", ErrUnsupportedFormat, src.BitDepth)
	}
	s.input = src
	return nil
}

func (s *wavSink) BeginWriting() error {
	if s.released {
		return ErrReleased
	}
	if !s.added {
		return fmt.Errorf("wav sink: no stream added")
	}
	// audioFormat 1 = linear PCM
	s.enc = wav.NewEncoder(s.storage, s.target.SampleRate, s.target.BitDepth, s.target.Channels, 1)
	s.writing = true
	return nil
}

func (s *wavSink) WriteSample(streamIndex int, data []byte, start, duration audio.Ticks) error {
	if err := s.checkStream(streamIndex); err != nil {
		return err
	}
	if !s.writing {
		return fmt.Errorf("wav sink: BeginWriting not called")
	}

	samples := audio.BytesToInt16(data)
	ints := make([]int, len(samples))
	for i, v := range samples {
		ints[i] = int(v)
	}
	buf := &gaudio.IntBuffer{
		Format: &gaudio.Format{
			NumChannels: s.input.Channels,
			SampleRate:  s.input.SampleRate,
		},
		Data:           ints,
		SourceBitDepth: 16,
	}
	if err := s.enc.Write(buf); err != nil {
		return fmt.Errorf("wav sink: writing sample: %w", err)
	}

	s.stats.QueuedByteCount += int64(len(data))
	s.stats.SamplesReceived++
	return nil
}

func (s *wavSink) Statistics(streamIndex int) (Statistics, error) {
	if err := s.checkStream(streamIndex); err != nil {
		return Statistics{}, err
	}
	return s.stats, nil
}

func (s *wavSink) Finalize() error {
	if s.released {
		return ErrReleased
	}
	if s.enc == nil {
		return nil
	}
	if err := s.enc.Close(); err != nil {
		return fmt.Errorf("wav sink: finalizing container: %w", err)
	}
	s.enc = nil
	s.stats.QueuedByteCount = 0
	return nil
}

func (s *wavSink) Release() error {
	if s.released {
		return nil
	}
	s.released = true
	s.enc = nil
	s.writing = false
	return nil
}

func (s *wavSink) checkStream(streamIndex int) error {
	if s.released {
		return ErrReleased
	}
	if !s.added || streamIndex != 0 {
		return fmt.Errorf("wav sink: no such stream %d", streamIndex)
	}
	return nil
}
