// ABOUTME: Raw PCM pass-through sink
// ABOUTME: Writes sample bytes to storage without a container
package sink

import (
	"fmt"
	"io"

	"github.com/Cadenza-Audio/cadenza-go/pkg/audio"
)

// pcmSink writes sample bytes straight to storage. There is no container;
// the output is a headerless PCM elementary stream in the target format.
type pcmSink struct {
	storage io.WriteSeeker

	target  audio.Format
	input   audio.Format
	added   bool
	writing bool

	stats    Statistics
	released bool
}

func newPCMSink(storage io.WriteSeeker, opts Options) (Sink, error) {
	return &pcmSink{storage: storage}, nil
}

func (s *pcmSink) AddStream(target audio.Format) (int, error) {
	if s.added {
		return 0, fmt.Errorf("pcm sink: container holds a single stream")
	}
	if err := target.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	s.target = target
	s.input = target
	s.added = true
	return 0, nil
}

func (s *pcmSink) SetInputFormat(streamIndex int, src audio.Format) error {
	if err := s.checkStream(streamIndex); err != nil {
		return err
	}
	s.input = src
	return nil
}

func (s *pcmSink) BeginWriting() error {
	if s.released {
		return ErrReleased
	}
	if !s.added {
		return fmt.Errorf("pcm sink: no stream added")
	}
	s.writing = true
	return nil
}

func (s *pcmSink) WriteSample(streamIndex int, data []byte, start, duration audio.Ticks) error {
	if err := s.checkStream(streamIndex); err != nil {
		return err
	}
	if !s.writing {
		return fmt.Errorf("pcm sink: BeginWriting not called")
	}
	if _, err := s.storage.Write(data); err != nil {
		return fmt.Errorf("pcm sink: writing sample: %w", err)
	}
	s.stats.QueuedByteCount += int64(len(data))
	s.stats.SamplesReceived++
	return nil
}

func (s *pcmSink) Statistics(streamIndex int) (Statistics, error) {
	if err := s.checkStream(streamIndex); err != nil {
		return Statistics{}, err
	}
	return s.stats, nil
}

func (s *pcmSink) Finalize() error {
	if s.released {
		return ErrReleased
	}
	s.stats.QueuedByteCount = 0
	return nil
}

func (s *pcmSink) Release() error {
	if s.released {
		return nil
	}
	s.released = true
	s.writing = false
	return nil
}

func (s *pcmSink) checkStream(streamIndex int) error {
	if s.released {
		return ErrReleased
	}
	if !s.added || streamIndex != 0 {
		return fmt.Errorf("pcm sink: no such stream %d", streamIndex)
	}
	return nil
}
