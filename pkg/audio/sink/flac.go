// ABOUTME: FLAC container sink
// ABOUTME: Encodes 16-bit PCM samples into a FLAC stream
package sink

import (
	"fmt"
	"io"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
	"github.com/mewkiz/flac/meta"

	"github.com/Cadenza-Audio/cadenza-go/pkg/audio"
)

// flacBlockSize is the number of inter-channel samples per FLAC frame.
const flacBlockSize = 4096

// flacSink encodes samples into a FLAC stream. Incoming sample data is
// buffered and emitted as fixed-size frames; Finalize flushes the partial
// final frame.
type flacSink struct {
	storage io.WriteSeeker
	enc     *flac.Encoder
	pending []int16 // interleaved samples awaiting a full frame

	target  audio.Format
	input   audio.Format
	added   bool
	writing bool

	stats    Statistics
	released bool
}

func newFLACSink(storage io.WriteSeeker, opts Options) (Sink, error) {
	return &flacSink{storage: storage}, nil
}

func (s *flacSink) AddStream(target audio.Format) (int, error) {
	if s.added {
		return 0, fmt.Errorf("flac sink: container holds a single stream")
	}
	if err := target.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	if target.BitDepth != 16 {
		return 0, fmt.Errorf("%w: flac sink encodes 16-bit PCM, got %d-bit", ErrUnsupportedFormat, target.BitDepth)
	}
	if target.Channels != 1 && target.Channels != 2 {
		return 0, fmt.Errorf("%w: flac sink supports mono or stereo, got %d channels", ErrUnsupportedFormat, target.Channels)
	}
	s.target = target
	s.input = target
	s.added = true
	return 0, nil
}

func (s *flacSink) SetInputFormat(streamIndex int, src audio.Format) error {
	if err := s.checkStream(streamIndex); err != nil {
		return err
	}
	if src.BitDepth != 16 {
		return fmt.Errorf("%w: flac sink accepts 16-bit PCM input, got %d-bit", ErrUnsupportedFormat, src.BitDepth)
	}
	s.input = src
	return nil
}

func (s *flacSink) BeginWriting() error {
	if s.released {
		return ErrReleased
	}
	if !s.added {
		return fmt.Errorf("flac sink: no stream added")
	}
	info := &meta.StreamInfo{
		BlockSizeMin:  flacBlockSize,
		BlockSizeMax:  flacBlockSize,
		SampleRate:    uint32(s.target.SampleRate),
		NChannels:     uint8(s.target.Channels),
		BitsPerSample: uint8(s.target.BitDepth),
		NSamples:      0,
	}
	enc, err := flac.NewEncoder(s.storage, info)
	if err != nil {
		return fmt.Errorf("flac sink: creating encoder: %w", err)
	}
	s.enc = enc
	s.writing = true
	return nil
}

func (s *flacSink) WriteSample(streamIndex int, data []byte, start, duration audio.Ticks) error {
	if err := s.checkStream(streamIndex); err != nil {
		return err
	}
	if !s.writing {
		return fmt.Errorf("flac sink: BeginWriting not called")
	}

	s.pending = append(s.pending, audio.BytesToInt16(data)...)

	frameTotal := flacBlockSize * s.target.Channels
	for len(s.pending) >= frameTotal {
		if err := s.writeFrame(s.pending[:frameTotal]); err != nil {
			return err
		}
		s.pending = s.pending[frameTotal:]
	}

	s.stats.QueuedByteCount += int64(len(data))
	s.stats.SamplesReceived++
	return nil
}

// writeFrame emits one FLAC frame from interleaved samples. The sample
// count must be a multiple of the channel count.
func (s *flacSink) writeFrame(samples []int16) error {
	nch := s.target.Channels
	perChannel := len(samples) / nch

	subframes := make([]*frame.Subframe, nch)
	for ch := 0; ch < nch; ch++ {
		deinterleaved := make([]int32, perChannel)
		for i := 0; i < perChannel; i++ {
			deinterleaved[i] = int32(samples[i*nch+ch])
		}
		subframes[ch] = &frame.Subframe{
			SubHeader: frame.SubHeader{
				Pred: frame.PredVerbatim,
			},
			Samples:  deinterleaved,
			NSamples: perChannel,
		}
	}

	channels := frame.ChannelsMono
	if nch == 2 {
		channels = frame.ChannelsLR
	}

	f := &frame.Frame{
		Header: frame.Header{
			BlockSize:     uint16(perChannel),
			SampleRate:    uint32(s.target.SampleRate),
			Channels:      channels,
			BitsPerSample: uint8(s.target.BitDepth),
		},
		Subframes: subframes,
	}

	if err := s.enc.WriteFrame(f); err != nil {
		return fmt.Errorf("flac sink: writing frame: %w", err)
	}
	return nil
}

func (s *flacSink) Statistics(streamIndex int) (Statistics, error) {
	if err := s.checkStream(streamIndex); err != nil {
		return Statistics{}, err
	}
	return s.stats, nil
}

func (s *flacSink) Finalize() error {
	if s.released {
		return ErrReleased
	}
	if s.enc == nil {
		return nil
	}
	if rem := len(s.pending) - len(s.pending)%s.target.Channels; rem > 0 {
		if err := s.writeFrame(s.pending[:rem]); err != nil {
			return err
		}
	}
	s.pending = nil
	if err := s.enc.Close(); err != nil {
		return fmt.Errorf("flac sink: closing encoder: %w", err)
	}
	s.enc = nil
	s.stats.QueuedByteCount = 0
	return nil
}

func (s *flacSink) Release() error {
	if s.released {
		return nil
	}
	s.released = true
	s.enc = nil
	s.pending = nil
	s.writing = false
	return nil
}

func (s *flacSink) checkStream(streamIndex int) error {
	if s.released {
		return ErrReleased
	}
	if !s.added || streamIndex != 0 {
		return fmt.Errorf("flac sink: no such stream %d", streamIndex)
	}
	return nil
}
