// ABOUTME: Opus elementary stream sink
// ABOUTME: Encodes 16-bit PCM into length-delimited, timestamped Opus records
package sink

import (
	"encoding/binary"
	"fmt"
	"io"

	"gopkg.in/hraban/opus.v2"

	"github.com/Cadenza-Audio/cadenza-go/pkg/audio"
)

const (
	// opusRecordType tags each record in the elementary stream.
	// Record layout: [type:1][start_ticks:8 BE][length:4 BE][packet:N]
	opusRecordType = 0x01

	// maxOpusPacket is the maximum encoded Opus packet size.
	maxOpusPacket = 4000

	// opusFrameTicks is the duration of one 20ms Opus frame.
	opusFrameTicks = audio.TicksPerSecond / 50
)

// opusSink encodes samples into a timestamped Opus elementary stream.
// Input is carved into 20ms frames; a partial frame is carried over to the
// next sample and zero-padded at finalize.
type opusSink struct {
	storage io.WriteSeeker
	enc     *opus.Encoder
	pending []int16 // interleaved samples awaiting a full frame
	clock   audio.Ticks
	clocked bool
	bitrate int

	target  audio.Format
	input   audio.Format
	added   bool
	writing bool

	stats    Statistics
	released bool
}

func newOpusSink(storage io.WriteSeeker, opts Options) (Sink, error) {
	return &opusSink{storage: storage, bitrate: opts.BitrateKbps}, nil
}

func (s *opusSink) AddStream(target audio.Format) (int, error) {
	if s.added {
		return 0, fmt.Errorf("opus sink: container holds a single stream")
	}
	switch target.SampleRate {
	case 8000, 12000, 16000, 24000, 48000:
	default:
		return 0, fmt.Errorf("%w: opus sink requires 8/12/16/24/48 kHz, got %d Hz", ErrUnsupportedFormat, target.SampleRate)
	}
	if target.Channels != 1 && target.Channels != 2 {
		return 0, fmt.Errorf("%w: opus sink supports mono or stereo, got %d channels", ErrUnsupportedFormat, target.Channels)
	}
	if target.BitDepth != 16 {
		return 0, fmt.Errorf("%w: opus sink encodes 16-bit PCM, got %d-bit", ErrUnsupportedFormat, target.BitDepth)
	}
	s.target = target
	s.input = target
	s.added = true
	return 0, nil
}

func (s *opusSink) SetInputFormat(streamIndex int, src audio.Format) error {
	if err := s.checkStream(streamIndex); err != nil {
		return err
	}
	if src.BitDepth != 16 {
		return fmt.Errorf("%w: opus sink accepts 16-bit PCM input, got %d-bit", ErrUnsupportedFormat, src.BitDepth)
	}
	s.input = src
	return nil
}

func (s *opusSink) BeginWriting() error {
	if s.released {
		return ErrReleased
	}
	if !s.added {
		return fmt.Errorf("opus sink: no stream added")
	}
	enc, err := opus.NewEncoder(s.target.SampleRate, s.target.Channels, opus.AppAudio)
	if err != nil {
		return fmt.Errorf("opus sink: creating encoder: %w", err)
	}
	if s.bitrate > 0 {
		if err := enc.SetBitrate(s.bitrate * 1000); err != nil {
			return fmt.Errorf("opus sink: setting bitrate: %w", err)
		}
	}
	s.enc = enc
	s.writing = true
	return nil
}

func (s *opusSink) WriteSample(streamIndex int, data []byte, start, duration audio.Ticks) error {
	if err := s.checkStream(streamIndex); err != nil {
		return err
	}
	if !s.writing {
		return fmt.Errorf("opus sink: BeginWriting not called")
	}
	if !s.clocked {
		s.clock = start
		s.clocked = true
	}

	s.pending = append(s.pending, audio.BytesToInt16(data)...)

	frameTotal := (s.target.SampleRate / 50) * s.target.Channels
	for len(s.pending) >= frameTotal {
		if err := s.encodeFrame(s.pending[:frameTotal]); err != nil {
			return err
		}
		s.pending = s.pending[frameTotal:]
	}

	s.stats.QueuedByteCount += int64(len(data))
	s.stats.SamplesReceived++
	return nil
}

// encodeFrame encodes exactly one 20ms frame and writes its record.
func (s *opusSink) encodeFrame(pcm []int16) error {
	packet := make([]byte, maxOpusPacket)
	n, err := s.enc.Encode(pcm, packet)
	if err != nil {
		return fmt.Errorf("opus sink: encoding frame: %w", err)
	}
	if err := s.writeRecord(s.clock, packet[:n]); err != nil {
		return err
	}
	s.clock += opusFrameTicks
	return nil
}

// writeRecord frames one encoded packet in the elementary stream.
func (s *opusSink) writeRecord(start audio.Ticks, packet []byte) error {
	record := make([]byte, 1+8+4+len(packet))
	record[0] = opusRecordType
	binary.BigEndian.PutUint64(record[1:9], uint64(start))
	binary.BigEndian.PutUint32(record[9:13], uint32(len(packet)))
	copy(record[13:], packet)

	if _, err := s.storage.Write(record); err != nil {
		return fmt.Errorf("opus sink: writing record: %w", err)
	}
	return nil
}

func (s *opusSink) Statistics(streamIndex int) (Statistics, error) {
	if err := s.checkStream(streamIndex); err != nil {
		return Statistics{}, err
	}
	return s.stats, nil
}

func (s *opusSink) Finalize() error {
	if s.released {
		return ErrReleased
	}
	if s.enc == nil {
		return nil
	}
	if len(s.pending) > 0 {
		frameTotal := (s.target.SampleRate / 50) * s.target.Channels
		for len(s.pending) < frameTotal {
			s.pending = append(s.pending, 0)
		}
		if err := s.encodeFrame(s.pending[:frameTotal]); err != nil {
			return err
		}
		s.pending = nil
	}
	s.enc = nil
	s.stats.QueuedByteCount = 0
	return nil
}

func (s *opusSink) Release() error {
	if s.released {
		return nil
	}
	s.released = true
	s.enc = nil
	s.pending = nil
	s.writing = false
	return nil
}

func (s *opusSink) checkStream(streamIndex int) error {
	if s.released {
		return ErrReleased
	}
	if !s.added || streamIndex != 0 {
		return fmt.Errorf("opus sink: no such stream %d", streamIndex)
	}
	return nil
}
