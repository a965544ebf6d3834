// ABOUTME: WAV file source
// ABOUTME: Reads RIFF/WAVE files as 16-bit PCM bytes
package source

import (
	"fmt"
	"io"
	"os"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/Cadenza-Audio/cadenza-go/pkg/audio"
)

// wavChunkFrames is the number of frames decoded per underlying read.
const wavChunkFrames = 4096

// WAVSource reads 16-bit PCM from a RIFF/WAVE file.
type WAVSource struct {
	file    *os.File
	decoder *wav.Decoder
	format  audio.Format
	carry   []byte // decoded bytes not yet delivered
	pos     int64
	length  int64
}

// OpenWAV creates a source reading from a WAV file.
func OpenWAV(path string) (*WAVSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open WAV file: %w", err)
	}

	decoder := wav.NewDecoder(f)
	decoder.ReadInfo()
	if !decoder.IsValidFile() {
		f.Close()
		return nil, fmt.Errorf("not a valid WAV file: %s", path)
	}
	if decoder.BitDepth != 16 {
		f.Close()
		return nil, fmt.Errorf("unsupported WAV bit depth: %d (supported: 16)", decoder.BitDepth)
	}

	return &WAVSource{
		file:    f,
		decoder: decoder,
		format: audio.Format{
			SampleRate: int(decoder.SampleRate),
			Channels:   int(decoder.NumChans),
			BitDepth:   int(decoder.BitDepth),
		},
		length: decoder.PCMLen(),
	}, nil
}

func (s *WAVSource) Read(p []byte) (int, error) {
	for len(s.carry) == 0 {
		buf := &gaudio.IntBuffer{
			Format: &gaudio.Format{
				NumChannels: s.format.Channels,
				SampleRate:  s.format.SampleRate,
			},
			Data:           make([]int, wavChunkFrames*s.format.Channels),
			SourceBitDepth: s.format.BitDepth,
		}
		n, err := s.decoder.PCMBuffer(buf)
		if n == 0 {
			if err != nil && err != io.EOF {
				return 0, err
			}
			return 0, io.EOF
		}

		samples := make([]int16, n)
		for i := 0; i < n; i++ {
			samples[i] = int16(buf.Data[i])
		}
		s.carry = audio.Int16ToBytes(samples)
	}

	n := copy(p, s.carry)
	s.carry = s.carry[n:]
	s.pos += int64(n)
	return n, nil
}

func (s *WAVSource) Format() audio.Format { return s.format }
func (s *WAVSource) Position() int64      { return s.pos }
func (s *WAVSource) Length() int64        { return s.length }
func (s *WAVSource) Close() error         { return s.file.Close() }
