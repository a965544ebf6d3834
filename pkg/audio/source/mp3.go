// ABOUTME: MP3 file source
// ABOUTME: Decodes MP3 files into 16-bit stereo PCM bytes
package source

import (
	"fmt"
	"os"

	"github.com/hajimehoshi/go-mp3"

	"github.com/Cadenza-Audio/cadenza-go/pkg/audio"
)

// MP3Source decodes an MP3 file into 16-bit little-endian stereo PCM.
type MP3Source struct {
	file    *os.File
	decoder *mp3.Decoder
	format  audio.Format
	pos     int64
}

// OpenMP3 creates a source reading from an MP3 file.
func OpenMP3(path string) (*MP3Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open MP3 file: %w", err)
	}

	decoder, err := mp3.NewDecoder(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to decode MP3: %w", err)
	}

	return &MP3Source{
		file:    f,
		decoder: decoder,
		format: audio.Format{
			SampleRate: decoder.SampleRate(),
			Channels:   2, // the decoder always outputs stereo
			BitDepth:   16,
		},
	}, nil
}

func (s *MP3Source) Read(p []byte) (int, error) {
	n, err := s.decoder.Read(p)
	s.pos += int64(n)
	return n, err
}

func (s *MP3Source) Format() audio.Format { return s.format }
func (s *MP3Source) Position() int64      { return s.pos }

// Length returns the total decoded PCM size in bytes.
func (s *MP3Source) Length() int64 {
	if l := s.decoder.Length(); l > 0 {
		return l
	}
	return 0
}

func (s *MP3Source) Close() error { return s.file.Close() }
