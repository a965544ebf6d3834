// ABOUTME: Source contract and file dispatch
// ABOUTME: Defines the Source interface, Open and the in-memory buffer source
package source

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/Cadenza-Audio/cadenza-go/pkg/audio"
)

// Source supplies raw PCM bytes on demand. Read returns io.EOF at end of
// source. Position and Length report progress in bytes; Length is zero when
// unknown.
type Source interface {
	io.ReadCloser
	Format() audio.Format
	Position() int64
	Length() int64
}

// Open creates a source from a file path, dispatching on the extension.
// Supported: .wav, .mp3.
func Open(path string) (Source, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav":
		return OpenWAV(path)
	case ".mp3":
		return OpenMP3(path)
	default:
		return nil, fmt.Errorf("unsupported audio format: %s (supported: .wav, .mp3)", ext)
	}
}

// BufferSource serves PCM bytes from memory. Useful for tests and for
// callers that already hold decoded audio.
type BufferSource struct {
	data   []byte
	pos    int64
	format audio.Format
}

// NewBuffer creates a source over data in the given format.
func NewBuffer(data []byte, format audio.Format) *BufferSource {
	return &BufferSource{data: data, format: format}
}

func (s *BufferSource) Read(p []byte) (int, error) {
	if s.pos >= int64(len(s.data)) {
		return 0, io.EOF
	}
	n := copy(p, s.data[s.pos:])
	s.pos += int64(n)
	return n, nil
}

func (s *BufferSource) Format() audio.Format { return s.format }
func (s *BufferSource) Position() int64      { return s.pos }
func (s *BufferSource) Length() int64        { return int64(len(s.data)) }
func (s *BufferSource) Close() error         { return nil }
