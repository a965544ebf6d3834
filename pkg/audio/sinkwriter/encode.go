// ABOUTME: Whole-source encode driver and convenience constructors
// ABOUTME: Pulls a Source to completion through a Session
package sinkwriter

import (
	"errors"
	"io"

	"github.com/Cadenza-Audio/cadenza-go/pkg/audio"
	"github.com/Cadenza-Audio/cadenza-go/pkg/audio/sink"
)

// Source supplies raw PCM bytes on demand. pkg/audio/source implementations
// satisfy it.
type Source interface {
	io.Reader
	Format() audio.Format
	Position() int64
	Length() int64
}

// ProgressFunc observes encode progress after each source read. length is
// zero when the source length is unknown. Progress reporting is a side
// channel; it has no effect on the encode.
type ProgressFunc func(position, length int64)

// EncodeFrom drains src through the session, reading up to four seconds of
// audio per iteration and writing every non-empty read. It stops at end of
// source. The session is left open; the caller closes it.
func (s *Session) EncodeFrom(src Source, progress ProgressFunc) error {
	if s.disposed {
		return ErrSessionDisposed
	}

	chunk := make([]byte, maxBlockSeconds*src.Format().ByteRate())
	for {
		n, err := src.Read(chunk)
		if n > 0 {
			if _, werr := s.Write(chunk[:n]); werr != nil {
				return werr
			}
			if progress != nil {
				progress(src.Position(), src.Length())
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if n == 0 {
			return nil
		}
	}
}

// NewWAV creates a session encoding srcFormat PCM into a WAV container.
func NewWAV(stream io.ReadWriter, srcFormat audio.Format) (*Session, error) {
	return New(stream, srcFormat, srcFormat, sink.ContainerWAV)
}

// NewFLAC creates a session encoding srcFormat PCM into a FLAC stream.
func NewFLAC(stream io.ReadWriter, srcFormat audio.Format) (*Session, error) {
	return New(stream, srcFormat, srcFormat, sink.ContainerFLAC)
}

// NewOpus creates a session encoding srcFormat PCM into an Opus elementary
// stream at the given bitrate. The source sample rate must be one Opus
// accepts (8, 12, 16, 24 or 48 kHz).
func NewOpus(stream io.ReadWriter, srcFormat audio.Format, bitrateKbps int) (*Session, error) {
	return New(stream, srcFormat, srcFormat, sink.ContainerOpus, WithBitrate(bitrateKbps))
}

// NewPCM creates a session copying srcFormat PCM into a headerless stream.
func NewPCM(stream io.ReadWriter, srcFormat audio.Format) (*Session, error) {
	return New(stream, srcFormat, srcFormat, sink.ContainerPCM)
}
