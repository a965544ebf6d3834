// ABOUTME: Streaming block encoder session
// ABOUTME: Slices raw PCM into timestamped samples and writes them to a sink
package sinkwriter

import (
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/Cadenza-Audio/cadenza-go/pkg/audio"
	"github.com/Cadenza-Audio/cadenza-go/pkg/audio/sink"
)

// maxBlockSeconds bounds the size of a single sample handed to the sink.
// Large writes are carved into blocks of at most this much audio, keeping
// per-call scratch allocation bounded.
const maxBlockSeconds = 4

// Session is a streaming block encoder bound to one destination stream.
//
// A session accepts raw PCM bytes through Write, slices them into bounded
// blocks, stamps each block with a start time and duration derived from the
// source byte rate, and hands them to the sink in input order. Close
// finalizes the sink (when it holds data), releases it and flushes the
// container bytes back to the destination stream.
//
// Sessions are not safe for concurrent use; the caller must serialize
// access.
type Session struct {
	id           string
	snk          sink.Sink
	storage      *memStorage
	dest         io.ReadWriter
	sourceFormat audio.Format
	targetFormat audio.Format
	container    sink.Container
	streamIndex  int
	byteRate     int
	position     audio.Ticks
	disposed     bool
}

// Option configures session creation.
type Option func(*sink.Options)

// WithBitrate sets the codec bitrate in kbit/s for lossy containers.
func WithBitrate(kbps int) Option {
	return func(o *sink.Options) { o.BitrateKbps = kbps }
}

// WithHardwareTransforms requests hardware-accelerated transforms where the
// sink supports them.
func WithHardwareTransforms() Option {
	return func(o *sink.Options) { o.EnableHardwareTransforms = true }
}

// New creates an encoder session writing a container of the given kind to
// stream.
//
// The destination must be fully materializable: any existing stream content
// is read into an in-memory buffer that the sink writes the container into,
// and the buffer is flushed back to the stream at Close. sourceFormat
// describes the raw bytes passed to Write and drives all timestamp
// arithmetic; targetFormat is the format the sink encodes to. No resampling
// is performed.
//
// On failure every resource acquired up to the failing step is released
// before the *InitializationError is returned.
func New(stream io.ReadWriter, sourceFormat, targetFormat audio.Format, container sink.Container, opts ...Option) (*Session, error) {
	if stream == nil {
		return nil, &InitializationError{Step: "validate stream", Err: fmt.Errorf("nil stream")}
	}
	if err := sourceFormat.Validate(); err != nil {
		return nil, &InitializationError{Step: "validate source format", Err: err}
	}
	if err := targetFormat.Validate(); err != nil {
		return nil, &InitializationError{Step: "validate target format", Err: err}
	}
	if container == sink.ContainerUnknown {
		return nil, &InitializationError{Step: "validate container", Err: fmt.Errorf("container kind not set")}
	}

	Startup()

	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, &InitializationError{Step: "materialize storage", Err: err}
	}
	storage := newMemStorage(data)

	options := sink.Options{Container: container}
	for _, opt := range opts {
		opt(&options)
	}

	snk, err := sink.Open(storage, options)
	if err != nil {
		return nil, &InitializationError{Step: "create sink", Err: err}
	}

	streamIndex, err := snk.AddStream(targetFormat)
	if err != nil {
		snk.Release()
		return nil, &InitializationError{Step: "add stream", Err: err}
	}
	if err := snk.SetInputFormat(streamIndex, sourceFormat); err != nil {
		snk.Release()
		return nil, &InitializationError{Step: "set input format", Err: err}
	}
	if err := snk.BeginWriting(); err != nil {
		snk.Release()
		return nil, &InitializationError{Step: "begin writing", Err: err}
	}

	return &Session{
		id:           uuid.New().String(),
		snk:          snk,
		storage:      storage,
		dest:         stream,
		sourceFormat: sourceFormat,
		targetFormat: targetFormat,
		container:    container,
		streamIndex:  streamIndex,
		byteRate:     sourceFormat.ByteRate(),
	}, nil
}

// Write encodes p as one or more timestamped samples.
//
// The input is carved into consecutive blocks of at most four seconds of
// audio each. Blocks are written strictly in order, one in flight at a
// time. A sink failure aborts the remaining blocks and returns a
// *SinkWriteError; the returned count and the session position cover only
// the blocks that succeeded.
func (s *Session) Write(p []byte) (int, error) {
	if s.disposed {
		return 0, ErrSessionDisposed
	}

	maxBlock := maxBlockSeconds * s.byteRate
	written := 0
	for written < len(p) {
		n := len(p) - written
		if n > maxBlock {
			n = maxBlock
		}

		// Each block gets its own scratch copy; the sink may retain it.
		block := make([]byte, n)
		copy(block, p[written:written+n])

		duration := audio.DurationTicks(n, s.byteRate)
		if err := s.snk.WriteSample(s.streamIndex, block, s.position, duration); err != nil {
			return written, &SinkWriteError{StreamIndex: s.streamIndex, Err: err}
		}
		s.position += duration
		written += n
	}
	return written, nil
}

// Close tears the session down: the sink is finalized if it holds any
// queued bytes or received samples, then released, and the container bytes
// are flushed back to the destination stream. Close is idempotent and
// always completes the full sequence; it returns the first error
// encountered, for information only.
func (s *Session) Close() error {
	if s.disposed {
		return nil
	}
	s.disposed = true

	var firstErr error
	record := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	// Finalizing a sink that received nothing can itself fail on some
	// encoders, so finalize only when unflushed data exists.
	stats, err := s.snk.Statistics(s.streamIndex)
	record(err)
	if err == nil && (stats.QueuedByteCount > 0 || stats.SamplesReceived > 0) {
		record(s.snk.Finalize())
	}
	record(s.snk.Release())

	if s.storage.Len() > 0 {
		_, err = s.dest.Write(s.storage.Bytes())
		record(err)
	}

	s.snk = nil
	s.storage = nil
	return firstErr
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// Position returns the cumulative duration of all samples successfully
// handed to the sink. It never decreases.
func (s *Session) Position() audio.Ticks { return s.position }

// StreamIndex returns the sink stream the session writes to.
func (s *Session) StreamIndex() int { return s.streamIndex }

// SourceFormat returns the declared input format.
func (s *Session) SourceFormat() audio.Format { return s.sourceFormat }

// TargetFormat returns the declared output format.
func (s *Session) TargetFormat() audio.Format { return s.targetFormat }

// Container returns the session's container kind.
func (s *Session) Container() sink.Container { return s.container }

// Disposed reports whether Close has run.
func (s *Session) Disposed() bool { return s.disposed }
