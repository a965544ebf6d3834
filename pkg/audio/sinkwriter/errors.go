// ABOUTME: Error taxonomy for the sink writer
// ABOUTME: Defines disposal, initialization and sample-write errors
package sinkwriter

import (
	"errors"
	"fmt"
)

// ErrSessionDisposed is returned by any operation invoked after Close.
// It always indicates a caller bug; the session performs no I/O for such
// calls.
var ErrSessionDisposed = errors.New("sinkwriter: session disposed")

// InitializationError reports a failed session setup. All resources
// acquired before the failing step are released before it is returned.
// Retrying without changing parameters will not succeed.
type InitializationError struct {
	Step string // the setup step that failed
	Err  error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("sinkwriter: initialization failed at %s: %v", e.Step, e.Err)
}

func (e *InitializationError) Unwrap() error { return e.Err }

// SinkWriteError reports a sample the sink rejected. The session's position
// remains accurate as of the last successful block; the write is not
// retried.
type SinkWriteError struct {
	StreamIndex int
	Err         error
}

func (e *SinkWriteError) Error() string {
	return fmt.Sprintf("sinkwriter: sink rejected sample on stream %d: %v", e.StreamIndex, e.Err)
}

func (e *SinkWriteError) Unwrap() error { return e.Err }
