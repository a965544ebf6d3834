// ABOUTME: Process-wide startup and shutdown for the encoding subsystem
// ABOUTME: Registers built-in sinks explicitly instead of via init side effects
package sinkwriter

import (
	"sync"

	"github.com/Cadenza-Audio/cadenza-go/pkg/audio/sink"
)

var (
	startupMu sync.Mutex
	started   bool
)

// Startup initializes the encoding subsystem by registering the built-in
// container sinks. It is idempotent and is called by New, so an explicit
// call is optional; call it yourself to fail fast or to probe container
// support before creating sessions.
func Startup() {
	startupMu.Lock()
	defer startupMu.Unlock()
	if started {
		return
	}
	sink.RegisterBuiltins()
	started = true
}

// Shutdown deregisters every container sink, including any the caller
// registered. Intended for process exit; a later Startup re-registers the
// builtins.
func Shutdown() {
	startupMu.Lock()
	defer startupMu.Unlock()
	if !started {
		return
	}
	sink.Reset()
	started = false
}
