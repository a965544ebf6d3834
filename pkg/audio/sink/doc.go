// ABOUTME: Sink package for container encoding targets
// ABOUTME: Provides the Sink contract, registry and built-in containers
// Package sink provides stream-oriented encoding targets for timestamped
// audio samples.
//
// A Sink accepts fixed-format samples tagged with a stream index, start time
// and duration, and packages them into a container written to its storage.
// Sinks must be finalized before release, or the container may come out
// truncated.
//
// Built-in containers: WAV (RIFF), FLAC, Opus elementary stream, raw PCM.
// Factories are looked up through a process-wide registry populated by
// RegisterBuiltins; sinkwriter.Startup calls it for you.
//
// Example:
//
//	s, err := sink.Open(storage, sink.Options{Container: sink.ContainerFLAC})
//	idx, err := s.AddStream(format)
//	err = s.BeginWriting()
//	err = s.WriteSample(idx, data, 0, audio.TicksPerSecond)
//	err = s.Finalize()
//	err = s.Release()
package sink
