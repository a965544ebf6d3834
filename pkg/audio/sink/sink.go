// ABOUTME: Sink contract and container registry
// ABOUTME: Defines the Sink interface, options and the factory registry
package sink

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/Cadenza-Audio/cadenza-go/pkg/audio"
)

// ErrUnsupportedFormat is returned when no encoder exists for the requested
// container or target format combination. Callers can probe for it with
// errors.Is before committing resources.
var ErrUnsupportedFormat = errors.New("sink: unsupported output format")

// ErrReleased is returned when a sink is used after Release.
var ErrReleased = errors.New("sink: released")

// Container identifies the output wrapper format a sink produces.
type Container int

const (
	ContainerUnknown Container = iota
	ContainerWAV
	ContainerFLAC
	ContainerOpus
	ContainerPCM
)

func (c Container) String() string {
	switch c {
	case ContainerWAV:
		return "wav"
	case ContainerFLAC:
		return "flac"
	case ContainerOpus:
		return "opus"
	case ContainerPCM:
		return "pcm"
	default:
		return "unknown"
	}
}

// ParseContainer maps a name like "wav" or "flac" to its Container value.
func ParseContainer(name string) (Container, error) {
	switch name {
	case "wav":
		return ContainerWAV, nil
	case "flac":
		return ContainerFLAC, nil
	case "opus":
		return ContainerOpus, nil
	case "pcm":
		return ContainerPCM, nil
	default:
		return ContainerUnknown, fmt.Errorf("%w: unknown container %q", ErrUnsupportedFormat, name)
	}
}

// Options configure sink creation.
type Options struct {
	// Container selects the output wrapper format.
	Container Container

	// EnableHardwareTransforms is accepted for API compatibility with
	// hardware-accelerated backends. The pure-Go sinks ignore it.
	EnableHardwareTransforms bool

	// BitrateKbps sets the codec bitrate for lossy containers.
	// Zero selects the codec default. Lossless containers ignore it.
	BitrateKbps int
}

// Statistics reports a sink stream's pending state.
type Statistics struct {
	// QueuedByteCount is the number of sample bytes accepted since the
	// last finalize.
	QueuedByteCount int64

	// SamplesReceived is the number of samples handed to the stream.
	SamplesReceived int64
}

// Sink is a stream-oriented encoding target. Samples are tagged with a
// stream index, start time and duration; the sink owns the container byte
// layout written to its storage. A sink must be finalized before release
// or the container may be truncated.
type Sink interface {
	// AddStream registers a logical stream with the given target format
	// and returns its stream index. Returns ErrUnsupportedFormat when the
	// container cannot encode the format.
	AddStream(target audio.Format) (int, error)

	// SetInputFormat declares the shape of the raw bytes that will be
	// handed to WriteSample for the stream.
	SetInputFormat(streamIndex int, src audio.Format) error

	// BeginWriting transitions the sink into its writing phase. Must be
	// called after streams are configured and before WriteSample.
	BeginWriting() error

	// WriteSample hands one sample to the stream. The call is synchronous;
	// data is fully consumed before it returns.
	WriteSample(streamIndex int, data []byte, start, duration audio.Ticks) error

	// Statistics reports the stream's pending byte and sample counts.
	Statistics(streamIndex int) (Statistics, error)

	// Finalize flushes codec state and writes trailing container metadata.
	Finalize() error

	// Release frees the sink. Idempotent; the sink is unusable afterwards.
	Release() error
}

// Factory creates a sink writing its container to storage.
type Factory func(storage io.WriteSeeker, opts Options) (Sink, error)

var (
	regMu    sync.RWMutex
	registry = map[Container]Factory{}
)

// Register installs a factory for a container kind, replacing any previous
// registration.
func Register(c Container, f Factory) {
	regMu.Lock()
	registry[c] = f
	regMu.Unlock()
}

// Deregister removes a container's factory.
func Deregister(c Container) {
	regMu.Lock()
	delete(registry, c)
	regMu.Unlock()
}

// Registered reports whether a factory exists for the container.
func Registered(c Container) bool {
	regMu.RLock()
	_, ok := registry[c]
	regMu.RUnlock()
	return ok
}

// RegisterBuiltins installs the built-in container sinks (WAV, FLAC, Opus,
// raw PCM). Safe to call more than once.
func RegisterBuiltins() {
	Register(ContainerWAV, newWAVSink)
	Register(ContainerFLAC, newFLACSink)
	Register(ContainerOpus, newOpusSink)
	Register(ContainerPCM, newPCMSink)
}

// Reset removes every registered factory, including the builtins.
func Reset() {
	regMu.Lock()
	registry = map[Container]Factory{}
	regMu.Unlock()
}

// Open creates a sink for the container selected in opts, writing to storage.
func Open(storage io.WriteSeeker, opts Options) (Sink, error) {
	regMu.RLock()
	f, ok := registry[opts.Container]
	regMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: no sink registered for container %s", ErrUnsupportedFormat, opts.Container)
	}
	return f(storage, opts)
}
