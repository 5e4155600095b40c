// ABOUTME: Output stream collaborator boundary
// ABOUTME: Defines the device stream interface the engine renders into
package stream

import (
	"errors"
	"time"

	"github.com/Puretone-Audio/puretone-go/pkg/audio"
)

// State is the lifecycle state of a stream.
type State int

const (
	StateUninitialized State = iota
	StateOpen
	StateStarted
	StateStopped
	StateClosed
	StateDisconnected
)

// String returns a human-readable state name for logs.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateOpen:
		return "open"
	case StateStarted:
		return "started"
	case StateStopped:
		return "stopped"
	case StateClosed:
		return "closed"
	case StateDisconnected:
		return "disconnected"
	}
	return "unknown"
}

// SharingMode selects how the device is shared with other applications.
type SharingMode int

const (
	// SharingShared mixes this stream with other applications' audio.
	SharingShared SharingMode = iota
	// SharingExclusive requests sole ownership of the device for lower
	// latency; backends that cannot grant it fall back to shared.
	SharingExclusive
)

var (
	// ErrClosed is returned when an operation is attempted on a closed stream.
	ErrClosed = errors.New("stream: closed")
	// ErrWriteTimeout is returned when a blocking write could not place
	// any frames before its deadline.
	ErrWriteTimeout = errors.New("stream: write timed out")
)

// Stream is an open connection to an audio output device. Writes block
// until the device accepts the frames or the timeout expires; all other
// methods are non-blocking. Exactly one goroutine may call Write at a
// time.
type Stream interface {
	State() State
	SampleRate() int
	SamplesPerFrame() int

	// FramesPerBurst is the device's natural transfer granularity.
	// Buffer size changes are quantized to this unit.
	FramesPerBurst() int

	BufferSizeInFrames() int
	BufferCapacityInFrames() int

	// SetBufferSizeInFrames requests a new active buffer size. The
	// device may clamp the request; the adopted size is returned.
	SetBufferSizeInFrames(frames int) (int, error)

	// XRunCount returns the cumulative number of underruns the device
	// has reported since the stream was opened.
	XRunCount() int

	// Write queues frames interleaved samples from buf onto the device,
	// blocking until space is available or timeout expires. It returns
	// the number of frames accepted.
	Write(buf []int16, frames int, timeout time.Duration) (int, error)

	Start() error
	Stop() error
	Close() error
}

// Opener opens a stream for the given format. It is the injection point
// between the engine and a concrete device backend.
type Opener func(format audio.Format, mode SharingMode) (Stream, error)
