// ABOUTME: Engine state and controller surface
// ABOUTME: Owns the stream handle and the play/stop flags shared with the render loop
package engine

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Puretone-Audio/puretone-go/pkg/audio"
	"github.com/Puretone-Audio/puretone-go/pkg/stream"
	"github.com/google/uuid"
)

const (
	// DefaultToneFrequency drives the first (right/mono) channel.
	DefaultToneFrequency = 440.0
	// DefaultToneFrequencyB drives the second channel on stereo devices.
	DefaultToneFrequencyB = 660.0
	// DefaultAmplitude keeps the tone well below clipping.
	DefaultAmplitude = 0.25

	defaultWriteTimeout = 100 * time.Millisecond
)

// ErrNotRunning is returned by controls issued after the render loop
// has torn the stream down (or was never created).
var ErrNotRunning = errors.New("engine: no open stream")

// Config holds tone parameters for an engine instance. Zero fields are
// replaced with the defaults above.
type Config struct {
	// ToneFrequency is rendered on the first channel (and the only
	// channel on mono devices).
	ToneFrequency float64

	// ToneFrequencyB is rendered on the second channel of a stereo
	// device, so the two ears get distinct pitches.
	ToneFrequencyB float64

	// Amplitude is the tone level in [0, 1] of full scale.
	Amplitude float64

	// WriteTimeout bounds each device write in the render loop.
	WriteTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.ToneFrequency == 0 {
		c.ToneFrequency = DefaultToneFrequency
	}
	if c.ToneFrequencyB == 0 {
		c.ToneFrequencyB = DefaultToneFrequencyB
	}
	if c.Amplitude == 0 {
		c.Amplitude = DefaultAmplitude
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = defaultWriteTimeout
	}
	return c
}

// Engine renders a continuous tone to an output stream on a dedicated
// goroutine. The controller goroutine flips flags; the render loop owns
// the stream exclusively and is the only writer to it.
type Engine struct {
	id     string
	config Config
	format audio.Format

	mu  sync.Mutex
	str stream.Stream // nil once the render loop has finished teardown

	playAudio   atomic.Bool
	requestStop atomic.Bool

	done chan struct{}
}

// Stats is a point-in-time snapshot of the engine for diagnostics.
type Stats struct {
	Playing              bool
	SampleRate           int
	Channels             int
	FramesPerBurst       int
	BufferSizeFrames     int
	BufferCapacityFrames int
	XRuns                int
}

// Create opens a stream via open, starts it, and launches the render
// loop. On any failure no stream is left behind and no goroutine is
// running. The engine starts silent; call StartPlayback to hear the tone.
func Create(open stream.Opener, format audio.Format, cfg Config) (*Engine, error) {
	if !format.Valid() {
		return nil, fmt.Errorf("engine: unsupported format %+v", format)
	}

	s, err := open(format, stream.SharingShared)
	if err != nil {
		return nil, fmt.Errorf("engine: open stream: %w", err)
	}

	if err := s.Start(); err != nil {
		s.Close()
		return nil, fmt.Errorf("engine: start stream: %w", err)
	}

	e := &Engine{
		id:     uuid.New().String()[:8],
		config: cfg.withDefaults(),
		format: audio.Format{
			SampleRate: s.SampleRate(),
			Channels:   s.SamplesPerFrame(),
			BitDepth:   format.BitDepth,
		},
		str:  s,
		done: make(chan struct{}),
	}

	log.Printf("engine %s: created, %dHz %dch, burst=%d frames",
		e.id, e.format.SampleRate, e.format.Channels, s.FramesPerBurst())

	go e.renderLoop(s)

	return e, nil
}

// StartPlayback switches the render loop from silence to the tone.
func (e *Engine) StartPlayback() error {
	if !e.Running() {
		return ErrNotRunning
	}
	e.playAudio.Store(true)
	return nil
}

// StopPlayback mutes the tone; the stream stays open and keeps playing
// silence. Calling it on a torn-down engine is a no-op.
func (e *Engine) StopPlayback() error {
	if !e.Running() {
		return nil
	}
	e.playAudio.Store(false)
	return nil
}

// Destroy requests teardown and returns immediately. The render loop
// observes the flag on a subsequent iteration, stops and closes the
// stream, and then closes Done. Destroy on a torn-down engine is a no-op.
func (e *Engine) Destroy() {
	if !e.Running() {
		return
	}
	e.requestStop.Store(true)
}

// Done is closed once the render loop has finished teardown. It is the
// join handle for tests and orderly shutdown.
func (e *Engine) Done() <-chan struct{} {
	return e.done
}

// Running reports whether the render loop still holds an open stream.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.str != nil
}

// Snapshot returns current stream statistics, or ok=false after
// teardown. It performs only non-blocking reads on the stream.
func (e *Engine) Snapshot() (Stats, bool) {
	e.mu.Lock()
	s := e.str
	e.mu.Unlock()
	if s == nil {
		return Stats{}, false
	}
	return Stats{
		Playing:              e.playAudio.Load(),
		SampleRate:           s.SampleRate(),
		Channels:             s.SamplesPerFrame(),
		FramesPerBurst:       s.FramesPerBurst(),
		BufferSizeFrames:     s.BufferSizeInFrames(),
		BufferCapacityFrames: s.BufferCapacityInFrames(),
		XRuns:                s.XRunCount(),
	}, true
}

// clearStream drops the controller's view of the handle. Called only by
// the render loop, after the stream is closed.
func (e *Engine) clearStream() {
	e.mu.Lock()
	e.str = nil
	e.mu.Unlock()
}
