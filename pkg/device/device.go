// ABOUTME: oto-backed output stream
// ABOUTME: Implements the stream boundary with real underrun accounting
package device

import (
	"encoding/binary"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Puretone-Audio/puretone-go/pkg/audio"
	"github.com/Puretone-Audio/puretone-go/pkg/stream"
	"github.com/ebitengine/oto/v3"
)

const (
	// defaultBurstMillis sets the transfer granularity when the caller
	// does not override it. 10ms is a safe burst on desktop backends.
	defaultBurstMillis = 10

	// defaultCapacityBursts bounds how far the tuner can grow the buffer.
	defaultCapacityBursts = 16

	// writePollInterval is how often a blocked Write rechecks for room.
	writePollInterval = 500 * time.Microsecond
)

// Config controls how the device stream is opened.
type Config struct {
	Format  audio.Format
	Sharing stream.SharingMode

	// FramesPerBurst overrides the transfer granularity. 0 means 10ms
	// worth of frames at the configured sample rate.
	FramesPerBurst int

	// CapacityBursts overrides the maximum buffer size, in bursts.
	CapacityBursts int
}

// Open is a stream.Opener for the default device configuration.
func Open(format audio.Format, mode stream.SharingMode) (stream.Stream, error) {
	return OpenWith(Config{Format: format, Sharing: mode})
}

// OpenWith opens the default output device with explicit geometry. The
// returned stream is in the open state; call Start before writing. An
// error here means audio output is not available on this platform.
func OpenWith(cfg Config) (stream.Stream, error) {
	f := cfg.Format
	if !f.Valid() {
		return nil, fmt.Errorf("device: unsupported format %+v", f)
	}

	burst := cfg.FramesPerBurst
	if burst <= 0 {
		burst = f.SampleRate * defaultBurstMillis / 1000
	}
	capBursts := cfg.CapacityBursts
	if capBursts <= 0 {
		capBursts = defaultCapacityBursts
	}
	capacity := burst * capBursts

	op := &oto.NewContextOptions{
		SampleRate:   f.SampleRate,
		ChannelCount: f.Channels,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   time.Duration(burst) * time.Second / time.Duration(f.SampleRate),
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("device: audio is not supported on this platform: %w", err)
	}
	<-readyChan

	s := &otoStream{
		format:   f,
		burst:    burst,
		capacity: capacity,
		otoCtx:   ctx,
		ring:     newRing(capacity * f.BytesPerFrame()),
	}
	s.state.Store(int32(stream.StateOpen))
	// Start half-open between one burst and capacity; the tuner will
	// walk it down (or up) from there.
	s.bufSize.Store(int64(roundUpToBurst(capacity/2, burst)))

	return s, nil
}

// otoStream connects the blocking write API to oto's pull model through
// the SPSC ring. The audio callback drains the ring; a drained ring is
// filled with silence and counted as an underrun.
type otoStream struct {
	format   audio.Format
	burst    int
	capacity int

	state   atomic.Int32
	bufSize atomic.Int64
	xruns   atomic.Int64

	ring    *ring
	otoCtx  *oto.Context
	scratch []byte

	mu     sync.Mutex
	player *oto.Player
}

func (s *otoStream) State() stream.State { return stream.State(s.state.Load()) }
func (s *otoStream) SampleRate() int     { return s.format.SampleRate }
func (s *otoStream) SamplesPerFrame() int {
	return s.format.SamplesPerFrame()
}
func (s *otoStream) FramesPerBurst() int         { return s.burst }
func (s *otoStream) BufferSizeInFrames() int     { return int(s.bufSize.Load()) }
func (s *otoStream) BufferCapacityInFrames() int { return s.capacity }
func (s *otoStream) XRunCount() int              { return int(s.xruns.Load()) }

// SetBufferSizeInFrames quantizes the request to whole bursts and
// clamps it to [burst, capacity], then returns the adopted size.
func (s *otoStream) SetBufferSizeInFrames(frames int) (int, error) {
	if s.State() == stream.StateClosed {
		return 0, stream.ErrClosed
	}
	if frames <= 0 {
		return 0, fmt.Errorf("device: invalid buffer size %d frames", frames)
	}
	adopted := roundUpToBurst(frames, s.burst)
	if adopted > s.capacity {
		adopted = s.capacity
	}
	s.bufSize.Store(int64(adopted))
	return adopted, nil
}

// Write blocks until all frames are queued, the timeout expires, or the
// stream is closed. The active buffer size caps ring occupancy, which
// is what makes the tuner's size changes actually change latency.
func (s *otoStream) Write(buf []int16, frames int, timeout time.Duration) (int, error) {
	if s.State() == stream.StateClosed {
		return 0, stream.ErrClosed
	}

	bytesPerFrame := s.format.BytesPerFrame()
	total := frames * bytesPerFrame
	if cap(s.scratch) < total {
		s.scratch = make([]byte, total)
	}
	scratch := s.scratch[:total]
	for i := 0; i < frames*s.format.Channels; i++ {
		binary.LittleEndian.PutUint16(scratch[i*2:], uint16(buf[i]))
	}

	deadline := time.Now().Add(timeout)
	written := 0
	for written < total {
		limit := int(s.bufSize.Load()) * bytesPerFrame
		if room := limit - s.ring.Available(); room > 0 {
			n := room
			if n > total-written {
				n = total - written
			}
			written += s.ring.Write(scratch[written : written+n])
			continue
		}
		if time.Now().After(deadline) {
			if written == 0 {
				return 0, stream.ErrWriteTimeout
			}
			break
		}
		time.Sleep(writePollInterval)
	}
	return written / bytesPerFrame, nil
}

// Start begins pulling from the ring on the device callback.
func (s *otoStream) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.State() == stream.StateClosed {
		return stream.ErrClosed
	}
	if s.player == nil {
		s.player = s.otoCtx.NewPlayer(&deviceReader{s: s})
	}
	s.player.Play()
	s.state.Store(int32(stream.StateStarted))
	return nil
}

// Stop pauses the device without releasing it.
func (s *otoStream) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.State() == stream.StateClosed {
		return stream.ErrClosed
	}
	if s.player != nil {
		s.player.Pause()
	}
	s.state.Store(int32(stream.StateStopped))
	return nil
}

// Close releases the device. The stream cannot be reused afterwards.
func (s *otoStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.State() == stream.StateClosed {
		return nil
	}
	s.state.Store(int32(stream.StateClosed))
	var err error
	if s.player != nil {
		err = s.player.Close()
		s.player = nil
	}
	s.otoCtx.Suspend()
	return err
}

// deviceReader adapts the ring to oto's io.Reader pull model. A
// shortfall while the stream is started means the writer did not keep
// up: the gap is played as silence and counted as one underrun.
type deviceReader struct {
	s *otoStream
}

func (d *deviceReader) Read(p []byte) (int, error) {
	n := d.s.ring.Read(p)
	if n < len(p) {
		clear(p[n:])
		if d.s.State() == stream.StateStarted {
			d.s.xruns.Add(1)
		}
	}
	return len(p), nil
}

func roundUpToBurst(frames, burst int) int {
	if frames < burst {
		return burst
	}
	return (frames + burst - 1) / burst * burst
}
