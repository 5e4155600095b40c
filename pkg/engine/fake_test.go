// ABOUTME: Scriptable in-memory stream for engine tests
// ABOUTME: Simulates buffer-size adoption, underrun counting, and write failures
package engine

import (
	"sync"
	"time"

	"github.com/Puretone-Audio/puretone-go/pkg/audio"
	"github.com/Puretone-Audio/puretone-go/pkg/stream"
)

const maxRecordedWrites = 5000

// fakeStream simulates a device for tuner and render loop tests. Probe
// and burst writes are recorded; a write issued while the buffer size
// is below xrunThreshold bumps the underrun counter, which makes the
// tuner's hill climb observable.
type fakeStream struct {
	mu sync.Mutex

	state      stream.State
	sampleRate int
	channels   int
	burst      int
	capacity   int
	size       int

	xruns         int
	xrunThreshold int

	setCalls     int
	setErr       error
	refuseResize bool

	startErr   error
	writeErr   error
	writeDelay time.Duration

	writeCount int
	writes     [][]int16
	closed     bool
}

func newFakeStream() *fakeStream {
	return &fakeStream{
		state:      stream.StateOpen,
		sampleRate: 48000,
		channels:   2,
		burst:      48,
		capacity:   48 * 16,
		size:       480,
		writeDelay: 100 * time.Microsecond,
	}
}

func (f *fakeStream) opener() stream.Opener {
	return func(format audio.Format, mode stream.SharingMode) (stream.Stream, error) {
		return f, nil
	}
}

func (f *fakeStream) State() stream.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *fakeStream) SampleRate() int      { return f.sampleRate }
func (f *fakeStream) SamplesPerFrame() int { return f.channels }
func (f *fakeStream) FramesPerBurst() int  { return f.burst }

func (f *fakeStream) BufferSizeInFrames() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.size
}

func (f *fakeStream) BufferCapacityInFrames() int { return f.capacity }

func (f *fakeStream) SetBufferSizeInFrames(frames int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setCalls++
	if f.setErr != nil {
		return 0, f.setErr
	}
	if f.refuseResize {
		return f.size, nil
	}
	adopted := frames
	if adopted < f.burst {
		adopted = f.burst
	}
	adopted = (adopted + f.burst - 1) / f.burst * f.burst
	if adopted > f.capacity {
		adopted = f.capacity
	}
	f.size = adopted
	return adopted, nil
}

func (f *fakeStream) XRunCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.xruns
}

func (f *fakeStream) Write(buf []int16, frames int, timeout time.Duration) (int, error) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return 0, stream.ErrClosed
	}
	if f.writeErr != nil {
		f.mu.Unlock()
		return 0, f.writeErr
	}
	f.writeCount++
	if len(f.writes) < maxRecordedWrites {
		rec := make([]int16, frames*f.channels)
		copy(rec, buf)
		f.writes = append(f.writes, rec)
	}
	if f.size < f.xrunThreshold {
		f.xruns++
	}
	delay := f.writeDelay
	f.mu.Unlock()

	time.Sleep(delay)
	return frames, nil
}

func (f *fakeStream) Start() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startErr != nil {
		return f.startErr
	}
	f.state = stream.StateStarted
	return nil
}

func (f *fakeStream) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = stream.StateStopped
	return nil
}

func (f *fakeStream) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	f.state = stream.StateClosed
	return nil
}

func (f *fakeStream) recordedWrites() [][]int16 {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]int16, len(f.writes))
	copy(out, f.writes)
	return out
}

func (f *fakeStream) totalWrites() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writeCount
}

func (f *fakeStream) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(timeout time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(time.Millisecond)
	}
	return cond()
}
