// ABOUTME: Low-latency buffer size tuner
// ABOUTME: Grows the device buffer one burst at a time until underruns stop
package engine

import (
	"fmt"
	"time"

	"github.com/Puretone-Audio/puretone-go/pkg/stream"
)

// probeTimeout is generous on purpose: a probe write covers the whole
// buffer capacity and must not fail just because the device drains slowly.
const probeTimeout = time.Second

// tuneForLowLatency searches for the smallest buffer size, starting at
// one burst, that produces no new underruns when a capacity-sized
// silent probe is written. On success the stream is left at the tuned
// size. On any error the original size is restored and the error
// returned; playback still works, just without the latency optimization.
func tuneForLowLatency(s stream.Stream) error {
	if state := s.State(); state != stream.StateStarted {
		return fmt.Errorf("tuner: stream is %v, not started", state)
	}

	burst := s.FramesPerBurst()
	origSize := s.BufferSizeInFrames()
	capacity := s.BufferCapacityInFrames()

	probe := make([]int16, capacity*s.SamplesPerFrame())

	prevXRuns := s.XRunCount()
	prevSize := origSize
	size := burst
	for size <= capacity {
		if _, err := s.SetBufferSizeInFrames(size); err != nil {
			s.SetBufferSizeInFrames(origSize)
			return fmt.Errorf("tuner: set buffer size to %d frames: %w", size, err)
		}

		// The device may clamp or refuse the request, so re-read the
		// adopted size. No movement since the last round means the
		// device has converged and the current size is the answer.
		size = s.BufferSizeInFrames()
		if size == prevSize {
			return nil
		}
		prevSize = size

		if _, err := s.Write(probe, capacity, probeTimeout); err != nil {
			s.SetBufferSizeInFrames(origSize)
			return fmt.Errorf("tuner: probe write: %w", err)
		}

		xruns := s.XRunCount()
		if xruns <= prevXRuns {
			// No new underruns at this size, tuning is complete.
			return nil
		}
		prevXRuns = xruns
		size += burst
	}

	// Ran out of room to grow; capacity is as resilient as it gets.
	return nil
}
