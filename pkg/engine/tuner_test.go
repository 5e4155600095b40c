// ABOUTME: Tests for the buffer size tuner
// ABOUTME: Covers convergence, rollback on failure, and early exit
package engine

import (
	"errors"
	"testing"
)

func TestTunerConvergesAtUnderrunThreshold(t *testing.T) {
	f := newFakeStream()
	f.Start()
	f.xrunThreshold = 240 // underruns stop once the buffer reaches 240 frames

	if err := tuneForLowLatency(f); err != nil {
		t.Fatalf("tuning failed: %v", err)
	}

	size := f.BufferSizeInFrames()
	if size > f.xrunThreshold+f.burst {
		t.Errorf("tuned size %d exceeds threshold %d + one burst", size, f.xrunThreshold)
	}
	if size > f.capacity {
		t.Errorf("tuned size %d exceeds capacity %d", size, f.capacity)
	}
	if size < f.burst {
		t.Errorf("tuned size %d below one burst %d", size, f.burst)
	}
}

func TestTunerStopsAtCapacity(t *testing.T) {
	f := newFakeStream()
	f.Start()
	f.xrunThreshold = f.capacity * 2 // every probe underruns

	if err := tuneForLowLatency(f); err != nil {
		t.Fatalf("expected capacity-bounded success, got %v", err)
	}
	if size := f.BufferSizeInFrames(); size != f.capacity {
		t.Errorf("expected size pinned at capacity %d, got %d", f.capacity, size)
	}
}

func TestTunerRollsBackWhenResizeFails(t *testing.T) {
	f := newFakeStream()
	f.Start()
	f.setErr = errors.New("device refused resize")
	orig := f.BufferSizeInFrames()

	if err := tuneForLowLatency(f); err == nil {
		t.Fatal("expected tuning error when every resize fails")
	}
	if size := f.BufferSizeInFrames(); size != orig {
		t.Errorf("expected original size %d after rollback, got %d", orig, size)
	}
	if writes := f.totalWrites(); writes != 0 {
		t.Errorf("expected no probe writes after resize failure, got %d", writes)
	}
}

func TestTunerRollsBackWhenProbeWriteFails(t *testing.T) {
	f := newFakeStream()
	f.Start()
	f.writeErr = errors.New("device write failed")
	orig := f.BufferSizeInFrames()

	if err := tuneForLowLatency(f); err == nil {
		t.Fatal("expected tuning error when the probe write fails")
	}
	if size := f.BufferSizeInFrames(); size != orig {
		t.Errorf("expected original size %d after rollback, got %d", orig, size)
	}
}

func TestTunerImmediateConvergenceSkipsProbe(t *testing.T) {
	// A device that refuses to change size has already converged; the
	// tuner must report success without gathering underrun evidence.
	f := newFakeStream()
	f.Start()
	f.refuseResize = true
	orig := f.BufferSizeInFrames()

	if err := tuneForLowLatency(f); err != nil {
		t.Fatalf("expected success on immediate convergence, got %v", err)
	}
	if writes := f.totalWrites(); writes != 0 {
		t.Errorf("expected zero probe writes, got %d", writes)
	}
	if size := f.BufferSizeInFrames(); size != orig {
		t.Errorf("size changed from %d to %d on a refusing device", orig, size)
	}
}

func TestTunerRequiresStartedStream(t *testing.T) {
	f := newFakeStream() // still in the open state

	if err := tuneForLowLatency(f); err == nil {
		t.Fatal("expected tuning error on a stream that is not started")
	}
	if f.setCalls != 0 {
		t.Errorf("expected no resize attempts on a stopped stream, got %d", f.setCalls)
	}
	if writes := f.totalWrites(); writes != 0 {
		t.Errorf("expected no probe writes on a stopped stream, got %d", writes)
	}
}
