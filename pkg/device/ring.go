// ABOUTME: Lock-free SPSC ring buffer
// ABOUTME: Carries PCM bytes from the writer goroutine to the audio callback
package device

import "sync/atomic"

// ring is a single-producer single-consumer byte ring. Two monotonically
// increasing atomic counters index a power-of-two buffer through a bit
// mask; the producer only stores writePos, the consumer only stores
// readPos, so no mutex or CAS loop is needed.
//
// Thread assignment:
//   - Write, Free: producer goroutine only
//   - Read: consumer (audio callback) only
//   - Available: either side (loads only)
type ring struct {
	writePos atomic.Uint64
	_        [56]byte // keep the counters on separate cache lines
	readPos  atomic.Uint64
	_        [56]byte

	buf  []byte
	mask uint64
}

// newRing creates a ring with capacity rounded up to a power of two.
func newRing(minSize int) *ring {
	size := 1
	for size < minSize {
		size <<= 1
	}
	return &ring{
		buf:  make([]byte, size),
		mask: uint64(size - 1),
	}
}

// Write copies up to len(p) bytes into the ring and returns how many
// were accepted. Non-blocking; producer side only.
func (r *ring) Write(p []byte) int {
	w := r.writePos.Load()
	rd := r.readPos.Load()

	free := uint64(len(r.buf)) - (w - rd)
	if free == 0 {
		return 0
	}

	n := uint64(len(p))
	if n > free {
		n = free
	}

	pos := w & r.mask
	first := uint64(len(r.buf)) - pos
	if first >= n {
		copy(r.buf[pos:pos+n], p[:n])
	} else {
		copy(r.buf[pos:], p[:first])
		copy(r.buf[:n-first], p[first:n])
	}

	r.writePos.Store(w + n)
	return int(n)
}

// Read copies up to len(p) bytes out of the ring and returns how many
// were available. Non-blocking; consumer side only.
func (r *ring) Read(p []byte) int {
	rd := r.readPos.Load()
	w := r.writePos.Load()

	available := w - rd
	if available == 0 {
		return 0
	}

	n := uint64(len(p))
	if n > available {
		n = available
	}

	pos := rd & r.mask
	first := uint64(len(r.buf)) - pos
	if first >= n {
		copy(p[:n], r.buf[pos:pos+n])
	} else {
		copy(p[:first], r.buf[pos:])
		copy(p[first:n], r.buf[:n-first])
	}

	r.readPos.Store(rd + n)
	return int(n)
}

// Available returns the number of bytes ready to read.
func (r *ring) Available() int {
	return int(r.writePos.Load() - r.readPos.Load())
}

// Free returns the number of bytes that can be written.
func (r *ring) Free() int {
	return len(r.buf) - r.Available()
}
