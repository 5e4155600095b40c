// ABOUTME: Band-limited sine oscillator
// ABOUTME: Renders quantized PCM16 samples into interleaved buffers
package synth

import "math"

const maxSample = 32767.0

// SineGenerator produces a continuous sine tone. The phase accumulator
// advances on every rendered sample, so consecutive Render calls join
// without clicks. The zero value is silent until Configure is called.
type SineGenerator struct {
	phase     float64
	increment float64
	scale     float64
}

// Configure sets the tone parameters. amplitude is in [0, 1] of full
// scale; sampleRate must be positive.
func (g *SineGenerator) Configure(frequency float64, sampleRate int, amplitude float64) {
	if amplitude < 0 {
		amplitude = 0
	}
	if amplitude > 1 {
		amplitude = 1
	}
	g.increment = 2 * math.Pi * frequency / float64(sampleRate)
	g.scale = amplitude * maxSample
}

// Render writes frames samples into buf, advancing stride elements
// between samples. Rendering one channel of an interleaved buffer is
// done with stride = channel count and buf offset by the channel index.
func (g *SineGenerator) Render(buf []int16, stride, frames int) {
	for i := 0; i < frames; i++ {
		buf[i*stride] = int16(math.Sin(g.phase) * g.scale)
		g.phase += g.increment
		if g.phase >= 2*math.Pi {
			g.phase -= 2 * math.Pi
		}
	}
}
