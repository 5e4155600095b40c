// ABOUTME: Render loop goroutine
// ABOUTME: Continuously writes tone or silence bursts and owns stream teardown
package engine

import (
	"log"

	"github.com/Puretone-Audio/puretone-go/pkg/stream"
	"github.com/Puretone-Audio/puretone-go/pkg/synth"
)

// renderLoop runs on its own goroutine for the life of the engine. It
// tunes the buffer once, then renders one burst per iteration until a
// stop is requested, and finally tears the stream down. No write is
// ever retried: a failed device write ends the session.
func (e *Engine) renderLoop(s stream.Stream) {
	defer close(e.done)

	if err := tuneForLowLatency(s); err != nil {
		log.Printf("engine %s: buffer tuning failed, low latency not guaranteed: %v", e.id, err)
	}
	logStreamInfo(e.id, s)

	var oscA, oscB synth.SineGenerator
	oscA.Configure(e.config.ToneFrequency, e.format.SampleRate, e.config.Amplitude)
	oscB.Configure(e.config.ToneFrequencyB, e.format.SampleRate, e.config.Amplitude)

	framesPerBurst := s.FramesPerBurst()
	samplesPerFrame := s.SamplesPerFrame()
	buf := make([]int16, framesPerBurst*samplesPerFrame)

	for !e.requestStop.Load() {
		if e.playAudio.Load() {
			oscA.Render(buf, samplesPerFrame, framesPerBurst)
			if samplesPerFrame == 2 {
				oscB.Render(buf[1:], samplesPerFrame, framesPerBurst)
			}
		} else {
			clear(buf)
		}

		n, err := s.Write(buf, framesPerBurst, e.config.WriteTimeout)
		if err != nil {
			log.Printf("engine %s: device write failed, ending session: %v", e.id, err)
			break
		}
		if n <= 0 {
			log.Printf("engine %s: device accepted no frames, ending session", e.id)
			break
		}
	}

	if err := s.Stop(); err != nil {
		log.Printf("engine %s: stream stop: %v", e.id, err)
	}
	if err := s.Close(); err != nil {
		log.Printf("engine %s: stream close: %v", e.id, err)
	}
	e.clearStream()

	log.Printf("engine %s: render loop done", e.id)
}

// logStreamInfo records the post-tuning stream geometry for diagnostics.
func logStreamInfo(id string, s stream.Stream) {
	log.Printf("engine %s: stream %v, buffer %d/%d frames, burst %d, xruns %d",
		id, s.State(), s.BufferSizeInFrames(), s.BufferCapacityInFrames(),
		s.FramesPerBurst(), s.XRunCount())
}
