// ABOUTME: Package documentation for the tone engine
// ABOUTME: Describes the controller surface and the render loop contract
// Package engine renders a continuous sine tone to an output stream on
// a dedicated goroutine, auto-tuning the device buffer to the smallest
// underrun-free size at startup.
//
// An engine is created against a stream.Opener (see pkg/device for the
// default backend) and controlled with flag flips:
//
//	eng, err := engine.Create(device.Open, audio.DefaultFormat, engine.Config{})
//	err = eng.StartPlayback() // tone
//	err = eng.StopPlayback()  // silence, stream stays hot
//	eng.Destroy()             // async teardown
//	<-eng.Done()              // join
//
// The render loop is the exclusive owner of the stream: it writes one
// burst per iteration, never retries a failed write, and performs the
// stop/close/clear teardown sequence itself when Destroy is requested.
package engine
