// ABOUTME: Package documentation for the stream boundary
// ABOUTME: Notes the blocking-write and single-writer contracts
// Package stream defines the boundary between the tone engine and an
// audio output backend: geometry reads, buffer-size negotiation, an
// underrun counter, and a blocking write with a timeout. Implementations
// live elsewhere (pkg/device for the default output device); the engine
// only ever sees this interface.
package stream
