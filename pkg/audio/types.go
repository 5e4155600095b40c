// ABOUTME: Audio type definitions
// ABOUTME: Defines the PCM output format and derived sizes
package audio

// Format describes a PCM output format
type Format struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// DefaultFormat is 48kHz stereo 16-bit, supported by every backend.
var DefaultFormat = Format{
	SampleRate: 48000,
	Channels:   2,
	BitDepth:   16,
}

// SamplesPerFrame returns the number of samples in one frame (one per channel).
func (f Format) SamplesPerFrame() int {
	return f.Channels
}

// BytesPerSample returns the size of a single sample in bytes.
func (f Format) BytesPerSample() int {
	return f.BitDepth / 8
}

// BytesPerFrame returns the size of one interleaved frame in bytes.
func (f Format) BytesPerFrame() int {
	return f.Channels * f.BitDepth / 8
}

// Valid reports whether the format can be opened at all.
func (f Format) Valid() bool {
	return f.SampleRate > 0 && (f.Channels == 1 || f.Channels == 2) && f.BitDepth == 16
}
