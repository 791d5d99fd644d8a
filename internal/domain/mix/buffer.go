// Package mix derives isolated single-track audio from cumulative
// multi-layer mixes.
package mix

// Buffer is a decoded multi-channel audio signal. Channels hold one sample
// sequence per channel; within a buffer all channels have equal length.
type Buffer struct {
	SampleRate int
	Channels   [][]float64
}

// NumChannels returns the channel count.
func (b *Buffer) NumChannels() int {
	return len(b.Channels)
}

// Len returns the per-channel sample count.
func (b *Buffer) Len() int {
	if len(b.Channels) == 0 {
		return 0
	}
	return len(b.Channels[0])
}

// Clone returns a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	out := &Buffer{
		SampleRate: b.SampleRate,
		Channels:   make([][]float64, len(b.Channels)),
	}
	for c, samples := range b.Channels {
		out.Channels[c] = make([]float64, len(samples))
		copy(out.Channels[c], samples)
	}
	return out
}
