package mix

// Isolate derives the signal attributable to the newest layer alone by
// subtracting the previous cumulative mix from the current one.
//
// With no previous mix (the first layer in a stack) the isolated signal is
// the current mix unchanged. Otherwise the result takes the current mix's
// sample rate, channel count, and length; where the previous mix has fewer
// channels or fewer samples the subtrahend is treated as silence. No
// resampling, clipping, or normalization is performed, so output samples
// may exceed the nominal representable range.
func Isolate(current, previous *Buffer) *Buffer {
	if previous == nil {
		return current.Clone()
	}

	out := &Buffer{
		SampleRate: current.SampleRate,
		Channels:   make([][]float64, len(current.Channels)),
	}
	for c, samples := range current.Channels {
		isolated := make([]float64, len(samples))
		copy(isolated, samples)
		if c < len(previous.Channels) {
			prev := previous.Channels[c]
			n := len(samples)
			if len(prev) < n {
				n = len(prev)
			}
			for i := 0; i < n; i++ {
				isolated[i] -= prev[i]
			}
		}
		out.Channels[c] = isolated
	}
	return out
}
