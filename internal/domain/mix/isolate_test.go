package mix

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsolate_NoPreviousIsIdentity(t *testing.T) {
	current := &Buffer{
		SampleRate: 44100,
		Channels: [][]float64{
			{0.1, 0.2, 0.3},
			{-0.1, -0.2, -0.3},
		},
	}

	result := Isolate(current, nil)
	require.Equal(t, current, result)

	// The result is a copy, not an alias.
	result.Channels[0][0] = 9
	require.Equal(t, 0.1, current.Channels[0][0])
}

func TestIsolate_Subtracts(t *testing.T) {
	current := &Buffer{
		SampleRate: 44100,
		Channels:   [][]float64{{1.0, 0.5, 0.25}},
	}
	previous := &Buffer{
		SampleRate: 44100,
		Channels:   [][]float64{{0.5, 0.5, 0.5}},
	}

	result := Isolate(current, previous)
	require.Equal(t, [][]float64{{0.5, 0.0, -0.25}}, result.Channels)
	require.Equal(t, 44100, result.SampleRate)
}

// A previous mix shorter or narrower than the current one subtracts as
// silence where it is exhausted.
func TestIsolate_ZeroFillsShortPrevious(t *testing.T) {
	current := &Buffer{
		SampleRate: 44100,
		Channels:   [][]float64{{1.0, 2.0, 3.0}},
	}
	previous := &Buffer{
		SampleRate: 44100,
		Channels:   [][]float64{{0.5, 0.5}},
	}

	result := Isolate(current, previous)
	require.Equal(t, [][]float64{{0.5, 1.5, 3.0}}, result.Channels)
}

func TestIsolate_ZeroFillsMissingChannel(t *testing.T) {
	current := &Buffer{
		SampleRate: 48000,
		Channels: [][]float64{
			{1.0, 1.0},
			{0.5, 0.5},
		},
	}
	previous := &Buffer{
		SampleRate: 48000,
		Channels:   [][]float64{{0.25, 0.25}},
	}

	result := Isolate(current, previous)
	require.Equal(t, [][]float64{
		{0.75, 0.75},
		{0.5, 0.5},
	}, result.Channels)
}

func TestIsolate_TakesCurrentShape(t *testing.T) {
	current := &Buffer{
		SampleRate: 22050,
		Channels:   [][]float64{{0.5}},
	}
	previous := &Buffer{
		SampleRate: 44100,
		Channels: [][]float64{
			{0.1, 0.2, 0.3},
			{0.1, 0.2, 0.3},
		},
	}

	result := Isolate(current, previous)
	require.Equal(t, 22050, result.SampleRate)
	require.Equal(t, 1, result.NumChannels())
	require.Equal(t, 1, result.Len())
	require.InDelta(t, 0.4, result.Channels[0][0], 1e-12)
}

// Out-of-range samples pass through; clamping is the caller's concern.
func TestIsolate_NoClipping(t *testing.T) {
	current := &Buffer{SampleRate: 44100, Channels: [][]float64{{1.5}}}
	previous := &Buffer{SampleRate: 44100, Channels: [][]float64{{-1.5}}}

	result := Isolate(current, previous)
	require.Equal(t, 3.0, result.Channels[0][0])
}

func TestIsolate_DoesNotMutateInputs(t *testing.T) {
	current := &Buffer{SampleRate: 44100, Channels: [][]float64{{1.0, 2.0}}}
	previous := &Buffer{SampleRate: 44100, Channels: [][]float64{{0.5, 0.5}}}

	_ = Isolate(current, previous)
	require.Equal(t, [][]float64{{1.0, 2.0}}, current.Channels)
	require.Equal(t, [][]float64{{0.5, 0.5}}, previous.Channels)
}
