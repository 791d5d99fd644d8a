package mix

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const encodeBitDepth = 16

// DecodeWAV parses a WAV payload into a Buffer with samples normalized to
// [-1, 1] according to the source bit depth.
func DecodeWAV(data []byte) (*Buffer, error) {
	decoder := wav.NewDecoder(bytes.NewReader(data))
	pcm, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAudio, err)
	}
	if !decoder.IsValidFile() || pcm.Format == nil || pcm.Format.NumChannels <= 0 {
		return nil, fmt.Errorf("%w: not a WAV file", ErrInvalidAudio)
	}

	bitDepth := pcm.SourceBitDepth
	if bitDepth == 0 {
		bitDepth = int(decoder.BitDepth)
	}
	if bitDepth <= 0 || bitDepth > 32 {
		return nil, fmt.Errorf("%w: unsupported bit depth %d", ErrInvalidAudio, bitDepth)
	}
	scale := float64(int64(1) << (bitDepth - 1))

	numChans := pcm.Format.NumChannels
	frames := len(pcm.Data) / numChans
	out := &Buffer{
		SampleRate: pcm.Format.SampleRate,
		Channels:   make([][]float64, numChans),
	}
	for c := 0; c < numChans; c++ {
		out.Channels[c] = make([]float64, frames)
	}
	for i := 0; i < frames; i++ {
		for c := 0; c < numChans; c++ {
			out.Channels[c][i] = float64(pcm.Data[i*numChans+c]) / scale
		}
	}
	return out, nil
}

// EncodeWAV renders the buffer as a 16-bit PCM WAV payload. Samples outside
// [-1, 1] are clamped at this boundary only; the in-memory signal itself is
// never clipped.
func EncodeWAV(buf *Buffer) ([]byte, error) {
	if buf == nil || buf.NumChannels() == 0 {
		return nil, fmt.Errorf("%w: empty buffer", ErrInvalidAudio)
	}

	numChans := buf.NumChannels()
	frames := buf.Len()
	scale := float64(int64(1) << (encodeBitDepth - 1))

	data := make([]int, frames*numChans)
	for i := 0; i < frames; i++ {
		for c := 0; c < numChans; c++ {
			v := int(math.Round(buf.Channels[c][i] * scale))
			if v > int(scale)-1 {
				v = int(scale) - 1
			} else if v < -int(scale) {
				v = -int(scale)
			}
			data[i*numChans+c] = v
		}
	}

	var sink seekableBuffer
	encoder := wav.NewEncoder(&sink, buf.SampleRate, encodeBitDepth, numChans, 1)
	err := encoder.Write(&audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: numChans,
			SampleRate:  buf.SampleRate,
		},
		Data:           data,
		SourceBitDepth: encodeBitDepth,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding wav: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("finalizing wav: %w", err)
	}
	return sink.data, nil
}

// seekableBuffer adapts an in-memory byte slice to the io.WriteSeeker the
// wav encoder requires for header backfilling.
type seekableBuffer struct {
	data []byte
	pos  int
}

func (b *seekableBuffer) Write(p []byte) (int, error) {
	if need := b.pos + len(p); need > len(b.data) {
		grown := make([]byte, need)
		copy(grown, b.data)
		b.data = grown
	}
	copy(b.data[b.pos:], p)
	b.pos += len(p)
	return len(p), nil
}

func (b *seekableBuffer) Seek(offset int64, whence int) (int64, error) {
	var next int64
	switch whence {
	case io.SeekStart:
		next = offset
	case io.SeekCurrent:
		next = int64(b.pos) + offset
	case io.SeekEnd:
		next = int64(len(b.data)) + offset
	default:
		return 0, fmt.Errorf("invalid whence %d", whence)
	}
	if next < 0 {
		return 0, fmt.Errorf("negative seek position %d", next)
	}
	b.pos = int(next)
	return next, nil
}
