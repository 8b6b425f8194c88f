package wavsplit

import (
	"fmt"

	"github.com/go-audio/audio"
)

// Fallbacks used when the container doesn't describe the stream.
const (
	DefaultSampleRate    = 44100
	DefaultBitsPerSample = 16
	DefaultChannelLayout = FrontLeft | FrontRight
)

// FormatParameters are the stream properties written in every chunk header.
type FormatParameters struct {
	SampleRate    uint32
	Channels      uint16
	BitsPerSample uint16
}

// ResolveFormatParameters reads the format from the codec parameters,
// falling back to 44100 Hz, stereo and 16 bits for absent values. Present
// values are passed through as-is, a zero sample rate included.
func ResolveFormatParameters(p CodecParams) FormatParameters {
	params := FormatParameters{
		SampleRate:    DefaultSampleRate,
		Channels:      uint16(DefaultChannelLayout.Count()),
		BitsPerSample: DefaultBitsPerSample,
	}

	if p.SampleRate != nil {
		params.SampleRate = *p.SampleRate
	}

	if p.Channels != nil {
		params.Channels = uint16(p.Channels.Count())
	}

	if p.BitsPerSample != nil {
		params.BitsPerSample = *p.BitsPerSample
	}

	return params
}

// BytesPerSample returns the byte width of one sample.
func (p FormatParameters) BytesPerSample() uint16 {
	return p.BitsPerSample / 8
}

// BlockAlign returns the byte width of one frame.
func (p FormatParameters) BlockAlign() uint16 {
	return p.Channels * p.BytesPerSample()
}

// ByteRate returns the number of payload bytes per second.
func (p FormatParameters) ByteRate() uint32 {
	return p.SampleRate * uint32(p.Channels) * uint32(p.BytesPerSample())
}

// Format converts the parameters into a go-audio format.
func (p FormatParameters) Format() *audio.Format {
	return &audio.Format{
		NumChannels: int(p.Channels),
		SampleRate:  int(p.SampleRate),
	}
}

func (p FormatParameters) String() string {
	return fmt.Sprintf("%d Hz @ %d bits, %d channel(s)", p.SampleRate, p.BitsPerSample, p.Channels)
}
