package wavsplit

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	"github.com/go-audio/audio"
)

// AIFFDecoder demuxes an AIFF container into packets of WAV-native PCM:
// samples keep their rate, depth and channel count but are serialized
// little-endian, 8-bit samples being unsigned.
type AIFFDecoder struct {
	dec *aiff.Decoder

	PacketFrames int

	buf      *audio.IntBuffer
	read     bool
	err      error
	bitDepth int
}

// NewAIFFDecoder creates a demuxer for the passed aiff reader.
func NewAIFFDecoder(r io.ReadSeeker, packetFrames int) *AIFFDecoder {
	if packetFrames <= 0 {
		packetFrames = DefaultPacketFrames
	}

	return &AIFFDecoder{
		dec:          aiff.NewDecoder(r),
		PacketFrames: packetFrames,
	}
}

// ReadInfo parses the COMM chunk. This method is safe to call multiple times.
func (d *AIFFDecoder) ReadInfo() error {
	if d.read {
		return d.err
	}

	d.read = true
	d.dec.ReadInfo()

	if err := d.dec.Err(); err != nil {
		d.err = fmt.Errorf("%w: %w", ErrProbe, err)
		return d.err
	}

	d.bitDepth = int(d.dec.BitDepth)

	return nil
}

// Format returns the sample rate and channel count of the stream.
func (d *AIFFDecoder) Format() *audio.Format {
	if d.ReadInfo() != nil {
		return nil
	}

	return &audio.Format{
		NumChannels: int(d.dec.NumChans),
		SampleRate:  int(d.dec.SampleRate),
	}
}

// DefaultTrack implements Demuxer.
func (d *AIFFDecoder) DefaultTrack() (*Track, bool) {
	format := d.Format()
	if format == nil || format.NumChannels == 0 {
		return nil, false
	}

	params := CodecParams{FormatTag: wavFormatPCM}

	if format.SampleRate > 0 {
		params.SampleRate = uint32Ptr(uint32(format.SampleRate))
		tb := NewTimeBase(uint32(format.SampleRate))
		params.TimeBase = &tb
	}

	layout := DefaultChannels(format.NumChannels)
	params.Channels = &layout

	if d.bitDepth > 0 {
		params.BitsPerSample = uint16Ptr(uint16(d.bitDepth))
	}

	return &Track{CodecParams: params}, true
}

// NextPacket implements Demuxer.
func (d *AIFFDecoder) NextPacket() (*Packet, error) {
	format := d.Format()
	if format == nil {
		return nil, d.err
	}

	if format.NumChannels == 0 {
		return nil, io.EOF
	}

	if d.buf == nil {
		d.buf = &audio.IntBuffer{
			Format:         format,
			Data:           make([]int, d.PacketFrames*format.NumChannels),
			SourceBitDepth: d.bitDepth,
		}
	}

	n, err := d.dec.PCMBuffer(d.buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read AIFF PCM data: %w", err)
	}

	if n == 0 {
		return nil, io.EOF
	}

	data, err := encodeLESamples(d.buf.Data[:n], d.bitDepth)
	if err != nil {
		return nil, err
	}

	return &Packet{
		Dur:  uint64(n / format.NumChannels),
		Data: data,
	}, nil
}

// encodeLESamples serializes integer samples the way a WAV data chunk stores
// them.
func encodeLESamples(samples []int, bitDepth int) ([]byte, error) {
	width := bytesPerSample(bitDepth)
	out := make([]byte, 0, len(samples)*width)

	for _, v := range samples {
		switch width {
		case 1:
			out = append(out, uint8(v+128))
		case 2:
			out = binary.LittleEndian.AppendUint16(out, uint16(int16(v)))
		case 3:
			out = append(out, audio.Int32toInt24LEBytes(int32(v))...)
		case 4:
			out = binary.LittleEndian.AppendUint32(out, uint32(int32(v)))
		default:
			return nil, fmt.Errorf("%w: %d-bit samples", ErrUnsupportedCodec, bitDepth)
		}
	}

	return out, nil
}

// DecodeLESamples is the inverse of the WAV sample serialization: it turns
// little-endian PCM bytes into signed integer samples. Trailing bytes that
// don't form a whole sample are ignored.
func DecodeLESamples(data []byte, bitDepth int) ([]int, error) {
	width := bytesPerSample(bitDepth)
	if width < 1 || width > 4 {
		return nil, fmt.Errorf("%w: %d-bit samples", ErrUnsupportedCodec, bitDepth)
	}

	out := make([]int, 0, len(data)/width)

	for i := 0; i+width <= len(data); i += width {
		b := data[i : i+width]

		switch width {
		case 1:
			out = append(out, int(b[0])-128)
		case 2:
			out = append(out, int(int16(binary.LittleEndian.Uint16(b))))
		case 3:
			out = append(out, int(audio.Int24LETo32(b)))
		case 4:
			out = append(out, int(int32(binary.LittleEndian.Uint32(b))))
		}
	}

	return out, nil
}
