package wavsplit

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/go-audio/riff"
)

var errNilChunk = errors.New("nil chunk pointer")

// FmtChunk stores the parsed WAV fmt chunk, including extensible metadata.
type FmtChunk struct {
	FormatTag      uint16
	NumChannels    uint16
	SampleRate     uint32
	AvgBytesPerSec uint32
	BlockAlign     uint16
	BitsPerSample  uint16
	Extensible     *FmtExtensible
}

// FmtExtensible stores WAVE_FORMAT_EXTENSIBLE extra fields.
type FmtExtensible struct {
	ValidBitsPerSample uint16
	ChannelMask        uint32
	SubFormat          [16]byte
}

// EffectiveFormatTag resolves the extensible sub format to its format tag.
func (f *FmtChunk) EffectiveFormatTag() uint16 {
	if f == nil {
		return 0
	}

	if f.FormatTag == wavFormatExtensible && f.Extensible != nil {
		return binary.LittleEndian.Uint16(f.Extensible.SubFormat[:2])
	}

	return f.FormatTag
}

// IsPCM reports if the chunk describes linear integer PCM.
func (f *FmtChunk) IsPCM() bool {
	return f.EffectiveFormatTag() == wavFormatPCM
}

// ChannelLayout returns the speaker mask of the stream. The extensible mask
// is used when it agrees with the channel count, otherwise the first
// NumChannels positions are assumed.
func (f *FmtChunk) ChannelLayout() Channels {
	if f == nil {
		return 0
	}

	if f.Extensible != nil && f.Extensible.ChannelMask != 0 {
		mask := Channels(f.Extensible.ChannelMask)
		if mask.Count() == int(f.NumChannels) {
			return mask
		}
	}

	return DefaultChannels(int(f.NumChannels))
}

func decodeFmtChunk(chunk *riff.Chunk) (*FmtChunk, error) {
	if chunk == nil {
		return nil, errNilChunk
	}

	fmtChunk := &FmtChunk{}

	err := chunk.ReadLE(&fmtChunk.FormatTag)
	if err != nil {
		return nil, fmt.Errorf("failed to read wav format: %w", err)
	}

	err = chunk.ReadLE(&fmtChunk.NumChannels)
	if err != nil {
		return nil, fmt.Errorf("failed to read channels: %w", err)
	}

	err = chunk.ReadLE(&fmtChunk.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("failed to read sample rate: %w", err)
	}

	err = chunk.ReadLE(&fmtChunk.AvgBytesPerSec)
	if err != nil {
		return nil, fmt.Errorf("failed to read avg bytes/sec: %w", err)
	}

	err = chunk.ReadLE(&fmtChunk.BlockAlign)
	if err != nil {
		return nil, fmt.Errorf("failed to read block align: %w", err)
	}

	err = chunk.ReadLE(&fmtChunk.BitsPerSample)
	if err != nil {
		return nil, fmt.Errorf("failed to read bit depth: %w", err)
	}

	if chunk.Size <= 16 {
		return fmtChunk, nil
	}

	var extraSize uint16

	err = chunk.ReadLE(&extraSize)
	if err != nil {
		return nil, fmt.Errorf("failed to read fmt extension size: %w", err)
	}

	if fmtChunk.FormatTag != wavFormatExtensible || extraSize < 22 {
		chunk.Drain()

		return fmtChunk, nil
	}

	extra := make([]byte, 22)

	err = chunk.ReadLE(&extra)
	if err != nil {
		return nil, fmt.Errorf("failed to read fmt extension data: %w", err)
	}

	ext := &FmtExtensible{}
	ext.ValidBitsPerSample = binary.LittleEndian.Uint16(extra[0:2])
	ext.ChannelMask = binary.LittleEndian.Uint32(extra[2:6])
	copy(ext.SubFormat[:], extra[6:22])
	fmtChunk.Extensible = ext

	chunk.Drain()

	return fmtChunk, nil
}
