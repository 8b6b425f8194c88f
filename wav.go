package wavsplit

import (
	"errors"
)

const (
	wavFormatPCM        = 1
	wavFormatExtensible = 0xFFFE
)

var (
	// ErrInputOpen is returned when the source file is missing or unreadable.
	ErrInputOpen = errors.New("failed to open input")
	// ErrProbe is returned when the input container is not recognized.
	ErrProbe = errors.New("unrecognized container format")
	// ErrUnsupportedCodec is returned for containers holding anything but
	// linear integer PCM.
	ErrUnsupportedCodec = errors.New("unsupported codec, only integer PCM can be split")
	// ErrNoDefaultTrack is returned when the demuxer exposes no audio track.
	ErrNoDefaultTrack = errors.New("no default track found")
	// ErrMissingTimeBase is returned when the default track has no time base.
	ErrMissingTimeBase = errors.New("no time base found")
	// ErrEmptyStream is returned when the stream yields zero packets.
	ErrEmptyStream = errors.New("no audio packets found")
	// ErrInvalidChunkDuration is returned for a chunk duration <= 0.
	ErrInvalidChunkDuration = errors.New("chunk duration must be positive")
	// ErrDataTooLarge is returned when a chunk payload doesn't fit the 32-bit
	// RIFF size fields.
	ErrDataTooLarge = errors.New("chunk payload exceeds the RIFF size limit")
	// ErrOutputCreate is returned when an output file or directory can't be created.
	ErrOutputCreate = errors.New("failed to create output")
	// ErrOutputWrite is returned when writing an output file fails.
	ErrOutputWrite = errors.New("failed to write output")
)

func bytesPerSample(bitDepth int) int {
	return (bitDepth-1)/8 + 1
}
