package wavsplit

import (
	"bytes"
	"fmt"
	"io"
)

var (
	formID = []byte("FORM")
	aiffID = []byte("AIFF")
	aifcID = []byte("AIFC")
	riffID = []byte("RIFF")
	waveID = []byte("WAVE")
)

// ProbeOptions tunes the demuxer returned by Probe.
type ProbeOptions struct {
	// PacketFrames caps the number of frames per packet,
	// DefaultPacketFrames when zero.
	PacketFrames int
}

// Probe sniffs the container held by r and returns a demuxer positioned at
// the first packet. RIFF/WAVE and AIFF containers holding integer PCM are
// supported.
func Probe(r io.ReadSeeker, opts ProbeOptions) (Demuxer, error) {
	var magic [12]byte

	_, err := io.ReadFull(r, magic[:])
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read container magic: %w", ErrProbe, err)
	}

	_, err = r.Seek(0, io.SeekStart)
	if err != nil {
		return nil, fmt.Errorf("failed to seek back to the start: %w", err)
	}

	switch {
	case bytes.Equal(magic[0:4], riffID) && bytes.Equal(magic[8:12], waveID):
		dec := NewDecoder(r, opts.PacketFrames)
		if err := dec.ReadInfo(); err != nil {
			return nil, err
		}

		if dec.FmtChunk != nil && !dec.FmtChunk.IsPCM() {
			return nil, fmt.Errorf("%w: wav format tag %d", ErrUnsupportedCodec, dec.FmtChunk.EffectiveFormatTag())
		}

		return dec, nil
	case bytes.Equal(magic[0:4], formID) && bytes.Equal(magic[8:12], aiffID):
		dec := NewAIFFDecoder(r, opts.PacketFrames)
		if err := dec.ReadInfo(); err != nil {
			return nil, err
		}

		return dec, nil
	case bytes.Equal(magic[0:4], formID) && bytes.Equal(magic[8:12], aifcID):
		return nil, fmt.Errorf("%w: AIFF-C", ErrUnsupportedCodec)
	default:
		return nil, fmt.Errorf("%w: magic %q", ErrProbe, magic[:])
	}
}
