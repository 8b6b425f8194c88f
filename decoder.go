package wavsplit

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-audio/riff"
)

// DefaultPacketFrames is the maximum number of frames per demuxed packet.
const DefaultPacketFrames = 1152

// ChunkInfo is the header of a RIFF sub chunk.
type ChunkInfo struct {
	ID   [4]byte
	Size uint32
}

func (c ChunkInfo) String() string {
	return fmt.Sprintf("%q (%d bytes)", c.ID[:], c.Size)
}

// Decoder demuxes the data chunk of a RIFF/WAVE container into packets of at
// most PacketFrames frames. The payload bytes are returned verbatim.
type Decoder struct {
	r      io.Reader
	parser *riff.Parser

	PacketFrames int
	// FmtChunk is nil until ReadInfo found the fmt chunk.
	FmtChunk *FmtChunk
	// PCMSize is the size of the data chunk, padding excluded.
	PCMSize int
	// Chunks lists the sub chunks met up to, and including, the data chunk.
	// Only fmt and data make it into the output files.
	Chunks []ChunkInfo

	pcmChunk   *riff.Chunk
	headerRead bool
	err        error
}

// NewDecoder creates a decoder for the passed wav reader.
// Note that the reader doesn't get rewinded as the container is processed.
func NewDecoder(r io.Reader, packetFrames int) *Decoder {
	if packetFrames <= 0 {
		packetFrames = DefaultPacketFrames
	}

	return &Decoder{
		r:            r,
		parser:       riff.New(r),
		PacketFrames: packetFrames,
	}
}

// ReadInfo walks the container up to the start of the data chunk.
// This method is safe to call multiple times.
func (d *Decoder) ReadInfo() error {
	if d.headerRead {
		return d.err
	}

	d.headerRead = true
	d.err = d.readHeaders()

	return d.err
}

// DefaultTrack implements Demuxer. The track is absent when no fmt chunk
// precedes the data chunk.
func (d *Decoder) DefaultTrack() (*Track, bool) {
	if d.ReadInfo() != nil || d.FmtChunk == nil {
		return nil, false
	}

	f := d.FmtChunk
	params := CodecParams{FormatTag: f.EffectiveFormatTag()}

	if f.SampleRate != 0 {
		params.SampleRate = uint32Ptr(f.SampleRate)
		tb := NewTimeBase(f.SampleRate)
		params.TimeBase = &tb
	}

	if f.NumChannels != 0 {
		layout := f.ChannelLayout()
		params.Channels = &layout
	}

	if f.BitsPerSample != 0 {
		params.BitsPerSample = uint16Ptr(f.BitsPerSample)
	}

	return &Track{CodecParams: params}, true
}

// NextPacket implements Demuxer. It returns io.EOF once the data chunk is
// exhausted, or right away when the container has no data chunk.
func (d *Decoder) NextPacket() (*Packet, error) {
	if err := d.ReadInfo(); err != nil {
		return nil, err
	}

	if d.pcmChunk == nil {
		return nil, io.EOF
	}

	blockAlign := d.blockAlign()
	buf := make([]byte, d.PacketFrames*blockAlign)

	n, err := io.ReadFull(d.pcmChunk, buf)
	if n == 0 {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}

		return nil, fmt.Errorf("failed to read PCM data: %w", err)
	}

	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("failed to read PCM data: %w", err)
	}

	return &Packet{
		Dur:  uint64(n / blockAlign),
		Data: buf[:n],
	}, nil
}

// Duration returns the duration of the data chunk.
func (d *Decoder) Duration() (time.Duration, error) {
	if err := d.ReadInfo(); err != nil {
		return 0, err
	}

	if d.FmtChunk == nil || d.FmtChunk.SampleRate == 0 {
		return 0, ErrMissingTimeBase
	}

	frames := uint64(d.PCMSize / d.blockAlign())

	return NewTimeBase(d.FmtChunk.SampleRate).Duration(frames), nil
}

func (d *Decoder) blockAlign() int {
	if d.FmtChunk == nil {
		return 1
	}

	if d.FmtChunk.BlockAlign > 0 {
		return int(d.FmtChunk.BlockAlign)
	}

	align := int(d.FmtChunk.NumChannels) * bytesPerSample(int(d.FmtChunk.BitsPerSample))
	if align < 1 {
		return 1
	}

	return align
}

func (d *Decoder) readHeaders() error {
	id, size, err := d.parser.IDnSize()
	if err != nil {
		return fmt.Errorf("%w: failed to read chunk ID and size: %w", ErrProbe, err)
	}

	d.parser.ID = id
	if d.parser.ID != riff.RiffID {
		return fmt.Errorf("%w: %s - %w", ErrProbe, d.parser.ID, riff.ErrFmtNotSupported)
	}

	d.parser.Size = size

	err = binary.Read(d.r, binary.BigEndian, &d.parser.Format)
	if err != nil {
		return fmt.Errorf("%w: failed to read format: %w", ErrProbe, err)
	}

	if d.parser.Format != riff.WavFormatID {
		return fmt.Errorf("%w: %s - %w", ErrProbe, d.parser.Format, riff.ErrFmtNotSupported)
	}

	for {
		id, size, err = d.parser.IDnSize()
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			// trailing garbage or a missing data chunk, nothing left to demux
			return nil
		}

		if err != nil {
			return fmt.Errorf("error reading chunk header - %w", err)
		}

		d.Chunks = append(d.Chunks, ChunkInfo{ID: id, Size: size})

		// all RIFF chunks must be word aligned, the pad byte isn't part of
		// the declared size.
		padded := int64(size) + int64(size%2)

		switch id {
		case riff.FmtID:
			chunk := &riff.Chunk{ID: id, Size: int(padded), R: d.r}

			d.FmtChunk, err = decodeFmtChunk(chunk)
			if err != nil {
				return fmt.Errorf("failed to decode fmt chunk: %w", err)
			}
		case riff.DataFormatID:
			d.PCMSize = int(size)
			d.pcmChunk = &riff.Chunk{
				ID:   id,
				Size: int(size),
				R:    io.LimitReader(d.r, int64(size)),
			}

			return nil
		default:
			_, err = io.CopyN(io.Discard, d.r, padded)
			if errors.Is(err, io.EOF) {
				return nil
			}

			if err != nil {
				return fmt.Errorf("failed to skip %s chunk: %w", id, err)
			}
		}
	}
}
