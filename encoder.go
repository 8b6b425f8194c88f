package wavsplit

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/riff"
)

// HeaderSize is the size of the canonical PCM WAV header.
const HeaderSize = 44

// Header is the canonical 44 byte PCM WAV header, fmt and data chunks only.
type Header struct {
	ChunkID       [4]byte // "RIFF"
	ChunkSize     uint32  // 36 + data size
	Format        [4]byte // "WAVE"
	Subchunk1ID   [4]byte // "fmt "
	Subchunk1Size uint32  // 16 for PCM
	AudioFormat   uint16  // 1 for PCM
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	Subchunk2ID   [4]byte // "data"
	Subchunk2Size uint32  // data size
}

// NewHeader builds the header of a file holding dataSize payload bytes.
func NewHeader(params FormatParameters, dataSize uint32) Header {
	return Header{
		ChunkID:       riff.RiffID,
		ChunkSize:     36 + dataSize,
		Format:        riff.WavFormatID,
		Subchunk1ID:   riff.FmtID,
		Subchunk1Size: 16,
		AudioFormat:   wavFormatPCM,
		NumChannels:   params.Channels,
		SampleRate:    params.SampleRate,
		ByteRate:      params.ByteRate(),
		BlockAlign:    params.BlockAlign(),
		BitsPerSample: params.BitsPerSample,
		Subchunk2ID:   riff.DataFormatID,
		Subchunk2Size: dataSize,
	}
}

// MarshalBinary returns the little-endian serialization of the header.
func (h Header) MarshalBinary() ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, HeaderSize))

	if err := binary.Write(buf, binary.LittleEndian, h); err != nil {
		return nil, fmt.Errorf("failed to write WAV header: %w", err)
	}

	return buf.Bytes(), nil
}

var (
	errNilWriter       = errors.New("can't write to a nil writer")
	errAlreadyWroteHdr = errors.New("already wrote header")
)

// Encoder writes one WAV file made of a header followed by raw PCM payloads.
// The data size has to be known up front since the header precedes the
// payload and is never patched afterwards.
type Encoder struct {
	w      io.Writer
	Params FormatParameters

	WrittenBytes int64
	wroteHeader  bool
}

// NewEncoder creates an encoder writing to w.
func NewEncoder(w io.Writer, params FormatParameters) *Encoder {
	return &Encoder{w: w, Params: params}
}

// Encode writes the header followed by every payload, in order.
func (e *Encoder) Encode(payloads [][]byte) error {
	if e == nil || e.w == nil {
		return errNilWriter
	}

	if e.wroteHeader {
		return errAlreadyWroteHdr
	}

	var dataSize int64
	for _, p := range payloads {
		dataSize += int64(len(p))
	}

	if dataSize > math.MaxUint32-36 {
		return fmt.Errorf("%w: %d bytes", ErrDataTooLarge, dataSize)
	}

	e.wroteHeader = true

	hdr, err := NewHeader(e.Params, uint32(dataSize)).MarshalBinary()
	if err != nil {
		return err
	}

	if err := e.write(hdr); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, p := range payloads {
		if err := e.write(p); err != nil {
			return fmt.Errorf("failed to write payload %d: %w", i, err)
		}
	}

	return nil
}

func (e *Encoder) write(p []byte) error {
	n, err := e.w.Write(p)
	e.WrittenBytes += int64(n)

	return err
}

// WriteChunkFile creates path and writes a complete WAV file into it.
// A failure midway leaves the partial file behind.
func WriteChunkFile(path string, params FormatParameters, payloads [][]byte) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrOutputCreate, err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	enc := NewEncoder(bw, params)

	if err := enc.Encode(payloads); err != nil {
		if errors.Is(err, ErrDataTooLarge) {
			return enc.WrittenBytes, err
		}

		return enc.WrittenBytes, fmt.Errorf("%w: %s: %w", ErrOutputWrite, path, err)
	}

	if err := bw.Flush(); err != nil {
		return enc.WrittenBytes, fmt.Errorf("%w: %s: %w", ErrOutputWrite, path, err)
	}

	if err := f.Close(); err != nil {
		return enc.WrittenBytes, fmt.Errorf("%w: %s: %w", ErrOutputWrite, path, err)
	}

	return enc.WrittenBytes, nil
}
