package wavsplit

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestHeaderMarshalBinary(t *testing.T) {
	params := FormatParameters{SampleRate: 44100, Channels: 2, BitsPerSample: 16}

	got, err := NewHeader(params, 1000).MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary failed: %v", err)
	}

	want := []byte{
		'R', 'I', 'F', 'F',
		0x0C, 0x04, 0x00, 0x00, // 36 + 1000
		'W', 'A', 'V', 'E',
		'f', 'm', 't', ' ',
		0x10, 0x00, 0x00, 0x00, // 16
		0x01, 0x00, // pcm
		0x02, 0x00, // channels
		0x44, 0xAC, 0x00, 0x00, // 44100
		0x10, 0xB1, 0x02, 0x00, // 176400
		0x04, 0x00, // block align
		0x10, 0x00, // bits
		'd', 'a', 't', 'a',
		0xE8, 0x03, 0x00, 0x00, // 1000
	}

	if len(got) != HeaderSize {
		t.Fatalf("header is %d bytes, want %d", len(got), HeaderSize)
	}

	if !bytes.Equal(got, want) {
		t.Fatalf("header=\n%v\nwant\n%v", got, want)
	}
}

func TestEncoderEncode(t *testing.T) {
	params := FormatParameters{SampleRate: 8000, Channels: 1, BitsPerSample: 8}
	payloads := [][]byte{{1, 2, 3}, nil, {4, 5}}

	var buf bytes.Buffer

	enc := NewEncoder(&buf, params)
	if err := enc.Encode(payloads); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	if enc.WrittenBytes != HeaderSize+5 {
		t.Fatalf("WrittenBytes=%d, want %d", enc.WrittenBytes, HeaderSize+5)
	}

	out := buf.Bytes()
	if !bytes.Equal(out[HeaderSize:], []byte{1, 2, 3, 4, 5}) {
		t.Fatalf("payload=%v", out[HeaderSize:])
	}

	// odd sized data chunks aren't padded, the header sizes match the file
	if got := binary.LittleEndian.Uint32(out[4:8]); got != 36+5 {
		t.Fatalf("RIFF size=%d, want 41", got)
	}

	if got := binary.LittleEndian.Uint32(out[40:44]); got != 5 {
		t.Fatalf("data size=%d, want 5", got)
	}

	if err := enc.Encode(payloads); err == nil {
		t.Fatalf("a second Encode call must fail")
	}
}

func TestEncoderNilWriter(t *testing.T) {
	var enc *Encoder
	if err := enc.Encode(nil); !errors.Is(err, errNilWriter) {
		t.Fatalf("Encode err=%v, want errNilWriter", err)
	}

	if err := NewEncoder(nil, FormatParameters{}).Encode(nil); !errors.Is(err, errNilWriter) {
		t.Fatalf("Encode err=%v, want errNilWriter", err)
	}
}

func TestEncoderDataTooLarge(t *testing.T) {
	// the slices share one backing array, only their lengths count
	block := make([]byte, 1<<30)
	payloads := [][]byte{block, block, block, block}

	var buf bytes.Buffer

	err := NewEncoder(&buf, FormatParameters{SampleRate: 44100, Channels: 2, BitsPerSample: 16}).Encode(payloads)
	if !errors.Is(err, ErrDataTooLarge) {
		t.Fatalf("Encode err=%v, want ErrDataTooLarge", err)
	}

	if buf.Len() != 0 {
		t.Fatalf("%d bytes written before the size check", buf.Len())
	}
}

func TestWriteChunkFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chunk.wav")
	params := FormatParameters{SampleRate: 48000, Channels: 2, BitsPerSample: 24}
	payload := rampBytes(6 * 100)

	n, err := WriteChunkFile(path, params, [][]byte{payload[:300], payload[300:]})
	if err != nil {
		t.Fatalf("WriteChunkFile failed: %v", err)
	}

	if n != int64(HeaderSize+len(payload)) {
		t.Fatalf("wrote %d bytes, want %d", n, HeaderSize+len(payload))
	}

	chunks, err := parseWavChunksFromFile(path)
	if err != nil {
		t.Fatalf("output isn't a valid wav file: %v", err)
	}

	if len(chunks) != 2 || chunks[0].id != "fmt " || chunks[1].id != "data" {
		t.Fatalf("unexpected chunk layout %+v", chunks)
	}

	data, _ := findChunk(chunks, "data")
	if !bytes.Equal(data.data, payload) {
		t.Fatalf("payload altered")
	}

	// the output decodes back to the same stream
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	dec := NewDecoder(f, 0)

	track, ok := dec.DefaultTrack()
	if !ok {
		t.Fatalf("no default track")
	}

	if got := ResolveFormatParameters(track.CodecParams); got != params {
		t.Fatalf("params=%v, want %v", got, params)
	}
}

func TestWriteChunkFileErrors(t *testing.T) {
	params := FormatParameters{SampleRate: 44100, Channels: 2, BitsPerSample: 16}

	_, err := WriteChunkFile(filepath.Join(t.TempDir(), "missing", "dir", "out.wav"), params, nil)
	if !errors.Is(err, ErrOutputCreate) {
		t.Fatalf("err=%v, want ErrOutputCreate", err)
	}

	_, err = WriteChunkFile(t.TempDir(), params, nil)
	if !errors.Is(err, ErrOutputCreate) {
		t.Fatalf("creating a directory path: err=%v, want ErrOutputCreate", err)
	}
}

var errDiskFull = errors.New("disk full")

// limitedWriter accepts at most n bytes, then fails.
type limitedWriter struct {
	n   int
	buf bytes.Buffer
}

func (w *limitedWriter) Write(p []byte) (int, error) {
	if len(p) <= w.n {
		w.n -= len(p)
		return w.buf.Write(p)
	}

	n, _ := w.buf.Write(p[:w.n])
	w.n = 0

	return n, errDiskFull
}

func TestEncoderWriteFailure(t *testing.T) {
	params := FormatParameters{SampleRate: 8000, Channels: 1, BitsPerSample: 16}
	payloads := [][]byte{make([]byte, 10), make([]byte, 10), make([]byte, 10)}

	testCases := []struct {
		desc        string
		limit       int
		wantMsg     string
		wantWritten int64
	}{
		{"header", 10, "failed to write header", 10},
		{"first payload", HeaderSize + 4, "failed to write payload 0", HeaderSize + 4},
		{"second payload", HeaderSize + 15, "failed to write payload 1", HeaderSize + 15},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			w := &limitedWriter{n: tc.limit}
			enc := NewEncoder(w, params)

			err := enc.Encode(payloads)
			if !errors.Is(err, errDiskFull) {
				t.Fatalf("Encode err=%v, want errDiskFull", err)
			}

			if !strings.Contains(err.Error(), tc.wantMsg) {
				t.Fatalf("Encode err=%q, want it to contain %q", err, tc.wantMsg)
			}

			if enc.WrittenBytes != tc.wantWritten {
				t.Fatalf("WrittenBytes=%d, want %d", enc.WrittenBytes, tc.wantWritten)
			}
		})
	}
}

func TestWriteChunkFileFullDevice(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("/dev/full is only available on linux")
	}

	params := FormatParameters{SampleRate: 8000, Channels: 1, BitsPerSample: 16}

	testCases := []struct {
		desc    string
		payload []byte
	}{
		// fits the write buffer, fails on flush
		{"small payload", make([]byte, 10)},
		// bypasses the write buffer, fails while encoding
		{"large payload", make([]byte, 64*1024)},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			_, err := WriteChunkFile("/dev/full", params, [][]byte{tc.payload})
			if !errors.Is(err, ErrOutputWrite) {
				t.Fatalf("WriteChunkFile err=%v, want ErrOutputWrite", err)
			}
		})
	}
}
