package wavsplit

import (
	"fmt"
	"io"
	"math"
	"math/bits"
	"time"
)

const maxDuration = time.Duration(math.MaxInt64)

// Packet is one demuxed unit of audio. Dur is expressed in ticks of the
// track time base.
type Packet struct {
	Dur  uint64
	Data []byte
}

// TimeBase converts ticks into seconds: one tick lasts Numer/Denom seconds.
type TimeBase struct {
	Numer uint32
	Denom uint32
}

// NewTimeBase returns the time base of a stream sampled at sampleRate.
func NewTimeBase(sampleRate uint32) TimeBase {
	return TimeBase{Numer: 1, Denom: sampleRate}
}

// Duration converts a tick count into a duration, truncated to the
// nanosecond. The intermediate product is kept in 128 bits so long streams
// don't overflow; durations beyond the time.Duration range saturate.
func (tb TimeBase) Duration(ticks uint64) time.Duration {
	if tb.Denom == 0 {
		return 0
	}

	hi, lo := bits.Mul64(ticks, uint64(tb.Numer)*uint64(time.Second))
	if hi >= uint64(tb.Denom) {
		return maxDuration
	}

	quo, _ := bits.Div64(hi, lo, uint64(tb.Denom))
	if quo > math.MaxInt64 {
		return maxDuration
	}

	return time.Duration(quo)
}

func (tb TimeBase) String() string {
	return fmt.Sprintf("%d/%d", tb.Numer, tb.Denom)
}

// Channels is a bit mask of speaker positions, using the WAVE_FORMAT_EXTENSIBLE
// layout.
type Channels uint32

// Speaker positions.
const (
	FrontLeft Channels = 1 << iota
	FrontRight
	FrontCenter
	LowFrequency
	BackLeft
	BackRight
	FrontLeftOfCenter
	FrontRightOfCenter
	BackCenter
	SideLeft
	SideRight
	TopCenter
	TopFrontLeft
	TopFrontCenter
	TopFrontRight
	TopBackLeft
	TopBackCenter
	TopBackRight
)

// Count returns the number of channels in the mask.
func (c Channels) Count() int {
	return bits.OnesCount32(uint32(c))
}

// DefaultChannels returns the mask made of the first n speaker positions.
func DefaultChannels(n int) Channels {
	if n <= 0 {
		return 0
	}

	if n >= 32 {
		return Channels(^uint32(0))
	}

	return Channels(uint32(1)<<uint(n) - 1)
}

// CodecParams carries the codec metadata a demuxer knows about its track.
// A nil field means the container didn't provide the value.
type CodecParams struct {
	FormatTag     uint16
	SampleRate    *uint32
	Channels      *Channels
	BitsPerSample *uint16
	TimeBase      *TimeBase
}

// Track is an audio track exposed by a Demuxer.
type Track struct {
	ID          int
	CodecParams CodecParams
}

// Demuxer yields the packets of a probed container.
type Demuxer interface {
	// DefaultTrack returns the track the packets belong to.
	DefaultTrack() (*Track, bool)
	// NextPacket returns the next packet, or io.EOF at the end of the stream.
	NextPacket() (*Packet, error)
}

// SliceDemuxer serves packets already held in memory.
type SliceDemuxer struct {
	Track   *Track
	Packets []Packet

	pos int
}

// NewSliceDemuxer creates an in-memory demuxer for the passed track and packets.
func NewSliceDemuxer(track *Track, packets []Packet) *SliceDemuxer {
	return &SliceDemuxer{Track: track, Packets: packets}
}

// DefaultTrack implements Demuxer.
func (d *SliceDemuxer) DefaultTrack() (*Track, bool) {
	if d == nil || d.Track == nil {
		return nil, false
	}

	return d.Track, true
}

// NextPacket implements Demuxer.
func (d *SliceDemuxer) NextPacket() (*Packet, error) {
	if d == nil || d.pos >= len(d.Packets) {
		return nil, io.EOF
	}

	p := &d.Packets[d.pos]
	d.pos++

	return p, nil
}

func uint32Ptr(v uint32) *uint32 { return &v }

func uint16Ptr(v uint16) *uint16 { return &v }
