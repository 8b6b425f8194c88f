package wavsplit

import (
	"errors"
	"fmt"
	"io"
	"time"
)

// Inventory holds every packet of a stream along with the cumulative end
// time of each packet, measured from the start of the stream.
type Inventory struct {
	Track    *Track
	TimeBase TimeBase
	Packets  []*Packet
	// Ends[i] is the summed duration of packets 0..i inclusive.
	Ends []time.Duration

	ticks uint64
}

// NewInventory creates an empty inventory using the passed time base.
func NewInventory(tb TimeBase) *Inventory {
	return &Inventory{TimeBase: tb}
}

// Append adds a packet at the end of the inventory. Durations are
// accumulated in ticks so that long streams don't drift.
func (inv *Inventory) Append(p *Packet) {
	inv.ticks += p.Dur
	inv.Packets = append(inv.Packets, p)
	inv.Ends = append(inv.Ends, inv.TimeBase.Duration(inv.ticks))
}

// Len returns the number of packets.
func (inv *Inventory) Len() int {
	if inv == nil {
		return 0
	}

	return len(inv.Packets)
}

// Ticks returns the total stream length in time base ticks.
func (inv *Inventory) Ticks() uint64 {
	return inv.ticks
}

// TotalDuration returns the duration of the whole stream.
func (inv *Inventory) TotalDuration() time.Duration {
	if inv.Len() == 0 {
		return 0
	}

	return inv.Ends[len(inv.Ends)-1]
}

// Payloads returns the payloads of packets [start, end) in order.
func (inv *Inventory) Payloads(start, end int) [][]byte {
	out := make([][]byte, 0, end-start)
	for _, p := range inv.Packets[start:end] {
		out = append(out, p.Data)
	}

	return out
}

// BuildInventory drains the demuxer. End of stream is the normal
// termination; a stream without packets is an error.
func BuildInventory(d Demuxer) (*Inventory, error) {
	track, ok := d.DefaultTrack()
	if !ok {
		return nil, ErrNoDefaultTrack
	}

	if track.CodecParams.TimeBase == nil {
		return nil, ErrMissingTimeBase
	}

	inv := NewInventory(*track.CodecParams.TimeBase)
	inv.Track = track

	for {
		p, err := d.NextPacket()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("failed to read packet %d: %w", inv.Len(), err)
		}

		inv.Append(p)
	}

	if inv.Len() == 0 {
		return nil, ErrEmptyStream
	}

	return inv, nil
}
