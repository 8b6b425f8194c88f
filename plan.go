package wavsplit

import (
	"fmt"
	"time"
)

// ChunkDescriptor describes one output chunk: the half-open packet range
// [StartPacket, EndPacket) and its absolute start and end times.
type ChunkDescriptor struct {
	Index       int
	Start       time.Duration
	End         time.Duration
	StartPacket int
	EndPacket   int
}

// Duration returns the length of the chunk.
func (c ChunkDescriptor) Duration() time.Duration {
	return c.End - c.Start
}

// NumPackets returns the number of packets in the chunk.
func (c ChunkDescriptor) NumPackets() int {
	return c.EndPacket - c.StartPacket
}

func (c ChunkDescriptor) String() string {
	return fmt.Sprintf("chunk %d [%s - %s] packets %d-%d",
		c.Index+1, c.Start, c.End, c.StartPacket, c.EndPacket-1)
}

// PlanChunks partitions the inventory into contiguous chunks of at least
// chunkDuration. A chunk keeps growing until it reaches the target, so the
// packet crossing the boundary belongs to the chunk it ends; packets are
// never split. The last chunk takes whatever remains.
func PlanChunks(inv *Inventory, chunkDuration time.Duration) ([]ChunkDescriptor, error) {
	if chunkDuration <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidChunkDuration, chunkDuration)
	}

	n := inv.Len()
	if n == 0 {
		return nil, ErrEmptyStream
	}

	var (
		chunks     []ChunkDescriptor
		startPkt   int
		startTime  time.Duration
		totalTime  = inv.TotalDuration()
		packetEnds = inv.Ends
	)

	for startPkt < n {
		target := startTime + chunkDuration
		if target < startTime {
			// overflow, take everything left
			target = maxDuration
		}

		endPkt := startPkt
		for endPkt < n && (endPkt == startPkt || packetEnds[endPkt-1] < target) {
			endPkt++
		}

		endTime := totalTime
		if endPkt < n {
			endTime = packetEnds[endPkt-1]
		}

		chunks = append(chunks, ChunkDescriptor{
			Index:       len(chunks),
			Start:       startTime,
			End:         endTime,
			StartPacket: startPkt,
			EndPacket:   endPkt,
		})

		startPkt = endPkt
		startTime = endTime
	}

	return chunks, nil
}
