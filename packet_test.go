package wavsplit

import (
	"errors"
	"io"
	"math"
	"testing"
	"time"
)

func TestTimeBaseDuration(t *testing.T) {
	testCases := []struct {
		tb    TimeBase
		ticks uint64
		want  time.Duration
	}{
		{NewTimeBase(44100), 0, 0},
		{NewTimeBase(44100), 44100, time.Second},
		{NewTimeBase(44100), 1152, 26122448 * time.Nanosecond},
		{NewTimeBase(8000), 800, 100 * time.Millisecond},
		{TimeBase{Numer: 1, Denom: 10}, 1, 100 * time.Millisecond},
		{TimeBase{Numer: 3, Denom: 2}, 4, 6 * time.Second},
		// 3 days of 192 kHz audio doesn't overflow the intermediate product
		{NewTimeBase(192000), 192000 * 3 * 86400, 72 * time.Hour},
		{NewTimeBase(1), math.MaxUint64, maxDuration},
		{TimeBase{Numer: 1, Denom: 0}, 100, 0},
	}

	for _, tc := range testCases {
		if got := tc.tb.Duration(tc.ticks); got != tc.want {
			t.Fatalf("%s.Duration(%d)=%v, want %v", tc.tb, tc.ticks, got, tc.want)
		}
	}
}

func TestTimeBaseExactAccumulation(t *testing.T) {
	tb := NewTimeBase(44100)

	// ten thousand packets of 1152 frames, the float sum of which would drift
	var ticks uint64
	for range 10000 {
		ticks += 1152
	}

	got := tb.Duration(ticks)
	want := time.Duration(uint64(11520000) * uint64(time.Second) / 44100)

	if got != want {
		t.Fatalf("Duration=%v, want %v", got, want)
	}
}

func TestChannels(t *testing.T) {
	testCases := []struct {
		in    Channels
		count int
	}{
		{0, 0},
		{FrontLeft, 1},
		{FrontLeft | FrontRight, 2},
		{FrontLeft | FrontRight | FrontCenter | LowFrequency | BackLeft | BackRight, 6},
		{TopBackRight, 1},
	}

	for _, tc := range testCases {
		if got := tc.in.Count(); got != tc.count {
			t.Fatalf("Channels(%#x).Count()=%d, want %d", uint32(tc.in), got, tc.count)
		}
	}

	defaults := []struct {
		n    int
		want Channels
	}{
		{-1, 0},
		{0, 0},
		{1, FrontLeft},
		{2, FrontLeft | FrontRight},
		{3, FrontLeft | FrontRight | FrontCenter},
		{40, Channels(math.MaxUint32)},
	}

	for _, tc := range defaults {
		if got := DefaultChannels(tc.n); got != tc.want {
			t.Fatalf("DefaultChannels(%d)=%#x, want %#x", tc.n, uint32(got), uint32(tc.want))
		}
	}
}

func TestSliceDemuxer(t *testing.T) {
	var nilDemuxer *SliceDemuxer
	if _, ok := nilDemuxer.DefaultTrack(); ok {
		t.Fatalf("nil demuxer exposes a track")
	}

	if _, err := nilDemuxer.NextPacket(); !errors.Is(err, io.EOF) {
		t.Fatalf("nil demuxer NextPacket err=%v, want io.EOF", err)
	}

	track := &Track{ID: 3}
	d := NewSliceDemuxer(track, []Packet{{Dur: 1, Data: []byte{1}}, {Dur: 2, Data: []byte{2, 2}}})

	got, ok := d.DefaultTrack()
	if !ok || got != track {
		t.Fatalf("DefaultTrack()=%v,%t, want the passed track", got, ok)
	}

	for i, want := range []uint64{1, 2} {
		p, err := d.NextPacket()
		if err != nil {
			t.Fatalf("packet %d: %v", i, err)
		}

		if p.Dur != want {
			t.Fatalf("packet %d Dur=%d, want %d", i, p.Dur, want)
		}
	}

	if _, err := d.NextPacket(); !errors.Is(err, io.EOF) {
		t.Fatalf("NextPacket err=%v, want io.EOF", err)
	}
}
