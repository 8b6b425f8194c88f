// This tool prints what the splitter sees in the passed audio file: the
// container chunks, the resolved format and the packet inventory.
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/cwbudde/wavsplit"
)

const missingPathMessage = "You must pass the path of the file to inspect"

func main() {
	err := run(os.Args[1:], os.Stdout)
	if err == nil {
		return
	}

	if errors.Is(err, errMissingPath) {
		fmt.Println(missingPathMessage)
		os.Exit(1)
	}

	log.Fatal(err)
}

var errMissingPath = errors.New("missing path argument")

func run(args []string, out io.Writer) error {
	if len(args) < 1 {
		return errMissingPath
	}

	file, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("%w: %w", wavsplit.ErrInputOpen, err)
	}
	defer file.Close()

	demuxer, err := wavsplit.Probe(file, wavsplit.ProbeOptions{})
	if err != nil {
		return err
	}

	switch dec := demuxer.(type) {
	case *wavsplit.Decoder:
		fmt.Fprintln(out, "Container: WAVE")

		for i, c := range dec.Chunks {
			fmt.Fprintf(out, "\tchunk [%d]:\t%s\n", i, c)
		}

		if dur, err := dec.Duration(); err == nil {
			fmt.Fprintf(out, "Declared duration: %s\n", dur)
		}
	case *wavsplit.AIFFDecoder:
		fmt.Fprintln(out, "Container: AIFF")
	}

	track, ok := demuxer.DefaultTrack()
	if !ok {
		fmt.Fprintln(out, "No default track present")
		return nil
	}

	params := wavsplit.ResolveFormatParameters(track.CodecParams)
	fmt.Fprintf(out, "Format: %s\n", params)

	if track.CodecParams.TimeBase != nil {
		fmt.Fprintf(out, "Time base: %s\n", track.CodecParams.TimeBase)
	}

	inv, err := wavsplit.BuildInventory(demuxer)
	if errors.Is(err, wavsplit.ErrEmptyStream) || errors.Is(err, wavsplit.ErrMissingTimeBase) {
		fmt.Fprintf(out, "No packets: %v\n", err)
		return nil
	}

	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Packets: %d\n", inv.Len())
	fmt.Fprintf(out, "Duration: %s\n", inv.TotalDuration())

	return nil
}
