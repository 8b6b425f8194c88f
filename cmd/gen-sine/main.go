// This tool generates a 16-bit sine wave WAV file, handy as splitter input.
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"log"
	"math"
	"os"

	"github.com/cwbudde/wavsplit"
)

func main() {
	err := run(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	flagSet := flag.NewFlagSet("gen-sine", flag.ContinueOnError)

	output := flagSet.String("output", "output.wav", "filename to write to")
	frequency := flagSet.Float64("frequency", 440, "frequency in hertz to generate")
	length := flagSet.Float64("length", 5, "length in seconds of output file")
	sampleRate := flagSet.Uint("rate", 48000, "sample rate in hertz")
	channels := flagSet.Uint("channels", 1, "number of channels")

	err := flagSet.Parse(args)
	if err != nil {
		return err
	}

	if *sampleRate == 0 || *channels == 0 {
		return fmt.Errorf("rate and channels must be positive")
	}

	log.Printf("generating a %f sec sine wav at %f hz", *length, *frequency)

	file, err := os.Create(*output)
	if err != nil {
		return fmt.Errorf("error creating %s: %w", *output, err)
	}
	defer file.Close()

	params := wavsplit.FormatParameters{
		SampleRate:    uint32(*sampleRate),
		Channels:      uint16(*channels),
		BitsPerSample: 16,
	}

	enc := wavsplit.NewEncoder(file, params)

	err = enc.Encode([][]byte{sinePayload(params, *frequency, *length)})
	if err != nil {
		return err
	}

	return file.Close()
}

// sinePayload renders the wave as interleaved little-endian 16-bit frames.
func sinePayload(params wavsplit.FormatParameters, frequency, length float64) []byte {
	rate := float64(params.SampleRate)
	numFrames := int(rate * length)
	payload := make([]byte, 0, numFrames*int(params.BlockAlign()))

	for i := range numFrames {
		fv := math.Sin(float64(i) / rate * frequency * 2 * math.Pi)
		v := int16(math.Round(fv * 32767))

		for range params.Channels {
			payload = binary.LittleEndian.AppendUint16(payload, uint16(v))
		}
	}

	return payload
}
