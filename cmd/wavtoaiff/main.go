// This tool converts a PCM wav file into an identical aiff file and stores
// it in the same folder as the source. Handy to build aiff splitter input.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/cwbudde/wavsplit"
	"github.com/go-audio/aiff"
	"github.com/go-audio/audio"
)

func main() {
	err := run(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	flagSet := flag.NewFlagSet("wavtoaiff", flag.ContinueOnError)
	flagPath := flagSet.String("path", "", "The path to the wav file to convert to aiff")

	err := flagSet.Parse(args)
	if err != nil {
		return err
	}

	if *flagPath == "" {
		return errors.New("you must set the -path flag")
	}

	sourcePath := *flagPath
	if strings.HasPrefix(sourcePath, "~/") {
		usr, err := user.Current()
		if err != nil {
			return fmt.Errorf("failed to get the user home directory: %w", err)
		}

		sourcePath = strings.Replace(sourcePath, "~", usr.HomeDir, 1)
	}

	outPath := sourcePath[:len(sourcePath)-len(filepath.Ext(sourcePath))] + ".aif"

	err = convert(sourcePath, outPath)
	if err != nil {
		return err
	}

	fmt.Printf("Wav file converted to %s\n", outPath)

	return nil
}

func convert(sourcePath, outPath string) error {
	file, err := os.Open(sourcePath)
	if err != nil {
		return fmt.Errorf("invalid path %s: %w", sourcePath, err)
	}
	defer file.Close()

	demuxer, err := wavsplit.Probe(file, wavsplit.ProbeOptions{})
	if err != nil {
		return err
	}

	if _, ok := demuxer.(*wavsplit.Decoder); !ok {
		return fmt.Errorf("%s is not a wav file", sourcePath)
	}

	track, ok := demuxer.DefaultTrack()
	if !ok {
		return wavsplit.ErrNoDefaultTrack
	}

	params := wavsplit.ResolveFormatParameters(track.CodecParams)

	outFile, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outPath, err)
	}
	defer outFile.Close()

	encoder := aiff.NewEncoder(outFile, int(params.SampleRate), int(params.BitsPerSample), int(params.Channels))
	format := params.Format()

	for {
		packet, err := demuxer.NextPacket()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return err
		}

		samples, err := wavsplit.DecodeLESamples(packet.Data, int(params.BitsPerSample))
		if err != nil {
			return err
		}

		err = encoder.Write(&audio.IntBuffer{
			Format:         format,
			SourceBitDepth: int(params.BitsPerSample),
			Data:           samples,
		})
		if err != nil {
			return fmt.Errorf("failed to write aiff samples: %w", err)
		}
	}

	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to finalize %s: %w", outPath, err)
	}

	return outFile.Close()
}
