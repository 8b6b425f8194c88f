// This tool splits a PCM WAV (or AIFF) file into WAV chunks of a target
// duration, written as {prefix}_001.wav, {prefix}_002.wav, ...
//
// Usage:
//
//	wavsplit [flags] [<input> <chunk_minutes> <prefix>]
//
// The three positional arguments go together: passing only one or two of
// them is an error.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/cwbudde/wavsplit"
	"github.com/cwbudde/wavsplit/internal/config"
	"github.com/cwbudde/wavsplit/internal/metrics"
)

const defaultChunkMinutes = 10

func main() {
	err := run(os.Args[1:], os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	flagSet := flag.NewFlagSet("wavsplit", flag.ContinueOnError)
	flagSet.SetOutput(out)

	configPath := flagSet.String("config", "", "path to a YAML configuration file")
	input := flagSet.String("input", "", "the WAV file to split")
	duration := flagSet.Duration("duration", 0, "chunk duration, e.g. 90s or 10m")
	minutes := flagSet.Uint("minutes", 0, "chunk duration in minutes")
	output := flagSet.String("output", "", "directory receiving the chunks")
	prefix := flagSet.String("prefix", "", "prefix of the output file names")
	packetFrames := flagSet.Int("packet-frames", 0, "maximum frames per packet")
	dryRun := flagSet.Bool("dry-run", false, "plan the chunks without writing them")
	metricsFile := flagSet.String("metrics-file", "", "write Prometheus metrics to this file")
	logLevel := flagSet.String("log-level", "", "debug, info, warn or error")
	logFormat := flagSet.String("log-format", "", "text or json")

	err := flagSet.Parse(args)
	if err != nil {
		return err
	}

	cfg := config.Default()
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
		if err != nil {
			return err
		}
	}

	var positionalWarning string

	// positional arguments: <input> <chunk_minutes> <prefix>
	if flagSet.NArg() >= 3 {
		cfg.Split.InputPath = flagSet.Arg(0)
		cfg.Split.Prefix = flagSet.Arg(2)

		mins, err := strconv.ParseUint(flagSet.Arg(1), 10, 64)
		if err != nil {
			positionalWarning = fmt.Sprintf("invalid chunk minutes %q, using %d", flagSet.Arg(1), defaultChunkMinutes)
			mins = defaultChunkMinutes
		}

		cfg.Split.SetChunkDuration(time.Duration(mins) * time.Minute)
	} else if flagSet.NArg() > 0 {
		return fmt.Errorf("expected <input> <chunk_minutes> <prefix>, got %d argument(s)", flagSet.NArg())
	}

	flagSet.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			cfg.Split.InputPath = *input
		case "duration":
			cfg.Split.SetChunkDuration(*duration)
		case "minutes":
			cfg.Split.SetChunkDuration(time.Duration(*minutes) * time.Minute)
		case "output":
			cfg.Split.OutputDir = *output
		case "prefix":
			cfg.Split.Prefix = *prefix
		case "packet-frames":
			cfg.Split.PacketFrames = *packetFrames
		case "dry-run":
			cfg.Split.DryRun = *dryRun
		case "metrics-file":
			cfg.Metrics.TextfilePath = *metricsFile
		case "log-level":
			cfg.Logging.Level = *logLevel
		case "log-format":
			cfg.Logging.Format = *logFormat
		}
	})

	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, closeLog := initLogger(cfg.Logging)
	defer closeLog()

	if positionalWarning != "" {
		logger.Warn(positionalWarning)
	}

	appMetrics := metrics.NewMetrics()

	res, err := wavsplit.Split(wavsplit.Options{
		InputPath:     cfg.Split.InputPath,
		ChunkDuration: cfg.Split.GetChunkDuration(),
		OutputDir:     cfg.Split.OutputDir,
		Prefix:        cfg.Split.Prefix,
		PacketFrames:  cfg.Split.PacketFrames,
		DryRun:        cfg.Split.DryRun,
		Logger:        logger,
		Observer:      appMetrics,
	})
	if err != nil {
		return err
	}

	if cfg.Metrics.TextfilePath != "" {
		if err := appMetrics.WriteTextfile(cfg.Metrics.TextfilePath); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}

	fmt.Fprintf(out, "Created %d chunks with total duration of %.2f minutes (%s)\n",
		res.ChunkCount, res.TotalDuration.Minutes(), res.Params)

	for i, path := range res.OutputFiles {
		c := res.Chunks[i]
		fmt.Fprintf(out, "%s\t%.2fs\t%d packets\n", path, c.Duration().Seconds(), c.NumPackets())
	}

	return nil
}

// initLogger creates the structured logger described by the configuration.
// The returned func releases the log file, if any.
func initLogger(cfg config.LoggingConfig) (*slog.Logger, func()) {
	var level slog.Level

	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var (
		output  io.Writer
		release = func() {}
	)

	switch cfg.Output {
	case "stdout":
		output = os.Stdout
	case "stderr", "":
		output = os.Stderr
	default:
		file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file %s: %v, falling back to stderr\n", cfg.Output, err)
			output = os.Stderr
		} else {
			output = file
			release = func() { file.Close() }
		}
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}

	return slog.New(handler), release
}
