package wavsplit

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Observer is notified as a split makes progress.
type Observer interface {
	PacketsRead(packets int, total time.Duration)
	ChunkPlanned(c ChunkDescriptor)
	ChunkWritten(c ChunkDescriptor, path string, bytes int64)
}

// Options configures a split.
type Options struct {
	// InputPath is the file to split.
	InputPath string
	// ChunkDuration is the minimum duration of every chunk but the last one.
	ChunkDuration time.Duration
	// OutputDir receives the chunks, it's created when missing.
	OutputDir string
	// Prefix starts every output file name: {Prefix}_{NNN}.wav.
	Prefix string
	// PacketFrames caps the number of frames per demuxed packet.
	PacketFrames int
	// DryRun plans the chunks without writing any file.
	DryRun bool

	Logger   *slog.Logger
	Observer Observer
}

// Result summarizes a split.
type Result struct {
	ChunkCount    int
	TotalDuration time.Duration
	OutputFiles   []string
	Chunks        []ChunkDescriptor
	Params        FormatParameters
}

// ChunkFileName returns the file name of the chunk at index (0 based).
func ChunkFileName(prefix string, index int) string {
	return fmt.Sprintf("%s_%03d.wav", prefix, index+1)
}

// Split cuts the input file into standalone WAV files of at least
// opts.ChunkDuration each. The first failure aborts the whole operation.
func Split(opts Options) (*Result, error) {
	if opts.ChunkDuration <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidChunkDuration, opts.ChunkDuration)
	}

	logger := opts.logger()
	logger.Info("processing file",
		slog.String("input", opts.InputPath),
		slog.Duration("chunk_duration", opts.ChunkDuration),
	)

	if !opts.DryRun {
		if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrOutputCreate, opts.OutputDir, err)
		}
	}

	file, err := os.Open(opts.InputPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInputOpen, err)
	}
	defer file.Close()

	demuxer, err := Probe(file, ProbeOptions{PacketFrames: opts.PacketFrames})
	if err != nil {
		return nil, fmt.Errorf("failed to probe %s: %w", opts.InputPath, err)
	}

	return SplitDemuxer(demuxer, opts)
}

// SplitDemuxer runs the split pipeline on an already probed source.
// opts.InputPath is ignored.
func SplitDemuxer(d Demuxer, opts Options) (*Result, error) {
	if opts.ChunkDuration <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidChunkDuration, opts.ChunkDuration)
	}

	logger := opts.logger()

	inv, err := BuildInventory(d)
	if err != nil {
		return nil, err
	}

	total := inv.TotalDuration()
	logger.Info("read packets",
		slog.Int("packets", inv.Len()),
		slog.Duration("total_duration", total),
		slog.String("time_base", inv.TimeBase.String()),
	)

	if opts.Observer != nil {
		opts.Observer.PacketsRead(inv.Len(), total)
	}

	chunks, err := PlanChunks(inv, opts.ChunkDuration)
	if err != nil {
		return nil, err
	}

	logger.Info("planned chunks", slog.Int("chunks", len(chunks)))

	for _, c := range chunks {
		logger.Debug("chunk",
			slog.Int("index", c.Index+1),
			slog.Duration("start", c.Start),
			slog.Duration("duration", c.Duration()),
			slog.Int("packets", c.NumPackets()),
		)

		if opts.Observer != nil {
			opts.Observer.ChunkPlanned(c)
		}
	}

	params := ResolveFormatParameters(inv.Track.CodecParams)
	res := &Result{
		ChunkCount:    len(chunks),
		TotalDuration: total,
		OutputFiles:   make([]string, 0, len(chunks)),
		Chunks:        chunks,
		Params:        params,
	}

	for _, c := range chunks {
		path := filepath.Join(opts.OutputDir, ChunkFileName(opts.Prefix, c.Index))
		res.OutputFiles = append(res.OutputFiles, path)

		if opts.DryRun {
			continue
		}

		logger.Info("writing chunk",
			slog.String("file", path),
			slog.Int("chunk", c.Index+1),
			slog.Int("of", len(chunks)),
			slog.Duration("duration", c.Duration()),
			slog.Int("packets", c.NumPackets()),
		)

		n, err := WriteChunkFile(path, params, inv.Payloads(c.StartPacket, c.EndPacket))
		if err != nil {
			return nil, fmt.Errorf("chunk %d: %w", c.Index+1, err)
		}

		if opts.Observer != nil {
			opts.Observer.ChunkWritten(c, path, n)
		}
	}

	logger.Info("split complete",
		slog.Int("chunks", res.ChunkCount),
		slog.String("output_dir", opts.OutputDir),
		slog.Bool("dry_run", opts.DryRun),
	)

	return res, nil
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}

	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
