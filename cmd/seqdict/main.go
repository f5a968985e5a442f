// Command seqdict writes a complete enumeration of fixed-width numeric
// records to a dictionary file.
//
// Usage:
//
//	seqdict -d /data -o 8digits-num.dict -n 100000000 --digits 8 -w 6
//
// Exit codes distinguish the possible outcomes: 0 success, 2 invalid
// configuration, 3 insufficient disk space, 4 chunk generation fault,
// 130 interrupted by request, 1 any other failure.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/seqdict/seqdict"
	seqerrors "github.com/seqdict/seqdict/errors"
)

const (
	exitOK          = 0
	exitFailure     = 1
	exitUsage       = 2
	exitNoSpace     = 3
	exitChunkFault  = 4
	exitInterrupted = 130
)

func main() {
	var (
		dir       = flag.StringP("dir", "d", ".", "output directory (created if missing)")
		name      = flag.StringP("output", "o", "8digits-num.dict", "output filename")
		count     = flag.Uint64P("count", "n", 100_000_000, "total record count")
		digits    = flag.Int("digits", 8, "decimal digits per record")
		chunkSize = flag.Uint64("chunk-size", 10_000_000, "records per chunk")
		workers   = flag.IntP("workers", "w", 0, "worker count (0 = all CPUs)")
		interval  = flag.Duration("progress-interval", 5*time.Second, "minimum interval between progress reports")
		verbose   = flag.BoolP("verbose", "v", false, "enable debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	os.Exit(run(logger, *dir, *name, *count, *digits, *chunkSize, *workers, *interval))
}

func run(logger *slog.Logger, dir, name string, count uint64, digits int, chunkSize uint64, workers int, interval time.Duration) int {
	outDir, err := ensureDirectory(dir)
	if err != nil {
		logger.Error("output directory", "dir", dir, "error", err)
		return exitFailure
	}

	opts := []seqdict.Option{
		seqdict.WithDigits(digits),
		seqdict.WithChunkSize(chunkSize),
		seqdict.WithLogger(logger),
		seqdict.WithProgressInterval(interval),
		seqdict.WithSignalHandling(),
	}
	if workers > 0 {
		opts = append(opts, seqdict.WithWorkers(workers))
	}

	stats, err := seqdict.Generate(context.Background(), filepath.Join(outDir, name), count, opts...)
	if err == nil {
		logger.Info("done",
			"records", stats.Records,
			"elapsed", stats.Elapsed.Round(time.Millisecond),
			"rate", fmt.Sprintf("%.0f/s", stats.RecordsPerSec))
		return exitOK
	}

	var (
		spaceErr *seqerrors.InsufficientSpaceError
		cfgErr   *seqerrors.InvalidConfigError
		faultErr *seqerrors.ChunkFaultError
	)
	switch {
	case errors.Is(err, seqerrors.ErrInterrupted):
		logger.Warn("stopped by request, output was not produced")
		return exitInterrupted
	case errors.As(err, &spaceErr):
		logger.Error("insufficient disk space",
			"required", spaceErr.Required, "available", spaceErr.Available)
		return exitNoSpace
	case errors.As(err, &cfgErr):
		logger.Error("invalid configuration", "reason", cfgErr.Reason)
		return exitUsage
	case errors.As(err, &faultErr):
		logger.Error("chunk generation failed",
			"chunk", faultErr.Index, "error", faultErr.Cause)
		return exitChunkFault
	default:
		logger.Error("generation failed", "error", err)
		return exitFailure
	}
}

// ensureDirectory expands environment variables and a leading ~, creates
// the directory if missing, and returns its absolute path.
func ensureDirectory(dir string) (string, error) {
	expanded := os.ExpandEnv(dir)
	if expanded == "~" || strings.HasPrefix(expanded, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		expanded = filepath.Join(home, strings.TrimPrefix(expanded, "~"))
	}
	if err := os.MkdirAll(expanded, 0o755); err != nil {
		return "", err
	}
	return filepath.Abs(expanded)
}
