package seqdict

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"

	seqerrors "github.com/seqdict/seqdict/errors"
)

// Generator executes exactly one generation job: a complete enumeration
// of total records written to outputPath. Create one with New, run it
// with Run.
type Generator struct {
	cfg    *config
	target string
	spent  atomic.Bool
}

// New validates the configuration for a job writing total records to
// outputPath. It allocates nothing: preflight errors surface here or at
// the start of Run, always before the temporary file exists.
func New(outputPath string, total uint64, opts ...Option) (*Generator, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	cfg.total = total

	if outputPath == "" {
		return nil, &seqerrors.InvalidConfigError{Reason: "output path must not be empty"}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &Generator{cfg: cfg, target: outputPath}, nil
}

// Generate runs a complete job in one call. See Generator.Run.
func Generate(ctx context.Context, outputPath string, total uint64, opts ...Option) (*Stats, error) {
	g, err := New(outputPath, total, opts...)
	if err != nil {
		return nil, err
	}
	return g.Run(ctx)
}

// Stats summarizes a successfully completed job.
type Stats struct {
	Records       uint64
	Bytes         uint64
	Chunks        int
	Elapsed       time.Duration
	RecordsPerSec float64
}

// Run executes the job: disk-space preflight, preallocation and
// mapping, parallel generation with strictly ordered commits, and
// atomic publication. Every failure path — chunk fault, interruption,
// I/O error — routes through the same cleanup, which drains the worker
// pool, closes the mapping and removes the temporary file, leaving the
// target path untouched.
//
// Cancelling ctx (or receiving SIGINT/SIGTERM with WithSignalHandling)
// stops the job cooperatively; Run then returns errors.ErrInterrupted.
// A Generator runs at most once.
func (g *Generator) Run(ctx context.Context) (*Stats, error) {
	if !g.spent.CompareAndSwap(false, true) {
		return nil, seqerrors.ErrGeneratorSpent
	}

	cfg := g.cfg
	size := cfg.total * cfg.recordWidth()

	// Preflight: nothing exists on disk until these checks pass.
	dir := filepath.Dir(g.target)
	avail, known, err := freeSpace(dir)
	switch {
	case err != nil:
		return nil, fmt.Errorf("seqdict: disk space check for %s: %w", dir, err)
	case !known:
		cfg.logger.Debug("free space unknown on this platform, preflight skipped", "dir", dir)
	case avail < size:
		return nil, &seqerrors.InsufficientSpaceError{Required: size, Available: avail}
	}

	chunks := partition(cfg.total, cfg.chunkSize)
	workers := min(cfg.workers, len(chunks))

	cfg.logger.Info("starting generation",
		"output", g.target,
		"records", cfg.total,
		"size", humanize.IBytes(size),
		"chunks", len(chunks),
		"workers", workers,
		"cpus", runtime.NumCPU())

	w, err := newDictWriter(g.target, size, cfg.logger)
	if err != nil {
		return nil, fmt.Errorf("seqdict: %w", err)
	}

	lc := newLifecycle()
	if cfg.handleSignals {
		lc.installSignals()
		defer lc.removeSignals()
	}

	// Translate context cancellation into the shared flag.
	watchDone := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			lc.beginShutdown(causeInterrupted, nil)
		case <-watchDone:
		}
	}()
	defer close(watchDone)

	// Guaranteed-run finalizer: the single cleanup implementation for
	// all outcomes. After a successful publish it is a no-op. runPool
	// has fully drained the pool before control reaches it.
	defer func() {
		if derr := w.discard(); derr != nil {
			cfg.logger.Warn("cleanup failed", "error", derr)
		}
		lc.terminate()
	}()

	start := time.Now()
	if err := g.runPool(lc, w, chunks, workers, start); err != nil {
		return nil, err
	}

	if err := w.publish(); err != nil {
		return nil, fmt.Errorf("seqdict: %w", err)
	}

	elapsed := time.Since(start)
	stats := &Stats{
		Records:       cfg.total,
		Bytes:         size,
		Chunks:        len(chunks),
		Elapsed:       elapsed,
		RecordsPerSec: float64(cfg.total) / elapsed.Seconds(),
	}
	cfg.logger.Info("generation complete",
		"output", g.target,
		"records", stats.Records,
		"elapsed", elapsed.Round(time.Millisecond),
		"rate", fmt.Sprintf("%.0f/s", stats.RecordsPerSec))
	return stats, nil
}
