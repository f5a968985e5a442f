package seqdict

import (
	"errors"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	seqerrors "github.com/seqdict/seqdict/errors"
)

// chanBufferMultiplier sizes the work and result channels relative to
// the worker count.
const chanBufferMultiplier = 2

// errInjectedFault backs the fault-injection test hook (config.faultChunk).
var errInjectedFault = errors.New("seqdict: injected chunk fault")

// chunkResult is a rendered chunk buffer, or a cancellation/fault
// marker. Buffers are single-owner: produced by one worker, consumed by
// the coordinator, then dropped.
type chunkResult struct {
	index     int
	buf       []byte
	cancelled bool
	err       error
}

// runPool drives the bounded worker pool over the chunk sequence and
// commits results into the mapping strictly in ascending chunk order.
//
// Workers may finish out of order; the coordinator parks early arrivals
// in a pending map and applies consecutive ready chunks in index order,
// since each commit offset derives from chunk identity. An unordered
// first-come queue would corrupt the file.
//
// On every return path the pool has been fully drained: no worker
// goroutine is running, so cleanup may safely remove the temp file.
func (g *Generator) runPool(lc *lifecycle, w *dictWriter, chunks []chunk, workers int, start time.Time) error {
	cfg := g.cfg
	width := cfg.recordWidth()
	flag := lc.flag()

	workCh := make(chan chunk, workers*chanBufferMultiplier)
	resultCh := make(chan chunkResult, workers*chanBufferMultiplier)
	// quit is closed when the coordinator abandons the result stream; it
	// unblocks workers stuck sending results and stops the feeder.
	quit := make(chan struct{})

	var group errgroup.Group
	for range workers {
		group.Go(func() error {
			return g.runWorker(workCh, resultCh, quit, flag)
		})
	}

	feedDone := make(chan struct{})
	go func() {
		defer close(feedDone)
		defer close(workCh)
		for _, c := range chunks {
			select {
			case workCh <- c:
			case <-quit:
				return
			}
		}
	}()

	// drain guarantees no worker is still running before the caller's
	// cleanup may touch the temp file.
	drain := func() {
		close(quit)
		<-feedDone
		_ = group.Wait()
	}

	reporter := newProgressReporter(cfg, len(chunks), cfg.total, start)
	pending := make(map[int][]byte, workers*chanBufferMultiplier)

	next := 0
	for next < len(chunks) {
		res := <-resultCh

		if res.err != nil {
			fault := &seqerrors.ChunkFaultError{Index: res.index, Cause: res.err}
			cfg.logger.Error("chunk generation failed", "chunk", res.index, "error", res.err)
			lc.beginShutdown(causeFault, fault)
			drain()
			return fault
		}
		if res.cancelled {
			lc.beginShutdown(causeInterrupted, nil)
			drain()
			cfg.logger.Warn("generation interrupted, output discarded", "chunks_done", next, "chunks_total", len(chunks))
			return seqerrors.ErrInterrupted
		}

		pending[res.index] = res.buf

		// Apply every consecutive ready chunk, strictly in index order.
		for buf, ok := pending[next]; ok; buf, ok = pending[next] {
			delete(pending, next)
			if err := w.commit(buf, chunks[next].start*width); err != nil {
				fault := &seqerrors.ChunkFaultError{Index: next, Cause: err}
				lc.beginShutdown(causeFault, fault)
				drain()
				return fault
			}
			reporter.chunkDone(chunks[next].records())
			next++
		}
	}

	lc.beginShutdown(causeCompleted, nil)
	drain()

	// An interrupt may have raced normal exhaustion; the first recorded
	// cause wins and an interrupted job never publishes.
	if cause, _ := lc.outcome(); cause != causeCompleted {
		return seqerrors.ErrInterrupted
	}
	return nil
}

// runWorker renders chunks until the work channel closes. The shared
// cancellation flag is checked before each chunk and, inside
// encodeRange, every cancelCheckInterval records, so an early exit is
// bounded by one inner batch.
func (g *Generator) runWorker(workCh <-chan chunk, resultCh chan<- chunkResult, quit <-chan struct{}, flag *atomic.Bool) error {
	cfg := g.cfg
	width := cfg.recordWidth()

	for c := range workCh {
		res := chunkResult{index: c.index}
		switch {
		case flag.Load():
			res.cancelled = true
		case c.index == cfg.faultChunk:
			res.err = errInjectedFault
		default:
			buf := make([]byte, c.records()*width)
			switch err := encodeRange(buf, c.start, c.end, cfg.digits, flag); {
			case errors.Is(err, errCancelled):
				res.cancelled = true
			case err != nil:
				res.err = err
			default:
				res.buf = buf
			}
		}

		select {
		case resultCh <- res:
		case <-quit:
			return nil
		}
	}
	return nil
}
