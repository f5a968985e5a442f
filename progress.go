package seqdict

import (
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// Progress is a read-only snapshot of job advancement delivered to the
// configured observer. It never influences control flow.
type Progress struct {
	ChunksDone   int
	TotalChunks  int
	RecordsDone  uint64
	TotalRecords uint64
	Elapsed      time.Duration
}

// Fraction reports completion in [0, 1].
func (p Progress) Fraction() float64 {
	if p.TotalChunks == 0 {
		return 0
	}
	return float64(p.ChunksDone) / float64(p.TotalChunks)
}

// Throughput reports records per second over the elapsed window.
func (p Progress) Throughput() float64 {
	if p.Elapsed <= 0 {
		return 0
	}
	return float64(p.RecordsDone) / p.Elapsed.Seconds()
}

// ETA estimates the remaining time linearly from progress so far:
// elapsed * (1-f) / f. The second return is false until any progress
// exists, when the estimate is undefined.
func (p Progress) ETA() (time.Duration, bool) {
	f := p.Fraction()
	if f <= 0 {
		return 0, false
	}
	return time.Duration(float64(p.Elapsed) * (1 - f) / f), true
}

// progressReporter derives snapshots from committed chunks and throttles
// observer callbacks and log lines. Commits never wait on it.
type progressReporter struct {
	cfg          *config
	totalChunks  int
	totalRecords uint64
	start        time.Time
	limiter      *rate.Limiter

	chunksDone  int
	recordsDone uint64
}

func newProgressReporter(cfg *config, totalChunks int, totalRecords uint64, start time.Time) *progressReporter {
	return &progressReporter{
		cfg:          cfg,
		totalChunks:  totalChunks,
		totalRecords: totalRecords,
		start:        start,
		limiter:      rate.NewLimiter(rate.Every(cfg.progressInterval), 1),
	}
}

// chunkDone records one committed chunk and, at most once per configured
// interval (always for the final chunk), notifies the observer and log.
func (r *progressReporter) chunkDone(records uint64) {
	r.chunksDone++
	r.recordsDone += records

	final := r.chunksDone == r.totalChunks
	if !final && !r.limiter.Allow() {
		return
	}

	p := Progress{
		ChunksDone:   r.chunksDone,
		TotalChunks:  r.totalChunks,
		RecordsDone:  r.recordsDone,
		TotalRecords: r.totalRecords,
		Elapsed:      time.Since(r.start),
	}
	if r.cfg.progress != nil {
		r.cfg.progress(p)
	}
	if eta, ok := p.ETA(); ok {
		r.cfg.logger.Info("progress",
			"chunks", fmt.Sprintf("%d/%d", p.ChunksDone, p.TotalChunks),
			"pct", fmt.Sprintf("%.1f", 100*p.Fraction()),
			"rate", fmt.Sprintf("%.0f/s", p.Throughput()),
			"eta", eta.Round(time.Second))
	}
}
