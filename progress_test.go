package seqdict

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestProgressFraction(t *testing.T) {
	p := Progress{ChunksDone: 25, TotalChunks: 100}
	require.InDelta(t, 0.25, p.Fraction(), 1e-9)

	require.Zero(t, Progress{}.Fraction())
}

func TestProgressThroughput(t *testing.T) {
	p := Progress{RecordsDone: 1_000_000, Elapsed: 2 * time.Second}
	require.InDelta(t, 500_000, p.Throughput(), 1e-6)

	require.Zero(t, Progress{RecordsDone: 10}.Throughput())
}

func TestProgressETA(t *testing.T) {
	// Half done in 30s: 30s remain.
	p := Progress{ChunksDone: 50, TotalChunks: 100, Elapsed: 30 * time.Second}
	eta, ok := p.ETA()
	require.True(t, ok)
	require.InDelta(t, float64(30*time.Second), float64(eta), float64(time.Millisecond))

	// A quarter done in 10s: 30s remain.
	p = Progress{ChunksDone: 25, TotalChunks: 100, Elapsed: 10 * time.Second}
	eta, ok = p.ETA()
	require.True(t, ok)
	require.InDelta(t, float64(30*time.Second), float64(eta), float64(time.Millisecond))

	// Undefined until any progress exists.
	_, ok = Progress{TotalChunks: 100, Elapsed: time.Second}.ETA()
	require.False(t, ok)
}

func TestProgressReporterNotifiesObserver(t *testing.T) {
	cfg := defaultConfig()
	cfg.progressInterval = 0 // disable throttling
	var seen []Progress
	cfg.progress = func(p Progress) { seen = append(seen, p) }

	r := newProgressReporter(cfg, 4, 400, time.Now())
	for range 4 {
		r.chunkDone(100)
	}

	require.Len(t, seen, 4)
	last := seen[len(seen)-1]
	require.Equal(t, 4, last.ChunksDone)
	require.EqualValues(t, 400, last.RecordsDone)
	require.InDelta(t, 1.0, last.Fraction(), 1e-9)
}

func TestProgressReporterAlwaysReportsFinalChunk(t *testing.T) {
	cfg := defaultConfig()
	cfg.progressInterval = time.Hour // throttle everything but the final chunk
	var seen []Progress
	cfg.progress = func(p Progress) { seen = append(seen, p) }

	r := newProgressReporter(cfg, 10, 1000, time.Now())
	for range 10 {
		r.chunkDone(100)
	}

	require.NotEmpty(t, seen)
	require.Equal(t, 10, seen[len(seen)-1].ChunksDone)
}
