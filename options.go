package seqdict

import (
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"time"

	seqerrors "github.com/seqdict/seqdict/errors"
)

const (
	// defaultDigits matches the original eight-digit dictionary layout.
	defaultDigits = 8

	defaultChunkSize = 10_000_000

	defaultProgressInterval = 5 * time.Second

	// terminator ends every record. Fixed by the output contract.
	terminator = '\n'

	// maxDigits is the largest width whose full value range still fits
	// in a uint64 (10^20 overflows).
	maxDigits = 19
)

// Option is a functional option for configuring a Generator.
type Option func(*config)

type config struct {
	digits           int
	chunkSize        uint64
	workers          int
	logger           *slog.Logger
	progress         func(Progress)
	progressInterval time.Duration
	handleSignals    bool

	total uint64 // Set by New from the required argument

	// faultChunk, when >= 0, forces a fault in that chunk.
	// Fault-injection hook for tests.
	faultChunk int
}

func defaultConfig() *config {
	return &config{
		digits:           defaultDigits,
		chunkSize:        defaultChunkSize,
		workers:          runtime.NumCPU(),
		logger:           slog.New(slog.DiscardHandler),
		progressInterval: defaultProgressInterval,
		faultChunk:       -1,
	}
}

// WithDigits sets the decimal digit count of each record. Every record
// occupies digits+1 bytes (digits plus the terminator). The width must
// be able to represent all generated values; New rejects configurations
// where it cannot.
func WithDigits(n int) Option {
	return func(c *config) {
		c.digits = n
	}
}

// WithChunkSize sets the number of records per chunk, the unit of
// parallel work assignment.
func WithChunkSize(n uint64) Option {
	return func(c *config) {
		c.chunkSize = n
	}
}

// WithWorkers sets the number of parallel workers.
// Defaults to runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(c *config) {
		c.workers = n
	}
}

// WithLogger injects a structured logger. Logging is a pure side
// channel: it is never consulted for control flow. Defaults to a
// discard logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithProgress installs a read-only observer invoked with throttled
// progress snapshots as chunks are committed.
func WithProgress(fn func(Progress)) Option {
	return func(c *config) {
		c.progress = fn
	}
}

// WithProgressInterval sets the minimum interval between progress
// reports. Zero disables throttling. Cadence is a presentation detail;
// it never affects correctness.
func WithProgressInterval(d time.Duration) Option {
	return func(c *config) {
		c.progressInterval = d
	}
}

// WithSignalHandling installs SIGINT/SIGTERM handlers for the duration
// of Run, translating either signal into a cooperative shutdown.
// Intended for launchers; libraries embedding seqdict usually cancel
// the context instead.
func WithSignalHandling() Option {
	return func(c *config) {
		c.handleSignals = true
	}
}

// validate fails fast on any inconsistent configuration, before a single
// resource is allocated.
func (c *config) validate() error {
	if c.total == 0 {
		return &seqerrors.InvalidConfigError{Reason: "total record count must be positive"}
	}
	if c.digits < 1 || c.digits > maxDigits {
		return &seqerrors.InvalidConfigError{
			Reason: fmt.Sprintf("digit width must be between 1 and %d, got %d", maxDigits, c.digits),
		}
	}
	// The width must represent every generated value exactly; a narrower
	// width would silently truncate or misalign records.
	if capacity := pow10(c.digits); c.total > capacity {
		return &seqerrors.InvalidConfigError{
			Reason: fmt.Sprintf("%d digits can represent at most %d records, got %d", c.digits, capacity, c.total),
		}
	}
	if c.chunkSize == 0 {
		return &seqerrors.InvalidConfigError{Reason: "chunk size must be positive"}
	}
	if c.workers < 1 {
		return &seqerrors.InvalidConfigError{Reason: "worker count must be positive"}
	}
	// The whole file is held in one mapping, so its size must fit in int.
	if width := uint64(c.digits) + 1; c.total > uint64(math.MaxInt)/width {
		return &seqerrors.InvalidConfigError{
			Reason: fmt.Sprintf("output size %d × %d bytes exceeds the addressable mapping size", c.total, width),
		}
	}
	return nil
}

// recordWidth is the byte size of one record: digits plus terminator.
func (c *config) recordWidth() uint64 {
	return uint64(c.digits) + 1
}

// pow10 returns 10^n. n must be in [1, maxDigits] so the result fits in
// a uint64.
func pow10(n int) uint64 {
	v := uint64(1)
	for range n {
		v *= 10
	}
	return v
}
