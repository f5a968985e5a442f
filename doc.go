// Package seqdict generates complete enumerations of fixed-width numeric
// records into a single flat file.
//
// A job writes records for v = 0..N-1 in ascending order, each encoded as
// a zero-padded decimal string of fixed width followed by one newline
// byte. The output file is exactly N × (digits+1) bytes: no header, no
// trailer, no checksum.
//
// The generator preallocates a temporary file to its exact final size,
// memory-maps it, and splits the range into chunks that a bounded worker
// pool renders in parallel. A single coordinator commits chunk buffers
// into the mapping strictly in chunk order, so the mapping has exactly
// one writer. On success the temporary file atomically replaces the
// target path; on any failure or interruption it is deleted, so a
// partial artifact is never visible at the target.
//
// # Basic Usage
//
//	stats, err := seqdict.Generate(ctx, "8digits-num.dict", 100_000_000,
//	    seqdict.WithDigits(8),
//	    seqdict.WithWorkers(6))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("wrote %d records in %s\n", stats.Records, stats.Elapsed)
//
// Interruption (SIGINT/SIGTERM with WithSignalHandling, or context
// cancellation) is cooperative: workers observe a shared flag between
// inner batches and stop with bounded latency. The resulting error is
// errors.ErrInterrupted, distinct from configuration, disk-space and
// chunk-fault errors so callers can map each outcome separately.
//
// # Package Structure
//
//   - Public API: generator.go (New, Generate, Run), options.go (Option, With* functions)
//   - Partitioning and encoding: partition.go, encode.go
//   - Worker pool and ordered commit: generator_parallel.go
//   - Mapped temp-file lifecycle: writer.go
//   - Shutdown state machine: lifecycle.go
//   - Progress observation: progress.go
//   - Platform: fallocate_*.go, prefault_*.go, space_*.go (OS-specific optimizations)
package seqdict
