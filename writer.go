package seqdict

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/edsrzf/mmap-go"
	"github.com/natefinch/atomic"
)

// tempSuffix marks the in-progress artifact next to the target path.
// Keeping the temp file in the same directory guarantees the final
// rename stays within one filesystem and is atomic.
const tempSuffix = ".tmp"

// dictWriter owns the preallocated temporary file and its memory
// mapping. The mapping has exactly one writer: the coordinator copies
// each chunk's bytes to its exact offset via commit. Workers never
// touch it, so no lock guards the mapping.
type dictWriter struct {
	file   *os.File
	mmap   mmap.MMap
	data   []byte
	size   uint64
	temp   string
	target string
	logger *slog.Logger
}

// newDictWriter creates the temporary file, extends it to exactly size
// bytes via sparse preallocation (O(1), not proportional to size), and
// memory-maps it read-write. The mapping is prefaulted where the
// platform supports it.
func newDictWriter(target string, size uint64, logger *slog.Logger) (*dictWriter, error) {
	temp := target + tempSuffix

	file, err := os.Create(temp)
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}

	// Pre-allocate disk blocks to prevent SIGBUS on disk full.
	if err := fallocateFile(file, int64(size)); err != nil {
		primaryErr := fmt.Errorf("preallocate %d bytes: %w", size, err)
		return nil, errors.Join(primaryErr, file.Close(), os.Remove(temp))
	}

	mm, err := mmap.MapRegion(file, int(size), mmap.RDWR, 0, 0)
	if err != nil {
		primaryErr := fmt.Errorf("mmap temp file: %w", err)
		return nil, errors.Join(primaryErr, file.Close(), os.Remove(temp))
	}

	w := &dictWriter{
		file:   file,
		mmap:   mm,
		data:   []byte(mm),
		size:   size,
		temp:   temp,
		target: target,
		logger: logger,
	}

	// On Linux 5.14+, uses MADV_POPULATE_WRITE. No-op elsewhere.
	prefaultRegion(w.data)

	return w, nil
}

// commit copies a rendered chunk into the mapping at the given byte
// offset. Each byte range is written at most once, in chunk order.
func (w *dictWriter) commit(buf []byte, offset uint64) error {
	if offset+uint64(len(buf)) > w.size {
		return fmt.Errorf("commit exceeds mapping: offset %d + %d bytes > size %d", offset, len(buf), w.size)
	}
	copy(w.data[offset:], buf)
	return nil
}

// publish flushes and unmaps the mapping, closes the file, and
// atomically replaces the target path with the finished temp file.
// Observers of the target path see either its previous state or the
// fully written file, never anything partial.
// On error, delegates to discard for idempotent cleanup.
func (w *dictWriter) publish() error {
	if err := w.mmap.Flush(); err != nil {
		primaryErr := fmt.Errorf("mmap flush: %w", err)
		return errors.Join(primaryErr, w.discard())
	}

	// Unmap before rename (required order). Nil the mapping regardless
	// of outcome so discard does not retry.
	unmapErr := w.mmap.Unmap()
	w.mmap = nil
	w.data = nil
	if unmapErr != nil {
		primaryErr := fmt.Errorf("mmap unmap: %w", unmapErr)
		return errors.Join(primaryErr, w.discard())
	}

	closeErr := w.file.Close()
	w.file = nil
	if closeErr != nil {
		primaryErr := fmt.Errorf("close temp file: %w", closeErr)
		return errors.Join(primaryErr, w.discard())
	}

	if err := atomic.ReplaceFile(w.temp, w.target); err != nil {
		primaryErr := fmt.Errorf("publish %s: %w", w.target, err)
		return errors.Join(primaryErr, w.discard())
	}
	w.temp = ""
	return nil
}

// discard unmaps, closes and removes the temporary file without
// publishing. Idempotent: safe to call multiple times, after a failed
// publish, and after a successful one (where it is a no-op). Removal is
// best-effort; a leftover temp file is logged, never escalated.
//
// Callers must not invoke discard while workers may still hold results
// destined for the mapping; the pool is drained first.
func (w *dictWriter) discard() error {
	var errs []error
	if w.mmap != nil {
		if err := w.mmap.Unmap(); err != nil {
			errs = append(errs, fmt.Errorf("mmap unmap: %w", err))
		}
		w.mmap = nil
		w.data = nil
	}
	if w.file != nil {
		if err := w.file.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close temp file: %w", err))
		}
		w.file = nil
	}
	if w.temp != "" {
		if err := os.Remove(w.temp); err != nil && !os.IsNotExist(err) {
			w.logger.Warn("temp file removal failed", "path", w.temp, "error", err)
		}
		w.temp = ""
	}
	return errors.Join(errs...)
}
