// Package errors defines the exported error values for the seqdict library.
//
// This is the single source of truth for error values. Both the top-level
// seqdict package and launchers built on it import from here, ensuring
// errors.Is and errors.As checks work across package boundaries.
package errors

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
)

var (
	// ErrInterrupted reports that the job was stopped by an external
	// interrupt before completion. It is a deliberate, expected outcome,
	// not a fault: the temporary file is discarded and the target output
	// path is left untouched.
	ErrInterrupted = errors.New("seqdict: generation interrupted by request")

	// ErrGeneratorSpent is returned when Run is called on a Generator
	// that has already executed its job.
	ErrGeneratorSpent = errors.New("seqdict: generator has already run")
)

// InsufficientSpaceError is returned by the preflight check when the
// output filesystem cannot hold the complete artifact. No resources
// exist on disk when it is returned.
type InsufficientSpaceError struct {
	Required  uint64
	Available uint64
}

func (e *InsufficientSpaceError) Error() string {
	return fmt.Sprintf("seqdict: insufficient disk space: need %s, have %s",
		humanize.IBytes(e.Required), humanize.IBytes(e.Available))
}

// InvalidConfigError reports an inconsistent configuration detected
// before any resource is allocated.
type InvalidConfigError struct {
	Reason string
}

func (e *InvalidConfigError) Error() string {
	return "seqdict: invalid configuration: " + e.Reason
}

// ChunkFaultError reports a fatal failure while generating or committing
// a single chunk. It aborts the whole job; the output contract is
// all-or-nothing, so there is no partial-success mode.
//
// The underlying cause can be accessed via errors.Unwrap.
type ChunkFaultError struct {
	Index int
	Cause error
}

func (e *ChunkFaultError) Error() string {
	return fmt.Sprintf("seqdict: chunk %d failed: %v", e.Index, e.Cause)
}

func (e *ChunkFaultError) Unwrap() error { return e.Cause }
