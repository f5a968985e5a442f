package seqdict

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// cancelCheckInterval is how many records a worker renders between
// checks of the shared cancellation flag. It bounds cancellation latency
// to one inner batch regardless of the configured chunk size.
const cancelCheckInterval = 65536

// errCancelled marks a chunk that observed the cancellation flag and
// aborted. It is an expected early exit, not a fault.
var errCancelled = errors.New("seqdict: chunk cancelled")

// encodeRange renders records for values [start, end) into dst: each
// value as a zero-padded decimal string of exactly digits characters
// followed by the terminator byte, in ascending order. dst must be
// exactly (end-start)*(digits+1) bytes.
//
// The encoder seeds an ASCII odometer with the first value and
// increments it in place, avoiding a divide chain per record. The
// formatting is byte-exact: no locale, no variable width.
func encodeRange(dst []byte, start, end uint64, digits int, cancel *atomic.Bool) error {
	width := uint64(digits) + 1
	if want := (end - start) * width; uint64(len(dst)) != want {
		return fmt.Errorf("seqdict: encode buffer is %d bytes, want %d", len(dst), want)
	}

	odo := make([]byte, digits)
	v := start
	for i := digits - 1; i >= 0; i-- {
		odo[i] = '0' + byte(v%10)
		v /= 10
	}

	off := 0
	untilCheck := 0
	for n := start; n < end; n++ {
		if untilCheck == 0 {
			if cancel.Load() {
				return errCancelled
			}
			untilCheck = cancelCheckInterval
		}
		untilCheck--

		off += copy(dst[off:], odo)
		dst[off] = terminator
		off++

		// Advance the odometer to the next value.
		for i := digits - 1; i >= 0; i-- {
			if odo[i] < '9' {
				odo[i]++
				break
			}
			odo[i] = '0'
		}
	}
	return nil
}
