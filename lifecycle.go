package seqdict

import (
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
)

// Job states. Transitions are monotonic:
// running → shuttingDown → terminated.
const (
	stateRunning int32 = iota
	stateShuttingDown
	stateTerminated
)

// shutdownCause records why the controller left the running state.
type shutdownCause int

const (
	causeNone        shutdownCause = iota
	causeCompleted                 // all chunks committed
	causeInterrupted               // external signal or context cancellation
	causeFault                     // a chunk generation or commit fault
)

// lifecycle owns the job state machine and the shared cooperative
// cancellation flag. Only the lifecycle ever flips the flag false→true;
// it never resets. Workers receive the flag by reference at spawn time
// and treat it as monotonic.
type lifecycle struct {
	state  atomic.Int32
	cancel atomic.Bool

	mu    sync.Mutex
	cause shutdownCause
	fault error // first fault, set when cause == causeFault

	sigCh   chan os.Signal
	sigDone chan struct{}
}

func newLifecycle() *lifecycle {
	return &lifecycle{}
}

// flag returns the shared cancellation flag that workers poll between
// inner batches.
func (lc *lifecycle) flag() *atomic.Bool {
	return &lc.cancel
}

// installSignals routes SIGINT/SIGTERM into a shutdown request until
// removeSignals is called.
func (lc *lifecycle) installSignals() {
	lc.sigCh = make(chan os.Signal, 1)
	lc.sigDone = make(chan struct{})
	signal.Notify(lc.sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-lc.sigCh:
			lc.beginShutdown(causeInterrupted, nil)
		case <-lc.sigDone:
		}
	}()
}

// removeSignals detaches the signal handlers installed by installSignals.
func (lc *lifecycle) removeSignals() {
	if lc.sigCh == nil {
		return
	}
	signal.Stop(lc.sigCh)
	close(lc.sigDone)
	lc.sigCh = nil
}

// beginShutdown moves running → shuttingDown and records the cause.
// The first transition wins; later calls are no-ops. Every cause except
// normal completion flips the cancellation flag so in-flight workers
// abort with bounded latency.
func (lc *lifecycle) beginShutdown(cause shutdownCause, fault error) {
	if !lc.state.CompareAndSwap(stateRunning, stateShuttingDown) {
		return
	}
	lc.mu.Lock()
	lc.cause = cause
	lc.fault = fault
	lc.mu.Unlock()
	if cause != causeCompleted {
		lc.cancel.Store(true)
	}
}

// terminate marks the job fully drained: no worker is running and the
// mapping is closed. Only after this may cleanup remove the temp file
// out from under what would otherwise be live writers.
func (lc *lifecycle) terminate() {
	lc.state.Store(stateTerminated)
}

// outcome reports the recorded shutdown cause and first fault.
func (lc *lifecycle) outcome() (shutdownCause, error) {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	return lc.cause, lc.fault
}
