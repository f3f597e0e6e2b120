// Package worker implements the background audit of the ledger.
package worker

import (
	"sync"
	"time"

	"github.com/ardanlabs/chatchain/foundation/blockchain/state"
)

// Worker manages the background workflows for the ledger.
type Worker struct {
	state      *state.State
	wg         sync.WaitGroup
	ticker     *time.Ticker
	shut       chan struct{}
	startAudit chan bool
	evHandler  state.EventHandler
}

// Run creates a worker, registers the worker with the state package, and
// starts up all the background processes. An interval of zero disables the
// periodic audit; audits can still be signaled.
func Run(st *state.State, interval time.Duration, evHandler state.EventHandler) *Worker {
	if evHandler == nil {
		evHandler = func(v string, args ...any) {}
	}

	w := Worker{
		state:      st,
		shut:       make(chan struct{}),
		startAudit: make(chan bool, 1),
		evHandler:  evHandler,
	}

	if interval > 0 {
		w.ticker = time.NewTicker(interval)
	}

	// Register this worker with the state package.
	st.Worker = &w

	// Load the set of operations we need to run.
	operations := []func(){
		w.auditOperations,
	}

	// Set waitgroup to match the number of G's we need for the set
	// of operations we have.
	g := len(operations)
	w.wg.Add(g)

	// We don't want to return until we know all the G's are up and running.
	hasStarted := make(chan bool)

	// Start all the operational G's.
	for _, op := range operations {
		go func(op func()) {
			defer w.wg.Done()
			hasStarted <- true
			op()
		}(op)
	}

	// Wait for the G's to report they are running.
	for i := 0; i < g; i++ {
		<-hasStarted
	}

	return &w
}

// =============================================================================
// These methods implement the state.Worker interface.

// Shutdown terminates the goroutines performing work.
func (w *Worker) Shutdown() {
	w.evHandler("worker: shutdown: started")
	defer w.evHandler("worker: shutdown: completed")

	if w.ticker != nil {
		w.evHandler("worker: shutdown: stop ticker")
		w.ticker.Stop()
	}

	w.evHandler("worker: shutdown: terminate goroutines")
	close(w.shut)
	w.wg.Wait()
}

// SignalAudit starts an audit. If there is already a signal pending in the
// channel, just return since an audit will start.
func (w *Worker) SignalAudit() {
	select {
	case w.startAudit <- true:
	default:
	}
	w.evHandler("worker: SignalAudit: audit signaled")
}

// =============================================================================

// auditOperations handles the periodic and signaled audits.
func (w *Worker) auditOperations() {
	w.evHandler("worker: auditOperations: G started")
	defer w.evHandler("worker: auditOperations: G completed")

	var tick <-chan time.Time
	if w.ticker != nil {
		tick = w.ticker.C
	}

	for {
		select {
		case <-tick:
			if !w.isShutdown() {
				w.runAuditOperation()
			}
		case <-w.startAudit:
			if !w.isShutdown() {
				w.runAuditOperation()
			}
		case <-w.shut:
			w.evHandler("worker: auditOperations: received shut signal")
			return
		}
	}
}

// runAuditOperation verifies the chain and the projection.
func (w *Worker) runAuditOperation() {
	w.evHandler("worker: runAuditOperation: AUDIT: started")
	defer w.evHandler("worker: runAuditOperation: AUDIT: completed")

	t := time.Now()
	report, err := w.state.Audit()
	if err != nil {
		w.evHandler("worker: runAuditOperation: AUDIT: ERROR: %s", err)
		return
	}

	w.evHandler("worker: runAuditOperation: AUDIT: blocks[%d]: valid[%v]: consistent[%v]: duration[%v]", report.Blocks, report.Valid, report.Consistent, time.Since(t))
}

// isShutdown is used to test if a shutdown has been signaled.
func (w *Worker) isShutdown() bool {
	select {
	case <-w.shut:
		return true
	default:
		return false
	}
}
