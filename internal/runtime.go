package internal

import "sync"

// Runtime is one goroutine's reactive execution context: the scheduler,
// the recompute heap it owns, and the current-evaluation-context stack
// used for dependency tracking and async resume. Cells themselves are
// not goroutine-bound (they're plain heap values); only the *evaluation*
// state - what's currently being recomputed - is.
type Runtime struct {
	scheduler *Scheduler

	// current evaluation context: the node currently being recomputed,
	// or nil outside any recomputation (spec §4.1 "Reads within a
	// currently-evaluating computation...").
	cec *Node

	// cross-goroutine guard: promise settlement (Token.Resolve/Reject)
	// may run on a goroutine other than the one that owns this Runtime,
	// so mutation of node state driven by a settlement takes this lock.
	// Everything else on this Runtime only ever runs on its own
	// goroutine and needs no lock, matching spec §5's single-threaded
	// cooperative model for all but promise adoption.
	mu sync.Mutex
}

func NewRuntime() *Runtime {
	return &Runtime{scheduler: newScheduler()}
}

// CurrentNode returns the node currently being recomputed on this
// runtime, or nil.
func (r *Runtime) CurrentNode() *Node { return r.cec }

func (r *Runtime) withCEC(n *Node, fn func()) {
	prev := r.cec
	r.cec = n
	defer func() { r.cec = prev }()
	fn()
}
