package internal

// Handle is passed to a Computed node's ComputeFunc: it exposes the
// resume-after-suspension capability and the cause hint of spec
// §4.3/§4.4.
type Handle struct {
	node  *Node
	rt    *Runtime
	cause *Node
}

// Resume re-installs node as the current evaluation context for the
// duration of fn, then restores whatever context was active before -
// spec §4.3's "async re-tracking". Reads performed inside fn are
// appended as new outgoing edges on node exactly like reads during the
// node's original synchronous recomputation. The node is Computing for
// the duration of fn and gets its previous freshness back afterwards.
func (h *Handle) Resume(fn func()) {
	prev := h.node.freshness
	h.node.freshness = Computing
	defer func() { h.node.freshness = prev }()
	h.rt.withCEC(h.node, fn)
}

// Cause returns the writer that triggered this recompute, if the
// scheduler recorded one (diagnostics only, spec §4.4).
func (h *Handle) Cause() (*Node, bool) {
	if h.cause == nil {
		return nil, false
	}
	return h.cause, true
}

// Recompute implements spec §4.3 steps 1-8.
func (r *Runtime) Recompute(n *Node) {
	if n.freshness != Stale {
		return
	}
	if n.compute == nil {
		n.freshness = Fresh
		return
	}

	n.freshness = Computing

	if n.kind == StatePending && n.token != nil {
		if n.canceller != nil {
			n.canceller(n.token)
		}
		n.token = nil
	}

	n.recomputeCursor = 0

	outcome, err := runComputation(r, n)

	n.finalizeEdges()

	if err != nil {
		n.freshness = Fresh
		r.applyOutcome(n, Outcome{Kind: OutcomeErrored, Err: err}, false)
		return
	}

	n.freshness = Fresh
	r.applyOutcome(n, outcome, false)
}

// runComputation invokes n.compute under n's evaluation context,
// recovering a panic into a ComputationThrew outcome (spec §4.3 step 6,
// §7).
func runComputation(r *Runtime, n *Node) (outcome Outcome, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &CellError{Kind: ComputationThrew, Cause: asError(rec)}
		}
	}()

	h := &Handle{node: n, rt: r}
	r.withCEC(n, func() {
		outcome = n.compute(h)
	})
	return outcome, nil
}

// EnsureFresh forces a Stale Computed node to recompute; it is the
// implementation of "read-value on a Computed, Stale cell forces
// recomputation" (spec §4.1).
func (r *Runtime) EnsureFresh(n *Node) {
	if n.compute != nil && n.freshness == Stale {
		r.Recompute(n)
	}
}

// trackIfEvaluating registers an edge from the runtime's current
// evaluation context (if any) to src, tagged with mode (spec §4.1 "Reads
// within a currently-evaluating computation...").
func (r *Runtime) trackIfEvaluating(src *Node, mode Mode) error {
	if r.cec == nil {
		return nil
	}
	return trackRead(r.cec, src, mode)
}

// ReadValue implements spec §4.1's read-value: forces recomputation if
// Stale, tracks a Value edge, and returns the observed value (def while
// Errored; while Pending, the last Ready value, or def if there was none).
func (r *Runtime) ReadValue(n *Node) (any, error) {
	r.EnsureFresh(n)
	if err := r.trackIfEvaluating(n, ModeValue); err != nil {
		r.applyOutcome(n, Outcome{Kind: OutcomeErrored, Err: err}, false)
		return n.def, err
	}

	switch n.kind {
	case StateReady:
		return n.value, nil
	case StateErrored:
		return n.def, nil
	default:
		return n.lastValue, nil
	}
}

// ReadPending implements read-pending: forces recomputation first
// (pending-flag-cell semantics reuse this), tracks a Pending edge, and
// reports whether n is currently Pending.
func (r *Runtime) ReadPending(n *Node) (*Token, bool) {
	r.EnsureFresh(n)
	r.trackIfEvaluating(n, ModePending)

	if n.kind == StatePending {
		return n.token, true
	}
	return nil, false
}

// ReadError implements read-error.
func (r *Runtime) ReadError(n *Node) (error, bool) {
	r.EnsureFresh(n)
	r.trackIfEvaluating(n, ModeError)

	if n.kind == StateErrored {
		return n.err, true
	}
	return nil, false
}

// ReadDefault implements read-default: never forces recomputation, never
// tracks.
func (n *Node) ReadDefault() any { return n.def }

// observedValue is the value a read-value call would currently return,
// without forcing recomputation or tracking - used to compute DeepEq
// deltas and to feed listeners the "previous observed value".
func (n *Node) observedValue() any {
	switch n.kind {
	case StateReady:
		return n.value
	case StateErrored:
		return n.def
	default:
		return n.lastValue
	}
}
