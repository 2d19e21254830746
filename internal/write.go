package internal

import "github.com/AnatoleLucet/cell/deepequal"

// WriteValue implements spec §4.2 case 1: a plain value write. knownChanged
// lets the caller assert a change even when DeepEq would say otherwise
// (spec §4.1's knownToBeChanged caller flag).
func (r *Runtime) WriteValue(n *Node, v any, knownChanged bool) {
	if n.setter != nil {
		r.invokeSetter(n, v)
		return
	}
	r.applyOutcome(n, Outcome{Kind: OutcomeReady, Value: v}, knownChanged)
}

// WriteComputed implements spec §4.2 case 2: install a closure as the
// cell's computation. If the cell is currently Pending, the outgoing
// token is superseded immediately and its canceller invoked, mirroring
// §4.6's "replacing a Pending... invokes the old canceller" rule for the
// symmetric case of replacing the computation that produced it.
func (r *Runtime) WriteComputed(n *Node, compute ComputeFunc, newCanceller func(*Token)) error {
	if n.setter != nil {
		return &CellError{Kind: WriteRejected}
	}

	if n.kind == StatePending && n.token != nil {
		if n.canceller != nil {
			n.canceller(n.token)
		}
		// detach immediately rather than waiting for the deferred
		// recompute to install a replacement: otherwise a resolution of
		// the old token arriving before this cell is next read would
		// still find it "current" and wrongly apply (spec §4.6).
		n.token = nil
	}

	n.compute = compute
	if newCanceller != nil {
		n.canceller = newCanceller
	} else {
		n.canceller = nil
	}
	n.freshness = Stale

	if n.HasListenersTransitive() {
		r.Recompute(n)
	}
	return nil
}

// WritePending implements spec §4.2 case 3: adopt a pending token.
func (r *Runtime) WritePending(n *Node, tok *Token) {
	if n.setter != nil {
		r.invokeSetterPending(n, tok)
		return
	}
	r.applyOutcome(n, Outcome{Kind: OutcomePending, Token: tok}, false)
}

// WriteError implements spec §4.2 case 4: a plain error write.
func (r *Runtime) WriteError(n *Node, err error) {
	if n.setter != nil {
		r.invokeSetterError(n, err)
		return
	}
	r.applyOutcome(n, Outcome{Kind: OutcomeErrored, Err: &CellError{Kind: ComputationReturnedError, Cause: err}}, false)
}

// invokeSetter runs a Computed cell's setter inside an implicit batch
// (spec §4.2 "Setter semantics"). A setter that throws while the cell was
// Pending also invokes the canceller of that prior token exactly once
// (spec §4.2 "Boundary behaviors").
func (r *Runtime) invokeSetter(n *Node, v any) {
	r.BeginBatch()
	defer r.EndBatch()

	if err := runSetter(n.setter, v); err != nil {
		if n.kind == StatePending && n.token != nil && n.canceller != nil {
			n.canceller(n.token)
		}
		r.applyOutcome(n, Outcome{Kind: OutcomeErrored, Err: &CellError{Kind: SetterThrew, Cause: err}}, false)
		return
	}
}

func (r *Runtime) invokeSetterPending(n *Node, tok *Token) {
	// a setter-bearing cell still adopts pending tokens directly; the
	// setter only intercepts plain-value writes (spec §4.2).
	r.applyOutcome(n, Outcome{Kind: OutcomePending, Token: tok}, false)
}

func (r *Runtime) invokeSetterError(n *Node, err error) {
	r.applyOutcome(n, Outcome{Kind: OutcomeErrored, Err: &CellError{Kind: ComputationReturnedError, Cause: err}}, false)
}

func runSetter(setter func(any) error, v any) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = asError(rec)
		}
	}()
	return setter(v)
}

// applyOutcome is the single place spec §4.2's four write-protocol
// categories are classified and turned into a state transition plus
// emitted change mode, whether the outcome came from a self-write after
// recomputation (spec §4.3 step 6) or a direct external write.
func (r *Runtime) applyOutcome(n *Node, outcome Outcome, knownChanged bool) {
	if outcome.Kind == OutcomeAdopt {
		outcome = snapshotAdopt(r, outcome.Adopt)
	}

	// A token can settle before anything ever attaches it to a node - the
	// deferred recompute that returns Pending(tok) may run after tok has
	// already resolved. Adopting an already-settled token is the same as
	// adopting its resolved value directly; it never becomes the node's
	// current pending token, so a later arrival of the same settlement
	// event (already consumed) cannot double-apply.
	if outcome.Kind == OutcomePending {
		if v, terr, ok := outcome.Token.snapshotIfSettled(); ok {
			if terr != nil {
				outcome = Outcome{Kind: OutcomeErrored, Err: &CellError{Kind: PromiseRejected, Cause: terr}}
			} else {
				outcome = Outcome{Kind: OutcomeReady, Value: v}
			}
		}
	}

	if n.isErrorView && outcome.Kind == OutcomeErrored {
		outcome = Outcome{Kind: OutcomeReady, Value: outcome.Err}
	}

	prevObserved := n.observedValue()
	prevKind := n.kind

	var changeMode Mode

	switch outcome.Kind {
	case OutcomeReady:
		changed := knownChanged || !deepequal.Equal(prevObserved, outcome.Value)
		if prevKind == StatePending {
			changeMode |= ModePending
		}
		if prevKind == StateErrored {
			changeMode |= ModeError
		}
		if changed {
			changeMode |= ModeValue
		}
		if changeMode == 0 {
			return
		}

		n.kind = StateReady
		n.value = outcome.Value
		n.lastValue = outcome.Value
		n.token = nil
		n.err = nil

	case OutcomePending:
		changeMode |= ModePending
		if prevKind == StateReady {
			changeMode |= ModeValue
		}
		if prevKind == StateErrored {
			changeMode |= ModeError
		}

		n.kind = StatePending
		n.token = outcome.Token
		n.err = nil
		outcome.Token.attach(n)

	case OutcomeErrored:
		sameErr := prevKind == StateErrored && sameError(n.err, outcome.Err)
		if prevKind == StateReady {
			changeMode |= ModeValue
		}
		if prevKind == StatePending {
			changeMode |= ModePending
		}
		if !sameErr {
			changeMode |= ModeError
		}
		if changeMode == 0 {
			return
		}

		n.kind = StateErrored
		n.err = outcome.Err
		n.token = nil
	}

	r.Propagate(n, changeMode, prevObserved)
}

// sameError mirrors spec §4.2 case 4's "Same-type/same-message errors do
// not re-emit Error".
func sameError(a, b error) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Error() == b.Error()
}

// snapshotAdopt implements spec §4.3's "Returning another cell D": C
// mirrors D's current state category exactly, as a one-time snapshot
// (spec §9 Open Question 1, resolved in favor of a single snapshot - see
// DESIGN.md).
func snapshotAdopt(r *Runtime, d *Node) Outcome {
	r.EnsureFresh(d)

	switch d.kind {
	case StateErrored:
		return Outcome{Kind: OutcomeErrored, Err: d.err}
	case StatePending:
		return Outcome{Kind: OutcomePending, Token: d.token}
	default:
		return Outcome{Kind: OutcomeReady, Value: d.value}
	}
}

// settlePendingNode applies a token's resolution to n, guarded against a
// superseded token and safe to call from a goroutine other than the one
// that owns n (spec §4.6, §5).
func (r *Runtime) settlePendingNode(n *Node, tok *Token, v any, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n.kind != StatePending || n.token != tok {
		return // superseded: discard (spec §4.6)
	}

	if err != nil {
		r.applyOutcome(n, Outcome{Kind: OutcomeErrored, Err: &CellError{Kind: PromiseRejected, Cause: err}}, false)
		return
	}
	r.applyOutcome(n, Outcome{Kind: OutcomeReady, Value: v}, false)
}
