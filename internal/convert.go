package internal

// InstallConverter implements spec §4.2's install-converter: atomically
// (a) captures n's current Ready-or-Pending value into a hidden backing
// node, (b) replaces n's computation with one that reads the backing
// node and applies conv, (c) installs a setter that writes straight to
// the backing node. After install, n is decoupled from whatever sources
// its old computation read. A Stale Computed n is recomputed first, so
// the captured value is its current one rather than a cached default.
//
// If n is currently Errored, the error propagates through unchanged
// (spec §9 Open Question 2, resolved in DESIGN.md): there is no
// Ready-or-Pending value to capture, so the converter has nothing to
// run against and n simply stays Errored until the next successful
// write.
func (r *Runtime) InstallConverter(n *Node, conv func(any) Outcome) {
	r.EnsureFresh(n)
	if n.kind == StateErrored {
		return
	}

	captured := n.observedValue()
	backing := r.NewStaticNode(captured, n.def)

	n.backing = backing
	n.isConverter = true
	n.canceller = nil
	n.setter = func(v any) error {
		r.WriteValue(backing, v, false)
		return nil
	}
	n.compute = func(h *Handle) Outcome {
		v, _ := h.rt.ReadValue(backing)
		return conv(v)
	}
	n.freshness = Stale

	if n.HasListenersTransitive() {
		r.Recompute(n)
	}
}

// ClearConverter implements clear-converter: the last computed value is
// frozen in place as a Static cell; the hidden backing node and the
// setter/compute pair installed by InstallConverter are dropped.
func (r *Runtime) ClearConverter(n *Node) {
	if !n.isConverter {
		return
	}

	r.EnsureFresh(n)

	n.compute = nil
	n.setter = nil
	n.backing = nil
	n.isConverter = false
	n.freshness = Fresh
}

// NewPendingFlagNode builds the derived boolean cell of spec §4.1's
// pending-flag-cell: a Computed node that reads src in Pending mode and
// is always Ready with the boolean observed.
func (r *Runtime) NewPendingFlagNode(src *Node) *Node {
	return r.NewComputedNode(func(h *Handle) Outcome {
		_, pending := h.rt.ReadPending(src)
		return Outcome{Kind: OutcomeReady, Value: pending}
	}, false, nil, nil)
}

// NewErrorViewNode builds the derived cell of spec §4.1's
// error-view-cell: reads src in Error mode and is always Ready with the
// observed error (or nil), never transitioning to Errored itself.
func (r *Runtime) NewErrorViewNode(src *Node) *Node {
	n := r.NewComputedNode(func(h *Handle) Outcome {
		err, _ := h.rt.ReadError(src)
		return Outcome{Kind: OutcomeReady, Value: err}
	}, error(nil), nil, nil)
	n.isErrorView = true
	return n
}

// NewConvertedNode builds the Cell<R> of spec §4.1's convert(f, default?):
// a Computed node mirroring src's Ready/Pending/Errored category through
// conv. While src is Pending the converted node is Pending on a token of
// its own (src keeps its token, so its settlement still reaches src) and
// is recomputed through its dependency edge once src settles.
func (r *Runtime) NewConvertedNode(src *Node, conv func(any) Outcome, def any) *Node {
	return r.NewComputedNode(func(h *Handle) Outcome {
		v, err := h.rt.ReadValue(src)
		if err != nil {
			return Outcome{Kind: OutcomeErrored, Err: err}
		}
		if _, pending := h.rt.ReadPending(src); pending {
			return Outcome{Kind: OutcomePending, Token: NewToken()}
		}
		if srcErr, errored := h.rt.ReadError(src); errored {
			return Outcome{Kind: OutcomeErrored, Err: srcErr}
		}
		return conv(v)
	}, def, nil, nil)
}
