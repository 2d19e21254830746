package cell

import "github.com/AnatoleLucet/cell/internal"

// Set implements spec §4.2 case 1: a plain-value write. If this cell was
// built with WithSetter, the setter is invoked instead (under an implicit
// batch); otherwise the cell transitions straight to Ready(v), emitting a
// Value change only if DeepEq says v differs from the currently observed
// value. Leaving Pending or Errored also emits a Pending or Error change.
func (c *Cell[T]) Set(v T) {
	c.rt.WriteValue(c.node, v, false)
}

// SetForced is Set, but skips the DeepEq comparison and always emits a
// Value change - the "knownToBeChanged" caller flag of spec §4.1/§4.2,
// used by the projection package's field writer and mutate proxy to
// force a parent cell's notification after an in-place mutation that
// DeepEq cannot see through (a method call already happened, not a value
// assignment).
func (c *Cell[T]) SetForced(v T) {
	c.rt.WriteValue(c.node, v, true)
}

// SetComputed installs compute as this cell's computation (spec §4.2
// case 2): the cell is marked Stale, any previously installed canceller
// is dropped in favor of newCanceller (nil clears it), and the cell
// recomputes immediately if it already has listeners; otherwise
// recomputation is deferred to the next read. Panics with a CellError of
// kind WriteRejected if the cell has a setter (spec: "computed cells with
// setters cannot have their computation overwritten").
func (c *Cell[T]) SetComputed(compute func(h *Handle[T]) Outcome[T], canceller ...func(*Token[T])) {
	var cancel func(*internal.Token)
	if len(canceller) > 0 && canceller[0] != nil {
		cb := canceller[0]
		cancel = func(t *internal.Token) { cb(&Token[T]{tok: t}) }
	}

	err := c.rt.WriteComputed(c.node, func(ih *internal.Handle) internal.Outcome {
		h := &Handle[T]{inner: ih, rt: c.rt}
		return o2i(compute(h))
	}, cancel)
	if err != nil {
		panic(err)
	}
}

// SetPending implements spec §4.2 case 3: adopt tok as this cell's
// in-flight computation. When tok resolves, and only if it is still the
// cell's current token, the cell behaves as Set(v) (or SetError(err) on
// rejection); a superseded token's resolution is discarded (spec §4.6).
func (c *Cell[T]) SetPending(tok *Token[T]) {
	c.rt.WritePending(c.node, tok.tok)
}

// SetError implements spec §4.2 case 4: a plain error write. Writing the
// same kind of error with the same message as the cell's current error
// does not re-emit an Error change (spec: "Same-type/same-message errors
// do not re-emit Error").
func (c *Cell[T]) SetError(err error) {
	c.rt.WriteError(c.node, err)
}
