package cell

// Value implements spec §4.1's read-value: forces recomputation if this
// is a Stale Computed cell, tracks a Value edge if called from within
// another cell's computation, and returns the observed value (Default
// while Errored; while Pending, the last Ready value, or Default if there
// was none).
func (c *Cell[T]) Value() T {
	v, _ := c.rt.ReadValue(c.node)
	return as[T](v)
}

// Pending implements read-pending: the token of the cell's current
// in-flight computation, if any.
func (c *Cell[T]) Pending() (*Token[T], bool) {
	tok, ok := c.rt.ReadPending(c.node)
	if !ok {
		return nil, false
	}
	return &Token[T]{tok: tok}, true
}

// ReadError implements read-error: the cell's current error, if Errored.
func (c *Cell[T]) ReadError() (error, bool) {
	return c.rt.ReadError(c.node)
}

// Default implements read-default: the construction default, never
// forcing recomputation or tracking a dependency.
func (c *Cell[T]) Default() T {
	return as[T](c.node.Default())
}

// ID returns the cell's stable construction-order identity, usable as a
// map key (e.g. by the diagnostic sink or a caller's own bookkeeping).
func (c *Cell[T]) ID() uint64 { return c.node.ID() }
