package cell

import "github.com/AnatoleLucet/cell/internal"

// InstallConverter implements spec §4.2's install-converter: the cell's
// current Ready-or-Pending value is captured into a hidden backing cell,
// the cell's computation is replaced by one that reads the backing cell
// and applies conv, and a setter that writes straight to the backing
// cell is installed - decoupling the cell from whatever sources its old
// computation read. Installing on an Errored cell is a no-op: the error
// propagates through unchanged until the next successful write (spec §9
// Open Question 2, resolved in DESIGN.md).
func (c *Cell[T]) InstallConverter(conv func(T) Outcome[T]) {
	c.rt.InstallConverter(c.node, func(v any) internal.Outcome {
		return o2i(conv(as[T](v)))
	})
}

// ClearConverter implements clear-converter: the cell's last computed
// value is frozen in place as a Static cell and the converter/backing
// cell installed by InstallConverter is torn down.
func (c *Cell[T]) ClearConverter() {
	c.rt.ClearConverter(c.node)
}

// Convert builds a new Cell[R] that mirrors src's Ready/Pending/Errored
// state category through fn (spec §4.1 convert(f, default?)). Because Go
// methods cannot introduce a new type parameter, this is a free function
// rather than a method on Cell[T].
func Convert[T, R any](src *Cell[T], fn func(T) Outcome[R], def R) *Cell[R] {
	node := src.rt.NewConvertedNode(src.node, func(v any) internal.Outcome {
		return o2i(fn(as[T](v)))
	}, def)
	return &Cell[R]{node: node, rt: src.rt}
}

// PendingFlagCell builds a derived boolean cell that tracks whether c is
// currently Pending (spec §4.1 pending-flag-cell). When the flag cell
// recomputes it brings c up to date first, recomputing c only if c is
// Stale; a Fresh c is not recomputed.
func (c *Cell[T]) PendingFlagCell() *Cell[bool] {
	return &Cell[bool]{node: c.rt.NewPendingFlagNode(c.node), rt: c.rt}
}

// ErrorViewCell builds a derived cell that observes c's error as a
// value: it is Ready(nil) while c has no error and Ready(err) while c is
// Errored, and never enters Errored itself (spec §3, §4.1
// error-view-cell).
func (c *Cell[T]) ErrorViewCell() *Cell[error] {
	return &Cell[error]{node: c.rt.NewErrorViewNode(c.node), rt: c.rt}
}
