// Package cell is a general-purpose reactive value graph: Cell[T] holds
// a value in one of three states (Ready, Pending, Errored), Computed
// cells derive their state from others, and listeners are notified
// whenever a cell's observed state changes. It follows the split
// AnatoleLucet/sig uses - a generic façade (cell.Cell[T]) over an
// untyped engine (internal.Node) - generalized from plain signals to
// the three-state value model.
package cell
