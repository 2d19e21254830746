package projection

import "github.com/AnatoleLucet/cell"

// Arg marks a method-projection argument as a cell reference rather than
// a plain value, so Method knows to read (and track) it on every call
// instead of passing it through as a literal.
type Arg interface {
	resolve() any
}

type cellArg struct{ read func() any }

func (c cellArg) resolve() any { return c.read() }

// CellArg wraps a cell so it can be passed to Method as a dependency
// rather than a literal argument. Unwrapped lazily - on every call, not
// once at projection time (spec §9 Open Question 3) - so the projected
// cell re-tracks it, and re-runs call, whenever it changes.
func CellArg[T any](c *cell.Cell[T]) Arg {
	return cellArg{read: func() any { return c.Value() }}
}

// Method lifts a call to one of parent's value's methods onto its own
// derived cell (spec §6 "method-projection collaborator"). Each argument
// in args is either a plain value, passed through unchanged, or an Arg
// built with CellArg, read (and tracked as a dependency) fresh on every
// recomputation. call receives the parent's current value and the
// resolved argument list and performs the actual invocation - reflection
// over arbitrary method signatures is left to the caller's call closure,
// since Go's type system cannot express "a method with this parameter
// list" generically.
func Method[P, R any](parent *cell.Cell[P], call func(P, []any) (R, error), args ...any) *cell.Cell[R] {
	return cell.NewComputedCell(func(h *cell.Handle[R]) cell.Outcome[R] {
		if err, ok := parent.ReadError(); ok {
			return cell.Errored[R](err)
		}
		if _, pending := parent.Pending(); pending {
			return cell.Pending(pendingPlaceholder[R]())
		}

		pv := parent.Value()
		resolved := make([]any, len(args))
		for i, a := range args {
			if ca, ok := a.(Arg); ok {
				resolved[i] = ca.resolve()
			} else {
				resolved[i] = a
			}
		}

		r, err := call(pv, resolved)
		if err != nil {
			return cell.Errored[R](err)
		}
		return cell.Ready(r)
	})
}
