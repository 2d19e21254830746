// Package projection implements the three external collaborators spec.md
// §6 describes as out of the reactivity engine's core but required
// ("reachable via their interfaces"): lifting a struct field, a method
// call, and an in-place container mutation onto derived cells. None of
// these need engine-internal access - they are ordinary consumers of the
// cell package's public API, the same way an application would build
// them.
package projection

import (
	"github.com/AnatoleLucet/cell"
	"github.com/AnatoleLucet/cell/deepequal"
)

// Field lifts one field of parent's record value onto its own derived
// cell (spec §6 "field-projection collaborator"). get extracts the field,
// returning ok=false if an intermediate record is missing - the derived
// cell then reads as the zero value of F rather than erroring (spec:
// "Missing intermediate records yield 'missing' without error"). set
// returns a copy of the parent record with the field replaced; writing
// the derived cell is a no-op if the new value is DeepEq to the current
// one, otherwise it replaces the parent's value and forces a Value
// change on the parent (not gated by DeepEq on the parent's own type,
// since the caller has already determined the field changed).
func Field[P, F any](parent *cell.Cell[P], get func(P) (F, bool), set func(P, F) P) *cell.Cell[F] {
	var zero F

	derived := cell.NewComputedCell(func(h *cell.Handle[F]) cell.Outcome[F] {
		if err, ok := parent.ReadError(); ok {
			return cell.Errored[F](err)
		}
		if _, pending := parent.Pending(); pending {
			return cell.Pending(pendingPlaceholder[F]())
		}

		f, ok := get(parent.Value())
		if !ok {
			return cell.Ready(zero)
		}
		return cell.Ready(f)
	}, cell.WithSetter(func(f F) error {
		pv := parent.Value()
		if cur, ok := get(pv); ok && deepequal.Equal(any(cur), any(f)) {
			return nil
		}
		parent.SetForced(set(pv, f))
		return nil
	}))

	return derived
}

// pendingPlaceholder builds a fresh, never-settled token so a projected
// cell can mirror its parent's Pending category (spec §4.3 "Returning
// another cell" generalizes to "reflecting another cell's category" -
// the projected cell's own Pending state is superseded on its very next
// recompute, which the parent's eventual settlement triggers through the
// ordinary dependency-edge propagation, not through this token ever
// resolving).
func pendingPlaceholder[T any]() *cell.Token[T] {
	tok, _, _ := cell.NewToken[T]()
	return tok
}
