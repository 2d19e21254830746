package projection

import "github.com/AnatoleLucet/cell"

// MutateProxy is the in-place-mutation collaborator of spec §6: a proxy
// over a cell holding a mutable container, whose method calls forward to
// the container and force a Value change on the parent cell without a
// DeepEq comparison (a method call already happened; there is no new
// value to compare, only an assertion that something changed).
type MutateProxy[P any] struct {
	parent *cell.Cell[P]
}

// Mutate builds a MutateProxy over parent.
func Mutate[P any](parent *cell.Cell[P]) *MutateProxy[P] {
	return &MutateProxy[P]{parent: parent}
}

// Call invokes fn with the container's current value and forces a Value
// change on the parent once fn returns (spec §6: "on return... emit a
// forced Value change on the cell without DeepEq").
func (m *MutateProxy[P]) Call(fn func(P)) {
	pv := m.parent.Value()
	fn(pv)
	m.parent.SetForced(pv)
}

// CallPending is Call for an asynchronous mutation: fn performs the
// mutation and returns a token. The parent is forced-updated only once
// that token resolves; a rejected token emits no change at all (spec §6:
// "A rejected Pending emits no change").
func (m *MutateProxy[P]) CallPending(fn func(P) *cell.Token[struct{}]) {
	pv := m.parent.Value()
	tok := fn(pv)
	tok.OnSettle(func(_ struct{}, err error) {
		if err != nil {
			return
		}
		m.parent.SetForced(pv)
	})
}
