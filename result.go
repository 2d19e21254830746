package cell

import "github.com/AnatoleLucet/cell/internal"

// outcomeKind mirrors internal.OutcomeKind at the typed façade.
type outcomeKind uint8

const (
	outcomeReady outcomeKind = iota
	outcomePending
	outcomeErrored
	outcomeAdopt
)

// Outcome[T] is what a Computed cell's compute function returns: one of
// the four write-protocol categories of spec §4.2, typed to T.
type Outcome[T any] struct {
	kind  outcomeKind
	value T
	token *Token[T]
	err   error
	adopt *Cell[T]
}

// Ready builds a Ready(v) outcome.
func Ready[T any](v T) Outcome[T] { return Outcome[T]{kind: outcomeReady, value: v} }

// Pending builds a Pending(tok) outcome, adopting tok's eventual
// settlement as this cell's own (spec §4.2 case 3).
func Pending[T any](tok *Token[T]) Outcome[T] { return Outcome[T]{kind: outcomePending, token: tok} }

// Errored builds an Errored(err) outcome.
func Errored[T any](err error) Outcome[T] { return Outcome[T]{kind: outcomeErrored, err: err} }

// Adopt builds an outcome that mirrors another cell's current state
// category as a one-time snapshot (spec §4.3 "Returning another cell").
func Adopt[T any](other *Cell[T]) Outcome[T] { return Outcome[T]{kind: outcomeAdopt, adopt: other} }

func o2i[T any](o Outcome[T]) internal.Outcome {
	switch o.kind {
	case outcomePending:
		return internal.Outcome{Kind: internal.OutcomePending, Token: o.token.tok}
	case outcomeErrored:
		return internal.Outcome{Kind: internal.OutcomeErrored, Err: &internal.CellError{Kind: internal.ComputationReturnedError, Cause: o.err}}
	case outcomeAdopt:
		return internal.Outcome{Kind: internal.OutcomeAdopt, Adopt: o.adopt.node}
	default:
		return internal.Outcome{Kind: internal.OutcomeReady, Value: o.value}
	}
}

// Handle[T] is passed to a Computed cell's compute function: it exposes
// the resume-after-suspension capability of spec §4.3/§4.4 and a
// diagnostic hint about what triggered this recomputation.
type Handle[T any] struct {
	inner *internal.Handle
	rt    *internal.Runtime
}

// Resume re-enters h's cell as the current evaluation context for the
// duration of fn - used after an asynchronous suspension to track reads
// performed once the host resumes the computation (spec §4.3, §9).
func (h *Handle[T]) Resume(fn func()) { h.inner.Resume(fn) }

// Cause names the cell whose write triggered this recomputation, if the
// scheduler recorded one. Diagnostics only (spec §4.4).
func (h *Handle[T]) Cause() (name string, ok bool) {
	n, ok := h.inner.Cause()
	if !ok {
		return "", false
	}
	return n.Name(), true
}
