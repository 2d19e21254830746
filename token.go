package cell

import "github.com/AnatoleLucet/cell/internal"

// Token[T] is the typed public face of an in-flight asynchronous
// computation (spec §3, §4.6): an opaque identity that a cell adopts via
// Pending(tok) / SetPending, later settled exactly once by the resolve
// or reject function NewToken returns.
type Token[T any] struct {
	tok *internal.Token
}

// NewToken creates a fresh, unsettled token together with its resolve and
// reject functions - the same three-value shape as context.WithCancel,
// chosen because settlement must be able to reach an internal watcher
// (the node currently adopting the token) even after the goroutine that
// created the token has moved on (spec §4.6, §5).
func NewToken[T any]() (tok *Token[T], resolve func(T), reject func(error)) {
	t := internal.NewToken()
	tok = &Token[T]{tok: t}
	resolve = func(v T) { t.Resolve(v) }
	reject = func(err error) { t.Reject(err) }
	return tok, resolve, reject
}

// Settled reports whether the token has resolved or rejected.
func (t *Token[T]) Settled() bool { return t.tok.Settled() }

// OnSettle registers fn to run once t settles, with the resolved value
// (or the zero value, on rejection) and the rejection error, if any. If t
// has already settled, fn runs synchronously and reentrantly right away.
func (t *Token[T]) OnSettle(fn func(v T, err error)) {
	t.tok.OnSettle(func(v any, err error) { fn(as[T](v), err) })
}
