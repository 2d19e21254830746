package cell

import "github.com/AnatoleLucet/cell/internal"

// Batch implements spec §4.4's batch(f): every write performed inside fn
// defers recomputation and notification until fn returns, so a listener
// observing several writes to cells it depends on in the same batch is
// invoked at most once (scenario B). Batches nest: flushing only happens
// once the outermost Batch call returns.
func Batch(fn func()) {
	rt := internal.CurrentRuntime()
	rt.BeginBatch()
	defer rt.EndBatch()
	fn()
}

// ExtendUntil keeps the open Batch (and every Batch enclosing it) from
// flushing until tok settles (spec §4.4: "If f returns a Pending token, the batch is
// extended until that token resolves"). Call it from inside the fn
// passed to Batch, before Batch's own EndBatch runs - e.g. when fn kicks
// off an asynchronous write and wants the batch to cover its eventual
// settlement too.
func ExtendUntil[T any](tok *Token[T]) {
	internal.CurrentRuntime().ExtendBatchUntil(tok.tok)
}
