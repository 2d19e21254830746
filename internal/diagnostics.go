package internal

import (
	"log"
	"sync/atomic"
)

// sink is the package-level, replaceable diagnostic sink of spec §6: a
// single global rather than one per Runtime, since a goroutine-scoped
// Runtime (runtime_default.go) is an implementation detail a caller of
// SetSink should not need to know about.
var sink atomic.Pointer[func(CellError)]

func init() {
	var fn func(CellError) = logListenerError
	sink.Store(&fn)
}

// SetSink installs a replaceable diagnostic sink (spec §6 Diagnostics,
// §4.4/§7's ListenerThrew handling). A nil fn restores the default.
func SetSink(fn func(CellError)) {
	if fn == nil {
		fn = logListenerError
	}
	sink.Store(&fn)
}

func currentSink() func(CellError) {
	return *sink.Load()
}

// logListenerError is the default diagnostic sink: listener panics never
// propagate to the writer that triggered them, so without an explicit
// sink they would vanish silently. The default writes them through the
// standard log package, same as AnatoleLucet/sig's default effect-error
// handler.
func logListenerError(e CellError) {
	log.Printf("cell: listener error: %v", &e)
}
