//go:build !wasm

package internal

import (
	"sync"

	"github.com/petermattis/goid"
)

var runtimes sync.Map // goroutine id (int64) -> *Runtime

// CurrentRuntime returns the calling goroutine's Runtime, creating one on
// first use. Grounded on AnatoleLucet/sig's internal/runtime_default.go:
// one Runtime per goroutine, keyed by github.com/petermattis/goid, so
// unrelated goroutines never contend on the same evaluation context or
// recompute heap.
func CurrentRuntime() *Runtime {
	gid := goid.Get()

	if r, ok := runtimes.Load(gid); ok {
		return r.(*Runtime)
	}

	r := NewRuntime()
	runtimes.Store(gid, r)
	return r
}
