//go:build wasm

package internal

import "sync"

var once sync.Once
var globalRuntime *Runtime

// CurrentRuntime on wasm (single-threaded, no real goroutine concurrency
// to isolate) just returns one process-wide Runtime, matching
// AnatoleLucet/sig's internal/runtime_wasm.go.
func CurrentRuntime() *Runtime {
	once.Do(func() {
		globalRuntime = NewRuntime()
	})

	return globalRuntime
}
