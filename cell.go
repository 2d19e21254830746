package cell

import (
	"github.com/AnatoleLucet/cell/internal"
)

func as[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}
	return v.(T)
}

// Cell[T] is a typed handle onto one internal.Node. It carries no state
// of its own beyond the node pointer and the owning runtime; every
// operation is forwarded to the untyped engine.
type Cell[T any] struct {
	node *internal.Node
	rt   *internal.Runtime
}

// Options configures a Computed cell at construction (spec §4.1's
// optional capabilities: a setter for reverse-writes, a canceller for
// outstanding pending tokens, and an explicit default used while the
// cell has never been Ready).
type Options[T any] struct {
	Default   T
	Setter    func(T) error
	Canceller func(*Token[T])
}

// Option mutates an Options[T] under construction, following the
// functional-options shape coregx-signals uses for signal construction.
type Option[T any] func(*Options[T])

// WithDefault sets the value returned by read-value/read-default before
// the cell has ever been Ready, by Pending cells that have never had a
// Ready value, and by Errored cells.
func WithDefault[T any](v T) Option[T] {
	return func(o *Options[T]) { o.Default = v }
}

// WithSetter installs a setter, making a Computed cell writable (spec
// §4.2 "Setter semantics").
func WithSetter[T any](fn func(T) error) Option[T] {
	return func(o *Options[T]) { o.Setter = fn }
}

// WithCanceller installs a canceller, invoked whenever an outstanding
// pending token on this cell is superseded before settling (spec §4.6).
func WithCanceller[T any](fn func(*Token[T])) Option[T] {
	return func(o *Options[T]) { o.Canceller = fn }
}

// NewCell creates a plain Ready(initial) cell with no computation,
// the three-state equivalent of sig.NewSignal.
func NewCell[T any](initial T) *Cell[T] {
	rt := internal.CurrentRuntime()
	var zero T
	return &Cell[T]{node: rt.NewStaticNode(initial, zero), rt: rt}
}

// NewCellWithDefault is NewCell with an explicit default distinct from
// the zero value.
func NewCellWithDefault[T any](initial, def T) *Cell[T] {
	rt := internal.CurrentRuntime()
	return &Cell[T]{node: rt.NewStaticNode(initial, def), rt: rt}
}

// NewPendingCell creates a cell that starts life Pending on tok.
func NewPendingCell[T any](tok *Token[T], opts ...Option[T]) *Cell[T] {
	o := resolveOptions(opts)
	rt := internal.CurrentRuntime()
	return &Cell[T]{node: rt.NewPendingNode(tok.tok, o.Default), rt: rt}
}

// NewErrorCell creates a cell that starts life Errored(err).
func NewErrorCell[T any](err error, opts ...Option[T]) *Cell[T] {
	o := resolveOptions(opts)
	rt := internal.CurrentRuntime()
	return &Cell[T]{node: rt.NewErroredNode(err, o.Default), rt: rt}
}

// NewComputedCell creates a Computed cell (spec §4.1): compute runs
// lazily, only when the cell is Stale and either read directly or has
// at least one direct-or-transitive listener.
func NewComputedCell[T any](compute func(h *Handle[T]) Outcome[T], opts ...Option[T]) *Cell[T] {
	o := resolveOptions(opts)
	rt := internal.CurrentRuntime()

	var setter func(any) error
	if o.Setter != nil {
		setter = func(v any) error { return o.Setter(as[T](v)) }
	}

	c := &Cell[T]{rt: rt}

	var canceller func(*internal.Token)
	if o.Canceller != nil {
		canceller = func(t *internal.Token) { o.Canceller(&Token[T]{tok: t}) }
	}

	c.node = rt.NewComputedNode(func(ih *internal.Handle) internal.Outcome {
		h := &Handle[T]{inner: ih, rt: rt}
		return o2i(compute(h))
	}, o.Default, setter, canceller)

	return c
}

func resolveOptions[T any](opts []Option[T]) Options[T] {
	var o Options[T]
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Name attaches a diagnostic label, surfaced in CircularDependency
// errors and by Handle.Cause.
func (c *Cell[T]) Name(name string) *Cell[T] {
	c.node.SetName(name)
	return c
}
