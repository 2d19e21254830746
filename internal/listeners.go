package internal

import "sync/atomic"

// listenerVersion is bumped on any subscription change anywhere in the
// runtime and used to invalidate every node's cached has-listeners
// answer (spec §4.5).
var listenerVersion atomic.Uint64

func (n *Node) bumpListenerVersion() {
	listenerVersion.Add(1)
}

// ListenerEntry is either a strongly held callback, or a weak holder
// descriptor. The weak.Pointer itself is built by the generic cell
// package (it knows the holder's concrete type); the engine only ever
// sees the two closures it needs: whether the holder is still alive, and
// how to invoke the callback.
type listenerEntry struct {
	strong func(prev any)
	weak   *WeakListener
}

// WeakListener is the opaque, engine-side view of a weakly held
// listener: Alive reports whether the held target still exists, Call
// invokes the callback (only ever called while Alive is true).
type WeakListener struct {
	Alive func() bool
	Call  func(prev any)
}

// Subscribe registers fn to be called (strong reference) with the
// previous observed value on every change. Registrations are not
// deduplicated, here or in cell.Cell (Go cannot compare func values):
// every call appends a new entry and returns its index, so registering
// the same callback twice makes it run twice per notification.
func (n *Node) Subscribe(fn func(prev any)) int {
	n.ensureFreshForListener()
	idx := len(n.listeners)
	n.listeners = append(n.listeners, listenerEntry{strong: fn})
	n.bumpListenerVersion()
	return idx
}

// SubscribeWeak registers a weakly held listener descriptor built by the
// caller (see WeakListener). If the target is collected, the entry is
// dropped on the next traversal.
func (n *Node) SubscribeWeak(l *WeakListener) int {
	n.ensureFreshForListener()
	idx := len(n.listeners)
	n.listeners = append(n.listeners, listenerEntry{weak: l})
	n.bumpListenerVersion()
	return idx
}

// Unsubscribe removes at most one registration, by index as returned
// from Subscribe/SubscribeWeak. A no-op if already removed.
func (n *Node) Unsubscribe(idx int) {
	if idx < 0 || idx >= len(n.listeners) {
		return
	}
	if n.listeners[idx].strong == nil && n.listeners[idx].weak == nil {
		return
	}
	n.listeners[idx] = listenerEntry{}
	n.bumpListenerVersion()
}

// notifyAll invokes every live listener with prev, pruning collected weak
// targets as it goes. Panics are recovered and reported to sink; a
// listener is expected to have already been deduped to "once per flush
// round" by the scheduler before this is called.
func (n *Node) notifyAll(prev any, sink func(CellError)) {
	for i := range n.listeners {
		e := n.listeners[i]
		switch {
		case e.strong != nil:
			callListener(func() { e.strong(prev) }, sink)
		case e.weak != nil:
			if !e.weak.Alive() {
				n.listeners[i] = listenerEntry{}
				n.bumpListenerVersion()
				continue
			}
			callListener(func() { e.weak.Call(prev) }, sink)
		}
	}
}

func callListener(fn func(), sink func(CellError)) {
	defer func() {
		if r := recover(); r != nil {
			if sink != nil {
				sink(newListenerThrew(r))
			}
		}
	}()
	fn()
}

// hasListeners reports whether n has at least one live listener directly.
func (n *Node) hasListeners() bool {
	for i := range n.listeners {
		e := n.listeners[i]
		if e.strong != nil {
			return true
		}
		if e.weak != nil {
			if e.weak.Alive() {
				return true
			}
			n.listeners[i] = listenerEntry{}
		}
	}
	return false
}

// HasListenersTransitive answers spec §4.5's "has-listeners direct-or-
// transitive" query, memoized against the global listenerVersion.
func (n *Node) HasListenersTransitive() bool {
	v := listenerVersion.Load()
	if n.listenerVersionSeen == v {
		return n.listenerCachePositive
	}

	positive := n.hasListeners()
	if !positive {
		n.liveIncoming(func(dep *Node, _ Mode) bool {
			if dep.HasListenersTransitive() {
				positive = true
				return false
			}
			return true
		})
	}

	n.listenerVersionSeen = v
	n.listenerCachePositive = positive
	return positive
}

// ensureFreshForListener forces a recomputation before a listener
// attaches to a Stale Computed cell, giving notifications a well-defined
// baseline (spec §4.1 "Lazy-with-subscribers").
func (n *Node) ensureFreshForListener() {
	if n.compute != nil && n.freshness == Stale {
		n.rt.Recompute(n)
	}
}
