package cell

import (
	"weak"

	"github.com/AnatoleLucet/cell/internal"
)

// Subscription identifies one registered listener, returned by Subscribe
// / SubscribeWeak and consumed by Unsubscribe.
type Subscription struct {
	node *internal.Node
	idx  int
}

// Subscribe registers fn, strongly held, to be called with the cell's
// previous observed value on every change (spec §4.1 subscribe).
// Subscribe does not deduplicate: every call adds a separate
// registration, so subscribing the same callback twice makes it run
// twice per change, and each registration has its own Subscription.
//
// Attaching a listener to a Stale Computed cell forces an immediate
// recomputation first, so the first notification has a well-defined
// baseline (spec §4.1 "Lazy-with-subscribers").
func (c *Cell[T]) Subscribe(fn func(prev T)) Subscription {
	idx := c.node.Subscribe(func(prev any) { fn(as[T](prev)) })
	return Subscription{node: c.node, idx: idx}
}

// SubscribeWeak registers fn to run only as long as holder is reachable
// by some other strong reference; once holder is collected, the entry is
// dropped on the next traversal over the cell's listener list and the
// cell behaves as if Unsubscribe had been called (spec §3 "Lifecycles",
// §4.5 "Weak listener cleanup"). H is typically the object whose
// lifetime should gate fn's subscription (e.g. a UI component).
func SubscribeWeak[T, H any](c *Cell[T], holder *H, fn func(prev T)) Subscription {
	wp := weak.Make(holder)
	idx := c.node.SubscribeWeak(&internal.WeakListener{
		Alive: func() bool { return wp.Value() != nil },
		Call:  func(prev any) { fn(as[T](prev)) },
	})
	return Subscription{node: c.node, idx: idx}
}

// Unsubscribe removes a registration obtained from Subscribe or
// SubscribeWeak. A no-op if it was already removed (spec §4.1/§8).
func Unsubscribe(sub Subscription) {
	sub.node.Unsubscribe(sub.idx)
}
