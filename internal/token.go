package internal

import "sync"

// Token is the opaque identity of one in-flight asynchronous computation
// (spec §3, §4.6). Resolution/rejection that arrives after the owning
// node has moved on to a different token is discarded by identity, not
// by timing.
type Token struct {
	mu       sync.Mutex
	id       uint64
	settled  bool
	err      error
	value    any
	isErr    bool
	watchers []func(value any, err error)
	node     *Node // the node currently adopting this token, if any
}

// NewToken creates a fresh pending token not yet attached to any node.
func NewToken() *Token {
	return &Token{id: nextID.Add(1)}
}

func (t *Token) attach(n *Node) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.node = n
}

// Resolve settles the token successfully. Resolution may arrive on any
// goroutine; settlement is applied to the owning node, if any, through
// the node's Runtime mutex so that a superseded token's resolution can
// never race with the node that superseded it (spec §4.6, §5).
func (t *Token) Resolve(v any) { t.settle(v, nil) }

// Reject settles the token with an error (spec §4.2 case 3, §4.6).
func (t *Token) Reject(err error) { t.settle(nil, err) }

func (t *Token) settle(v any, err error) {
	t.mu.Lock()
	if t.settled {
		t.mu.Unlock()
		return
	}
	t.settled = true
	t.value = v
	t.err = err
	t.isErr = err != nil
	watchers := t.watchers
	t.watchers = nil
	node := t.node
	t.mu.Unlock()

	for _, w := range watchers {
		w(v, err)
	}

	if node != nil {
		node.rt.settlePendingNode(node, t, v, err)
	}
}

// OnSettle registers fn to run once the token settles; if already
// settled, fn runs synchronously (reentrantly) right away.
func (t *Token) OnSettle(fn func(value any, err error)) {
	t.mu.Lock()
	if t.settled {
		v, err := t.value, t.err
		t.mu.Unlock()
		fn(v, err)
		return
	}
	t.watchers = append(t.watchers, fn)
	t.mu.Unlock()
}

// Settled reports whether the token has resolved or rejected.
func (t *Token) Settled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.settled
}

// snapshotIfSettled returns t's settled value/error if t had already
// settled by the time something adopted it as Pending. applyOutcome uses
// this so that writing (or recomputing into) an already-resolved token
// behaves like adopting its resolved value directly rather than parking
// the cell in Pending forever - the settlement event already happened
// and will not fire a second time once consumed here.
func (t *Token) snapshotIfSettled() (value any, err error, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.settled {
		return nil, nil, false
	}
	return t.value, t.err, true
}
