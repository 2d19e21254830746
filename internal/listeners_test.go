package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubscribeAndNotify(t *testing.T) {
	n := NewRuntime().NewStaticNode(0, 0)

	var got any
	calls := 0
	n.Subscribe(func(prev any) {
		calls++
		got = prev
	})

	n.notifyAll("previous", nil)

	assert.Equal(t, 1, calls)
	assert.Equal(t, "previous", got)
}

func TestUnsubscribeStopsNotifications(t *testing.T) {
	n := NewRuntime().NewStaticNode(0, 0)

	calls := 0
	idx := n.Subscribe(func(any) { calls++ })
	n.Unsubscribe(idx)

	n.notifyAll(nil, nil)

	assert.Equal(t, 0, calls)
}

func TestUnsubscribeIsNoOpIfAlreadyRemoved(t *testing.T) {
	n := NewRuntime().NewStaticNode(0, 0)

	idx := n.Subscribe(func(any) {})
	n.Unsubscribe(idx)

	assert.NotPanics(t, func() { n.Unsubscribe(idx) })
}

func TestNotifyAllRecoversListenerPanic(t *testing.T) {
	n := NewRuntime().NewStaticNode(0, 0)

	n.Subscribe(func(any) { panic("boom") })

	afterCalls := 0
	n.Subscribe(func(any) { afterCalls++ })

	var reported CellError
	sinkCalls := 0
	n.notifyAll(nil, func(e CellError) {
		sinkCalls++
		reported = e
	})

	assert.Equal(t, 1, sinkCalls)
	assert.Equal(t, ListenerThrew, reported.Kind)
	assert.Equal(t, 1, afterCalls, "a panicking listener must not stop the rest of the round")
}

func TestHasListenersTransitiveDirect(t *testing.T) {
	n := NewRuntime().NewStaticNode(0, 0)
	assert.False(t, n.HasListenersTransitive())

	n.Subscribe(func(any) {})
	assert.True(t, n.HasListenersTransitive())
}

func TestHasListenersTransitiveThroughDependent(t *testing.T) {
	rt := NewRuntime()
	src := rt.NewStaticNode(1, 0)
	dep := rt.NewStaticNode(0, 0)

	trackRead(dep, src, ModeValue)
	assert.False(t, src.HasListenersTransitive())

	dep.Subscribe(func(any) {})
	assert.True(t, src.HasListenersTransitive(), "a listener on a dependent must count as transitive for its sources")
}

func TestHasListenersTransitiveCacheInvalidatesOnUnsubscribe(t *testing.T) {
	n := NewRuntime().NewStaticNode(0, 0)

	idx := n.Subscribe(func(any) {})
	assert.True(t, n.HasListenersTransitive())

	n.Unsubscribe(idx)
	assert.False(t, n.HasListenersTransitive())
}

func TestWeakListenerDroppedWhenTargetNotAlive(t *testing.T) {
	n := NewRuntime().NewStaticNode(0, 0)

	calls := 0
	n.SubscribeWeak(&WeakListener{
		Alive: func() bool { return false },
		Call:  func(any) { calls++ },
	})

	n.notifyAll(nil, nil)
	assert.Equal(t, 0, calls)
	assert.False(t, n.hasListeners())
}

func TestWeakListenerFiresWhileAlive(t *testing.T) {
	n := NewRuntime().NewStaticNode(0, 0)

	alive := true
	calls := 0
	n.SubscribeWeak(&WeakListener{
		Alive: func() bool { return alive },
		Call:  func(any) { calls++ },
	})

	n.notifyAll(nil, nil)
	assert.Equal(t, 1, calls)

	alive = false
	n.notifyAll(nil, nil)
	assert.Equal(t, 1, calls, "once the holder is gone the listener must not fire again")
}
