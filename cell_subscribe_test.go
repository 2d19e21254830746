package cell

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubscribeReceivesPreviousObservedValue(t *testing.T) {
	a := NewCell(1)

	var got int
	a.Subscribe(func(prev int) { got = prev })

	a.Set(2)
	assert.Equal(t, 1, got)

	a.Set(3)
	assert.Equal(t, 2, got)
}

func TestUnsubscribeStopsFutureNotifications(t *testing.T) {
	a := NewCell(1)

	calls := 0
	sub := a.Subscribe(func(prev int) { calls++ })
	a.Set(2)
	assert.Equal(t, 1, calls)

	Unsubscribe(sub)
	a.Set(3)
	assert.Equal(t, 1, calls, "no further notifications after Unsubscribe")
}

func TestSubscribeOnStaleComputedForcesBaseline(t *testing.T) {
	a := NewCell(10)
	c := NewComputedCell(func(h *Handle[int]) Outcome[int] {
		return Ready(a.Value() * 2)
	})

	calls := 0
	c.Subscribe(func(prev int) { calls++ })

	a.Set(11)
	assert.Equal(t, 22, c.Value())
	assert.Equal(t, 1, calls)
}

type holder struct{ tag string }

func TestSubscribeWeakStopsAfterHolderCollected(t *testing.T) {
	a := NewCell(1)

	calls := 0
	func() {
		h := &holder{tag: "x"}
		SubscribeWeak(a, h, func(prev int) { calls++ })
		a.Set(2)
	}()
	assert.Equal(t, 1, calls)

	runtime.GC()
	runtime.GC()

	a.Set(3)
	assert.LessOrEqual(t, calls, 2, "a weak listener must eventually stop firing once its holder is unreachable")
}
