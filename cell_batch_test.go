package cell

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBatchCoalescesMultipleWritesIntoOneNotification(t *testing.T) {
	a := NewCell(1)
	b := NewCell(2)
	c := NewComputedCell(func(h *Handle[int]) Outcome[int] {
		return Ready(a.Value() + b.Value())
	})
	calls := 0
	c.Subscribe(func(prev int) { calls++ })

	Batch(func() {
		a.Set(10)
		b.Set(20)
	})

	assert.Equal(t, 1, calls)
	assert.Equal(t, 30, c.Value())
}

func TestNestedBatchesFlushOnlyOnOutermostExit(t *testing.T) {
	a := NewCell(1)
	calls := 0
	a.Subscribe(func(prev int) { calls++ })

	Batch(func() {
		a.Set(2)
		Batch(func() {
			a.Set(3)
		})
		assert.Equal(t, 0, calls, "nested batch exit must not flush the outer batch")
	})

	assert.Equal(t, 1, calls)
	assert.Equal(t, 3, a.Value())
}

func TestExtendUntilKeepsBatchOpenUntilTokenSettles(t *testing.T) {
	a := NewCell(0)
	calls := 0
	a.Subscribe(func(prev int) { calls++ })

	tok, resolve, _ := NewToken[int]()
	Batch(func() {
		a.Set(1)
		ExtendUntil(tok)
	})
	assert.Equal(t, 0, calls, "an extended batch must not flush before its token settles")

	resolve(99)
	assert.Equal(t, 1, calls)
}
