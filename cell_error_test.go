package cell

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewErrorCellStartsErrored(t *testing.T) {
	boom := errors.New("boom")
	c := NewErrorCell[int](boom, WithDefault(-1))

	err, ok := c.ReadError()
	assert.True(t, ok)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, -1, c.Value())
}

func TestSetErrorTransitionsFromReady(t *testing.T) {
	boom := errors.New("boom")
	c := NewCellWithDefault(1, -1)

	c.SetError(boom)
	_, ok := c.ReadError()
	assert.True(t, ok)
	assert.Equal(t, -1, c.Value())
}

func TestSameErrorDoesNotReemitErrorChange(t *testing.T) {
	c := NewCellWithDefault(1, -1)

	errCalls := 0
	c.Subscribe(func(prev int) { errCalls++ })

	c.SetError(errors.New("boom"))
	assert.Equal(t, 1, errCalls)

	c.SetError(errors.New("boom"))
	assert.Equal(t, 1, errCalls, "same kind/message error must not re-notify")

	c.SetError(errors.New("different"))
	assert.Equal(t, 2, errCalls)
}

func TestWriteAfterErrorClearsIt(t *testing.T) {
	c := NewCellWithDefault(1, -1)
	c.SetError(errors.New("boom"))
	_, ok := c.ReadError()
	assert.True(t, ok)

	c.Set(42)
	_, ok = c.ReadError()
	assert.False(t, ok)
	assert.Equal(t, 42, c.Value())
}

func TestComputationPanicBecomesComputationThrew(t *testing.T) {
	c := NewComputedCell(func(h *Handle[int]) Outcome[int] {
		panic(errors.New("kaboom"))
	}, WithDefault(-1))

	err, ok := c.ReadError()
	assert.True(t, ok)
	var cellErr *CellError
	assert.ErrorAs(t, err, &cellErr)
	assert.Equal(t, ComputationThrew, cellErr.Kind)
	assert.Equal(t, -1, c.Value())
}

func TestSetterThrowInvokesCancellerOfPriorPendingExactlyOnce(t *testing.T) {
	tok, _, _ := NewToken[int]()
	cancelCalls := 0
	c := NewComputedCell(func(h *Handle[int]) Outcome[int] {
		return Pending(tok)
	}, WithDefault(0), WithCanceller(func(*Token[int]) { cancelCalls++ }), WithSetter(func(v int) error {
		return errors.New("setter failed")
	}))
	_, pending := c.Pending()
	assert.True(t, pending)

	c.Set(5)

	err, ok := c.ReadError()
	assert.True(t, ok)
	var cellErr *CellError
	assert.ErrorAs(t, err, &cellErr)
	assert.Equal(t, SetterThrew, cellErr.Kind)
	assert.Equal(t, 1, cancelCalls)
}
