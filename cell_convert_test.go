package cell

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvertMirrorsReadyState(t *testing.T) {
	src := NewCell(3)
	doubled := Convert(src, func(v int) Outcome[int] { return Ready(v * 2) }, -1)

	assert.Equal(t, 6, doubled.Value())

	src.Set(4)
	assert.Equal(t, 8, doubled.Value())
}

func TestConvertMirrorsPendingAndErrorCategories(t *testing.T) {
	tok, resolve, _ := NewToken[int]()
	src := NewComputedCell(func(h *Handle[int]) Outcome[int] {
		return Pending(tok)
	}, WithDefault(0))

	mirrored := Convert(src, func(v int) Outcome[string] { return Ready("ok") }, "def")

	_, pending := mirrored.Pending()
	assert.True(t, pending)
	assert.Equal(t, "def", mirrored.Value())

	resolve(42)
	assert.Equal(t, "ok", mirrored.Value())
}

func TestInstallConverterCapturesAndDecouples(t *testing.T) {
	a := NewCell(10)
	b := NewCell(1)
	c := NewComputedCell(func(h *Handle[int]) Outcome[int] {
		return Ready(a.Value() + b.Value())
	})
	assert.Equal(t, 11, c.Value())

	c.InstallConverter(func(v int) Outcome[int] { return Ready(v + 1) })
	assert.Equal(t, 12, c.Value())

	// decoupled: a's writes no longer reach c through the old computation
	a.Set(100)
	assert.Equal(t, 12, c.Value())

	c.Set(5)
	assert.Equal(t, 6, c.Value())
}

func TestClearConverterFreezesCurrentValue(t *testing.T) {
	a := NewCell(10)
	c := NewComputedCell(func(h *Handle[int]) Outcome[int] {
		return Ready(a.Value())
	})
	c.InstallConverter(func(v int) Outcome[int] { return Ready(v * 2) })
	assert.Equal(t, 20, c.Value())

	c.ClearConverter()
	assert.Equal(t, 20, c.Value())

	a.Set(999)
	assert.Equal(t, 20, c.Value(), "a frozen cell no longer recomputes")
}

func TestPendingFlagCellTracksUnderlyingPendingState(t *testing.T) {
	tok, resolve, _ := NewToken[int]()
	c := NewComputedCell(func(h *Handle[int]) Outcome[int] {
		return Pending(tok)
	}, WithDefault(0))

	flag := c.PendingFlagCell()
	assert.True(t, flag.Value())

	resolve(1)
	assert.False(t, flag.Value())
}

func TestErrorViewCellNeverEntersErroredItself(t *testing.T) {
	boom := errors.New("boom")
	flip := NewCell(true)
	c := NewComputedCell(func(h *Handle[int]) Outcome[int] {
		if flip.Value() {
			return Errored[int](boom)
		}
		return Ready(1)
	}, WithDefault(-1))

	view := c.ErrorViewCell()
	err := view.Value()
	assert.ErrorIs(t, err, boom)
	_, viewErrored := view.ReadError()
	assert.False(t, viewErrored)

	flip.Set(false)
	assert.Nil(t, view.Value())
}
