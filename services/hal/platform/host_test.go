//go:build !rp2040 && !rp2350

package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kbdcore-go/services/hal/platform/setups"
	"kbdcore-go/services/keyboard"
	"kbdcore-go/types"
)

func bootHost(t *testing.T, b setups.Board) (*Host, *keyboard.Keyboard) {
	t.Helper()
	h := NewHost(b)
	kb := keyboard.New(keyboard.Config{})
	require.NoError(t, kb.Begin(b.Setup.Reader, h.Resources()))
	return h, kb
}

func TestHostBoardsDecodeTheSameKeys(t *testing.T) {
	shift := types.Point{X: 1, Y: 2}
	a := types.Point{X: 2, Y: 2}
	bksp := types.Point{X: 13, Y: 0}

	for _, b := range []setups.Board{setups.Cardputer, setups.CardputerADV} {
		t.Run(b.Setup.Board, func(t *testing.T) {
			h, kb := bootHost(t, b)

			require.True(t, h.Press(shift))
			require.True(t, h.Press(a))
			kb.Update()
			kb.UpdateKeysState()
			assert.ElementsMatch(t, []types.Point{shift, a}, kb.KeyList())
			assert.Equal(t, "A", string(kb.KeysState().Word))

			h.Hold([]types.Point{bksp})
			kb.Update()
			kb.UpdateKeysState()
			assert.Equal(t, []types.Point{bksp}, kb.KeyList())
			assert.True(t, kb.KeysState().Del)
			assert.Equal(t, []types.Point{bksp}, h.Held())

			h.Hold(nil)
			kb.Update()
			assert.Empty(t, kb.KeyList())
		})
	}
}

func TestHostRejectsMissingKeys(t *testing.T) {
	h, _ := bootHost(t, setups.Cardputer)
	assert.False(t, h.Press(types.Point{X: 14, Y: 0}))
	assert.False(t, h.Release(types.Point{X: 0, Y: 0}), "not held")

	h, _ = bootHost(t, setups.CardputerADV)
	assert.False(t, h.Press(types.Point{X: 0, Y: 4}))
}

func TestSelectedWithoutBoardTag(t *testing.T) {
	b := Selected()
	assert.Equal(t, "unknown", b.Setup.Board)

	kb := keyboard.New(keyboard.Config{})
	assert.Error(t, kb.Begin(b.Setup.Reader, Resources(b)))
	assert.Equal(t, "none", kb.Reader())
}
