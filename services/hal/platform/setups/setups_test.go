package setups

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kbdcore-go/services/keyboard/reader"
)

func TestKnownBoards(t *testing.T) {
	assert.Equal(t, []string{"cardputer", "cardputer_adv"}, Names())

	b, ok := ByName("cardputer_adv")
	require.True(t, ok)
	p, ok := b.Setup.Reader.Params.(reader.TCA8418Params)
	require.True(t, ok)
	assert.Equal(t, "i2c0", p.Bus)
	assert.Equal(t, reader.DefaultIntPin, p.IntPin)
	require.Len(t, b.Plan.I2C, 1)
	assert.Equal(t, p.Bus, b.Plan.I2C[0].ID)

	_, ok = ByName("m5stick")
	assert.False(t, ok)
}

func TestCardputerPinsDistinct(t *testing.T) {
	p := Cardputer.Setup.Reader.Params.(reader.IOMatrixParams)
	seen := map[int]bool{}
	for _, n := range append(p.Outputs[:], p.Inputs[:]...) {
		assert.False(t, seen[n], "pin %d used twice", n)
		seen[n] = true
	}
}
