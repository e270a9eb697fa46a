package keymap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kbdcore-go/types"
)

func TestCardputerCorners(t *testing.T) {
	tab := &Cardputer
	assert.Equal(t, types.KeyValue{First: '`', Second: '~'}, tab.At(types.Point{X: 0, Y: 0}))
	assert.Equal(t, types.KeyBackspace, tab.At(types.Point{X: 13, Y: 0}).First)
	assert.Equal(t, types.KeyFn, tab.At(types.Point{X: 0, Y: 2}).First)
	assert.Equal(t, types.KeyLeftShift, tab.At(types.Point{X: 1, Y: 2}).First)
	assert.Equal(t, types.KeyLeftCtrl, tab.At(types.Point{X: 0, Y: 3}).First)
	assert.Equal(t, types.KeySpace, tab.At(types.Point{X: 13, Y: 3}).First)
}

func TestAtOutOfRange(t *testing.T) {
	tab := &Cardputer
	for _, p := range []types.Point{{X: -1, Y: 0}, {X: 0, Y: -1}, {X: 14, Y: 0}, {X: 0, Y: 4}} {
		assert.Equal(t, types.KeyValue{}, tab.At(p), "%v", p)
	}
	var nilTab *Table
	assert.Equal(t, types.KeyValue{}, nilTab.At(types.Point{}))
}

func TestFind(t *testing.T) {
	p, ok := Cardputer.Find('A')
	require.True(t, ok)
	assert.Equal(t, types.Point{X: 2, Y: 2}, p)

	p, ok = Cardputer.Find('?')
	require.True(t, ok)
	assert.Equal(t, types.Point{X: 12, Y: 3}, p)

	_, ok = Cardputer.Find(0x7f)
	assert.False(t, ok)
}

func TestASCIIToHID(t *testing.T) {
	cases := map[byte]byte{
		'a':  HIDA,
		'z':  0x1D,
		'A':  HIDA | HIDShift,
		'1':  0x1E,
		'9':  0x26,
		'0':  0x27,
		' ':  HIDSpace,
		'`':  HIDGrave,
		'~':  HIDGrave | HIDShift,
		'@':  0x1F | HIDShift,
		'\n': HIDEnter,
		'/':  HIDSlash,
	}
	for c, want := range cases {
		assert.Equal(t, want, ASCIIToHID(c), "%q", c)
	}
	assert.Zero(t, ASCIIToHID(0x00))
	assert.Zero(t, ASCIIToHID(0x7f))
	assert.Zero(t, ASCIIToHID(0xff))
}

func TestEveryPrintableLayoutKeyHasHID(t *testing.T) {
	for y := range Cardputer {
		for x, v := range Cardputer[y] {
			if v.First < ' ' || v.First >= 0x7f || v.First == v.Second {
				continue
			}
			assert.NotZero(t, ASCIIToHID(v.First), "(%d,%d) %q", x, y, v.First)
			assert.NotZero(t, ASCIIToHID(v.Second), "(%d,%d) %q", x, y, v.Second)
		}
	}
}
