package reader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kbdcore-go/services/hal/halcore"
	"kbdcore-go/services/hal/sim"
	"kbdcore-go/types"
)

var (
	testOutputs = [selectorPins]int{8, 9, 11}
	testInputs  = [senseLines]int{13, 15, 3, 4, 5, 6, 7}
)

func newTestMatrix(t *testing.T) (*IOMatrix, *sim.Matrix, *sim.PinFactory) {
	t.Helper()
	pf := sim.NewPinFactory()
	var outs [selectorPins]halcore.GPIOPin
	var simOuts []*sim.Pin
	for i, n := range testOutputs {
		outs[i] = pf.Pin(n)
		simOuts = append(simOuts, pf.Pin(n))
	}
	var ins [senseLines]halcore.GPIOPin
	var simIns []*sim.Pin
	for i, n := range testInputs {
		ins[i] = pf.Pin(n)
		simIns = append(simIns, pf.Pin(n))
	}
	m := NewIOMatrix(outs, ins, nil, nil)
	require.NoError(t, m.Begin())
	return m, sim.NewMatrix(simOuts, simIns), pf
}

func TestIOMatrixBeginConfiguresPins(t *testing.T) {
	_, _, pf := newTestMatrix(t)
	for _, n := range testOutputs {
		p := pf.Pin(n)
		assert.True(t, p.IsOutput(), "pin %d", n)
		assert.False(t, p.Get(), "pin %d idles low", n)
	}
	for _, n := range testInputs {
		p := pf.Pin(n)
		assert.False(t, p.IsOutput(), "pin %d", n)
		assert.Equal(t, halcore.PullUp, p.PullMode())
	}
}

func TestIOMatrixIdleReportsNothing(t *testing.T) {
	m, _, _ := newTestMatrix(t)
	assert.Empty(t, m.UpdateKeyList(nil))
}

func TestIOMatrixUpperHalfSelector(t *testing.T) {
	m, hw, _ := newTestMatrix(t)

	// selector 5 (> 3), sense line 2: x from X1 of chart[2], y = 3 - 5%4.
	hw.Press(5, 2)
	keys := m.UpdateKeyList(nil)
	require.Len(t, keys, 1)
	assert.Equal(t, types.Point{X: CardputerXMap[2].X1, Y: 2}, keys[0])
	assert.Equal(t, types.Point{X: 4, Y: 2}, keys[0])
}

func TestIOMatrixLowerHalfSelector(t *testing.T) {
	m, hw, _ := newTestMatrix(t)

	hw.Press(0, 0)
	hw.Press(3, 6)
	keys := m.UpdateKeyList(nil)
	assert.Equal(t, []types.Point{{X: 1, Y: 3}, {X: 13, Y: 0}}, keys)
}

func TestIOMatrixScanOrderAndReuse(t *testing.T) {
	m, hw, _ := newTestMatrix(t)

	hw.Press(7, 0)
	hw.Press(1, 3)
	hw.Press(1, 1)
	buf := make([]types.Point, 0, 8)
	keys := m.UpdateKeyList(buf)
	// selector order first, then sense line order
	assert.Equal(t, []types.Point{{X: 3, Y: 2}, {X: 7, Y: 2}, {X: 0, Y: 0}}, keys)

	hw.ReleaseAll()
	keys = m.UpdateKeyList(keys)
	assert.Empty(t, keys)
}

func TestIOMatrixLocateRoundTrip(t *testing.T) {
	m, hw, _ := newTestMatrix(t)
	for y := 0; y < 4; y++ {
		for x := 0; x < 14; x++ {
			p := types.Point{X: x, Y: y}
			sel, line, ok := m.Locate(p)
			require.True(t, ok, "%v", p)

			hw.ReleaseAll()
			hw.Press(sel, line)
			assert.Equal(t, []types.Point{p}, m.UpdateKeyList(nil))
		}
	}
	_, _, ok := m.Locate(types.Point{X: -1, Y: 0})
	assert.False(t, ok)
	_, _, ok = m.Locate(types.Point{X: 14, Y: 0})
	assert.False(t, ok)
}

func TestIOMatrixBuilder(t *testing.T) {
	pf := sim.NewPinFactory()
	r, err := Build(types.ReaderSetup{
		Type:   "iomatrix",
		Params: IOMatrixParams{Outputs: testOutputs, Inputs: testInputs},
	}, Resources{Pins: pf}, nil)
	require.NoError(t, err)
	require.IsType(t, &IOMatrix{}, r)
	require.NoError(t, r.Begin())
	assert.True(t, pf.Pin(8).IsOutput())
}
