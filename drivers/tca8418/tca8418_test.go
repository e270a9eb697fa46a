package tca8418_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kbdcore-go/drivers/tca8418"
	"kbdcore-go/services/hal/sim"
)

func newChip(t *testing.T) (*tca8418.Device, *sim.TCA8418) {
	t.Helper()
	bus := sim.NewI2C()
	chip := sim.NewTCA8418(nil)
	bus.Attach(tca8418.AddressDefault, chip)
	return tca8418.New(bus, tca8418.Config{}), chip
}

func TestConfigureWritesGPIODefaults(t *testing.T) {
	d, chip := newChip(t)
	require.NoError(t, d.Configure())

	assert.Equal(t, byte(0x00), chip.Reg(tca8418.RegGPIODir1))
	assert.Equal(t, byte(0xFF), chip.Reg(tca8418.RegGPIEM1))
	assert.Equal(t, byte(0xFF), chip.Reg(tca8418.RegGPIEM3))
	assert.Equal(t, byte(0x00), chip.Reg(tca8418.RegGPIOIntLvl2))
	assert.Equal(t, byte(0xFF), chip.Reg(tca8418.RegGPIOIntEn2))
}

func TestConfigureMissingDevice(t *testing.T) {
	bus := sim.NewI2C()
	d := tca8418.New(bus, tca8418.Config{})

	err := d.Configure()
	require.Error(t, err)
	assert.ErrorIs(t, err, tca8418.ErrNotFound)
	assert.ErrorIs(t, err, sim.ErrNack)
}

func TestMatrixMasks(t *testing.T) {
	d, chip := newChip(t)

	require.NoError(t, d.Matrix(7, 8))
	assert.Equal(t, byte(0x7F), chip.Reg(tca8418.RegKpGPIO1))
	assert.Equal(t, byte(0xFF), chip.Reg(tca8418.RegKpGPIO2))
	assert.Equal(t, byte(0x00), chip.Reg(tca8418.RegKpGPIO3))

	require.NoError(t, d.Matrix(8, 10))
	assert.Equal(t, byte(0xFF), chip.Reg(tca8418.RegKpGPIO1))
	assert.Equal(t, byte(0x03), chip.Reg(tca8418.RegKpGPIO3))

	require.NoError(t, d.Matrix(2, 9))
	assert.Equal(t, byte(0x03), chip.Reg(tca8418.RegKpGPIO1))
	assert.Equal(t, byte(0x01), chip.Reg(tca8418.RegKpGPIO3))
}

func TestMatrixRejectsOversize(t *testing.T) {
	d, _ := newChip(t)
	assert.ErrorIs(t, d.Matrix(9, 8), tca8418.ErrMatrixSize)
	assert.ErrorIs(t, d.Matrix(7, 11), tca8418.ErrMatrixSize)
}

func TestEnableInterruptsPreservesCfg(t *testing.T) {
	d, chip := newChip(t)
	require.NoError(t, d.WriteRegister(tca8418.RegCfg, tca8418.CfgIntCfg))

	require.NoError(t, d.EnableInterrupts())
	assert.Equal(t, byte(tca8418.CfgIntCfg|tca8418.CfgGPIIE|tca8418.CfgKEIE), chip.Reg(tca8418.RegCfg))

	require.NoError(t, d.DisableInterrupts())
	assert.Equal(t, byte(tca8418.CfgIntCfg), chip.Reg(tca8418.RegCfg))
}

func TestEventsAndFlush(t *testing.T) {
	d, chip := newChip(t)
	require.NoError(t, d.Matrix(7, 8))

	require.True(t, chip.Press(2, 5))
	require.True(t, chip.Release(2, 5))
	require.False(t, chip.Press(7, 0), "row 7 is outside a 7-row matrix")

	n, err := d.Available()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	raw, err := d.GetEvent()
	require.NoError(t, err)
	ev := tca8418.Event(raw)
	assert.True(t, ev.Pressed())
	assert.Equal(t, uint8(26), ev.Key())

	dropped, err := d.Flush()
	require.NoError(t, err)
	assert.Equal(t, 1, dropped)
	assert.Equal(t, 0, chip.Pending())
	assert.Equal(t, byte(0), chip.Reg(tca8418.RegIntStat))
}

func TestEventDecode(t *testing.T) {
	row, col, ok := tca8418.Event(26).RowCol()
	require.True(t, ok)
	assert.Equal(t, uint8(2), row)
	assert.Equal(t, uint8(5), col)

	rel := tca8418.Event(0x80 | 26)
	assert.False(t, rel.Pressed())
	assert.Equal(t, uint8(26), rel.Key())

	_, _, ok = tca8418.Event(0x80).RowCol()
	assert.False(t, ok, "index 0 is empty")

	row, col, ok = tca8418.Event(1).RowCol()
	require.True(t, ok)
	assert.Equal(t, uint8(0), row)
	assert.Equal(t, uint8(0), col)
}
