package keyboard

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kbdcore-go/errcode"
	"kbdcore-go/services/hal/halcore"
	"kbdcore-go/services/hal/sim"
	"kbdcore-go/services/keyboard/reader"
	"kbdcore-go/types"
)

// scriptReader replays one key list per UpdateKeyList call and then keeps
// returning the last one.
type scriptReader struct {
	frames   [][]types.Point
	beginErr error
	began    bool
}

func (r *scriptReader) Begin() error {
	r.began = true
	return r.beginErr
}

func (r *scriptReader) UpdateKeyList(dst []types.Point) []types.Point {
	dst = dst[:0]
	if len(r.frames) == 0 {
		return dst
	}
	dst = append(dst, r.frames[0]...)
	if len(r.frames) > 1 {
		r.frames = r.frames[1:]
	}
	return dst
}

func frames(fs ...[]types.Point) *scriptReader { return &scriptReader{frames: fs} }

func TestGetKeyNegativeGuard(t *testing.T) {
	kb := New(Config{})
	assert.Zero(t, kb.GetKey(pt(-1, 0)))
	assert.Zero(t, kb.GetKey(pt(0, -3)))
	assert.Equal(t, types.KeyValue{}, kb.GetKeyValue(pt(-1, -1)))
}

func TestGetKeyIdempotent(t *testing.T) {
	kb := New(Config{})
	for i := 0; i < 3; i++ {
		assert.Equal(t, byte('a'), kb.GetKey(posA))
	}
	assert.Equal(t, types.KeyValue{First: 'a', Second: 'A'}, kb.GetKeyValue(posA))

	kb.SetCapsLocked(true)
	assert.True(t, kb.CapsLocked())
	assert.Equal(t, byte('A'), kb.GetKey(posA))
}

func TestIsChangeIsCoarse(t *testing.T) {
	r := frames(
		[]types.Point{posA},
		[]types.Point{pos1}, // same count, different key
		nil,
	)
	kb := New(Config{})
	require.NoError(t, kb.BeginWith(r))

	kb.Update()
	assert.True(t, kb.IsChange())
	assert.False(t, kb.IsChange(), "a second call with no update is unchanged")

	kb.Update()
	assert.Equal(t, []types.Point{pos1}, kb.KeyList())
	assert.False(t, kb.IsChange(), "replacing {A} with {B} is not detected")

	kb.Update()
	assert.True(t, kb.IsChange())
	assert.False(t, kb.IsAnyKeyPressed())
}

func TestKeyboardEndToEnd(t *testing.T) {
	kb := New(Config{})
	require.NoError(t, kb.BeginWith(frames([]types.Point{posShift, posA})))

	kb.Update()
	kb.UpdateKeysState()

	st := kb.KeysState()
	assert.Equal(t, "A", string(st.Word))
	assert.Equal(t, 2, kb.IsPressed())
	assert.True(t, kb.IsAnyKeyPressed())
	assert.True(t, kb.IsKeyPressed('A'))
	assert.False(t, kb.IsKeyPressed('a'))
	assert.Equal(t, "custom", kb.Reader())
}

func TestBeginWithFailingReader(t *testing.T) {
	boom := errors.New("no controller")
	r := &scriptReader{beginErr: boom, frames: [][]types.Point{{posA}}}
	kb := New(Config{})

	assert.ErrorIs(t, kb.BeginWith(r), boom)
	assert.True(t, r.began)
	assert.ErrorIs(t, kb.Err(), boom)
	assert.Equal(t, "custom", kb.Reader())

	// the failed reader is no longer polled
	kb.Update()
	assert.Empty(t, kb.KeyList())
	assert.Len(t, r.frames, 1)
}

func TestBeginScanMatrixPinFailureFallsBack(t *testing.T) {
	kb := New(Config{})
	err := kb.Begin(types.ReaderSetup{
		Type:   "iomatrix",
		Params: reader.IOMatrixParams{Outputs: [3]int{8, 9, 11}, Inputs: [7]int{13, 15, 3, 4, 5, 6, 7}},
	}, reader.Resources{Pins: noPins{}})
	require.Error(t, err)
	assert.Equal(t, reader.Null{}, kb.reader)

	kb.Update()
	assert.False(t, kb.IsAnyKeyPressed())
}

// noPins resolves every pin number but refuses to configure it.
type noPins struct{}

func (noPins) ByNumber(n int) (halcore.GPIOPin, bool) { return deadPin(n), true }

type deadPin int

func (deadPin) ConfigureInput(halcore.Pull) error { return errors.New("pin busy") }
func (deadPin) ConfigureOutput(bool) error        { return errors.New("pin busy") }
func (deadPin) Set(bool)                          {}
func (deadPin) Get() bool                         { return false }
func (p deadPin) Number() int                     { return int(p) }

func TestBeginUnsupportedBoard(t *testing.T) {
	kb := New(Config{})
	err := kb.Begin(types.ReaderSetup{}, reader.Resources{})
	require.Error(t, err)
	assert.Equal(t, errcode.Unsupported, errcode.Of(err))
	assert.Equal(t, "none", kb.Reader())

	kb.Update()
	assert.False(t, kb.IsAnyKeyPressed())
	assert.False(t, kb.IsChange())
}

func TestBeginUnknownReader(t *testing.T) {
	kb := New(Config{})
	err := kb.Begin(types.ReaderSetup{Type: "usb"}, reader.Resources{})
	assert.Equal(t, errcode.UnknownReader, errcode.Of(err))
	assert.Equal(t, "none", kb.Reader())
}

func TestUpdateBeforeBegin(t *testing.T) {
	kb := New(Config{})
	kb.Update()
	kb.UpdateKeysState()
	assert.Empty(t, kb.KeyList())
	assert.Empty(t, kb.KeysState().Word)
}

func TestBeginScanMatrix(t *testing.T) {
	pf := sim.NewPinFactory()
	outs := [3]int{8, 9, 11}
	ins := [7]int{13, 15, 3, 4, 5, 6, 7}

	kb := New(Config{})
	require.NoError(t, kb.Begin(types.ReaderSetup{
		Type:   "iomatrix",
		Params: reader.IOMatrixParams{Outputs: outs, Inputs: ins},
	}, reader.Resources{Pins: pf}))
	assert.Equal(t, "iomatrix", kb.Reader())

	var op []*sim.Pin
	var ip []*sim.Pin
	for _, n := range outs {
		op = append(op, pf.Pin(n))
	}
	for _, n := range ins {
		ip = append(ip, pf.Pin(n))
	}
	m := sim.NewMatrix(op, ip)

	// (2,2) is chart[1].X1 on the third row: selector 5, line 1.
	m.Press(5, 1)

	kb.Update()
	kb.UpdateKeysState()
	assert.Equal(t, []types.Point{posA}, kb.KeyList())
	assert.Equal(t, "a", string(kb.KeysState().Word))
}
