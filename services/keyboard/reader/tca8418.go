package reader

import (
	"log/slog"
	"sync/atomic"

	"kbdcore-go/drivers/tca8418"
	"kbdcore-go/errcode"
	"kbdcore-go/services/hal/halcore"
	"kbdcore-go/types"
)

func init() { RegisterBuilder("tca8418", tca8418Builder{}) }

// DefaultIntPin is the INT line of the Cardputer ADV keyboard controller.
const DefaultIntPin = 11

// Controller is the part of the TCA8418 driver the reader needs.
// *tca8418.Device implements it.
type Controller interface {
	Configure() error
	Matrix(rows, cols uint8) error
	Flush() (int, error)
	EnableInterrupts() error
	Available() (int, error)
	GetEvent() (byte, error)
	ReadRegister(reg byte) (byte, error)
	WriteRegister(reg, val byte) error
}

// TCA8418Params wires an interrupt-driven TCA8418 keypad controller.
type TCA8418Params struct {
	Bus     string // "i2c0", "i2c1"
	Address uint16 // 0 => tca8418.AddressDefault
	IntPin  int    // < 0 => DefaultIntPin
	IntPull string // "up", "down"; "" => none (external pull-up)
	Rows    uint8  // 0 => 7
	Cols    uint8  // 0 => 8
}

// TCA8418 reads a TCA8418 controller. The INT line handler only raises a
// flag; all bus traffic happens in UpdateKeyList.
type TCA8418 struct {
	ctl        Controller
	irq        halcore.IRQPin
	intPull    halcore.Pull
	rows, cols uint8
	log        *slog.Logger

	// pending is written from interrupt context.
	pending atomic.Bool

	ready bool
	err   error

	// held is the set of keys down, in press order, kept between drains.
	held []types.Point
}

// NewTCA8418 builds the reader. irq may be nil, in which case the controller
// is drained on every update.
func NewTCA8418(ctl Controller, irq halcore.IRQPin, rows, cols uint8, log *slog.Logger) *TCA8418 {
	if rows == 0 {
		rows = 7
	}
	if cols == 0 {
		cols = 8
	}
	if log == nil {
		log = discard()
	}
	return &TCA8418{ctl: ctl, irq: irq, rows: rows, cols: cols, log: log}
}

// Begin initializes the controller and arms the INT line. On failure the
// reader stays usable and reports no keys.
func (r *TCA8418) Begin() error {
	if err := r.begin(); err != nil {
		r.err = err
		r.ready = false
		r.log.Error("keyboard controller init failed", "err", err)
		return err
	}
	r.ready = true
	r.err = nil
	r.log.Info("keyboard controller ready", "rows", r.rows, "cols", r.cols, "int_edge", r.intEdge())
	return nil
}

func (r *TCA8418) begin() error {
	const op = "tca8418.begin"
	if err := r.ctl.Configure(); err != nil {
		return errcode.Wrap(errcode.InitFailed, op, err)
	}
	if err := r.ctl.Matrix(r.rows, r.cols); err != nil {
		return errcode.Wrap(errcode.InvalidParams, op, err)
	}
	if _, err := r.ctl.Flush(); err != nil {
		return errcode.Wrap(errcode.BusError, op, err)
	}
	if r.irq != nil {
		if err := r.irq.ConfigureInput(r.intPull); err != nil {
			return errcode.Wrap(errcode.UnknownPin, op, err)
		}
		if err := r.irq.SetIRQ(halcore.EdgeBoth, r.onInterrupt); err != nil {
			return errcode.Wrap(errcode.UnknownPin, op, err)
		}
	}
	if err := r.ctl.EnableInterrupts(); err != nil {
		if r.irq != nil {
			_ = r.irq.ClearIRQ()
		}
		return errcode.Wrap(errcode.BusError, op, err)
	}
	return nil
}

func (r *TCA8418) intEdge() halcore.Edge {
	if r.irq == nil {
		return halcore.EdgeNone
	}
	return halcore.EdgeBoth
}

// onInterrupt runs in interrupt context.
func (r *TCA8418) onInterrupt() { r.pending.Store(true) }

// Err returns the initialization error, if any.
func (r *TCA8418) Err() error { return r.err }

// Pending reports whether the INT line has signalled since the last drain.
func (r *TCA8418) Pending() bool { return r.pending.Load() }

// UpdateKeyList drains queued events when the INT line has signalled and
// returns the keys currently held.
func (r *TCA8418) UpdateKeyList(dst []types.Point) []types.Point {
	dst = dst[:0]
	if !r.ready {
		return dst
	}
	if r.irq == nil || r.pending.Swap(false) {
		var flooded bool
		dst, flooded = r.drain(dst)
		if r.clearInterrupt() || flooded {
			// Events were discarded, so a release may be missing. Start the
			// held set over; keys still down reappear on their next press.
			r.log.Warn("keyboard controller fifo overflow", "dropped_held", len(r.held))
			r.held = r.held[:0]
		}
		return dst
	}
	return append(dst, r.held...)
}

// drain decodes every queued event and returns the keys held before it that
// saw no press, followed by this drain's presses in event order. Keys
// pressed during this drain are reported even when their release is already
// queued behind the press. flooded is set when the FIFO never emptied.
func (r *TCA8418) drain(dst []types.Point) (_ []types.Point, flooded bool) {
	dst = append(dst, r.held...)
	start := len(dst)
	i := 0
	for ; i < 2*tca8418.FIFODepth; i++ {
		n, err := r.ctl.Available()
		if err != nil {
			r.retry("available", err)
			break
		}
		if n == 0 {
			break
		}
		raw, err := r.ctl.GetEvent()
		if err != nil {
			r.retry("get_event", err)
			break
		}
		ev := tca8418.Event(raw)
		row, col, ok := ev.RowCol()
		if !ok {
			continue
		}
		p := Remap(row, col)
		// any event for a key held from before moves it out of the carried
		// prefix; a press re-adds it at its place in event order
		if j := indexPoint(dst[:start], p); j >= 0 {
			dst = append(dst[:j], dst[j+1:]...)
			start--
		}
		if ev.Pressed() {
			r.held = addPoint(r.held, p)
			dst = addPoint(dst, p)
		} else {
			r.held = removePoint(r.held, p)
		}
	}
	return dst, i == 2*tca8418.FIFODepth
}

// clearInterrupt acknowledges K_INT (and an overflow, reported as the result)
// and re-arms the pending flag when the controller still signals events (one
// arrived after the drain).
func (r *TCA8418) clearInterrupt() (overflow bool) {
	st, err := r.ctl.ReadRegister(tca8418.RegIntStat)
	if err != nil {
		r.retry("read_int", err)
		return false
	}
	ack := byte(tca8418.IntStatKInt)
	if st&tca8418.IntStatOvrFlowInt != 0 {
		overflow = true
		ack |= tca8418.IntStatOvrFlowInt
	}
	if err := r.ctl.WriteRegister(tca8418.RegIntStat, ack); err != nil {
		r.retry("clear_int", err)
		return overflow
	}
	st, err = r.ctl.ReadRegister(tca8418.RegIntStat)
	if err != nil {
		r.retry("read_int", err)
		return overflow
	}
	if st&tca8418.IntStatKInt != 0 {
		r.pending.Store(true)
	}
	return overflow
}

func (r *TCA8418) retry(op string, err error) {
	r.pending.Store(true)
	r.log.Warn("keyboard controller bus error", "op", op, "err", err)
}

// Remap translates a controller-native (row, col) into the logical space
// shared with the scan matrix.
func Remap(row, col uint8) types.Point {
	x := int(row) * 2
	if col > 3 {
		x++
	}
	return types.Point{X: x, Y: (int(col) + 4) % 4}
}

// Unremap is the inverse of Remap.
func Unremap(p types.Point) (row, col uint8, ok bool) {
	if !p.Valid() || p.Y > 3 || p.X >= 2*tca8418.MaxRows {
		return 0, 0, false
	}
	row = uint8(p.X / 2)
	col = uint8(p.Y)
	if p.X%2 == 1 {
		col += 4
	}
	return row, col, true
}

func indexPoint(ps []types.Point, p types.Point) int {
	for i, q := range ps {
		if q == p {
			return i
		}
	}
	return -1
}

func containsPoint(ps []types.Point, p types.Point) bool { return indexPoint(ps, p) >= 0 }

func addPoint(ps []types.Point, p types.Point) []types.Point {
	if containsPoint(ps, p) {
		return ps
	}
	return append(ps, p)
}

func removePoint(ps []types.Point, p types.Point) []types.Point {
	for i, q := range ps {
		if q == p {
			return append(ps[:i], ps[i+1:]...)
		}
	}
	return ps
}

// ---- builder ----

type tca8418Builder struct{}

func (tca8418Builder) Build(in BuilderInput) (Reader, error) {
	p, ok := in.Params.(TCA8418Params)
	if !ok {
		return nil, &errcode.E{C: errcode.InvalidParams, Op: "tca8418.build"}
	}
	if in.Res.I2C == nil {
		return nil, &errcode.E{C: errcode.UnknownBus, Op: "tca8418.build", Msg: p.Bus}
	}
	bus, ok := in.Res.I2C.ByID(p.Bus)
	if !ok {
		return nil, &errcode.E{C: errcode.UnknownBus, Op: "tca8418.build", Msg: p.Bus}
	}
	intPin := p.IntPin
	if intPin < 0 {
		intPin = DefaultIntPin
	}
	var irq halcore.IRQPin
	if in.Res.Pins != nil {
		gp, ok := in.Res.Pins.ByNumber(intPin)
		if !ok {
			return nil, &errcode.E{C: errcode.UnknownPin, Op: "tca8418.build", Msg: "int"}
		}
		irq, ok = gp.(halcore.IRQPin)
		if !ok {
			return nil, &errcode.E{C: errcode.Unsupported, Op: "tca8418.build", Msg: "int pin has no irq"}
		}
	}
	dev := tca8418.New(bus, tca8418.Config{Address: p.Address})
	r := NewTCA8418(dev, irq, p.Rows, p.Cols, in.Log)
	r.intPull = halcore.ParsePull(p.IntPull)
	return r, nil
}
