//go:build !rp2040 && !rp2350

package platform

import (
	"tinygo.org/x/drivers"

	"kbdcore-go/drivers/tca8418"
	"kbdcore-go/services/hal/platform/setups"
	"kbdcore-go/services/hal/sim"
	"kbdcore-go/services/keyboard/reader"
	"kbdcore-go/types"
)

// Host emulates the keyboard hardware of a board: the scan matrix behind
// its selector pins, or a TCA8418 on the planned I2C bus with its INT line.
// Keys are pressed in logical coordinates.
type Host struct {
	Board  setups.Board
	Pins   *sim.PinFactory
	Buses  map[string]*sim.I2C
	Matrix *sim.Matrix
	Chip   *sim.TCA8418

	chart *[7]reader.XMap
	held  []types.Point
}

func NewHost(b setups.Board) *Host {
	h := &Host{Board: b, Pins: sim.NewPinFactory(), Buses: make(map[string]*sim.I2C)}
	for _, p := range b.Plan.I2C {
		h.Buses[p.ID] = sim.NewI2C()
	}
	switch p := b.Setup.Reader.Params.(type) {
	case reader.IOMatrixParams:
		outs := make([]*sim.Pin, len(p.Outputs))
		for i, n := range p.Outputs {
			outs[i] = h.Pins.Pin(n)
		}
		ins := make([]*sim.Pin, len(p.Inputs))
		for i, n := range p.Inputs {
			ins[i] = h.Pins.Pin(n)
		}
		h.Matrix = sim.NewMatrix(outs, ins)
		h.chart = p.Chart
	case reader.TCA8418Params:
		bus, ok := h.Buses[p.Bus]
		if !ok {
			bus = sim.NewI2C()
			h.Buses[p.Bus] = bus
		}
		intPin := p.IntPin
		if intPin < 0 {
			intPin = reader.DefaultIntPin
		}
		addr := p.Address
		if addr == 0 {
			addr = tca8418.AddressDefault
		}
		h.Chip = sim.NewTCA8418(h.Pins.Pin(intPin))
		bus.Attach(addr, h.Chip)
	}
	return h
}

// Resources returns the emulated factories for reader builders.
func (h *Host) Resources() reader.Resources {
	return reader.Resources{Pins: h.Pins, I2C: hostBuses(h.Buses)}
}

// Press holds the key at p. It reports false when the board has no key
// there. An emulated TCA8418 only accepts keys once its keypad has been
// configured, so press after the keyboard's Begin.
func (h *Host) Press(p types.Point) bool {
	if containsPoint(h.held, p) {
		return true
	}
	if !h.drive(p, true) {
		return false
	}
	h.held = append(h.held, p)
	return true
}

// Release lets go of the key at p.
func (h *Host) Release(p types.Point) bool {
	for i, q := range h.held {
		if q == p {
			h.held = append(h.held[:i], h.held[i+1:]...)
			return h.drive(p, false)
		}
	}
	return false
}

// Hold makes keys the exact set of held keys, releasing the rest.
func (h *Host) Hold(keys []types.Point) {
	for _, q := range append([]types.Point(nil), h.held...) {
		if !containsPoint(keys, q) {
			h.Release(q)
		}
	}
	for _, p := range keys {
		if !containsPoint(h.held, p) {
			h.Press(p)
		}
	}
}

// Held returns the keys currently held, in press order.
func (h *Host) Held() []types.Point { return h.held }

func (h *Host) drive(p types.Point, down bool) bool {
	switch {
	case h.Matrix != nil:
		sel, line, ok := reader.LocateIn(h.chart, p)
		if !ok {
			return false
		}
		if down {
			h.Matrix.Press(sel, line)
		} else {
			h.Matrix.Release(sel, line)
		}
		return true
	case h.Chip != nil:
		row, col, ok := reader.Unremap(p)
		if !ok {
			return false
		}
		if down {
			return h.Chip.Press(row, col)
		}
		return h.Chip.Release(row, col)
	}
	return false
}

func containsPoint(ps []types.Point, p types.Point) bool {
	for _, q := range ps {
		if q == p {
			return true
		}
	}
	return false
}

type hostBuses map[string]*sim.I2C

func (m hostBuses) ByID(id string) (drivers.I2C, bool) {
	b, ok := m[id]
	if !ok {
		return nil, false
	}
	return b, true
}

// Resources returns emulated factories for b. Use NewHost to also drive
// key presses.
func Resources(b setups.Board) reader.Resources { return NewHost(b).Resources() }
