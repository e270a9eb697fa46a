package reader

import (
	"log/slog"

	"kbdcore-go/errcode"
	"kbdcore-go/services/hal/halcore"
	"kbdcore-go/types"
)

func init() { RegisterBuilder("iomatrix", iomatrixBuilder{}) }

const (
	selectorPins = 3
	senseLines   = 7
	selectorMax  = 1 << selectorPins
)

// XMap resolves a sensed input line to a logical column. X1 applies to
// selector values 4..7, X2 to 0..3.
type XMap struct {
	X1, X2 int
}

// CardputerXMap is the column chart of the 4x14 Cardputer matrix.
var CardputerXMap = [senseLines]XMap{
	{0, 1}, {2, 3}, {4, 5}, {6, 7}, {8, 9}, {10, 11}, {12, 13},
}

// IOMatrixParams wires a GPIO scan matrix.
type IOMatrixParams struct {
	Outputs [selectorPins]int // selector bit 0..2
	Inputs  [senseLines]int   // active-low sense lines
	Chart   *[senseLines]XMap // nil => CardputerXMap
}

// IOMatrix scans a key matrix through a 3-bit output selector and seven
// pulled-up inputs that read low while their key is held.
type IOMatrix struct {
	outs  [selectorPins]halcore.GPIOPin
	ins   [senseLines]halcore.GPIOPin
	chart [senseLines]XMap
	log   *slog.Logger
}

// NewIOMatrix builds the reader from already claimed pins.
func NewIOMatrix(outs [selectorPins]halcore.GPIOPin, ins [senseLines]halcore.GPIOPin, chart *[senseLines]XMap, log *slog.Logger) *IOMatrix {
	if chart == nil {
		chart = &CardputerXMap
	}
	if log == nil {
		log = discard()
	}
	return &IOMatrix{outs: outs, ins: ins, chart: *chart, log: log}
}

// Begin drives the selector lines low and pulls the sense lines up.
func (m *IOMatrix) Begin() error {
	for _, p := range m.outs {
		if err := p.ConfigureOutput(false); err != nil {
			return errcode.Wrap(errcode.InitFailed, "iomatrix.begin", err)
		}
	}
	for _, p := range m.ins {
		if err := p.ConfigureInput(halcore.PullUp); err != nil {
			return errcode.Wrap(errcode.InitFailed, "iomatrix.begin", err)
		}
	}
	m.setOutput(0)
	m.log.Debug("iomatrix ready", "outputs", pinNumbers(m.outs[:]), "inputs", pinNumbers(m.ins[:]))
	return nil
}

func (m *IOMatrix) setOutput(v uint8) {
	v &= selectorMax - 1
	for i, p := range m.outs {
		p.Set(v&(1<<i) != 0)
	}
}

// getInput returns the sense lines as a bitmask, set bit = key held.
func (m *IOMatrix) getInput() uint8 {
	var buf uint8
	for j, p := range m.ins {
		if !p.Get() {
			buf |= 1 << j
		}
	}
	return buf
}

// UpdateKeyList performs one full selector sweep.
func (m *IOMatrix) UpdateKeyList(dst []types.Point) []types.Point {
	dst = dst[:0]
	for i := 0; i < selectorMax; i++ {
		m.setOutput(uint8(i))
		in := m.getInput()
		if in == 0 {
			continue
		}
		for j := 0; j < senseLines; j++ {
			if in&(1<<j) == 0 {
				continue
			}
			dst = append(dst, m.resolve(i, j))
		}
	}
	return dst
}

// resolve maps (selector, sense line) to a logical position. Selector values
// 0..3 and 4..7 address the two halves of the matrix; y counts from the top
// row of the physical layout.
func (m *IOMatrix) resolve(sel, line int) types.Point {
	var p types.Point
	y := sel
	if sel > 3 {
		p.X = m.chart[line].X1
		y = sel % 4
	} else {
		p.X = m.chart[line].X2
	}
	p.Y = -y + 3
	return p
}

// Locate is the inverse of the scan: it returns the selector value and sense
// line that report p.
func (m *IOMatrix) Locate(p types.Point) (sel, line int, ok bool) {
	return LocateIn(&m.chart, p)
}

// LocateIn inverts the scan for chart (nil => CardputerXMap). Used to drive
// emulated hardware.
func LocateIn(chart *[senseLines]XMap, p types.Point) (sel, line int, ok bool) {
	if chart == nil {
		chart = &CardputerXMap
	}
	if !p.Valid() || p.Y > 3 {
		return 0, 0, false
	}
	base := 3 - p.Y
	for j, c := range chart {
		if c.X1 == p.X {
			return base + 4, j, true
		}
		if c.X2 == p.X {
			return base, j, true
		}
	}
	return 0, 0, false
}

func pinNumbers(ps []halcore.GPIOPin) []int {
	out := make([]int, len(ps))
	for i, p := range ps {
		out[i] = p.Number()
	}
	return out
}

// ---- builder ----

type iomatrixBuilder struct{}

func (iomatrixBuilder) Build(in BuilderInput) (Reader, error) {
	p, ok := in.Params.(IOMatrixParams)
	if !ok {
		return nil, &errcode.E{C: errcode.InvalidParams, Op: "iomatrix.build"}
	}
	if in.Res.Pins == nil {
		return nil, &errcode.E{C: errcode.UnknownPin, Op: "iomatrix.build", Msg: "no pin factory"}
	}
	var outs [selectorPins]halcore.GPIOPin
	var ins [senseLines]halcore.GPIOPin
	for i, n := range p.Outputs {
		pin, ok := in.Res.Pins.ByNumber(n)
		if !ok {
			return nil, &errcode.E{C: errcode.UnknownPin, Op: "iomatrix.build", Msg: "output"}
		}
		outs[i] = pin
	}
	for i, n := range p.Inputs {
		pin, ok := in.Res.Pins.ByNumber(n)
		if !ok {
			return nil, &errcode.E{C: errcode.UnknownPin, Op: "iomatrix.build", Msg: "input"}
		}
		ins[i] = pin
	}
	return NewIOMatrix(outs, ins, p.Chart, in.Log), nil
}
