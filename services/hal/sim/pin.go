// Package sim emulates the keyboard hardware on host builds: GPIO lines, the
// 3x7 selector matrix and the TCA8418 register file. Tests and the kbdsim
// command drive the emulated world; the readers see ordinary halcore pins and
// a drivers.I2C bus.
package sim

import (
	"sync"

	"kbdcore-go/services/hal/halcore"
)

// Pin implements halcore.IRQPin.
type Pin struct {
	mu      sync.RWMutex
	number  int
	level   bool
	modeOut bool
	pull    halcore.Pull
	irqEdge halcore.Edge
	irqFunc func()

	// source, when set, supplies the level seen by Get while the pin is an
	// input (the emulated outside world).
	source func() bool
}

func NewPin(n int) *Pin { return &Pin{number: n} }

func (p *Pin) ConfigureInput(pull halcore.Pull) error {
	p.mu.Lock()
	p.modeOut = false
	p.pull = pull
	p.mu.Unlock()
	return nil
}

func (p *Pin) ConfigureOutput(initial bool) error {
	p.mu.Lock()
	p.modeOut = true
	p.level = initial
	p.mu.Unlock()
	return nil
}

// Set drives the pin from the MCU side.
func (p *Pin) Set(level bool) {
	p.mu.Lock()
	p.level = level
	p.mu.Unlock()
}

func (p *Pin) Get() bool {
	p.mu.RLock()
	src, out, lvl, pull := p.source, p.modeOut, p.level, p.pull
	p.mu.RUnlock()
	if !out && src != nil {
		return src()
	}
	if !out && pull == halcore.PullUp {
		return true
	}
	return lvl
}

func (p *Pin) Number() int { return p.number }

// IsOutput reports the configured direction.
func (p *Pin) IsOutput() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.modeOut
}

// PullMode reports the configured pull resistor.
func (p *Pin) PullMode() halcore.Pull {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.pull
}

func (p *Pin) SetIRQ(edge halcore.Edge, handler func()) error {
	p.mu.Lock()
	p.irqEdge = edge
	p.irqFunc = handler
	p.mu.Unlock()
	return nil
}

func (p *Pin) ClearIRQ() error {
	p.mu.Lock()
	p.irqEdge = halcore.EdgeNone
	p.irqFunc = nil
	p.mu.Unlock()
	return nil
}

// IRQArmed reports the edge the pin currently interrupts on.
func (p *Pin) IRQArmed() halcore.Edge {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.irqFunc == nil {
		return halcore.EdgeNone
	}
	return p.irqEdge
}

// Drive sets the level from the outside world and runs the interrupt
// handler, ISR-style, when the transition matches the armed edge.
func (p *Pin) Drive(level bool) {
	p.mu.Lock()
	old := p.level
	p.level = level
	irq := p.irqFunc
	want := irqWanted(p.irqEdge, edgeFrom(old, level))
	p.mu.Unlock()
	if want && irq != nil {
		irq()
	}
}

// setSource installs the outside-world level provider.
func (p *Pin) setSource(f func() bool) {
	p.mu.Lock()
	p.source = f
	p.mu.Unlock()
}

func edgeFrom(old, new bool) halcore.Edge {
	switch {
	case !old && new:
		return halcore.EdgeRising
	case old && !new:
		return halcore.EdgeFalling
	default:
		return halcore.EdgeNone
	}
}

func irqWanted(cfg, seen halcore.Edge) bool {
	switch cfg {
	case halcore.EdgeBoth:
		return seen == halcore.EdgeRising || seen == halcore.EdgeFalling
	case halcore.EdgeNone:
		return false
	default:
		return cfg == seen
	}
}

// PinFactory returns stable *Pin instances per number.
type PinFactory struct {
	mu   sync.Mutex
	pins map[int]*Pin
}

func NewPinFactory() *PinFactory { return &PinFactory{pins: make(map[int]*Pin)} }

func (f *PinFactory) ByNumber(n int) (halcore.GPIOPin, bool) {
	if n < 0 {
		return nil, false
	}
	return f.Pin(n), true
}

// Pin returns the emulated pin n, creating it on first use.
func (f *PinFactory) Pin(n int) *Pin {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pins == nil {
		f.pins = make(map[int]*Pin)
	}
	p, ok := f.pins[n]
	if !ok {
		p = NewPin(n)
		f.pins[n] = p
	}
	return p
}
