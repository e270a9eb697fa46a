// Package halcore holds the hardware capabilities the keyboard readers are
// written against. Platform packages supply implementations for MCU targets
// and for host builds.
package halcore

import (
	"tinygo.org/x/drivers"
)

// ---- Buses ----

// I2CBusFactory injects configured I²C instances by id ("i2c0", "i2c1").
// Uses the TinyGo drivers.I2C interface to remain compatible on MCU builds.
type I2CBusFactory interface {
	ByID(id string) (drivers.I2C, bool)
}

// ---- GPIO abstractions ----

type Pull uint8

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

// GPIOPin is a single digital line. Set/Get never block longer than the
// underlying register access.
type GPIOPin interface {
	ConfigureInput(pull Pull) error
	ConfigureOutput(initial bool) error
	Set(level bool)
	Get() bool
	Number() int
}

// Edge selection for IRQ.
type Edge uint8

const (
	EdgeNone Edge = iota
	EdgeRising
	EdgeFalling
	EdgeBoth
)

// IRQPin extends GPIOPin with interrupts. The handler runs in interrupt
// context on MCU targets: it must not block, allocate or touch a bus.
type IRQPin interface {
	GPIOPin
	SetIRQ(edge Edge, handler func()) error
	ClearIRQ() error
}

// PinFactory supplies GPIO pins by board GPIO number.
type PinFactory interface {
	ByNumber(n int) (GPIOPin, bool)
}

func (e Edge) String() string {
	switch e {
	case EdgeRising:
		return "rising"
	case EdgeFalling:
		return "falling"
	case EdgeBoth:
		return "both"
	default:
		return "none"
	}
}

// ParsePull maps a setup string to a Pull; anything unknown is PullNone.
func ParsePull(s string) Pull {
	switch s {
	case "up":
		return PullUp
	case "down":
		return PullDown
	default:
		return PullNone
	}
}
