package sim

import (
	"errors"
	"sync"

	"kbdcore-go/drivers/tca8418"
)

// ErrShortTx is returned for transactions the emulated chip cannot parse.
var ErrShortTx = errors.New("tca8418 sim: malformed transaction")

// TCA8418 emulates the register file, key FIFO and active-low INT output of a
// TCA8418. Attach it to an I2C at tca8418.AddressDefault.
type TCA8418 struct {
	mu   sync.Mutex
	regs [0x2F]byte
	fifo []byte
	ptr  byte // register pointer for reads

	intPin *Pin

	// Offline makes every transaction fail, as an absent device would.
	Offline bool

	// BeforeIntClear runs (without the chip lock held) before a write to
	// INT_STAT is applied. Tests use it to land an event in the window
	// between a drain and the interrupt clear.
	BeforeIntClear func()
}

// NewTCA8418 returns a chip in its power-on state. intPin, when non-nil, is
// driven low while INT_STAT has an enabled source pending.
func NewTCA8418(intPin *Pin) *TCA8418 {
	c := &TCA8418{intPin: intPin}
	if intPin != nil {
		intPin.Drive(true)
	}
	return c
}

func (c *TCA8418) Tx(w, r []byte) error {
	c.mu.Lock()
	if c.Offline {
		c.mu.Unlock()
		return ErrNack
	}
	if len(w) == 0 {
		c.mu.Unlock()
		return ErrShortTx
	}
	reg := w[0]
	if int(reg) >= len(c.regs) {
		c.mu.Unlock()
		return ErrShortTx
	}
	c.ptr = reg
	if len(w) >= 2 {
		if reg == tca8418.RegIntStat {
			hook := c.BeforeIntClear
			c.mu.Unlock()
			if hook != nil {
				hook()
			}
			c.mu.Lock()
		}
		c.writeLocked(reg, w[1])
	}
	for i := range r {
		r[i] = c.readLocked(c.ptr)
		if c.regs[tca8418.RegCfg]&tca8418.CfgAI != 0 && c.ptr != tca8418.RegKeyEventA {
			c.ptr++
		}
	}
	low := c.intAssertedLocked()
	c.mu.Unlock()
	c.driveInt(low)
	return nil
}

func (c *TCA8418) readLocked(reg byte) byte {
	switch reg {
	case tca8418.RegKeyLckEC:
		return byte(len(c.fifo)) & 0x0F
	case tca8418.RegKeyEventA:
		if len(c.fifo) == 0 {
			return 0
		}
		ev := c.fifo[0]
		c.fifo = c.fifo[1:]
		return ev
	case tca8418.RegGPIOIntStat1, tca8418.RegGPIOIntStat2, tca8418.RegGPIOIntStat3:
		v := c.regs[reg]
		c.regs[reg] = 0 // clear on read
		return v
	}
	return c.regs[reg]
}

func (c *TCA8418) writeLocked(reg, val byte) {
	switch reg {
	case tca8418.RegIntStat:
		c.regs[reg] &^= val
		// K_INT stays latched while the FIFO holds events.
		if len(c.fifo) > 0 && c.regs[tca8418.RegCfg]&tca8418.CfgKEIE != 0 {
			c.regs[reg] |= tca8418.IntStatKInt
		}
	case tca8418.RegKeyLckEC, tca8418.RegKeyEventA:
		// read-only
	default:
		c.regs[reg] = val
	}
}

func (c *TCA8418) intAssertedLocked() bool {
	st := c.regs[tca8418.RegIntStat]
	cfg := c.regs[tca8418.RegCfg]
	return (st&tca8418.IntStatKInt != 0 && cfg&tca8418.CfgKEIE != 0) ||
		(st&tca8418.IntStatGPIInt != 0 && cfg&tca8418.CfgGPIIE != 0) ||
		(st&tca8418.IntStatOvrFlowInt != 0 && cfg&tca8418.CfgOvrFlowIE != 0)
}

func (c *TCA8418) driveInt(asserted bool) {
	if c.intPin != nil {
		c.intPin.Drive(!asserted)
	}
}

// Press queues a press event for the controller-native (row, col).
func (c *TCA8418) Press(row, col uint8) bool { return c.push(row, col, false) }

// Release queues a release event for the controller-native (row, col).
func (c *TCA8418) Release(row, col uint8) bool { return c.push(row, col, true) }

// PushRaw queues an arbitrary event byte, bypassing the matrix check.
func (c *TCA8418) PushRaw(ev byte) {
	c.mu.Lock()
	c.enqueueLocked(ev)
	low := c.intAssertedLocked()
	c.mu.Unlock()
	c.driveInt(low)
}

// push reports false when (row, col) is outside the configured keypad.
func (c *TCA8418) push(row, col uint8, release bool) bool {
	c.mu.Lock()
	if !c.inMatrixLocked(row, col) {
		c.mu.Unlock()
		return false
	}
	ev := row*tca8418.MaxCols + col + 1
	if release {
		ev |= 0x80
	}
	c.enqueueLocked(ev)
	low := c.intAssertedLocked()
	c.mu.Unlock()
	c.driveInt(low)
	return true
}

func (c *TCA8418) inMatrixLocked(row, col uint8) bool {
	if row >= tca8418.MaxRows || col >= tca8418.MaxCols {
		return false
	}
	if c.regs[tca8418.RegKpGPIO1]&(1<<row) == 0 {
		return false
	}
	if col < 8 {
		return c.regs[tca8418.RegKpGPIO2]&(1<<col) != 0
	}
	return c.regs[tca8418.RegKpGPIO3]&(1<<(col-8)) != 0
}

func (c *TCA8418) enqueueLocked(ev byte) {
	if len(c.fifo) >= tca8418.FIFODepth {
		c.regs[tca8418.RegIntStat] |= tca8418.IntStatOvrFlowInt
		if c.regs[tca8418.RegCfg]&tca8418.CfgOvrFlowM == 0 {
			return
		}
		c.fifo = c.fifo[1:]
	}
	c.fifo = append(c.fifo, ev)
	c.regs[tca8418.RegIntStat] |= tca8418.IntStatKInt
}

// Reg returns the raw value of a register without side effects.
func (c *TCA8418) Reg(reg byte) byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.regs[reg]
}

// Pending returns the number of queued events.
func (c *TCA8418) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.fifo)
}
