// Package tca8418 provides a minimal TinyGo driver for the TCA8418 I2C keypad
// scan controller.
//
// Design notes (datasheet references):
// • 8 rows x 10 columns max; keys are reported through a 10-deep FIFO.
// • Event byte: bit 7 = release flag, bits 6:0 = key index (row*10 + col + 1).
// • INT is active-low; INT_STAT bits are write-1-to-clear.
// • No bus traffic is allowed from interrupt context: callers watch the INT
//   line themselves and drain events from thread context.
package tca8418

import (
	"errors"

	"tinygo.org/x/drivers"
)

var (
	ErrNotFound   = errors.New("tca8418: device not responding")
	ErrMatrixSize = errors.New("tca8418: matrix size out of range")
)

// Config controls non-hardware behaviour. All fields are optional.
type Config struct {
	// Address defaults to 0x34 if zero.
	Address uint16
}

// Device wraps an I2C connection to a TCA8418.
type Device struct {
	i2c  drivers.I2C
	addr uint16

	// Fixed buffers to avoid per-call heap allocations.
	w [2]byte
	r [1]byte
}

// New creates a Device. The I2C bus must already be configured. This function
// does not touch the device.
func New(i2c drivers.I2C, cfg Config) *Device {
	addr := cfg.Address
	if addr == 0 {
		addr = AddressDefault
	}
	return &Device{i2c: i2c, addr: addr}
}

// Address returns the 7-bit bus address in use.
func (d *Device) Address() uint16 { return d.addr }

// Configure probes the device and resets the GPIO block to inputs that report
// into the key event FIFO with falling-edge interrupts, matching the power-on
// state expected by Matrix.
func (d *Device) Configure() error {
	if _, err := d.readReg(RegCfg); err != nil {
		return errors.Join(ErrNotFound, err)
	}
	init := [...]struct{ reg, val byte }{
		// all GPIO pins to input
		{RegGPIODir1, 0x00},
		{RegGPIODir2, 0x00},
		{RegGPIODir3, 0x00},
		// add all pins to key events
		{RegGPIEM1, 0xFF},
		{RegGPIEM2, 0xFF},
		{RegGPIEM3, 0xFF},
		// falling-edge interrupts
		{RegGPIOIntLvl1, 0x00},
		{RegGPIOIntLvl2, 0x00},
		{RegGPIOIntLvl3, 0x00},
		// add all pins to interrupts
		{RegGPIOIntEn1, 0xFF},
		{RegGPIOIntEn2, 0xFF},
		{RegGPIOIntEn3, 0xFF},
	}
	for _, kv := range init {
		if err := d.writeReg(kv.reg, kv.val); err != nil {
			return err
		}
	}
	return nil
}

// Matrix assigns the first rows ROW pins and cols COL pins to the keypad scan.
// A zero dimension leaves the keypad configuration untouched.
func (d *Device) Matrix(rows, cols uint8) error {
	if rows > MaxRows || cols > MaxCols {
		return ErrMatrixSize
	}
	if rows == 0 || cols == 0 {
		return nil
	}
	if err := d.writeReg(RegKpGPIO1, lowMask(rows)); err != nil {
		return err
	}
	c := cols
	if c > 8 {
		c = 8
	}
	if err := d.writeReg(RegKpGPIO2, lowMask(c)); err != nil {
		return err
	}
	if cols > 8 {
		return d.writeReg(RegKpGPIO3, lowMask(cols-8))
	}
	return nil
}

// lowMask returns n low bits set (n <= 8).
func lowMask(n uint8) byte {
	if n >= 8 {
		return 0xFF
	}
	return byte(1)<<n - 1
}

// EnableInterrupts turns on INT generation for key and GPI events.
func (d *Device) EnableInterrupts() error {
	return d.modifyReg(RegCfg, CfgGPIIE|CfgKEIE, 0)
}

// DisableInterrupts turns off INT generation for key and GPI events.
func (d *Device) DisableInterrupts() error {
	return d.modifyReg(RegCfg, 0, CfgGPIIE|CfgKEIE)
}

// Available returns the number of events queued in the FIFO.
func (d *Device) Available() (int, error) {
	v, err := d.readReg(RegKeyLckEC)
	if err != nil {
		return 0, err
	}
	return int(v & eventCountMask), nil
}

// GetEvent pops the FIFO head. Zero means the FIFO is empty.
func (d *Device) GetEvent() (byte, error) {
	return d.readReg(RegKeyEventA)
}

// Flush drains the FIFO, reads the GPIO interrupt latches and clears
// INT_STAT. It returns the number of discarded events.
func (d *Device) Flush() (int, error) {
	n := 0
	for n < FIFODepth {
		ev, err := d.GetEvent()
		if err != nil {
			return n, err
		}
		if ev == 0 {
			break
		}
		n++
	}
	for _, reg := range [...]byte{RegGPIOIntStat1, RegGPIOIntStat2, RegGPIOIntStat3} {
		if _, err := d.readReg(reg); err != nil {
			return n, err
		}
	}
	return n, d.writeReg(RegIntStat, IntStatKInt|IntStatGPIInt)
}

// ReadRegister reads one 8-bit register.
func (d *Device) ReadRegister(reg byte) (byte, error) { return d.readReg(reg) }

// WriteRegister writes one 8-bit register.
func (d *Device) WriteRegister(reg, val byte) error { return d.writeReg(reg, val) }

// ---------------- Events ----------------

// Event is a decoded FIFO entry.
type Event byte

// Pressed reports whether the event is a key press (bit 7 clear).
func (e Event) Pressed() bool { return byte(e)&eventReleased == 0 }

// Key returns the 1-based key index; 0 marks an empty or invalid entry.
func (e Event) Key() uint8 { return byte(e) & eventKeyMask }

// RowCol splits a valid key index into controller-native row and column.
// The controller addresses its matrix with a 10-wide stride whatever the
// configured column count. ok is false for index 0.
func (e Event) RowCol() (row, col uint8, ok bool) {
	k := e.Key()
	if k == 0 {
		return 0, 0, false
	}
	k--
	return k / MaxCols, k % MaxCols, true
}
