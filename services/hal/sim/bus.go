package sim

import (
	"errors"
	"sync"
)

// ErrNack is returned for transactions addressed to a missing device.
var ErrNack = errors.New("i2c: nack")

// Target is an emulated I²C peripheral.
type Target interface {
	Tx(w, r []byte) error
}

// I2C implements tinygo drivers.I2C by dispatching on the 7-bit address.
type I2C struct {
	mu      sync.Mutex
	targets map[uint16]Target
	txCount int
}

func NewI2C() *I2C { return &I2C{targets: make(map[uint16]Target)} }

// Attach places t at addr, replacing any previous target.
func (b *I2C) Attach(addr uint16, t Target) {
	b.mu.Lock()
	b.targets[addr] = t
	b.mu.Unlock()
}

// Detach removes the target at addr.
func (b *I2C) Detach(addr uint16) {
	b.mu.Lock()
	delete(b.targets, addr)
	b.mu.Unlock()
}

func (b *I2C) Tx(addr uint16, w, r []byte) error {
	b.mu.Lock()
	t := b.targets[addr]
	b.txCount++
	b.mu.Unlock()
	if t == nil {
		return ErrNack
	}
	return t.Tx(w, r)
}

// TxCount returns the number of transactions issued so far.
func (b *I2C) TxCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.txCount
}
