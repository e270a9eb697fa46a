package tca8418

// Single-byte register access. The controller auto-increments only when
// CfgAI is set; these helpers never rely on it.

func (d *Device) readReg(reg byte) (byte, error) {
	d.w[0] = reg
	if err := d.i2c.Tx(d.addr, d.w[:1], d.r[:1]); err != nil {
		return 0, err
	}
	return d.r[0], nil
}

func (d *Device) writeReg(reg, val byte) error {
	d.w[0] = reg
	d.w[1] = val
	return d.i2c.Tx(d.addr, d.w[:2], nil)
}

// modifyReg is the read-modify-write pattern for bitmask registers.
func (d *Device) modifyReg(reg, set, clear byte) error {
	cur, err := d.readReg(reg)
	if err != nil {
		return err
	}
	return d.writeReg(reg, (cur|set)&^clear)
}
