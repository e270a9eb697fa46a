// Register addresses and bitfields of the TCA8418 keypad scan controller.
package tca8418

const (
	// 7-bit I2C address (fixed).
	AddressDefault = 0x34

	// Matrix limits: ROW0..ROW7 and COL0..COL9.
	MaxRows = 8
	MaxCols = 10

	// Depth of the on-chip key event FIFO.
	FIFODepth = 10

	// --- Register sub-addresses (8-bit registers) ---

	RegCfg        = 0x01 // R/W
	RegIntStat    = 0x02 // R/W1C
	RegKeyLckEC   = 0x03 // R, bits 3:0 = event count
	RegKeyEventA  = 0x04 // R, FIFO head
	RegKeyEventJ  = 0x0D
	RegKpLckTimer = 0x0E
	RegUnlock1    = 0x0F
	RegUnlock2    = 0x10

	RegGPIOIntStat1 = 0x11 // R, clear on read
	RegGPIOIntStat2 = 0x12
	RegGPIOIntStat3 = 0x13
	RegGPIODatStat1 = 0x14
	RegGPIODatStat2 = 0x15
	RegGPIODatStat3 = 0x16
	RegGPIODatOut1  = 0x17
	RegGPIODatOut2  = 0x18
	RegGPIODatOut3  = 0x19
	RegGPIOIntEn1   = 0x1A
	RegGPIOIntEn2   = 0x1B
	RegGPIOIntEn3   = 0x1C
	RegKpGPIO1      = 0x1D // ROW7..ROW0 in keypad matrix
	RegKpGPIO2      = 0x1E // COL7..COL0 in keypad matrix
	RegKpGPIO3      = 0x1F // COL9..COL8 in keypad matrix
	RegGPIEM1       = 0x20
	RegGPIEM2       = 0x21
	RegGPIEM3       = 0x22
	RegGPIODir1     = 0x23
	RegGPIODir2     = 0x24
	RegGPIODir3     = 0x25
	RegGPIOIntLvl1  = 0x26
	RegGPIOIntLvl2  = 0x27
	RegGPIOIntLvl3  = 0x28
	RegDebounceDis1 = 0x29
	RegDebounceDis2 = 0x2A
	RegDebounceDis3 = 0x2B
	RegGPIOPull1    = 0x2C
	RegGPIOPull2    = 0x2D
	RegGPIOPull3    = 0x2E
)

// CFG register bits.
const (
	CfgAI        = 0x80 // auto-increment
	CfgGPIECfg   = 0x40
	CfgOvrFlowM  = 0x20 // overflow mode: 1 = wrap FIFO
	CfgIntCfg    = 0x10 // INT de-asserts for 50us when events remain
	CfgOvrFlowIE = 0x08
	CfgKLckIE    = 0x04
	CfgGPIIE     = 0x02
	CfgKEIE      = 0x01
)

// INT_STAT register bits (write 1 to clear).
const (
	IntStatKInt       = 0x01
	IntStatGPIInt     = 0x02
	IntStatKLckInt    = 0x04
	IntStatOvrFlowInt = 0x08
	IntStatCADInt     = 0x10
)

// Key event byte layout.
const (
	eventReleased = 0x80 // bit 7: 0 = press, 1 = release
	eventKeyMask  = 0x7F // bits 6:0: 1-based key index, 0 = empty

	eventCountMask = 0x0F
)
