package setups

import (
	"kbdcore-go/drivers/tca8418"
	"kbdcore-go/services/keyboard/reader"
	"kbdcore-go/types"
)

// CardputerADV moves the keyboard behind a TCA8418 on i2c0 (SDA 8, SCL 9)
// with its INT line on GPIO 11.
var CardputerADV = register(Board{
	Setup: types.BoardSetup{
		Board: "cardputer_adv",
		Reader: types.ReaderSetup{
			Type: "tca8418",
			Params: reader.TCA8418Params{
				Bus:     "i2c0",
				Address: tca8418.AddressDefault,
				IntPin:  reader.DefaultIntPin,
				Rows:    7,
				Cols:    8,
			},
		},
	},
	Plan: ResourcePlan{
		I2C:     []I2CPlan{{ID: "i2c0", SDA: 8, SCL: 9, Hz: 400_000}},
		Console: UARTPlan{ID: "uart0", TX: 0, RX: 1, Baud: 115200},
	},
})
