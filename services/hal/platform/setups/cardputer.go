package setups

import (
	"kbdcore-go/services/keyboard/reader"
	"kbdcore-go/types"
)

// Cardputer scans its 4x14 keyboard through a 3-bit selector and seven
// sense lines.
var Cardputer = register(Board{
	Setup: types.BoardSetup{
		Board: "cardputer",
		Reader: types.ReaderSetup{
			Type: "iomatrix",
			Params: reader.IOMatrixParams{
				Outputs: [3]int{8, 9, 11},
				Inputs:  [7]int{13, 15, 3, 4, 5, 6, 7},
			},
		},
	},
	Plan: ResourcePlan{
		Console: UARTPlan{ID: "uart0", TX: 0, RX: 1, Baud: 115200},
	},
})
