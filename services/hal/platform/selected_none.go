//go:build !board_cardputer && !board_cardputer_adv

package platform

import (
	"kbdcore-go/services/hal/platform/setups"
	"kbdcore-go/types"
)

var selected = setups.Board{Setup: types.BoardSetup{Board: "unknown"}}
