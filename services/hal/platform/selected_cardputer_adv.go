//go:build board_cardputer_adv && !board_cardputer

package platform

import "kbdcore-go/services/hal/platform/setups"

var selected = setups.CardputerADV
