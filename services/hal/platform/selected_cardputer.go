//go:build board_cardputer

package platform

import "kbdcore-go/services/hal/platform/setups"

var selected = setups.Cardputer
