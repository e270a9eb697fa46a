// Package platform binds a board setup to the hardware it runs on: GPIO and
// I2C factories for the readers and the console writer for logs. Firmware
// builds pick the board with a build tag; host builds emulate it.
package platform

import "kbdcore-go/services/hal/platform/setups"

// Selected returns the board chosen at build time. Builds without a board
// tag get an empty setup, which leaves the keyboard without a reader.
func Selected() setups.Board { return selected }
