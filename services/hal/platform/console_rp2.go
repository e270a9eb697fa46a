//go:build rp2040 || rp2350

package platform

import (
	"io"
	"machine"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"

	"kbdcore-go/services/hal/platform/setups"
)

// Console configures the planned UART and returns it as the log sink.
// Falls back to the USB CDC serial when the plan names no UART.
func Console(p setups.UARTPlan) io.Writer {
	var hw *uartx.UART
	switch p.ID {
	case "uart0":
		hw = uartx.UART0
	case "uart1":
		hw = uartx.UART1
	default:
		return machine.Serial
	}
	_ = hw.Configure(uartx.UARTConfig{
		BaudRate: p.Baud,
		TX:       machine.Pin(p.TX),
		RX:       machine.Pin(p.RX),
	})
	return hw
}
