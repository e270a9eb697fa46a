//go:build !rp2040 && !rp2350

package platform

import (
	"io"
	"os"

	"kbdcore-go/services/hal/platform/setups"
)

// Console returns the log sink. On host builds this is stderr.
func Console(setups.UARTPlan) io.Writer { return os.Stderr }
