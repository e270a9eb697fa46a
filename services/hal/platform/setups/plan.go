// Package setups describes the supported boards: which keyboard reader each
// carries, how it is wired, and which buses must be brought up for it.
package setups

import (
	"sort"

	"kbdcore-go/types"
)

type I2CPlan struct {
	ID       string // "i2c0", "i2c1"
	SDA, SCL int
	Hz       uint32
}

type UARTPlan struct {
	ID     string // "uart0", "uart1"
	TX, RX int
	Baud   uint32
}

// ResourcePlan lists the controllers the provider configures before any
// reader is built.
type ResourcePlan struct {
	I2C     []I2CPlan
	Console UARTPlan
}

type Board struct {
	Setup types.BoardSetup
	Plan  ResourcePlan
}

var known = map[string]Board{}

func register(b Board) Board {
	known[b.Setup.Board] = b
	return b
}

// ByName looks up a board by its setup name.
func ByName(name string) (Board, bool) {
	b, ok := known[name]
	return b, ok
}

// Names returns the known board names, sorted.
func Names() []string {
	out := make([]string, 0, len(known))
	for n := range known {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
