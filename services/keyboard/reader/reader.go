// Package reader holds the keyboard matrix backends. Every backend turns its
// hardware's electrical events into the shared logical coordinate space and
// hands back the keys held in the current frame.
package reader

import (
	"fmt"
	"log/slog"
	"sync"

	"kbdcore-go/errcode"
	"kbdcore-go/services/hal/halcore"
	"kbdcore-go/types"
)

// Reader is the capability every backend implements.
//
// UpdateKeyList overwrites dst[:0] with the keys held in this frame, in
// hardware scan order, and returns the resulting slice. Callers keep passing
// the returned slice back in to avoid allocations.
type Reader interface {
	Begin() error
	UpdateKeyList(dst []types.Point) []types.Point
}

// Null never reports a key. It stands in for unsupported boards.
type Null struct{}

func (Null) Begin() error                                  { return nil }
func (Null) UpdateKeyList(dst []types.Point) []types.Point { return dst[:0] }

// ---- Builders ----

// Resources are the hardware handles a builder may claim.
type Resources struct {
	Pins halcore.PinFactory
	I2C  halcore.I2CBusFactory
}

// BuilderInput carries one ReaderSetup plus the injected resources.
type BuilderInput struct {
	Params any
	Res    Resources
	Log    *slog.Logger
}

type Builder interface {
	Build(in BuilderInput) (Reader, error)
}

var (
	regMu    sync.RWMutex
	builders = map[string]Builder{}
)

// RegisterBuilder makes a backend selectable by type name. Called from init.
func RegisterBuilder(typ string, b Builder) {
	regMu.Lock()
	defer regMu.Unlock()
	if _, exists := builders[typ]; exists {
		panic(fmt.Sprintf("duplicate reader builder: %s", typ))
	}
	builders[typ] = b
}

func lookupBuilder(typ string) (Builder, bool) {
	regMu.RLock()
	defer regMu.RUnlock()
	b, ok := builders[typ]
	return b, ok
}

// Build constructs the backend named by setup.
func Build(setup types.ReaderSetup, res Resources, log *slog.Logger) (Reader, error) {
	b, ok := lookupBuilder(setup.Type)
	if !ok {
		return nil, &errcode.E{C: errcode.UnknownReader, Op: "reader.build", Msg: setup.Type}
	}
	if log == nil {
		log = discard()
	}
	return b.Build(BuilderInput{Params: setup.Params, Res: res, Log: log.With("reader", setup.Type)})
}

func discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
