// Package keyboard turns the key list of the active reader into per-frame
// key state: modifier flags, the printable word and the HID code list.
package keyboard

import (
	"log/slog"

	"kbdcore-go/errcode"
	"kbdcore-go/services/keyboard/keymap"
	"kbdcore-go/services/keyboard/reader"
	"kbdcore-go/types"
)

type Config struct {
	Table *keymap.Table // nil => keymap.Cardputer
	Log   *slog.Logger
}

// Keyboard owns one reader, the frame's key list and the last decoded
// state. It is not safe for concurrent use; the keyboard service drives it
// from a single goroutine.
type Keyboard struct {
	table  *keymap.Table
	log    *slog.Logger
	reader reader.Reader
	name   string
	err    error

	keys      []types.Point
	state     types.KeysState
	caps      bool
	lastCount int
}

func New(cfg Config) *Keyboard {
	if cfg.Table == nil {
		cfg.Table = &keymap.Cardputer
	}
	if cfg.Log == nil {
		cfg.Log = slog.New(slog.DiscardHandler)
	}
	return &Keyboard{
		table: cfg.Table,
		log:   cfg.Log,
		keys:  make([]types.Point, 0, keymap.Rows*keymap.Cols),
	}
}

// Begin builds the reader named by setup and starts it. An empty or unknown
// reader type leaves the keyboard on a reader that never reports keys; the
// error is logged and returned, and the keyboard stays usable.
func (k *Keyboard) Begin(setup types.ReaderSetup, res reader.Resources) error {
	if setup.Type == "" {
		err := &errcode.E{C: errcode.Unsupported, Op: "keyboard.begin", Msg: "board has no keyboard reader"}
		k.log.Error("unsupported board", "err", err)
		k.name = "none"
		k.reader = reader.Null{}
		k.err = err
		return err
	}
	r, err := reader.Build(setup, res, k.log)
	if err != nil {
		k.log.Error("reader build failed", "type", setup.Type, "err", err)
		k.name = "none"
		k.reader = reader.Null{}
		k.err = err
		return err
	}
	k.name = setup.Type
	return k.begin(r)
}

// BeginWith starts an injected reader.
func (k *Keyboard) BeginWith(r reader.Reader) error {
	k.name = "custom"
	return k.begin(r)
}

// begin keeps r only when it started; a failed reader is replaced by
// reader.Null so no backend is polled half-configured.
func (k *Keyboard) begin(r reader.Reader) error {
	k.reader = r
	k.err = r.Begin()
	if k.err != nil {
		k.log.Error("reader begin failed", "reader", k.name, "err", k.err)
		k.reader = reader.Null{}
	}
	return k.err
}

// Reader is the name of the active backend ("none" when degraded).
func (k *Keyboard) Reader() string { return k.name }

// Err returns the error from the last Begin, if any.
func (k *Keyboard) Err() error { return k.err }

// Update refreshes the key list from the reader.
func (k *Keyboard) Update() {
	if k.reader == nil {
		k.keys = k.keys[:0]
		return
	}
	k.keys = k.reader.UpdateKeyList(k.keys)
}

// UpdateKeysState decodes the current key list.
func (k *Keyboard) UpdateKeysState() {
	AggregateInto(&k.state, k.keys, k.table, k.caps)
}

// KeysState returns the last decoded state. Its slices are reused by the
// next UpdateKeysState; Clone it to keep it.
func (k *Keyboard) KeysState() types.KeysState { return k.state }

// KeyList returns the keys held in the current frame, in scan order.
func (k *Keyboard) KeyList() []types.Point { return k.keys }

// GetKeyValue returns the symbol pair at p, or the zero pair for a position
// outside the table.
func (k *Keyboard) GetKeyValue(p types.Point) types.KeyValue {
	return k.table.At(p)
}

// GetKey resolves p to the symbol selected by the last decoded ctrl/shift
// state and caps lock. Negative coordinates give 0.
func (k *Keyboard) GetKey(p types.Point) byte {
	if !p.Valid() {
		return 0
	}
	kv := k.table.At(p)
	if k.state.Ctrl || k.state.Shift || k.caps {
		return kv.Second
	}
	return kv.First
}

// IsPressed returns the number of keys held.
func (k *Keyboard) IsPressed() int { return len(k.keys) }

func (k *Keyboard) IsAnyKeyPressed() bool { return len(k.keys) > 0 }

// IsKeyPressed reports whether any held key currently resolves to c.
func (k *Keyboard) IsKeyPressed(c byte) bool {
	for _, p := range k.keys {
		if k.GetKey(p) == c {
			return true
		}
	}
	return false
}

// IsChange reports whether the number of held keys differs from the last
// call. Replacing one key with another in the same frame is not a change.
func (k *Keyboard) IsChange() bool {
	n := len(k.keys)
	if n == k.lastCount {
		return false
	}
	k.lastCount = n
	return true
}

func (k *Keyboard) SetCapsLocked(on bool) { k.caps = on }
func (k *Keyboard) CapsLocked() bool      { return k.caps }
