package types

// ------------------------
// Coordinate model
// ------------------------

// Point is a key position in the logical coordinate space shared by every
// reader backend. Negative components mean "no key".
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Valid reports whether p addresses a key.
func (p Point) Valid() bool { return p.X >= 0 && p.Y >= 0 }

// KeyValue is the symbol pair bound to a Point: First is the unshifted value,
// Second is the value selected by shift, ctrl or caps lock. Either may be a
// sentinel key code (see KeyLeftCtrl and friends).
type KeyValue struct {
	First  byte `json:"first"`
	Second byte `json:"second"`
}

// Sentinel key codes stored in the symbol table. Modifier codes live in the
// reserved range starting at 0x80 so that 1<<(code-0x80) is their mask bit.
// Tab, backspace and enter are stored as their HID usage codes.
const (
	KeyLeftCtrl  byte = 0x80
	KeyLeftShift byte = 0x81
	KeyLeftAlt   byte = 0x82
	KeyFn        byte = 0xff
	KeyOpt       byte = 0x00

	KeyBackspace byte = 0x2a
	KeyTab       byte = 0x2b
	KeyEnter     byte = 0x28

	KeySpace byte = ' '

	ModifierBase byte = 0x80
)

// ------------------------
// Aggregated frame state
// ------------------------

// KeysState is the per-frame snapshot produced by the aggregator. It is
// rebuilt from scratch on every poll.
type KeysState struct {
	Tab   bool `json:"tab"`
	Fn    bool `json:"fn"`
	Shift bool `json:"shift"`
	Ctrl  bool `json:"ctrl"`
	Opt   bool `json:"opt"`
	Alt   bool `json:"alt"`
	Del   bool `json:"del"`
	Enter bool `json:"enter"`
	Space bool `json:"space"`

	// Modifiers has bit (code-0x80) set for every held ctrl/shift/alt.
	Modifiers uint8 `json:"modifiers"`

	Word         []byte `json:"word"`          // printable bytes, scan order
	HIDKeys      []byte `json:"hid_keys"`      // HID usage codes, scan order
	ModifierKeys []byte `json:"modifier_keys"` // raw modifier codes, scan order
}

// Reset clears every field while keeping slice capacity.
func (s *KeysState) Reset() {
	*s = KeysState{
		Word:         s.Word[:0],
		HIDKeys:      s.HIDKeys[:0],
		ModifierKeys: s.ModifierKeys[:0],
	}
}

// Clone returns a copy that does not share slices with s.
func (s KeysState) Clone() KeysState {
	c := s
	c.Word = append([]byte(nil), s.Word...)
	c.HIDKeys = append([]byte(nil), s.HIDKeys...)
	c.ModifierKeys = append([]byte(nil), s.ModifierKeys...)
	return c
}

// ------------------------
// Bus payloads
// ------------------------

// KeyboardFrame is published on hal/keyboard/state when the key count changes.
type KeyboardFrame struct {
	Keys  []Point   `json:"keys"`
	State KeysState `json:"state"`
	TS    int64     `json:"ts_ms"`
}

// KeyboardStatus is published (retained) on hal/keyboard/status.
type KeyboardStatus struct {
	Link   Link   `json:"link"`
	Reader string `json:"reader"`          // "iomatrix", "tca8418", "none"
	Error  string `json:"error,omitempty"` // errcode string
	TS     int64  `json:"ts_ms"`
}
