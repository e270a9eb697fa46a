package keyboard

import (
	"kbdcore-go/services/keyboard/keymap"
	"kbdcore-go/types"
)

// Aggregate decodes one frame of coordinates into a fresh KeysState.
func Aggregate(coords []types.Point, table *keymap.Table, capsLocked bool) types.KeysState {
	var st types.KeysState
	AggregateInto(&st, coords, table, capsLocked)
	return st
}

// AggregateInto is Aggregate writing into dst, reusing its slices.
//
// The first pass classifies every key in scan order: modifiers set their
// flag and mask bit, tab/backspace/enter emit their raw HID code, and every
// other key (space included) emits its translated HID code. The second pass
// picks the printable symbols once the frame's final ctrl/shift state is
// known, so the result does not depend on where a modifier sits in the scan.
// Coordinates outside the table are ignored; a nil table means the
// Cardputer layout.
func AggregateInto(dst *types.KeysState, coords []types.Point, table *keymap.Table, capsLocked bool) {
	dst.Reset()
	if table == nil {
		table = &keymap.Cardputer
	}

	for _, p := range coords {
		if !inTable(p) {
			continue
		}
		code := table.At(p).First
		switch code {
		case types.KeyFn:
			dst.Fn = true
		case types.KeyOpt:
			dst.Opt = true
		case types.KeyLeftCtrl:
			dst.Ctrl = true
			addModifier(dst, code)
		case types.KeyLeftShift:
			dst.Shift = true
			addModifier(dst, code)
		case types.KeyLeftAlt:
			dst.Alt = true
			addModifier(dst, code)
		case types.KeyTab:
			dst.Tab = true
			dst.HIDKeys = append(dst.HIDKeys, code)
		case types.KeyBackspace:
			dst.Del = true
			dst.HIDKeys = append(dst.HIDKeys, code)
		case types.KeyEnter:
			dst.Enter = true
			dst.HIDKeys = append(dst.HIDKeys, code)
		default:
			if code == types.KeySpace {
				dst.Space = true
			}
			if hid := keymap.ASCIIToHID(code); hid != 0 {
				dst.HIDKeys = append(dst.HIDKeys, hid)
			}
		}
	}

	second := dst.Ctrl || dst.Shift || capsLocked
	for _, p := range coords {
		if !inTable(p) {
			continue
		}
		kv := table.At(p)
		if !printable(kv.First) {
			continue
		}
		if second {
			dst.Word = append(dst.Word, kv.Second)
		} else {
			dst.Word = append(dst.Word, kv.First)
		}
	}
}

func addModifier(dst *types.KeysState, code byte) {
	dst.ModifierKeys = append(dst.ModifierKeys, code)
	dst.Modifiers |= 1 << (code - types.ModifierBase)
}

// printable reports whether a First code reaches the word buffer.
func printable(code byte) bool {
	switch code {
	case types.KeyFn, types.KeyOpt,
		types.KeyLeftCtrl, types.KeyLeftShift, types.KeyLeftAlt,
		types.KeyTab, types.KeyBackspace, types.KeyEnter:
		return false
	}
	return true
}

func inTable(p types.Point) bool {
	return p.Valid() && p.X < keymap.Cols && p.Y < keymap.Rows
}
