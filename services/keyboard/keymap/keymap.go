// Package keymap holds the static symbol tables: the 4x14 Cardputer layout
// and the ASCII to HID usage translation.
package keymap

import "kbdcore-go/types"

const (
	Rows = 4
	Cols = 14
)

// Table binds every logical (x, y) position to its symbol pair. It is
// indexed [y][x] and read-only once built.
type Table [Rows][Cols]types.KeyValue

// At returns the pair at p, or the zero pair when p is outside the table.
func (t *Table) At(p types.Point) types.KeyValue {
	if t == nil || !p.Valid() || p.Y >= Rows || p.X >= Cols {
		return types.KeyValue{}
	}
	return t[p.Y][p.X]
}

func kv(c byte) types.KeyValue      { return types.KeyValue{First: c, Second: c} }
func pair(a, b byte) types.KeyValue { return types.KeyValue{First: a, Second: b} }

// Cardputer is the factory layout of the Cardputer and Cardputer ADV.
var Cardputer = Table{
	{pair('`', '~'), pair('1', '!'), pair('2', '@'), pair('3', '#'), pair('4', '$'), pair('5', '%'), pair('6', '^'),
		pair('7', '&'), pair('8', '*'), pair('9', '('), pair('0', ')'), pair('-', '_'), pair('=', '+'), kv(types.KeyBackspace)},
	{kv(types.KeyTab), pair('q', 'Q'), pair('w', 'W'), pair('e', 'E'), pair('r', 'R'), pair('t', 'T'), pair('y', 'Y'),
		pair('u', 'U'), pair('i', 'I'), pair('o', 'O'), pair('p', 'P'), pair('[', '{'), pair(']', '}'), pair('\\', '|')},
	{kv(types.KeyFn), kv(types.KeyLeftShift), pair('a', 'A'), pair('s', 'S'), pair('d', 'D'), pair('f', 'F'), pair('g', 'G'),
		pair('h', 'H'), pair('j', 'J'), pair('k', 'K'), pair('l', 'L'), pair(';', ':'), pair('\'', '"'), kv(types.KeyEnter)},
	{kv(types.KeyLeftCtrl), kv(types.KeyOpt), kv(types.KeyLeftAlt), pair('z', 'Z'), pair('x', 'X'), pair('c', 'C'), pair('v', 'V'),
		pair('b', 'B'), pair('n', 'N'), pair('m', 'M'), pair(',', '<'), pair('.', '>'), pair('/', '?'), kv(types.KeySpace)},
}

// Find returns the first position whose First or Second value is c.
func (t *Table) Find(c byte) (types.Point, bool) {
	for y := range t {
		for x, v := range t[y] {
			if v.First == c || v.Second == c {
				return types.Point{X: x, Y: y}, true
			}
		}
	}
	return types.Point{X: -1, Y: -1}, false
}
