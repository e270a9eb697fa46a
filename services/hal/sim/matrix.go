package sim

import "sync"

// Matrix emulates a selector-multiplexed key matrix: the MCU drives a binary
// selector on the output lines and every input line reads low while a key at
// (selector, input) is held. Inputs idle high through their pull-ups.
type Matrix struct {
	mu      sync.Mutex
	outs    []*Pin
	ins     []*Pin
	pressed []uint32 // per selector value, bit j = input j held
}

// NewMatrix wires outs as selector bits (outs[0] = bit 0) and ins as the
// sensed lines.
func NewMatrix(outs, ins []*Pin) *Matrix {
	m := &Matrix{
		outs:    outs,
		ins:     ins,
		pressed: make([]uint32, 1<<len(outs)),
	}
	for j, in := range ins {
		j := j
		in.setSource(func() bool { return !m.held(j) })
	}
	return m
}

// Selectors returns the number of selector states.
func (m *Matrix) Selectors() int { return len(m.pressed) }

// Inputs returns the number of sensed lines.
func (m *Matrix) Inputs() int { return len(m.ins) }

func (m *Matrix) selector() int {
	s := 0
	for i, p := range m.outs {
		if p.Get() {
			s |= 1 << i
		}
	}
	return s
}

func (m *Matrix) held(input int) bool {
	sel := m.selector()
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pressed[sel]&(1<<input) != 0
}

// Press holds the key at (selector, input). Out-of-range positions are ignored.
func (m *Matrix) Press(selector, input int) {
	m.set(selector, input, true)
}

// Release lets go of the key at (selector, input).
func (m *Matrix) Release(selector, input int) {
	m.set(selector, input, false)
}

// ReleaseAll lets go of every key.
func (m *Matrix) ReleaseAll() {
	m.mu.Lock()
	for i := range m.pressed {
		m.pressed[i] = 0
	}
	m.mu.Unlock()
}

func (m *Matrix) set(selector, input int, down bool) {
	if selector < 0 || selector >= len(m.pressed) || input < 0 || input >= len(m.ins) {
		return
	}
	m.mu.Lock()
	if down {
		m.pressed[selector] |= 1 << input
	} else {
		m.pressed[selector] &^= 1 << input
	}
	m.mu.Unlock()
}
