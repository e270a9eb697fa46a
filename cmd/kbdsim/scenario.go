package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/shlex"
	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"

	"kbdcore-go/services/keyboard/keymap"
	"kbdcore-go/types"
)

// Scenario is a scripted key sequence. Every frame lists the keys held at
// that poll, as shell-style words: modifier names or single characters.
type Scenario struct {
	Board  string   `yaml:"board" toml:"board" json:"board"`
	Caps   bool     `yaml:"caps" toml:"caps" json:"caps"`
	Frames []string `yaml:"frames" toml:"frames" json:"frames"`
}

// LoadScenario reads a YAML (.yaml, .yml) or TOML (.toml) scenario.
func LoadScenario(path string) (Scenario, error) {
	var sc Scenario
	data, err := os.ReadFile(path)
	if err != nil {
		return sc, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &sc)
	case ".toml":
		err = toml.Unmarshal(data, &sc)
	default:
		return sc, fmt.Errorf("scenario %s: unsupported format", path)
	}
	if err != nil {
		return sc, fmt.Errorf("scenario %s: %w", path, err)
	}
	return sc, nil
}

var namedKeys = map[string]byte{
	"ctrl":      types.KeyLeftCtrl,
	"shift":     types.KeyLeftShift,
	"alt":       types.KeyLeftAlt,
	"fn":        types.KeyFn,
	"opt":       types.KeyOpt,
	"tab":       types.KeyTab,
	"enter":     types.KeyEnter,
	"bksp":      types.KeyBackspace,
	"backspace": types.KeyBackspace,
	"space":     types.KeySpace,
}

// ParseFrame resolves one frame line to table positions, in the order
// written.
func ParseFrame(line string, table *keymap.Table) ([]types.Point, error) {
	words, err := shlex.Split(line)
	if err != nil {
		return nil, fmt.Errorf("frame %q: %w", line, err)
	}
	keys := make([]types.Point, 0, len(words))
	for _, w := range words {
		p, ok := lookupKey(w, table)
		if !ok {
			return nil, fmt.Errorf("frame %q: no key %q", line, w)
		}
		keys = append(keys, p)
	}
	return keys, nil
}

func lookupKey(word string, table *keymap.Table) (types.Point, bool) {
	if code, ok := namedKeys[strings.ToLower(word)]; ok {
		return findFirst(code, table)
	}
	if len(word) == 1 {
		return table.Find(word[0])
	}
	return types.Point{}, false
}

// findFirst matches on First only: sentinel codes overlap printable ASCII
// in the Second column of other keys.
func findFirst(code byte, table *keymap.Table) (types.Point, bool) {
	for y := range table {
		for x, v := range table[y] {
			if v.First == code {
				return types.Point{X: x, Y: y}, true
			}
		}
	}
	return types.Point{}, false
}
