// Package levels holds the static level table: how many of the dealt cards
// are active at each level of a difficulty and how many points a match is
// worth there.
package levels

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Difficulty names one of the preset game modes.
type Difficulty string

const (
	None   Difficulty = "" // on the menu, no game in progress
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

const (
	// DefaultPoints is awarded for a match when the table has no entry
	// for the (difficulty, level) pair.
	DefaultPoints = 50

	// DefaultDisplayCount is the layout width used for unknown difficulties.
	DefaultDisplayCount = 4

	// HandSize is the number of cards dealt for a game.
	HandSize = 16
)

// Difficulties returns the selectable difficulties in menu order.
func Difficulties() []Difficulty {
	return []Difficulty{Easy, Medium, Hard}
}

// ParseDifficulty converts a name into a Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(s); d {
	case Easy, Medium, Hard:
		return d, nil
	default:
		return None, fmt.Errorf("levels: unknown difficulty %q", s)
	}
}

// Level is one stage of a difficulty.
type Level struct {
	Active int `yaml:"active" json:"active"`
	Points int `yaml:"points" json:"points"`
}

// Settings configures a single difficulty.
type Settings struct {
	Display int     `yaml:"display" json:"display"`
	Levels  []Level `yaml:"levels" json:"levels"`
}

// Table maps difficulties to their settings. Level N is Levels[N-1].
type Table struct {
	Difficulties map[Difficulty]Settings `yaml:"difficulties" json:"difficulties"`
}

// Default returns the built-in table.
func Default() *Table {
	return &Table{
		Difficulties: map[Difficulty]Settings{
			Easy: {
				Display: 4,
				Levels:  []Level{{4, 50}, {5, 60}, {7, 80}},
			},
			Medium: {
				Display: 6,
				Levels:  []Level{{7, 100}, {8, 120}, {10, 130}, {12, 150}},
			},
			Hard: {
				Display: 8,
				Levels:  []Level{{10, 180}, {12, 190}, {13, 200}, {14, 220}, {16, 250}},
			},
		},
	}
}

// Parse decodes and validates a YAML table.
func Parse(data []byte) (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("levels: parse: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Validate checks that every difficulty has at least one level and that
// active counts fit in a hand.
func (t *Table) Validate() error {
	if t == nil || len(t.Difficulties) == 0 {
		return fmt.Errorf("levels: table is empty")
	}
	for d, s := range t.Difficulties {
		if _, err := ParseDifficulty(string(d)); err != nil {
			return err
		}
		if len(s.Levels) == 0 {
			return fmt.Errorf("levels: %s has no levels", d)
		}
		if s.Display < 0 {
			return fmt.Errorf("levels: %s display count %d is negative", d, s.Display)
		}
		for i, lvl := range s.Levels {
			if lvl.Active <= 0 || lvl.Active > HandSize {
				return fmt.Errorf("levels: %s level %d active count %d out of range 1..%d", d, i+1, lvl.Active, HandSize)
			}
			if lvl.Points < 0 {
				return fmt.Errorf("levels: %s level %d has negative points", d, i+1)
			}
		}
	}
	return nil
}

// lookup returns the level entry, or false when out of range.
func (t *Table) lookup(d Difficulty, level int) (Level, bool) {
	if t == nil {
		return Level{}, false
	}
	s, ok := t.Difficulties[d]
	if !ok || level < 1 || level > len(s.Levels) {
		return Level{}, false
	}
	return s.Levels[level-1], true
}

// ActiveCount returns how many cards participate at the given level.
// Zero means there is no such level: the difficulty is complete.
func (t *Table) ActiveCount(d Difficulty, level int) int {
	lvl, ok := t.lookup(d, level)
	if !ok {
		return 0
	}
	return lvl.Active
}

// Points returns the score for one match at the given level, falling back
// to DefaultPoints for unmapped pairs.
func (t *Table) Points(d Difficulty, level int) int {
	lvl, ok := t.lookup(d, level)
	if !ok {
		return DefaultPoints
	}
	return lvl.Points
}

// DisplayCount returns how many cards the layout shows for a difficulty.
func (t *Table) DisplayCount(d Difficulty) int {
	if t == nil {
		return DefaultDisplayCount
	}
	s, ok := t.Difficulties[d]
	if !ok || s.Display == 0 {
		return DefaultDisplayCount
	}
	return s.Display
}

// MaxLevel returns the last configured level, or 0 for unknown difficulties.
func (t *Table) MaxLevel(d Difficulty) int {
	if t == nil {
		return 0
	}
	return len(t.Difficulties[d].Levels)
}
