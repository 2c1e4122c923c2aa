package levels

import (
	"strings"
	"testing"
)

func TestActiveCount(t *testing.T) {
	table := Default()

	tests := []struct {
		d     Difficulty
		level int
		want  int
	}{
		{Easy, 1, 4},
		{Easy, 2, 5},
		{Easy, 3, 7},
		{Easy, 4, 0},
		{Medium, 1, 7},
		{Medium, 4, 12},
		{Medium, 5, 0},
		{Hard, 1, 10},
		{Hard, 5, 16},
		{Hard, 6, 0},
		{Easy, 0, 0},
		{Easy, -1, 0},
		{None, 1, 0},
		{Difficulty("nightmare"), 1, 0},
	}

	for _, tc := range tests {
		if got := table.ActiveCount(tc.d, tc.level); got != tc.want {
			t.Errorf("ActiveCount(%q, %d) = %d, want %d", tc.d, tc.level, got, tc.want)
		}
	}
}

func TestPoints(t *testing.T) {
	table := Default()

	tests := []struct {
		d     Difficulty
		level int
		want  int
	}{
		{Easy, 1, 50},
		{Easy, 3, 80},
		{Medium, 2, 120},
		{Hard, 5, 250},
		{Hard, 6, DefaultPoints},
		{None, 1, DefaultPoints},
	}

	for _, tc := range tests {
		if got := table.Points(tc.d, tc.level); got != tc.want {
			t.Errorf("Points(%q, %d) = %d, want %d", tc.d, tc.level, got, tc.want)
		}
	}
}

func TestDisplayAndMaxLevel(t *testing.T) {
	table := Default()

	if got := table.DisplayCount(Medium); got != 6 {
		t.Errorf("DisplayCount(medium) = %d, want 6", got)
	}
	if got := table.DisplayCount(None); got != DefaultDisplayCount {
		t.Errorf("DisplayCount(none) = %d, want %d", got, DefaultDisplayCount)
	}
	if got := table.MaxLevel(Hard); got != 5 {
		t.Errorf("MaxLevel(hard) = %d, want 5", got)
	}
	if got := table.MaxLevel(None); got != 0 {
		t.Errorf("MaxLevel(none) = %d, want 0", got)
	}
}

func TestNilTable(t *testing.T) {
	var table *Table
	if table.ActiveCount(Easy, 1) != 0 {
		t.Error("nil table should have no active cards")
	}
	if table.Points(Easy, 1) != DefaultPoints {
		t.Error("nil table should fall back to default points")
	}
}

func TestParseDifficulty(t *testing.T) {
	for _, d := range Difficulties() {
		got, err := ParseDifficulty(string(d))
		if err != nil || got != d {
			t.Errorf("ParseDifficulty(%q) = %q, %v", d, got, err)
		}
	}
	if _, err := ParseDifficulty(""); err == nil {
		t.Error("empty difficulty should not parse")
	}
	if _, err := ParseDifficulty("EASY"); err == nil {
		t.Error("difficulty names are case sensitive")
	}
}

func TestParse(t *testing.T) {
	data := []byte(`
difficulties:
  easy:
    display: 3
    levels:
      - {active: 2, points: 10}
      - {active: 3, points: 20}
`)
	table, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if got := table.ActiveCount(Easy, 2); got != 3 {
		t.Errorf("ActiveCount(easy, 2) = %d, want 3", got)
	}
	if got := table.DisplayCount(Easy); got != 3 {
		t.Errorf("DisplayCount(easy) = %d, want 3", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"empty", "difficulties: {}", "empty"},
		{"unknown difficulty", "difficulties: {extreme: {levels: [{active: 1}]}}", "unknown difficulty"},
		{"no levels", "difficulties: {easy: {display: 4}}", "no levels"},
		{"too many active", "difficulties: {easy: {levels: [{active: 17}]}}", "out of range"},
		{"zero active", "difficulties: {easy: {levels: [{active: 0}]}}", "out of range"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("Parse() error = %v, want containing %q", err, tc.wantErr)
			}
		})
	}

	if err := Default().Validate(); err != nil {
		t.Errorf("default table invalid: %v", err)
	}
}
