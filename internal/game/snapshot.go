package game

import "github.com/vovakirdan/memory-match/internal/levels"

// Snapshot is everything a front end needs to draw the game.
type Snapshot struct {
	Difficulty   levels.Difficulty `json:"difficulty"`
	Level        int               `json:"level"`
	Score        int               `json:"score"`
	IsLoading    bool              `json:"is_loading"`
	IsFlipping   bool              `json:"is_flipping"`
	Phase        Phase             `json:"phase"`
	Cards        []Card            `json:"cards"`
	ActiveCount  int               `json:"active_count"`
	DisplayCount int               `json:"display_count"`
	Modal        *Modal            `json:"modal"`
}

// Snapshot captures the current state.
func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		Difficulty:   g.player.Difficulty,
		Level:        g.player.Level,
		Score:        g.player.Score,
		IsLoading:    g.loading,
		IsFlipping:   g.flipping,
		Phase:        g.Phase(),
		Cards:        g.Cards(),
		ActiveCount:  g.ActiveCount(),
		DisplayCount: g.DisplayCount(),
		Modal:        g.Modal(),
	}
}

// Active returns the cards in play. DisplayCount only sets how many of
// them a layout puts on one row.
func (s Snapshot) Active() []Card {
	n := min(s.ActiveCount, len(s.Cards))
	return s.Cards[:n]
}
