// Package trivia defines the core domain types shared by the game engine,
// the board builder and the presentation layer. Pure Go, no dependencies.
package trivia

import "time"

// Levels is the number of difficulty levels per category.
const Levels = 5

// PlayerID identifies a player. It is supplied by the presentation layer
// and never interpreted by the engine.
type PlayerID string

// Clue is one question/answer cell of a board.
type Clue struct {
	Category    string
	Level       int
	Question    string
	Answer      string
	Cost        int
	Enabled     bool
	DailyDouble bool
}

// ClueRow is a clue as stored by a clue source.
type ClueRow struct {
	GameID   int
	Airdate  time.Time
	Round    int
	Category string
	Level    int
	Question string
	Answer   string
}

// Board holds one round of clues: Cells[i][level-1] belongs to Categories[i].
// A nil cell means the source had no clue for that slot.
type Board struct {
	Categories []string
	Cells      [][Levels]*Clue
}

// Clue returns the clue at the given category index and level, or nil.
func (b *Board) Clue(idx, level int) *Clue {
	if b == nil || idx < 0 || idx >= len(b.Cells) || level < 1 || level > Levels {
		return nil
	}
	return b.Cells[idx][level-1]
}

// Enabled returns every clue still available, in category then level order.
func (b *Board) Enabled() []*Clue {
	if b == nil {
		return nil
	}
	var out []*Clue
	for _, row := range b.Cells {
		for _, c := range row {
			if c != nil && c.Enabled {
				out = append(out, c)
			}
		}
	}
	return out
}

// Count returns the number of clues placed on the board.
func (b *Board) Count() int {
	if b == nil {
		return 0
	}
	n := 0
	for _, row := range b.Cells {
		for _, c := range row {
			if c != nil {
				n++
			}
		}
	}
	return n
}

// Score is a player's running total in a game.
type Score struct {
	Player PlayerID `json:"player"`
	Amount int      `json:"amount"`
}

// PlayerStats are cross-game totals for a player.
type PlayerStats struct {
	Earnings int     `json:"earnings"`
	Correct  int     `json:"correct"`
	Wrong    int     `json:"wrong"`
	Accuracy float64 `json:"accuracy"`
}
