// Package board assembles a round's clue board from a clue source.
package board

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/playperu/triviaboard/internal/trivia"
)

// CostPerLevel is multiplied by round and level to price a clue.
const CostPerLevel = 200

// ClueSource returns every clue of numCategories distinct categories chosen
// at random among those played in the given round and aired on or after
// since.
type ClueSource interface {
	CluesForRound(ctx context.Context, round, numCategories int, since time.Time) ([]trivia.ClueRow, error)
}

// Builder builds boards. It is safe for concurrent use when its clue source
// is.
type Builder struct {
	source       ClueSource
	recencyYears int
	now          func() time.Time
}

func NewBuilder(source ClueSource, recencyYears int) *Builder {
	return &Builder{source: source, recencyYears: recencyYears, now: time.Now}
}

// Since returns the start of the recency window: January 1st of the current
// year, recencyYears years back.
func (b *Builder) Since() time.Time {
	now := b.now().UTC()
	return time.Date(now.Year()-b.recencyYears, time.January, 1, 0, 0, 0, 0, time.UTC)
}

// Build fetches clues for the round and lays them out. A source that returns
// fewer categories or clues than asked for yields a smaller board, not an
// error. Daily doubles are drawn from the placed clues without replacement.
func (b *Builder) Build(ctx context.Context, rng *rand.Rand, round, numCategories, numDailyDoubles int) (*trivia.Board, error) {
	ctx, span := otel.Tracer("board").Start(ctx, "board.Build")
	defer span.End()

	rows, err := b.source.CluesForRound(ctx, round, numCategories, b.Since())
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("fetching clues for round %d: %w", round, err)
	}

	bd := Layout(rows, round)
	MarkDailyDoubles(bd, rng, numDailyDoubles)

	span.SetAttributes(
		attribute.Int("round", round),
		attribute.Int("categories", len(bd.Categories)),
		attribute.Int("clues", bd.Count()),
	)
	return bd, nil
}

// Layout places rows into a board in first-seen category order. A second row
// for an occupied (category, level) cell, or a row with a level outside
// 1..5, is dropped.
func Layout(rows []trivia.ClueRow, round int) *trivia.Board {
	bd := &trivia.Board{}
	index := make(map[string]int)

	for _, row := range rows {
		if row.Level < 1 || row.Level > trivia.Levels {
			continue
		}
		idx, ok := index[row.Category]
		if !ok {
			idx = len(bd.Categories)
			index[row.Category] = idx
			bd.Categories = append(bd.Categories, row.Category)
			bd.Cells = append(bd.Cells, [trivia.Levels]*trivia.Clue{})
		}
		if bd.Cells[idx][row.Level-1] != nil {
			continue
		}
		bd.Cells[idx][row.Level-1] = &trivia.Clue{
			Category: row.Category,
			Level:    row.Level,
			Question: row.Question,
			Answer:   row.Answer,
			Cost:     round * row.Level * CostPerLevel,
			Enabled:  true,
		}
	}
	return bd
}

// MarkDailyDoubles flags n distinct placed clues as daily doubles.
func MarkDailyDoubles(bd *trivia.Board, rng *rand.Rand, n int) {
	var placed []*trivia.Clue
	for _, row := range bd.Cells {
		for _, c := range row {
			if c != nil {
				placed = append(placed, c)
			}
		}
	}
	n = min(n, len(placed))
	for i := 0; i < n; i++ {
		j := i + rng.IntN(len(placed)-i)
		placed[i], placed[j] = placed[j], placed[i]
		placed[i].DailyDouble = true
	}
}
