// Package cluestore keeps the clue archive in SQL and serves random
// categories of it to the board builder.
package cluestore

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/playperu/triviaboard/internal/trivia"
)

const dateLayout = "2006-01-02"

var ErrIncompleteCategory = errors.New("category does not have one clue per level")

// Record is the import format of a clue.
type Record struct {
	GameID   int    `json:"gameId"`
	Airdate  string `json:"airdate"`
	Round    int    `json:"round"`
	Category string `json:"category"`
	Level    int    `json:"level"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Row converts r, parsing its airdate.
func (r Record) Row() (trivia.ClueRow, error) {
	airdate, err := time.Parse(dateLayout, r.Airdate)
	if err != nil {
		return trivia.ClueRow{}, fmt.Errorf("parsing airdate of %q: %w", r.Category, err)
	}
	return trivia.ClueRow{
		GameID:   r.GameID,
		Airdate:  airdate,
		Round:    r.Round,
		Category: r.Category,
		Level:    r.Level,
		Question: r.Question,
		Answer:   r.Answer,
	}, nil
}

// Store reads and writes the clues table.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// CluesForRound picks numCategories random categories played in round on or
// after since and returns all of their clues.
func (s *Store) CluesForRound(ctx context.Context, round, numCategories int, since time.Time) ([]trivia.ClueRow, error) {
	ctx, span := otel.Tracer("cluestore").Start(ctx, "cluestore.CluesForRound")
	defer span.End()
	span.SetAttributes(attribute.Int("round", round), attribute.Int("categories", numCategories))

	rows, err := s.db.QueryContext(ctx,
		`SELECT a.game_id, a.airdate, a.round, a.category, a.level, a.question, a.answer
		 FROM clues a
		 INNER JOIN (
			SELECT DISTINCT category, game_id, round FROM clues
			WHERE round = ? AND airdate >= ?
			ORDER BY RANDOM() LIMIT ?
		 ) b ON a.category = b.category AND a.game_id = b.game_id AND a.round = b.round
		 ORDER BY a.game_id, a.category, a.level`,
		round, since.Format(dateLayout), numCategories,
	)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("querying clues: %w", err)
	}
	defer rows.Close()

	var out []trivia.ClueRow
	for rows.Next() {
		var (
			r       trivia.ClueRow
			airdate string
		)
		if err := rows.Scan(&r.GameID, &airdate, &r.Round, &r.Category, &r.Level, &r.Question, &r.Answer); err != nil {
			return nil, fmt.Errorf("scanning clue: %w", err)
		}
		// Archive dates may carry a time of day.
		if len(airdate) > len(dateLayout) {
			airdate = airdate[:len(dateLayout)]
		}
		if r.Airdate, err = time.Parse(dateLayout, airdate); err != nil {
			return nil, fmt.Errorf("parsing airdate %q: %w", airdate, err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating clues: %w", err)
	}
	span.SetAttributes(attribute.Int("clues", len(out)))
	return out, nil
}

// Count returns the number of stored clues.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM clues").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting clues: %w", err)
	}
	return n, nil
}

// ImportResult reports what Import did.
type ImportResult struct {
	Inserted int      `json:"inserted"`
	Skipped  []string `json:"skipped,omitempty"`
}

type categoryKey struct {
	gameID   int
	round    int
	category string
}

// CheckCategory reports whether rows, all from one category of one game and
// round, hold exactly one clue per level.
func CheckCategory(rows []trivia.ClueRow) error {
	var seen [trivia.Levels + 1]bool
	for _, r := range rows {
		if r.Level < 1 || r.Level > trivia.Levels || seen[r.Level] {
			return fmt.Errorf("%w: %q", ErrIncompleteCategory, r.Category)
		}
		seen[r.Level] = true
	}
	if len(rows) != trivia.Levels {
		cat := ""
		if len(rows) > 0 {
			cat = rows[0].Category
		}
		return fmt.Errorf("%w: %q has %d clues", ErrIncompleteCategory, cat, len(rows))
	}
	return nil
}

// Import stores rows in one transaction. Categories failing CheckCategory
// are skipped and named in the result.
func (s *Store) Import(ctx context.Context, rows []trivia.ClueRow) (ImportResult, error) {
	groups := make(map[categoryKey][]trivia.ClueRow)
	var order []categoryKey
	for _, r := range rows {
		k := categoryKey{gameID: r.GameID, round: r.Round, category: r.Category}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], r)
	}

	var res ImportResult
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return res, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO clues (game_id, airdate, round, category, level, question, answer) VALUES (?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return res, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, k := range order {
		group := groups[k]
		if err := CheckCategory(group); err != nil {
			res.Skipped = append(res.Skipped, k.category)
			continue
		}
		slices.SortFunc(group, func(a, b trivia.ClueRow) int { return a.Level - b.Level })
		for _, r := range group {
			_, err := stmt.ExecContext(ctx, r.GameID, r.Airdate.Format(dateLayout), r.Round, r.Category, r.Level, r.Question, r.Answer)
			if err != nil {
				return ImportResult{}, fmt.Errorf("inserting clue %q level %d: %w", r.Category, r.Level, err)
			}
			res.Inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return ImportResult{}, fmt.Errorf("committing clues: %w", err)
	}
	return res, nil
}

// DecodeRecords parses a JSON array of records into clue rows.
func DecodeRecords(data []byte) ([]trivia.ClueRow, error) {
	var recs []Record
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("decoding clues: %w", err)
	}
	rows := make([]trivia.ClueRow, 0, len(recs))
	for _, rec := range recs {
		r, err := rec.Row()
		if err != nil {
			return nil, err
		}
		rows = append(rows, r)
	}
	return rows, nil
}

//go:embed demo_clues.json
var demoClues []byte

// SeedDemo imports a small built-in clue set when the store is empty. It
// returns the number of clues inserted.
func (s *Store) SeedDemo(ctx context.Context) (int, error) {
	n, err := s.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	rows, err := DecodeRecords(demoClues)
	if err != nil {
		return 0, fmt.Errorf("loading demo clues: %w", err)
	}
	res, err := s.Import(ctx, rows)
	if err != nil {
		return 0, fmt.Errorf("seeding demo clues: %w", err)
	}
	return res.Inserted, nil
}

// Ping checks the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
