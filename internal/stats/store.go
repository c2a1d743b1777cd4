// Package stats persists per-player totals across games.
package stats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.etcd.io/bbolt"

	"github.com/playperu/triviaboard/internal/trivia"
)

const statsBucket = "stats"

var ErrNotFound = errors.New("player stats not found")

// Store is a BoltDB-backed player stats store.
type Store struct {
	db *bbolt.DB
}

// Open opens or creates the store at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("stats path is required")
	}

	db, err := bbolt.Open(filepath.Clean(path), 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening stats db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(statsBucket))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating stats bucket: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get returns the stats of one player.
func (s *Store) Get(ctx context.Context, player trivia.PlayerID) (trivia.PlayerStats, error) {
	if err := ctx.Err(); err != nil {
		return trivia.PlayerStats{}, err
	}

	var st trivia.PlayerStats
	err := s.db.View(func(tx *bbolt.Tx) error {
		payload := tx.Bucket([]byte(statsBucket)).Get([]byte(player))
		if payload == nil {
			return ErrNotFound
		}
		if err := json.Unmarshal(payload, &st); err != nil {
			return fmt.Errorf("unmarshal stats: %w", err)
		}
		return nil
	})
	return st, err
}

// Update applies fn to a player's stats, starting from zero for a new
// player, and stores the result. Accuracy is recomputed afterwards.
func (s *Store) Update(ctx context.Context, player trivia.PlayerID, fn func(*trivia.PlayerStats)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(string(player)) == "" {
		return fmt.Errorf("player id is required")
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(statsBucket))

		var st trivia.PlayerStats
		if payload := bucket.Get([]byte(player)); payload != nil {
			if err := json.Unmarshal(payload, &st); err != nil {
				return fmt.Errorf("unmarshal stats: %w", err)
			}
		}

		fn(&st)
		if total := st.Correct + st.Wrong; total > 0 {
			st.Accuracy = float64(st.Correct) / float64(total)
		}

		payload, err := json.Marshal(st)
		if err != nil {
			return fmt.Errorf("marshal stats: %w", err)
		}
		return bucket.Put([]byte(player), payload)
	})
}

// Entry is one row of the leaderboard.
type Entry struct {
	Player trivia.PlayerID `json:"player"`
	trivia.PlayerStats
}

// Leaderboard returns up to n players ordered by earnings, highest first.
// Ties are ordered by player ID.
func (s *Store) Leaderboard(ctx context.Context, n int) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []Entry
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(statsBucket)).ForEach(func(k, v []byte) error {
			e := Entry{Player: trivia.PlayerID(k)}
			if err := json.Unmarshal(v, &e.PlayerStats); err != nil {
				return fmt.Errorf("unmarshal stats of %q: %w", k, err)
			}
			out = append(out, e)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	// ForEach walks keys in byte order, so a stable sort keeps ties by ID.
	slices.SortStableFunc(out, func(a, b Entry) int {
		return b.Earnings - a.Earnings
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out, nil
}

// Ping checks the store can still be read.
func (s *Store) Ping(_ context.Context) error {
	return s.db.View(func(tx *bbolt.Tx) error {
		if tx.Bucket([]byte(statsBucket)) == nil {
			return fmt.Errorf("stats bucket is missing")
		}
		return nil
	})
}
