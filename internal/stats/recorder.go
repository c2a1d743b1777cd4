package stats

import (
	"context"
	"log/slog"

	"github.com/playperu/triviaboard/internal/game"
	"github.com/playperu/triviaboard/internal/trivia"
)

// Recorder updates the store from game events.
type Recorder struct {
	store  *Store
	logger *slog.Logger
}

func NewRecorder(store *Store, logger *slog.Logger) *Recorder {
	return &Recorder{store: store, logger: logger}
}

// Handle is a game.Listener. Store failures are logged and otherwise
// ignored so that a broken stats file never stalls a game.
func (r *Recorder) Handle(ev game.Event) {
	var (
		player trivia.PlayerID
		apply  func(*trivia.PlayerStats)
	)
	switch ev := ev.(type) {
	case game.RightAnswer:
		player = ev.Player
		apply = func(st *trivia.PlayerStats) {
			st.Earnings += ev.Amount
			st.Correct++
		}
	case game.WrongAnswer:
		player = ev.Player
		apply = func(st *trivia.PlayerStats) {
			st.Earnings -= ev.Amount
			st.Wrong++
		}
	default:
		return
	}

	if err := r.store.Update(context.Background(), player, apply); err != nil {
		r.logger.Error("recording stats", "game", ev.GameID(), "player", player, "error", err)
	}
}
