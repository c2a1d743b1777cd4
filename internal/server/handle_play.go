package server

import (
	"net/http"
	"strings"

	"github.com/playperu/triviaboard/internal/game"
	"github.com/playperu/triviaboard/internal/trivia"
)

// CommandRequest is free text typed by a player.
type CommandRequest struct {
	Player trivia.PlayerID `json:"player"`
	Text   string          `json:"text"`
}

type GuessRequest struct {
	Player trivia.PlayerID `json:"player"`
	Guess  string          `json:"guess"`
}

type WagerRequest struct {
	Player trivia.PlayerID `json:"player"`
	Amount int             `json:"amount"`
}

type ChooseRequest struct {
	Player   trivia.PlayerID `json:"player"`
	Category string          `json:"category"`
	Level    int             `json:"level"`
}

// OutcomeResponse tells what a player action did. Rejected actions are
// still 200 responses.
type OutcomeResponse struct {
	Outcome game.Outcome `json:"outcome"`
}

// decodeAction reads a player action body and checks it names a player.
func decodeAction[T any](w http.ResponseWriter, r *http.Request, player func(*T) trivia.PlayerID) (*T, bool) {
	var req T
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}
	if strings.TrimSpace(string(player(&req))) == "" {
		writeError(w, http.StatusBadRequest, "player is required")
		return nil, false
	}
	return &req, true
}

func handleCommand(engine *game.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeAction(w, r, func(c *CommandRequest) trivia.PlayerID { return c.Player })
		if !ok {
			return
		}
		if strings.TrimSpace(req.Text) == "" {
			writeError(w, http.StatusBadRequest, "text is required")
			return
		}
		writeJSON(w, http.StatusOK, OutcomeResponse{Outcome: engine.Command(gameFrom(r), req.Player, req.Text)})
	}
}

func handleGuess(engine *game.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeAction(w, r, func(g *GuessRequest) trivia.PlayerID { return g.Player })
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, OutcomeResponse{Outcome: engine.Guess(gameFrom(r), req.Player, req.Guess)})
	}
}

func handleWager(engine *game.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeAction(w, r, func(wr *WagerRequest) trivia.PlayerID { return wr.Player })
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, OutcomeResponse{Outcome: engine.Wager(gameFrom(r), req.Player, req.Amount)})
	}
}

func handleChoose(engine *game.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeAction(w, r, func(c *ChooseRequest) trivia.PlayerID { return c.Player })
		if !ok {
			return
		}
		outcome := engine.ChooseQuestion(gameFrom(r), req.Category, req.Level, req.Player)
		writeJSON(w, http.StatusOK, OutcomeResponse{Outcome: outcome})
	}
}
