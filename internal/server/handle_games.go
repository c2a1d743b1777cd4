package server

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/triviaboard/internal/game"
	"github.com/playperu/triviaboard/internal/trivia"
)

// GameOptionsRequest overrides the server's game defaults. Durations are in
// milliseconds.
type GameOptionsRequest struct {
	QuestionTimeMs          *int     `json:"questionTimeMs,omitempty"`
	ChooseQuestionTimeMs    *int     `json:"chooseQuestionTimeMs,omitempty"`
	TimeBeforeAskQuestionMs *int     `json:"timeBeforeAskQuestionMs,omitempty"`
	TimeBetweenQuestionsMs  *int     `json:"timeBetweenQuestionsMs,omitempty"`
	TimeBetweenRoundsMs     *int     `json:"timeBetweenRoundsMs,omitempty"`
	TimeAfterRoundStartMs   *int     `json:"timeAfterRoundStartMs,omitempty"`
	WagerTimeMs             *int     `json:"wagerTimeMs,omitempty"`
	AutoPickQuestions       *bool    `json:"autoPickQuestions,omitempty"`
	NumRounds               *int     `json:"numRounds,omitempty"`
	PlayFinalRound          *bool    `json:"playFinalRound,omitempty"`
	GuessesPerQuestion      *int     `json:"guessesPerQuestion,omitempty"`
	AnswerSimilarity        *float64 `json:"answerSimilarity,omitempty"`
	CategorySimilarity      *float64 `json:"categorySimilarity,omitempty"`
	NumCategoriesPerRound   *int     `json:"numCategoriesPerRound,omitempty"`
	NumDailyDoublesPerRound *int     `json:"numDailyDoublesPerRound,omitempty"`
}

// maxDurationMs is the largest millisecond count a time.Duration can hold.
const maxDurationMs = int64(math.MaxInt64 / time.Millisecond)

func (o *GameOptionsRequest) options() ([]game.Option, error) {
	if o == nil {
		return nil, nil
	}

	var opts []game.Option
	durations := []struct {
		name string
		ms   *int
		with func(time.Duration) game.Option
	}{
		{"questionTimeMs", o.QuestionTimeMs, game.WithQuestionTime},
		{"chooseQuestionTimeMs", o.ChooseQuestionTimeMs, game.WithChooseQuestionTime},
		{"timeBeforeAskQuestionMs", o.TimeBeforeAskQuestionMs, game.WithTimeBeforeAskQuestion},
		{"timeBetweenQuestionsMs", o.TimeBetweenQuestionsMs, game.WithTimeBetweenQuestions},
		{"timeBetweenRoundsMs", o.TimeBetweenRoundsMs, game.WithTimeBetweenRounds},
		{"timeAfterRoundStartMs", o.TimeAfterRoundStartMs, game.WithTimeAfterRoundStart},
		{"wagerTimeMs", o.WagerTimeMs, game.WithWagerTime},
	}
	for _, d := range durations {
		if d.ms == nil {
			continue
		}
		if ms := int64(*d.ms); ms > maxDurationMs || ms < -maxDurationMs {
			return nil, fmt.Errorf("%s is out of range", d.name)
		}
		opts = append(opts, d.with(time.Duration(*d.ms)*time.Millisecond))
	}

	if o.AutoPickQuestions != nil {
		opts = append(opts, game.WithAutoPickQuestions(*o.AutoPickQuestions))
	}
	if o.NumRounds != nil {
		opts = append(opts, game.WithNumRounds(*o.NumRounds))
	}
	if o.PlayFinalRound != nil {
		opts = append(opts, game.WithPlayFinalRound(*o.PlayFinalRound))
	}
	if o.GuessesPerQuestion != nil {
		opts = append(opts, game.WithGuessesPerQuestion(*o.GuessesPerQuestion))
	}
	if o.AnswerSimilarity != nil {
		opts = append(opts, game.WithAnswerSimilarity(*o.AnswerSimilarity))
	}
	if o.CategorySimilarity != nil {
		opts = append(opts, game.WithCategorySimilarity(*o.CategorySimilarity))
	}
	if o.NumCategoriesPerRound != nil {
		opts = append(opts, game.WithNumCategoriesPerRound(*o.NumCategoriesPerRound))
	}
	if o.NumDailyDoublesPerRound != nil {
		opts = append(opts, game.WithNumDailyDoublesPerRound(*o.NumDailyDoublesPerRound))
	}
	return opts, nil
}

type CreateGameRequest struct {
	Players []trivia.PlayerID   `json:"players"`
	Options *GameOptionsRequest `json:"options,omitempty"`
}

type CreateGameResponse struct {
	GameID string `json:"gameId"`
}

// GameResponse is the public state of a game.
type GameResponse struct {
	ID             string                         `json:"id"`
	State          game.State                     `json:"state"`
	Round          int                            `json:"round"`
	Board          *BoardView                     `json:"board"`
	Question       *ClueView                      `json:"question,omitempty"`
	Wagers         map[trivia.PlayerID]game.Wager `json:"wagers,omitempty"`
	BoardControl   trivia.PlayerID                `json:"boardControl,omitempty"`
	QuestionsLeft  int                            `json:"questionsLeft"`
	QuestionsAsked int                            `json:"questionsAsked"`
	Scores         []trivia.Score                 `json:"scores"`
}

type WagerRangeResponse struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

func newGameResponse(s game.Snapshot) GameResponse {
	resp := GameResponse{
		ID:             s.ID,
		State:          s.State,
		Round:          s.Round,
		Board:          newBoardView(s.Board),
		Wagers:         s.Wagers,
		BoardControl:   s.BoardControl,
		QuestionsLeft:  s.QuestionsLeft,
		QuestionsAsked: s.QuestionsAsked,
		Scores:         s.Scores,
	}
	if s.Question != nil {
		// The question text is public once it has been asked.
		asked := s.State == game.StateAskQuestion || !s.Question.DailyDouble
		resp.Question = clueView(*s.Question, asked, false)
	}
	return resp
}

func handleCreateGame(games *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateGameRequest
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		players := make([]trivia.PlayerID, 0, len(req.Players))
		for _, p := range req.Players {
			p = trivia.PlayerID(strings.TrimSpace(string(p)))
			if p == "" {
				writeError(w, http.StatusBadRequest, "player ids must not be blank")
				return
			}
			players = append(players, p)
		}
		if len(players) == 0 {
			writeError(w, http.StatusBadRequest, "at least one player is required")
			return
		}

		opts, err := req.Options.options()
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		g, err := games.Start(players, opts...)
		if errors.Is(err, game.ErrInvalidOptions) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		w.Header().Set("Location", "/api/games/"+g.ID)
		writeJSON(w, http.StatusCreated, CreateGameResponse{GameID: g.ID})
	}
}

func handleGetGame(engine *game.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, newGameResponse(engine.Snapshot(gameFrom(r))))
	}
}

func handleDeleteGame(games *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := games.Stop(chi.URLParam(r, "gameID")); err != nil {
			writeError(w, http.StatusNotFound, "game not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleScores(engine *game.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, engine.GetScores(gameFrom(r)))
	}
}

func handleWagerRange(engine *game.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player := strings.TrimSpace(r.URL.Query().Get("player"))
		if player == "" {
			writeError(w, http.StatusBadRequest, "player query parameter required")
			return
		}

		lo, hi := engine.GetValidWagerRange(gameFrom(r), trivia.PlayerID(player))
		writeJSON(w, http.StatusOK, WagerRangeResponse{Min: lo, Max: hi})
	}
}
