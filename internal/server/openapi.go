package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/playperu/triviaboard/internal/cluestore"
	"github.com/playperu/triviaboard/internal/handler/health"
	"github.com/playperu/triviaboard/internal/stats"
	"github.com/playperu/triviaboard/internal/trivia"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// gamePath is a path parameter wrapper so operations document {gameID}.
type gamePath struct {
	GameID string `path:"gameID"`
}

type wagerRangeQuery struct {
	GameID string `path:"gameID"`
	Player string `query:"player" required:"true"`
}

type playerPath struct {
	PlayerID string `path:"playerID"`
}

type leaderboardQuery struct {
	Limit int `query:"limit" minimum:"1"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Triviaboard API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Timed multiplayer trivia games with a clue board, wagers and live events.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of the clue database and the stats store.")
	getHealthz.AddRespStructure(health.Response{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(health.Response{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// POST /api/games
	createGame, _ := r.NewOperationContext(http.MethodPost, "/api/games")
	createGame.SetSummary("Start game")
	createGame.SetDescription("Creates a game for the given players and starts its first round. Options override the server defaults.")
	createGame.AddReqStructure(CreateGameRequest{})
	createGame.AddRespStructure(CreateGameResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	createGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(createGame)

	// GET /api/games/{gameID}
	getGame, _ := r.NewOperationContext(http.MethodGet, "/api/games/{gameID}")
	getGame.SetSummary("Get game")
	getGame.SetDescription("Returns the game's phase, board, current clue, wagers and scores. Answers are never included.")
	getGame.AddReqStructure(gamePath{})
	getGame.AddRespStructure(GameResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getGame)

	// DELETE /api/games/{gameID}
	deleteGame, _ := r.NewOperationContext(http.MethodDelete, "/api/games/{gameID}")
	deleteGame.SetSummary("Stop game")
	deleteGame.SetDescription("Stops the game. No further events are sent.")
	deleteGame.AddReqStructure(gamePath{})
	deleteGame.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	deleteGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(deleteGame)

	// GET /api/games/{gameID}/scores
	getScores, _ := r.NewOperationContext(http.MethodGet, "/api/games/{gameID}/scores")
	getScores.SetSummary("Scores")
	getScores.SetDescription("Returns every player's score, highest first. Ties keep join order.")
	getScores.AddReqStructure(gamePath{})
	getScores.AddRespStructure([]trivia.Score{}, openapi.WithHTTPStatus(http.StatusOK))
	getScores.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getScores)

	// GET /api/games/{gameID}/wager-range
	getRange, _ := r.NewOperationContext(http.MethodGet, "/api/games/{gameID}/wager-range")
	getRange.SetSummary("Valid wager range")
	getRange.SetDescription("Returns the inclusive range a wager from the player must fall in.")
	getRange.AddReqStructure(wagerRangeQuery{})
	getRange.AddRespStructure(WagerRangeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getRange.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	getRange.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getRange)

	actions := []struct {
		path    string
		summary string
		desc    string
		req     any
	}{
		{"/api/games/{gameID}/command", "Player command", "Interprets free text: \"what is ...\" guesses, \"$500\" wagers, \"History for $400\" choices.", CommandRequest{}},
		{"/api/games/{gameID}/guess", "Guess", "Answers the clue being asked.", GuessRequest{}},
		{"/api/games/{gameID}/wager", "Wager", "Enters the player's pending wager.", WagerRequest{}},
		{"/api/games/{gameID}/choose", "Choose clue", "Selects the clue at category and level (1-5). Only the player in control of the board may choose.", ChooseRequest{}},
	}
	for _, a := range actions {
		op, _ := r.NewOperationContext(http.MethodPost, a.path)
		op.SetSummary(a.summary)
		op.SetDescription(a.desc)
		op.AddReqStructure(a.req)
		op.AddRespStructure(OutcomeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
		op.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
		op.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
		_ = r.AddOperation(op)
	}

	// GET /api/games/{gameID}/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/games/{gameID}/events")
	getEvents.SetSummary("SSE event stream")
	getEvents.SetDescription("Server-Sent Events stream of the game's live events. Ends after gameOver.")
	getEvents.AddReqStructure(gamePath{})
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	// GET /api/games/{gameID}/ws
	getWS, _ := r.NewOperationContext(http.MethodGet, "/api/games/{gameID}/ws")
	getWS.SetSummary("Game WebSocket")
	getWS.SetDescription("Upgrades to a WebSocket that sends live events and accepts {\"player\", \"text\"} commands.")
	getWS.AddReqStructure(gamePath{})
	getWS.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	_ = r.AddOperation(getWS)

	// GET /api/players/{playerID}/stats
	getStats, _ := r.NewOperationContext(http.MethodGet, "/api/players/{playerID}/stats")
	getStats.SetSummary("Player stats")
	getStats.SetDescription("Returns the player's earnings and answer accuracy across all games.")
	getStats.AddReqStructure(playerPath{})
	getStats.AddRespStructure(trivia.PlayerStats{}, openapi.WithHTTPStatus(http.StatusOK))
	getStats.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getStats)

	// GET /api/leaderboard
	getLeaders, _ := r.NewOperationContext(http.MethodGet, "/api/leaderboard")
	getLeaders.SetSummary("Leaderboard")
	getLeaders.SetDescription("Returns the players with the highest earnings.")
	getLeaders.AddReqStructure(leaderboardQuery{})
	getLeaders.AddRespStructure([]stats.Entry{}, openapi.WithHTTPStatus(http.StatusOK))
	getLeaders.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(getLeaders)

	// POST /api/admin/clues
	importClues, _ := r.NewOperationContext(http.MethodPost, "/api/admin/clues")
	importClues.SetSummary("Import clues")
	importClues.SetDescription("Adds clues to the archive. Categories without exactly one clue per level are skipped. Requires HTTP basic auth.")
	importClues.AddReqStructure(ImportCluesRequest{})
	importClues.AddRespStructure(cluestore.ImportResult{}, openapi.WithHTTPStatus(http.StatusOK))
	importClues.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	importClues.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	importClues.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(importClues)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
