package server

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/playperu/triviaboard/internal/handler/health"
)

func addRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Triviaboard API", "/openapi.json", "/docs"))
	r.Mount("/healthz", health.NewHandler(logger, deps.Checks).Routes())

	r.Post("/api/games", handleCreateGame(deps.Games))

	// {gameID} resolved by gameMiddleware.
	r.Route("/api/games/{gameID}", func(r chi.Router) {
		r.Use(gameMiddleware(deps.Games))
		r.Get("/", handleGetGame(deps.Engine))
		r.Delete("/", handleDeleteGame(deps.Games))
		r.Get("/scores", handleScores(deps.Engine))
		r.Get("/wager-range", handleWagerRange(deps.Engine))
		r.Post("/command", handleCommand(deps.Engine))
		r.Post("/guess", handleGuess(deps.Engine))
		r.Post("/wager", handleWager(deps.Engine))
		r.Post("/choose", handleChoose(deps.Engine))
		r.Get("/events", handleEvents(deps.Engine, deps.Broker))
		r.Get("/ws", handleGameWS(logger, deps.Engine, deps.Broker))
	})

	r.Get("/api/players/{playerID}/stats", handlePlayerStats(deps.Stats))
	r.Get("/api/leaderboard", handleLeaderboard(deps.Stats))

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(adminAuthMiddleware(deps.AdminPasswordHash))
		r.Post("/clues", handleAdminImportClues(logger, deps.Clues))
	})
}
