package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/triviaboard/internal/stats"
	"github.com/playperu/triviaboard/internal/trivia"
)

const defaultLeaderboardSize = 10

func handlePlayerStats(store *stats.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player := trivia.PlayerID(chi.URLParam(r, "playerID"))

		st, err := store.Get(r.Context(), player)
		if errors.Is(err, stats.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no stats for player")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}

func handleLeaderboard(store *stats.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultLeaderboardSize
		if s := r.URL.Query().Get("limit"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 {
				writeError(w, http.StatusBadRequest, "limit must be a positive integer")
				return
			}
			limit = n
		}

		entries, err := store.Leaderboard(r.Context(), limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if entries == nil {
			entries = []stats.Entry{}
		}
		writeJSON(w, http.StatusOK, entries)
	}
}
