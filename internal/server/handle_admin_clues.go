package server

import (
	"log/slog"
	"net/http"

	"github.com/playperu/triviaboard/internal/cluestore"
	"github.com/playperu/triviaboard/internal/trivia"
)

// ImportCluesRequest is the body of POST /api/admin/clues.
type ImportCluesRequest struct {
	Clues []cluestore.Record `json:"clues"`
}

func handleAdminImportClues(logger *slog.Logger, clues *cluestore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ImportCluesRequest
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if len(req.Clues) == 0 {
			writeError(w, http.StatusBadRequest, "clues are required")
			return
		}

		rows := make([]trivia.ClueRow, 0, len(req.Clues))
		for _, rec := range req.Clues {
			row, err := rec.Row()
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			rows = append(rows, row)
		}

		res, err := clues.Import(r.Context(), rows)
		if err != nil {
			logger.Error("importing clues", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		logger.Info("clues imported", "inserted", res.Inserted, "skipped", len(res.Skipped))
		writeJSON(w, http.StatusOK, res)
	}
}
