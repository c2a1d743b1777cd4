package server

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/playperu/triviaboard/internal/game"
)

type ctxKey int

const ctxKeyGame ctxKey = iota

// adminUser is the basic auth user name for admin routes.
const adminUser = "admin"

func gameMiddleware(games *Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			g, err := games.Get(chi.URLParam(r, "gameID"))
			if err != nil {
				writeError(w, http.StatusNotFound, "game not found")
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyGame, g)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// adminAuthMiddleware checks HTTP basic auth against a bcrypt hash. With no
// hash configured, admin routes are unavailable.
func adminAuthMiddleware(passwordHash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if passwordHash == "" {
				writeError(w, http.StatusServiceUnavailable, "admin access is not configured")
				return
			}

			user, pass, ok := r.BasicAuth()
			if !ok || subtle.ConstantTimeCompare([]byte(user), []byte(adminUser)) != 1 {
				w.Header().Set("WWW-Authenticate", `Basic realm="triviaboard"`)
				writeError(w, http.StatusUnauthorized, "not authenticated")
				return
			}
			if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(pass)); err != nil {
				w.Header().Set("WWW-Authenticate", `Basic realm="triviaboard"`)
				writeError(w, http.StatusUnauthorized, "invalid credentials")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func gameFrom(r *http.Request) *game.Game {
	return r.Context().Value(ctxKeyGame).(*game.Game)
}
