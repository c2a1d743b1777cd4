package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/playperu/triviaboard/internal/game"
)

// handleEvents streams a game's live events as Server-Sent Events. The
// stream ends after gameOver, right away for a game that is already over.
func handleEvents(engine *game.Engine, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g := gameFrom(r)

		flusher, ok := w.(http.Flusher)
		if !ok {
			writeError(w, http.StatusInternalServerError, "streaming not supported")
			return
		}

		ch := broker.Subscribe(g.ID)
		defer broker.Unsubscribe(g.ID, ch)

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		flusher.Flush()

		send := func(ev LiveEvent) bool {
			data, err := json.Marshal(ev)
			if err != nil {
				return false
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data)
			flusher.Flush()
			return ev.Type != "gameOver"
		}

		if ev, over := finished(engine, g); over {
			send(ev)
			return
		}

		ping := time.NewTicker(30 * time.Second)
		defer ping.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case ev := <-ch:
				if !send(ev) {
					return
				}
			case <-ping.C:
				// The live gameOver may have been dropped for a slow reader.
				if ev, over := finished(engine, g); over {
					send(ev)
					return
				}
				fmt.Fprintf(w, ": ping\n\n")
				flusher.Flush()
			}
		}
	}
}
