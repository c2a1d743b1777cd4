package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"nhooyr.io/websocket"

	"github.com/playperu/triviaboard/internal/game"
)

// WSReply answers a command sent over the WebSocket.
type WSReply struct {
	Type    string       `json:"type"`
	Outcome game.Outcome `json:"outcome"`
}

// handleGameWS pushes live events to the client and runs every
// CommandRequest it sends.
func handleGameWS(logger *slog.Logger, engine *game.Engine, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g := gameFrom(r)

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Error("websocket accept failed", "game", g.ID, "error", err)
			return
		}
		defer conn.CloseNow()

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Hour)
		defer cancel()

		ch := broker.Subscribe(g.ID)
		defer broker.Unsubscribe(g.ID, ch)

		if ev, over := finished(engine, g); over {
			writeFinal(ctx, logger, conn, g, ev)
			return
		}

		out := make(chan any, 8)
		go readCommands(ctx, cancel, logger, conn, engine, g, out)

		check := time.NewTicker(30 * time.Second)
		defer check.Stop()

		for {
			var msg any
			select {
			case <-ctx.Done():
				return
			case ev := <-ch:
				msg = ev
			case reply := <-out:
				msg = reply
			case <-check.C:
				// The live gameOver may have been dropped for a slow reader.
				if ev, over := finished(engine, g); over {
					writeFinal(ctx, logger, conn, g, ev)
					return
				}
				continue
			}

			data, err := json.Marshal(msg)
			if err != nil {
				logger.Error("encoding websocket message", "game", g.ID, "error", err)
				return
			}
			if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
				logger.Debug("websocket write failed", "game", g.ID, "error", err)
				return
			}
			if ev, ok := msg.(LiveEvent); ok && ev.Type == "gameOver" {
				conn.Close(websocket.StatusNormalClosure, "game over")
				return
			}
		}
	}
}

// writeFinal sends the closing gameOver event and closes the connection.
func writeFinal(ctx context.Context, logger *slog.Logger, conn *websocket.Conn, g *game.Game, ev LiveEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		logger.Error("encoding websocket message", "game", g.ID, "error", err)
		return
	}
	if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
		logger.Debug("websocket write failed", "game", g.ID, "error", err)
		return
	}
	conn.Close(websocket.StatusNormalClosure, "game over")
}

func readCommands(ctx context.Context, cancel context.CancelFunc, logger *slog.Logger, conn *websocket.Conn, engine *game.Engine, g *game.Game, out chan<- any) {
	defer cancel()
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			logger.Debug("websocket read ended", "game", g.ID, "error", err)
			return
		}

		var req CommandRequest
		if err := json.Unmarshal(data, &req); err != nil || strings.TrimSpace(string(req.Player)) == "" {
			select {
			case out <- ErrorResponse{Error: "expected {\"player\", \"text\"}"}:
			case <-ctx.Done():
				return
			}
			continue
		}

		reply := WSReply{Type: "outcome", Outcome: engine.Command(g, req.Player, req.Text)}
		select {
		case out <- reply:
		case <-ctx.Done():
			return
		}
	}
}
