package server

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/playperu/triviaboard/internal/game"
	"github.com/playperu/triviaboard/internal/trivia"
)

var ErrGameNotFound = errors.New("game not found")

// finishedRetention is how long a finished game stays readable.
const finishedRetention = 10 * time.Minute

// Registry holds the running games of this process.
type Registry struct {
	engine *game.Engine
	broker *Broker
	logger *slog.Logger
	retain time.Duration

	// listeners receive every event of every game, before the broker.
	listeners []game.Listener

	mu    sync.RWMutex
	games map[string]*game.Game
}

func NewRegistry(engine *game.Engine, broker *Broker, logger *slog.Logger, listeners ...game.Listener) *Registry {
	return &Registry{
		engine:    engine,
		broker:    broker,
		logger:    logger,
		retain:    finishedRetention,
		listeners: listeners,
		games:     make(map[string]*game.Game),
	}
}

// Start creates a game under a fresh ID and starts it.
func (r *Registry) Start(players []trivia.PlayerID, opts ...game.Option) (*game.Game, error) {
	id := uuid.NewString()
	g := game.NewGame(id, r.listener(id), opts...)

	r.mu.Lock()
	r.games[id] = g
	r.mu.Unlock()

	if err := r.engine.Start(g, players); err != nil {
		r.remove(id)
		r.engine.Stop(g)
		return nil, fmt.Errorf("starting game: %w", err)
	}
	r.logger.Info("game registered", "game", id, "players", len(players))
	return g, nil
}

func (r *Registry) Get(id string) (*game.Game, error) {
	r.mu.RLock()
	g, ok := r.games[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrGameNotFound
	}
	return g, nil
}

// Stop abandons a game and forgets it.
func (r *Registry) Stop(id string) error {
	g, err := r.Get(id)
	if err != nil {
		return err
	}
	r.engine.Stop(g)
	r.remove(id)
	return nil
}

// Len returns the number of games held.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.games)
}

// Close stops every game.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, g := range r.games {
		r.engine.Stop(g)
		delete(r.games, id)
	}
	return nil
}

func (r *Registry) remove(id string) {
	r.mu.Lock()
	delete(r.games, id)
	r.mu.Unlock()
}

func (r *Registry) listener(id string) game.Listener {
	return func(ev game.Event) {
		for _, l := range r.listeners {
			l(ev)
		}
		r.broker.Publish(id, render(ev))

		if _, over := ev.(game.GameOver); over {
			r.logger.Info("game finished", "game", id)
			time.AfterFunc(r.retain, func() { r.remove(id) })
		}
	}
}
