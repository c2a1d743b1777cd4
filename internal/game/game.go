package game

import (
	"context"
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/playperu/triviaboard/internal/trivia"
)

// Wager is a player's stake on the current clue. Entered is false while the
// player still owes a wager.
type Wager struct {
	Amount  int  `json:"amount"`
	Entered bool `json:"entered"`
}

// Data is the mutable state of one game. Only the engine writes it.
type Data struct {
	Round      int
	Categories []string
	Board      *trivia.Board
	Question   *trivia.Clue

	// Wagers is nil outside of a wagering phase.
	Wagers  map[trivia.PlayerID]Wager
	Guesses map[trivia.PlayerID]int

	// BoardControl is empty until a player is given control.
	BoardControl trivia.PlayerID

	QuestionsLeft  int
	QuestionsAsked int

	scores map[trivia.PlayerID]int
	order  []trivia.PlayerID
}

func (d *Data) ensurePlayer(p trivia.PlayerID) {
	if _, ok := d.scores[p]; ok {
		return
	}
	d.scores[p] = 0
	d.order = append(d.order, p)
}

func (d *Data) addScore(p trivia.PlayerID, amount int) {
	d.ensurePlayer(p)
	d.scores[p] += amount
}

// sortedScores returns every player's score, highest first. Ties keep the
// order in which players joined.
func (d *Data) sortedScores() []trivia.Score {
	out := make([]trivia.Score, 0, len(d.order))
	for _, p := range d.order {
		out = append(out, trivia.Score{Player: p, Amount: d.scores[p]})
	}
	slices.SortStableFunc(out, func(a, b trivia.Score) int {
		return b.Amount - a.Amount
	})
	return out
}

// lowestScorer returns the first player, in join order, with the lowest score.
func (d *Data) lowestScorer() (trivia.PlayerID, bool) {
	if len(d.order) == 0 {
		return "", false
	}
	low := d.order[0]
	for _, p := range d.order[1:] {
		if d.scores[p] < d.scores[low] {
			low = p
		}
	}
	return low, true
}

func (d *Data) categoryIndex(category string) int {
	return slices.Index(d.Categories, category)
}

// Game is one trivia session. Create it with NewGame and drive it through an
// Engine. All methods are safe for concurrent use.
type Game struct {
	ID string

	mu        sync.Mutex
	overrides []Option
	options   Options
	state     State
	data      Data
	stopped   bool

	// gen is bumped whenever a pending timer is cancelled. A timer callback
	// only acts if gen still holds the value captured when it was armed.
	gen   uint64
	timer Timer

	rng      *rand.Rand
	ctx      context.Context
	cancel   context.CancelFunc
	listener Listener
	events   *dispatcher
}

// NewGame creates a game that will publish its events to listener. The
// options override the engine defaults when the game starts.
func NewGame(id string, listener Listener, opts ...Option) *Game {
	ctx, cancel := context.WithCancel(context.Background())
	return &Game{
		ID:        id,
		overrides: opts,
		rng:       rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		ctx:       ctx,
		cancel:    cancel,
		listener:  listener,
	}
}

// State returns the current phase.
func (g *Game) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Options returns the resolved options. They are zero before Start.
func (g *Game) Options() Options {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.options
}

// Snapshot is a point-in-time copy of a game's state.
type Snapshot struct {
	ID             string
	State          State
	Round          int
	Categories     []string
	Board          trivia.Board
	Question       *trivia.Clue
	Wagers         map[trivia.PlayerID]Wager
	BoardControl   trivia.PlayerID
	QuestionsLeft  int
	QuestionsAsked int
	Scores         []trivia.Score
}

func (g *Game) snapshot() Snapshot {
	d := &g.data
	s := Snapshot{
		ID:             g.ID,
		State:          g.state,
		Round:          d.Round,
		Categories:     slices.Clone(d.Categories),
		Board:          cloneBoard(d.Board),
		Wagers:         cloneWagers(d.Wagers),
		BoardControl:   d.BoardControl,
		QuestionsLeft:  d.QuestionsLeft,
		QuestionsAsked: d.QuestionsAsked,
		Scores:         d.sortedScores(),
	}
	if d.Question != nil {
		q := *d.Question
		s.Question = &q
	}
	return s
}

func cloneBoard(b *trivia.Board) trivia.Board {
	if b == nil {
		return trivia.Board{}
	}
	out := trivia.Board{
		Categories: slices.Clone(b.Categories),
		Cells:      make([][trivia.Levels]*trivia.Clue, len(b.Cells)),
	}
	for i, row := range b.Cells {
		for j, c := range row {
			if c != nil {
				cp := *c
				out.Cells[i][j] = &cp
			}
		}
	}
	return out
}

func cloneWagers(w map[trivia.PlayerID]Wager) map[trivia.PlayerID]Wager {
	if w == nil {
		return nil
	}
	out := make(map[trivia.PlayerID]Wager, len(w))
	for p, v := range w {
		out[p] = v
	}
	return out
}
