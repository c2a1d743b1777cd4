// Package game runs timed trivia games. One Engine holds the shared state
// machine definition; every Game carries its own data, timers and event
// stream.
package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/playperu/triviaboard/internal/command"
	"github.com/playperu/triviaboard/internal/similarity"
	"github.com/playperu/triviaboard/internal/trivia"
)

// MinWager is the smallest wager ever accepted.
const MinWager = 5

// wagerFloorPerRound sets the top of the wager range for low scorers.
const wagerFloorPerRound = 500

var ErrAlreadyStarted = errors.New("game already started")

// BoardBuilder fills a round's board.
type BoardBuilder interface {
	Build(ctx context.Context, rng *rand.Rand, round, numCategories, numDailyDoubles int) (*trivia.Board, error)
}

// Engine is the trivia state machine. It keeps no per-game state and may
// drive any number of games at once.
type Engine struct {
	defaults Options
	boards   BoardBuilder
	sched    Scheduler
	logger   *slog.Logger
}

func NewEngine(defaults Options, boards BoardBuilder, logger *slog.Logger) *Engine {
	return &Engine{
		defaults: defaults,
		boards:   boards,
		sched:    realScheduler{},
		logger:   logger,
	}
}

// Defaults returns the options every game starts from.
func (e *Engine) Defaults() Options {
	return e.defaults
}

// Start resolves the game's options, seats the players and starts the first
// round.
func (e *Engine) Start(g *Game, players []trivia.PlayerID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StateNew || g.stopped {
		return ErrAlreadyStarted
	}

	opts := e.defaults
	for _, o := range g.overrides {
		o(&opts)
	}
	if opts.AutoPickQuestions {
		opts.NumDailyDoublesPerRound = 0
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	g.options = opts
	g.data = Data{scores: make(map[trivia.PlayerID]int)}
	for _, p := range players {
		g.data.ensurePlayer(p)
	}
	if g.listener != nil {
		g.events = newDispatcher(g.listener)
	}

	e.logger.Info("game started", "game", g.ID, "players", len(g.data.order))
	e.emit(g, GameStart{Meta: meta(g), Players: append([]trivia.PlayerID(nil), g.data.order...)})
	e.transition(g, StateRoundStart)
	return nil
}

// Stop abandons a game: the pending timer is cancelled and no further events
// are delivered.
func (e *Engine) Stop(g *Game) {
	g.cancel()

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.stopped {
		return
	}
	g.stopped = true
	e.cancelTimer(g)
	if g.events != nil {
		g.events.close()
	}
	e.logger.Info("game stopped", "game", g.ID, "state", g.state)
}

// ChooseQuestion selects the clue at category and level (1-5) on behalf of
// player. Unknown is returned when the player does not control the board or
// the clue does not exist or was already played.
func (e *Engine) ChooseQuestion(g *Game, category string, level int, player trivia.PlayerID) Outcome {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.stopped || g.state != StateSelectQuestion {
		return Ignored
	}
	d := &g.data

	if !g.options.AutoPickQuestions && (d.BoardControl == "" || d.BoardControl != player) {
		return Unknown
	}
	if d.Question != nil {
		return Unknown
	}
	idx := d.categoryIndex(category)
	if idx < 0 || level < 1 || level > trivia.Levels {
		return Unknown
	}
	clue := d.Board.Clue(idx, level)
	if clue == nil || !clue.Enabled {
		return Unknown
	}

	e.choose(g, clue)
	return Selected
}

// Wager records player's stake while a wager is pending for them.
func (e *Engine) Wager(g *Game, player trivia.PlayerID, amount int) Outcome {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.stopped || g.state != StateAskWager {
		return Ignored
	}
	d := &g.data
	if _, pending := d.Wagers[player]; !pending {
		return Ignored
	}

	lo, hi := wagerRange(d, player)
	if amount < lo || amount > hi {
		return BadWager
	}

	d.Wagers[player] = Wager{Amount: amount, Entered: true}
	e.emit(g, Wagered{Meta: meta(g), Player: player, Amount: amount})

	for _, w := range d.Wagers {
		if !w.Entered {
			return WagerAccepted
		}
	}
	e.transition(g, StateAskQuestion)
	return WagerAccepted
}

// Guess checks player's answer to the clue being asked.
func (e *Engine) Guess(g *Game, player trivia.PlayerID, text string) Outcome {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.stopped || g.state != StateAskQuestion {
		return Ignored
	}
	d := &g.data
	d.ensurePlayer(player)

	if d.Guesses[player] >= g.options.GuessesPerQuestion {
		return Ignored
	}

	amount := d.Question.Cost
	if d.Wagers != nil {
		w, ok := d.Wagers[player]
		if !ok || !w.Entered {
			return Ignored
		}
		amount = w.Amount
	}

	question := *d.Question
	if similarity.CloseEnough(text, question.Answer, g.options.AnswerSimilarity) {
		d.addScore(player, amount)
		d.BoardControl = player
		e.emit(g, RightAnswer{
			Meta:     meta(g),
			Player:   player,
			Question: question,
			Amount:   amount,
			Scores:   d.sortedScores(),
		})
		e.transition(g, StateQuestionOver)
		return RightAnswerGiven
	}

	d.addScore(player, -amount)
	d.Guesses[player]++
	e.emit(g, WrongAnswer{
		Meta:     meta(g),
		Player:   player,
		Guess:    text,
		Question: question,
		Amount:   amount,
	})
	return WrongAnswerGiven
}

// Command interprets a line of player text and applies it. Text that is
// neither a guess, a wager nor a clue choice yields Unknown.
func (e *Engine) Command(g *Game, player trivia.PlayerID, text string) Outcome {
	g.mu.Lock()
	b := command.Board{
		Round:              g.data.Round,
		Categories:         append([]string(nil), g.data.Categories...),
		AutoPick:           g.options.AutoPickQuestions,
		CategorySimilarity: g.options.CategorySimilarity,
	}
	g.mu.Unlock()

	intent, ok := command.Parse(text, b)
	if !ok {
		return Unknown
	}

	switch intent.Kind {
	case command.Guess:
		return e.Guess(g, player, intent.Guess)
	case command.Wager:
		return e.Wager(g, player, intent.Amount)
	case command.Choose:
		return e.ChooseQuestion(g, intent.Category, intent.Level, player)
	}
	return Unknown
}

// GetScores returns every player's score, highest first, ties in join order.
func (e *Engine) GetScores(g *Game) []trivia.Score {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.data.sortedScores()
}

// GetValidWagerRange returns the inclusive range a wager from player must
// fall in.
func (e *Engine) GetValidWagerRange(g *Game, player trivia.PlayerID) (lo, hi int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return wagerRange(&g.data, player)
}

// Snapshot copies the game's current state.
func (e *Engine) Snapshot(g *Game) Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshot()
}

func wagerRange(d *Data, player trivia.PlayerID) (int, int) {
	return MinWager, max(d.scores[player], d.Round*wagerFloorPerRound)
}

func meta(g *Game) Meta {
	return Meta{Game: g.ID}
}

// The methods below run with g.mu held.

func (e *Engine) emit(g *Game, ev Event) {
	if g.events != nil {
		g.events.push(ev)
	}
}

func (e *Engine) transition(g *Game, to State) {
	from := g.state
	e.cancelTimer(g)
	if from == StateAskWager {
		e.settleWagers(g)
	}
	g.state = to
	e.logger.Debug("game transition", "game", g.ID, "from", from, "to", to)

	switch to {
	case StateRoundStart:
		e.enterRoundStart(g)
	case StateSelectQuestion:
		e.enterSelectQuestion(g)
	case StateAskWager:
		e.enterAskWager(g)
	case StateAskQuestion:
		e.enterAskQuestion(g)
	case StateNoAnswer:
		e.enterNoAnswer(g)
	case StateQuestionOver:
		e.enterQuestionOver(g)
	case StateRoundOver:
		e.enterRoundOver(g)
	case StateGameOver:
		e.enterGameOver(g)
	}
}

// after arms the game's single timer. The callback is dropped if the timer
// was cancelled in the meantime, even if it had already fired.
func (e *Engine) after(g *Game, d time.Duration, what string, fn func()) {
	gen := g.gen
	g.timer = e.sched.AfterFunc(d, func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		if g.stopped || g.gen != gen {
			e.logger.Debug("stale timer ignored", "game", g.ID, "timer", what)
			return
		}
		g.timer = nil
		fn()
	})
}

func (e *Engine) cancelTimer(g *Game) {
	g.gen++
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
}

func (e *Engine) enterRoundStart(g *Game) {
	d := &g.data
	d.Round++

	if d.Round != 1 {
		if low, ok := d.lowestScorer(); ok {
			d.BoardControl = low
		}
	}
	if d.BoardControl == "" && len(d.order) > 0 {
		d.BoardControl = d.order[g.rng.IntN(len(d.order))]
	}

	bd, err := e.boards.Build(g.ctx, g.rng, d.Round, g.options.NumCategoriesPerRound, g.options.NumDailyDoublesPerRound)
	if err != nil {
		e.logger.Error("building board", "game", g.ID, "round", d.Round, "error", err)
		bd = &trivia.Board{}
	}
	d.Board = bd
	d.Categories = bd.Categories
	d.QuestionsLeft = bd.Count()
	d.QuestionsAsked = 0
	if d.QuestionsLeft < g.options.NumCategoriesPerRound*trivia.Levels {
		e.logger.Warn("short board", "game", g.ID, "round", d.Round, "clues", d.QuestionsLeft)
	}

	e.emit(g, RoundStart{Meta: meta(g), Round: d.Round})
	e.after(g, g.options.TimeAfterRoundStart, "roundStart", func() {
		e.transition(g, StateSelectQuestion)
	})
}

func (e *Engine) enterSelectQuestion(g *Game) {
	d := &g.data
	d.Question = nil
	d.Wagers = nil

	if d.QuestionsLeft <= 0 || len(d.Board.Enabled()) == 0 {
		e.transition(g, StateRoundOver)
		return
	}

	if g.options.AutoPickQuestions || d.QuestionsLeft == 1 {
		e.chooseRandom(g)
		return
	}

	e.emit(g, QuestionSelectReady{Meta: meta(g), Board: cloneBoard(d.Board), Player: d.BoardControl})
	e.after(g, g.options.ChooseQuestionTime, "chooseQuestion", func() {
		e.chooseRandom(g)
	})
}

func (e *Engine) chooseRandom(g *Game) {
	enabled := g.data.Board.Enabled()
	if len(enabled) == 0 {
		e.transition(g, StateRoundOver)
		return
	}
	e.choose(g, enabled[g.rng.IntN(len(enabled))])
}

func (e *Engine) choose(g *Game, clue *trivia.Clue) {
	e.cancelTimer(g)
	g.data.Question = clue
	e.emit(g, QuestionSelected{Meta: meta(g), Question: *clue, Player: g.data.BoardControl})

	e.after(g, g.options.TimeBeforeAskQuestion, "askQuestion", func() {
		if clue.DailyDouble {
			e.transition(g, StateAskWager)
			return
		}
		e.transition(g, StateAskQuestion)
	})
}

func (e *Engine) enterAskWager(g *Game) {
	d := &g.data
	if d.BoardControl == "" {
		e.transition(g, StateAskQuestion)
		return
	}

	d.Wagers = map[trivia.PlayerID]Wager{d.BoardControl: {}}
	e.emit(g, AskWager{Meta: meta(g), Wagers: cloneWagers(d.Wagers), Type: WagerDailyDouble})
	e.after(g, g.options.WagerTime, "wager", func() {
		e.transition(g, StateAskQuestion)
	})
}

// settleWagers fills in wagers nobody entered: the clue's value for a daily
// double, everything the player has in a final round.
func (e *Engine) settleWagers(g *Game) {
	d := &g.data
	finalRound := d.Round > g.options.NumRounds
	for p, w := range d.Wagers {
		if w.Entered {
			continue
		}
		amount := d.Question.Cost
		if finalRound {
			amount = d.scores[p]
		}
		d.Wagers[p] = Wager{Amount: amount, Entered: true}
	}
}

func (e *Engine) enterAskQuestion(g *Game) {
	d := &g.data
	d.Question.Enabled = false
	d.Guesses = make(map[trivia.PlayerID]int)

	e.emit(g, AskQuestion{Meta: meta(g), Question: *d.Question, Wagers: cloneWagers(d.Wagers)})
	e.after(g, g.options.QuestionTime, "question", func() {
		// Anyone who wagered and still had guesses left loses the stake.
		for _, p := range d.order {
			w, ok := d.Wagers[p]
			if ok && d.Guesses[p] < g.options.GuessesPerQuestion {
				d.addScore(p, -w.Amount)
			}
		}
		e.transition(g, StateNoAnswer)
	})
}

func (e *Engine) enterNoAnswer(g *Game) {
	e.emit(g, NoAnswer{Meta: meta(g), Question: *g.data.Question})
	e.transition(g, StateQuestionOver)
}

func (e *Engine) enterQuestionOver(g *Game) {
	d := &g.data
	d.Question = nil
	d.QuestionsLeft = max(d.QuestionsLeft-1, 0)
	d.QuestionsAsked++

	if d.QuestionsLeft == 0 {
		e.transition(g, StateRoundOver)
		return
	}
	e.after(g, g.options.TimeBetweenQuestions, "nextQuestion", func() {
		e.transition(g, StateSelectQuestion)
	})
}

func (e *Engine) enterRoundOver(g *Game) {
	e.after(g, g.options.TimeBetweenRounds, "nextRound", func() {
		d := &g.data
		// Emitted for the last round too, so listeners see roundOver before gameOver.
		e.emit(g, RoundOver{Meta: meta(g), Round: d.Round, Scores: d.sortedScores()})

		// PlayFinalRound is reserved; every game ends after its last
		// regular round.
		if d.Round >= g.options.NumRounds {
			e.transition(g, StateGameOver)
			return
		}
		e.transition(g, StateRoundStart)
	})
}

func (e *Engine) enterGameOver(g *Game) {
	e.emit(g, GameOver{Meta: meta(g), Scores: g.data.sortedScores()})
	e.logger.Info("game over", "game", g.ID, "rounds", g.data.Round)
	g.cancel()
}

func (g *Game) String() string {
	return fmt.Sprintf("game %s (%s)", g.ID, g.state)
}
