package game

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playperu/triviaboard/internal/board"
	"github.com/playperu/triviaboard/internal/trivia"
)

// fakeScheduler collects timers instead of running them. Tests fire them in
// arming order with Next.
type fakeScheduler struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

type fakeTimer struct {
	s       *fakeScheduler
	d       time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	live := !t.stopped && !t.fired
	t.stopped = true
	return live
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{s: s, d: d, f: f}
	s.timers = append(s.timers, t)
	return t
}

// pending returns the oldest live timer, or nil.
func (s *fakeScheduler) pending() *fakeTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			return t
		}
	}
	return nil
}

// Next fires the oldest live timer and reports whether there was one.
func (s *fakeScheduler) Next() bool {
	t := s.pending()
	if t == nil {
		return false
	}
	s.mu.Lock()
	t.fired = true
	s.mu.Unlock()
	t.f()
	return true
}

type recorder struct {
	ch chan Event
}

func newRecorder() *recorder {
	return &recorder{ch: make(chan Event, 1024)}
}

func (r *recorder) listen(ev Event) {
	r.ch <- ev
}

func (r *recorder) next(t *testing.T) Event {
	t.Helper()
	select {
	case ev := <-r.ch:
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func (r *recorder) expect(t *testing.T, name string) Event {
	t.Helper()
	ev := r.next(t)
	require.Equal(t, name, ev.Name())
	return ev
}

func (r *recorder) quiet(t *testing.T) {
	t.Helper()
	select {
	case ev := <-r.ch:
		t.Fatalf("unexpected event %s", ev.Name())
	case <-time.After(50 * time.Millisecond):
	}
}

// drain collects events up to and including gameOver.
func (r *recorder) drain(t *testing.T) []string {
	t.Helper()
	var names []string
	for {
		ev := r.next(t)
		names = append(names, ev.Name())
		if ev.Name() == "gameOver" {
			return names
		}
	}
}

type stubBoards struct {
	categories []string
	daily      map[string]int
	err        error
}

func answerFor(category string, level int) string {
	return fmt.Sprintf("%s answer %d", category, level)
}

func (s *stubBoards) Build(_ context.Context, _ *rand.Rand, round, numCategories, _ int) (*trivia.Board, error) {
	if s.err != nil {
		return nil, s.err
	}
	var rows []trivia.ClueRow
	for i, cat := range s.categories {
		if i == numCategories {
			break
		}
		for level := 1; level <= trivia.Levels; level++ {
			rows = append(rows, trivia.ClueRow{
				Round:    round,
				Category: cat,
				Level:    level,
				Question: fmt.Sprintf("%s question %d", cat, level),
				Answer:   answerFor(cat, level),
			})
		}
	}
	bd := board.Layout(rows, round)
	for i, cat := range bd.Categories {
		if level, ok := s.daily[cat]; ok {
			bd.Cells[i][level-1].DailyDouble = true
		}
	}
	return bd, nil
}

func newTestEngine(boards BoardBuilder) (*Engine, *fakeScheduler) {
	fs := &fakeScheduler{}
	e := NewEngine(DefaultOptions(), boards, slog.New(slog.NewTextHandler(io.Discard, nil)))
	e.sched = fs
	return e, fs
}

func newTestGame(rec *recorder, opts ...Option) *Game {
	g := NewGame("g1", rec.listen, opts...)
	g.rng = rand.New(rand.NewPCG(1, 2))
	return g
}

var threeCategories = &stubBoards{categories: []string{"History", "Science", "Sports"}}

func other(p trivia.PlayerID) trivia.PlayerID {
	if p == "p1" {
		return "p2"
	}
	return "p1"
}

// startToSelect starts a two player game and advances it to the first
// question selection.
func startToSelect(t *testing.T, e *Engine, fs *fakeScheduler, g *Game, rec *recorder) QuestionSelectReady {
	t.Helper()
	require.NoError(t, e.Start(g, []trivia.PlayerID{"p1", "p2"}))
	rec.expect(t, "gameStart")
	rec.expect(t, "roundStart")
	require.True(t, fs.Next())
	return rec.expect(t, "questionSelectReady").(QuestionSelectReady)
}

func TestScenario(t *testing.T) {
	e, fs := newTestEngine(threeCategories)
	rec := newRecorder()
	g := newTestGame(rec, WithNumCategoriesPerRound(3))

	ready := startToSelect(t, e, fs, g, rec)
	ctrl := e.Snapshot(g).BoardControl
	require.NotEmpty(t, ctrl)
	assert.Equal(t, ctrl, ready.Player)
	assert.Equal(t, []string{"History", "Science", "Sports"}, ready.Board.Categories)
	assert.Equal(t, StateSelectQuestion, g.State())

	require.Equal(t, Selected, e.ChooseQuestion(g, "History", 3, ctrl))
	sel := rec.expect(t, "questionSelected").(QuestionSelected)
	assert.Equal(t, 3, sel.Question.Level)
	assert.Equal(t, 600, sel.Question.Cost)
	assert.Equal(t, ctrl, sel.Player)

	require.True(t, fs.Next())
	ask := rec.expect(t, "askQuestion").(AskQuestion)
	assert.Equal(t, "History question 3", ask.Question.Question)
	assert.Nil(t, ask.Wagers)

	require.Equal(t, RightAnswerGiven, e.Guess(g, "p1", answerFor("History", 3)))
	right := rec.expect(t, "rightAnswer").(RightAnswer)
	assert.Equal(t, trivia.PlayerID("p1"), right.Player)
	assert.Equal(t, 600, right.Amount)

	snap := e.Snapshot(g)
	assert.Equal(t, trivia.PlayerID("p1"), snap.BoardControl)
	assert.Equal(t, StateQuestionOver, snap.State)
	assert.Equal(t, 14, snap.QuestionsLeft)
	assert.Equal(t, 1, snap.QuestionsAsked)
	assert.Nil(t, snap.Question)
	assert.Equal(t, []trivia.Score{{Player: "p1", Amount: 600}, {Player: "p2", Amount: 0}}, e.GetScores(g))
}

func TestChooseQuestionOnlyOnce(t *testing.T) {
	e, fs := newTestEngine(threeCategories)
	rec := newRecorder()
	g := newTestGame(rec, WithNumCategoriesPerRound(3))

	startToSelect(t, e, fs, g, rec)
	ctrl := e.Snapshot(g).BoardControl

	require.Equal(t, Selected, e.ChooseQuestion(g, "Science", 2, ctrl))
	rec.expect(t, "questionSelected")
	assert.Equal(t, Unknown, e.ChooseQuestion(g, "Science", 2, ctrl), "a clue is already pending")
	assert.Equal(t, Unknown, e.ChooseQuestion(g, "Sports", 1, ctrl), "a clue is already pending")

	require.True(t, fs.Next())
	rec.expect(t, "askQuestion")
	assert.Equal(t, Ignored, e.ChooseQuestion(g, "Sports", 1, ctrl), "not selecting")

	require.Equal(t, RightAnswerGiven, e.Guess(g, ctrl, answerFor("Science", 2)))
	rec.expect(t, "rightAnswer")
	require.True(t, fs.Next())
	rec.expect(t, "questionSelectReady")

	assert.Equal(t, Unknown, e.ChooseQuestion(g, "Science", 2, ctrl))
	assert.Equal(t, Selected, e.ChooseQuestion(g, "Science", 3, ctrl))
}

func TestChooseQuestionRejects(t *testing.T) {
	e, fs := newTestEngine(threeCategories)
	rec := newRecorder()
	g := newTestGame(rec, WithNumCategoriesPerRound(3))

	assert.Equal(t, Ignored, e.ChooseQuestion(g, "History", 1, "p1"), "not started")

	startToSelect(t, e, fs, g, rec)
	ctrl := e.Snapshot(g).BoardControl

	tests := []struct {
		name     string
		category string
		level    int
		player   trivia.PlayerID
	}{
		{"not board control", "History", 1, other(ctrl)},
		{"unknown player", "History", 1, "p9"},
		{"category case differs", "history", 1, ctrl},
		{"unknown category", "Geography", 1, ctrl},
		{"level zero", "History", 0, ctrl},
		{"level too high", "History", 6, ctrl},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, Unknown, e.ChooseQuestion(g, tt.category, tt.level, tt.player))
		})
	}
	assert.Equal(t, StateSelectQuestion, g.State())
}

func TestChooseQuestionTimeoutPicksRandomClue(t *testing.T) {
	e, fs := newTestEngine(threeCategories)
	rec := newRecorder()
	g := newTestGame(rec, WithNumCategoriesPerRound(3))

	startToSelect(t, e, fs, g, rec)
	ctrl := e.Snapshot(g).BoardControl

	require.True(t, fs.Next())
	sel := rec.expect(t, "questionSelected").(QuestionSelected)
	assert.Equal(t, ctrl, sel.Player)
	assert.True(t, sel.Question.Enabled)
}

func TestTimerRaceAfterChooseQuestion(t *testing.T) {
	e, fs := newTestEngine(threeCategories)
	rec := newRecorder()
	g := newTestGame(rec, WithNumCategoriesPerRound(3))

	startToSelect(t, e, fs, g, rec)
	chooseTimer := fs.pending()
	require.NotNil(t, chooseTimer)
	assert.Equal(t, DefaultOptions().ChooseQuestionTime, chooseTimer.d)

	ctrl := e.Snapshot(g).BoardControl
	require.Equal(t, Selected, e.ChooseQuestion(g, "Sports", 4, ctrl))
	sel := rec.expect(t, "questionSelected").(QuestionSelected)
	assert.Equal(t, "Sports", sel.Question.Category)
	assert.Equal(t, 4, sel.Question.Level)
	assert.True(t, chooseTimer.stopped)

	// The timer already fired on its own goroutine when the choice won.
	chooseTimer.f()

	rec.quiet(t)
	assert.Equal(t, StateSelectQuestion, g.State())
	snap := e.Snapshot(g)
	require.NotNil(t, snap.Question)
	assert.Equal(t, "Sports", snap.Question.Category)
	assert.Equal(t, 4, snap.Question.Level)

	require.True(t, fs.Next())
	rec.expect(t, "askQuestion")
}

func TestTimerRaceAfterRightAnswer(t *testing.T) {
	e, fs := newTestEngine(threeCategories)
	rec := newRecorder()
	g := newTestGame(rec, WithNumCategoriesPerRound(3))

	startToSelect(t, e, fs, g, rec)
	ctrl := e.Snapshot(g).BoardControl
	require.Equal(t, Selected, e.ChooseQuestion(g, "Sports", 4, ctrl))
	rec.expect(t, "questionSelected")
	require.True(t, fs.Next())
	rec.expect(t, "askQuestion")

	questionTimer := fs.pending()
	require.NotNil(t, questionTimer)
	assert.Equal(t, DefaultOptions().QuestionTime, questionTimer.d)

	require.Equal(t, RightAnswerGiven, e.Guess(g, "p2", answerFor("Sports", 4)))
	rec.expect(t, "rightAnswer")
	assert.True(t, questionTimer.stopped)

	// The timer already fired on its own goroutine when the guess won.
	questionTimer.f()

	rec.quiet(t)
	assert.Equal(t, StateQuestionOver, g.State())
	assert.Equal(t, []trivia.Score{{Player: "p2", Amount: 800}, {Player: "p1", Amount: 0}}, e.GetScores(g))
}

func TestWrongAnswers(t *testing.T) {
	e, fs := newTestEngine(threeCategories)
	rec := newRecorder()
	g := newTestGame(rec, WithNumCategoriesPerRound(3))

	startToSelect(t, e, fs, g, rec)
	ctrl := e.Snapshot(g).BoardControl
	require.Equal(t, Selected, e.ChooseQuestion(g, "History", 1, ctrl))
	rec.expect(t, "questionSelected")
	require.True(t, fs.Next())
	rec.expect(t, "askQuestion")

	require.Equal(t, WrongAnswerGiven, e.Guess(g, "p1", "qqqqqqqqqqqq"))
	wrong := rec.expect(t, "wrongAnswer").(WrongAnswer)
	assert.Equal(t, "qqqqqqqqqqqq", wrong.Guess)
	assert.Equal(t, 200, wrong.Amount)
	assert.Equal(t, Ignored, e.Guess(g, "p1", answerFor("History", 1)), "out of guesses")

	require.Equal(t, WrongAnswerGiven, e.Guess(g, "p3", "zzzzzzzz"))
	rec.expect(t, "wrongAnswer")

	// Nobody wagered, so the timeout costs nothing more.
	require.True(t, fs.Next())
	rec.expect(t, "noAnswer")
	assert.Equal(t, StateQuestionOver, g.State())
	assert.Equal(t, []trivia.Score{
		{Player: "p2", Amount: 0},
		{Player: "p1", Amount: -200},
		{Player: "p3", Amount: -200},
	}, e.GetScores(g))
	assert.Equal(t, ctrl, e.Snapshot(g).BoardControl)
}

func TestGuessesPerQuestion(t *testing.T) {
	e, fs := newTestEngine(threeCategories)
	rec := newRecorder()
	g := newTestGame(rec, WithNumCategoriesPerRound(3), WithGuessesPerQuestion(2))

	startToSelect(t, e, fs, g, rec)
	require.Equal(t, Selected, e.ChooseQuestion(g, "History", 2, e.Snapshot(g).BoardControl))
	rec.expect(t, "questionSelected")
	require.True(t, fs.Next())
	rec.expect(t, "askQuestion")

	assert.Equal(t, WrongAnswerGiven, e.Guess(g, "p1", "qqqqqqqq"))
	assert.Equal(t, RightAnswerGiven, e.Guess(g, "p1", answerFor("History", 2)))
	assert.Equal(t, []trivia.Score{{Player: "p1", Amount: 0}, {Player: "p2", Amount: 0}}, e.GetScores(g))
}

func TestDailyDouble(t *testing.T) {
	boards := &stubBoards{
		categories: []string{"History", "Science"},
		daily:      map[string]int{"History": 3},
	}
	e, fs := newTestEngine(boards)
	rec := newRecorder()
	g := newTestGame(rec, WithNumCategoriesPerRound(2))

	startToSelect(t, e, fs, g, rec)
	ctrl := e.Snapshot(g).BoardControl
	rival := other(ctrl)

	require.Equal(t, Selected, e.ChooseQuestion(g, "History", 3, ctrl))
	rec.expect(t, "questionSelected")
	assert.Equal(t, Ignored, e.Wager(g, ctrl, 100), "too early")

	require.True(t, fs.Next())
	ask := rec.expect(t, "askWager").(AskWager)
	assert.Equal(t, WagerDailyDouble, ask.Type)
	assert.Equal(t, map[trivia.PlayerID]Wager{ctrl: {}}, ask.Wagers)
	assert.Equal(t, StateAskWager, g.State())

	lo, hi := e.GetValidWagerRange(g, ctrl)
	assert.Equal(t, 5, lo)
	assert.Equal(t, 500, hi)

	assert.Equal(t, Ignored, e.Wager(g, rival, 100))
	assert.Equal(t, BadWager, e.Wager(g, ctrl, 4))
	assert.Equal(t, BadWager, e.Wager(g, ctrl, 501))
	assert.Equal(t, StateAskWager, g.State())

	require.Equal(t, WagerAccepted, e.Wager(g, ctrl, 300))
	on := rec.expect(t, "onWager").(Wagered)
	assert.Equal(t, ctrl, on.Player)
	assert.Equal(t, 300, on.Amount)

	q := rec.expect(t, "askQuestion").(AskQuestion)
	assert.Equal(t, map[trivia.PlayerID]Wager{ctrl: {Amount: 300, Entered: true}}, q.Wagers)
	assert.True(t, q.Question.DailyDouble)

	assert.Equal(t, Ignored, e.Guess(g, rival, answerFor("History", 3)), "rival has no wager")
	require.Equal(t, RightAnswerGiven, e.Guess(g, ctrl, answerFor("History", 3)))
	right := rec.expect(t, "rightAnswer").(RightAnswer)
	assert.Equal(t, 300, right.Amount)
	assert.Equal(t, []trivia.Score{{Player: ctrl, Amount: 300}, {Player: rival, Amount: 0}}, right.Scores)
}

func TestDailyDoubleDefaultsAndForfeit(t *testing.T) {
	boards := &stubBoards{
		categories: []string{"History"},
		daily:      map[string]int{"History": 3},
	}
	e, fs := newTestEngine(boards)
	rec := newRecorder()
	g := newTestGame(rec, WithNumCategoriesPerRound(1))

	startToSelect(t, e, fs, g, rec)
	ctrl := e.Snapshot(g).BoardControl
	require.Equal(t, Selected, e.ChooseQuestion(g, "History", 3, ctrl))
	rec.expect(t, "questionSelected")
	require.True(t, fs.Next())
	rec.expect(t, "askWager")

	// Nobody wagers before the timeout: the clue's value is used.
	require.True(t, fs.Next())
	q := rec.expect(t, "askQuestion").(AskQuestion)
	assert.Equal(t, map[trivia.PlayerID]Wager{ctrl: {Amount: 600, Entered: true}}, q.Wagers)

	// Nor answers: the wager is lost.
	require.True(t, fs.Next())
	rec.expect(t, "noAnswer")
	scores := e.GetScores(g)
	assert.Equal(t, trivia.Score{Player: ctrl, Amount: -600}, scores[len(scores)-1])
}

func TestWagerRange(t *testing.T) {
	e, _ := newTestEngine(threeCategories)
	g := newTestGame(newRecorder())
	g.data = Data{Round: 1, scores: map[trivia.PlayerID]int{}}
	g.data.addScore("low", 300)
	g.data.addScore("high", 1000)

	tests := []struct {
		player trivia.PlayerID
		round  int
		hi     int
	}{
		{"low", 1, 500},
		{"high", 1, 1000},
		{"low", 2, 1000},
		{"high", 3, 1500},
		{"newcomer", 1, 500},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s round %d", tt.player, tt.round), func(t *testing.T) {
			g.data.Round = tt.round
			lo, hi := e.GetValidWagerRange(g, tt.player)
			assert.Equal(t, 5, lo)
			assert.Equal(t, tt.hi, hi)
		})
	}
}

func TestGetScoresStable(t *testing.T) {
	e, _ := newTestEngine(threeCategories)
	g := newTestGame(newRecorder())
	g.data = Data{scores: map[trivia.PlayerID]int{}}
	for _, p := range []trivia.PlayerID{"a", "b", "c", "d"} {
		g.data.ensurePlayer(p)
	}
	g.data.addScore("b", 200)
	g.data.addScore("c", -400)
	g.data.addScore("d", 200)

	assert.Equal(t, []trivia.Score{
		{Player: "b", Amount: 200},
		{Player: "d", Amount: 200},
		{Player: "a", Amount: 0},
		{Player: "c", Amount: -400},
	}, e.GetScores(g))
}

func TestRoundLifecycle(t *testing.T) {
	e, fs := newTestEngine(threeCategories)
	rec := newRecorder()
	g := newTestGame(rec, WithAutoPickQuestions(true), WithNumCategoriesPerRound(1), WithNumRounds(2))

	require.NoError(t, e.Start(g, []trivia.PlayerID{"p1", "p2"}))
	assert.Equal(t, 0, g.Options().NumDailyDoublesPerRound)

	for i := 0; i < 200 && g.State() != StateGameOver; i++ {
		require.True(t, fs.Next(), "stalled in %s", g.State())
	}
	require.Equal(t, StateGameOver, g.State())
	assert.Nil(t, fs.pending())

	names := rec.drain(t)
	count := map[string]int{}
	for _, n := range names {
		count[n]++
	}
	assert.Equal(t, 1, count["gameStart"])
	assert.Equal(t, 2, count["roundStart"])
	assert.Equal(t, 2, count["roundOver"])
	assert.Equal(t, 10, count["questionSelected"])
	assert.Equal(t, 10, count["askQuestion"])
	assert.Equal(t, 10, count["noAnswer"])
	assert.Zero(t, count["questionSelectReady"])
	assert.Equal(t, []string{"roundOver", "gameOver"}, names[len(names)-2:])
}

func TestRoundStartGivesControlToLowestScorer(t *testing.T) {
	e, fs := newTestEngine(threeCategories)
	rec := newRecorder()
	g := newTestGame(rec, WithNumCategoriesPerRound(1))

	startToSelect(t, e, fs, g, rec)
	ctrl := e.Snapshot(g).BoardControl
	require.Equal(t, Selected, e.ChooseQuestion(g, "History", 1, ctrl))
	require.True(t, fs.Next())
	require.Equal(t, RightAnswerGiven, e.Guess(g, ctrl, answerFor("History", 1)))

	for g.State() != StateRoundStart {
		require.True(t, fs.Next(), "stalled in %s", g.State())
	}
	snap := e.Snapshot(g)
	assert.Equal(t, 2, snap.Round)
	assert.Equal(t, other(ctrl), snap.BoardControl)
	assert.Equal(t, 2000, snap.Board.Clue(0, 5).Cost)
}

func TestEmptyBoard(t *testing.T) {
	tests := []struct {
		name   string
		boards *stubBoards
	}{
		{"no clues", &stubBoards{}},
		{"source error", &stubBoards{err: errors.New("database is locked")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, fs := newTestEngine(tt.boards)
			rec := newRecorder()
			g := newTestGame(rec, WithNumRounds(1))

			require.NoError(t, e.Start(g, []trivia.PlayerID{"p1"}))
			require.True(t, fs.Next())
			assert.Equal(t, StateRoundOver, g.State())
			require.True(t, fs.Next())
			assert.Equal(t, []string{"gameStart", "roundStart", "roundOver", "gameOver"}, rec.drain(t))
		})
	}
}

func TestShortBoard(t *testing.T) {
	e, fs := newTestEngine(&stubBoards{categories: []string{"History"}})
	rec := newRecorder()
	g := newTestGame(rec, WithNumCategoriesPerRound(6))

	ready := startToSelect(t, e, fs, g, rec)
	assert.Equal(t, []string{"History"}, ready.Board.Categories)
	assert.Equal(t, 5, e.Snapshot(g).QuestionsLeft)
}

func TestStartErrors(t *testing.T) {
	e, fs := newTestEngine(threeCategories)

	g := newTestGame(newRecorder(), WithNumRounds(0))
	assert.ErrorIs(t, e.Start(g, nil), ErrInvalidOptions)

	g = newTestGame(newRecorder())
	require.NoError(t, e.Start(g, []trivia.PlayerID{"p1"}))
	assert.ErrorIs(t, e.Start(g, []trivia.PlayerID{"p1"}), ErrAlreadyStarted)
	e.Stop(g)
	assert.Nil(t, fs.pending())
}

func TestStop(t *testing.T) {
	e, fs := newTestEngine(threeCategories)
	rec := newRecorder()
	g := newTestGame(rec, WithNumCategoriesPerRound(3))

	startToSelect(t, e, fs, g, rec)
	selectTimer := fs.pending()
	require.NotNil(t, selectTimer)

	e.Stop(g)
	e.Stop(g)
	assert.True(t, selectTimer.stopped)
	assert.Nil(t, fs.pending())

	selectTimer.f()
	assert.Equal(t, StateSelectQuestion, g.State())
	assert.Equal(t, Ignored, e.ChooseQuestion(g, "History", 1, e.Snapshot(g).BoardControl))
	assert.ErrorIs(t, e.Start(g, nil), ErrAlreadyStarted)
	rec.quiet(t)
}

func TestCommand(t *testing.T) {
	e, fs := newTestEngine(threeCategories)
	rec := newRecorder()
	g := newTestGame(rec, WithNumCategoriesPerRound(3))

	startToSelect(t, e, fs, g, rec)
	ctrl := e.Snapshot(g).BoardControl

	assert.Equal(t, Unknown, e.Command(g, ctrl, "hello there"))
	assert.Equal(t, Unknown, e.Command(g, other(ctrl), "History for $600"))
	assert.Equal(t, Ignored, e.Command(g, ctrl, "$300"))
	assert.Equal(t, Ignored, e.Command(g, ctrl, "what is nothing"))

	require.Equal(t, Selected, e.Command(g, ctrl, "2 for $600"))
	sel := rec.expect(t, "questionSelected").(QuestionSelected)
	assert.Equal(t, "Science", sel.Question.Category)
	assert.Equal(t, 3, sel.Question.Level)

	require.True(t, fs.Next())
	rec.expect(t, "askQuestion")
	assert.Equal(t, WrongAnswerGiven, e.Command(g, "p1", "What is the moon"))
	assert.Equal(t, RightAnswerGiven, e.Command(g, "p2", "who is "+answerFor("Science", 3)))
}

func TestCommandFuzzyCategory(t *testing.T) {
	e, fs := newTestEngine(threeCategories)
	rec := newRecorder()
	g := newTestGame(rec, WithNumCategoriesPerRound(3))

	startToSelect(t, e, fs, g, rec)
	ctrl := e.Snapshot(g).BoardControl

	require.Equal(t, Selected, e.Command(g, ctrl, "sport for 10"))
	sel := rec.expect(t, "questionSelected").(QuestionSelected)
	assert.Equal(t, "Sports", sel.Question.Category)
	assert.Equal(t, 5, sel.Question.Level)
}

func TestGamesAreIndependent(t *testing.T) {
	e, fs := newTestEngine(threeCategories)
	recA, recB := newRecorder(), newRecorder()
	a := NewGame("a", recA.listen, WithNumCategoriesPerRound(1))
	b := NewGame("b", recB.listen, WithNumCategoriesPerRound(2))

	require.NoError(t, e.Start(a, []trivia.PlayerID{"p1"}))
	require.NoError(t, e.Start(b, []trivia.PlayerID{"p1"}))
	require.True(t, fs.Next())
	require.True(t, fs.Next())

	assert.Equal(t, "a", recA.expect(t, "gameStart").GameID())
	assert.Equal(t, "b", recB.expect(t, "gameStart").GameID())
	assert.Len(t, e.Snapshot(a).Categories, 1)
	assert.Len(t, e.Snapshot(b).Categories, 2)
}
