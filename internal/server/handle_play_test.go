package server

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/playperu/triviaboard/internal/game"
	"github.com/playperu/triviaboard/internal/stats"
	"github.com/playperu/triviaboard/internal/trivia"
)

func outcome(t *testing.T, e *testEnv, g *game.Game, action string, body any) game.Outcome {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/games/"+g.ID+"/"+action, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("%s status = %d, body = %s", action, rec.Code, rec.Body.String())
	}
	resp := decode[map[string]string](t, rec)
	for o := game.Ignored; o <= game.WrongAnswerGiven; o++ {
		if o.String() == resp["outcome"] {
			return o
		}
	}
	t.Fatalf("unknown outcome %q", resp["outcome"])
	return 0
}

func TestPlayRound(t *testing.T) {
	e := setupEnv(t)
	g := e.startGame(t)

	snap := e.engine.Snapshot(g)
	ctrl := snap.BoardControl
	category := snap.Categories[0]
	answer := snap.Board.Clue(0, 1).Answer

	if got := outcome(t, e, g, "choose", ChooseRequest{Player: other(ctrl), Category: category, Level: 1}); got != game.Unknown {
		t.Errorf("choose by rival = %s, want unknown", got)
	}
	if got := outcome(t, e, g, "choose", ChooseRequest{Player: ctrl, Category: category, Level: 9}); got != game.Unknown {
		t.Errorf("choose bad level = %s, want unknown", got)
	}
	if got := outcome(t, e, g, "choose", ChooseRequest{Player: ctrl, Category: category, Level: 1}); got != game.Selected {
		t.Fatalf("choose = %s, want selected", got)
	}
	e.waitState(t, g, game.StateAskQuestion)

	rec := e.do(t, http.MethodGet, "/api/games/"+g.ID, nil)
	resp := decode[GameResponse](t, rec)
	if resp.Question == nil || resp.Question.Question == "" || resp.Question.Answer != "" {
		t.Errorf("question = %+v, want text without answer", resp.Question)
	}

	if got := outcome(t, e, g, "wager", WagerRequest{Player: ctrl, Amount: 100}); got != game.Ignored {
		t.Errorf("wager = %s, want ignored", got)
	}
	if got := outcome(t, e, g, "guess", GuessRequest{Player: other(ctrl), Guess: "qqqqqqqqqqqqqq"}); got != game.WrongAnswerGiven {
		t.Errorf("wrong guess = %s, want wrongAnswer", got)
	}
	if got := outcome(t, e, g, "command", CommandRequest{Player: ctrl, Text: "what is " + answer}); got != game.RightAnswerGiven {
		t.Fatalf("command guess = %s, want rightAnswer", got)
	}

	scores := e.engine.GetScores(g)
	want := []trivia.Score{{Player: ctrl, Amount: 200}, {Player: other(ctrl), Amount: -200}}
	if len(scores) != 2 || scores[0] != want[0] || scores[1] != want[1] {
		t.Errorf("scores = %+v, want %+v", scores, want)
	}

	// Stats are written by the recorder on the game's event goroutine.
	deadline := time.Now().Add(2 * time.Second)
	for {
		st, err := e.stats.Get(t.Context(), ctrl)
		if err == nil && st.Correct == 1 {
			break
		}
		if err != nil && !errors.Is(err, stats.ErrNotFound) {
			t.Fatalf("stats: %v", err)
		}
		if time.Now().After(deadline) {
			t.Fatalf("stats for %s never recorded", ctrl)
		}
		time.Sleep(5 * time.Millisecond)
	}

	rec = e.do(t, http.MethodGet, "/api/players/"+string(ctrl)+"/stats", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("stats status = %d", rec.Code)
	}
	if st := decode[trivia.PlayerStats](t, rec); st.Earnings != 200 || st.Accuracy != 1 {
		t.Errorf("stats = %+v", st)
	}
}

func TestCommandByIndex(t *testing.T) {
	e := setupEnv(t)
	g := e.startGame(t)
	snap := e.engine.Snapshot(g)

	if got := outcome(t, e, g, "command", CommandRequest{Player: snap.BoardControl, Text: "hello"}); got != game.Unknown {
		t.Errorf("chatter = %s, want unknown", got)
	}
	if got := outcome(t, e, g, "command", CommandRequest{Player: snap.BoardControl, Text: "2 for $600"}); got != game.Selected {
		t.Fatalf("command choose = %s, want selected", got)
	}

	q := e.engine.Snapshot(g).Question
	if q == nil || q.Category != snap.Categories[1] || q.Level != 3 {
		t.Errorf("question = %+v, want %s level 3", q, snap.Categories[1])
	}
}

func TestPlayerActionValidation(t *testing.T) {
	e := setupEnv(t)
	g := e.startGame(t)

	tests := []struct {
		name   string
		action string
		body   any
	}{
		{"invalid json", "guess", "{"},
		{"guess without player", "guess", GuessRequest{Guess: "x"}},
		{"wager without player", "wager", WagerRequest{Amount: 100}},
		{"choose without player", "choose", ChooseRequest{Category: "x", Level: 1}},
		{"command without text", "command", CommandRequest{Player: "p1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := e.do(t, http.MethodPost, "/api/games/"+g.ID+"/"+tt.action, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestStatsEndpoints(t *testing.T) {
	e := setupEnv(t)

	if rec := e.do(t, http.MethodGet, "/api/players/nobody/stats", nil); rec.Code != http.StatusNotFound {
		t.Errorf("missing stats status = %d, want 404", rec.Code)
	}
	if rec := e.do(t, http.MethodGet, "/api/leaderboard?limit=abc", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("bad limit status = %d, want 400", rec.Code)
	}

	rec := e.do(t, http.MethodGet, "/api/leaderboard", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("leaderboard status = %d", rec.Code)
	}
	if body := rec.Body.String(); body != "[]\n" {
		t.Errorf("leaderboard = %q, want empty list", body)
	}

	for p, earned := range map[trivia.PlayerID]int{"a": 100, "b": 300} {
		err := e.stats.Update(t.Context(), p, func(st *trivia.PlayerStats) { st.Earnings = earned })
		if err != nil {
			t.Fatalf("update: %v", err)
		}
	}
	rec = e.do(t, http.MethodGet, "/api/leaderboard?limit=1", nil)
	entries := decode[[]stats.Entry](t, rec)
	if len(entries) != 1 || entries[0].Player != "b" {
		t.Errorf("leaderboard = %+v, want only b", entries)
	}
}
