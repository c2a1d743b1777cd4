package server

import (
	"fmt"
	"slices"
	"strings"

	"github.com/playperu/triviaboard/internal/game"
	"github.com/playperu/triviaboard/internal/trivia"
)

// ClueView is a clue as shown to players. Answer is only filled once the
// clue is over.
type ClueView struct {
	Category    string `json:"category"`
	Level       int    `json:"level"`
	Cost        int    `json:"cost"`
	Question    string `json:"question,omitempty"`
	Answer      string `json:"answer,omitempty"`
	DailyDouble bool   `json:"dailyDouble,omitempty"`
}

// CellView is one slot of a board.
type CellView struct {
	Level     int  `json:"level"`
	Cost      int  `json:"cost"`
	Available bool `json:"available"`
}

// BoardView is a board without its questions and answers.
type BoardView struct {
	Categories []string     `json:"categories"`
	Cells      [][]CellView `json:"cells"`
}

// LiveEvent is a rendered game event, sent over SSE and WebSocket.
type LiveEvent struct {
	Type    string                         `json:"type"`
	Game    string                         `json:"game"`
	Message string                         `json:"message,omitempty"`
	Round   int                            `json:"round,omitempty"`
	Player  trivia.PlayerID                `json:"player,omitempty"`
	Amount  int                            `json:"amount,omitempty"`
	Guess   string                         `json:"guess,omitempty"`
	Clue    *ClueView                      `json:"clue,omitempty"`
	Board   *BoardView                     `json:"board,omitempty"`
	Wagers  map[trivia.PlayerID]game.Wager `json:"wagers,omitempty"`
	Scores  []trivia.Score                 `json:"scores,omitempty"`
}

func newBoardView(b trivia.Board) *BoardView {
	v := &BoardView{
		Categories: b.Categories,
		Cells:      make([][]CellView, len(b.Cells)),
	}
	if v.Categories == nil {
		v.Categories = []string{}
	}
	for i := range b.Cells {
		row := make([]CellView, 0, trivia.Levels)
		for level := 1; level <= trivia.Levels; level++ {
			c := b.Clue(i, level)
			if c == nil {
				row = append(row, CellView{Level: level})
				continue
			}
			row = append(row, CellView{Level: level, Cost: c.Cost, Available: c.Enabled})
		}
		v.Cells[i] = row
	}
	return v
}

// clueView hides what players may not see yet. A daily double's question
// stays hidden until the wager is in.
func clueView(c trivia.Clue, showQuestion, showAnswer bool) *ClueView {
	v := &ClueView{
		Category:    c.Category,
		Level:       c.Level,
		Cost:        c.Cost,
		DailyDouble: c.DailyDouble,
	}
	if showQuestion {
		v.Question = c.Question
	}
	if showAnswer {
		v.Answer = c.Answer
	}
	return v
}

func scoreLines(scores []trivia.Score) string {
	lines := make([]string, 0, len(scores))
	for _, s := range scores {
		lines = append(lines, fmt.Sprintf("%s: %d", s.Player, s.Amount))
	}
	return strings.Join(lines, "\n")
}

func withScores(msg string, scores []trivia.Score) string {
	if len(scores) == 0 {
		return msg
	}
	return msg + "\n" + scoreLines(scores)
}

// finished returns the closing gameOver event of g once the game is over.
// A finished game emits nothing more, so streams end on it.
func finished(engine *game.Engine, g *game.Game) (LiveEvent, bool) {
	if g.State() != game.StateGameOver {
		return LiveEvent{}, false
	}
	return render(game.GameOver{Meta: game.Meta{Game: g.ID}, Scores: engine.GetScores(g)}), true
}

// render turns an engine event into what the host says about it.
func render(ev game.Event) LiveEvent {
	out := LiveEvent{Type: ev.Name(), Game: ev.GameID()}

	switch ev := ev.(type) {
	case game.GameStart:
		out.Message = "Lettuce Start Because I'm Hungry To Play!!!"

	case game.RoundStart:
		out.Round = ev.Round
		out.Message = "We've Got A Hot Board Of Questions For You!!!"

	case game.QuestionSelectReady:
		out.Player = ev.Player
		out.Board = newBoardView(ev.Board)
		out.Message = fmt.Sprintf("%s, pick a clue.", ev.Player)

	case game.QuestionSelected:
		out.Player = ev.Player
		q := ev.Question
		if q.DailyDouble {
			out.Clue = clueView(q, false, false)
			out.Message = fmt.Sprintf("It's A Daily Double!\n%s\n$%d", q.Category, q.Cost)
			break
		}
		out.Clue = clueView(q, true, false)
		out.Message = fmt.Sprintf("Get A Load Of This One. It's A Real Thinker:\n%s\n$%d\n%s", q.Category, q.Cost, q.Question)

	case game.AskWager:
		out.Wagers = ev.Wagers
		names := make([]string, 0, len(ev.Wagers))
		for p := range ev.Wagers {
			names = append(names, string(p))
		}
		slices.Sort(names)
		out.Message = fmt.Sprintf("%s, how much do you wager?", strings.Join(names, ", "))

	case game.Wagered:
		out.Player = ev.Player
		out.Amount = ev.Amount
		out.Message = fmt.Sprintf("%s wagers $%d", ev.Player, ev.Amount)

	case game.AskQuestion:
		out.Clue = clueView(ev.Question, true, false)
		out.Wagers = ev.Wagers
		out.Message = ev.Question.Question

	case game.RightAnswer:
		out.Player = ev.Player
		out.Amount = ev.Amount
		out.Clue = clueView(ev.Question, true, true)
		out.Scores = ev.Scores
		out.Message = withScores(fmt.Sprintf("Wow You Are Smarter, Much Smarter Than My Ex-Wife!\n%s guessed %s right", ev.Player, ev.Question.Answer), ev.Scores)

	case game.WrongAnswer:
		out.Player = ev.Player
		out.Amount = ev.Amount
		out.Guess = ev.Guess
		out.Clue = clueView(ev.Question, true, false)
		out.Message = fmt.Sprintf("You Fool! %s guessed %q wrong", ev.Player, ev.Guess)

	case game.NoAnswer:
		out.Clue = clueView(ev.Question, true, true)
		out.Message = fmt.Sprintf("Stumped Ya Good, Ya Dingus\nThe answer was %s", ev.Question.Answer)

	case game.RoundOver:
		out.Round = ev.Round
		out.Scores = ev.Scores
		out.Message = withScores("I May Be Square But Even I Can Tell This Round Is Over!", ev.Scores)

	case game.GameOver:
		out.Scores = ev.Scores
		out.Message = withScores("Thanks For Playing!", ev.Scores)
	}
	return out
}
