package game

import "github.com/playperu/triviaboard/internal/trivia"

// Event is something that happened in a game. The set of events is closed:
// every implementation lives in this package.
type Event interface {
	// Name is the wire name of the event, e.g. "rightAnswer".
	Name() string
	GameID() string
	isEvent()
}

// Listener receives a game's events in the order they were emitted, on the
// game's own delivery goroutine. A listener may call back into the engine.
type Listener func(Event)

// Meta is embedded in every event.
type Meta struct {
	Game string `json:"game"`
}

func (m Meta) GameID() string { return m.Game }
func (Meta) isEvent()         {}

// WagerType tells what a wager is for.
type WagerType string

const WagerDailyDouble WagerType = "dailydouble"

type GameStart struct {
	Meta
	Players []trivia.PlayerID
}

type RoundStart struct {
	Meta
	Round int
}

// QuestionSelectReady is emitted when Player may choose the next clue.
type QuestionSelectReady struct {
	Meta
	Board  trivia.Board
	Player trivia.PlayerID
}

type QuestionSelected struct {
	Meta
	Question trivia.Clue
	Player   trivia.PlayerID
}

// AskWager lists the players who must wager before the question is asked.
type AskWager struct {
	Meta
	Wagers map[trivia.PlayerID]Wager
	Type   WagerType
}

// Wagered is emitted when a wager is accepted.
type Wagered struct {
	Meta
	Player trivia.PlayerID
	Amount int
}

type AskQuestion struct {
	Meta
	Question trivia.Clue
	Wagers   map[trivia.PlayerID]Wager
}

type RightAnswer struct {
	Meta
	Player   trivia.PlayerID
	Question trivia.Clue
	Amount   int
	Scores   []trivia.Score
}

type WrongAnswer struct {
	Meta
	Player   trivia.PlayerID
	Guess    string
	Question trivia.Clue
	Amount   int
}

type NoAnswer struct {
	Meta
	Question trivia.Clue
}

type RoundOver struct {
	Meta
	Round  int
	Scores []trivia.Score
}

type GameOver struct {
	Meta
	Scores []trivia.Score
}

func (GameStart) Name() string           { return "gameStart" }
func (RoundStart) Name() string          { return "roundStart" }
func (QuestionSelectReady) Name() string { return "questionSelectReady" }
func (QuestionSelected) Name() string    { return "questionSelected" }
func (AskWager) Name() string            { return "askWager" }
func (Wagered) Name() string             { return "onWager" }
func (AskQuestion) Name() string         { return "askQuestion" }
func (RightAnswer) Name() string         { return "rightAnswer" }
func (WrongAnswer) Name() string         { return "wrongAnswer" }
func (NoAnswer) Name() string            { return "noAnswer" }
func (RoundOver) Name() string           { return "roundOver" }
func (GameOver) Name() string            { return "gameOver" }
