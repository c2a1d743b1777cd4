package game

// State is a phase of the game state machine.
type State int

const (
	StateNew State = iota
	StateRoundStart
	StateSelectQuestion
	StateAskWager
	StateAskQuestion
	StateNoAnswer
	StateQuestionOver
	StateRoundOver
	StateGameOver
)

var stateNames = []string{
	"new",
	"roundStart",
	"selectQuestion",
	"askWager",
	"askQuestion",
	"noAnswer",
	"questionOver",
	"roundOver",
	"gameOver",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return ""
	}
	return stateNames[s]
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
