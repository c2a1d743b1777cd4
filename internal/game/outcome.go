package game

// Outcome is what a player action resulted in. Invalid actions are reported
// through an Outcome, never an error.
type Outcome int

const (
	// Ignored means the action does not apply right now: wrong phase, no
	// pending wager, guesses used up.
	Ignored Outcome = iota
	// Unknown means the action was not understood or not allowed.
	Unknown
	Selected
	BadWager
	WagerAccepted
	RightAnswerGiven
	WrongAnswerGiven
)

var outcomeNames = []string{
	"ignored",
	"unknown",
	"selected",
	"badWager",
	"wager",
	"rightAnswer",
	"wrongAnswer",
}

func (o Outcome) String() string {
	if o < 0 || int(o) >= len(outcomeNames) {
		return ""
	}
	return outcomeNames[o]
}

// MarshalText encodes the outcome by name.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}
