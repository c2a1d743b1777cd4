// Package command turns raw player chat into game intents.
package command

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/playperu/triviaboard/internal/similarity"
)

// Kind is the type of a parsed intent.
type Kind int

const (
	None Kind = iota
	Guess
	Wager
	Choose
)

var kindNames = []string{
	"none",
	"guess",
	"wager",
	"choose",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return ""
	}
	return kindNames[k]
}

// Intent is what a line of player text asks the engine to do.
type Intent struct {
	Kind     Kind
	Guess    string
	Amount   int
	Category string
	Level    int
}

// Board is the part of the game state the interpreter needs.
type Board struct {
	Round      int
	Categories []string
	AutoPick   bool
	// CategorySimilarity is the minimum score for a category name to match
	// when a player names a category instead of giving its column number.
	CategorySimilarity float64
}

var (
	guessPattern  = regexp.MustCompile(`(?is)^\s*(?:who|what|when|where)\s*(?:is|was|are)\s*(.*)$`)
	wagerStrip    = strings.NewReplacer("$", "", ",", "", ".", "")
	leadingInt    = regexp.MustCompile(`^[+-]?\d+`)
	choosePattern = regexp.MustCompile(`(?i)^\s*(.+)\s+for\s+\$?([\d,]+)`)
)

// Parse classifies text. Guesses win over wagers, wagers over question
// choices. ok is false when nothing usable was found.
func Parse(text string, b Board) (Intent, bool) {
	if m := guessPattern.FindStringSubmatch(text); m != nil {
		return Intent{Kind: Guess, Guess: strings.TrimSpace(m[1])}, true
	}

	if strings.HasPrefix(text, "$") {
		digits := leadingInt.FindString(strings.TrimSpace(wagerStrip.Replace(text)))
		amount, err := strconv.Atoi(digits)
		if err != nil {
			return Intent{}, false
		}
		return Intent{Kind: Wager, Amount: amount}, true
	}

	if b.AutoPick {
		return Intent{}, false
	}
	return parseChoice(text, b)
}

func parseChoice(text string, b Board) (Intent, bool) {
	m := choosePattern.FindStringSubmatch(text)
	if m == nil {
		return Intent{}, false
	}

	amount, err := strconv.Atoi(strings.ReplaceAll(m[2], ",", ""))
	if err != nil {
		return Intent{}, false
	}
	level, ok := Level(amount, b.Round)
	if !ok {
		return Intent{}, false
	}

	category, ok := resolveCategory(strings.TrimSpace(m[1]), b)
	if !ok {
		return Intent{}, false
	}

	return Intent{Kind: Choose, Category: category, Level: level}, true
}

// Level converts a dollar amount into a difficulty level for the round.
// Both the full amount ("1600") and the shorthand without the trailing
// zeros ("16") are accepted. ok is false for amounts that do not divide
// into a whole level.
func Level(amount, round int) (int, bool) {
	if round < 1 || amount <= 0 || amount%round != 0 {
		return 0, false
	}
	perRound := amount / round
	div := 2
	if perRound >= 100 {
		div = 200
	}
	if perRound%div != 0 {
		return 0, false
	}
	return perRound / div, true
}

func resolveCategory(ref string, b Board) (string, bool) {
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(b.Categories) {
			return "", false
		}
		return b.Categories[n-1], true
	}

	idx := similarity.Best(ref, b.Categories, b.CategorySimilarity)
	if idx < 0 {
		return "", false
	}
	return b.Categories[idx], true
}
