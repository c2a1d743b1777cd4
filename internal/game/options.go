package game

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidOptions = errors.New("invalid game options")

// Options configure one game. They are resolved once, at Start, by applying
// the game's Option values over the engine defaults.
type Options struct {
	QuestionTime          time.Duration // how long players have to answer
	ChooseQuestionTime    time.Duration // before a random clue is picked for the board controller
	TimeBeforeAskQuestion time.Duration // between a clue being chosen and it being asked
	TimeBetweenQuestions  time.Duration
	TimeBetweenRounds     time.Duration
	TimeAfterRoundStart   time.Duration
	WagerTime             time.Duration

	AutoPickQuestions  bool
	NumRounds          int
	GuessesPerQuestion int

	// PlayFinalRound is reserved. No final round is played yet.
	PlayFinalRound bool

	AnswerSimilarity   float64
	CategorySimilarity float64

	NumCategoriesPerRound   int
	NumDailyDoublesPerRound int
}

// DefaultOptions returns the stock game configuration.
func DefaultOptions() Options {
	return Options{
		QuestionTime:            17 * time.Second,
		ChooseQuestionTime:      10 * time.Second,
		TimeBeforeAskQuestion:   5 * time.Second,
		TimeBetweenQuestions:    6 * time.Second,
		TimeBetweenRounds:       14 * time.Second,
		TimeAfterRoundStart:     8 * time.Second,
		WagerTime:               10 * time.Second,
		AutoPickQuestions:       false,
		NumRounds:               2,
		PlayFinalRound:          false,
		GuessesPerQuestion:      1,
		AnswerSimilarity:        0.6,
		CategorySimilarity:      0.5,
		NumCategoriesPerRound:   6,
		NumDailyDoublesPerRound: 2,
	}
}

// Validate reports the first option outside its allowed range.
func (o Options) Validate() error {
	durations := []struct {
		name string
		d    time.Duration
	}{
		{"questionTime", o.QuestionTime},
		{"chooseQuestionTime", o.ChooseQuestionTime},
		{"timeBeforeAskQuestion", o.TimeBeforeAskQuestion},
		{"timeBetweenQuestions", o.TimeBetweenQuestions},
		{"timeBetweenRounds", o.TimeBetweenRounds},
		{"timeAfterRoundStart", o.TimeAfterRoundStart},
		{"wagerTime", o.WagerTime},
	}
	for _, dur := range durations {
		if dur.d < 0 {
			return fmt.Errorf("%w: %s must not be negative", ErrInvalidOptions, dur.name)
		}
	}

	switch {
	case o.NumRounds < 1:
		return fmt.Errorf("%w: numRounds must be at least 1", ErrInvalidOptions)
	case o.GuessesPerQuestion < 1:
		return fmt.Errorf("%w: guessesPerQuestion must be at least 1", ErrInvalidOptions)
	case o.NumCategoriesPerRound < 1:
		return fmt.Errorf("%w: numCategoriesPerRound must be at least 1", ErrInvalidOptions)
	case o.NumDailyDoublesPerRound < 0:
		return fmt.Errorf("%w: numDailyDoublesPerRound must not be negative", ErrInvalidOptions)
	case o.AnswerSimilarity < 0 || o.AnswerSimilarity > 1:
		return fmt.Errorf("%w: answerSimilarity must be within [0,1]", ErrInvalidOptions)
	case o.CategorySimilarity < 0 || o.CategorySimilarity > 1:
		return fmt.Errorf("%w: categorySimilarity must be within [0,1]", ErrInvalidOptions)
	}
	return nil
}

// Option overrides one engine default for a single game.
type Option func(*Options)

func WithQuestionTime(d time.Duration) Option {
	return func(o *Options) { o.QuestionTime = d }
}

func WithChooseQuestionTime(d time.Duration) Option {
	return func(o *Options) { o.ChooseQuestionTime = d }
}

func WithTimeBeforeAskQuestion(d time.Duration) Option {
	return func(o *Options) { o.TimeBeforeAskQuestion = d }
}

func WithTimeBetweenQuestions(d time.Duration) Option {
	return func(o *Options) { o.TimeBetweenQuestions = d }
}

func WithTimeBetweenRounds(d time.Duration) Option {
	return func(o *Options) { o.TimeBetweenRounds = d }
}

func WithTimeAfterRoundStart(d time.Duration) Option {
	return func(o *Options) { o.TimeAfterRoundStart = d }
}

func WithWagerTime(d time.Duration) Option {
	return func(o *Options) { o.WagerTime = d }
}

// WithAutoPickQuestions makes the engine pick every clue at random. Daily
// doubles are turned off for such games.
func WithAutoPickQuestions(v bool) Option {
	return func(o *Options) { o.AutoPickQuestions = v }
}

func WithNumRounds(n int) Option {
	return func(o *Options) { o.NumRounds = n }
}

func WithPlayFinalRound(v bool) Option {
	return func(o *Options) { o.PlayFinalRound = v }
}

func WithGuessesPerQuestion(n int) Option {
	return func(o *Options) { o.GuessesPerQuestion = n }
}

func WithAnswerSimilarity(v float64) Option {
	return func(o *Options) { o.AnswerSimilarity = v }
}

func WithCategorySimilarity(v float64) Option {
	return func(o *Options) { o.CategorySimilarity = v }
}

func WithNumCategoriesPerRound(n int) Option {
	return func(o *Options) { o.NumCategoriesPerRound = n }
}

func WithNumDailyDoublesPerRound(n int) Option {
	return func(o *Options) { o.NumDailyDoublesPerRound = n }
}
