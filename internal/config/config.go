package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/playperu/triviaboard/internal/game"
)

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`

	DBDriver  string `env:"DB_DRIVER" envDefault:"libsql"`
	DBPath    string `env:"DB_PATH" envDefault:"data/clues.db"`
	StatsPath string `env:"STATS_PATH" envDefault:"data/stats.db"`
	SeedDemo  bool   `env:"SEED_DEMO" envDefault:"true"`

	// AdminPasswordHash is a bcrypt hash. Clue import is disabled when empty.
	AdminPasswordHash string   `env:"ADMIN_PASSWORD_HASH"`
	CORSOrigins       []string `env:"CORS_ORIGINS" envDefault:"*" envSeparator:","`
	OTELEndpoint      string   `env:"OTEL_ENDPOINT"`

	ClueRecencyYears int `env:"CLUE_RECENCY_YEARS" envDefault:"10"`

	Game GameConfig
}

// GameConfig holds the defaults every new game starts from.
type GameConfig struct {
	QuestionTime            time.Duration `env:"QUESTION_TIME" envDefault:"17s"`
	ChooseQuestionTime      time.Duration `env:"CHOOSE_QUESTION_TIME" envDefault:"10s"`
	TimeBeforeAskQuestion   time.Duration `env:"TIME_BEFORE_ASK_QUESTION" envDefault:"5s"`
	TimeBetweenQuestions    time.Duration `env:"TIME_BETWEEN_QUESTIONS" envDefault:"6s"`
	TimeBetweenRounds       time.Duration `env:"TIME_BETWEEN_ROUNDS" envDefault:"14s"`
	TimeAfterRoundStart     time.Duration `env:"TIME_AFTER_ROUND_START" envDefault:"8s"`
	WagerTime               time.Duration `env:"WAGER_TIME" envDefault:"10s"`
	AutoPickQuestions       bool          `env:"AUTO_PICK_QUESTIONS" envDefault:"false"`
	NumRounds               int           `env:"NUM_ROUNDS" envDefault:"2"`
	PlayFinalRound          bool          `env:"PLAY_FINAL_ROUND" envDefault:"false"`
	GuessesPerQuestion      int           `env:"GUESSES_PER_QUESTION" envDefault:"1"`
	AnswerSimilarity        float64       `env:"ANSWER_SIMILARITY" envDefault:"0.6"`
	CategorySimilarity      float64       `env:"CATEGORY_SIMILARITY" envDefault:"0.5"`
	NumCategoriesPerRound   int           `env:"NUM_CATEGORIES_PER_ROUND" envDefault:"6"`
	NumDailyDoublesPerRound int           `env:"NUM_DAILY_DOUBLES_PER_ROUND" envDefault:"2"`
}

// Options converts the configured defaults into engine options.
func (g GameConfig) Options() game.Options {
	return game.Options{
		QuestionTime:            g.QuestionTime,
		ChooseQuestionTime:      g.ChooseQuestionTime,
		TimeBeforeAskQuestion:   g.TimeBeforeAskQuestion,
		TimeBetweenQuestions:    g.TimeBetweenQuestions,
		TimeBetweenRounds:       g.TimeBetweenRounds,
		TimeAfterRoundStart:     g.TimeAfterRoundStart,
		WagerTime:               g.WagerTime,
		AutoPickQuestions:       g.AutoPickQuestions,
		NumRounds:               g.NumRounds,
		PlayFinalRound:          g.PlayFinalRound,
		GuessesPerQuestion:      g.GuessesPerQuestion,
		AnswerSimilarity:        g.AnswerSimilarity,
		CategorySimilarity:      g.CategorySimilarity,
		NumCategoriesPerRound:   g.NumCategoriesPerRound,
		NumDailyDoublesPerRound: g.NumDailyDoublesPerRound,
	}
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.Game.Options().Validate(); err != nil {
		return nil, fmt.Errorf("game defaults: %w", err)
	}
	return &cfg, nil
}
