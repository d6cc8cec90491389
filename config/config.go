package config

import (
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"wildperudo/agent"
	"wildperudo/meta"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Rounds    int    `env:"PERUDO_ROUNDS"`
	Dice      int    `env:"PERUDO_DICE"`
	Seed      uint64 `env:"PERUDO_SEED"` // 0 draws a random seed
	Games     int    `env:"PERUDO_GAMES"`
	Workers   int    `env:"PERUDO_WORKERS"` // 0 means one per CPU
	OutputDir string `env:"PERUDO_OUTPUT_DIR"`
	Addr      string `env:"PERUDO_ADDR"`
	LogLevel  string `env:"PERUDO_LOG_LEVEL"`

	ChallengeRate      float64 `env:"PERUDO_CHALLENGE_RATE"`
	ChallengeThreshold float64 `env:"PERUDO_CHALLENGE_THRESHOLD"`
	CautionThreshold   float64 `env:"PERUDO_CAUTION_THRESHOLD"`
}

func Default() Config {
	return Config{
		Rounds:    meta.ROUNDS,
		Dice:      meta.DICE,
		Games:     meta.GAMES,
		OutputDir: meta.OUTPUT_DIR,
		Addr:      meta.ADDR,
		LogLevel:  meta.LOG_LEVEL,

		ChallengeRate:      meta.CHALLENGE_RATE,
		ChallengeThreshold: meta.CHALLENGE_THRESHOLD,
		CautionThreshold:   meta.CAUTION_THRESHOLD,
	}
}

// Load reads the given dotenv files (".env" when none are given) and then
// the environment on top of the defaults. Missing dotenv files are ignored;
// variables already set in the environment win over the files.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load dotenv: %w", err)
	}

	cfg := Default()
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func (c Config) Validate() error {
	switch {
	case c.Rounds < 0:
		return fmt.Errorf("%w: rounds %d cannot be negative", ErrInvalidConfig, c.Rounds)
	case c.Dice <= 0:
		return fmt.Errorf("%w: dice %d must be positive", ErrInvalidConfig, c.Dice)
	case c.Games <= 0:
		return fmt.Errorf("%w: games %d must be positive", ErrInvalidConfig, c.Games)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers %d cannot be negative", ErrInvalidConfig, c.Workers)
	case c.ChallengeRate < 0 || c.ChallengeRate > 1:
		return fmt.Errorf("%w: challenge rate %v must be between 0 and 1", ErrInvalidConfig, c.ChallengeRate)
	case c.ChallengeThreshold <= 0 || c.ChallengeThreshold >= 1:
		return fmt.Errorf("%w: challenge threshold %v must be strictly between 0 and 1", ErrInvalidConfig, c.ChallengeThreshold)
	case c.CautionThreshold <= 0 || c.CautionThreshold >= 1:
		return fmt.Errorf("%w: caution threshold %v must be strictly between 0 and 1", ErrInvalidConfig, c.CautionThreshold)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("%w: log level: %w", ErrInvalidConfig, err)
	}
	return level, nil
}

// AgentOptions tunes the automated agents.
func (c Config) AgentOptions() []agent.Option {
	return []agent.Option{
		agent.WithChallengeRate(c.ChallengeRate),
		agent.WithChallengeThreshold(c.ChallengeThreshold),
		agent.WithCautionThreshold(c.CautionThreshold),
	}
}

// ResolveSeed returns Seed, or a fresh random seed when it is unset.
func (c Config) ResolveSeed() (uint64, error) {
	if c.Seed != 0 {
		return c.Seed, nil
	}
	return NewSeed()
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (uint64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}
