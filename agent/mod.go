package agent

import (
	"fmt"
	"slices"
	"strings"

	"wildperudo/game"
	"wildperudo/meta"
)

type Kind string

const (
	KindRandom     Kind = "random"
	KindZeroOrder  Kind = "zero"
	KindFirstOrder Kind = "first"
	KindImproved   Kind = "improved"
	KindHuman      Kind = "human"
)

// Kinds lists the strategies that can be built without external input.
var Kinds = []Kind{KindRandom, KindZeroOrder, KindFirstOrder, KindImproved}

func ParseKind(s string) (Kind, error) {
	kind := Kind(strings.ToLower(strings.TrimSpace(s)))
	switch kind {
	case KindRandom, KindZeroOrder, KindFirstOrder, KindImproved, KindHuman:
		return kind, nil
	}
	return "", fmt.Errorf("unknown agent kind %q", s)
}

// New builds an automated agent of the given kind. Options a kind has no use
// for are ignored.
func New(kind Kind, name string, dice int, rng game.RNG, options ...Option) (game.Agent, error) {
	switch kind {
	case KindRandom:
		return NewRandom(name, dice, append(slices.Clip(options), WithRNG(rng))...), nil
	case KindZeroOrder:
		return NewZeroOrder(name, dice, options...), nil
	case KindFirstOrder:
		return NewFirstOrder(name, dice, options...), nil
	case KindImproved:
		return NewFirstOrder(name, dice, append(slices.Clip(options), WithBeliefIntervals())...), nil
	case KindHuman:
		return nil, fmt.Errorf("human agents need a prompter")
	}
	return nil, fmt.Errorf("unknown agent kind %q", kind)
}

type Option func(s *settings)

type settings struct {
	rng                game.RNG
	challengeRate      float64
	challengeThreshold float64
	cautionThreshold   float64
	archetypes         []Archetype
	intervals          bool
}

func defaultSettings() settings {
	return settings{
		challengeRate:      meta.CHALLENGE_RATE,
		challengeThreshold: meta.CHALLENGE_THRESHOLD,
		cautionThreshold:   meta.CAUTION_THRESHOLD,
		archetypes:         DefaultArchetypes,
	}
}

func newSettings(options []Option) settings {
	s := defaultSettings()
	for _, option := range options {
		option(&s)
	}
	return s
}

// WithRNG sets the randomness handle of randomized agents.
func WithRNG(rng game.RNG) Option {
	return func(s *settings) {
		if rng != nil {
			s.rng = rng
		}
	}
}

// WithChallengeRate sets how often the random agent challenges.
func WithChallengeRate(rate float64) Option {
	return func(s *settings) {
		if rate >= 0 && rate <= 1 {
			s.challengeRate = rate
		}
	}
}

// WithChallengeThreshold sets the failure probability above which a bid is challenged.
func WithChallengeThreshold(threshold float64) Option {
	return func(s *settings) {
		if threshold > 0 && threshold < 1 {
			s.challengeThreshold = threshold
		}
	}
}

// WithCautionThreshold sets the predicted challenge probability above which
// the first-order agent answers conservatively.
func WithCautionThreshold(threshold float64) Option {
	return func(s *settings) {
		if threshold > 0 && threshold < 1 {
			s.cautionThreshold = threshold
		}
	}
}

// withArchetypes replaces the opponent behaviour table.
func withArchetypes(archetypes ...Archetype) Option {
	return func(s *settings) {
		if len(archetypes) > 0 {
			s.archetypes = archetypes
		}
	}
}

// WithBeliefIntervals enables per-face hand intervals for every opponent.
func WithBeliefIntervals() Option {
	return func(s *settings) {
		s.intervals = true
	}
}

type base struct {
	name  string
	dice  *game.Dice
	table game.Table
}

func newBase(name string, dice int) base {
	return base{name: name, dice: game.NewDice(dice)}
}

func (b *base) Name() string {
	return b.name
}

func (b *base) Dice() *game.Dice {
	return b.dice
}

func (b *base) Seat(table game.Table) {
	b.table = table
}

func (b *base) totalDice() int {
	if b.table == nil {
		return b.dice.Count()
	}
	return b.table.TotalDice()
}

func (b *base) unseenDice() int {
	return b.totalDice() - b.dice.Count()
}

// canRaise reports whether any face has a legal raise within the dice in play.
func (b *base) canRaise(current game.Bid) bool {
	total := b.totalDice()
	for face := game.MinFace; face <= game.MaxFace; face++ {
		if game.MinRaise(current, face).Count <= total {
			return true
		}
	}
	return false
}
