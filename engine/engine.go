package engine

import (
	"errors"
	"fmt"
	"slices"

	"wildperudo/game"
)

var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrGameOver             = errors.New("game over")
)

type Engine interface {
	// Run plays rounds until the budget is spent or one agent remains
	Run(maxRounds int) (Result, error)
}

// Hook follows a session from outside the table, after the agents have been
// told.
type Hook interface {
	RoundStarted(round int)
	TurnPlayed(outcome TurnOutcome)
}

type Phase int

const (
	AwaitingRoll Phase = iota
	InRound
	RoundResolved
	GameOver
)

var phaseNames = []string{"awaiting_roll", "in_round", "round_resolved", "game_over"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(text []byte) error {
	i := slices.Index(phaseNames, string(text))
	if i < 0 {
		return fmt.Errorf("unknown phase %q", text)
	}
	*p = Phase(i)
	return nil
}

type OutcomeKind int

const (
	OutcomeBid OutcomeKind = iota
	OutcomeChallenge
	OutcomeElimination
	// OutcomeGameOver is an elimination that left a single agent.
	OutcomeGameOver
)

var outcomeNames = []string{"bid", "challenge", "elimination", "game_over"}

func (k OutcomeKind) String() string {
	if k < 0 || int(k) >= len(outcomeNames) {
		return fmt.Sprintf("outcome(%d)", int(k))
	}
	return outcomeNames[k]
}

func (k OutcomeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *OutcomeKind) UnmarshalText(text []byte) error {
	i := slices.Index(outcomeNames, string(text))
	if i < 0 {
		return fmt.Errorf("unknown outcome %q", text)
	}
	*k = OutcomeKind(i)
	return nil
}

// TurnOutcome describes what one call to PlayTurn did.
type TurnOutcome struct {
	Kind  OutcomeKind `json:"kind"`
	Agent string      `json:"agent"`
	// Bid is the accepted bid, the challenged bid, or the rejected raise.
	Bid game.Bid `json:"bid"`

	// challenge only
	Bidder  string           `json:"bidder,omitempty"`
	Support int              `json:"support,omitempty"`
	Stood   bool             `json:"stood,omitempty"`
	Hands   map[string][]int `json:"hands,omitempty"`

	Winner string `json:"winner,omitempty"`
}

type Score struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Result is the terminal tally. Winner and Loser are empty on a tie; Loser
// is also empty when a single agent is left.
type Result struct {
	Winner string  `json:"winner"`
	Loser  string  `json:"loser"`
	Tie    bool    `json:"tie"`
	Rounds int     `json:"rounds"`
	Scores []Score `json:"scores"`
}

type AgentState struct {
	Dice   []int `json:"dice"`
	Score  int   `json:"score"`
	Active bool  `json:"active"`
}

// Snapshot is a deep copy of the session state. It includes every agent's
// dice; hiding them from other viewers is up to the caller.
type Snapshot struct {
	ID          string                `json:"id"`
	Agents      map[string]AgentState `json:"agents"`
	Order       []string              `json:"order"`
	CurrentBid  *game.Bid             `json:"current_bid"`
	CurrentTurn string                `json:"current_turn"`
	Round       int                   `json:"round"`
	Phase       Phase                 `json:"phase"`
	Eliminated  []string              `json:"eliminated"`
	Winner      string                `json:"winner,omitempty"`
}
