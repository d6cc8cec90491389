package agent

import (
	"time"

	"wildperudo/game"
)

// Random opens with a single random face, raises by one (sometimes bumping
// the face) and challenges at a fixed rate.
type Random struct {
	base
	rng           game.RNG
	challengeRate float64
}

func NewRandom(name string, dice int, options ...Option) *Random {
	s := newSettings(options)
	if s.rng == nil {
		s.rng = game.NewRNG(uint64(time.Now().UnixNano()))
	}
	return &Random{
		base:          newBase(name, dice),
		rng:           s.rng,
		challengeRate: s.challengeRate,
	}
}

func (r *Random) MakeBid(current *game.Bid) (game.Bid, error) {
	if current == nil {
		return game.Bid{Count: 1, Face: r.rng.Intn(game.MaxFace-1) + 2}, nil
	}

	bid := game.Bid{Count: current.Count + 1, Face: current.Face}
	if r.rng.Float64() > 0.5 {
		bid.Face = min(current.Face+1, game.MaxFace)
	}
	if !bid.IsValidRaise(*current) {
		// bumping off a wild bid needs the doubled count
		bid = game.MinRaise(*current, bid.Face)
	}
	return bid, nil
}

func (r *Random) DecideChallenge(current game.Bid, activeAgents int) (bool, error) {
	if current.Count > r.totalDice() {
		return true, nil
	}
	return r.rng.Float64() < r.challengeRate, nil
}
