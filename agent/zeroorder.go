package agent

import "wildperudo/game"

// ZeroOrder reasons only from its own dice and the number of dice in play:
// every unseen die is assumed to support a face independently.
type ZeroOrder struct {
	base
	threshold float64
}

func NewZeroOrder(name string, dice int, options ...Option) *ZeroOrder {
	s := newSettings(options)
	return &ZeroOrder{
		base:      newBase(name, dice),
		threshold: s.challengeThreshold,
	}
}

func (z *ZeroOrder) MakeBid(current *game.Bid) (game.Bid, error) {
	if current == nil {
		return z.opening(), nil
	}

	total := z.totalDice()
	raise, ok := z.likeliestRaise(*current, total)
	if !ok {
		raise = game.MinRaise(*current, current.Face)
		raise.Count = total
		return raise, nil
	}
	if z.failProbability(raise) > z.threshold {
		// nothing we would let stand ourselves, so raise as little as possible
		if same := game.MinRaise(*current, current.Face); same.Count <= total {
			return same, nil
		}
	}
	return raise, nil
}

// likeliestRaise ranks the minimum raise on every face that fits on the
// table. Sure bids go to the face our own dice back most, remaining ties to
// the current face.
func (z *ZeroOrder) likeliestRaise(current game.Bid, total int) (game.Bid, bool) {
	best, bestFail, bestSupport := game.Bid{}, 0.0, -1
	for face := game.MaxFace; face >= game.MinFace; face-- {
		candidate := game.MinRaise(current, face)
		if candidate.Count > total {
			continue
		}
		fail := z.failProbability(candidate)
		support := 0
		if fail == 0 {
			support = z.dice.Matches(face)
		}
		switch {
		case bestSupport < 0,
			fail < bestFail,
			fail == bestFail && support > bestSupport,
			fail == bestFail && support == bestSupport && face == current.Face:
			best, bestFail, bestSupport = candidate, fail, support
		}
	}
	return best, bestSupport >= 0
}

// opening bids the best-supported face at the largest count we would not
// challenge ourselves.
func (z *ZeroOrder) opening() game.Bid {
	face := game.MaxFace
	for f := game.MaxFace - 1; f > game.WildFace; f-- {
		if z.dice.Matches(f) > z.dice.Matches(face) {
			face = f
		}
	}

	bid := game.Bid{Count: 1, Face: face}
	for count := 2; count <= z.totalDice(); count++ {
		next := game.Bid{Count: count, Face: face}
		if z.failProbability(next) > z.threshold {
			break
		}
		bid = next
	}
	return bid
}

func (z *ZeroOrder) DecideChallenge(current game.Bid, activeAgents int) (bool, error) {
	if !z.canRaise(current) {
		return true, nil
	}
	return z.failProbability(current) > z.threshold, nil
}

func (z *ZeroOrder) failProbability(bid game.Bid) float64 {
	return 1 - holdProbability(bid, z.dice.Matches(bid.Face), z.unseenDice())
}
