package agent

import (
	"math"

	"github.com/rs/zerolog/log"

	"wildperudo/game"
)

// FirstOrder models each opponent as a mixture of behaviour archetypes,
// updated from the bids they make, and predicts how the next player will
// react before choosing its own bid. With belief intervals enabled it also
// tracks per-face bounds on every opponent's cup.
type FirstOrder struct {
	base
	settings   settings
	opponents  map[string]*opponentModel
	lastBidder string
}

type opponentModel struct {
	mixture *Mixture
	hand    *HandBelief
	// face and size of the opponent's latest claim, read as support for it
	claimFace  int
	claimCount int
}

func NewFirstOrder(name string, dice int, options ...Option) *FirstOrder {
	return &FirstOrder{
		base:      newBase(name, dice),
		settings:  newSettings(options),
		opponents: make(map[string]*opponentModel),
	}
}

func (f *FirstOrder) Seat(table game.Table) {
	f.base.Seat(table)
	for _, seat := range table.Seats() {
		if seat.Name == f.name {
			continue
		}
		if _, ok := f.opponents[seat.Name]; !ok {
			f.opponents[seat.Name] = &opponentModel{
				mixture: NewMixture(f.settings.archetypes),
				hand:    NewHandBelief(seat.Dice),
			}
		}
	}
}

// Opponent returns the current posterior over archetypes for an opponent.
func (f *FirstOrder) Opponent(name string) ([]Archetype, bool) {
	model, ok := f.opponents[name]
	if !ok {
		return nil, false
	}
	return model.mixture.Archetypes(), true
}

// Belief returns the believed support interval of an opponent for a face.
func (f *FirstOrder) Belief(name string, face int) (Interval, bool) {
	model, ok := f.opponents[name]
	if !ok {
		return Interval{}, false
	}
	return model.hand.Interval(face), true
}

func (f *FirstOrder) RoundStarted(round int) {
	f.lastBidder = ""
	for _, seat := range f.seats() {
		if model, ok := f.opponents[seat.Name]; ok {
			model.hand.Reset(seat.Dice)
			model.claimFace, model.claimCount = 0, 0
		}
	}
}

func (f *FirstOrder) BidPlaced(bidder string, previous *game.Bid, bid game.Bid) {
	f.lastBidder = bidder
	model, ok := f.opponents[bidder]
	if !ok {
		return
	}

	// interpretive step: who would have made this bid?
	model.mixture.Observe(previous, bid)
	dominant := model.mixture.Dominant()
	trust := 1 - dominant.Bluff

	excess, switched := bidShape(previous, bid)
	claimed := excess
	if switched {
		claimed++
	}
	model.claimFace = bid.Face
	model.claimCount = min(int(trust*float64(claimed)), model.hand.dice)
	model.hand.Observe(previous, bid, trust)

	log.Debug().Msgf("%s reads %s's bid %v as %s", f.name, bidder, bid, dominant.Name)
}

func (f *FirstOrder) Eliminated(name string) {
	delete(f.opponents, name)
	if f.lastBidder == name {
		f.lastBidder = ""
	}
}

func (f *FirstOrder) DecideChallenge(current game.Bid, activeAgents int) (bool, error) {
	if !f.canRaise(current) {
		return true, nil
	}
	own := f.dice.Matches(current.Face)
	if current.Count <= own {
		return false, nil
	}
	if f.settings.intervals && current.Count > own+f.believedMax(current.Face) {
		return true, nil
	}
	return 1-f.holdProbability(current) > f.settings.challengeThreshold, nil
}

func (f *FirstOrder) MakeBid(current *game.Bid) (game.Bid, error) {
	total := f.totalDice()

	// weakest legal bid per face, best supported first
	var safest game.Bid
	bestHold, bestSupport := -1.0, -1
	for face := game.MaxFace; face >= game.MinFace; face-- {
		candidate := game.Bid{Count: 1, Face: face}
		if current != nil {
			candidate = game.MinRaise(*current, face)
		}
		if candidate.Count > total {
			continue
		}
		hold, support := f.holdProbability(candidate), f.dice.Matches(face)
		if hold > bestHold || hold == bestHold && support > bestSupport {
			bestHold, bestSupport = hold, support
			safest = candidate
		}
	}
	if bestHold < 0 {
		// nothing fits; DecideChallenge should have ended the round
		raise := game.MinRaise(*current, current.Face)
		raise.Count = min(raise.Count, total)
		return raise, nil
	}

	// predictive step: how likely is the next player to call us?
	if challenge, _ := f.predict(safest); challenge > f.settings.cautionThreshold {
		return safest, nil
	}

	bid := safest
	for count := safest.Count + 1; count <= total; count++ {
		// stop once the expected answer is already a bid we would call
		if _, reply := f.predict(bid); 1-f.holdProbability(reply) > f.settings.challengeThreshold {
			break
		}
		next := game.Bid{Count: count, Face: safest.Face}
		if 1-f.holdProbability(next) > f.settings.challengeThreshold {
			break
		}
		bid = next
	}
	return bid, nil
}

// predict estimates how the next player answers bid from its dominant
// archetype: the chance it challenges, and otherwise the raise it makes on
// the same face, stretched by its risk tolerance.
func (f *FirstOrder) predict(bid game.Bid) (challenge float64, reply game.Bid) {
	total := f.totalDice()
	minimum := game.MinRaise(bid, bid.Face)
	next := f.nextOpponent()
	if next == nil {
		return 0, minimum
	}

	risk := next.mixture.Dominant().Risk
	reply = minimum
	reply.Count = max(min(minimum.Count+int(math.Round(risk*2)), total), minimum.Count)
	if !f.canRaise(bid) {
		return 1, reply
	}
	publicFail := 1 - holdProbability(bid, 0, total)
	return clamp(publicFail*(1.5-risk), 0, 1), reply
}

func (f *FirstOrder) nextOpponent() *opponentModel {
	seats := f.seats()
	for i, seat := range seats {
		if seat.Name != f.name {
			continue
		}
		for j := 1; j < len(seats); j++ {
			if model, ok := f.opponents[seats[(i+j)%len(seats)].Name]; ok {
				return model
			}
		}
	}
	return nil
}

// holdProbability combines our own dice with the support we believe the
// opponents have shown.
func (f *FirstOrder) holdProbability(bid game.Bid) float64 {
	known := f.believedMin(bid.Face)
	return holdProbability(bid, f.dice.Matches(bid.Face)+known, f.unseenDice()-known)
}

func (f *FirstOrder) believedMin(face int) int {
	if f.settings.intervals {
		known := 0
		for _, seat := range f.seats() {
			if model, ok := f.opponents[seat.Name]; ok {
				known += model.hand.Interval(face).Min
			}
		}
		return known
	}
	model, ok := f.opponents[f.lastBidder]
	if !ok || model.claimFace != face {
		return 0
	}
	return model.claimCount
}

func (f *FirstOrder) believedMax(face int) int {
	believed := 0
	for _, seat := range f.seats() {
		if model, ok := f.opponents[seat.Name]; ok {
			believed += model.hand.Interval(face).Max
		}
	}
	return believed
}

func (f *FirstOrder) seats() []game.Seat {
	if f.table == nil {
		return nil
	}
	return f.table.Seats()
}
