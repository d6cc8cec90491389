package game

// StandardRules are the Wild Perudo rules: ones are wild for every other
// face and raises are ordered with wild bids counting double.
type StandardRules struct{}

func NewStandardRules() *StandardRules {
	return &StandardRules{}
}

func (sr *StandardRules) ValidRaise(current, candidate Bid) bool {
	return candidate.IsValidRaise(current)
}

func (sr *StandardRules) CountSupport(hands [][]int, face int) int {
	total := 0
	for _, hand := range hands {
		total += CountMatches(hand, face)
	}
	return total
}

func (sr *StandardRules) BidStands(bid Bid, hands [][]int) bool {
	return sr.CountSupport(hands, bid.Face) >= bid.Count
}
