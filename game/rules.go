package game

type Rules interface {
	// ValidRaise decides whether candidate may replace current on the table.
	ValidRaise(current, candidate Bid) bool
	// CountSupport counts revealed dice supporting the bid's face.
	CountSupport(hands [][]int, face int) int
	// BidStands reports whether a challenged bid holds against the reveal.
	BidStands(bid Bid, hands [][]int) bool
}
