package game

import (
	"errors"
	"fmt"
)

var ErrInvalidBid = errors.New("invalid bid")

// Bid is a claim that at least Count dice on the table support Face.
type Bid struct {
	Count int `json:"count"`
	Face  int `json:"face"`
}

// NewBid validates count >= 1 and face in 1..6.
func NewBid(count, face int) (Bid, error) {
	if count < 1 {
		return Bid{}, fmt.Errorf("%w: count %d must be positive", ErrInvalidBid, count)
	}
	if face < MinFace || face > MaxFace {
		return Bid{}, fmt.Errorf("%w: face %d must be between %d and %d", ErrInvalidBid, face, MinFace, MaxFace)
	}
	return Bid{Count: count, Face: face}, nil
}

func (b Bid) String() string {
	return fmt.Sprintf("%d %ds", b.Count, b.Face)
}

// IsWild reports whether the bid is on the wild face.
func (b Bid) IsWild() bool {
	return b.Face == WildFace
}

// EffectiveCount doubles wild bids for ordering purposes only.
func (b Bid) EffectiveCount() int {
	if b.IsWild() {
		return b.Count * 2
	}
	return b.Count
}

// IsStrongerThan orders bids by effective count, then by face.
func (b Bid) IsStrongerThan(other Bid) bool {
	if b.EffectiveCount() != other.EffectiveCount() {
		return b.EffectiveCount() > other.EffectiveCount()
	}
	return b.Face > other.Face
}

// IsValidRaise reports whether b may replace current on the table. Raises
// follow the same wild-doubling order as IsStrongerThan.
func (b Bid) IsValidRaise(current Bid) bool {
	return b.IsStrongerThan(current)
}

// MinRaise returns the weakest bid on face that is a valid raise over current.
func MinRaise(current Bid, face int) Bid {
	if face == WildFace {
		// a wild bid can never win a tie on face
		return Bid{Count: current.EffectiveCount()/2 + 1, Face: face}
	}
	count := current.EffectiveCount()
	if face <= current.Face {
		count++
	}
	return Bid{Count: count, Face: face}
}
