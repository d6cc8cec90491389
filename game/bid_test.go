package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewBid(t *testing.T) {
	t.Run("valid bid", func(t *testing.T) {
		bid, err := NewBid(3, 4)
		require.NoError(t, err)
		require.Equal(t, Bid{Count: 3, Face: 4}, bid)
	})

	t.Run("rejects non-positive count", func(t *testing.T) {
		_, err := NewBid(0, 4)
		require.ErrorIs(t, err, ErrInvalidBid)
	})

	t.Run("rejects face out of range", func(t *testing.T) {
		_, err := NewBid(2, 7)
		require.ErrorIs(t, err, ErrInvalidBid)
		_, err = NewBid(2, 0)
		require.ErrorIs(t, err, ErrInvalidBid)
	})
}

func TestBidIsStrongerThan(t *testing.T) {
	t.Run("equal faces compare by count", func(t *testing.T) {
		for face := MinFace; face <= MaxFace; face++ {
			for a := 1; a <= 6; a++ {
				for b := 1; b <= 6; b++ {
					got := Bid{Count: a, Face: face}.IsStrongerThan(Bid{Count: b, Face: face})
					require.Equal(t, a > b, got, "(%d,%d) vs (%d,%d)", a, face, b, face)
				}
			}
		}
	})

	t.Run("wild bids double exactly once", func(t *testing.T) {
		wild := Bid{Count: 2, Face: 1}
		require.Equal(t, 4, wild.EffectiveCount())
		require.True(t, wild.IsStrongerThan(Bid{Count: 3, Face: 6}))
		require.False(t, wild.IsStrongerThan(Bid{Count: 4, Face: 2}), "tie on effective count goes to higher face")
		require.True(t, Bid{Count: 4, Face: 2}.IsStrongerThan(wild))
		require.False(t, Bid{Count: 3, Face: 6}.IsStrongerThan(wild))
	})

	t.Run("equal effective count compares faces", func(t *testing.T) {
		require.True(t, Bid{Count: 3, Face: 5}.IsStrongerThan(Bid{Count: 3, Face: 4}))
		require.False(t, Bid{Count: 3, Face: 4}.IsStrongerThan(Bid{Count: 3, Face: 4}))
	})
}

func TestBidIsValidRaise(t *testing.T) {
	current := Bid{Count: 3, Face: 4}

	require.True(t, Bid{Count: 3, Face: 5}.IsValidRaise(current))
	require.False(t, Bid{Count: 3, Face: 3}.IsValidRaise(current))
	require.True(t, Bid{Count: 4, Face: 2}.IsValidRaise(current))
	require.False(t, current.IsValidRaise(current), "repeating the table bid is not a raise")

	t.Run("raise rule agrees with ordering on wild edge cases", func(t *testing.T) {
		require.True(t, Bid{Count: 2, Face: 1}.IsValidRaise(Bid{Count: 2, Face: 3}))
		require.False(t, Bid{Count: 5, Face: 4}.IsValidRaise(Bid{Count: 3, Face: 1}))
		require.True(t, Bid{Count: 6, Face: 2}.IsValidRaise(Bid{Count: 3, Face: 1}))
	})
}

func TestMinRaise(t *testing.T) {
	t.Run("higher face keeps the count", func(t *testing.T) {
		require.Equal(t, Bid{Count: 3, Face: 5}, MinRaise(Bid{Count: 3, Face: 4}, 5))
	})

	t.Run("same or lower face bumps the count", func(t *testing.T) {
		require.Equal(t, Bid{Count: 4, Face: 4}, MinRaise(Bid{Count: 3, Face: 4}, 4))
		require.Equal(t, Bid{Count: 4, Face: 2}, MinRaise(Bid{Count: 3, Face: 4}, 2))
	})

	t.Run("switching to wilds halves the count", func(t *testing.T) {
		require.Equal(t, Bid{Count: 3, Face: 1}, MinRaise(Bid{Count: 5, Face: 4}, 1))
		require.Equal(t, Bid{Count: 3, Face: 1}, MinRaise(Bid{Count: 4, Face: 6}, 1))
	})

	t.Run("leaving wilds doubles the count", func(t *testing.T) {
		require.Equal(t, Bid{Count: 6, Face: 3}, MinRaise(Bid{Count: 3, Face: 1}, 3))
		require.Equal(t, Bid{Count: 4, Face: 1}, MinRaise(Bid{Count: 3, Face: 1}, 1))
	})

	t.Run("result is always the weakest valid raise", func(t *testing.T) {
		for count := 1; count <= 8; count++ {
			for face := MinFace; face <= MaxFace; face++ {
				current := Bid{Count: count, Face: face}
				for target := MinFace; target <= MaxFace; target++ {
					raise := MinRaise(current, target)
					require.True(t, raise.IsValidRaise(current))
					if raise.Count > 1 {
						weaker := Bid{Count: raise.Count - 1, Face: target}
						require.False(t, weaker.IsValidRaise(current))
					}
				}
			}
		}
	})
}
