package agent

import (
	"testing"

	"github.com/stretchr/testify/require"

	"wildperudo/game"
)

func seatedZeroOrder(values ...int) *ZeroOrder {
	z := NewZeroOrder("zero", len(values))
	z.Dice().Set(values...)
	z.Seat(game.Roster{{Name: "zero", Dice: len(values)}, {Name: "other", Dice: 5}})
	return z
}

func TestZeroOrderDecideChallenge(t *testing.T) {
	z := seatedZeroOrder(3, 3, 1, 2, 4)

	tests := []struct {
		bid  game.Bid
		want bool
	}{
		{game.Bid{Count: 3, Face: 3}, false}, // own dice cover it
		{game.Bid{Count: 4, Face: 3}, false}, // P(hold) = 211/243
		{game.Bid{Count: 5, Face: 3}, false}, // P(hold) = 131/243
		{game.Bid{Count: 6, Face: 3}, true},  // P(hold) = 51/243
		{game.Bid{Count: 7, Face: 3}, true},
		{game.Bid{Count: 10, Face: 1}, true}, // no legal raise left
	}
	for _, tt := range tests {
		got, err := z.DecideChallenge(tt.bid, 2)
		require.NoError(t, err)
		require.Equal(t, tt.want, got, "bid %v", tt.bid)
	}
}

func TestZeroOrderMakeBid(t *testing.T) {
	t.Run("opens on the best supported face", func(t *testing.T) {
		z := seatedZeroOrder(3, 3, 1, 2, 4)
		bid, err := z.MakeBid(nil)
		require.NoError(t, err)
		require.Equal(t, game.Bid{Count: 5, Face: 3}, bid)
	})

	t.Run("opening is never a bid it would challenge", func(t *testing.T) {
		z := seatedZeroOrder(6, 5, 4, 2, 2)
		bid, err := z.MakeBid(nil)
		require.NoError(t, err)
		challenge, err := z.DecideChallenge(bid, 2)
		require.NoError(t, err)
		require.False(t, challenge)
	})

	t.Run("moves to the likeliest minimum raise", func(t *testing.T) {
		z := seatedZeroOrder(3, 3, 1, 2, 4)
		// 5 2s fails with 192/243, 4 3s only with 32/243
		bid, err := z.MakeBid(&game.Bid{Count: 4, Face: 2})
		require.NoError(t, err)
		require.Equal(t, game.Bid{Count: 4, Face: 3}, bid)
	})

	t.Run("switches away from a bid it would challenge", func(t *testing.T) {
		z := seatedZeroOrder(2, 2, 6, 3, 4)
		current := game.Bid{Count: 2, Face: 5}
		challenge, err := z.DecideChallenge(current, 2)
		require.NoError(t, err)
		require.False(t, challenge)

		bid, err := z.MakeBid(&current)
		require.NoError(t, err)
		require.Equal(t, game.Bid{Count: 2, Face: 6}, bid)
		challenge, err = z.DecideChallenge(bid, 2)
		require.NoError(t, err)
		require.False(t, challenge)
	})

	t.Run("keeps the face when nothing would stand", func(t *testing.T) {
		z := seatedZeroOrder(3, 3, 1, 2, 4)
		bid, err := z.MakeBid(&game.Bid{Count: 6, Face: 3})
		require.NoError(t, err)
		require.Equal(t, game.Bid{Count: 7, Face: 3}, bid)
	})

	t.Run("never proposes a bid it would challenge when one would stand", func(t *testing.T) {
		for _, hand := range [][]int{{2, 2, 6, 3, 4}, {3, 3, 1, 2, 4}, {6, 5, 4, 2, 2}, {1, 1, 5, 5, 6}} {
			z := seatedZeroOrder(hand...)
			for count := 1; count <= 6; count++ {
				for face := game.MinFace; face <= game.MaxFace; face++ {
					current := game.Bid{Count: count, Face: face}
					standing := false
					for f := game.MinFace; f <= game.MaxFace; f++ {
						candidate := game.MinRaise(current, f)
						if candidate.Count <= 10 && z.failProbability(candidate) <= z.threshold {
							standing = true
						}
					}
					if !standing {
						continue
					}

					bid, err := z.MakeBid(&current)
					require.NoError(t, err)
					challenge, err := z.DecideChallenge(bid, 2)
					require.NoError(t, err)
					require.False(t, challenge, "hand %v proposed %v over %v", hand, bid, current)
				}
			}
		}
	})

	t.Run("switches to a face its own dice cover", func(t *testing.T) {
		z := seatedZeroOrder(3, 3, 1, 2, 4)
		bid, err := z.MakeBid(&game.Bid{Count: 2, Face: 2})
		require.NoError(t, err)
		require.Equal(t, game.Bid{Count: 2, Face: 3}, bid)
	})

	t.Run("stays within the dice in play", func(t *testing.T) {
		z := seatedZeroOrder(5, 5, 5, 5, 5)
		current := game.Bid{Count: 10, Face: 5}
		bid, err := z.MakeBid(&current)
		require.NoError(t, err)
		require.LessOrEqual(t, bid.Count, 10)
		require.True(t, bid.IsValidRaise(current), "%v over %v", bid, current)
	})

	t.Run("raises are always legal when one fits", func(t *testing.T) {
		z := seatedZeroOrder(6, 1, 4, 2, 2)
		for count := 1; count <= 5; count++ {
			for face := game.MinFace; face <= game.MaxFace; face++ {
				current := game.Bid{Count: count, Face: face}
				bid, err := z.MakeBid(&current)
				require.NoError(t, err)
				require.True(t, bid.IsValidRaise(current), "%v over %v", bid, current)
			}
		}
	})
}
