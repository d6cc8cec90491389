package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiceRoll(t *testing.T) {
	t.Run("values undefined before the first roll", func(t *testing.T) {
		d := NewDice(5)
		require.Nil(t, d.Values())
		require.Equal(t, 0, d.Matches(3))
	})

	t.Run("roll fills every die within range", func(t *testing.T) {
		d := NewDice(50)
		values := d.Roll(NewRNG(7))
		require.Len(t, values, 50)
		for _, v := range values {
			require.GreaterOrEqual(t, v, MinFace)
			require.LessOrEqual(t, v, MaxFace)
		}
	})

	t.Run("same seed same roll", func(t *testing.T) {
		a, b := NewDice(10), NewDice(10)
		require.Equal(t, a.Roll(NewRNG(42)), b.Roll(NewRNG(42)))
	})

	t.Run("values are copies", func(t *testing.T) {
		d := NewDice(3)
		d.Set(2, 3, 4)
		values := d.Values()
		values[0] = 6
		require.Equal(t, []int{2, 3, 4}, d.Values())
	})

	t.Run("empty cup is allowed", func(t *testing.T) {
		d := NewDice(0)
		require.Empty(t, d.Roll(NewRNG(1)))
	})

	t.Run("negative capacity panics", func(t *testing.T) {
		require.Panics(t, func() { NewDice(-1) })
	})
}

func TestDiceMatches(t *testing.T) {
	d := NewDice(5)
	d.Set(1, 1, 3, 3, 5)

	require.Equal(t, 4, d.Matches(3), "wilds count toward the bid face")
	require.Equal(t, 3, d.Matches(5))
	require.Equal(t, 2, d.Matches(1), "wilds are not counted twice on a wild bid")
	require.Equal(t, 2, d.Matches(6))
}

func TestStandardRulesBidStands(t *testing.T) {
	rules := NewStandardRules()
	hands := [][]int{
		{3, 3, 1, 2, 4},
		{3, 1, 5, 6, 2},
	}

	require.Equal(t, 5, rules.CountSupport(hands, 3))
	require.False(t, rules.BidStands(Bid{Count: 6, Face: 3}, hands))
	require.True(t, rules.BidStands(Bid{Count: 5, Face: 3}, hands))

	t.Run("wild bid counts ones once", func(t *testing.T) {
		wildHands := [][]int{{1, 1, 2, 3, 4}, {1, 1, 5, 6, 6}}
		require.Equal(t, 4, rules.CountSupport(wildHands, 1))
		require.True(t, rules.BidStands(Bid{Count: 4, Face: 1}, wildHands))
		require.False(t, rules.BidStands(Bid{Count: 5, Face: 1}, wildHands))
	})
}

func TestRoster(t *testing.T) {
	roster := Roster{{Name: "a", Dice: 5}, {Name: "b", Dice: 3}}
	require.Equal(t, 8, roster.TotalDice())

	seats := roster.Seats()
	seats[0].Dice = 0
	require.Equal(t, 5, roster[0].Dice)
}
