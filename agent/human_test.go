package agent

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"wildperudo/game"
)

type scriptedAnswer struct {
	bid       game.Bid
	challenge bool
	err       error
}

// scriptedPrompter replays canned answers in order.
type scriptedPrompter struct {
	answers  []scriptedAnswer
	views    []View
	rejected []error
}

func (p *scriptedPrompter) next(view View) scriptedAnswer {
	p.views = append(p.views, view)
	answer := p.answers[0]
	p.answers = p.answers[1:]
	return answer
}

func (p *scriptedPrompter) PromptBid(view View, current *game.Bid) (game.Bid, error) {
	answer := p.next(view)
	return answer.bid, answer.err
}

func (p *scriptedPrompter) PromptChallenge(view View, current game.Bid) (bool, error) {
	answer := p.next(view)
	return answer.challenge, answer.err
}

func (p *scriptedPrompter) Reject(err error) {
	p.rejected = append(p.rejected, err)
}

func seatedHuman(prompter Prompter) *Human {
	h := NewHuman("alice", 3, prompter)
	h.Dice().Set(2, 1, 6)
	h.Seat(game.Roster{{Name: "alice", Dice: 3}, {Name: "bob", Dice: 4}})
	return h
}

func TestHumanMakeBid(t *testing.T) {
	t.Run("asks again until the answer is a legal raise", func(t *testing.T) {
		prompter := &scriptedPrompter{answers: []scriptedAnswer{
			{err: ErrInvalidInput},
			{bid: game.Bid{Count: 0, Face: 3}},
			{bid: game.Bid{Count: 2, Face: 3}},
			{bid: game.Bid{Count: 4, Face: 3}},
		}}
		h := seatedHuman(prompter)

		bid, err := h.MakeBid(&game.Bid{Count: 3, Face: 3})
		require.NoError(t, err)
		require.Equal(t, game.Bid{Count: 4, Face: 3}, bid)
		require.Len(t, prompter.rejected, 3)
		require.ErrorIs(t, prompter.rejected[1], game.ErrInvalidBid)
		require.ErrorIs(t, prompter.rejected[2], ErrInvalidInput)
	})

	t.Run("sees its own dice and the dice in play", func(t *testing.T) {
		prompter := &scriptedPrompter{answers: []scriptedAnswer{{bid: game.Bid{Count: 1, Face: 2}}}}
		h := seatedHuman(prompter)

		_, err := h.MakeBid(nil)
		require.NoError(t, err)
		require.Equal(t, View{Name: "alice", Dice: []int{2, 1, 6}, TotalDice: 7}, prompter.views[0])
	})

	t.Run("prompt failures are returned", func(t *testing.T) {
		closed := errors.New("input closed")
		h := seatedHuman(&scriptedPrompter{answers: []scriptedAnswer{{err: closed}}})

		_, err := h.MakeBid(nil)
		require.ErrorIs(t, err, closed)
	})
}

func TestHumanDecideChallenge(t *testing.T) {
	t.Run("retries malformed answers", func(t *testing.T) {
		prompter := &scriptedPrompter{answers: []scriptedAnswer{
			{err: ErrInvalidInput},
			{challenge: true},
		}}
		h := seatedHuman(prompter)

		challenge, err := h.DecideChallenge(game.Bid{Count: 3, Face: 4}, 2)
		require.NoError(t, err)
		require.True(t, challenge)
		require.Len(t, prompter.rejected, 1)
	})

	t.Run("prompt failures are returned", func(t *testing.T) {
		closed := errors.New("input closed")
		h := seatedHuman(&scriptedPrompter{answers: []scriptedAnswer{{err: closed}}})

		_, err := h.DecideChallenge(game.Bid{Count: 3, Face: 4}, 2)
		require.ErrorIs(t, err, closed)
	})

	t.Run("needs a prompter", func(t *testing.T) {
		require.Panics(t, func() { NewHuman("alice", 3, nil) })
	})
}

func TestNew(t *testing.T) {
	for _, kind := range Kinds {
		a, err := New(kind, string(kind), 5, game.NewRNG(1))
		require.NoError(t, err)
		require.Equal(t, string(kind), a.Name())
		require.Equal(t, 5, a.Dice().Count())
	}

	_, err := New(KindHuman, "alice", 5, nil)
	require.Error(t, err)

	kind, err := ParseKind(" Improved ")
	require.NoError(t, err)
	require.Equal(t, KindImproved, kind)

	_, err = ParseKind("oracle")
	require.Error(t, err)
}
