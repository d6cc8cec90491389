package agent

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"wildperudo/game"
)

// ErrInvalidInput marks a malformed answer; the human is asked again.
var ErrInvalidInput = errors.New("invalid input")

// View is what a human sees when asked to act.
type View struct {
	Name      string
	Dice      []int
	TotalDice int
}

// Prompter is the external channel a human answers through. Calls may block
// for as long as the human takes.
type Prompter interface {
	PromptBid(view View, current *game.Bid) (game.Bid, error)
	PromptChallenge(view View, current game.Bid) (bool, error)
	// Reject tells the human why the last answer was refused.
	Reject(err error)
}

// Human delegates every decision to a Prompter.
type Human struct {
	base
	prompter Prompter
}

func NewHuman(name string, dice int, prompter Prompter) *Human {
	if prompter == nil {
		panic("human agent needs a prompter")
	}
	return &Human{base: newBase(name, dice), prompter: prompter}
}

func (h *Human) view() View {
	return View{Name: h.name, Dice: h.dice.Values(), TotalDice: h.totalDice()}
}

func (h *Human) MakeBid(current *game.Bid) (game.Bid, error) {
	for {
		bid, err := h.prompter.PromptBid(h.view(), current)
		if errors.Is(err, ErrInvalidInput) {
			h.prompter.Reject(err)
			continue
		}
		if err != nil {
			return game.Bid{}, fmt.Errorf("prompt bid for %s: %w", h.name, err)
		}

		bid, err = game.NewBid(bid.Count, bid.Face)
		if err != nil {
			h.prompter.Reject(err)
			continue
		}
		if current != nil && !bid.IsValidRaise(*current) {
			h.prompter.Reject(fmt.Errorf("%w: %v does not raise %v", ErrInvalidInput, bid, *current))
			continue
		}
		return bid, nil
	}
}

func (h *Human) DecideChallenge(current game.Bid, activeAgents int) (bool, error) {
	for {
		challenge, err := h.prompter.PromptChallenge(h.view(), current)
		if errors.Is(err, ErrInvalidInput) {
			log.Debug().Err(err).Msgf("%s gave a malformed answer", h.name)
			h.prompter.Reject(err)
			continue
		}
		if err != nil {
			return false, fmt.Errorf("prompt challenge for %s: %w", h.name, err)
		}
		return challenge, nil
	}
}
