package communication

import (
	"errors"

	"wildperudo/agent"
	"wildperudo/game"
)

var errAwaitingHuman = errors.New("waiting for the human player")

var _ agent.Prompter = (*webPrompter)(nil)

// webPrompter answers a Human agent with the move posted for the current
// request. Without a pending move the prompt fails and the session is left
// untouched until the next request.
type webPrompter struct {
	name      string
	bid       *game.Bid
	challenge *bool
	rejected  error
}

func (p *webPrompter) PromptBid(view agent.View, current *game.Bid) (game.Bid, error) {
	if p.bid == nil {
		return game.Bid{}, errAwaitingHuman
	}
	bid := *p.bid
	p.bid = nil
	return bid, nil
}

func (p *webPrompter) PromptChallenge(view agent.View, current game.Bid) (bool, error) {
	if p.challenge == nil {
		return false, errAwaitingHuman
	}
	return *p.challenge, nil
}

func (p *webPrompter) Reject(err error) {
	p.rejected = err
}

// answer queues the move for the next PlayTurn. A bid always declines the
// challenge.
func (p *webPrompter) answer(bid *game.Bid, challenge bool) {
	p.bid, p.challenge, p.rejected = bid, &challenge, nil
}

func (p *webPrompter) clear() {
	p.bid, p.challenge, p.rejected = nil, nil, nil
}
