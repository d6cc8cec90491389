package player

import (
	"fmt"

	"wildperudo/engine"
)

var _ engine.Hook = (*Terminal)(nil)

// RoundStarted opens each round with a header.
func (t *Terminal) RoundStarted(round int) {
	fmt.Fprintf(t.out, "\nround %d\n", round)
}

func (t *Terminal) TurnPlayed(outcome engine.TurnOutcome) {
	t.Announce(outcome)
}

// Play runs the session to the end of its round budget and prints the final
// tally. The session narrates through the terminal only when it was created
// with engine.WithHook(t).
func (t *Terminal) Play(session *engine.Session, rounds int) (engine.Result, error) {
	result, err := session.Run(rounds)
	if err != nil {
		return engine.Result{}, err
	}
	t.Summarize(result)
	return result, nil
}
