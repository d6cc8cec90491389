package player

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"wildperudo/agent"
	"wildperudo/engine"
	"wildperudo/game"
	"wildperudo/utils"
)

// Terminal is a line-based Prompter for a human at a console.
type Terminal struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewTerminal creates a new Terminal reading answers from in.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{
		in:  bufio.NewScanner(in),
		out: out,
	}
}

func (t *Terminal) PromptBid(view agent.View, current *game.Bid) (game.Bid, error) {
	t.show(view, current)
	fmt.Fprint(t.out, "your bid (count face): ")

	line, err := t.readLine()
	if err != nil {
		return game.Bid{}, err
	}
	return parseBid(line)
}

func (t *Terminal) PromptChallenge(view agent.View, current game.Bid) (bool, error) {
	t.show(view, &current)
	fmt.Fprintf(t.out, "challenge %v? (y/n): ", current)

	line, err := t.readLine()
	if err != nil {
		return false, err
	}
	switch strings.ToLower(line) {
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	}
	return false, fmt.Errorf("%w: answer y or n, got %q", agent.ErrInvalidInput, line)
}

func (t *Terminal) Reject(err error) {
	fmt.Fprintf(t.out, "%v, try again\n", err)
}

// Announce prints what happened in a turn.
func (t *Terminal) Announce(outcome engine.TurnOutcome) {
	switch outcome.Kind {
	case engine.OutcomeBid:
		fmt.Fprintf(t.out, "%s bids %v\n", outcome.Agent, outcome.Bid)
	case engine.OutcomeChallenge:
		fmt.Fprintf(t.out, "%s challenges %s's %v\n", outcome.Agent, outcome.Bidder, outcome.Bid)
		for _, name := range utils.SortedKeys(outcome.Hands) {
			fmt.Fprintf(t.out, "  %s: %v\n", name, outcome.Hands[name])
		}
		if outcome.Stood {
			fmt.Fprintf(t.out, "%d found, the bid stands: point to %s\n", outcome.Support, outcome.Bidder)
		} else {
			fmt.Fprintf(t.out, "%d found, the bid fails: point to %s\n", outcome.Support, outcome.Agent)
		}
	case engine.OutcomeElimination:
		fmt.Fprintf(t.out, "%s is eliminated for bidding %v\n", outcome.Agent, outcome.Bid)
	case engine.OutcomeGameOver:
		fmt.Fprintf(t.out, "%s is eliminated for bidding %v, %s wins\n", outcome.Agent, outcome.Bid, outcome.Winner)
	}
}

// Summarize prints the final tally.
func (t *Terminal) Summarize(result engine.Result) {
	for _, score := range result.Scores {
		fmt.Fprintf(t.out, "%s: %d\n", score.Name, score.Score)
	}
	if result.Tie {
		fmt.Fprintln(t.out, "no winner, it's a tie")
		return
	}
	fmt.Fprintf(t.out, "winner: %s\n", result.Winner)
}

func (t *Terminal) show(view agent.View, current *game.Bid) {
	fmt.Fprintf(t.out, "%s, your dice: %v (%d dice in play)\n", view.Name, view.Dice, view.TotalDice)
	if current == nil {
		fmt.Fprintln(t.out, "no bid on the table")
		return
	}
	fmt.Fprintf(t.out, "table bid: %v\n", *current)
}

func (t *Terminal) readLine() (string, error) {
	if !t.in.Scan() {
		if err := t.in.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return "", io.EOF
	}
	return strings.TrimSpace(t.in.Text()), nil
}

func parseBid(line string) (game.Bid, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return game.Bid{}, fmt.Errorf("%w: expected count and face, got %q", agent.ErrInvalidInput, line)
	}
	count, err := strconv.Atoi(fields[0])
	if err != nil {
		return game.Bid{}, fmt.Errorf("%w: count %q is not a number", agent.ErrInvalidInput, fields[0])
	}
	face, err := strconv.Atoi(fields[1])
	if err != nil {
		return game.Bid{}, fmt.Errorf("%w: face %q is not a number", agent.ErrInvalidInput, fields[1])
	}
	return game.Bid{Count: count, Face: face}, nil
}
