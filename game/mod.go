package game

const (
	MinFace  = 1
	MaxFace  = 6
	WildFace = 1
)

// RNG is the randomness handle threaded through dice rolls and randomized
// agents, so a session can be replayed from its seed.
type RNG interface {
	Intn(n int) int
	Float64() float64
}

// Seat is the public view of a player: its name and how many dice it holds.
type Seat struct {
	Name string
	Dice int
}

// Table is the aggregate, read-only view of the game an agent reasons with.
// It never exposes another player's dice values.
type Table interface {
	Seats() []Seat
	TotalDice() int
}

// Agent is the strategy contract every player implements. Errors are only
// returned by external input channels (e.g. a human prompt), never by rule
// evaluation.
type Agent interface {
	Name() string
	Dice() *Dice
	Seat(table Table)
	// MakeBid proposes a bid over current, which is nil on an empty table.
	MakeBid(current *Bid) (Bid, error)
	// DecideChallenge is only asked when a bid is on the table.
	DecideChallenge(current Bid, activeAgents int) (bool, error)
}

// Observer is implemented by agents that learn from public game events.
type Observer interface {
	RoundStarted(round int)
	// BidPlaced reports an accepted bid; previous is nil for an opening bid.
	BidPlaced(bidder string, previous *Bid, bid Bid)
	Eliminated(name string)
}

// Roster is a Table backed by a fixed list of seats.
type Roster []Seat

func (r Roster) Seats() []Seat {
	seats := make([]Seat, len(r))
	copy(seats, r)
	return seats
}

func (r Roster) TotalDice() int {
	total := 0
	for _, seat := range r {
		total += seat.Dice
	}
	return total
}
