package engine

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"wildperudo/experiments/metrics"
	"wildperudo/game"
	"wildperudo/utils"
)

// Session is one game of Wild Perudo. It is not safe for concurrent use.
type Session struct {
	ID uuid.UUID

	agents     []game.Agent // active, in turn order
	order      []string     // seating order at creation
	all        map[string]game.Agent
	eliminated []string
	scores     map[string]int

	rules  game.Rules
	rng    game.RNG
	logger zerolog.Logger

	bid        *game.Bid
	lastBidder string
	turn       int
	round      int
	phase      Phase
	winner     string
	result     *Result

	collector metrics.Collector
	metric    metrics.GameMetric
	hooks     []Hook
}

var _ Engine = (*Session)(nil)

type Option func(s *Session)

func WithSeed(seed uint64) Option {
	return func(s *Session) {
		s.rng = game.NewRNG(seed)
	}
}

func WithRNG(rng game.RNG) Option {
	return func(s *Session) {
		if rng != nil {
			s.rng = rng
		}
	}
}

func WithRules(rules game.Rules) Option {
	return func(s *Session) {
		if rules != nil {
			s.rules = rules
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

func WithCollector(collector metrics.Collector) Option {
	return func(s *Session) {
		if collector != nil {
			s.collector = collector
		}
	}
}

func WithHook(hook Hook) Option {
	return func(s *Session) {
		if hook != nil {
			s.hooks = append(s.hooks, hook)
		}
	}
}

// New seats agents in the given order. Names must be unique and non-empty and
// every agent needs at least one die.
func New(agents []game.Agent, options ...Option) (*Session, error) {
	if len(agents) < 2 {
		return nil, fmt.Errorf("%w: need at least two agents, got %d", ErrInvalidConfiguration, len(agents))
	}

	s := &Session{
		ID:        uuid.New(),
		agents:    make([]game.Agent, 0, len(agents)),
		all:       make(map[string]game.Agent, len(agents)),
		scores:    make(map[string]int, len(agents)),
		rules:     game.NewStandardRules(),
		rng:       game.NewRNG(uint64(time.Now().UnixNano())),
		phase:     AwaitingRoll,
		collector: metrics.NewDummyCollector(),
	}
	s.logger = log.Logger.With().Str("session", s.ID.String()).Logger()

	for i, a := range agents {
		if a == nil {
			return nil, fmt.Errorf("%w: agent %d is nil", ErrInvalidConfiguration, i)
		}
		name := a.Name()
		if name == "" {
			return nil, fmt.Errorf("%w: agent %d has no name", ErrInvalidConfiguration, i)
		}
		if _, ok := s.all[name]; ok {
			return nil, fmt.Errorf("%w: duplicate agent name %q", ErrInvalidConfiguration, name)
		}
		if a.Dice() == nil || a.Dice().Count() <= 0 {
			return nil, fmt.Errorf("%w: agent %q needs a positive number of dice", ErrInvalidConfiguration, name)
		}
		s.agents = append(s.agents, a)
		s.order = append(s.order, name)
		s.all[name] = a
		s.scores[name] = 0
	}

	for _, option := range options {
		option(s)
	}

	t := table{s}
	for _, a := range s.agents {
		a.Seat(t)
	}
	s.collector.Start(s.order)
	return s, nil
}

// StartRound rolls every active agent's dice and clears the table.
func (s *Session) StartRound() error {
	switch s.phase {
	case GameOver:
		return ErrGameOver
	case InRound:
		panic("round already in progress")
	}

	s.round++
	for _, a := range s.agents {
		a.Dice().Roll(s.rng)
	}
	s.bid = nil
	s.lastBidder = ""
	s.turn = 0
	s.phase = InRound

	s.collector.AddRound()
	for _, o := range s.observers() {
		o.RoundStarted(s.round)
	}
	for _, h := range s.hooks {
		h.RoundStarted(s.round)
	}
	s.logger.Debug().Msgf("round %d started with %d agents", s.round, len(s.agents))
	return nil
}

// PlayTurn consults the agent whose turn it is. An error from the agent is
// returned as is and leaves the session unchanged.
func (s *Session) PlayTurn() (TurnOutcome, error) {
	outcome, err := s.playTurn()
	if err != nil {
		return TurnOutcome{}, err
	}
	for _, h := range s.hooks {
		h.TurnPlayed(outcome)
	}
	return outcome, nil
}

func (s *Session) playTurn() (TurnOutcome, error) {
	if s.phase != InRound {
		panic(fmt.Sprintf("cannot play a turn in phase %s", s.phase))
	}

	current := s.agents[s.turn]
	if s.bid != nil {
		challenge, err := current.DecideChallenge(*s.bid, len(s.agents))
		if err != nil {
			return TurnOutcome{}, fmt.Errorf("%s deciding on %v: %w", current.Name(), *s.bid, err)
		}
		if challenge {
			s.collector.AddTurn()
			return s.resolveChallenge(current), nil
		}
	}

	candidate, err := current.MakeBid(s.bid)
	if err != nil {
		return TurnOutcome{}, fmt.Errorf("%s bidding: %w", current.Name(), err)
	}
	s.collector.AddTurn()

	if _, err := game.NewBid(candidate.Count, candidate.Face); err != nil {
		return s.eliminate(current, candidate), nil
	}
	if s.bid != nil && !s.rules.ValidRaise(*s.bid, candidate) {
		return s.eliminate(current, candidate), nil
	}

	previous := s.bid
	bid := candidate
	s.bid = &bid
	s.lastBidder = current.Name()
	s.turn = (s.turn + 1) % len(s.agents)

	for _, o := range s.observers() {
		o.BidPlaced(current.Name(), previous, bid)
	}
	s.logger.Debug().Msgf("%s bids %v", current.Name(), bid)
	return TurnOutcome{Kind: OutcomeBid, Agent: current.Name(), Bid: bid}, nil
}

func (s *Session) resolveChallenge(challenger game.Agent) TurnOutcome {
	if s.bid == nil {
		panic("challenge on an empty table")
	}
	bid := *s.bid
	bidder := s.lastBidder

	hands := make([][]int, 0, len(s.agents))
	revealed := make(map[string][]int, len(s.agents))
	for _, a := range s.agents {
		values := a.Dice().Values()
		hands = append(hands, values)
		revealed[a.Name()] = values
	}
	support := s.rules.CountSupport(hands, bid.Face)
	stood := s.rules.BidStands(bid, hands)
	if stood {
		s.scores[bidder]++
	} else {
		s.scores[challenger.Name()]++
	}

	s.bid = nil
	s.lastBidder = ""
	s.phase = RoundResolved
	s.collector.AddChallenge(bidder, challenger.Name(), stood)

	s.logger.Info().Msgf("round %d: %s challenged %s's %v, %d found, bid stood: %t",
		s.round, challenger.Name(), bidder, bid, support, stood)
	return TurnOutcome{
		Kind:    OutcomeChallenge,
		Agent:   challenger.Name(),
		Bid:     bid,
		Bidder:  bidder,
		Support: support,
		Stood:   stood,
		Hands:   revealed,
	}
}

// eliminate removes the agent from the game. The table bid stays in place.
func (s *Session) eliminate(a game.Agent, rejected game.Bid) TurnOutcome {
	agents, ok := utils.RemoveItem(s.agents, a)
	if !ok {
		panic(fmt.Sprintf("agent %s is not active", a.Name()))
	}
	s.agents = agents
	s.eliminated = append(s.eliminated, a.Name())
	s.collector.AddElimination()

	for _, o := range s.observers() {
		o.Eliminated(a.Name())
	}
	s.logger.Info().Msgf("%s eliminated for bidding %v over %v", a.Name(), rejected, s.bid)

	if len(s.agents) == 1 {
		s.bid = nil
		s.lastBidder = ""
		s.finish(s.agents[0].Name())
		return TurnOutcome{Kind: OutcomeGameOver, Agent: a.Name(), Bid: rejected, Winner: s.winner}
	}
	s.turn %= len(s.agents)
	return TurnOutcome{Kind: OutcomeElimination, Agent: a.Name(), Bid: rejected}
}

// Run plays rounds until maxRounds have been played or a single agent is
// left, then ends the game. It resumes a round left unfinished by an error.
func (s *Session) Run(maxRounds int) (Result, error) {
	for s.phase != GameOver {
		if s.phase != InRound {
			if s.round >= maxRounds {
				break
			}
			if err := s.StartRound(); err != nil {
				return Result{}, err
			}
		}
		if _, err := s.PlayTurn(); err != nil {
			return Result{}, err
		}
	}
	return s.Finish(), nil
}

// Finish ends the game and tallies the remaining agents. Calling it again
// returns the same result.
func (s *Session) Finish() Result {
	if s.phase != GameOver {
		s.finish("")
	}
	return *s.result
}

func (s *Session) finish(survivor string) {
	result := Result{Rounds: s.round, Scores: s.Scores()}
	if survivor != "" {
		result.Winner = survivor
	} else {
		result.Winner, result.Loser, result.Tie = s.tally()
	}

	s.phase = GameOver
	s.winner = result.Winner
	s.result = &result
	s.metric = s.collector.Complete(result.Winner, result.Tie)

	if result.Tie {
		s.logger.Info().Msgf("game over after %d rounds: tie", s.round)
	} else {
		s.logger.Info().Msgf("game over after %d rounds: %s wins", s.round, result.Winner)
	}
}

// tally names a winner and loser among the remaining agents only when the
// top and bottom scores are unique.
func (s *Session) tally() (winner, loser string, tie bool) {
	best, worst := -1, -1
	bestCount, worstCount := 0, 0
	for _, a := range s.agents {
		score := s.scores[a.Name()]
		switch {
		case best < 0 || score > best:
			best, bestCount, winner = score, 1, a.Name()
		case score == best:
			bestCount++
		}
		switch {
		case worst < 0 || score < worst:
			worst, worstCount, loser = score, 1, a.Name()
		case score == worst:
			worstCount++
		}
	}
	if bestCount > 1 {
		return "", "", true
	}
	if worstCount > 1 {
		loser = ""
	}
	return winner, loser, false
}

// Snapshot copies the session state. It has no side effects.
func (s *Session) Snapshot() Snapshot {
	snapshot := Snapshot{
		ID:          s.ID.String(),
		Agents:      make(map[string]AgentState, len(s.order)),
		Order:       slices.Clone(s.order),
		CurrentTurn: s.CurrentTurn(),
		Round:       s.round,
		Phase:       s.phase,
		Eliminated:  slices.Clone(s.eliminated),
		Winner:      s.winner,
	}
	for _, name := range s.order {
		snapshot.Agents[name] = AgentState{
			Dice:   s.all[name].Dice().Values(),
			Score:  s.scores[name],
			Active: !slices.Contains(s.eliminated, name),
		}
	}
	if s.bid != nil {
		bid := *s.bid
		snapshot.CurrentBid = &bid
	}
	return snapshot
}

// Scores lists every agent's score in seating order, eliminated agents
// included.
func (s *Session) Scores() []Score {
	scores := make([]Score, 0, len(s.order))
	for _, name := range s.order {
		scores = append(scores, Score{Name: name, Score: s.scores[name]})
	}
	return scores
}

// CurrentTurn is the name of the agent to act, empty outside a round.
func (s *Session) CurrentTurn() string {
	if s.phase != InRound {
		return ""
	}
	return s.agents[s.turn].Name()
}

func (s *Session) Phase() Phase {
	return s.phase
}

func (s *Session) Round() int {
	return s.round
}

func (s *Session) CurrentBid() *game.Bid {
	if s.bid == nil {
		return nil
	}
	bid := *s.bid
	return &bid
}

// Metric returns the collected game metric once the game is over.
func (s *Session) Metric() metrics.GameMetric {
	return s.metric
}

// RoundMetrics returns the per-challenge records gathered so far.
func (s *Session) RoundMetrics() []metrics.RoundMetric {
	return s.collector.Rounds()
}

func (s *Session) observers() []game.Observer {
	var observers []game.Observer
	for _, a := range s.agents {
		if o, ok := a.(game.Observer); ok {
			observers = append(observers, o)
		}
	}
	return observers
}

// table is the public view handed to agents: names and dice counts only.
type table struct {
	s *Session
}

// roster lists the agents still in the game with their current cups.
func (t table) roster() game.Roster {
	seats := make(game.Roster, 0, len(t.s.agents))
	for _, a := range t.s.agents {
		seats = append(seats, game.Seat{Name: a.Name(), Dice: a.Dice().Count()})
	}
	return seats
}

func (t table) Seats() []game.Seat {
	return t.roster()
}

func (t table) TotalDice() int {
	return t.roster().TotalDice()
}
