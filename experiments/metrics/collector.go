package metrics

import (
	"strings"
	"sync/atomic"
	"time"
)

type RoundMetric struct {
	Round      int
	Turns      int
	Bidder     string
	Challenger string
	Stood      bool
}

type GameMetric struct {
	Players      string // seating order, "a|b"
	Starting     string
	Winner       string
	Tie          bool
	Rounds       int
	Turns        int
	Challenges   int
	BidsStood    int
	Eliminations int
	StartTime    time.Time
	EndTime      time.Time
	Duration     time.Duration
}

type Collector interface {
	Start(players []string)
	AddRound()
	AddTurn()
	AddChallenge(bidder, challenger string, stood bool)
	AddElimination()
	Rounds() []RoundMetric
	Complete(winner string, tie bool) GameMetric
}

type collector struct {
	players      []string
	startTime    time.Time
	rounds       atomic.Int32
	turns        atomic.Int32
	roundTurns   atomic.Int32
	challenges   atomic.Int32
	stood        atomic.Int32
	eliminations atomic.Int32
	roundMetrics []RoundMetric
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(players []string) {
	m.startTime = time.Now()
	m.players = append([]string(nil), players...)
}

func (m *collector) AddRound() {
	m.rounds.Add(1)
	m.roundTurns.Store(0)
}

func (m *collector) AddTurn() {
	m.turns.Add(1)
	m.roundTurns.Add(1)
}

func (m *collector) AddChallenge(bidder, challenger string, stood bool) {
	m.challenges.Add(1)
	if stood {
		m.stood.Add(1)
	}
	m.roundMetrics = append(m.roundMetrics, RoundMetric{
		Round:      int(m.rounds.Load()),
		Turns:      int(m.roundTurns.Load()),
		Bidder:     bidder,
		Challenger: challenger,
		Stood:      stood,
	})
}

func (m *collector) AddElimination() {
	m.eliminations.Add(1)
}

func (m *collector) Rounds() []RoundMetric {
	return append([]RoundMetric(nil), m.roundMetrics...)
}

func (m *collector) Complete(winner string, tie bool) GameMetric {
	end := time.Now()
	starting := ""
	if len(m.players) > 0 {
		starting = m.players[0]
	}
	return GameMetric{
		Players:      strings.Join(m.players, "|"),
		Starting:     starting,
		Winner:       winner,
		Tie:          tie,
		Rounds:       int(m.rounds.Load()),
		Turns:        int(m.turns.Load()),
		Challenges:   int(m.challenges.Load()),
		BidsStood:    int(m.stood.Load()),
		Eliminations: int(m.eliminations.Load()),
		StartTime:    m.startTime,
		EndTime:      end,
		Duration:     end.Sub(m.startTime),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(players []string)                             {}
func (m *dummyCollector) AddRound()                                          {}
func (m *dummyCollector) AddTurn()                                           {}
func (m *dummyCollector) AddChallenge(bidder, challenger string, stood bool) {}
func (m *dummyCollector) AddElimination()                                    {}
func (m *dummyCollector) Rounds() []RoundMetric                              { return nil }
func (m *dummyCollector) Complete(winner string, tie bool) GameMetric        { return GameMetric{} }
