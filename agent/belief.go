package agent

import (
	"math"

	"wildperudo/game"
)

// Archetype is one hypothesis about how an opponent plays. Risk is the
// tolerance for stretching a bid (and for letting bids stand), Bluff the
// tendency to bid faces it does not hold. Both are in [0, 1].
type Archetype struct {
	Name   string
	Weight float64
	Risk   float64
	Bluff  float64
}

var DefaultArchetypes = []Archetype{
	{Name: "conservative", Weight: 1, Risk: 0.2, Bluff: 0.1},
	{Name: "aggressive", Weight: 1, Risk: 0.8, Bluff: 0.6},
	{Name: "balanced", Weight: 1, Risk: 0.5, Bluff: 0.3},
}

// minWeight keeps every hypothesis alive so the mixture can recover.
const minWeight = 1e-3

// Mixture is a discrete belief over archetypes whose weights sum to 1.
type Mixture struct {
	archetypes []Archetype
}

func NewMixture(archetypes []Archetype) *Mixture {
	if len(archetypes) == 0 {
		panic("mixture needs at least one archetype")
	}
	m := &Mixture{archetypes: make([]Archetype, len(archetypes))}
	copy(m.archetypes, archetypes)
	m.normalize()
	return m
}

func (m *Mixture) normalize() {
	sum := 0.0
	for _, a := range m.archetypes {
		sum += max(a.Weight, 0)
	}
	for i := range m.archetypes {
		if sum == 0 {
			m.archetypes[i].Weight = 1 / float64(len(m.archetypes))
			continue
		}
		m.archetypes[i].Weight = max(m.archetypes[i].Weight, 0) / sum
	}
}

// Observe reweights the hypotheses by how well each explains the bid and
// renormalizes.
func (m *Mixture) Observe(previous *game.Bid, bid game.Bid) {
	excess, switched := bidShape(previous, bid)
	for i, a := range m.archetypes {
		m.archetypes[i].Weight = max(a.Weight*likelihood(a, excess, switched), minWeight)
	}
	m.normalize()
}

// likelihood is a heuristic, not a probability model: cautious players make
// minimal raises on the same face, bluffers overshoot and switch faces.
func likelihood(a Archetype, excess int, switched bool) float64 {
	expected := a.Risk * 2
	l := math.Exp(-math.Abs(float64(excess) - expected))
	if switched {
		return l * (0.5 + a.Bluff)
	}
	return l * (1.5 - a.Bluff)
}

// bidShape describes a bid relative to the weakest legal alternative.
func bidShape(previous *game.Bid, bid game.Bid) (excess int, switched bool) {
	if previous == nil {
		return bid.Count - 1, true
	}
	return bid.Count - game.MinRaise(*previous, bid.Face).Count, previous.Face != bid.Face
}

// Dominant returns the archetype with the highest weight.
func (m *Mixture) Dominant() Archetype {
	best := m.archetypes[0]
	for _, a := range m.archetypes[1:] {
		if a.Weight > best.Weight {
			best = a
		}
	}
	return best
}

// Archetypes returns a copy of the current posterior.
func (m *Mixture) Archetypes() []Archetype {
	archetypes := make([]Archetype, len(m.archetypes))
	copy(archetypes, m.archetypes)
	return archetypes
}

// Interval bounds how many of an opponent's dice support a face.
type Interval struct {
	Min int
	Max int
}

// HandBelief tracks, per face, the believed support in one opponent's cup.
// It only ever learns from public bids.
type HandBelief struct {
	dice  int
	faces [game.MaxFace + 1]Interval
}

func NewHandBelief(dice int) *HandBelief {
	h := &HandBelief{}
	h.Reset(dice)
	return h
}

func (h *HandBelief) Reset(dice int) {
	h.dice = dice
	for face := game.MinFace; face <= game.MaxFace; face++ {
		h.faces[face] = Interval{Min: 0, Max: dice}
	}
}

func (h *HandBelief) Interval(face int) Interval {
	return h.faces[face]
}

// Observe narrows the intervals from the opponent's bid. Trust scales how
// much of the claim is believed.
func (h *HandBelief) Observe(previous *game.Bid, bid game.Bid, trust float64) {
	excess, switched := bidShape(previous, bid)

	claimed := int(math.Round(trust * float64(excess+1)))
	if !switched {
		claimed = int(math.Round(trust * float64(excess)))
	}
	h.raiseMin(bid.Face, min(claimed, h.dice))

	if previous != nil && switched {
		// moving off a face hints that the cup is short on it
		h.lowerMax(previous.Face, h.faces[previous.Face].Max-1)
	}
}

func (h *HandBelief) raiseMin(face, value int) {
	iv := &h.faces[face]
	if value <= iv.Min {
		return
	}
	iv.Min = value
	if iv.Max < iv.Min {
		iv.Max = iv.Min
	}
	if face == game.WildFace {
		// wilds support every face
		for f := game.WildFace + 1; f <= game.MaxFace; f++ {
			h.raiseMin(f, value)
		}
	}
}

func (h *HandBelief) lowerMax(face, value int) {
	iv := &h.faces[face]
	value = max(value, iv.Min)
	if value >= iv.Max {
		return
	}
	iv.Max = value
	if face != game.WildFace && h.faces[game.WildFace].Max > value {
		h.lowerMax(game.WildFace, value)
	}
}
