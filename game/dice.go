package game

import (
	"golang.org/x/exp/rand"
)

// Dice holds the faces of one player's cup.
type Dice struct {
	values []int
	rolled bool
}

// NewDice creates a cup of n dice. Values are undefined until the first Roll.
func NewDice(n int) *Dice {
	if n < 0 {
		panic("dice count cannot be negative")
	}
	return &Dice{values: make([]int, n)}
}

// NewRNG returns a seeded PCG-backed generator.
func NewRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Roll replaces every value with an independent uniform draw over 1..6.
func (d *Dice) Roll(rng RNG) []int {
	for i := range d.values {
		d.values[i] = rng.Intn(MaxFace) + 1
	}
	d.rolled = true
	return d.Values()
}

// Set overrides the faces, for replays and tests.
func (d *Dice) Set(values ...int) {
	if len(values) != len(d.values) {
		panic("dice values do not match dice count")
	}
	for _, v := range values {
		if v < MinFace || v > MaxFace {
			panic("dice value out of range")
		}
	}
	copy(d.values, values)
	d.rolled = true
}

// Count is the number of dice in the cup.
func (d *Dice) Count() int {
	return len(d.values)
}

// Values returns a copy of the current faces.
func (d *Dice) Values() []int {
	if !d.rolled {
		return nil
	}
	values := make([]int, len(d.values))
	copy(values, d.values)
	return values
}

// Matches counts dice supporting a bid on face: the face itself plus wilds,
// except for the wild face which only counts itself.
func (d *Dice) Matches(face int) int {
	if !d.rolled {
		return 0
	}
	return CountMatches(d.values, face)
}

// CountMatches applies the wild rule to an arbitrary set of faces.
func CountMatches(values []int, face int) int {
	matches := 0
	for _, v := range values {
		if v == face || (face != WildFace && v == WildFace) {
			matches++
		}
	}
	return matches
}
