package utils

import (
	"math/rand"
	"time"
)

// Weighted is one entry of a weighted random choice.
type Weighted struct {
	ID     string
	Weight int
}

// PRNG wraps a seeded generator so every random decision of a run is
// reproducible from its seed.
type PRNG struct {
	rng  *rand.Rand
	seed int64
}

// NewPRNG creates a generator. A zero seed uses the current time.
func NewPRNG(seed int64) *PRNG {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &PRNG{rng: rand.New(rand.NewSource(seed)), seed: seed}
}

// Seed returns the seed the generator was created with.
func (p *PRNG) Seed() int64 { return p.seed }

// Intn returns a value in [0, n). n <= 0 yields 0.
func (p *PRNG) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return p.rng.Intn(n)
}

// Float64 returns a value in [0, 1).
func (p *PRNG) Float64() float64 {
	return p.rng.Float64()
}

// Chance reports true with probability prob.
func (p *PRNG) Chance(prob float64) bool {
	if prob <= 0 {
		return false
	}
	if prob >= 1 {
		return true
	}
	return p.rng.Float64() < prob
}

// ChooseWeighted picks an entry id proportionally to its weight.
// An empty table yields "", a table with no positive weight its first entry.
func (p *PRNG) ChooseWeighted(entries []Weighted) string {
	if len(entries) == 0 {
		return ""
	}
	total := 0
	for _, e := range entries {
		if e.Weight > 0 {
			total += e.Weight
		}
	}
	if total <= 0 {
		return entries[0].ID
	}

	r := p.rng.Intn(total)
	upto := 0
	for _, e := range entries {
		if e.Weight <= 0 {
			continue
		}
		if upto+e.Weight > r {
			return e.ID
		}
		upto += e.Weight
	}
	return entries[len(entries)-1].ID
}
