// Package tissue owns the live tip ensemble of one growing network. It
// sequences the two kernel calls of each simulation step: Evolve (growth)
// followed by Guidance (steering), replacing its internal state with the
// kernel's output each time.
package tissue

import (
	"math/rand"

	"github.com/mucar/barw/internal/walk"
)

// Tissue is the active front of a branching network. It holds the current
// tips, the structural geometry, the branching probability, and the strand-id
// allocator. The grown point history stays with the caller and is passed in
// per step.
type Tissue struct {
	tips       []walk.Tip
	geo        walk.Geometry
	prob       float64
	rng        *rand.Rand
	nextBranch int
	step       int
}

// New creates a tissue with a single seed tip. All stochastic decisions draw
// from rng, so a fixed source reproduces the run exactly.
func New(prob float64, seed walk.Tip, geo walk.Geometry, rng *rand.Rand) *Tissue {
	return &Tissue{
		tips:       []walk.Tip{seed},
		geo:        geo,
		prob:       prob,
		rng:        rng,
		nextBranch: seed.Branch + 1,
	}
}

// Evolve advances every active tip by one step of elongation, branching, and
// collision termination against the full grown history. Must be called before
// Guidance within each step.
func (t *Tissue) Evolve(history []walk.Point) {
	t.step++
	t.tips, t.nextBranch = walk.Branching(t.rng, t.prob, t.tips, history, t.step, t.geo, t.nextBranch)
}

// Guidance reorients the tips under the external guidance field (fc) and the
// self-interaction with stable history (fs). Positions and tip count are
// unchanged.
func (t *Tissue) Guidance(last, stable []walk.Point, fc, fs float64) {
	t.tips = walk.GuidanceAvoidance(t.tips, last, stable, fc, fs, t.geo)
}

// Tips returns the current tip collection. Callers must not mutate it.
func (t *Tissue) Tips() []walk.Tip {
	return t.tips
}

// ActiveCount returns the number of live tips.
func (t *Tissue) ActiveCount() int {
	return len(t.tips)
}

// Step returns the index of the most recently evolved step, 0 before the
// first Evolve.
func (t *Tissue) Step() int {
	return t.step
}
