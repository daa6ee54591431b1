// Package sim runs the fixed-horizon time loop of a branching-and-annihilating
// random walk: it owns the append-only point and angle histories, sequences
// the per-step evolve/guidance calls, tracks the active-tip count, and stops
// early once no tips remain.
package sim

import (
	"math/rand"

	"github.com/mucar/barw/internal/geom"
	"github.com/mucar/barw/internal/tissue"
	"github.com/mucar/barw/internal/walk"
)

// AngleRecord is one entry of the permanent heading history: the heading in
// degrees and the generation of the tip that produced it.
type AngleRecord struct {
	Degrees float64
	Gen     int
}

// Result holds the three output sequences of a run. Coordinates starts with
// the seed point; Angles and Evolve carry matching initial entries, so
// sum(Evolve) == len(Coordinates) always holds.
type Result struct {
	Coordinates []walk.Point
	Angles      []AngleRecord
	Evolve      []int
}

// Steps returns the number of steps actually executed, excluding the seed
// entry. Smaller than the configured horizon when all tips annihilated early.
func (r Result) Steps() int {
	if len(r.Evolve) == 0 {
		return 0
	}
	return len(r.Evolve) - 1
}

// Run executes one complete simulation and returns the accumulated point,
// angle, and active-count histories. It is a pure function of its parameters:
// all randomness comes from the run's own seeded source, and no state
// outlives the call. Early tip exhaustion is a normal terminal state reported
// through the length of Result.Evolve, never an error.
func Run(p Params) (Result, error) {
	if err := p.Validate(); err != nil {
		return Result{}, err
	}

	rng := rand.New(rand.NewSource(p.Seed))
	seed := walk.Tip{
		Pos:     p.Origin,
		Angle:   geom.NormalizeAngle(p.Heading),
		Branch:  0,
		Parent:  walk.RootParent,
		Gen:     0,
	}
	tis := tissue.New(p.Prob, seed, p.Geometry, rng)

	coords := []walk.Point{{Pos: seed.Pos, Branch: seed.Branch, Parent: seed.Parent, Gen: seed.Gen, Step: 0}}
	angles := []AngleRecord{{Degrees: geom.Degrees(seed.Angle), Gen: seed.Gen}}
	evolve := []int{1}

	// Steering windows, recomputed per step from the point step markers.
	// The stable window excludes the last two steps so a tip's avoidance
	// never reacts to points it or its sibling just created; before the
	// first step it holds the seed alone.
	var last []walk.Point
	stable := coords

	for t := 0; t < p.TMax; t++ {
		if tis.ActiveCount() == 0 {
			break
		}

		tis.Evolve(coords)
		tis.Guidance(last, stable, p.FC, p.FS)

		step := t + 1
		tips := tis.Tips()
		for _, tip := range tips {
			coords = append(coords, walk.Point{
				Pos:    tip.Pos,
				Branch: tip.Branch,
				Parent: tip.Parent,
				Gen:    tip.Gen,
				Step:   step,
			})
			angles = append(angles, AngleRecord{Degrees: geom.Degrees(tip.Angle), Gen: tip.Gen})
		}
		evolve = append(evolve, len(tips))

		last = coords[len(coords)-len(tips):]
		stable = pointsThrough(coords, step-2)

		p.Trace.Log(map[string]any{
			"step":   step,
			"tips":   len(tips),
			"points": len(coords),
		})
	}

	return Result{Coordinates: coords, Angles: angles, Evolve: evolve}, nil
}

// pointsThrough returns the prefix of the append-only history whose step
// index is at most maxStep. Points are appended in step order, so the prefix
// is contiguous.
func pointsThrough(coords []walk.Point, maxStep int) []walk.Point {
	if maxStep < 0 {
		// Early steps: the seed is the only meaningful obstacle history.
		maxStep = 0
	}
	n := len(coords)
	for n > 0 && coords[n-1].Step > maxStep {
		n--
	}
	return coords[:n]
}
