package walk

import (
	"math"
	"math/rand"
)

// Branching advances every active tip by one growth step. Each tip
// independently branches with probability prob, otherwise elongates along its
// jittered heading. A branching tip is replaced by two children whose
// headings diverge by at least g.MinAngle; the first child continues the
// parent's strand and keeps its branch id, the second starts a new strand
// with id nextBranch. Both children carry generation parent+1 and reference
// the pre-branch strand as their parent. Any proposed position within
// g.RadTermin of grown tissue (excluding the tip's own recent trail)
// annihilates that tip instead.
//
// step is the index the produced positions will be recorded at. The returned
// nextBranch is the first still-unallocated strand id. An empty tip set
// returns empty output.
func Branching(rng *rand.Rand, prob float64, tips []Tip, history []Point, step int, g Geometry, nextBranch int) ([]Tip, int) {
	if len(tips) == 0 {
		return nil, nextBranch
	}

	out := make([]Tip, 0, len(tips)+1)
	for _, tip := range tips {
		if rng.Float64() < prob {
			// Fork: half the minimum separation on each side, widened by
			// one-sided jitter so the total separation is always >= MinAngle.
			up := g.MinAngle/2 + math.Abs(rng.NormFloat64())*g.Jitter
			down := g.MinAngle/2 + math.Abs(rng.NormFloat64())*g.Jitter

			elder := advance(tip, tip.Angle+up, g)
			elder.Parent = tip.Branch
			elder.Gen = tip.Gen + 1

			younger := advance(tip, tip.Angle-down, g)
			younger.Branch = nextBranch
			younger.Parent = tip.Branch
			younger.Gen = tip.Gen + 1
			nextBranch++

			for _, child := range [2]Tip{elder, younger} {
				if !collides(child, history, step, g) {
					out = append(out, child)
				}
			}
		} else {
			moved := advance(tip, tip.Angle+rng.NormFloat64()*g.Jitter, g)
			if !collides(moved, history, step, g) {
				out = append(out, moved)
			}
		}
	}
	return out, nextBranch
}
