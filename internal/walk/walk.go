// Package walk implements the stepping kernel of a branching-and-annihilating
// random walk: per-step elongation, stochastic branching, collision
// termination, and heading steering under external guidance and
// self-interaction. The kernel is stateless; callers pass the current tip set
// and the grown point history in, and replace their state with the result.
package walk

import (
	"math"

	"github.com/mucar/barw/internal/geom"
)

// RootParent is the parent label of the seed strand.
const RootParent = -1

// Tip is an active growth front: its position, current heading, and lineage
// labels. Keeping position and heading in one record makes the tip/heading
// alignment invariant structural.
type Tip struct {
	Pos    geom.Vec2
	Angle  float64 // heading in radians, (-pi, pi]
	Branch int     // strand identifier, unique per growing strand
	Parent int     // branch this strand forked from, RootParent for the seed
	Gen    int     // branch events along the lineage since the seed
}

// Point is one position a tip occupied, with its labels and the step index it
// was recorded at. Points are append-only: once written they are never
// mutated or removed.
type Point struct {
	Pos    geom.Vec2
	Branch int
	Parent int
	Gen    int
	Step   int
}

// Geometry holds the structural constants of the growth process.
type Geometry struct {
	StepLength  float64 // elongation distance per step
	MinAngle    float64 // minimum angular separation between newborn siblings
	RadAvoid    float64 // interaction radius of guidance/self-avoidance
	RadTermin   float64 // collision radius: tips this close to grown tissue stop
	Jitter      float64 // stddev of the per-step heading jitter, radians
	TrailWindow int     // recent steps of a tip's own trail ignored by collisions
	RefAngle    float64 // external guidance direction
}

// DefaultGeometry returns the structural constants of the reference tissue:
// unit step length, fork separation of pi/10, interaction radius of three
// step lengths, and collision radius of one and a half.
func DefaultGeometry() Geometry {
	return Geometry{
		StepLength:  1,
		MinAngle:    math.Pi / 10,
		RadAvoid:    3,
		RadTermin:   1.5,
		Jitter:      0.2,
		TrailWindow: 3,
		RefAngle:    math.Pi / 2,
	}
}

// advance returns t moved one step length along the given heading.
func advance(t Tip, angle float64, g Geometry) Tip {
	t.Angle = geom.NormalizeAngle(angle)
	t.Pos = t.Pos.Add(geom.FromAngle(t.Angle).Scale(g.StepLength))
	return t
}

// sameLineage reports whether pt belongs to the tip's own strand, the strand
// it forked from, or a strand forked from it. Recent points of these strands
// are the tip's own trail and its sibling's first steps; they are not
// obstacles.
func sameLineage(t Tip, pt Point) bool {
	return pt.Branch == t.Branch || pt.Branch == t.Parent || pt.Parent == t.Branch
}

// collides reports whether a tip's proposed position lies within the
// termination radius of already-grown tissue. Points appended within
// TrailWindow steps of the current step are skipped when they share the
// tip's lineage, so a tip does not annihilate against its own last few
// positions or a freshly created sibling.
func collides(t Tip, history []Point, step int, g Geometry) bool {
	for _, pt := range history {
		if pt.Step >= step-g.TrailWindow && sameLineage(t, pt) {
			continue
		}
		if pt.Pos.Dist(t.Pos) < g.RadTermin {
			return true
		}
	}
	return false
}
