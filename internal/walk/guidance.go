package walk

import (
	"math"

	"github.com/mucar/barw/internal/geom"
)

// aggregate direction magnitudes below this are treated as degenerate and
// leave the heading unchanged.
const minAggregate = 1e-9

// GuidanceAvoidance reorients every tip's heading, leaving positions and the
// tip count untouched. Two corrections apply in order: rotation toward the
// external reference direction g.RefAngle scaled by fc, and rotation toward
// (fs > 0, attraction) or away from (fs < 0, repulsion) the proximity-weighted
// aggregate of stable-history points within g.RadAvoid, scaled by |fs|.
//
// last holds the points produced by the immediately preceding step; it is
// reserved for coupling between separate tissues and does not influence a
// tissue's own tips. A tip with no stable points in range, or one exactly
// coincident with the aggregate, keeps its heading.
func GuidanceAvoidance(tips []Tip, last, stable []Point, fc, fs float64, g Geometry) []Tip {
	if len(tips) == 0 {
		return nil
	}

	out := make([]Tip, len(tips))
	for i, tip := range tips {
		a := tip.Angle
		if fc != 0 {
			a = geom.RotateToward(a, g.RefAngle, fc)
		}
		if fs != 0 {
			if agg, ok := interactionVector(tip, stable, g.RadAvoid); ok {
				target := agg.Angle()
				if fs < 0 {
					target = geom.NormalizeAngle(target + math.Pi)
				}
				a = geom.RotateToward(a, target, math.Abs(fs))
			}
		}
		tip.Angle = geom.NormalizeAngle(a)
		out[i] = tip
	}
	return out
}

// interactionVector sums the unit directions from the tip toward every stable
// point within radius, weighted linearly by proximity (1 at the tip, 0 at the
// radius). It reports false when no point is in range or the contributions
// cancel out.
func interactionVector(tip Tip, stable []Point, radius float64) (geom.Vec2, bool) {
	var agg geom.Vec2
	found := false
	for _, pt := range stable {
		d := pt.Pos.Dist(tip.Pos)
		if d >= radius || d < minAggregate {
			// Out of range, or coincident with the tip: no defined direction.
			continue
		}
		w := 1 - d/radius
		agg = agg.Add(pt.Pos.Sub(tip.Pos).Scale(w / d))
		found = true
	}
	if !found || agg.Len() < minAggregate {
		return geom.Vec2{}, false
	}
	return agg, true
}
