package sim

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/mucar/barw/internal/geom"
	"github.com/mucar/barw/internal/walk"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Params)
		wantErr string
	}{
		{"defaults are valid", func(p *Params) {}, ""},
		{"zero horizon is valid", func(p *Params) { p.TMax = 0 }, ""},
		{"probability one is valid", func(p *Params) { p.Prob = 1 }, ""},
		{"negative probability", func(p *Params) { p.Prob = -0.1 }, "probability"},
		{"probability above one", func(p *Params) { p.Prob = 1.01 }, "probability"},
		{"negative horizon", func(p *Params) { p.TMax = -1 }, "tmax"},
		{"zero step length", func(p *Params) { p.Geometry.StepLength = 0 }, "step length"},
		{"zero min angle", func(p *Params) { p.Geometry.MinAngle = 0 }, "branch angle"},
		{"negative avoidance radius", func(p *Params) { p.Geometry.RadAvoid = -3 }, "avoidance radius"},
		{"zero termination radius", func(p *Params) { p.Geometry.RadTermin = 0 }, "termination radius"},
		{"negative jitter", func(p *Params) { p.Geometry.Jitter = -0.1 }, "jitter"},
		{"negative trail window", func(p *Params) { p.Geometry.TrailWindow = -1 }, "trail window"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestRunRejectsInvalidParams(t *testing.T) {
	p := DefaultParams()
	p.Prob = 2
	if _, err := Run(p); err == nil {
		t.Fatal("Run accepted an invalid branching probability")
	}
}

func TestZeroHorizonReturnsSeedOnly(t *testing.T) {
	p := DefaultParams()
	p.TMax = 0

	res, err := Run(p)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Coordinates) != 1 {
		t.Errorf("len(Coordinates) = %d, want 1 (seed only)", len(res.Coordinates))
	}
	if len(res.Angles) != 1 {
		t.Errorf("len(Angles) = %d, want 1", len(res.Angles))
	}
	if !reflect.DeepEqual(res.Evolve, []int{1}) {
		t.Errorf("Evolve = %v, want [1]", res.Evolve)
	}
	if res.Steps() != 0 {
		t.Errorf("Steps() = %d, want 0", res.Steps())
	}

	seed := res.Coordinates[0]
	if seed.Pos != p.Origin || seed.Branch != 0 || seed.Parent != walk.RootParent || seed.Gen != 0 || seed.Step != 0 {
		t.Errorf("seed point = %+v", seed)
	}
	if math.Abs(res.Angles[0].Degrees-90) > 1e-9 {
		t.Errorf("seed heading = %v degrees, want 90", res.Angles[0].Degrees)
	}
}

func TestPureElongationIsSingleStrand(t *testing.T) {
	p := DefaultParams()
	p.Prob = 0
	p.FC = 0
	p.FS = 0
	p.TMax = 10
	p.Seed = 42

	res, err := Run(p)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Coordinates) != 11 {
		t.Fatalf("len(Coordinates) = %d, want 11 (seed + 10 steps)", len(res.Coordinates))
	}
	for i, n := range res.Evolve {
		if n != 1 {
			t.Errorf("Evolve[%d] = %d, want 1", i, n)
		}
	}
	for i, pt := range res.Coordinates {
		if pt.Branch != 0 || pt.Gen != 0 {
			t.Errorf("point %d has labels %+v, want branch 0 gen 0", i, pt)
		}
		if pt.Step != i {
			t.Errorf("point %d recorded at step %d", i, pt.Step)
		}
	}
}

func TestAlwaysBranchDoublesUntilCrowded(t *testing.T) {
	p := DefaultParams()
	p.Prob = 1
	p.FC = 0
	p.FS = 0
	p.TMax = 3
	p.Seed = 7

	res, err := Run(p)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Evolve[0] != 1 {
		t.Errorf("Evolve[0] = %d, want 1", res.Evolve[0])
	}
	if len(res.Evolve) > 1 && res.Evolve[1] != 2 {
		t.Errorf("Evolve[1] = %d, want 2 (first fork is unobstructed)", res.Evolve[1])
	}
	// Branching is binary: the count can at most double per step, and
	// crowding termination only lowers it.
	for k := 1; k < len(res.Evolve); k++ {
		if res.Evolve[k] > 2*res.Evolve[k-1] {
			t.Errorf("Evolve[%d] = %d exceeds double of previous %d", k, res.Evolve[k], res.Evolve[k-1])
		}
	}
}

func TestEvolveAccountsForEveryPoint(t *testing.T) {
	for _, seed := range []int64{1, 2, 3, 99} {
		p := DefaultParams()
		p.TMax = 60
		p.Seed = seed

		res, err := Run(p)
		if err != nil {
			t.Fatalf("seed %d: Run: %v", seed, err)
		}
		sum := 0
		for _, n := range res.Evolve {
			sum += n
		}
		if sum != len(res.Coordinates) {
			t.Errorf("seed %d: sum(Evolve) = %d, len(Coordinates) = %d", seed, sum, len(res.Coordinates))
		}
		if len(res.Angles) != len(res.Coordinates) {
			t.Errorf("seed %d: len(Angles) = %d, len(Coordinates) = %d", seed, len(res.Angles), len(res.Coordinates))
		}
		if len(res.Evolve) > p.TMax+1 {
			t.Errorf("seed %d: len(Evolve) = %d exceeds horizon %d", seed, len(res.Evolve), p.TMax)
		}
	}
}

func TestDeterminismUnderFixedSeed(t *testing.T) {
	p := DefaultParams()
	p.TMax = 80
	p.Seed = 1234

	a, err := Run(p)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	b, err := Run(p)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("two runs with identical parameters and seed differ")
	}
}

func TestDifferentSeedsDiverge(t *testing.T) {
	p := DefaultParams()
	p.TMax = 40

	p.Seed = 1
	a, _ := Run(p)
	p.Seed = 2
	b, _ := Run(p)
	if reflect.DeepEqual(a.Coordinates, b.Coordinates) {
		t.Error("different seeds produced identical trajectories")
	}
}

func TestGenerationMonotonicPerStrand(t *testing.T) {
	p := DefaultParams()
	p.Prob = 0.2
	p.TMax = 60
	p.Seed = 5

	res, err := Run(p)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	lastGen := map[int]int{}
	for _, pt := range res.Coordinates {
		if prev, ok := lastGen[pt.Branch]; ok {
			if pt.Gen < prev {
				t.Fatalf("strand %d generation decreased: %d -> %d", pt.Branch, prev, pt.Gen)
			}
			if pt.Gen > prev+1 {
				t.Fatalf("strand %d generation jumped: %d -> %d", pt.Branch, prev, pt.Gen)
			}
		}
		lastGen[pt.Branch] = pt.Gen
	}
}

func TestSiblingForkAngles(t *testing.T) {
	p := DefaultParams()
	p.Prob = 1
	p.FC = 0
	p.FS = 0
	p.TMax = 2
	p.Seed = 3

	res, err := Run(p)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// Group newborn points by (step, parent): exactly two points sharing a
	// parent at a step are a sibling pair from one branch event.
	type forkKey struct{ step, parent int }
	pairs := map[forkKey][]int{}
	for i, pt := range res.Coordinates {
		if pt.Step == 0 {
			continue
		}
		k := forkKey{pt.Step, pt.Parent}
		pairs[k] = append(pairs[k], i)
	}

	minAngle := p.Geometry.MinAngle
	checked := 0
	for k, idx := range pairs {
		if len(idx) != 2 {
			continue
		}
		a := res.Angles[idx[0]].Degrees * math.Pi / 180
		b := res.Angles[idx[1]].Degrees * math.Pi / 180
		sep := math.Abs(geom.AngleDelta(a, b))
		if sep < minAngle-1e-9 {
			t.Errorf("fork %+v: sibling separation %v < minimum %v", k, sep, minAngle)
		}
		checked++
	}
	if checked == 0 {
		t.Fatal("no sibling pairs found to check")
	}
}

func TestEarlyTerminationShortensHistories(t *testing.T) {
	p := DefaultParams()
	p.Prob = 0
	p.TMax = 10
	// Without trail exclusion a tip collides with its own previous point on
	// the very first step.
	p.Geometry.TrailWindow = 0

	res, err := Run(p)
	if err != nil {
		t.Fatalf("early termination must not be an error, got %v", err)
	}
	if res.Steps() >= p.TMax {
		t.Errorf("Steps() = %d, expected early stop before %d", res.Steps(), p.TMax)
	}
	if res.Evolve[len(res.Evolve)-1] != 0 {
		t.Errorf("final Evolve entry = %d, want 0", res.Evolve[len(res.Evolve)-1])
	}
	sum := 0
	for _, n := range res.Evolve {
		sum += n
	}
	if sum != len(res.Coordinates) {
		t.Errorf("sum(Evolve) = %d, len(Coordinates) = %d", sum, len(res.Coordinates))
	}
}

func TestRecordedHeadingsAreNormalized(t *testing.T) {
	p := DefaultParams()
	p.FS = -0.3
	p.FC = 0.2
	p.TMax = 80
	p.Seed = 11

	res, err := Run(p)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for i, a := range res.Angles {
		if math.IsNaN(a.Degrees) {
			t.Fatalf("angle %d is NaN", i)
		}
		if a.Degrees <= -180-1e-9 || a.Degrees > 180+1e-9 {
			t.Errorf("angle %d = %v degrees, outside (-180, 180]", i, a.Degrees)
		}
	}
}

func TestTerminationKeepsNetworkSpaced(t *testing.T) {
	p := DefaultParams()
	p.Prob = 0.1
	p.FS = 0
	p.FC = 0
	p.TMax = 40
	p.Seed = 21

	res, err := Run(p)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// Any point lying within the termination radius of a much older,
	// unrelated point would mean a tip survived a collision it should not
	// have. Same-lineage neighbors within the trail window are exempt.
	g := p.Geometry
	for i, a := range res.Coordinates {
		for j, b := range res.Coordinates {
			if i == j {
				continue
			}
			related := a.Branch == b.Branch || a.Branch == b.Parent || a.Parent == b.Branch || a.Parent == b.Parent
			if related {
				continue
			}
			if abs(a.Step-b.Step) <= g.TrailWindow {
				continue
			}
			if a.Pos.Dist(b.Pos) < g.RadTermin {
				t.Fatalf("points %d and %d are %.3f apart, closer than the termination radius", i, j, a.Pos.Dist(b.Pos))
			}
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
