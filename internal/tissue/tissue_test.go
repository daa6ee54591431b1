package tissue

import (
	"math"
	"math/rand"
	"testing"

	"github.com/mucar/barw/internal/geom"
	"github.com/mucar/barw/internal/walk"
)

func newTestTissue(prob float64, seed int64) *Tissue {
	tip := walk.Tip{Pos: geom.Vec2{X: 100, Y: 100}, Angle: math.Pi / 2, Branch: 0, Parent: walk.RootParent}
	return New(prob, tip, walk.DefaultGeometry(), rand.New(rand.NewSource(seed)))
}

func TestNewTissueStartsWithOneTip(t *testing.T) {
	tis := newTestTissue(0.1, 1)
	if tis.ActiveCount() != 1 {
		t.Fatalf("ActiveCount() = %d, want 1", tis.ActiveCount())
	}
	if tis.Step() != 0 {
		t.Errorf("Step() = %d before first Evolve, want 0", tis.Step())
	}
}

func TestEvolveAdvancesStepCounter(t *testing.T) {
	tis := newTestTissue(0, 2)
	for i := 1; i <= 5; i++ {
		tis.Evolve(nil)
		if tis.Step() != i {
			t.Fatalf("Step() = %d after %d Evolve calls", tis.Step(), i)
		}
	}
}

func TestEvolveAlwaysBranchDoublesTips(t *testing.T) {
	tis := newTestTissue(1, 3)
	tis.Evolve(nil)
	if tis.ActiveCount() != 2 {
		t.Fatalf("ActiveCount() = %d after one always-branch step, want 2", tis.ActiveCount())
	}
	tis.Evolve(nil)
	if tis.ActiveCount() != 4 {
		t.Fatalf("ActiveCount() = %d after two always-branch steps, want 4", tis.ActiveCount())
	}
}

func TestFreshStrandIdsAreUnique(t *testing.T) {
	tis := newTestTissue(1, 4)
	for i := 0; i < 4; i++ {
		tis.Evolve(nil)
	}
	seen := map[int]int{}
	for _, tip := range tis.Tips() {
		seen[tip.Branch]++
	}
	for id, n := range seen {
		if n > 1 {
			t.Errorf("strand id %d held by %d live tips", id, n)
		}
	}
}

func TestGuidanceKeepsTipCountAndPositions(t *testing.T) {
	tis := newTestTissue(1, 5)
	tis.Evolve(nil)
	before := append([]walk.Tip(nil), tis.Tips()...)

	stable := []walk.Point{{Pos: geom.Vec2{X: 101, Y: 102}, Branch: 50, Step: 1}}
	tis.Guidance(nil, stable, 0.2, -0.2)

	after := tis.Tips()
	if len(after) != len(before) {
		t.Fatalf("Guidance changed tip count: %d -> %d", len(before), len(after))
	}
	for i := range after {
		if after[i].Pos != before[i].Pos {
			t.Errorf("tip %d moved during Guidance", i)
		}
		if after[i].Branch != before[i].Branch || after[i].Gen != before[i].Gen {
			t.Errorf("tip %d labels changed during Guidance", i)
		}
	}
}
