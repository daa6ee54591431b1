package sim

import (
	"context"
	"reflect"
	"testing"
)

func sweepParams(t *testing.T) []Params {
	t.Helper()
	base := DefaultParams()
	base.TMax = 30
	return Grid(base, []float64{0, 0.05, 0.2}, []float64{0, 0.1}, []float64{-0.1})
}

func TestGridCrossProduct(t *testing.T) {
	runs := sweepParams(t)
	if len(runs) != 6 {
		t.Fatalf("len(Grid) = %d, want 6", len(runs))
	}

	seeds := map[int64]bool{}
	for _, p := range runs {
		if seeds[p.Seed] {
			t.Errorf("seed %d assigned to more than one run", p.Seed)
		}
		seeds[p.Seed] = true
	}
}

func TestGridEmptyAxesFallBackToBase(t *testing.T) {
	base := DefaultParams()
	runs := Grid(base, nil, nil, nil)
	if len(runs) != 1 {
		t.Fatalf("len(Grid) = %d, want 1", len(runs))
	}
	if runs[0].Prob != base.Prob || runs[0].FC != base.FC || runs[0].FS != base.FS {
		t.Errorf("Grid with empty axes changed parameters: %+v", runs[0])
	}
}

func TestSweepMatchesIndividualRuns(t *testing.T) {
	runs := sweepParams(t)

	outcomes := Sweep(context.Background(), runs, 3)
	if len(outcomes) != len(runs) {
		t.Fatalf("len(outcomes) = %d, want %d", len(outcomes), len(runs))
	}

	for i, oc := range outcomes {
		if oc.Err != nil {
			t.Fatalf("run %d: %v", i, oc.Err)
		}
		if !reflect.DeepEqual(oc.Params, runs[i]) {
			t.Errorf("run %d: outcome order does not match input order", i)
		}
		want, err := Run(runs[i])
		if err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		if !reflect.DeepEqual(oc.Result, want) {
			t.Errorf("run %d: parallel result differs from sequential result", i)
		}
	}
}

func TestSweepSingleWorker(t *testing.T) {
	runs := sweepParams(t)
	a := Sweep(context.Background(), runs, 1)
	b := Sweep(context.Background(), runs, 4)
	if !reflect.DeepEqual(a, b) {
		t.Error("worker count changed sweep outcomes")
	}
}

func TestSweepReportsInvalidRuns(t *testing.T) {
	bad := DefaultParams()
	bad.Prob = 5
	good := DefaultParams()
	good.TMax = 10

	outcomes := Sweep(context.Background(), []Params{good, bad}, 2)
	if outcomes[0].Err != nil {
		t.Errorf("valid run reported error: %v", outcomes[0].Err)
	}
	if outcomes[1].Err == nil {
		t.Error("invalid run reported no error")
	}
}

func TestSweepCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runs := sweepParams(t)
	outcomes := Sweep(ctx, runs, 2)
	for i, oc := range outcomes {
		if oc.Err == nil {
			t.Errorf("run %d: expected context error after cancellation", i)
		}
	}
}
