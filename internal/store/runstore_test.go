package store

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/mucar/barw/internal/sim"
)

func openTestStore(t *testing.T) *RunStore {
	t.Helper()
	s, err := Open(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRun(t *testing.T, seed int64) (sim.Params, sim.Result) {
	t.Helper()
	p := sim.DefaultParams()
	p.TMax = 25
	p.Seed = seed
	res, err := sim.Run(p)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return p, res
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p, res := sampleRun(t, 42)
	id, err := s.SaveRun(ctx, p, res)
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	got, err := s.LoadResult(ctx, id)
	if err != nil {
		t.Fatalf("LoadResult: %v", err)
	}
	if !reflect.DeepEqual(got, res) {
		t.Error("loaded result differs from saved result")
	}

	meta, err := s.GetRun(ctx, id)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if meta.Prob != p.Prob || meta.FC != p.FC || meta.FS != p.FS || meta.Seed != p.Seed || meta.TMax != p.TMax {
		t.Errorf("stored metadata %+v does not match parameters %+v", meta, p)
	}
	if meta.Points != len(res.Coordinates) {
		t.Errorf("meta.Points = %d, want %d", meta.Points, len(res.Coordinates))
	}
	if meta.Steps != res.Steps() {
		t.Errorf("meta.Steps = %d, want %d", meta.Steps, res.Steps())
	}
	if meta.CreatedAt.IsZero() {
		t.Error("CreatedAt not recorded")
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var ids []int64
	for _, seed := range []int64{1, 2, 3} {
		p, res := sampleRun(t, seed)
		id, err := s.SaveRun(ctx, p, res)
		if err != nil {
			t.Fatalf("SaveRun: %v", err)
		}
		ids = append(ids, id)
	}

	runs, err := s.ListRuns(ctx)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("len(ListRuns) = %d, want 3", len(runs))
	}
	for i, m := range runs {
		if want := ids[len(ids)-1-i]; m.ID != want {
			t.Errorf("ListRuns[%d].ID = %d, want %d", i, m.ID, want)
		}
	}
}

func TestDeleteRunCascades(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p, res := sampleRun(t, 7)
	id, err := s.SaveRun(ctx, p, res)
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	if err := s.DeleteRun(ctx, id); err != nil {
		t.Fatalf("DeleteRun: %v", err)
	}
	if _, err := s.GetRun(ctx, id); err == nil {
		t.Error("deleted run still retrievable")
	}
	if _, err := s.LoadResult(ctx, id); err == nil {
		t.Error("deleted run's histories still retrievable")
	}
	if err := s.DeleteRun(ctx, id); err == nil {
		t.Error("deleting a missing run should fail")
	}
}

func TestGetMissingRun(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.GetRun(context.Background(), 999); err == nil {
		t.Error("expected error for missing run")
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s1, err := Open(ctx, dir)
	if err != nil {
		t.Fatalf("first Open: %v", err)
	}
	p, res := sampleRun(t, 9)
	id, err := s1.SaveRun(ctx, p, res)
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if err := s1.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s2, err := Open(ctx, dir)
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}
	defer s2.Close()

	if want := filepath.Join(dir, DBFileName); s2.Path() != want {
		t.Errorf("Path() = %q, want %q", s2.Path(), want)
	}
	got, err := s2.LoadResult(ctx, id)
	if err != nil {
		t.Fatalf("LoadResult after reopen: %v", err)
	}
	if !reflect.DeepEqual(got, res) {
		t.Error("result did not survive reopen")
	}
}
