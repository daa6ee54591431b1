// Package export writes run histories as Arrow IPC files for analysis
// in external tooling.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/ipc"
	"github.com/apache/arrow/go/v17/arrow/memory"

	"github.com/mucar/barw/internal/sim"
)

// Field suffixes of the three files a run exports to.
const (
	FieldCoords = "coords"
	FieldAngles = "angles"
	FieldEvolve = "evolve"
)

var (
	coordsSchema = arrow.NewSchema([]arrow.Field{
		{Name: "x", Type: arrow.PrimitiveTypes.Float64},
		{Name: "y", Type: arrow.PrimitiveTypes.Float64},
		{Name: "branch", Type: arrow.PrimitiveTypes.Int64},
		{Name: "parent", Type: arrow.PrimitiveTypes.Int64},
		{Name: "gen", Type: arrow.PrimitiveTypes.Int64},
		{Name: "step", Type: arrow.PrimitiveTypes.Int64},
	}, nil)

	anglesSchema = arrow.NewSchema([]arrow.Field{
		{Name: "degrees", Type: arrow.PrimitiveTypes.Float64},
		{Name: "gen", Type: arrow.PrimitiveTypes.Int64},
	}, nil)

	evolveSchema = arrow.NewSchema([]arrow.Field{
		{Name: "step", Type: arrow.PrimitiveTypes.Int64},
		{Name: "tips", Type: arrow.PrimitiveTypes.Int64},
	}, nil)
)

// FileName builds the export file name for one field of a run, encoding the
// parameters that produced it: <prefix>_pb_<p>_fc_<fc>_fs_<fs>_<field>.arrow
func FileName(prefix string, p sim.Params, field string) string {
	return fmt.Sprintf("%s_pb_%s_fc_%s_fs_%s_%s.arrow",
		prefix, formatParam(p.Prob), formatParam(p.FC), formatParam(p.FS), field)
}

func formatParam(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteResult writes a run's coordinates, headings, and tip counts to three
// Arrow IPC files under dir. It returns the paths written.
func (e *Exporter) WriteResult(dir, prefix string, p sim.Params, res sim.Result) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}

	writes := []struct {
		field string
		fn    func(path string) error
	}{
		{FieldCoords, func(path string) error { return e.writeCoords(path, res) }},
		{FieldAngles, func(path string) error { return e.writeAngles(path, res) }},
		{FieldEvolve, func(path string) error { return e.writeEvolve(path, res) }},
	}

	var paths []string
	for _, w := range writes {
		path := filepath.Join(dir, FileName(prefix, p, w.field))
		if err := w.fn(path); err != nil {
			return nil, fmt.Errorf("failed to export %s: %w", w.field, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// Exporter writes Arrow records with a shared allocator.
type Exporter struct {
	alloc memory.Allocator
}

// New returns an Exporter backed by the Go allocator.
func New() *Exporter {
	return &Exporter{alloc: memory.NewGoAllocator()}
}

func (e *Exporter) writeCoords(path string, res sim.Result) error {
	b := array.NewRecordBuilder(e.alloc, coordsSchema)
	defer b.Release()

	xs := b.Field(0).(*array.Float64Builder)
	ys := b.Field(1).(*array.Float64Builder)
	branches := b.Field(2).(*array.Int64Builder)
	parents := b.Field(3).(*array.Int64Builder)
	gens := b.Field(4).(*array.Int64Builder)
	steps := b.Field(5).(*array.Int64Builder)
	for _, pt := range res.Coordinates {
		xs.Append(pt.Pos.X)
		ys.Append(pt.Pos.Y)
		branches.Append(int64(pt.Branch))
		parents.Append(int64(pt.Parent))
		gens.Append(int64(pt.Gen))
		steps.Append(int64(pt.Step))
	}
	return e.writeRecord(path, coordsSchema, b)
}

func (e *Exporter) writeAngles(path string, res sim.Result) error {
	b := array.NewRecordBuilder(e.alloc, anglesSchema)
	defer b.Release()

	degrees := b.Field(0).(*array.Float64Builder)
	gens := b.Field(1).(*array.Int64Builder)
	for _, a := range res.Angles {
		degrees.Append(a.Degrees)
		gens.Append(int64(a.Gen))
	}
	return e.writeRecord(path, anglesSchema, b)
}

func (e *Exporter) writeEvolve(path string, res sim.Result) error {
	b := array.NewRecordBuilder(e.alloc, evolveSchema)
	defer b.Release()

	steps := b.Field(0).(*array.Int64Builder)
	tips := b.Field(1).(*array.Int64Builder)
	for step, n := range res.Evolve {
		steps.Append(int64(step))
		tips.Append(int64(n))
	}
	return e.writeRecord(path, evolveSchema, b)
}

func (e *Exporter) writeRecord(path string, schema *arrow.Schema, b *array.RecordBuilder) error {
	rec := b.NewRecord()
	defer rec.Release()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	w, err := ipc.NewFileWriter(f, ipc.WithSchema(schema), ipc.WithAllocator(e.alloc))
	if err != nil {
		return fmt.Errorf("failed to create writer: %w", err)
	}
	if err := w.Write(rec); err != nil {
		w.Close()
		return fmt.Errorf("failed to write record: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize file: %w", err)
	}
	return nil
}
