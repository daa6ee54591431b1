package export

import (
	"fmt"
	"io"
	"os"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/ipc"
	"github.com/apache/arrow/go/v17/arrow/memory"
)

// ReadFloat64Column reads one float64 column from an exported file.
func ReadFloat64Column(path, name string) ([]float64, error) {
	var out []float64
	err := readColumn(path, name, func(col arrow.Array) error {
		vals, ok := col.(*array.Float64)
		if !ok {
			return fmt.Errorf("column %q is %s, not float64", name, col.DataType())
		}
		for i := 0; i < vals.Len(); i++ {
			out = append(out, vals.Value(i))
		}
		return nil
	})
	return out, err
}

// ReadInt64Column reads one int64 column from an exported file.
func ReadInt64Column(path, name string) ([]int64, error) {
	var out []int64
	err := readColumn(path, name, func(col arrow.Array) error {
		vals, ok := col.(*array.Int64)
		if !ok {
			return fmt.Errorf("column %q is %s, not int64", name, col.DataType())
		}
		for i := 0; i < vals.Len(); i++ {
			out = append(out, vals.Value(i))
		}
		return nil
	})
	return out, err
}

func readColumn(path, name string, visit func(arrow.Array) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	r, err := ipc.NewFileReader(f, ipc.WithAllocator(memory.NewGoAllocator()))
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	defer r.Close()

	idx := r.Schema().FieldIndices(name)
	if len(idx) == 0 {
		return fmt.Errorf("column %q not found", name)
	}

	for {
		rec, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read record: %w", err)
		}
		if err := visit(rec.Column(idx[0])); err != nil {
			return err
		}
	}
}
