package dataset

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/wmvanvliet/golem/pkg/errors"
)

// End stands for "up to the last instance" in Range and Slice.
const End = math.MaxInt

// Selector picks a subset of instances. Negative positions count from the
// end, as in Python sequence indexing.
type Selector interface {
	resolve(n int) ([]int, error)
}

type rowSel int

// Row selects a single instance. The result is still a Dataset with one
// row.
func Row(i int) Selector { return rowSel(i) }

func (s rowSel) resolve(n int) ([]int, error) {
	i, err := normalizeIndex(int(s), n)
	if err != nil {
		return nil, err
	}
	return []int{i}, nil
}

type sliceSel struct {
	start, stop, step int
}

// Range selects instances start..stop-1. Bounds are clamped to the dataset.
func Range(start, stop int) Selector { return sliceSel{start, stop, 1} }

// Slice selects every step-th instance in start..stop-1. step must be
// positive.
func Slice(start, stop, step int) Selector { return sliceSel{start, stop, step} }

// All selects every instance.
func All() Selector { return sliceSel{0, End, 1} }

func (s sliceSel) resolve(n int) ([]int, error) {
	if s.step <= 0 {
		return nil, errors.NewValueError("Index", "slice step must be positive")
	}
	start, stop := clampBound(s.start, n), clampBound(s.stop, n)
	var idx []int
	for i := start; i < stop; i += s.step {
		idx = append(idx, i)
	}
	return idx, nil
}

type maskSel []bool

// Mask selects the instances whose entry is true. The mask length must equal
// the number of instances.
func Mask(mask []bool) Selector { return maskSel(mask) }

func (s maskSel) resolve(n int) ([]int, error) {
	if len(s) != n {
		return nil, errors.NewDimensionError("Index", n, len(s), 0)
	}
	var idx []int
	for i, keep := range s {
		if keep {
			idx = append(idx, i)
		}
	}
	return idx, nil
}

type indicesSel []int

// Indices selects instances by position, in the given order. Repeats are
// allowed.
func Indices(idx []int) Selector { return indicesSel(idx) }

func (s indicesSel) resolve(n int) ([]int, error) {
	out := make([]int, len(s))
	for k, i := range s {
		j, err := normalizeIndex(i, n)
		if err != nil {
			return nil, err
		}
		out[k] = j
	}
	return out, nil
}

func normalizeIndex(i, n int) (int, error) {
	j := i
	if j < 0 {
		j += n
	}
	if j < 0 || j >= n {
		return 0, errors.NewIndexError("Index", i, n)
	}
	return j, nil
}

func clampBound(i, n int) int {
	if i < 0 {
		i += n
		if i < 0 {
			return 0
		}
	}
	if i > n {
		return n
	}
	return i
}

// Index returns the instances picked by sel, with all metadata preserved.
// The selected rows are copied.
func (d *Dataset) Index(sel Selector) (*Dataset, error) {
	idx, err := sel.resolve(d.NInstances())
	if err != nil {
		return nil, err
	}
	return d.take(idx), nil
}

func (d *Dataset) take(idx []int) *Dataset {
	return d.derive(gather(d.xs, idx), gather(d.ys, idx), gather(d.ids, idx))
}

func gather(b block, idx []int) block {
	if len(idx) == 0 {
		return block{cols: b.cols}
	}
	data := make([]float64, 0, len(idx)*b.cols)
	for _, i := range idx {
		data = append(data, b.row(i)...)
	}
	return block{m: mat.NewDense(len(idx), b.cols, data), rows: len(idx), cols: b.cols}
}

// stack concatenates blocks vertically. All blocks must share cols.
func stack(cols int, bs ...block) block {
	rows := 0
	for _, b := range bs {
		rows += b.rows
	}
	if rows == 0 {
		return block{cols: cols}
	}
	data := make([]float64, 0, rows*cols)
	for _, b := range bs {
		for i := 0; i < b.rows; i++ {
			data = append(data, b.row(i)...)
		}
	}
	return block{m: mat.NewDense(rows, cols, data), rows: rows, cols: cols}
}
