// Package preprocessing provides label encoders and feature normalisation
// nodes for datasets.
package preprocessing

import (
	"fmt"
	"slices"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/mat"

	"github.com/wmvanvliet/golem/pkg/errors"
)

// ToOneOfN encodes integer labels as a one-of-N matrix. Column i stands for
// classCols[i]; when classCols is empty the distinct labels in ascending
// order are used. Labels not listed in classCols get an all-zero row.
func ToOneOfN(labels []int, classCols []int) (*mat.Dense, error) {
	if len(classCols) == 0 {
		classCols = lo.Uniq(labels)
		slices.Sort(classCols)
	}
	if len(labels) == 0 || len(classCols) == 0 {
		return &mat.Dense{}, nil
	}
	col := make(map[int]int, len(classCols))
	for i, c := range classCols {
		if _, dup := col[c]; dup {
			return nil, errors.NewValidationError("class_cols", fmt.Sprintf("class %d listed twice", c), classCols)
		}
		col[c] = i
	}

	ys := mat.NewDense(len(labels), len(classCols), nil)
	for i, l := range labels {
		if j, ok := col[l]; ok {
			ys.Set(i, j, 1)
		}
	}
	return ys, nil
}

// HardMax returns a matrix of the same shape as m with a 1 at the position
// of each row's maximum (the first one on ties) and 0 elsewhere.
func HardMax(m mat.Matrix) *mat.Dense {
	r, c := m.Dims()
	out := mat.NewDense(r, c, nil)
	row := make([]float64, c)
	for i := 0; i < r; i++ {
		mat.Row(row, i, m)
		best := 0
		for j := 1; j < c; j++ {
			if row[j] > row[best] {
				best = j
			}
		}
		out.Set(i, best, 1)
	}
	return out
}
