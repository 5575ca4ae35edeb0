package dataset

import (
	"fmt"
	"slices"
)

// NDView presents the feature matrix as an array of shape
// (ninstances, feat_shape...). It shares storage with the dataset: Set
// writes through to Xs, and changes made to Xs are visible in the view.
type NDView struct {
	data    []float64
	stride  int
	rows    int
	shape   []int
	strides []int
}

// NDXs returns the feature-shape view of xs.
func (d *Dataset) NDXs() *NDView {
	v := &NDView{
		rows:  d.xs.rows,
		shape: slices.Clone(d.featShape),
	}
	if d.xs.m != nil {
		raw := d.xs.m.RawMatrix()
		v.data, v.stride = raw.Data, raw.Stride
	}
	v.strides = make([]int, len(v.shape))
	step := 1
	for i := len(v.shape) - 1; i >= 0; i-- {
		v.strides[i] = step
		step *= v.shape[i]
	}
	return v
}

// Shape returns (ninstances, feat_shape...).
func (v *NDView) Shape() []int {
	return append([]int{v.rows}, v.shape...)
}

// At returns the element at (instance, feature indices...). It panics on an
// index out of range, like mat.Dense.At.
func (v *NDView) At(idx ...int) float64 {
	return v.data[v.offset(idx)]
}

// Set stores val at (instance, feature indices...).
func (v *NDView) Set(val float64, idx ...int) {
	v.data[v.offset(idx)] = val
}

// Row returns the flat features of instance i, aliasing the storage.
func (v *NDView) Row(i int) []float64 {
	if i < 0 || i >= v.rows {
		panic(fmt.Sprintf("dataset: row %d out of range for %d instances", i, v.rows))
	}
	n := 1
	for _, s := range v.shape {
		n *= s
	}
	return v.data[i*v.stride : i*v.stride+n : i*v.stride+n]
}

func (v *NDView) offset(idx []int) int {
	if len(idx) != len(v.shape)+1 {
		panic(fmt.Sprintf("dataset: need %d indices, got %d", len(v.shape)+1, len(idx)))
	}
	if idx[0] < 0 || idx[0] >= v.rows {
		panic(fmt.Sprintf("dataset: row %d out of range for %d instances", idx[0], v.rows))
	}
	off := idx[0] * v.stride
	for k, i := range idx[1:] {
		if i < 0 || i >= v.shape[k] {
			panic(fmt.Sprintf("dataset: index %d out of range on axis %d (size %d)", i, k+1, v.shape[k]))
		}
		off += i * v.strides[k]
	}
	return off
}
