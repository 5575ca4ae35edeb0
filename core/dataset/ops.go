package dataset

import (
	"fmt"
	"iter"
	"slices"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/wmvanvliet/golem/core/parallel"
	"github.com/wmvanvliet/golem/pkg/errors"
)

// CheckCompatible reports whether a and b can be concatenated: they must
// agree in nfeatures, feat_lab, feat_shape, nclasses, cl_lab, extra and the
// number of id columns. The returned *errors.MismatchError names the first
// field that differs.
func CheckCompatible(op string, a, b *Dataset) error {
	switch {
	case a.NFeatures() != b.NFeatures():
		return errors.NewMismatchError(op, "nfeatures", a.NFeatures(), b.NFeatures())
	case !labelsEqual(a.featLab, b.featLab):
		return errors.NewMismatchError(op, "feat_lab", a.featLab, b.featLab)
	case !slices.Equal(a.featShape, b.featShape):
		return errors.NewMismatchError(op, "feat_shape", a.featShape, b.featShape)
	case a.NClasses() != b.NClasses():
		return errors.NewMismatchError(op, "nclasses", a.NClasses(), b.NClasses())
	case !slices.Equal(a.clLab, b.clLab):
		return errors.NewMismatchError(op, "cl_lab", a.clLab, b.clLab)
	case !extraEqual(a.extra, b.extra):
		return errors.NewMismatchError(op, "extra", a.extra, b.extra)
	case a.NIDColumns() != b.NIDColumns():
		return errors.NewMismatchError(op, "ids", a.NIDColumns(), b.NIDColumns())
	}
	return nil
}

// labelsEqual distinguishes absent labels (nil) from an empty list.
func labelsEqual(a, b []string) bool {
	return (a == nil) == (b == nil) && slices.Equal(a, b)
}

func extraEqual(a, b map[string]any) bool {
	if len(a) != len(b) {
		return false
	}
	return len(a) == 0 || valueEqual(a, b)
}

// Add returns the instances of d followed by those of o.
func (d *Dataset) Add(o *Dataset) (*Dataset, error) {
	if err := CheckCompatible("Add", d, o); err != nil {
		return nil, err
	}
	return d.derive(
		stack(d.xs.cols, d.xs, o.xs),
		stack(d.ys.cols, d.ys, o.ys),
		stack(d.ids.cols, d.ids, o.ids),
	), nil
}

// Concat stacks datasets in order. Metadata is taken from the first one.
func Concat(ds ...*Dataset) (*Dataset, error) {
	if len(ds) == 0 {
		return nil, errors.NewValueError("Concat", "no datasets given")
	}
	first := ds[0]
	xs := make([]block, len(ds))
	ys := make([]block, len(ds))
	ids := make([]block, len(ds))
	for i, d := range ds {
		if i > 0 {
			if err := CheckCompatible("Concat", first, d); err != nil {
				return nil, err
			}
		}
		xs[i], ys[i], ids[i] = d.xs, d.ys, d.ids
	}
	return first.derive(
		stack(first.xs.cols, xs...),
		stack(first.ys.cols, ys...),
		stack(first.ids.cols, ids...),
	), nil
}

// Labels returns the class index of every instance: the position of the
// largest value in its ys row, the first one on ties.
func (d *Dataset) Labels() []int {
	n := d.NInstances()
	labels := make([]int, n)
	if n == 0 {
		return labels
	}
	parallel.ForRows(n, parallel.DefaultRowThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			labels[i] = argmax(d.ys.row(i))
		}
	})
	return labels
}

func argmax(row []float64) int {
	best := 0
	for j := 1; j < len(row); j++ {
		if row[j] > row[best] {
			best = j
		}
	}
	return best
}

// NInstancesPerClass returns the number of instances labelled with each
// class.
func (d *Dataset) NInstancesPerClass() []int {
	counts := make([]int, d.NClasses())
	for _, l := range d.Labels() {
		counts[l]++
	}
	return counts
}

// GetClass returns the instances of class i, in their original order.
func (d *Dataset) GetClass(i int) *Dataset {
	var idx []int
	for row, l := range d.Labels() {
		if l == i {
			idx = append(idx, row)
		}
	}
	return d.take(idx)
}

// Sorted returns a copy with the instances ordered lexicographically by
// their id rows. Rows with equal ids keep their relative order.
func (d *Dataset) Sorted() *Dataset {
	perm := make([]int, d.NInstances())
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool {
		ra, rb := d.ids.row(perm[a]), d.ids.row(perm[b])
		for k := range ra {
			if ra[k] != rb[k] {
				return ra[k] < rb[k]
			}
		}
		return false
	})
	return d.take(perm)
}

// Instances iterates over (features, labels) row pairs. The yielded slices
// are copies.
func (d *Dataset) Instances() iter.Seq2[[]float64, []float64] {
	return func(yield func([]float64, []float64) bool) {
		for i := 0; i < d.NInstances(); i++ {
			if !yield(mat.Row(nil, i, d.xs.m), mat.Row(nil, i, d.ys.m)) {
				return
			}
		}
	}
}

// String summarises the dataset, e.g.
// "Dataset with 3 instances, 2 features, 2 classes: [1, 2]".
func (d *Dataset) String() string {
	counts := d.NInstancesPerClass()
	parts := make([]string, len(counts))
	for i, c := range counts {
		parts[i] = strconv.Itoa(c)
	}
	return fmt.Sprintf("Dataset with %d instances, %d features, %d classes: [%s]",
		d.NInstances(), d.NFeatures(), d.NClasses(), strings.Join(parts, ", "))
}
