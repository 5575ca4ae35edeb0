package dataset

import (
	"fmt"
	"slices"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/mat"

	"github.com/wmvanvliet/golem/pkg/errors"
)

// block is a row-major matrix whose column count survives zero rows.
// gonum cannot allocate a Dense with a zero dimension, so m is nil whenever
// rows == 0.
type block struct {
	m    *mat.Dense
	rows int
	cols int
}

func (b block) dense() *mat.Dense {
	if b.m == nil {
		return &mat.Dense{}
	}
	return b.m
}

func (b block) row(i int) []float64 {
	return b.m.RawRowView(i)
}

// Dataset holds instances as rows of a feature matrix xs, a one-of-N label
// matrix ys and an id matrix ids, together with labels, the feature shape
// and free-form extra metadata.
type Dataset struct {
	xs  block
	ys  block
	ids block

	featLab   []string // nil when absent
	clLab     []string
	featShape []int
	extra     map[string]any
}

// fields collects construction arguments. A nil member means "not given".
type fields struct {
	xs, ys, ids *block
	featLab     []string
	clLab       []string
	featShape   []int
	extra       map[string]any
	err         error
}

// Option sets a Dataset field at construction time.
type Option func(*fields)

func matrixOption(field string, m mat.Matrix, dst func(*fields) **block) Option {
	return func(f *fields) {
		if m == nil || f.err != nil {
			return
		}
		if d, ok := m.(*mat.Dense); ok && d == nil {
			return
		}
		b, err := toBlock(field, m)
		if err != nil {
			f.err = err
			return
		}
		*dst(f) = &b
	}
}

// WithXs replaces the feature matrix.
func WithXs(xs mat.Matrix) Option {
	return matrixOption("xs", xs, func(f *fields) **block { return &f.xs })
}

// WithYs replaces the label matrix.
func WithYs(ys mat.Matrix) Option {
	return matrixOption("ys", ys, func(f *fields) **block { return &f.ys })
}

// WithIDs sets the id matrix. It must have one row per instance and may have
// any number of columns.
func WithIDs(ids mat.Matrix) Option {
	return matrixOption("ids", ids, func(f *fields) **block { return &f.ids })
}

// WithFeatureLabels sets one name per feature.
func WithFeatureLabels(labels []string) Option {
	return func(f *fields) {
		if labels != nil {
			f.featLab = slices.Clone(labels)
		}
	}
}

// WithClassLabels sets one name per class.
func WithClassLabels(labels []string) Option {
	return func(f *fields) {
		if labels != nil {
			f.clLab = slices.Clone(labels)
		}
	}
}

// WithFeatureShape sets the multi-dimensional layout of one instance's
// features. The product of its entries must equal the number of features.
func WithFeatureShape(shape []int) Option {
	return func(f *fields) {
		if shape != nil {
			f.featShape = slices.Clone(shape)
		}
	}
}

// WithExtra sets the free-form metadata. Values are restricted to plain data
// (see ValidateExtra).
func WithExtra(extra map[string]any) Option {
	return func(f *fields) {
		if extra != nil {
			f.extra = extra
		}
	}
}

func withBlocks(xs, ys, ids block) Option {
	return func(f *fields) {
		f.xs, f.ys, f.ids = &xs, &ys, &ids
	}
}

// New creates a Dataset from a feature matrix and a label matrix. Fields not
// set through opts receive their defaults.
//
// A *mat.Dense argument is stored without copying; any other mat.Matrix is
// copied into a Dense.
func New(xs, ys mat.Matrix, opts ...Option) (*Dataset, error) {
	return build("New", nil, append([]Option{WithXs(xs), WithYs(ys)}, opts...))
}

// FromDefault creates a Dataset that takes every field not set through opts
// from base.
func FromDefault(base *Dataset, opts ...Option) (*Dataset, error) {
	return build("FromDefault", base, opts)
}

// With is shorthand for FromDefault(d, opts...).
func (d *Dataset) With(opts ...Option) (*Dataset, error) {
	return build("With", d, opts)
}

func build(op string, base *Dataset, opts []Option) (*Dataset, error) {
	var f fields
	for _, opt := range opts {
		opt(&f)
	}
	if f.err != nil {
		return nil, f.err
	}

	if base != nil {
		if f.xs == nil {
			f.xs = &base.xs
		}
		if f.ys == nil {
			f.ys = &base.ys
		}
		if f.ids == nil {
			f.ids = &base.ids
		}
		if f.featLab == nil && base.featLab != nil {
			f.featLab = slices.Clone(base.featLab)
		}
		if f.clLab == nil {
			f.clLab = slices.Clone(base.clLab)
		}
		if f.featShape == nil {
			f.featShape = slices.Clone(base.featShape)
		}
		if f.extra == nil {
			f.extra = base.extra
		}
	}

	if f.xs == nil {
		return nil, errors.NewValueError(op, "xs is required")
	}
	if f.ys == nil {
		return nil, errors.NewValueError(op, "ys is required")
	}
	n := f.xs.rows
	if f.ys.rows != n {
		return nil, errors.NewDimensionError(op, n, f.ys.rows, 0)
	}

	if f.ids == nil {
		ids := defaultIDs(n)
		f.ids = &ids
	}
	if f.clLab == nil {
		f.clLab = defaultClassLabels(f.ys.cols)
	}
	if f.featShape == nil {
		f.featShape = []int{f.xs.cols}
	}
	if f.extra == nil {
		f.extra = map[string]any{}
	}

	if f.ids.rows != n {
		return nil, errors.NewIntegrityError(op, fmt.Sprintf("ids has %d rows, expected %d", f.ids.rows, n))
	}
	if f.featLab != nil && len(f.featLab) != f.xs.cols {
		return nil, errors.NewValidationError("feat_lab",
			fmt.Sprintf("length must equal nfeatures (%d)", f.xs.cols), len(f.featLab))
	}
	if len(f.clLab) != f.ys.cols {
		return nil, errors.NewValidationError("cl_lab",
			fmt.Sprintf("length must equal nclasses (%d)", f.ys.cols), len(f.clLab))
	}
	if err := checkFeatureShape(f.featShape, f.xs.cols); err != nil {
		return nil, err
	}
	if err := ValidateExtra(f.extra); err != nil {
		return nil, err
	}

	return &Dataset{
		xs:        *f.xs,
		ys:        *f.ys,
		ids:       *f.ids,
		featLab:   f.featLab,
		clLab:     f.clLab,
		featShape: f.featShape,
		extra:     copyExtra(f.extra),
	}, nil
}

// toBlock converts a caller-supplied matrix. Vectors are rejected: every
// array field is two-dimensional. Rows without columns are rejected as well,
// matching what Load accepts.
func toBlock(field string, m mat.Matrix) (block, error) {
	if _, ok := m.(mat.Vector); ok {
		return block{}, errors.NewDimensionError(field, 2, 1, -1)
	}
	if d, ok := m.(*mat.Dense); ok {
		if d.IsEmpty() {
			return block{}, nil
		}
		r, c := d.Dims()
		return block{m: d, rows: r, cols: c}, nil
	}
	r, c := m.Dims()
	switch {
	case r == 0:
		return block{cols: c}, nil
	case c == 0:
		return block{}, errors.NewDimensionError(field, 1, 0, 1)
	}
	return block{m: mat.DenseCopyOf(m), rows: r, cols: c}, nil
}

func defaultIDs(n int) block {
	if n == 0 {
		return block{cols: 1}
	}
	data := lo.Map(lo.Range(n), func(i, _ int) float64 { return float64(i) })
	return block{m: mat.NewDense(n, 1, data), rows: n, cols: 1}
}

func defaultClassLabels(nclasses int) []string {
	return lo.Map(lo.Range(nclasses), func(i, _ int) string { return fmt.Sprintf("class%d", i) })
}

func checkFeatureShape(shape []int, nfeatures int) error {
	if len(shape) == 0 {
		return errors.NewValidationError("feat_shape", "must have at least one dimension", shape)
	}
	prod := 1
	for _, s := range shape {
		if s < 0 {
			return errors.NewValidationError("feat_shape", "entries must be non-negative", shape)
		}
		prod *= s
	}
	if prod != nfeatures {
		return errors.NewValidationError("feat_shape",
			fmt.Sprintf("product must equal nfeatures (%d)", nfeatures), shape)
	}
	return nil
}

// derive returns a Dataset with new arrays and d's metadata. The caller
// guarantees that the arrays agree in rows and match d's column counts.
func (d *Dataset) derive(xs, ys, ids block) *Dataset {
	return &Dataset{
		xs:        xs,
		ys:        ys,
		ids:       ids,
		featLab:   d.featLab,
		clLab:     d.clLab,
		featShape: d.featShape,
		extra:     d.extra,
	}
}

// Xs returns the feature matrix (ninstances x nfeatures). The returned matrix
// is shared with the dataset and must not be modified. It is empty when the
// dataset has no instances.
func (d *Dataset) Xs() *mat.Dense { return d.xs.dense() }

// Ys returns the label matrix (ninstances x nclasses).
func (d *Dataset) Ys() *mat.Dense { return d.ys.dense() }

// IDs returns the id matrix (ninstances x nidcols).
func (d *Dataset) IDs() *mat.Dense { return d.ids.dense() }

// NInstances returns the number of rows.
func (d *Dataset) NInstances() int { return d.xs.rows }

// NFeatures returns the number of columns of xs.
func (d *Dataset) NFeatures() int { return d.xs.cols }

// NClasses returns the number of columns of ys.
func (d *Dataset) NClasses() int { return d.ys.cols }

// NIDColumns returns the number of columns of ids.
func (d *Dataset) NIDColumns() int { return d.ids.cols }

// FeatureLabels returns a copy of the feature labels, or nil when the
// dataset has none.
func (d *Dataset) FeatureLabels() []string { return slices.Clone(d.featLab) }

// ClassLabels returns a copy of the class labels.
func (d *Dataset) ClassLabels() []string { return slices.Clone(d.clLab) }

// FeatureShape returns a copy of the feature shape.
func (d *Dataset) FeatureShape() []int { return slices.Clone(d.featShape) }

// Extra returns a deep copy of the extra metadata.
func (d *Dataset) Extra() map[string]any { return copyExtra(d.extra) }

// EmptyMatrix returns a matrix with no rows and the given number of columns.
// Passed to WithXs, WithYs or WithIDs it builds a dataset without instances
// that still records the column count.
func EmptyMatrix(cols int) mat.Matrix {
	return emptyMatrix(cols)
}

type emptyMatrix int

func (e emptyMatrix) Dims() (r, c int) { return 0, int(e) }

func (e emptyMatrix) At(i, j int) float64 { panic(mat.ErrIndexOutOfRange) }

func (e emptyMatrix) T() mat.Matrix { return mat.Transpose{Matrix: e} }
