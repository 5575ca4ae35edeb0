package dataset

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/wmvanvliet/golem/pkg/errors"
)

func mustIndex(t *testing.T, d *Dataset, sel Selector) *Dataset {
	t.Helper()
	out, err := d.Index(sel)
	require.NoError(t, err)
	return out
}

func randomDense(rng *rand.Rand, r, c int) *mat.Dense {
	data := make([]float64, r*c)
	for i := range data {
		data[i] = rng.Float64()
	}
	return mat.NewDense(r, c, data)
}

func TestIndexing(t *testing.T) {
	d := fixture(t)

	assert.True(t, d.Equal(mustIndex(t, d, All())))

	joined, err := mustIndex(t, d, Row(0)).Add(mustIndex(t, d, Row(1)))
	require.NoError(t, err)
	assert.True(t, d.Equal(joined))

	first := mustIndex(t, d, Row(0))
	assert.True(t, first.Equal(mustIndex(t, d, Range(0, -1))))
	assert.Equal(t, 1, first.NInstances())
	assert.Equal(t, d.NClasses(), first.NClasses())
	assert.Equal(t, d.NFeatures(), first.NFeatures())
	assert.True(t, mustIndex(t, d, Row(-1)).Equal(mustIndex(t, d, Row(d.NClasses()-1))))

	assert.True(t, mustIndex(t, d, Mask([]bool{false, true})).Equal(mustIndex(t, d, Row(1))))
	assert.True(t, mustIndex(t, d, Indices([]int{0, 1})).Equal(d))
	assert.True(t, mustIndex(t, d, Indices([]int{1})).Equal(mustIndex(t, d, Row(1))))

	empty := mustIndex(t, d, Range(1, 1))
	assert.Equal(t, 0, empty.NInstances())
	assert.Equal(t, 3, empty.NFeatures())
	assert.Equal(t, 2, empty.NClasses())
	assert.Equal(t, d.FeatureLabels(), empty.FeatureLabels())
}

func TestIndexingSlices(t *testing.T) {
	d, err := New(column(0, 10), mat.NewDense(10, 1, nil))
	require.NoError(t, err)

	ids := func(sel Selector) []float64 {
		return mat.Col(nil, 0, mustIndex(t, d, sel).IDs())
	}
	assert.Equal(t, []float64{0, 2, 4, 6, 8}, ids(Slice(0, End, 2)))
	assert.Equal(t, []float64{7, 8, 9}, ids(Range(-3, End)))
	assert.Equal(t, []float64{0, 1}, ids(Range(-100, 2)))
	assert.Equal(t, []float64{9, 9, 0}, ids(Indices([]int{-1, 9, 0})))
	assert.Equal(t, 0, mustIndex(t, d, Range(8, 3)).NInstances())
}

func TestIndexingErrors(t *testing.T) {
	d := fixture(t)

	var indexErr *errors.IndexError
	_, err := d.Index(Row(2))
	assert.True(t, errors.As(err, &indexErr), "got %v", err)
	_, err = d.Index(Indices([]int{0, -3}))
	assert.True(t, errors.As(err, &indexErr), "got %v", err)

	var dimErr *errors.DimensionError
	_, err = d.Index(Mask([]bool{true}))
	assert.True(t, errors.As(err, &dimErr), "got %v", err)

	var valueErr *errors.ValueError
	_, err = d.Index(Slice(0, End, 0))
	assert.True(t, errors.As(err, &valueErr), "got %v", err)
}

func TestClassExtraction(t *testing.T) {
	d := fixture(t)

	assert.True(t, d.GetClass(0).Equal(mustIndex(t, d, Row(1))))
	assert.True(t, d.GetClass(1).Equal(mustIndex(t, d, Row(0))))
	assert.Equal(t, 0, d.GetClass(5).NInstances())
	assert.Equal(t, []int{1, 0}, d.Labels())
}

func TestLabelsTieBreak(t *testing.T) {
	d, err := New(column(0, 2), mat.NewDense(2, 3, []float64{1, 1, 0, 0.2, 0.5, 0.5}))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, d.Labels())
}

func TestSorted(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	ids := mat.NewDense(6, 2, []float64{0, 1, 1, 1, 2, 1, 3, 0, 4, 0, 5, 0})
	xs, ys := randomDense(rng, 6, 2), mat.NewDense(6, 1, []float64{1, 1, 1, 1, 1, 1})

	d1d, err := New(xs, ys, WithIDs(ids.Slice(0, 6, 0, 1)))
	require.NoError(t, err)
	d2d, err := New(xs, ys, WithIDs(ids))
	require.NoError(t, err)

	shuffle := Indices([]int{3, 0, 5, 1, 4, 2})
	d1ds, d2ds := mustIndex(t, d1d, shuffle), mustIndex(t, d2d, shuffle)
	assert.False(t, d1d.Equal(d1ds))
	assert.False(t, d2d.Equal(d2ds))

	assert.True(t, d1d.Equal(d1ds.Sorted()))
	assert.True(t, d2d.Equal(d2ds.Sorted()))
}

func TestSortedIsStable(t *testing.T) {
	d, err := New(column(0, 4), mat.NewDense(4, 1, []float64{1, 1, 1, 1}),
		WithIDs(mat.NewDense(4, 1, []float64{1, 0, 1, 0})))
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 3, 0, 2}, mat.Col(nil, 0, d.Sorted().Xs()))
}

func TestString(t *testing.T) {
	assert.Equal(t, "Dataset with 2 instances, 3 features, 2 classes: [1, 1]", fixture(t).String())
}

func TestInstances(t *testing.T) {
	d := fixture(t)

	var xs, ys [][]float64
	for x, y := range d.Instances() {
		xs = append(xs, x)
		ys = append(ys, y)
	}
	assert.Equal(t, [][]float64{{0, 0, 0}, {1, 1, 1}}, xs)
	assert.Equal(t, [][]float64{{0, 1}, {1, 0}}, ys)

	for x := range d.Instances() {
		x[0] = 99
		break
	}
	assert.Equal(t, 0.0, d.Xs().At(0, 0))
}

func TestAdd(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	ids := mat.NewDense(6, 2, []float64{0, 1, 1, 1, 2, 1, 3, 0, 4, 0, 5, 0})
	ys := mat.NewDense(6, 3, nil)
	for i := 0; i < 6; i++ {
		ys.Set(i, i%3, 1)
	}
	d, err := New(randomDense(rng, 6, 3), ys, WithIDs(ids),
		WithFeatureLabels([]string{"feat0", "feat1", "feat2"}))
	require.NoError(t, err)

	da, db := mustIndex(t, d, Range(0, 3)), mustIndex(t, d, Range(3, End))
	joined, err := da.Add(db)
	require.NoError(t, err)
	assert.True(t, d.Equal(joined))

	tests := []struct {
		field string
		opts  []Option
	}{
		{"nfeatures", []Option{
			WithXs(db.Xs().Slice(0, 3, 0, 2)),
			WithFeatureLabels([]string{"feat0", "feat1"}),
			WithFeatureShape([]int{2}),
		}},
		{"feat_lab", []Option{WithFeatureLabels([]string{"f0", "f1", "f2"})}},
		{"feat_shape", []Option{WithFeatureShape([]int{3, 1})}},
		{"nclasses", []Option{
			WithYs(db.Ys().Slice(0, 3, 0, 2)),
			WithClassLabels([]string{"class0", "class1"}),
		}},
		{"cl_lab", []Option{WithClassLabels([]string{"c0", "c1", "c2"})}},
		{"extra", []Option{WithExtra(map[string]any{"foo": "baz"})}},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			other, err := db.With(tt.opts...)
			require.NoError(t, err)

			_, err = da.Add(other)
			var mismatch *errors.MismatchError
			require.True(t, errors.As(err, &mismatch), "got %v", err)
			assert.Equal(t, tt.field, mismatch.Field)
		})
	}

	withoutLabels, err := New(db.Xs(), db.Ys(), WithIDs(db.IDs()))
	require.NoError(t, err)
	_, err = da.Add(withoutLabels)
	var mismatch *errors.MismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, "feat_lab", mismatch.Field)
}

func TestConcat(t *testing.T) {
	d := fixture(t)

	parts := []*Dataset{mustIndex(t, d, Row(0)), mustIndex(t, d, Range(1, 1)), mustIndex(t, d, Row(1))}
	joined, err := Concat(parts...)
	require.NoError(t, err)
	assert.True(t, d.Equal(joined))

	empty, err := Concat(mustIndex(t, d, Range(0, 0)), mustIndex(t, d, Range(2, End)))
	require.NoError(t, err)
	assert.Equal(t, 0, empty.NInstances())
	assert.Equal(t, 3, empty.NFeatures())

	_, err = Concat()
	var valueErr *errors.ValueError
	assert.True(t, errors.As(err, &valueErr))
}
