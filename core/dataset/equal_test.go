package dataset

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// variants returns copies of d that each differ in exactly one field.
func variants(t *testing.T, d *Dataset) map[string]*Dataset {
	t.Helper()
	opts := map[string]Option{
		"xs":         WithXs(plusOne(d.Xs())),
		"ys":         WithYs(plusOne(d.Ys())),
		"ids":        WithIDs(plusOne(d.IDs())),
		"cl_lab":     WithClassLabels([]string{"a", "b"}),
		"feat_lab":   WithFeatureLabels([]string{"F1", "F2", "F3"}),
		"feat_shape": WithFeatureShape([]int{1, 3}),
		"extra":      WithExtra(map[string]any{"foo": "baz"}),
	}
	out := make(map[string]*Dataset, len(opts))
	for name, opt := range opts {
		v, err := d.With(opt)
		require.NoError(t, err, name)
		out[name] = v
	}
	return out
}

func TestEquality(t *testing.T) {
	d := fixture(t)
	assert.True(t, d.Equal(d))

	rebuilt, err := New(d.Xs(), d.Ys(), WithIDs(d.IDs()),
		WithFeatureLabels(d.FeatureLabels()),
		WithClassLabels(d.ClassLabels()),
		WithFeatureShape(d.FeatureShape()),
		WithExtra(d.Extra()),
	)
	require.NoError(t, err)
	assert.True(t, d.Equal(rebuilt))

	for name, v := range variants(t, d) {
		assert.False(t, d.Equal(v), "datasets differing in %s compare equal", name)
	}

	copied, err := d.With(
		WithXs(mat.DenseCopyOf(d.Xs())),
		WithYs(mat.DenseCopyOf(d.Ys())),
		WithIDs(mat.DenseCopyOf(d.IDs())),
	)
	require.NoError(t, err)
	assert.True(t, d.Equal(copied))
	assert.False(t, d.Equal(nil))
}

func TestEqualityNaN(t *testing.T) {
	d, err := New(mat.NewDense(1, 1, []float64{math.NaN()}), mat.NewDense(1, 1, []float64{1}))
	require.NoError(t, err)
	assert.False(t, d.Equal(mustIndex(t, d, All())))
}

func TestFingerprintSignedZero(t *testing.T) {
	negZero := math.Copysign(0, -1)
	d := fixture(t)
	neg, err := d.With(
		WithXs(mat.NewDense(2, 3, []float64{negZero, 0, negZero, 1, 1, 1})),
		WithExtra(map[string]any{"foo": "bar", "offset": negZero}),
	)
	require.NoError(t, err)
	pos, err := d.With(WithExtra(map[string]any{"foo": "bar", "offset": 0.0}))
	require.NoError(t, err)

	assert.True(t, pos.Equal(neg))
	assert.Equal(t, pos.Fingerprint(), neg.Fingerprint())
}

func TestFingerprint(t *testing.T) {
	full := fixture(t)
	// xs of a column slice has a stride larger than its width
	wide := mat.NewDense(2, 5, []float64{0, 0, 0, 9, 9, 1, 1, 1, 9, 9})
	d, err := full.With(WithXs(wide.Slice(0, 2, 0, 3)))
	require.NoError(t, err)
	require.True(t, d.Equal(full))

	assert.Equal(t, d.Fingerprint(), d.Fingerprint())
	assert.Equal(t, full.Fingerprint(), d.Fingerprint())

	same, err := FromDefault(d)
	require.NoError(t, err)
	assert.Equal(t, d.Fingerprint(), same.Fingerprint())

	for name, v := range variants(t, d) {
		assert.NotEqual(t, d.Fingerprint(), v.Fingerprint(), "fingerprint ignores %s", name)
	}

	copied, err := d.With(
		WithXs(mat.DenseCopyOf(d.Xs())),
		WithYs(mat.DenseCopyOf(d.Ys())),
		WithIDs(mat.DenseCopyOf(d.IDs())),
	)
	require.NoError(t, err)
	assert.Equal(t, d.Fingerprint(), copied.Fingerprint())
	assert.Len(t, d.Fingerprint().String(), 32)
}

func TestFingerprintFeatureLabelPresence(t *testing.T) {
	xs, ys := mat.NewDense(1, 1, []float64{1}), mat.NewDense(1, 1, []float64{1})
	without, err := New(xs, ys)
	require.NoError(t, err)
	with, err := New(xs, ys, WithFeatureLabels([]string{""}))
	require.NoError(t, err)

	assert.False(t, without.Equal(with))
	assert.NotEqual(t, without.Fingerprint(), with.Fingerprint())
}

func TestFingerprintExtraOrder(t *testing.T) {
	xs, ys := mat.NewDense(1, 1, []float64{1}), mat.NewDense(1, 1, []float64{1})
	a, err := New(xs, ys, WithExtra(map[string]any{
		"a": 1, "b": []any{"x", 2.5}, "c": map[string]any{"n": nil},
	}))
	require.NoError(t, err)
	b, err := New(xs, ys, WithExtra(map[string]any{
		"c": map[string]any{"n": nil}, "b": []any{"x", 2.5}, "a": 1,
	}))
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
}
