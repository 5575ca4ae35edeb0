package cv

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/wmvanvliet/golem/core/dataset"
	"github.com/wmvanvliet/golem/core/model"
	"github.com/wmvanvliet/golem/pkg/errors"
	"github.com/wmvanvliet/golem/pkg/log"
)

// classDataset builds a dataset with the given class counts. Classes are
// interleaved round-robin so that no class is stored contiguously.
func classDataset(t *testing.T, counts []int) *dataset.Dataset {
	t.Helper()
	left := append([]int(nil), counts...)
	var labels []int
	for remaining := true; remaining; {
		remaining = false
		for c := range left {
			if left[c] > 0 {
				labels = append(labels, c)
				left[c]--
				remaining = true
			}
		}
	}

	n := len(labels)
	rng := rand.New(rand.NewPCG(7, 11))
	xs := mat.NewDense(n, 2, nil)
	ys := mat.NewDense(n, len(counts), nil)
	for i, l := range labels {
		xs.Set(i, 0, rng.NormFloat64())
		xs.Set(i, 1, rng.NormFloat64())
		ys.Set(i, l, 1)
	}
	d, err := dataset.New(xs, ys, dataset.WithExtra(map[string]any{"source": "test"}))
	require.NoError(t, err)
	return d
}

func requireReconstructs(t *testing.T, d *dataset.Dataset, parts []*dataset.Dataset) {
	t.Helper()
	joined, err := dataset.Concat(parts...)
	require.NoError(t, err)
	assert.True(t, d.Sorted().Equal(joined.Sorted()), "folds do not reconstruct the dataset")
	assert.NoError(t, CheckDisjoint(parts))
}

func TestStratifiedSplit(t *testing.T) {
	d := classDataset(t, []int{30, 20, 10})

	folds, err := StratifiedSplit(d, 10)
	require.NoError(t, err)
	require.Len(t, folds, 10)
	for i, f := range folds {
		assert.Equal(t, []int{3, 2, 1}, f.NInstancesPerClass(), "fold %d", i)
	}
	requireReconstructs(t, d, folds)
}

func TestStratifiedSplitRemainder(t *testing.T) {
	d := classDataset(t, []int{7, 3})

	folds, err := StratifiedSplit(d, 3)
	require.NoError(t, err)
	want := [][]int{{3, 1}, {2, 1}, {2, 1}}
	for i, f := range folds {
		assert.Equal(t, want[i], f.NInstancesPerClass(), "fold %d", i)
	}
	requireReconstructs(t, d, folds)

	// the first fold holds the first three instances of class 0, in order
	class0 := d.GetClass(0)
	head, err := class0.Index(dataset.Range(0, 3))
	require.NoError(t, err)
	assert.True(t, head.Equal(folds[0].GetClass(0)))
}

func TestStratifiedSplitSparseClass(t *testing.T) {
	var warnings []error
	errors.SetWarningHandler(func(w error) { warnings = append(warnings, w) })
	t.Cleanup(func() { errors.SetWarningHandler(func(error) {}) })

	d := classDataset(t, []int{5, 2})
	folds, err := StratifiedSplit(d, 4)
	require.NoError(t, err)
	require.Len(t, folds, 4)

	assert.Equal(t, []int{2, 1}, folds[0].NInstancesPerClass())
	assert.Equal(t, []int{1, 1}, folds[1].NInstancesPerClass())
	assert.Equal(t, []int{1, 0}, folds[2].NInstancesPerClass())
	assert.Equal(t, []int{1, 0}, folds[3].NInstancesPerClass())
	requireReconstructs(t, d, folds)

	require.Len(t, warnings, 1)
	var sparse *errors.SparseClassWarning
	require.True(t, errors.As(warnings[0], &sparse))
	assert.Equal(t, 1, sparse.Class)
	assert.Equal(t, 2, sparse.Instances)
	assert.Equal(t, 4, sparse.Folds)
}

func TestSequentialSplit(t *testing.T) {
	d := classDataset(t, []int{30, 20, 11})
	require.Equal(t, 61, d.NInstances())

	for _, k := range []int{3, 9, 10} {
		folds, err := SequentialSplit(d, k)
		require.NoError(t, err)
		require.Len(t, folds, k)

		lo, hi := 61/k, (61+k-1)/k
		for i, f := range folds {
			assert.GreaterOrEqual(t, f.NInstances(), lo, "k=%d fold %d", k, i)
			assert.LessOrEqual(t, f.NInstances(), hi, "k=%d fold %d", k, i)
			if i > 0 {
				assert.LessOrEqual(t, f.NInstances(), folds[i-1].NInstances(), "larger folds come first")
			}
		}

		// contiguous chunks concatenate back without sorting
		joined, err := dataset.Concat(folds...)
		require.NoError(t, err)
		assert.True(t, d.Equal(joined))
		assert.NoError(t, CheckDisjoint(folds))
	}
}

func TestSequentialSplitMoreFoldsThanInstances(t *testing.T) {
	d := classDataset(t, []int{1, 1})

	folds, err := SequentialSplit(d, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 1, 0}, []int{folds[0].NInstances(), folds[1].NInstances(), folds[2].NInstances()})
	assert.Equal(t, d.NFeatures(), folds[2].NFeatures())
	requireReconstructs(t, d, folds)
}

func TestSplitInvalidK(t *testing.T) {
	d := classDataset(t, []int{3, 3})

	for _, split := range []func(*dataset.Dataset, int) ([]*dataset.Dataset, error){StratifiedSplit, SequentialSplit} {
		_, err := split(d, 0)
		var valErr *errors.ValidationError
		assert.True(t, errors.As(err, &valErr), "got %v", err)
	}

	_, err := Split(d, 2, "random")
	var valErr *errors.ValidationError
	assert.True(t, errors.As(err, &valErr), "got %v", err)

	viaName, err := Split(d, 2, Sequential)
	require.NoError(t, err)
	direct, err := SequentialSplit(d, 2)
	require.NoError(t, err)
	assert.True(t, viaName[1].Equal(direct[1]))
}

func TestCrossValidationSets(t *testing.T) {
	d := classDataset(t, []int{30, 20, 10})
	folds, err := StratifiedSplit(d, 8)
	require.NoError(t, err)

	pairs, err := CrossValidationSets(folds)
	require.NoError(t, err)

	i := 0
	for train, test := range pairs {
		assert.True(t, test.Equal(folds[i]))
		assert.NoError(t, CheckDisjoint([]*dataset.Dataset{train, test}))

		union, err := train.Add(test)
		require.NoError(t, err)
		assert.True(t, d.Sorted().Equal(union.Sorted()), "pair %d", i)
		i++
	}
	assert.Equal(t, 8, i)

	// restartable, and stops early on request
	again := 0
	for range pairs {
		again++
		if again == 3 {
			break
		}
	}
	assert.Equal(t, 3, again)
}

func TestCrossValidationSetsTrainOrder(t *testing.T) {
	d := classDataset(t, []int{6})
	folds, err := SequentialSplit(d, 3)
	require.NoError(t, err)

	pairs, err := CrossValidationSets(folds)
	require.NoError(t, err)
	for train, test := range pairs {
		if test.Equal(folds[1]) {
			want, err := folds[0].Add(folds[2])
			require.NoError(t, err)
			assert.True(t, want.Equal(train))
		}
	}
}

func TestCrossValidationSetsErrors(t *testing.T) {
	_, err := CrossValidationSets(nil)
	var valueErr *errors.ValueError
	assert.True(t, errors.As(err, &valueErr))

	d := classDataset(t, []int{4, 4})
	folds, err := StratifiedSplit(d, 2)
	require.NoError(t, err)
	relabelled, err := folds[1].With(dataset.WithClassLabels([]string{"left", "right"}))
	require.NoError(t, err)

	_, err = CrossValidationSets([]*dataset.Dataset{folds[0], relabelled})
	var mismatch *errors.MismatchError
	require.True(t, errors.As(err, &mismatch), "got %v", err)
	assert.Equal(t, "cl_lab", mismatch.Field)

	single, err := CrossValidationSets(folds[:1])
	require.NoError(t, err)
	for train, test := range single {
		assert.Equal(t, 0, train.NInstances())
		assert.Equal(t, d.NFeatures(), train.NFeatures())
		assert.True(t, test.Equal(folds[0]))
	}
}

func TestCheckDisjoint(t *testing.T) {
	d := classDataset(t, []int{3, 3})
	a, err := d.Index(dataset.Range(0, 4))
	require.NoError(t, err)
	b, err := d.Index(dataset.Range(3, dataset.End))
	require.NoError(t, err)

	err = CheckDisjoint([]*dataset.Dataset{a, b})
	var integrityErr *errors.IntegrityError
	require.True(t, errors.As(err, &integrityErr), "got %v", err)
	assert.Contains(t, integrityErr.Reason, "[3]")
}

func TestCheckDisjointSignedZero(t *testing.T) {
	fold := func(id float64) *dataset.Dataset {
		d, err := dataset.New(mat.NewDense(1, 1, []float64{1}), mat.NewDense(1, 1, []float64{1}),
			dataset.WithIDs(mat.NewDense(1, 1, []float64{id})))
		require.NoError(t, err)
		return d
	}
	a, b := fold(0), fold(math.Copysign(0, -1))
	require.True(t, a.Equal(b))

	err := CheckDisjoint([]*dataset.Dataset{a, b})
	var integrityErr *errors.IntegrityError
	require.True(t, errors.As(err, &integrityErr), "got %v", err)
	assert.Contains(t, integrityErr.Reason, "[0]")
}

func TestSplitLogging(t *testing.T) {
	prev := log.GetLogger()
	logger, _ := log.NewTestLogger(log.LevelDebug)
	log.SetLogger(logger)
	t.Cleanup(func() { log.SetLogger(prev) })

	d := classDataset(t, []int{6, 4})
	_, err := StratifiedSplit(d, 2)
	require.NoError(t, err)
	records := logger.Records("stratified split")
	require.Len(t, records, 1)
	assert.Equal(t, "DEBUG", records[0]["level"])
	assert.Equal(t, log.OperationStratifiedSplit, records[0][log.OperationKey])
	assert.Equal(t, 10.0, records[0][log.SamplesKey])
	assert.Equal(t, 2.0, records[0][log.FoldsKey])
	assert.Equal(t, []interface{}{6.0, 4.0}, records[0][log.ClassCountsKey])

	logger.Clear()
	_, err = SequentialSplit(d, 3)
	require.NoError(t, err)
	assert.True(t, logger.ContainsMessage("sequential split"))
	assert.False(t, logger.ContainsMessage("stratified split"))
	assert.True(t, logger.ContainsField(log.OperationKey, log.OperationSequentialSplit))
	assert.True(t, logger.ContainsField(log.FoldsKey, 3.0))
}

// countingNode records the training size in its output.
type countingNode struct {
	model.BaseNode
}

func (n *countingNode) Train(d *dataset.Dataset) error {
	n.SetTrained(d)
	return nil
}

func (n *countingNode) Apply(d *dataset.Dataset) (*dataset.Dataset, error) {
	if err := n.RequireTrained("countingNode", d); err != nil {
		return nil, err
	}
	return d.With(dataset.WithExtra(map[string]any{"source": "test", "trained_on": n.NInstances}))
}

func TestCrossValidate(t *testing.T) {
	d := classDataset(t, []int{30, 20, 10})
	folds, err := StratifiedSplit(d, 10)
	require.NoError(t, err)

	outs, err := CrossValidate(folds, func() model.Node { return &countingNode{} })
	require.NoError(t, err)
	require.Len(t, outs, 10)
	for i, out := range outs {
		assert.Equal(t, folds[i].NInstances(), out.NInstances())
		assert.Equal(t, 54, out.Extra()["trained_on"])
	}
}

type panickyNode struct{ countingNode }

func (n *panickyNode) Apply(*dataset.Dataset) (*dataset.Dataset, error) {
	panic("boom")
}

func TestCrossValidatePanics(t *testing.T) {
	d := classDataset(t, []int{4, 4})
	folds, err := StratifiedSplit(d, 2)
	require.NoError(t, err)

	_, err = CrossValidate(folds, func() model.Node { return &panickyNode{} })
	var panicErr *errors.PanicError
	require.True(t, errors.As(err, &panicErr), "got %v", err)
	assert.Equal(t, "fold 0", panicErr.Operation)
}

func TestShuffle(t *testing.T) {
	d := classDataset(t, []int{10, 10})

	a, b := Shuffle(d, 5), Shuffle(d, 5)
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(d))
	assert.True(t, a.Sorted().Equal(d))
	assert.Equal(t, d.NInstancesPerClass(), a.NInstancesPerClass())
}
