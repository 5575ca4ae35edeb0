// Package cv partitions datasets into folds and generates cross-validation
// train/test pairs from them.
package cv

import (
	"math/rand/v2"

	"github.com/samber/lo"

	"github.com/wmvanvliet/golem/core/dataset"
	"github.com/wmvanvliet/golem/pkg/errors"
	"github.com/wmvanvliet/golem/pkg/log"
)

// Strategy names a partitioning function.
type Strategy string

const (
	Stratified Strategy = "stratified"
	Sequential Strategy = "sequential"
)

// Split dispatches to StratifiedSplit or SequentialSplit.
func Split(d *dataset.Dataset, k int, strategy Strategy) ([]*dataset.Dataset, error) {
	switch strategy {
	case Stratified:
		return StratifiedSplit(d, k)
	case Sequential:
		return SequentialSplit(d, k)
	default:
		return nil, errors.NewValidationError("strategy", "must be stratified or sequential", string(strategy))
	}
}

// chunk returns the bounds of the i-th of k contiguous groups over n items.
// Group sizes are floor(n/k) or ceil(n/k); the larger groups come first.
func chunk(n, k, i int) (start, end int) {
	base, rem := n/k, n%k
	start = i*base + min(i, rem)
	end = start + base
	if i < rem {
		end++
	}
	return start, end
}

func checkFolds(k int) error {
	if k < 1 {
		return errors.NewValidationError("k", "number of folds must be at least 1", k)
	}
	return nil
}

// StratifiedSplit divides d into k folds that preserve the class
// proportions. Each class's instances, in their original order, are cut
// into k contiguous groups of floor(n/k) or ceil(n/k) instances with the
// larger groups first; fold i holds the i-th group of every class, classes
// in ascending order.
//
// A class with fewer than k instances leaves some folds without it. This
// is allowed and reported through errors.Warn as a SparseClassWarning.
func StratifiedSplit(d *dataset.Dataset, k int) ([]*dataset.Dataset, error) {
	if err := checkFolds(k); err != nil {
		return nil, err
	}

	byClass := make([][]int, d.NClasses())
	for i, l := range d.Labels() {
		byClass[l] = append(byClass[l], i)
	}

	foldIdx := make([][]int, k)
	for c, members := range byClass {
		n := len(members)
		if n > 0 && n < k {
			errors.Warn(errors.NewSparseClassWarning(c, n, k))
		}
		for i := range foldIdx {
			start, end := chunk(n, k, i)
			foldIdx[i] = append(foldIdx[i], members[start:end]...)
		}
	}

	log.GetLogger().Debug("stratified split",
		log.OperationKey, log.OperationStratifiedSplit,
		log.SamplesKey, d.NInstances(),
		log.FoldsKey, k,
		log.ClassCountsKey, lo.Map(byClass, func(m []int, _ int) int { return len(m) }),
	)
	return takeFolds(d, foldIdx)
}

// SequentialSplit divides d into k contiguous folds of floor(n/k) or
// ceil(n/k) instances, larger folds first, ignoring the class labels.
func SequentialSplit(d *dataset.Dataset, k int) ([]*dataset.Dataset, error) {
	if err := checkFolds(k); err != nil {
		return nil, err
	}

	n := d.NInstances()
	foldIdx := make([][]int, k)
	for i := range foldIdx {
		start, end := chunk(n, k, i)
		foldIdx[i] = lo.RangeFrom(start, end-start)
	}

	log.GetLogger().Debug("sequential split",
		log.OperationKey, log.OperationSequentialSplit,
		log.SamplesKey, n,
		log.FoldsKey, k,
	)
	return takeFolds(d, foldIdx)
}

func takeFolds(d *dataset.Dataset, foldIdx [][]int) ([]*dataset.Dataset, error) {
	folds := make([]*dataset.Dataset, len(foldIdx))
	for i, idx := range foldIdx {
		fold, err := d.Index(dataset.Indices(idx))
		if err != nil {
			return nil, errors.Wrapf(err, "building fold %d", i)
		}
		folds[i] = fold
	}
	return folds, nil
}

// Shuffle returns d with its instances in a random order drawn from seed.
// Splitting a shuffled dataset sequentially gives random folds.
func Shuffle(d *dataset.Dataset, seed uint64) *dataset.Dataset {
	r := rand.New(rand.NewPCG(seed, seed))
	perm := r.Perm(d.NInstances())
	// Indices never fails for a permutation of the instance positions
	return lo.Must(d.Index(dataset.Indices(perm)))
}
