package cv

import (
	"fmt"
	"iter"
	"slices"
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/mat"

	"github.com/wmvanvliet/golem/core/dataset"
	"github.com/wmvanvliet/golem/pkg/errors"
)

// CrossValidationSets returns the k (train, test) pairs of folds: pair i
// tests on folds[i] and trains on the other folds concatenated in
// ascending order. All folds must be compatible for concatenation; this is
// checked before the sequence is returned. The sequence is lazy and can be
// ranged over any number of times.
func CrossValidationSets(folds []*dataset.Dataset) (iter.Seq2[*dataset.Dataset, *dataset.Dataset], error) {
	if len(folds) == 0 {
		return nil, errors.NewValueError("CrossValidationSets", "no folds given")
	}
	for _, f := range folds[1:] {
		if err := dataset.CheckCompatible("CrossValidationSets", folds[0], f); err != nil {
			return nil, err
		}
	}
	folds = slices.Clone(folds)

	return func(yield func(*dataset.Dataset, *dataset.Dataset) bool) {
		for i, test := range folds {
			if !yield(trainSet(folds, i), test) {
				return
			}
		}
	}, nil
}

func trainSet(folds []*dataset.Dataset, test int) *dataset.Dataset {
	parts := make([]*dataset.Dataset, 0, len(folds)-1)
	for j, f := range folds {
		if j != test {
			parts = append(parts, f)
		}
	}
	if len(parts) == 0 {
		// a single fold trains on nothing
		return lo.Must(folds[test].Index(dataset.Range(0, 0)))
	}
	// compatibility was checked when the sequence was created
	return lo.Must(dataset.Concat(parts...))
}

// CheckDisjoint fails with an *errors.IntegrityError when an id row occurs
// in more than one fold.
func CheckDisjoint(folds []*dataset.Dataset) error {
	sets := make([]mapset.Set[string], len(folds))
	for i, f := range folds {
		sets[i] = idSet(f)
	}
	for i := range sets {
		for j := i + 1; j < len(sets); j++ {
			shared := sets[i].Intersect(sets[j])
			if shared.Cardinality() == 0 {
				continue
			}
			ids := shared.ToSlice()
			slices.Sort(ids)
			return errors.NewIntegrityError("CheckDisjoint",
				fmt.Sprintf("folds %d and %d share %d ids (first: [%s])", i, j, len(ids), ids[0]))
		}
	}
	return nil
}

func idSet(d *dataset.Dataset) mapset.Set[string] {
	set := mapset.NewThreadUnsafeSet[string]()
	ids := d.IDs()
	for i := 0; i < d.NInstances(); i++ {
		set.Add(idKey(mat.Row(nil, i, ids)))
	}
	return set
}

func idKey(row []float64) string {
	parts := make([]string, len(row))
	for i, v := range row {
		if v == 0 {
			v = 0 // -0
		}
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, " ")
}
