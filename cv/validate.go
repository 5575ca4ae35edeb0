package cv

import (
	"fmt"
	"time"

	"github.com/wmvanvliet/golem/core/dataset"
	"github.com/wmvanvliet/golem/core/model"
	"github.com/wmvanvliet/golem/pkg/errors"
	"github.com/wmvanvliet/golem/pkg/log"
)

// CrossValidate trains a fresh node from newNode on the training part of
// every cross-validation pair and applies it to the test part. It returns
// the applied test folds in fold order. A panic inside a node is returned as
// an *errors.PanicError naming the fold.
func CrossValidate(folds []*dataset.Dataset, newNode func() model.Node) ([]*dataset.Dataset, error) {
	pairs, err := CrossValidationSets(folds)
	if err != nil {
		return nil, err
	}

	logger := log.GetLogger().With(log.OperationKey, log.OperationCrossValidate)
	results := make([]*dataset.Dataset, 0, len(folds))
	fold := 0
	for train, test := range pairs {
		start := time.Now()
		var out *dataset.Dataset
		err := errors.SafeExecute(fmt.Sprintf("fold %d", fold), func() error {
			node := newNode()
			if err := node.Train(train); err != nil {
				return err
			}
			var err error
			out, err = node.Apply(test)
			return err
		})
		if err != nil {
			return nil, errors.Wrapf(err, "cross-validation fold %d", fold)
		}

		logger.Debug("fold done",
			log.FoldKey, fold,
			log.TrainSamplesKey, train.NInstances(),
			log.TestSamplesKey, test.NInstances(),
			log.DurationMsKey, time.Since(start).Milliseconds(),
		)
		results = append(results, out)
		fold++
	}
	return results, nil
}
