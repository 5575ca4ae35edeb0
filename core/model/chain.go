package model

import (
	"fmt"

	"github.com/wmvanvliet/golem/core/dataset"
	"github.com/wmvanvliet/golem/pkg/errors"
	"github.com/wmvanvliet/golem/pkg/log"
)

// Chain はノードを直列につないだノード
//
// Train では各ノードを前段の出力で順に学習させ、Apply では順に適用する。
type Chain struct {
	Nodes []Node
}

// NewChain は新しいChainを作成する
func NewChain(nodes ...Node) *Chain {
	return &Chain{Nodes: nodes}
}

// Train は各ノードを順に学習させる
// 最後のノードの出力は使わないため、最後のノードには Apply を呼ばない。
func (c *Chain) Train(d *dataset.Dataset) error {
	if len(c.Nodes) == 0 {
		return errors.NewValueError("Chain.Train", "no nodes")
	}
	logger := log.GetLogger().With(log.OperationKey, log.OperationTrain, log.PhaseKey, log.PhaseTraining)
	for i, n := range c.Nodes {
		if err := n.Train(d); err != nil {
			return errors.Wrapf(err, "chain node %d", i)
		}
		logger.Debug("chain node trained",
			log.ModelNameKey, nodeName(n),
			log.SamplesKey, d.NInstances(),
			log.FeaturesKey, d.NFeatures(),
		)
		if i == len(c.Nodes)-1 {
			break
		}
		var err error
		if d, err = n.Apply(d); err != nil {
			return errors.Wrapf(err, "chain node %d", i)
		}
	}
	return nil
}

// Apply は各ノードを順に適用する
func (c *Chain) Apply(d *dataset.Dataset) (*dataset.Dataset, error) {
	logger := log.GetLogger().With(log.OperationKey, log.OperationApply)
	for i, n := range c.Nodes {
		var err error
		if d, err = n.Apply(d); err != nil {
			return nil, errors.Wrapf(err, "chain node %d", i)
		}
		logger.Debug("chain node applied",
			log.ModelNameKey, nodeName(n),
			log.SamplesKey, d.NInstances(),
			log.ClassesKey, d.NClasses(),
		)
	}
	return d, nil
}

// nodeName は fmt.Stringer を実装していればその表現を、なければ型名を返す
func nodeName(n Node) string {
	if s, ok := n.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", n)
}
