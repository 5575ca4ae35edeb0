// Package model defines the contract between datasets and the nodes that
// consume them.
package model

import "github.com/wmvanvliet/golem/core/dataset"

// Trainer は学習可能なノードのインターフェース
type Trainer interface {
	// Train はノードを訓練データセットで学習させる
	Train(d *dataset.Dataset) error
}

// Applier はデータセットを変換できるノードのインターフェース
type Applier interface {
	// Apply は入力データセットから新しいデータセットを作る
	Apply(d *dataset.Dataset) (*dataset.Dataset, error)
}

// Node は学習と適用の両方を行う処理単位
type Node interface {
	Trainer
	Applier
}

// ParamExporter はパラメータを書き出せるノードのインターフェース
type ParamExporter interface {
	ExportParams() (*NodeParams, error)
	ImportParams(p *NodeParams) error
}

// TrainApply は n を d で学習させ、同じ d に適用する
func TrainApply(n Node, d *dataset.Dataset) (*dataset.Dataset, error) {
	if err := n.Train(d); err != nil {
		return nil, err
	}
	return n.Apply(d)
}
