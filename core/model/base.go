package model

import (
	"github.com/wmvanvliet/golem/core/dataset"
	"github.com/wmvanvliet/golem/pkg/errors"
)

// NodeState はノードの学習状態を表す
type NodeState int

const (
	// Untrained はノードが未学習の状態
	Untrained NodeState = iota
	// Trained はノードが学習済みの状態
	Trained
)

// BaseNode は全てのノードに埋め込む基底構造体
//
// フィールドは gob でエンコードできるよう公開されている。
type BaseNode struct {
	State      NodeState
	NFeatures  int
	NInstances int
}

// IsTrained はノードが学習済みかどうかを返す
func (b *BaseNode) IsTrained() bool {
	return b.State == Trained
}

// SetTrained は学習に使ったデータセットの形状を記録し、学習済み状態に設定する
func (b *BaseNode) SetTrained(d *dataset.Dataset) {
	b.State = Trained
	b.NFeatures = d.NFeatures()
	b.NInstances = d.NInstances()
}

// Reset はノードを初期状態にリセットする
func (b *BaseNode) Reset() {
	*b = BaseNode{}
}

// RequireTrained は未学習なら NotFittedError を、特徴量数が学習時と異なれば
// DimensionError を返す
func (b *BaseNode) RequireTrained(name string, d *dataset.Dataset) error {
	if !b.IsTrained() {
		return errors.NewNotFittedError(name, "Apply")
	}
	if d.NFeatures() != b.NFeatures {
		return errors.NewDimensionError(name+".Apply", b.NFeatures, d.NFeatures(), 1)
	}
	return nil
}
