// Package linear provides a least-squares regression node that maps the
// features of a dataset onto its one-of-N labels.
package linear

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/wmvanvliet/golem/core/dataset"
	"github.com/wmvanvliet/golem/core/model"
	"github.com/wmvanvliet/golem/core/parallel"
	"github.com/wmvanvliet/golem/pkg/errors"
)

// LSReg は最小二乗法による線形回帰ノード
//
// ys の各列（クラス）を xs の線形結合で回帰する。Apply の出力は xs が
// クラスごとのスコアに置き換わったデータセットで、argmax を取れば分類になる。
type LSReg struct {
	model.BaseNode

	// Weights は nfeatures × nclasses の重み行列
	Weights *mat.Dense

	// Intercept はクラスごとの切片
	Intercept []float64

	// FitIntercept が false の場合は切片を0に固定する
	FitIntercept bool

	// Ridge は正則化係数（0で通常の最小二乗法）
	Ridge float64
}

// NewLSReg は新しいLSRegを作成する
//
// 使用例:
//
//	n := linear.NewLSReg(linear.WithRidge(1e-3))
//	err := n.Train(train)
//	scores, err := n.Apply(test)
func NewLSReg(opts ...Option) *LSReg {
	lr := &LSReg{FitIntercept: true}
	for _, opt := range opts {
		opt(lr)
	}
	return lr
}

// Train はノードを訓練データセットで学習させる
// 正規方程式 W = (X^T * X + λI)^(-1) * X^T * Y を使用
func (lr *LSReg) Train(d *dataset.Dataset) error {
	r, c := d.NInstances(), d.NFeatures()
	if r == 0 || c == 0 {
		return errors.NewModelError("LSReg.Train", "empty data", errors.ErrEmptyData)
	}
	if lr.Ridge < 0 {
		return errors.NewValidationError("ridge", "must be non-negative", lr.Ridge)
	}

	// 切片項のために X に 1 の列を追加
	off := 0
	if lr.FitIntercept {
		off = 1
	}
	xs := d.Xs()
	aug := mat.NewDense(r, c+off, nil)

	// データサイズに応じて並列化
	parallel.ForRows(r, parallel.DefaultRowThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			if off == 1 {
				aug.Set(i, 0, 1.0)
			}
			for j := 0; j < c; j++ {
				aug.Set(i, j+off, xs.At(i, j))
			}
		}
	})

	var xtx mat.Dense
	xtx.Mul(aug.T(), aug)
	for j := off; j < c+off; j++ {
		xtx.Set(j, j, xtx.At(j, j)+lr.Ridge)
	}

	// 逆行列を計算
	var inv mat.Dense
	if err := inv.Inverse(&xtx); err != nil {
		return errors.NewModelError("LSReg.Train", "singular matrix", errors.ErrSingularMatrix)
	}

	var xty mat.Dense
	xty.Mul(aug.T(), d.Ys())

	var w mat.Dense
	w.Mul(&inv, &xty)

	// 切片と重みを分離
	k := d.NClasses()
	lr.Intercept = make([]float64, k)
	if off == 1 {
		mat.Row(lr.Intercept, 0, &w)
	}
	lr.Weights = mat.DenseCopyOf(w.Slice(off, c+off, 0, k))

	lr.SetTrained(d)
	return nil
}

// Apply は xs をクラスごとのスコアに置き換えたデータセットを返す
// 特徴量ラベルはクラスラベルになり、feat_shape は [nclasses] になる。
func (lr *LSReg) Apply(d *dataset.Dataset) (*dataset.Dataset, error) {
	if err := lr.RequireTrained("LSReg", d); err != nil {
		return nil, err
	}
	_, k := lr.Weights.Dims()
	if d.NClasses() != k {
		return nil, errors.NewDimensionError("LSReg.Apply", k, d.NClasses(), 1)
	}

	opts := []dataset.Option{
		dataset.WithFeatureLabels(d.ClassLabels()),
		dataset.WithFeatureShape([]int{k}),
	}
	if d.NInstances() == 0 {
		return d.With(append(opts, dataset.WithXs(dataset.EmptyMatrix(k)))...)
	}

	// 予測: Y = X * W + b
	var scores mat.Dense
	scores.Mul(d.Xs(), lr.Weights)
	scores.Apply(func(_, j int, v float64) float64 {
		return v + lr.Intercept[j]
	}, &scores)
	return d.With(append(opts, dataset.WithXs(&scores))...)
}

// String はノードの文字列表現を返す
func (lr *LSReg) String() string {
	if !lr.IsTrained() {
		return "LSReg(untrained)"
	}
	_, k := lr.Weights.Dims()
	return fmt.Sprintf("LSReg(n_features=%d, n_classes=%d, ridge=%g)", lr.NFeatures, k, lr.Ridge)
}
