package preprocessing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/wmvanvliet/golem/core/dataset"
	"github.com/wmvanvliet/golem/core/model"
	"github.com/wmvanvliet/golem/pkg/errors"
)

// ZScore は特徴量を平均0、標準偏差1に標準化するノード
type ZScore struct {
	model.BaseNode

	// Mean は各特徴量の平均値
	Mean []float64

	// Std は各特徴量の標準偏差（母標準偏差）
	Std []float64

	// Features は学習時の特徴量ラベル（ない場合はnil）
	Features []string
}

// NewZScore は新しいZScoreを作成する
//
// 使用例:
//
//	z := preprocessing.NewZScore()
//	err := z.Train(train)
//	scaled, err := z.Apply(test)
func NewZScore() *ZScore {
	return &ZScore{}
}

// Train は訓練データセットから平均と標準偏差を計算する
func (z *ZScore) Train(d *dataset.Dataset) error {
	if d.NInstances() == 0 || d.NFeatures() == 0 {
		return errors.NewModelError("ZScore.Train", "empty data", errors.ErrEmptyData)
	}

	c := d.NFeatures()
	z.Mean = make([]float64, c)
	z.Std = make([]float64, c)
	col := make([]float64, d.NInstances())
	for j := 0; j < c; j++ {
		mat.Col(col, j, d.Xs())
		z.Mean[j], z.Std[j] = stat.PopMeanStdDev(col, nil)

		// 標準偏差が0に近い場合は1に設定（ゼロ除算を避ける）
		if math.Abs(z.Std[j]) < 1e-8 {
			z.Std[j] = 1.0
		}
	}
	z.Features = d.FeatureLabels()
	z.SetTrained(d)
	return nil
}

// Apply は学習済みの統計情報を使ってデータセットを標準化する
// 特徴量以外のフィールドはそのまま引き継がれる。
func (z *ZScore) Apply(d *dataset.Dataset) (*dataset.Dataset, error) {
	if err := z.RequireTrained("ZScore", d); err != nil {
		return nil, err
	}
	if d.NInstances() == 0 {
		return d, nil
	}

	var xs mat.Dense
	xs.Apply(func(_, j int, v float64) float64 {
		return (v - z.Mean[j]) / z.Std[j]
	}, d.Xs())
	return d.With(dataset.WithXs(&xs))
}

// Inverse は標準化されたデータセットを元のスケールに戻す
func (z *ZScore) Inverse(d *dataset.Dataset) (*dataset.Dataset, error) {
	if err := z.RequireTrained("ZScore", d); err != nil {
		return nil, err
	}
	if d.NInstances() == 0 {
		return d, nil
	}

	var xs mat.Dense
	xs.Apply(func(_, j int, v float64) float64 {
		return v*z.Std[j] + z.Mean[j]
	}, d.Xs())
	return d.With(dataset.WithXs(&xs))
}

// ExportParams は学習済みパラメータを NodeParams として書き出す
func (z *ZScore) ExportParams() (*model.NodeParams, error) {
	if !z.IsTrained() {
		return nil, errors.NewNotFittedError("ZScore", "ExportParams")
	}
	p := &model.NodeParams{
		NodeType: "ZScore",
		Version:  model.ParamsVersion,
		Features: z.Features,
		Vectors:  map[string][]float64{"mean": z.Mean, "std": z.Std},
		Trained:  true,
	}
	return p.Clone(), nil
}

// ImportParams は NodeParams から学習済み状態を復元する
func (z *ZScore) ImportParams(p *model.NodeParams) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.NodeType != "ZScore" {
		return errors.NewValidationError("node_type", "expected ZScore", p.NodeType)
	}
	if !p.Trained {
		z.Reset()
		return nil
	}
	p = p.Clone()
	z.Mean, z.Std, z.Features = p.Vectors["mean"], p.Vectors["std"], p.Features
	if len(z.Mean) == 0 || len(z.Std) != len(z.Mean) {
		return errors.NewValidationError("vectors", "ZScore needs mean and std", len(p.Vectors))
	}
	z.State = model.Trained
	z.NFeatures = len(z.Mean)
	return nil
}

// String はノードの文字列表現を返す
func (z *ZScore) String() string {
	if !z.IsTrained() {
		return "ZScore(untrained)"
	}
	return fmt.Sprintf("ZScore(n_features=%d)", z.NFeatures)
}

// MinMax は特徴量を指定した範囲（デフォルト[0,1]）にスケーリングするノード
type MinMax struct {
	model.BaseNode

	// Min, Max は各特徴量の学習時の最小値・最大値
	Min []float64
	Max []float64

	// Range はスケーリング後の範囲 [min, max]
	Range [2]float64
}

// NewMinMax は新しいMinMaxを作成する
func NewMinMax(featureRange [2]float64) *MinMax {
	return &MinMax{Range: featureRange}
}

// NewMinMaxDefault はデフォルト設定([0,1]範囲)でMinMaxを作成する
func NewMinMaxDefault() *MinMax {
	return NewMinMax([2]float64{0, 1})
}

// Train は訓練データセットから最小値・最大値を計算する
func (m *MinMax) Train(d *dataset.Dataset) error {
	if d.NInstances() == 0 || d.NFeatures() == 0 {
		return errors.NewModelError("MinMax.Train", "empty data", errors.ErrEmptyData)
	}
	if m.Range[0] >= m.Range[1] {
		return errors.NewValidationError("feature_range", "min must be smaller than max", m.Range)
	}

	c := d.NFeatures()
	m.Min = make([]float64, c)
	m.Max = make([]float64, c)
	col := make([]float64, d.NInstances())
	for j := 0; j < c; j++ {
		mat.Col(col, j, d.Xs())
		m.Min[j], m.Max[j] = col[0], col[0]
		for _, v := range col[1:] {
			m.Min[j] = math.Min(m.Min[j], v)
			m.Max[j] = math.Max(m.Max[j], v)
		}
	}
	m.SetTrained(d)
	return nil
}

// Apply は学習済みの範囲を使ってデータセットをスケーリングする
func (m *MinMax) Apply(d *dataset.Dataset) (*dataset.Dataset, error) {
	if err := m.RequireTrained("MinMax", d); err != nil {
		return nil, err
	}
	if d.NInstances() == 0 {
		return d, nil
	}

	var xs mat.Dense
	xs.Apply(func(_, j int, v float64) float64 {
		span := m.Max[j] - m.Min[j]
		if span == 0 {
			// 定数の特徴量は範囲の下限に写す
			return m.Range[0]
		}
		return (v-m.Min[j])/span*(m.Range[1]-m.Range[0]) + m.Range[0]
	}, d.Xs())
	return d.With(dataset.WithXs(&xs))
}
