// Package metrics evaluates the output of classification nodes: ROC curves,
// AUC with its confidence bound, confusion matrices and the information
// transferred by a classifier.
package metrics

import (
	"math"
	"sort"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/mat"

	"github.com/wmvanvliet/golem/core/dataset"
	"github.com/wmvanvliet/golem/pkg/errors"
)

// ROC は ROC 曲線の (TPR, FPR) 点列を計算する
//
// labels は2クラスでなければならず、1 が陽性クラス。閾値をスコアの上から
// 下へ動かし、同じスコアの点はひとつにまとめる。先頭には (0, 0) が入る。
func ROC(scores []float64, labels []int) (tps, fps []float64, err error) {
	// 入力検証
	n := len(scores)
	if n == 0 {
		return nil, nil, errors.NewValueError("ROC", "empty input")
	}
	if len(labels) != n {
		return nil, nil, errors.NewDimensionError("ROC", n, len(labels), 0)
	}
	if len(lo.Uniq(labels)) != 2 || !lo.Contains(labels, 1) {
		return nil, nil, errors.NewValueError("ROC", "labels must contain exactly two classes, one of them 1")
	}

	// スコアの降順に並べる
	order := lo.Range(n)
	sort.SliceStable(order, func(a, b int) bool { return scores[order[a]] > scores[order[b]] })

	npos := float64(lo.Count(labels, 1))
	nneg := float64(n) - npos

	tps, fps = []float64{0}, []float64{0}
	var tp, fp float64
	for k, i := range order {
		if labels[i] == 1 {
			tp++
		} else {
			fp++
		}
		// 同じスコアが続く間は点を追加しない
		if k+1 < n && scores[order[k+1]] == scores[i] {
			continue
		}
		tps = append(tps, tp/npos)
		fps = append(fps, fp/nneg)
	}
	return tps, fps, nil
}

// AUC は ROC 曲線下の面積を台形公式で計算する
func AUC(scores []float64, labels []int) (float64, error) {
	tps, fps, err := ROC(scores, labels)
	if err != nil {
		return 0, err
	}
	return integrate.Trapezoidal(fps, tps), nil
}

// AUCConfidence は AUC の信頼区間の幅 ε を返す
//
//	ε = sqrt(log(2/δ) / (2ρ(1-ρ)N))
//
// n はインスタンス数、rho は陽性の割合、delta は有意水準。
// Agarwal et al., "A large deviation bound for the area under the ROC
// curve", NIPS 17, 2005.
func AUCConfidence(n int, rho, delta float64) (float64, error) {
	if n <= 0 {
		return 0, errors.NewValidationError("n", "must be positive", n)
	}
	if rho <= 0 || rho >= 1 {
		return 0, errors.NewValidationError("rho", "must be in (0, 1)", rho)
	}
	if delta <= 0 || delta >= 1 {
		return 0, errors.NewValidationError("delta", "must be in (0, 1)", delta)
	}
	return math.Sqrt(math.Log(2/delta) / (2 * rho * (1 - rho) * float64(n))), nil
}

// ConfusionMatrix は混同行列を計算する
// 行が真のクラス、列が予測クラス。
func ConfusionMatrix(trueLabels, predLabels []int, nclasses int) (*mat.Dense, error) {
	n := len(trueLabels)
	if n == 0 || nclasses <= 0 {
		return nil, errors.NewValueError("ConfusionMatrix", "empty input")
	}
	if len(predLabels) != n {
		return nil, errors.NewDimensionError("ConfusionMatrix", n, len(predLabels), 0)
	}

	cm := mat.NewDense(nclasses, nclasses, nil)
	for i := range trueLabels {
		t, p := trueLabels[i], predLabels[i]
		if t < 0 || t >= nclasses {
			return nil, errors.NewIndexError("ConfusionMatrix", t, nclasses)
		}
		if p < 0 || p >= nclasses {
			return nil, errors.NewIndexError("ConfusionMatrix", p, nclasses)
		}
		cm.Set(t, p, cm.At(t, p)+1)
	}
	return cm, nil
}

// DatasetConfusionMatrix は分類ノードの出力データセットから混同行列を計算する
//
// xs の各行の argmax を予測、ys のラベルを正解とみなす。xs の列数は
// クラス数と一致していなければならない。
func DatasetConfusionMatrix(d *dataset.Dataset) (*mat.Dense, error) {
	if d.NFeatures() != d.NClasses() {
		return nil, errors.NewDimensionError("DatasetConfusionMatrix", d.NClasses(), d.NFeatures(), 1)
	}
	if d.NInstances() == 0 {
		return nil, errors.NewValueError("DatasetConfusionMatrix", "empty dataset")
	}

	xs := d.Xs()
	pred := make([]int, d.NInstances())
	row := make([]float64, d.NFeatures())
	for i := range pred {
		mat.Row(row, i, xs)
		pred[i] = floats.MaxIdx(row)
	}
	return ConfusionMatrix(d.Labels(), pred, d.NClasses())
}

// Accuracy は混同行列から正解率を計算する
func Accuracy(confMat mat.Matrix) (float64, error) {
	r, c := confMat.Dims()
	if r != c {
		return 0, errors.NewDimensionError("Accuracy", r, c, 1)
	}
	total := mat.Sum(confMat)
	if total == 0 {
		return 0, errors.NewValueError("Accuracy", "empty confusion matrix")
	}
	return mat.Trace(confMat) / total, nil
}

// MutualInformation は混同行列から相互情報量（ビット）を計算する
//
// regularize が true の場合、P(x, y) = 0 によるエラーを避けるため
// 各セルに 1e-10 を加える。
func MutualInformation(confMat mat.Matrix, regularize bool) (float64, error) {
	r, c := confMat.Dims()
	pxy := mat.DenseCopyOf(confMat)
	if regularize {
		pxy.Apply(func(_, _ int, v float64) float64 { return v + 1e-10 }, pxy)
	}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if pxy.At(i, j) <= 0 {
				return 0, errors.NewValueError("MutualInformation", "cannot handle joint probabilities <= 0")
			}
		}
	}
	pxy.Scale(1/mat.Sum(pxy), pxy)

	// 周辺確率
	pxs := make([]float64, r)
	pys := make([]float64, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			pxs[i] += pxy.At(i, j)
			pys[j] += pxy.At(i, j)
		}
	}

	var bits float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			p := pxy.At(i, j)
			bits += p * math.Log2(p/(pxs[i]*pys[j]))
		}
	}
	return bits, nil
}
