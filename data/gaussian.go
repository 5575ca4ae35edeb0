// Package data generates artificial datasets for experiments and tests.
package data

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"

	"github.com/wmvanvliet/golem/core/dataset"
	"github.com/wmvanvliet/golem/pkg/errors"
)

// DefaultMeans are the class means of GaussianDataset, cycled when there are
// more classes than entries.
var DefaultMeans = [][]float64{{0, 0}, {2, 1}, {5, 6}}

// DefaultCovariances are the class covariance matrices of GaussianDataset,
// cycled like DefaultMeans.
var DefaultCovariances = [][][]float64{
	{{1, 2}, {2, 5}},
	{{1, 2}, {2, 5}},
	{{1, -1}, {-1, 2}},
}

type gaussianConfig struct {
	seed  uint64
	means [][]float64
	covs  [][][]float64
}

// GaussianOption configures GaussianDataset.
type GaussianOption func(*gaussianConfig)

// WithSeed fixes the random source.
func WithSeed(seed uint64) GaussianOption {
	return func(c *gaussianConfig) { c.seed = seed }
}

// WithMeans replaces the class means. All means must have the same length.
func WithMeans(means [][]float64) GaussianOption {
	return func(c *gaussianConfig) { c.means = means }
}

// WithCovariances replaces the class covariance matrices.
func WithCovariances(covs [][][]float64) GaussianOption {
	return func(c *gaussianConfig) { c.covs = covs }
}

// GaussianDataset draws classCounts[i] instances of class i from a
// multivariate normal distribution. Rows are grouped by class, ys is
// one-of-N and the class labels are class0, class1, ...
func GaussianDataset(classCounts []int, opts ...GaussianOption) (*dataset.Dataset, error) {
	cfg := gaussianConfig{seed: 1, means: DefaultMeans, covs: DefaultCovariances}
	for _, opt := range opts {
		opt(&cfg)
	}
	if len(cfg.means) == 0 || len(cfg.covs) == 0 {
		return nil, errors.NewValueError("GaussianDataset", "at least one mean and covariance are required")
	}
	nfeatures := len(cfg.means[0])

	total := 0
	for c, n := range classCounts {
		if n < 0 {
			return nil, errors.NewValidationError(fmt.Sprintf("class_counts[%d]", c), "must be non-negative", n)
		}
		total += n
	}

	src := rand.NewPCG(cfg.seed, cfg.seed^0x9e3779b97f4a7c15)
	xs := mat.NewDense(max(total, 1), max(nfeatures, 1), nil)
	ys := mat.NewDense(max(total, 1), max(len(classCounts), 1), nil)

	row := 0
	for c, n := range classCounts {
		mu := cfg.means[c%len(cfg.means)]
		if len(mu) != nfeatures {
			return nil, errors.NewDimensionError("GaussianDataset", nfeatures, len(mu), 1)
		}
		sigma, err := symmetric(cfg.covs[c%len(cfg.covs)], nfeatures)
		if err != nil {
			return nil, err
		}
		dist, ok := distmv.NewNormal(mu, sigma, src)
		if !ok {
			return nil, errors.NewValidationError(fmt.Sprintf("covariances[%d]", c%len(cfg.covs)),
				"must be positive definite", cfg.covs[c%len(cfg.covs)])
		}
		sample := make([]float64, nfeatures)
		for i := 0; i < n; i++ {
			dist.Rand(sample)
			xs.SetRow(row, sample)
			ys.Set(row, c, 1)
			row++
		}
	}

	if total == 0 {
		return dataset.New(dataset.EmptyMatrix(nfeatures), dataset.EmptyMatrix(len(classCounts)))
	}
	return dataset.New(xs, ys)
}

func symmetric(rows [][]float64, n int) (*mat.SymDense, error) {
	if len(rows) != n {
		return nil, errors.NewDimensionError("GaussianDataset", n, len(rows), 0)
	}
	data := make([]float64, 0, n*n)
	for _, r := range rows {
		if len(r) != n {
			return nil, errors.NewDimensionError("GaussianDataset", n, len(r), 1)
		}
		data = append(data, r...)
	}
	sym := mat.NewSymDense(n, data)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if rows[i][j] != rows[j][i] {
				return nil, errors.NewValidationError("covariances", "must be symmetric", rows)
			}
		}
	}
	return sym, nil
}
