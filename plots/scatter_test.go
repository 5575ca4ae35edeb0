package plots

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/wmvanvliet/golem/core/dataset"
	"github.com/wmvanvliet/golem/data"
	"github.com/wmvanvliet/golem/pkg/errors"
)

func requireFile(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestScatterPlot(t *testing.T) {
	d, err := data.GaussianDataset([]int{30, 20, 10})
	require.NoError(t, err)
	dir := t.TempDir()

	for _, name := range []string{"scatter.png", "scatter.svg"} {
		path := filepath.Join(dir, name)
		require.NoError(t, ScatterPlot(d, path))
		requireFile(t, path)
	}

	// a class without instances is left out of the plot
	sparse, err := data.GaussianDataset([]int{5, 0, 5})
	require.NoError(t, err)
	require.NoError(t, ScatterPlot(sparse, filepath.Join(dir, "sparse.png")))
}

func TestScatterPlotErrors(t *testing.T) {
	narrow, err := dataset.New(mat.NewDense(2, 1, []float64{1, 2}), mat.NewDense(2, 1, []float64{1, 1}))
	require.NoError(t, err)
	err = ScatterPlot(narrow, filepath.Join(t.TempDir(), "x.png"))
	var dimErr *errors.DimensionError
	assert.True(t, errors.As(err, &dimErr), "got %v", err)

	d, err := data.GaussianDataset([]int{3, 3})
	require.NoError(t, err)
	err = ScatterPlot(d, filepath.Join(t.TempDir(), "x.unknown"))
	var ioErr *errors.IOError
	assert.True(t, errors.As(err, &ioErr), "got %v", err)
}

func TestROCPlot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roc.png")
	require.NoError(t, ROCPlot([]float64{0.1, 0.4, 0.35, 0.8}, []int{0, 0, 1, 1}, path))
	requireFile(t, path)

	assert.Error(t, ROCPlot([]float64{0.1}, []int{1}, path))
}
