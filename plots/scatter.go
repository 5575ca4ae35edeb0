// Package plots draws datasets and classifier curves to image files. The
// format follows the file extension (png, svg, pdf, ...).
package plots

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/wmvanvliet/golem/core/dataset"
	"github.com/wmvanvliet/golem/metrics"
	"github.com/wmvanvliet/golem/pkg/errors"
	"github.com/wmvanvliet/golem/pkg/log"
)

// Size is the width and height of saved plots.
var Size = 4 * vg.Inch

// ScatterPlot draws the first two features of d with one series per class,
// labelled with the class labels, and saves it to path.
func ScatterPlot(d *dataset.Dataset, path string) error {
	if d.NFeatures() < 2 {
		return errors.NewDimensionError("ScatterPlot", 2, d.NFeatures(), 1)
	}

	p := plot.New()
	p.Title.Text = d.String()
	p.X.Label.Text, p.Y.Label.Text = "feature 0", "feature 1"
	if fl := d.FeatureLabels(); fl != nil {
		p.X.Label.Text, p.Y.Label.Text = fl[0], fl[1]
	}

	counts := d.NInstancesPerClass()
	for c, label := range d.ClassLabels() {
		if counts[c] == 0 {
			continue
		}
		xs := d.GetClass(c).Xs()
		pts := make(plotter.XYs, counts[c])
		for i := range pts {
			pts[i].X, pts[i].Y = xs.At(i, 0), xs.At(i, 1)
		}
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return errors.Wrapf(err, "class %d", c)
		}
		s.GlyphStyle.Color = plotutil.Color(c)
		s.GlyphStyle.Shape = plotutil.Shape(c)
		p.Add(s)
		p.Legend.Add(label, s)
	}
	return save(p, path)
}

// ROCPlot draws the ROC curve of scores against binary labels (1 is the
// positive class) with the AUC in the title.
func ROCPlot(scores []float64, labels []int, path string) error {
	tps, fps, err := metrics.ROC(scores, labels)
	if err != nil {
		return err
	}
	auc, err := metrics.AUC(scores, labels)
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = "ROC"
	p.X.Label.Text, p.Y.Label.Text = "false positive rate", "true positive rate"
	p.X.Min, p.X.Max, p.Y.Min, p.Y.Max = 0, 1, 0, 1

	pts := make(plotter.XYs, len(tps))
	for i := range pts {
		pts[i].X, pts[i].Y = fps[i], tps[i]
	}
	if err := plotutil.AddLines(p, fmt.Sprintf("AUC %.3f", auc), pts); err != nil {
		return errors.Wrap(err, "roc curve")
	}
	return save(p, path)
}

func save(p *plot.Plot, path string) error {
	if err := p.Save(Size, Size, path); err != nil {
		return errors.NewIOError("save plot", path, err)
	}
	log.GetLogger().Debug("plot saved", log.PathKey, path)
	return nil
}
