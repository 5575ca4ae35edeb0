package main

import (
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/wmvanvliet/golem/core/dataset"
	"github.com/wmvanvliet/golem/core/model"
	"github.com/wmvanvliet/golem/cv"
	"github.com/wmvanvliet/golem/linear"
	"github.com/wmvanvliet/golem/metrics"
	"github.com/wmvanvliet/golem/pkg/errors"
	"github.com/wmvanvliet/golem/preprocessing"
)

func newCVCommand(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "cv FILE",
		Short: "Cross-validate a z-scored least-squares classifier",
		Long: "Partitions FILE into folds, checks that the folds are disjoint and\n" +
			"evaluates a z-score + least-squares classifier on every train/test pair.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !lo.Contains([]string{"table", "csv", "latex"}, format) {
				return errors.NewValidationError("format", "must be table, csv or latex", format)
			}
			_, folds, err := a.loadFolds(args[0])
			if err != nil {
				return err
			}
			if err := cv.CheckDisjoint(folds); err != nil {
				return err
			}

			ridge := a.cfg.Split.Ridge
			outs, err := cv.CrossValidate(folds, func() model.Node {
				return model.NewChain(preprocessing.NewZScore(), linear.NewLSReg(linear.WithRidge(ridge)))
			})
			if err != nil {
				return err
			}

			rows, err := evaluate(folds, outs)
			if err != nil {
				return err
			}
			header := []string{"fold", "train", "test", "accuracy", "mutual info", "auc"}
			w := cmd.OutOrStdout()
			switch format {
			case "csv":
				return metrics.WriteCSVTable(w, append([][]string{header}, rows...))
			case "latex":
				return metrics.WriteLatexTable(w, append([][]string{header}, rows...))
			default:
				table := tablewriter.NewWriter(w)
				table.SetHeader(header)
				table.AppendBulk(rows)
				table.Render()
				return nil
			}
		},
	}
	addSplitFlags(cmd)
	cmd.Flags().Float64("ridge", 0, "ridge penalty of the least-squares classifier")
	cmd.Flags().StringVar(&format, "format", "table", "output format: table, csv or latex")
	return cmd
}

// evaluate scores every fold output. Empty test folds get a row of dashes;
// the AUC column is only filled for two-class problems.
func evaluate(folds, outs []*dataset.Dataset) ([][]string, error) {
	total := lo.SumBy(folds, func(f *dataset.Dataset) int { return f.NInstances() })
	rows := make([][]string, len(outs))
	for i, out := range outs {
		test := out.NInstances()
		rows[i] = []string{strconv.Itoa(i), strconv.Itoa(total - test), strconv.Itoa(test), "-", "-", "-"}
		if test == 0 {
			continue
		}

		cm, err := metrics.DatasetConfusionMatrix(out)
		if err != nil {
			return nil, errors.Wrapf(err, "fold %d", i)
		}
		acc, err := metrics.Accuracy(cm)
		if err != nil {
			return nil, errors.Wrapf(err, "fold %d", i)
		}
		mi, err := metrics.MutualInformation(cm, true)
		if err != nil {
			return nil, errors.Wrapf(err, "fold %d", i)
		}
		rows[i][3], rows[i][4] = fmt.Sprintf("%.3f", acc), fmt.Sprintf("%.3f", mi)

		if out.NClasses() == 2 {
			labels := out.Labels()
			if len(lo.Uniq(labels)) == 2 {
				xs := out.Xs()
				scores := lo.Map(labels, func(_ int, r int) float64 { return xs.At(r, 1) - xs.At(r, 0) })
				auc, err := metrics.AUC(scores, labels)
				if err != nil {
					return nil, errors.Wrapf(err, "fold %d", i)
				}
				rows[i][5] = fmt.Sprintf("%.3f", auc)
			}
		}
	}
	return rows, nil
}
