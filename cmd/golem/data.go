package main

import (
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/wmvanvliet/golem/core/dataset"
	"github.com/wmvanvliet/golem/data"
	"github.com/wmvanvliet/golem/plots"
)

func newGenCommand(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate an artificial Gaussian dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := data.GaussianDataset(a.cfg.Gen.ClassCounts, data.WithSeed(a.cfg.Gen.Seed))
			if err != nil {
				return err
			}
			if err := d.SaveFile(output); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\nwritten to %s (%s)\n", d, output, d.Fingerprint())
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file")
	cmd.Flags().IntSlice("class-counts", nil, "instances per class, e.g. 30,20,10")
	cmd.Flags().Uint64("gen-seed", 1, "random seed")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func newInfoCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info FILE",
		Short: "Summarise a dataset file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := dataset.LoadFile(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, d)
			fmt.Fprintf(out, "fingerprint: %s\nfeature shape: %v\nid columns: %d\n", d.Fingerprint(), d.FeatureShape(), d.NIDColumns())
			if fl := d.FeatureLabels(); fl != nil {
				fmt.Fprintf(out, "features: %v\n", fl)
			}

			table := tablewriter.NewWriter(out)
			table.SetHeader([]string{"class", "label", "instances"})
			counts := d.NInstancesPerClass()
			for c, label := range d.ClassLabels() {
				table.Append([]string{strconv.Itoa(c), label, strconv.Itoa(counts[c])})
			}
			table.Render()
			return nil
		},
	}
}

func newPlotCommand(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "plot FILE",
		Short: "Scatter plot of the first two features",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := dataset.LoadFile(args[0])
			if err != nil {
				return err
			}
			return plots.ScatterPlot(d, output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "scatter.png", "output image; the extension selects the format")
	return cmd
}
