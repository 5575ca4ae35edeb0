package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/wmvanvliet/golem/core/dataset"
	"github.com/wmvanvliet/golem/cv"
	"github.com/wmvanvliet/golem/pkg/errors"
)

func addSplitFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("folds", "k", 10, "number of folds")
	cmd.Flags().String("strategy", "stratified", "partitioning strategy: stratified or sequential")
	cmd.Flags().Bool("shuffle", false, "shuffle the instances before splitting")
	cmd.Flags().Uint64("seed", 1, "shuffle seed")
}

// loadFolds reads a dataset file and partitions it as configured.
func (a *app) loadFolds(path string) (*dataset.Dataset, []*dataset.Dataset, error) {
	d, err := dataset.LoadFile(path)
	if err != nil {
		return nil, nil, err
	}
	sc := a.cfg.Split
	if sc.Shuffle {
		d = cv.Shuffle(d, sc.Seed)
	}
	folds, err := cv.Split(d, sc.Folds, cv.Strategy(sc.Strategy))
	if err != nil {
		return nil, nil, err
	}
	return d, folds, nil
}

func countsString(counts []int) string {
	return strings.Join(lo.Map(counts, func(n, _ int) string { return strconv.Itoa(n) }), ", ")
}

func newSplitCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "split FILE",
		Short: "Partition a dataset into folds and write one file per fold",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, folds, err := a.loadFolds(args[0])
			if err != nil {
				return err
			}
			dir := a.cfg.Split.OutputDir
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return errors.NewIOError("split", dir, err)
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"fold", "file", "instances", "per class", "fingerprint"})
			for i, f := range folds {
				path := filepath.Join(dir, fmt.Sprintf("fold-%02d.goldat", i))
				if err := f.SaveFile(path); err != nil {
					return err
				}
				table.Append([]string{
					strconv.Itoa(i), path, strconv.Itoa(f.NInstances()),
					countsString(f.NInstancesPerClass()), f.Fingerprint().String(),
				})
			}
			table.Render()
			return nil
		},
	}
	addSplitFlags(cmd)
	cmd.Flags().StringP("output-dir", "o", ".", "directory for the fold files")
	return cmd
}
