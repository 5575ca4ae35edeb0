// Command golem generates, inspects, partitions and cross-validates golem
// dataset files.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wmvanvliet/golem/internal/config"
	"github.com/wmvanvliet/golem/pkg/log"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "golem:", err)
		os.Exit(1)
	}
}

// app carries the configuration loaded before any subcommand runs.
type app struct {
	configPath string
	cfg        *config.Config
}

func newRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "golem",
		Short:         "Dataset container and cross-validation tools",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath, cmd.Flags())
			if err != nil {
				return err
			}
			a.cfg = cfg
			return log.SetupLogger(cfg.Log.Level)
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "configuration file (yaml, toml or json)")
	root.PersistentFlags().String("log-level", "info", "log level: debug, info, warn or error")

	root.AddCommand(
		newGenCommand(a),
		newInfoCommand(a),
		newSplitCommand(a),
		newCVCommand(a),
		newPlotCommand(a),
	)
	return root
}
