package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"genepri/internal/engine"
	"genepri/internal/report"
	"genepri/internal/storage"
)

func newExpandCmd(a *app) *cobra.Command {
	var ef expansionFlags
	cmd := &cobra.Command{
		Use:   "expand",
		Short: "Print the phenotype networks built from the input phenotypes",
		Long: `Walk the ontology from each phenotype and print every phenotype reached
together with its shortest distance from the root.

Examples:
  genepri expand -p hp:0000118 --distance 3
  genepri expand -p hp:0000118 --distance 2 --algorithm distance --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			roots, err := ef.roots()
			if err != nil {
				return err
			}
			opts, err := ef.expandOptions(cmd, a.cfg.Expansion)
			if err != nil {
				return err
			}
			format, err := ef.outputFormat(a.cfg.Output)
			if err != nil {
				return err
			}

			store, err := storage.Open(ctx, a.cfg.KB)
			if err != nil {
				return fmt.Errorf("open knowledge base: %w", err)
			}
			defer a.closeQuietly("knowledge base", store)

			eng := engine.New(store, engine.WithLogger(a.logger), engine.WithMetrics(a.recorder))
			networks, failures, err := eng.Expand(ctx, roots, opts)
			if err != nil {
				return err
			}
			for _, f := range failures {
				a.logger.Warn("phenotype network dropped", zap.String("root", f.Root.Code()), zap.Error(f.Err))
			}
			return report.WriteNetworks(cmd.OutOrStdout(), format, networks)
		},
	}
	ef.register(cmd)
	return cmd
}
