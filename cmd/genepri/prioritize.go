package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"genepri/internal/blob"
	"genepri/internal/engine"
	"genepri/internal/report"
	"genepri/internal/storage"
	"genepri/pkg/domain"
)

func newPrioritizeCmd(a *app) *cobra.Command {
	var (
		ef       expansionFlags
		minScore float64
		levels   []string
		stdout   bool
		runID    string
	)
	cmd := &cobra.Command{
		Use:   "prioritize",
		Short: "Rank genes associated with a set of phenotypes",
		Long: `Expand each phenotype into a distance network, collect the gene-disease
associations annotated to every phenotype reached and rank the genes.

The ranking and the networks are published to the report archive under
<output.key_prefix>/<run id>/. With --stdout the ranking is printed instead.

Examples:
  genepri prioritize -p hp:0000118
  genepri prioritize -p hp:0001250 -p hp:0001263 --distance 2 --algorithm distance
  genepri prioritize -p hp:0000118 --stdout --format yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := a.cfg

			roots, err := ef.roots()
			if err != nil {
				return err
			}
			expand, err := ef.expandOptions(cmd, cfg.Expansion)
			if err != nil {
				return err
			}
			format, err := ef.outputFormat(cfg.Output)
			if err != nil {
				return err
			}
			retrieval, err := retrievalOptions(cmd, cfg.Retrieval.MinScore, cfg.Retrieval.Levels, minScore, levels)
			if err != nil {
				return err
			}

			store, err := storage.Open(ctx, cfg.KB)
			if err != nil {
				return fmt.Errorf("open knowledge base: %w", err)
			}
			defer a.closeQuietly("knowledge base", store)

			eng := engine.New(store, engine.WithLogger(a.logger), engine.WithMetrics(a.recorder))
			res, err := eng.Run(ctx, engine.Request{Phenotypes: roots, Expand: expand, Retrieval: retrieval})
			if err != nil {
				return err
			}
			for _, f := range res.Failures {
				a.logger.Warn("phenotype network dropped", zap.String("root", f.Root.Code()), zap.Error(f.Err))
			}

			if stdout {
				return report.WritePrioritization(cmd.OutOrStdout(), format, res.Ranking)
			}
			archive, err := blob.Open(ctx, cfg.Blob.StoreOptions())
			if err != nil {
				return fmt.Errorf("open report archive: %w", err)
			}
			pub := report.Publisher{Store: archive, Prefix: cfg.Output.KeyPrefix, Format: format, Logger: a.logger}
			if runID == "" {
				runID = report.NewRunID()
			}
			infos, err := pub.Publish(ctx, report.Run{ID: runID, Ranking: res.Ranking, Networks: res.Networks})
			if err != nil {
				return err
			}
			a.logger.Info("run published", zap.String("run", runID), zap.Int("genes", len(res.Ranking)))
			for _, info := range infos {
				fmt.Fprintln(cmd.OutOrStdout(), info.Key)
			}
			return nil
		},
	}
	ef.register(cmd)
	cmd.Flags().Float64Var(&minScore, "min-score", 0, "drop associations scored below this value")
	cmd.Flags().StringSliceVar(&levels, "level", nil, "keep only sources at these levels (repeatable)")
	cmd.Flags().BoolVar(&stdout, "stdout", false, "print the ranking instead of publishing it")
	cmd.Flags().StringVar(&runID, "run-id", "", "run identifier (default: random UUID)")
	return cmd
}

func retrievalOptions(cmd *cobra.Command, cfgMin float64, cfgLevels []string, flagMin float64, flagLevels []string) (engine.RetrievalOptions, error) {
	opts := engine.RetrievalOptions{MinScore: cfgMin}
	if cmd.Flags().Changed("min-score") {
		opts.MinScore = flagMin
	}
	if opts.MinScore < 0 || opts.MinScore > 1 {
		return engine.RetrievalOptions{}, fmt.Errorf("min-score must be within [0,1], got %v", opts.MinScore)
	}
	raw := cfgLevels
	if cmd.Flags().Changed("level") {
		raw = flagLevels
	}
	for _, v := range raw {
		level, err := domain.ParseSourceLevel(v)
		if err != nil {
			return engine.RetrievalOptions{}, err
		}
		opts.Levels = append(opts.Levels, level)
	}
	return opts, nil
}
