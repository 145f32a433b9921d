package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"genepri/internal/config"
	"genepri/internal/engine"
	"genepri/internal/kb"
	"genepri/internal/report"
	"genepri/pkg/domain"
	"genepri/pkg/phenotype"
)

// expansionFlags are shared by prioritize and expand. Unset flags fall back
// to the expansion section of the configuration.
type expansionFlags struct {
	phenotypes []string
	distance   int
	algorithm  string
	strict     bool
	relaxed    bool
	format     string
}

func (f *expansionFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringSliceVarP(&f.phenotypes, "phenotype", "p", nil, "input phenotype code or locator (repeatable)")
	fl.IntVar(&f.distance, "distance", 0, "maximum ontology distance to expand (0 disables expansion)")
	fl.StringVar(&f.algorithm, "algorithm", "", "expansion algorithm: children or distance")
	fl.BoolVar(&f.strict, "strict", false, "reject traversal results that skip a level")
	fl.BoolVar(&f.relaxed, "relaxed", false, "accept traversal results at any level")
	fl.StringVar(&f.format, "format", "", "output format: tsv, json or yaml")
	cmd.MarkFlagsMutuallyExclusive("strict", "relaxed")
	_ = cmd.MarkFlagRequired("phenotype")
}

func (f *expansionFlags) roots() ([]domain.Phenotype, error) {
	out := make([]domain.Phenotype, 0, len(f.phenotypes))
	for _, raw := range f.phenotypes {
		p, err := domain.ParsePhenotype(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *expansionFlags) expandOptions(cmd *cobra.Command, cfg config.Expansion) (engine.ExpandOptions, error) {
	opts := engine.ExpandOptions{MaxDistance: cfg.MaxDistance}
	if cmd.Flags().Changed("distance") {
		opts.MaxDistance = f.distance
	}
	if opts.MaxDistance < 0 {
		return engine.ExpandOptions{}, fmt.Errorf("distance must not be negative, got %d", opts.MaxDistance)
	}

	algorithm := cfg.Algorithm
	if f.algorithm != "" {
		algorithm = f.algorithm
	}
	alg, err := kb.ParseAlgorithm(algorithm)
	if err != nil {
		return engine.ExpandOptions{}, err
	}
	opts.Algorithm = alg

	frontier := cfg.Frontier
	switch {
	case f.strict:
		frontier = string(phenotype.FrontierStrict)
	case f.relaxed:
		frontier = string(phenotype.FrontierRelaxed)
	}
	policy, err := phenotype.ParseFrontierPolicy(frontier)
	if err != nil {
		return engine.ExpandOptions{}, err
	}
	opts.Policy = policy
	return opts, nil
}

func (f *expansionFlags) outputFormat(cfg config.Output) (report.Format, error) {
	if f.format != "" {
		return report.ParseFormat(f.format)
	}
	return report.ParseFormat(cfg.Format)
}
