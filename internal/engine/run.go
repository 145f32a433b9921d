package engine

import (
	"context"
	"time"

	"go.uber.org/zap"

	"genepri/internal/rank"
	"genepri/pkg/association"
	"genepri/pkg/domain"
	"genepri/pkg/phenotype"
)

// Request describes one prioritization.
type Request struct {
	Phenotypes []domain.Phenotype
	Expand     ExpandOptions
	Retrieval  RetrievalOptions
	// Prioritizer defaults to rank.HighestScore.
	Prioritizer rank.Prioritizer
}

// Result is the outcome of Run.
type Result struct {
	Networks     *phenotype.NetworkCollection
	Associations *association.Collection
	Ranking      []rank.RankedGene
	Failures     []Failure
	Stats        Stats
}

// Run expands the input phenotypes, collects associations for every
// phenotype in the surviving networks and ranks the genes. With
// MaxDistance 0 each network holds only its root.
func (e *Engine) Run(ctx context.Context, req Request) (_ Result, err error) {
	start := time.Now()
	defer func() { e.observe(ctx, "run", start, err) }()

	var res Result
	res.Networks, res.Failures, err = e.expand(ctx, req.Phenotypes, req.Expand, &res.Stats)
	if err != nil {
		return Result{}, err
	}
	phenotypes := res.Networks.AllPhenotypes()
	e.logger.Info("phenotype networks ready",
		zap.Int("roots", res.Networks.Len()),
		zap.Int("failed_roots", len(res.Failures)),
		zap.Int("phenotypes", len(phenotypes)))

	res.Associations, err = e.collect(ctx, phenotypes, req.Retrieval, &res.Stats)
	if err != nil {
		return Result{}, err
	}

	p := req.Prioritizer
	if p == nil {
		p = rank.HighestScore{}
	}
	res.Ranking = p.Prioritize(res.Associations)
	e.logger.Info("prioritization complete",
		zap.Int("associations", res.Associations.Len()),
		zap.Int("genes", len(res.Ranking)),
		zap.Int("malformed_rows", res.Stats.Malformed))
	return res, nil
}
