// Package engine runs a prioritization: it expands phenotype networks from
// the ontology, collects the gene-disease associations of every phenotype
// reached and ranks the genes.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"genepri/internal/kb"
	"genepri/internal/logging"
	"genepri/internal/metrics"
	"genepri/pkg/association"
	"genepri/pkg/domain"
	"genepri/pkg/phenotype"
)

// Engine reads from one knowledge base. It is safe to reuse across runs but
// not for concurrent runs.
type Engine struct {
	kb      kb.KnowledgeBase
	logger  *zap.Logger
	metrics metrics.Recorder
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = logging.OrNop(l) }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(r metrics.Recorder) Option {
	return func(e *Engine) { e.metrics = metrics.OrNoop(r) }
}

// New returns an engine reading from k.
func New(k kb.KnowledgeBase, opts ...Option) *Engine {
	e := &Engine{kb: k, logger: zap.NewNop(), metrics: metrics.Noop{}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExpandOptions controls network construction.
type ExpandOptions struct {
	MaxDistance int
	Algorithm   kb.Algorithm
	Policy      phenotype.FrontierPolicy
}

// RetrievalOptions filters association rows.
type RetrievalOptions struct {
	MinScore float64
	Levels   []domain.SourceLevel
}

// Failure records a root whose network was abandoned.
type Failure struct {
	Root domain.Phenotype
	Err  error
}

func (f Failure) Error() string { return fmt.Sprintf("root %s: %v", f.Root, f.Err) }

// Unwrap exposes the cause.
func (f Failure) Unwrap() error { return f.Err }

// Stats counts rows seen during a run.
type Stats struct {
	EdgeRows        int `json:"edge_rows" yaml:"edge_rows"`
	Relaxations     int `json:"relaxations" yaml:"relaxations"`
	AssociationRows int `json:"association_rows" yaml:"association_rows"`
	Accepted        int `json:"accepted" yaml:"accepted"`
	Malformed       int `json:"malformed" yaml:"malformed"`
}

func (e *Engine) observe(ctx context.Context, op string, start time.Time, err error) {
	e.metrics.Observe(ctx, op, err == nil, time.Since(start))
}

// Expand builds one network per root. A root whose traversal violates a
// network invariant is dropped and reported as a Failure; the other roots
// continue. Knowledge base errors and invalid locators abort the call.
func (e *Engine) Expand(ctx context.Context, roots []domain.Phenotype, opts ExpandOptions) (_ *phenotype.NetworkCollection, _ []Failure, err error) {
	start := time.Now()
	defer func() { e.observe(ctx, "expand", start, err) }()

	var stats Stats
	networks, failures, err := e.expand(ctx, roots, opts, &stats)
	return networks, failures, err
}

func (e *Engine) expand(ctx context.Context, roots []domain.Phenotype, opts ExpandOptions, stats *Stats) (*phenotype.NetworkCollection, []Failure, error) {
	if opts.Policy == "" {
		opts.Policy = phenotype.FrontierStrict
	}
	if opts.Algorithm == "" {
		opts.Algorithm = kb.AlgorithmChildren
	}
	networks := phenotype.NewNetworkCollection()
	var failures []Failure
	for _, root := range roots {
		n, err := e.expandRoot(ctx, root, opts, stats)
		var distErr *phenotype.DistanceError
		switch {
		case err == nil:
			networks.Add(n)
			e.logger.Debug("network expanded",
				zap.String("root", root.Code()),
				zap.Int("phenotypes", n.Len()),
				zap.Int("deepest", n.Deepest()))
		case errors.As(err, &distErr):
			e.logger.Warn("dropping phenotype network", zap.String("root", root.Code()), zap.Error(err))
			failures = append(failures, Failure{Root: root, Err: err})
		default:
			return nil, nil, err
		}
	}
	return networks, failures, nil
}

func (e *Engine) expandRoot(ctx context.Context, root domain.Phenotype, opts ExpandOptions, stats *Stats) (*phenotype.Network, error) {
	n := phenotype.NewNetwork(root, phenotype.WithPolicy(opts.Policy))
	err := kb.Traverse(ctx, e.kb, root.Locator(), opts.MaxDistance, opts.Algorithm, func(row kb.EdgeRow) error {
		stats.EdgeRows++
		child, err := domain.ParsePhenotype(row.Child)
		if err != nil {
			if errors.Is(err, domain.ErrMalformedIdentifier) {
				e.metrics.Row(metrics.KindEdge, metrics.OutcomeMalformed)
				e.logger.Warn("skipping edge row", zap.String("parent", row.Parent), zap.String("child", row.Child), zap.Error(err))
				return kb.ErrSkipEdge
			}
			return err
		}
		_, known := n.DistanceOf(child)
		changed, err := n.Insert(child, row.Depth)
		if err != nil {
			e.metrics.Row(metrics.KindEdge, metrics.OutcomeRejected)
			return err
		}
		e.metrics.Row(metrics.KindEdge, metrics.OutcomeAccepted)
		if changed && known {
			stats.Relaxations++
			e.metrics.Relaxation()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return n, nil
}

// Collect aggregates the associations of diseases annotated with any of
// phenotypes. Rows with malformed identifiers are skipped; an invalid
// locator aborts the call.
func (e *Engine) Collect(ctx context.Context, phenotypes []domain.Phenotype, opts RetrievalOptions) (_ *association.Collection, err error) {
	start := time.Now()
	defer func() { e.observe(ctx, "collect", start, err) }()

	var stats Stats
	return e.collect(ctx, phenotypes, opts, &stats)
}

func (e *Engine) collect(ctx context.Context, phenotypes []domain.Phenotype, opts RetrievalOptions, stats *Stats) (*association.Collection, error) {
	out := association.NewCollection()
	if len(phenotypes) == 0 {
		return out, nil
	}
	locators := make([]string, len(phenotypes))
	for i, p := range phenotypes {
		locators[i] = p.Locator()
	}
	cur, err := e.kb.Associations(ctx, kb.AssociationQuery{Phenotypes: locators, MinScore: opts.MinScore, Levels: opts.Levels})
	if err != nil {
		return nil, fmt.Errorf("query associations: %w", err)
	}
	defer func() { _ = cur.Close() }()

	for cur.Next() {
		row := cur.Row()
		stats.AssociationRows++
		obs, err := Observe(row)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidLocator) {
				return nil, fmt.Errorf("association row %s/%s: %w", row.Gene, row.Disease, err)
			}
			stats.Malformed++
			e.metrics.Row(metrics.KindAssociation, metrics.OutcomeMalformed)
			e.logger.Warn("skipping association row",
				zap.String("gene", row.Gene),
				zap.String("disease", row.Disease),
				zap.Error(err))
			continue
		}
		out.Add(obs)
		stats.Accepted++
		e.metrics.Row(metrics.KindAssociation, metrics.OutcomeAccepted)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("read associations: %w", err)
	}
	return out, nil
}

// Observe parses a knowledge base row into an association observation.
func Observe(row kb.AssociationRow) (association.Observation, error) {
	gene, err := domain.ParseGene(row.Gene)
	if err != nil {
		return association.Observation{}, err
	}
	disease, err := domain.ParseDisease(row.Disease)
	if err != nil {
		return association.Observation{}, err
	}
	source, err := domain.ParseSource(row.SourceLocator)
	if err != nil {
		return association.Observation{}, err
	}
	level, err := domain.ParseSourceLevel(row.SourceLevel)
	if err != nil {
		return association.Observation{}, fmt.Errorf("%w: %v", domain.ErrMalformedIdentifier, err)
	}
	obs := association.Observation{
		Gene:    gene,
		Disease: disease,
		Score:   row.Score,
		Source:  source.WithName(row.SourceName).WithLevel(level),
	}
	if row.Evidence != "" {
		ev, err := domain.ParseEvidence(row.Evidence)
		if err != nil {
			return association.Observation{}, err
		}
		obs.Evidence = ev.WithYear(row.EvidenceYear)
	}
	return obs, nil
}
