// Package phenotype builds distance-labelled phenotype networks from
// ontology traversal results.
//
// A Network is rooted at one phenotype (distance 0) and records, for every
// phenotype reached from it, the shortest distance reported so far.
// Traversal results may arrive batched and out of order; inserting a shorter
// distance relaxes the stored one, inserting a longer one is ignored.
package phenotype

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"genepri/pkg/domain"
)

var (
	// ErrRootDistance is returned when a phenotype other than the root is
	// reported at distance 0.
	ErrRootDistance = errors.New("non-root phenotype at distance 0")
	// ErrDiscontinuousFrontier is returned under FrontierStrict when a new
	// phenotype is reported more than one level beyond the deepest level seen,
	// which means a traversal level was skipped.
	ErrDiscontinuousFrontier = errors.New("discontinuous frontier")
	// ErrNegativeDistance is returned for distances below 0.
	ErrNegativeDistance = errors.New("negative distance")
)

// DistanceError describes a rejected insert.
type DistanceError struct {
	Root      domain.Phenotype
	Phenotype domain.Phenotype
	Distance  int
	Deepest   int
	Err       error
}

func (e *DistanceError) Error() string {
	return fmt.Sprintf("network %s: %s: %s at distance %d (deepest level %d)", e.Root, e.Err, e.Phenotype, e.Distance, e.Deepest)
}

// Unwrap exposes the sentinel error.
func (e *DistanceError) Unwrap() error { return e.Err }

// FrontierPolicy selects how strictly a Network checks level continuity.
type FrontierPolicy string

const (
	// FrontierStrict rejects new phenotypes more than one level beyond the
	// deepest known level.
	FrontierStrict FrontierPolicy = "strict"
	// FrontierRelaxed accepts new phenotypes at any distance.
	FrontierRelaxed FrontierPolicy = "relaxed"
)

// ParseFrontierPolicy maps "strict" or "relaxed" onto a policy.
func ParseFrontierPolicy(v string) (FrontierPolicy, error) {
	switch FrontierPolicy(strings.ToLower(strings.TrimSpace(v))) {
	case FrontierStrict:
		return FrontierStrict, nil
	case FrontierRelaxed:
		return FrontierRelaxed, nil
	default:
		return "", fmt.Errorf("unknown frontier policy %q", v)
	}
}

// Option configures a Network.
type Option func(*Network)

// WithPolicy sets the frontier policy. The default is FrontierStrict.
func WithPolicy(p FrontierPolicy) Option {
	return func(n *Network) { n.policy = p }
}

// Network is a shortest-distance map from one root phenotype. It is not safe
// for concurrent use.
type Network struct {
	root       domain.Phenotype
	policy     FrontierPolicy
	phenotypes map[domain.Key]domain.Phenotype
	distances  map[domain.Key]int
	// levels are never pruned: a level emptied by relaxation stays known
	levels  map[int]map[domain.Key]struct{}
	deepest int
}

// NewNetwork returns a network holding only root at distance 0.
func NewNetwork(root domain.Phenotype, opts ...Option) *Network {
	n := &Network{
		root:       root,
		policy:     FrontierStrict,
		phenotypes: map[domain.Key]domain.Phenotype{root.Key(): root},
		distances:  map[domain.Key]int{root.Key(): 0},
		levels:     map[int]map[domain.Key]struct{}{0: {root.Key(): {}}},
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Root returns the root phenotype.
func (n *Network) Root() domain.Phenotype { return n.root }

// Policy returns the frontier policy in force.
func (n *Network) Policy() FrontierPolicy { return n.policy }

// Insert records phenotype at distance and reports whether the network
// changed. An unseen phenotype is added; a known one moves only when the new
// distance is shorter.
func (n *Network) Insert(p domain.Phenotype, distance int) (bool, error) {
	k := p.Key()
	switch {
	case distance < 0:
		return false, n.distanceError(p, distance, ErrNegativeDistance)
	case distance == 0:
		if k == n.root.Key() {
			return false, nil
		}
		return false, n.distanceError(p, distance, ErrRootDistance)
	}

	old, seen := n.distances[k]
	if !seen {
		if n.policy == FrontierStrict && distance > n.deepest+1 {
			return false, n.distanceError(p, distance, ErrDiscontinuousFrontier)
		}
		n.phenotypes[k] = p
		n.place(k, distance)
		return true, nil
	}
	if distance >= old {
		return false, nil
	}
	delete(n.levels[old], k)
	n.place(k, distance)
	return true, nil
}

// InsertMany inserts each phenotype at distance in order. It returns at the
// first error: inserts before it are kept and the remaining phenotypes are
// not attempted. Network errors are fatal for the root, so callers discard
// the network rather than resume.
func (n *Network) InsertMany(ps []domain.Phenotype, distance int) error {
	for _, p := range ps {
		if _, err := n.Insert(p, distance); err != nil {
			return err
		}
	}
	return nil
}

func (n *Network) place(k domain.Key, distance int) {
	n.distances[k] = distance
	level, ok := n.levels[distance]
	if !ok {
		level = make(map[domain.Key]struct{})
		n.levels[distance] = level
	}
	level[k] = struct{}{}
	if distance > n.deepest {
		n.deepest = distance
	}
}

func (n *Network) distanceError(p domain.Phenotype, distance int, err error) error {
	return &DistanceError{Root: n.root, Phenotype: p, Distance: distance, Deepest: n.deepest, Err: err}
}

// Len returns the number of phenotypes, root included.
func (n *Network) Len() int { return len(n.distances) }

// Contains reports whether p has been reached.
func (n *Network) Contains(p domain.Phenotype) bool {
	_, ok := n.distances[p.Key()]
	return ok
}

// DistanceOf returns the shortest known distance of p.
func (n *Network) DistanceOf(p domain.Phenotype) (int, bool) {
	d, ok := n.distances[p.Key()]
	return d, ok
}

// Distances returns every level created so far in ascending order, including
// levels emptied by relaxation.
func (n *Network) Distances() []int {
	out := make([]int, 0, len(n.levels))
	for d := range n.levels {
		out = append(out, d)
	}
	slices.Sort(out)
	return out
}

// Deepest returns the highest level created so far.
func (n *Network) Deepest() int { return n.deepest }

// AtDistance returns the phenotypes currently at distance ordered by code.
// The boolean is false when the level was never created.
func (n *Network) AtDistance(distance int) ([]domain.Phenotype, bool) {
	level, ok := n.levels[distance]
	if !ok {
		return nil, false
	}
	out := make([]domain.Phenotype, 0, len(level))
	for k := range level {
		out = append(out, n.phenotypes[k])
	}
	slices.SortFunc(out, domain.Phenotype.Compare)
	return out, true
}

// Phenotypes returns every phenotype in the network ordered by code.
func (n *Network) Phenotypes() []domain.Phenotype {
	return n.Within(n.deepest)
}

// Within returns the phenotypes at distance maxDistance or less, ordered by code.
func (n *Network) Within(maxDistance int) []domain.Phenotype {
	out := make([]domain.Phenotype, 0, len(n.phenotypes))
	for k, p := range n.phenotypes {
		if n.distances[k] <= maxDistance {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, domain.Phenotype.Compare)
	return out
}
