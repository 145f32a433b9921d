// Package memory provides an in-process knowledge base used by tests and the
// memory driver.
package memory

import (
	"context"
	"slices"
	"sync"

	"genepri/internal/kb"
	"genepri/pkg/domain"
)

var (
	_ kb.KnowledgeBase = (*Store)(nil)
	_ kb.Loader        = (*Store)(nil)
)

// Store keeps the whole dataset in memory. It is safe for concurrent use.
type Store struct {
	mu           sync.RWMutex
	associations []kb.AssociationRow
	// phenotype -> diseases annotated with it
	diseases  map[string][]string
	children  map[string][]string
	parents   map[string][]string
	edges     map[kb.Edge]struct{}
	annotated map[kb.Annotation]struct{}
}

// New returns an empty store.
func New() *Store {
	return &Store{
		diseases:  make(map[string][]string),
		children:  make(map[string][]string),
		parents:   make(map[string][]string),
		edges:     make(map[kb.Edge]struct{}),
		annotated: make(map[kb.Annotation]struct{}),
	}
}

// Reset drops every row.
func (s *Store) Reset(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.associations = nil
	s.diseases = make(map[string][]string)
	s.children = make(map[string][]string)
	s.parents = make(map[string][]string)
	s.edges = make(map[kb.Edge]struct{})
	s.annotated = make(map[kb.Annotation]struct{})
	return nil
}

// Count returns the number of stored rows.
func (s *Store) Count(context.Context) (kb.Counts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return kb.Counts{Associations: len(s.associations), Annotations: len(s.annotated), Edges: len(s.edges)}, nil
}

// Load appends a dataset. Duplicate edges and annotations are ignored;
// association rows are kept as given, duplicates included.
func (s *Store) Load(_ context.Context, ds kb.Dataset) error {
	s.AddAssociations(ds.Associations...)
	for _, a := range ds.Annotations {
		s.Annotate(a.Disease, a.Phenotype)
	}
	for _, e := range ds.Edges {
		s.AddEdge(e.Parent, e.Child)
	}
	return nil
}

// AddAssociations appends rows without validation.
func (s *Store) AddAssociations(rows ...kb.AssociationRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.associations = append(s.associations, rows...)
}

// Annotate links disease to phenotype.
func (s *Store) Annotate(disease, phenotype string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := kb.Annotation{Disease: disease, Phenotype: phenotype}
	if _, ok := s.annotated[a]; ok {
		return
	}
	s.annotated[a] = struct{}{}
	s.diseases[phenotype] = append(s.diseases[phenotype], disease)
}

// AddEdge records parent -> child.
func (s *Store) AddEdge(parent, child string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := kb.Edge{Parent: parent, Child: child}
	if _, ok := s.edges[e]; ok {
		return
	}
	s.edges[e] = struct{}{}
	s.children[parent] = append(s.children[parent], child)
	s.parents[child] = append(s.parents[child], parent)
}

// Associations implements kb.KnowledgeBase.
func (s *Store) Associations(ctx context.Context, q kb.AssociationQuery) (kb.AssociationCursor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[string]bool)
	for _, p := range q.Phenotypes {
		for _, d := range s.diseases[p] {
			wanted[d] = true
		}
	}
	var out []kb.AssociationRow
	for _, row := range s.associations {
		if !wanted[row.Disease] || row.Score < q.MinScore {
			continue
		}
		if len(q.Levels) > 0 && !slices.Contains(q.Levels, domain.SourceLevel(row.SourceLevel)) {
			continue
		}
		out = append(out, row)
	}
	return kb.NewSliceCursor(out), nil
}

// Edges implements kb.KnowledgeBase.
func (s *Store) Edges(ctx context.Context, q kb.EdgeQuery) (kb.EdgeCursor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []kb.Edge
	for _, p := range q.Frontier {
		switch q.Direction {
		case kb.Down:
			for _, c := range s.children[p] {
				out = append(out, kb.Edge{Parent: p, Child: c})
			}
		case kb.Up:
			for _, parent := range s.parents[p] {
				out = append(out, kb.Edge{Parent: parent, Child: p})
			}
		}
	}
	return kb.NewSliceCursor(out), nil
}

// Close implements kb.KnowledgeBase.
func (s *Store) Close() error { return nil }
