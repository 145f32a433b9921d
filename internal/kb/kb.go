// Package kb defines the query layer contract between the engine and a
// knowledge base backend: association rows for a phenotype set and phenotype
// ontology edges for one traversal level.
package kb

import (
	"context"
	"fmt"
	"strings"

	"genepri/pkg/domain"
)

// AssociationRow is one gene-disease association as stored by a backend.
// Identifier fields hold codes or locators; the engine parses them.
type AssociationRow struct {
	Gene          string
	Disease       string
	Score         float64
	SourceName    string
	SourceLocator string
	SourceLevel   string
	// Evidence is empty when the row carries no citation.
	Evidence     string
	EvidenceYear int
}

// Edge is a parent/child link in the phenotype ontology.
type Edge struct {
	Parent string
	Child  string
}

// EdgeRow is an edge reached during traversal. Child is the phenotype
// discovered at Depth; Parent is the frontier phenotype it was reached from.
type EdgeRow struct {
	Parent string
	Child  string
	Depth  int
}

// Annotation links a disease to a phenotype it presents.
type Annotation struct {
	Disease   string
	Phenotype string
}

// AssociationQuery selects associations of diseases annotated with any of
// Phenotypes.
type AssociationQuery struct {
	Phenotypes []string
	MinScore   float64
	// Levels restricts sources; empty accepts every level.
	Levels []domain.SourceLevel
}

// Direction selects which end of an edge must be in the frontier.
type Direction int

const (
	// Down returns edges whose parent is in the frontier.
	Down Direction = iota
	// Up returns edges whose child is in the frontier.
	Up
)

// EdgeQuery asks for the edges touching one traversal frontier.
type EdgeQuery struct {
	Frontier  []string
	Direction Direction
}

// KnowledgeBase is implemented by every backend.
type KnowledgeBase interface {
	Associations(ctx context.Context, q AssociationQuery) (AssociationCursor, error)
	Edges(ctx context.Context, q EdgeQuery) (EdgeCursor, error)
	Close() error
}

// Dataset is the bulk content of a knowledge base.
type Dataset struct {
	Associations []AssociationRow
	Annotations  []Annotation
	Edges        []Edge
}

// Loader is implemented by backends that accept bulk imports.
type Loader interface {
	Load(ctx context.Context, ds Dataset) error
}

// Counts reports how many rows a knowledge base holds.
type Counts struct {
	Associations int
	Annotations  int
	Edges        int
}

// Algorithm selects how the ontology is walked from a root.
type Algorithm string

const (
	// AlgorithmChildren follows parent to child edges only.
	AlgorithmChildren Algorithm = "children"
	// AlgorithmDistance follows edges in both directions.
	AlgorithmDistance Algorithm = "distance"
)

// Algorithms lists the supported traversal algorithms.
func Algorithms() []Algorithm { return []Algorithm{AlgorithmChildren, AlgorithmDistance} }

// ParseAlgorithm maps a name onto an Algorithm.
func ParseAlgorithm(v string) (Algorithm, error) {
	switch Algorithm(strings.ToLower(strings.TrimSpace(v))) {
	case AlgorithmChildren:
		return AlgorithmChildren, nil
	case AlgorithmDistance:
		return AlgorithmDistance, nil
	default:
		return "", fmt.Errorf("unknown expansion algorithm %q", v)
	}
}
