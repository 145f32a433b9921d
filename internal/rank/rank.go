// Package rank orders candidate genes from aggregated associations.
package rank

import (
	"cmp"
	"slices"

	"genepri/pkg/association"
	"genepri/pkg/domain"
)

// RankedGene is one entry of a prioritization.
type RankedGene struct {
	// Rank is 1-based; genes with equal scores share a rank.
	Rank  int
	Gene  domain.Gene
	Score float64
	// Associations are ordered by score descending, then disease code.
	Associations []*association.GeneDisease
}

// Prioritizer turns an association collection into a ranking.
type Prioritizer interface {
	Prioritize(c *association.Collection) []RankedGene
}

// HighestScore ranks genes by the best score among their associations.
// Ties are broken by gene numeric order.
type HighestScore struct{}

// Prioritize implements Prioritizer.
func (HighestScore) Prioritize(c *association.Collection) []RankedGene {
	genes := c.Genes()
	out := make([]RankedGene, 0, len(genes))
	for _, g := range genes {
		recs, _ := c.ByGene(g)
		slices.SortFunc(recs, compareAssociations)
		out = append(out, RankedGene{Gene: g, Score: recs[0].Score(), Associations: recs})
	}
	slices.SortStableFunc(out, func(a, b RankedGene) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return a.Gene.Compare(b.Gene)
	})
	for i := range out {
		if i > 0 && out[i].Score == out[i-1].Score {
			out[i].Rank = out[i-1].Rank
		} else {
			out[i].Rank = i + 1
		}
	}
	return out
}

func compareAssociations(a, b *association.GeneDisease) int {
	if c := cmp.Compare(b.Score(), a.Score()); c != 0 {
		return c
	}
	return a.Disease().Compare(b.Disease())
}

// Snapshot is an exported copy of a RankedGene.
type Snapshot struct {
	Rank         int                    `json:"rank" yaml:"rank"`
	Gene         string                 `json:"gene" yaml:"gene"`
	GeneName     string                 `json:"gene_name,omitempty" yaml:"gene_name,omitempty"`
	Score        float64                `json:"score" yaml:"score"`
	Associations []association.Snapshot `json:"associations" yaml:"associations"`
}

// Snapshot copies the entry.
func (r RankedGene) Snapshot() Snapshot {
	out := Snapshot{Rank: r.Rank, Gene: r.Gene.Code(), GeneName: r.Gene.Name(), Score: r.Score}
	for _, rec := range r.Associations {
		out.Associations = append(out.Associations, rec.Snapshot())
	}
	return out
}

// Snapshots copies a ranking.
func Snapshots(ranking []RankedGene) []Snapshot {
	out := make([]Snapshot, 0, len(ranking))
	for _, r := range ranking {
		out = append(out, r.Snapshot())
	}
	return out
}
