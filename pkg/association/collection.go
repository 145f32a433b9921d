package association

import (
	"slices"

	"genepri/pkg/collection"
	"genepri/pkg/domain"
)

// Index is the dual index over gene-disease records.
type Index = collection.Index[domain.Gene, domain.Disease, *GeneDisease]

// Observation is one parsed association row.
type Observation struct {
	Gene     domain.Gene
	Disease  domain.Disease
	Score    float64
	Source   domain.Source
	Evidence domain.Evidence // zero when the row carries no citation
}

// Collection holds one GeneDisease per observed pair.
type Collection struct {
	index *Index
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{index: collection.New[domain.Gene, domain.Disease, *GeneDisease]()}
}

// Add folds obs into the record for its pair, creating the record on first
// sight. It returns the canonical record and whether it was created. The
// record keeps the score of the observation that created it.
//
// Replaying the same observation is safe: it only increments the source's
// occurrence count.
func (c *Collection) Add(obs Observation) (*GeneDisease, bool) {
	rec, created := c.index.GetOrInsert(New(obs.Gene, obs.Disease, obs.Score))
	if obs.Evidence.IsZero() {
		rec.RecordOccurrence(obs.Source)
	} else {
		rec.RecordOccurrenceWithEvidence(obs.Source, obs.Evidence)
	}
	return rec, created
}

// Index exposes the underlying index for set operations (RemoveAll,
// RetainOnly, ...). Records obtained from it are the canonical ones.
func (c *Collection) Index() *Index { return c.index }

// Len returns the number of distinct pairs.
func (c *Collection) Len() int { return c.index.Len() }

// Get returns the record for the pair.
func (c *Collection) Get(gene domain.Gene, disease domain.Disease) (*GeneDisease, bool) {
	return c.index.Lookup(gene, disease)
}

// Remove deletes the record for the pair.
func (c *Collection) Remove(gene domain.Gene, disease domain.Disease) bool {
	rec, ok := c.index.Lookup(gene, disease)
	if !ok {
		return false
	}
	return c.index.Remove(rec)
}

// ByGene returns the records of gene ordered by disease. The boolean is false
// when the gene has no record.
func (c *Collection) ByGene(gene domain.Gene) ([]*GeneDisease, bool) {
	recs, ok := c.index.GroupByA(gene)
	if !ok {
		return nil, false
	}
	slices.SortFunc(recs, compareRecords)
	return recs, true
}

// ByDisease returns the records of disease ordered by gene.
func (c *Collection) ByDisease(disease domain.Disease) ([]*GeneDisease, bool) {
	recs, ok := c.index.GroupByB(disease)
	if !ok {
		return nil, false
	}
	slices.SortFunc(recs, compareRecords)
	return recs, true
}

// Sorted returns every record ordered by gene, then disease.
func (c *Collection) Sorted() []*GeneDisease {
	recs := c.index.Values()
	slices.SortFunc(recs, compareRecords)
	return recs
}

// Genes returns the distinct genes in numeric order.
func (c *Collection) Genes() []domain.Gene {
	genes := c.index.KeysA()
	slices.SortFunc(genes, domain.Gene.Compare)
	return genes
}

// Diseases returns the distinct diseases in code order.
func (c *Collection) Diseases() []domain.Disease {
	diseases := c.index.KeysB()
	slices.SortFunc(diseases, domain.Disease.Compare)
	return diseases
}

func compareRecords(a, b *GeneDisease) int {
	if c := a.Gene().Compare(b.Gene()); c != 0 {
		return c
	}
	return a.Disease().Compare(b.Disease())
}
