// Package association aggregates gene-disease evidence rows into one record
// per (gene, disease) pair.
//
// Rows arrive denormalized and repeated: the same pair is reported once per
// source and once per citation, and the same row may be delivered more than
// once. Each pair is materialized exactly once, the first time it is seen;
// every later row for the pair mutates that stored record. Collection.Add
// implements this with a get-or-insert on the underlying index. Code that
// bypasses Add must do the same: inserting a second, separately populated
// GeneDisease for an existing pair is a no-op that discards its evidence.
package association

import (
	"slices"

	"genepri/pkg/collection"
	"genepri/pkg/domain"
)

// GeneDisease is the aggregated evidence for one gene-disease pair.
//
// The score is fixed at construction. Occurrence counts record every row a
// source reported for the pair, duplicates included, while the evidence sets
// hold distinct citations only, so a count may exceed its evidence set size.
type GeneDisease struct {
	collection.Combination[domain.Gene, domain.Disease]
	score    float64
	sources  map[domain.Key]domain.Source
	counts   map[domain.Key]int
	evidence map[domain.Key]map[domain.Key]domain.Evidence
}

// New returns an empty record for the pair.
func New(gene domain.Gene, disease domain.Disease, score float64) *GeneDisease {
	return &GeneDisease{
		Combination: collection.NewCombination(gene, disease),
		score:       score,
		sources:     make(map[domain.Key]domain.Source),
		counts:      make(map[domain.Key]int),
		evidence:    make(map[domain.Key]map[domain.Key]domain.Evidence),
	}
}

// Gene returns the gene side of the pair.
func (r *GeneDisease) Gene() domain.Gene { return r.First() }

// Disease returns the disease side of the pair.
func (r *GeneDisease) Disease() domain.Disease { return r.Second() }

// Score returns the association score reported with the first row.
func (r *GeneDisease) Score() float64 { return r.score }

// RecordOccurrence counts one more row from source.
func (r *GeneDisease) RecordOccurrence(source domain.Source) {
	k := source.Key()
	if _, ok := r.sources[k]; !ok {
		r.sources[k] = source
	}
	r.counts[k]++
}

// RecordOccurrenceWithEvidence counts one more row from source and adds the
// citation to the source's evidence set. Re-adding a known citation leaves
// the set unchanged but still increments the count.
func (r *GeneDisease) RecordOccurrenceWithEvidence(source domain.Source, ev domain.Evidence) {
	r.RecordOccurrence(source)
	k := source.Key()
	set, ok := r.evidence[k]
	if !ok {
		set = make(map[domain.Key]domain.Evidence)
		r.evidence[k] = set
	}
	stored, seen := set[ev.Key()]
	if !seen {
		set[ev.Key()] = ev
		return
	}
	// a later row may carry the release year the first one lacked
	if _, dated := stored.Year(); !dated {
		if _, ok := ev.Year(); ok {
			set[ev.Key()] = ev
		}
	}
}

// CountFor returns the number of rows source reported, 0 when unseen.
func (r *GeneDisease) CountFor(source domain.Source) int {
	return r.counts[source.Key()]
}

// TotalCount returns the number of rows across all sources.
func (r *GeneDisease) TotalCount() int {
	total := 0
	for _, n := range r.counts {
		total += n
	}
	return total
}

// EvidenceFor returns the distinct citations from source ordered by id. The
// boolean is false when the source contributed no citation.
func (r *GeneDisease) EvidenceFor(source domain.Source) ([]domain.Evidence, bool) {
	set, ok := r.evidence[source.Key()]
	if !ok || len(set) == 0 {
		return nil, false
	}
	out := make([]domain.Evidence, 0, len(set))
	for _, ev := range set {
		out = append(out, ev)
	}
	slices.SortFunc(out, domain.Evidence.Compare)
	return out, true
}

// AllEvidence returns the distinct citations across all sources ordered by id.
func (r *GeneDisease) AllEvidence() []domain.Evidence {
	union := make(map[domain.Key]domain.Evidence)
	for _, set := range r.evidence {
		for k, ev := range set {
			if prev, ok := union[k]; ok {
				if _, dated := prev.Year(); dated {
					continue
				}
			}
			union[k] = ev
		}
	}
	out := make([]domain.Evidence, 0, len(union))
	for _, ev := range union {
		out = append(out, ev)
	}
	slices.SortFunc(out, domain.Evidence.Compare)
	return out
}

// AllEvidenceSorted returns AllEvidence newest first: release year
// descending, then PubMed id ascending. Undated citations come last.
func (r *GeneDisease) AllEvidenceSorted() []domain.Evidence {
	out := r.AllEvidence()
	slices.SortStableFunc(out, compareByRecency)
	return out
}

func compareByRecency(a, b domain.Evidence) int {
	ya, _ := a.Year()
	yb, _ := b.Year()
	if ya != yb {
		if ya > yb {
			return -1
		}
		return 1
	}
	return a.Compare(b)
}

// Sources returns the sources that reported the pair ordered by name.
func (r *GeneDisease) Sources() []domain.Source {
	out := make([]domain.Source, 0, len(r.sources))
	for _, s := range r.sources {
		out = append(out, s)
	}
	slices.SortFunc(out, domain.Source.Compare)
	return out
}
