package association

// Snapshot is an exported, order-stable copy of a GeneDisease. Output code
// serializes it and tests compare it.
type Snapshot struct {
	Gene        string           `json:"gene" yaml:"gene"`
	GeneName    string           `json:"gene_name,omitempty" yaml:"gene_name,omitempty"`
	Disease     string           `json:"disease" yaml:"disease"`
	DiseaseName string           `json:"disease_name,omitempty" yaml:"disease_name,omitempty"`
	Score       float64          `json:"score" yaml:"score"`
	Sources     []SourceSnapshot `json:"sources" yaml:"sources"`
}

// SourceSnapshot captures what one source reported for a pair.
type SourceSnapshot struct {
	Source   string             `json:"source" yaml:"source"`
	Level    string             `json:"level,omitempty" yaml:"level,omitempty"`
	Count    int                `json:"count" yaml:"count"`
	Evidence []EvidenceSnapshot `json:"evidence,omitempty" yaml:"evidence,omitempty"`
}

// EvidenceSnapshot is one citation.
type EvidenceSnapshot struct {
	ID   string `json:"id" yaml:"id"`
	Year int    `json:"year,omitempty" yaml:"year,omitempty"`
}

// Snapshot copies the record.
func (r *GeneDisease) Snapshot() Snapshot {
	out := Snapshot{
		Gene:        r.Gene().Code(),
		GeneName:    r.Gene().Name(),
		Disease:     r.Disease().Code(),
		DiseaseName: r.Disease().Name(),
		Score:       r.score,
	}
	for _, src := range r.Sources() {
		ss := SourceSnapshot{
			Source: src.Code(),
			Level:  string(src.Level()),
			Count:  r.CountFor(src),
		}
		evs, _ := r.EvidenceFor(src)
		for _, ev := range evs {
			year, _ := ev.Year()
			ss.Evidence = append(ss.Evidence, EvidenceSnapshot{ID: ev.Code(), Year: year})
		}
		out.Sources = append(out.Sources, ss)
	}
	return out
}

// Snapshot copies every record ordered by gene, then disease.
func (c *Collection) Snapshot() []Snapshot {
	recs := c.Sorted()
	out := make([]Snapshot, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Snapshot())
	}
	return out
}
