package domain

// Gene is an NCBI Gene identity ("ncbigene:2597").
type Gene struct{ identity }

// Disease is a UMLS concept identity ("umls:C0011849").
type Disease struct{ identity }

// Phenotype is a Human Phenotype Ontology identity ("hp:0000118").
type Phenotype struct{ identity }

// Evidence is a PubMed citation ("pmid:12345") optionally carrying the year
// it was released. The year is informational and excluded from equality.
type Evidence struct {
	identity
	year int
}

// Source is a dataset reporting gene-disease associations ("CTD_human").
// The level classifies how the dataset was curated and is excluded from
// equality.
type Source struct {
	identity
	level SourceLevel
}

// NewGene constructs a gene from its code.
func NewGene(code string) (Gene, error) {
	payload, err := geneScheme.fromCode(code)
	if err != nil {
		return Gene{}, err
	}
	return Gene{identity{scheme: geneScheme, payload: payload}}, nil
}

// GeneFromLocator constructs a gene from its locator.
func GeneFromLocator(locator string) (Gene, error) {
	payload, err := geneScheme.fromLocator(locator)
	if err != nil {
		return Gene{}, err
	}
	return Gene{identity{scheme: geneScheme, payload: payload}}, nil
}

// ParseGene accepts either a code or a locator. Values containing "://" are
// read as locators.
func ParseGene(v string) (Gene, error) {
	if geneScheme.isLocator(v) {
		return GeneFromLocator(v)
	}
	return NewGene(v)
}

// WithName returns a copy carrying the display name.
func (g Gene) WithName(name string) Gene {
	g.name = name
	return g
}

// Compare orders genes numerically by their NCBI id.
func (g Gene) Compare(other Gene) int { return g.compare(other.identity) }

// NewDisease constructs a disease from its code.
func NewDisease(code string) (Disease, error) {
	payload, err := diseaseScheme.fromCode(code)
	if err != nil {
		return Disease{}, err
	}
	return Disease{identity{scheme: diseaseScheme, payload: payload}}, nil
}

// DiseaseFromLocator constructs a disease from its locator.
func DiseaseFromLocator(locator string) (Disease, error) {
	payload, err := diseaseScheme.fromLocator(locator)
	if err != nil {
		return Disease{}, err
	}
	return Disease{identity{scheme: diseaseScheme, payload: payload}}, nil
}

// ParseDisease accepts either a code or a locator.
func ParseDisease(v string) (Disease, error) {
	if diseaseScheme.isLocator(v) {
		return DiseaseFromLocator(v)
	}
	return NewDisease(v)
}

// WithName returns a copy carrying the display name.
func (d Disease) WithName(name string) Disease {
	d.name = name
	return d
}

// Compare orders diseases by code.
func (d Disease) Compare(other Disease) int { return d.compare(other.identity) }

// NewPhenotype constructs a phenotype from its code.
func NewPhenotype(code string) (Phenotype, error) {
	payload, err := phenotypeScheme.fromCode(code)
	if err != nil {
		return Phenotype{}, err
	}
	return Phenotype{identity{scheme: phenotypeScheme, payload: payload}}, nil
}

// PhenotypeFromLocator constructs a phenotype from its locator.
func PhenotypeFromLocator(locator string) (Phenotype, error) {
	payload, err := phenotypeScheme.fromLocator(locator)
	if err != nil {
		return Phenotype{}, err
	}
	return Phenotype{identity{scheme: phenotypeScheme, payload: payload}}, nil
}

// ParsePhenotype accepts either a code or a locator.
func ParsePhenotype(v string) (Phenotype, error) {
	if phenotypeScheme.isLocator(v) {
		return PhenotypeFromLocator(v)
	}
	return NewPhenotype(v)
}

// WithName returns a copy carrying the display name.
func (p Phenotype) WithName(name string) Phenotype {
	p.name = name
	return p
}

// Compare orders phenotypes by code.
func (p Phenotype) Compare(other Phenotype) int { return p.compare(other.identity) }

// NewEvidence constructs a PubMed evidence identity from its code.
func NewEvidence(code string) (Evidence, error) {
	payload, err := evidenceScheme.fromCode(code)
	if err != nil {
		return Evidence{}, err
	}
	return Evidence{identity: identity{scheme: evidenceScheme, payload: payload}}, nil
}

// EvidenceFromLocator constructs a PubMed evidence identity from its locator.
func EvidenceFromLocator(locator string) (Evidence, error) {
	payload, err := evidenceScheme.fromLocator(locator)
	if err != nil {
		return Evidence{}, err
	}
	return Evidence{identity: identity{scheme: evidenceScheme, payload: payload}}, nil
}

// ParseEvidence accepts either a code or a locator.
func ParseEvidence(v string) (Evidence, error) {
	if evidenceScheme.isLocator(v) {
		return EvidenceFromLocator(v)
	}
	return NewEvidence(v)
}

// WithYear returns a copy carrying the release year. Non-positive years clear it.
func (e Evidence) WithYear(year int) Evidence {
	if year < 0 {
		year = 0
	}
	e.year = year
	return e
}

// Year returns the release year, if known.
func (e Evidence) Year() (int, bool) { return e.year, e.year > 0 }

// Compare orders evidence numerically by PubMed id.
func (e Evidence) Compare(other Evidence) int { return e.compare(other.identity) }

// NewSource constructs a source from its dataset name.
func NewSource(code string) (Source, error) {
	payload, err := sourceScheme.fromCode(code)
	if err != nil {
		return Source{}, err
	}
	return Source{identity: identity{scheme: sourceScheme, payload: payload}}, nil
}

// SourceFromLocator constructs a source from its locator.
func SourceFromLocator(locator string) (Source, error) {
	payload, err := sourceScheme.fromLocator(locator)
	if err != nil {
		return Source{}, err
	}
	return Source{identity: identity{scheme: sourceScheme, payload: payload}}, nil
}

// ParseSource accepts either a dataset name or a locator.
func ParseSource(v string) (Source, error) {
	if sourceScheme.isLocator(v) {
		return SourceFromLocator(v)
	}
	return NewSource(v)
}

// WithLevel returns a copy classified at level.
func (s Source) WithLevel(level SourceLevel) Source {
	s.level = level
	return s
}

// WithName returns a copy carrying the display name.
func (s Source) WithName(name string) Source {
	s.name = name
	return s
}

// Level returns the curation level of the source.
func (s Source) Level() SourceLevel { return s.level }

// Compare orders sources by name.
func (s Source) Compare(other Source) int { return s.compare(other.identity) }
