package kb

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"genepri/pkg/domain"
)

// ReadAssociations parses tab separated association rows:
//
//	gene  disease  score  source_name  source  level  [evidence  [year]]
//
// Identifiers may be codes or locators and are stored as locators. Lines
// starting with # and a header line starting with "gene" are skipped.
func ReadAssociations(r io.Reader) ([]AssociationRow, error) {
	var out []AssociationRow
	err := readTSV(r, 6, 8, "gene", func(f []string) error {
		gene, err := domain.ParseGene(f[0])
		if err != nil {
			return err
		}
		disease, err := domain.ParseDisease(f[1])
		if err != nil {
			return err
		}
		score, err := strconv.ParseFloat(f[2], 64)
		if err != nil {
			return fmt.Errorf("score: %w", err)
		}
		source, err := domain.ParseSource(f[4])
		if err != nil {
			return err
		}
		level, err := domain.ParseSourceLevel(f[5])
		if err != nil {
			return err
		}
		row := AssociationRow{
			Gene:          gene.Locator(),
			Disease:       disease.Locator(),
			Score:         score,
			SourceName:    f[3],
			SourceLocator: source.Locator(),
			SourceLevel:   string(level),
		}
		if len(f) > 6 && f[6] != "" {
			ev, err := domain.ParseEvidence(f[6])
			if err != nil {
				return err
			}
			row.Evidence = ev.Locator()
		}
		if len(f) > 7 && f[7] != "" {
			year, err := strconv.Atoi(f[7])
			if err != nil || year < 0 {
				return fmt.Errorf("evidence year %q", f[7])
			}
			row.EvidenceYear = year
		}
		out = append(out, row)
		return nil
	})
	return out, err
}

// ReadAnnotations parses "disease<TAB>phenotype" lines.
func ReadAnnotations(r io.Reader) ([]Annotation, error) {
	var out []Annotation
	err := readTSV(r, 2, 2, "disease", func(f []string) error {
		disease, err := domain.ParseDisease(f[0])
		if err != nil {
			return err
		}
		p, err := domain.ParsePhenotype(f[1])
		if err != nil {
			return err
		}
		out = append(out, Annotation{Disease: disease.Locator(), Phenotype: p.Locator()})
		return nil
	})
	return out, err
}

// ReadEdges parses "parent<TAB>child" phenotype lines.
func ReadEdges(r io.Reader) ([]Edge, error) {
	var out []Edge
	err := readTSV(r, 2, 2, "parent", func(f []string) error {
		parent, err := domain.ParsePhenotype(f[0])
		if err != nil {
			return err
		}
		child, err := domain.ParsePhenotype(f[1])
		if err != nil {
			return err
		}
		out = append(out, Edge{Parent: parent.Locator(), Child: child.Locator()})
		return nil
	})
	return out, err
}

func readTSV(r io.Reader, minFields, maxFields int, header string, fn func([]string) error) error {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true
	first := true
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read tsv: %w", err)
		}
		line, _ := cr.FieldPos(0)
		if first {
			first = false
			if strings.EqualFold(strings.TrimSpace(rec[0]), header) {
				continue
			}
		}
		if len(rec) < minFields || len(rec) > maxFields {
			return fmt.Errorf("line %d: expected %d to %d fields, got %d", line, minFields, maxFields, len(rec))
		}
		for i := range rec {
			rec[i] = strings.TrimSpace(rec[i])
		}
		if err := fn(rec); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
	}
}

// Dataset file names inside a dataset directory.
const (
	AssociationsFile = "associations.tsv"
	AnnotationsFile  = "annotations.tsv"
	EdgesFile        = "edges.tsv"
)

// ReadDatasetFiles reads whichever of the three files is named; empty paths
// are skipped.
func ReadDatasetFiles(associations, annotations, edges string) (Dataset, error) {
	var ds Dataset
	var err error
	if associations != "" {
		if ds.Associations, err = readFile(associations, ReadAssociations); err != nil {
			return Dataset{}, err
		}
	}
	if annotations != "" {
		if ds.Annotations, err = readFile(annotations, ReadAnnotations); err != nil {
			return Dataset{}, err
		}
	}
	if edges != "" {
		if ds.Edges, err = readFile(edges, ReadEdges); err != nil {
			return Dataset{}, err
		}
	}
	return ds, nil
}

// ReadDatasetDir reads the dataset files present in dir.
func ReadDatasetDir(dir string) (Dataset, error) {
	pick := func(name string) string {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err != nil {
			return ""
		}
		return p
	}
	return ReadDatasetFiles(pick(AssociationsFile), pick(AnnotationsFile), pick(EdgesFile))
}

func readFile[T any](path string, read func(io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	rows, err := read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return rows, nil
}
