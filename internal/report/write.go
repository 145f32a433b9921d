package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"genepri/internal/rank"
	"genepri/pkg/association"
	"genepri/pkg/phenotype"
)

var (
	prioritizationHeader = []string{"rank", "gene", "gene_name", "gene_score", "disease", "disease_name", "score", "sources", "evidence"}
	networkHeader        = []string{"root", "distance", "phenotype"}
)

// WritePrioritization encodes ranking to w. TSV emits one line per
// association; json and yaml emit the nested ranking.
func WritePrioritization(w io.Writer, f Format, ranking []rank.RankedGene) error {
	snaps := rank.Snapshots(ranking)
	if f != FormatTSV {
		return encode(w, f, snaps)
	}
	return writeTSV(w, prioritizationHeader, func(emit func([]string) error) error {
		for _, g := range snaps {
			for _, a := range g.Associations {
				row := []string{
					strconv.Itoa(g.Rank),
					g.Gene,
					g.GeneName,
					formatScore(g.Score),
					a.Disease,
					a.DiseaseName,
					formatScore(a.Score),
					joinSources(a.Sources),
					joinEvidence(a.Sources),
				}
				if err := emit(row); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// WriteNetworks encodes every network of c to w. TSV emits one line per
// phenotype; empty levels only appear in json and yaml.
func WriteNetworks(w io.Writer, f Format, c *phenotype.NetworkCollection) error {
	snaps := c.Snapshot()
	if f != FormatTSV {
		return encode(w, f, snaps)
	}
	return writeTSV(w, networkHeader, func(emit func([]string) error) error {
		for _, n := range snaps {
			for _, level := range n.Levels {
				for _, p := range level.Phenotypes {
					if err := emit([]string{n.Root, strconv.Itoa(level.Distance), p}); err != nil {
						return err
					}
				}
			}
		}
		return nil
	})
}

func encode(w io.Writer, f Format, v any) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", f)
	}
}

func writeTSV(w io.Writer, header []string, rows func(emit func([]string) error) error) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := rows(cw.Write); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func formatScore(s float64) string {
	return strconv.FormatFloat(s, 'f', -1, 64)
}

// joinSources renders "name:count" pairs separated by ";".
func joinSources(sources []association.SourceSnapshot) string {
	parts := make([]string, 0, len(sources))
	for _, s := range sources {
		parts = append(parts, s.Source+":"+strconv.Itoa(s.Count))
	}
	return strings.Join(parts, ";")
}

func joinEvidence(sources []association.SourceSnapshot) string {
	var parts []string
	for _, s := range sources {
		for _, ev := range s.Evidence {
			parts = append(parts, ev.ID)
		}
	}
	return strings.Join(parts, ";")
}
