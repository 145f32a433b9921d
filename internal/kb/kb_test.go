package kb_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"genepri/internal/infra/kb/memory"
	"genepri/internal/kb"
)

// ontology:
//
//	root -> a -> c
//	root -> b -> c
//	x -> root
func ontology() *memory.Store {
	s := memory.New()
	s.AddEdge("root", "a")
	s.AddEdge("root", "b")
	s.AddEdge("a", "c")
	s.AddEdge("b", "c")
	s.AddEdge("x", "root")
	return s
}

func collect(t *testing.T, k kb.KnowledgeBase, maxDistance int, alg kb.Algorithm) []kb.EdgeRow {
	t.Helper()
	var rows []kb.EdgeRow
	err := kb.Traverse(context.Background(), k, "root", maxDistance, alg, func(r kb.EdgeRow) error {
		rows = append(rows, r)
		return nil
	})
	require.NoError(t, err)
	return rows
}

func TestTraverseChildrenByLevel(t *testing.T) {
	rows := collect(t, ontology(), 3, kb.AlgorithmChildren)
	require.Equal(t, []kb.EdgeRow{
		{Parent: "root", Child: "a", Depth: 1},
		{Parent: "root", Child: "b", Depth: 1},
		{Parent: "a", Child: "c", Depth: 2},
		{Parent: "b", Child: "c", Depth: 2},
	}, rows)
}

func TestTraverseDistanceFollowsParents(t *testing.T) {
	rows := collect(t, ontology(), 1, kb.AlgorithmDistance)
	require.Equal(t, []kb.EdgeRow{
		{Parent: "root", Child: "a", Depth: 1},
		{Parent: "root", Child: "b", Depth: 1},
		{Parent: "root", Child: "x", Depth: 1},
	}, rows)

	rows = collect(t, ontology(), 2, kb.AlgorithmDistance)
	var depth2 []kb.EdgeRow
	for _, r := range rows {
		if r.Depth == 2 {
			depth2 = append(depth2, r)
		}
	}
	// a and b lead back to root and on to c; x has no neighbour but root
	require.ElementsMatch(t, []kb.EdgeRow{
		{Parent: "a", Child: "c", Depth: 2},
		{Parent: "b", Child: "c", Depth: 2},
		{Parent: "a", Child: "root", Depth: 2},
		{Parent: "b", Child: "root", Depth: 2},
		{Parent: "x", Child: "root", Depth: 2},
	}, depth2)
}

func TestTraverseZeroDistanceVisitsNothing(t *testing.T) {
	require.Empty(t, collect(t, ontology(), 0, kb.AlgorithmChildren))
}

func TestTraverseStopsOnVisitError(t *testing.T) {
	boom := errors.New("boom")
	err := kb.Traverse(context.Background(), ontology(), "root", 2, kb.AlgorithmChildren, func(kb.EdgeRow) error { return boom })
	require.ErrorIs(t, err, boom)

	err = kb.Traverse(context.Background(), ontology(), "root", 2, kb.Algorithm("walk"), func(kb.EdgeRow) error { return nil })
	require.Error(t, err)
}

func TestTraverseSkippedEdgeIsNotExpanded(t *testing.T) {
	var rows []kb.EdgeRow
	err := kb.Traverse(context.Background(), ontology(), "root", 3, kb.AlgorithmChildren, func(r kb.EdgeRow) error {
		rows = append(rows, r)
		if r.Child == "a" {
			return kb.ErrSkipEdge
		}
		return nil
	})
	require.NoError(t, err)
	// c is still reached through b, but nothing is expanded from a
	require.Equal(t, []kb.EdgeRow{
		{Parent: "root", Child: "a", Depth: 1},
		{Parent: "root", Child: "b", Depth: 1},
		{Parent: "b", Child: "c", Depth: 2},
	}, rows)
}

func TestTraverseHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := kb.Traverse(ctx, ontology(), "root", 2, kb.AlgorithmChildren, func(kb.EdgeRow) error { return nil })
	require.ErrorIs(t, err, context.Canceled)
}

func TestParseAlgorithm(t *testing.T) {
	for _, alg := range kb.Algorithms() {
		got, err := kb.ParseAlgorithm(strings.ToUpper(string(alg)))
		require.NoError(t, err)
		require.Equal(t, alg, got)
	}
	_, err := kb.ParseAlgorithm("walk")
	require.Error(t, err)
}

func TestReadAssociationsNormalisesIdentifiers(t *testing.T) {
	in := strings.Join([]string{
		"gene\tdisease\tscore\tsource_name\tsource\tlevel\tevidence\tyear",
		"# comment",
		"ncbigene:7\tumls:C0000001\t0.8\tCTD\tCTD_human\tcurated\tpmid:11\t2001",
		"http://identifiers.org/ncbigene/42\tumls:C0000002\t0.2\tGWAS\tGWASCAT\tliterature",
	}, "\n")
	rows, err := kb.ReadAssociations(strings.NewReader(in))
	require.NoError(t, err)
	require.Equal(t, []kb.AssociationRow{
		{
			Gene: "http://identifiers.org/ncbigene/7", Disease: "http://linkedlifedata.com/resource/umls/id/C0000001",
			Score: 0.8, SourceName: "CTD", SourceLocator: "http://rdf.disgenet.org/v7.0.0/void/CTD_human", SourceLevel: "curated",
			Evidence: "http://identifiers.org/pubmed/11", EvidenceYear: 2001,
		},
		{
			Gene: "http://identifiers.org/ncbigene/42", Disease: "http://linkedlifedata.com/resource/umls/id/C0000002",
			Score: 0.2, SourceName: "GWAS", SourceLocator: "http://rdf.disgenet.org/v7.0.0/void/GWASCAT", SourceLevel: "literature",
		},
	}, rows)
}

func TestReadRejectsBadLines(t *testing.T) {
	cases := map[string]string{
		"malformed gene": "gene:7\tumls:C0000001\t0.8\tCTD\tCTD_human\tcurated",
		"bad score":      "ncbigene:7\tumls:C0000001\thigh\tCTD\tCTD_human\tcurated",
		"unknown level":  "ncbigene:7\tumls:C0000001\t0.8\tCTD\tCTD_human\trumour",
		"too few fields": "ncbigene:7\tumls:C0000001\t0.8",
		"bad year":       "ncbigene:7\tumls:C0000001\t0.8\tCTD\tCTD_human\tcurated\tpmid:1\tlast",
	}
	for name, line := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := kb.ReadAssociations(strings.NewReader(line))
			require.ErrorContains(t, err, "line 1")
		})
	}
	_, err := kb.ReadEdges(strings.NewReader("hp:0000001\tumls:C0000001"))
	require.Error(t, err)
}

func TestReadDatasetDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, kb.AnnotationsFile), []byte("umls:C0000001\thp:0000002\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, kb.EdgesFile), []byte("parent\tchild\nhp:0000001\thp:0000002\n"), 0o600))

	ds, err := kb.ReadDatasetDir(dir)
	require.NoError(t, err)
	require.Empty(t, ds.Associations)
	require.Equal(t, []kb.Annotation{{
		Disease:   "http://linkedlifedata.com/resource/umls/id/C0000001",
		Phenotype: "http://purl.obolibrary.org/obo/HP_0000002",
	}}, ds.Annotations)
	require.Equal(t, []kb.Edge{{
		Parent: "http://purl.obolibrary.org/obo/HP_0000001",
		Child:  "http://purl.obolibrary.org/obo/HP_0000002",
	}}, ds.Edges)
}

func TestSliceCursor(t *testing.T) {
	c := kb.NewSliceCursor([]int{1, 2})
	require.Zero(t, c.Row())
	rows, err := kb.Drain[int](c)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2}, rows)
	require.False(t, c.Next())
}
