package phenotype

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"genepri/pkg/domain"
)

func hp(t *testing.T, n int) domain.Phenotype {
	t.Helper()
	p, err := domain.NewPhenotype(fmt.Sprintf("hp:%07d", n))
	if err != nil {
		t.Fatalf("phenotype %d: %v", n, err)
	}
	return p
}

func codes(ps []domain.Phenotype) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Code())
	}
	return out
}

func TestInsertRelaxesToShortestDistance(t *testing.T) {
	root, p := hp(t, 1), hp(t, 2)
	n := NewNetwork(root, WithPolicy(FrontierRelaxed))

	steps := []struct {
		distance int
		changed  bool
		want     int
	}{
		{5, true, 5},
		{2, true, 2},
		{6, false, 2},
		{2, false, 2},
	}
	for i, s := range steps {
		changed, err := n.Insert(p, s.distance)
		if err != nil {
			t.Fatalf("step %d: unexpected error %v", i, err)
		}
		if changed != s.changed {
			t.Fatalf("step %d: changed=%v want %v", i, changed, s.changed)
		}
		if d, ok := n.DistanceOf(p); !ok || d != s.want {
			t.Fatalf("step %d: distance=%d,%v want %d", i, d, ok, s.want)
		}
	}

	// the level p left stays known but empty
	at5, ok := n.AtDistance(5)
	if !ok || len(at5) != 0 {
		t.Fatalf("expected empty level 5, got %v (%v)", codes(at5), ok)
	}
	if diff := cmp.Diff([]int{0, 2, 5}, n.Distances()); diff != "" {
		t.Fatalf("distances mismatch (-want +got):\n%s", diff)
	}
	if n.Deepest() != 5 {
		t.Fatalf("expected deepest level 5, got %d", n.Deepest())
	}
}

func TestRootStaysAtDistanceZero(t *testing.T) {
	root := hp(t, 1)
	n := NewNetwork(root)

	if d, ok := n.DistanceOf(root); !ok || d != 0 {
		t.Fatalf("root distance=%d,%v", d, ok)
	}
	changed, err := n.Insert(root, 0)
	if err != nil || changed {
		t.Fatalf("re-inserting root at 0: changed=%v err=%v", changed, err)
	}
	changed, err = n.Insert(root, 1)
	if err != nil || changed {
		t.Fatalf("inserting root deeper: changed=%v err=%v", changed, err)
	}
	if d, _ := n.DistanceOf(root); d != 0 {
		t.Fatalf("root moved to %d", d)
	}

	_, err = n.Insert(hp(t, 2), 0)
	if !errors.Is(err, ErrRootDistance) {
		t.Fatalf("expected ErrRootDistance, got %v", err)
	}
	var de *DistanceError
	if !errors.As(err, &de) || de.Distance != 0 || de.Phenotype.Code() != "hp:0000002" {
		t.Fatalf("expected DistanceError detail, got %#v", err)
	}
	if n.Contains(hp(t, 2)) {
		t.Fatalf("rejected phenotype must not be stored")
	}

	if _, err := n.Insert(hp(t, 3), -1); !errors.Is(err, ErrNegativeDistance) {
		t.Fatalf("expected ErrNegativeDistance, got %v", err)
	}
}

func TestBatchedInsertKeepsEachPhenotypeAtOneLevel(t *testing.T) {
	root, p1, p2, p3 := hp(t, 10), hp(t, 1), hp(t, 2), hp(t, 3)
	n := NewNetwork(root)

	if err := n.InsertMany([]domain.Phenotype{p1, p2}, 1); err != nil {
		t.Fatalf("level 1: %v", err)
	}
	if err := n.InsertMany([]domain.Phenotype{p2, p3}, 2); err != nil {
		t.Fatalf("level 2: %v", err)
	}

	if d, _ := n.DistanceOf(p2); d != 1 {
		t.Fatalf("expected p2 at 1, got %d", d)
	}
	at1, _ := n.AtDistance(1)
	if diff := cmp.Diff([]string{"hp:0000001", "hp:0000002"}, codes(at1)); diff != "" {
		t.Fatalf("level 1 mismatch (-want +got):\n%s", diff)
	}
	at2, _ := n.AtDistance(2)
	if diff := cmp.Diff([]string{"hp:0000003"}, codes(at2)); diff != "" {
		t.Fatalf("level 2 mismatch (-want +got):\n%s", diff)
	}
	if _, ok := n.AtDistance(3); ok {
		t.Fatalf("level 3 was never created")
	}
	if n.Len() != 4 {
		t.Fatalf("expected 4 phenotypes, got %d", n.Len())
	}
	assertSingleLevel(t, n)
}

func TestStrictFrontierRejectsSkippedLevels(t *testing.T) {
	root := hp(t, 1)
	n := NewNetwork(root)
	if n.Policy() != FrontierStrict {
		t.Fatalf("expected strict default, got %s", n.Policy())
	}

	_, err := n.Insert(hp(t, 2), 2)
	if !errors.Is(err, ErrDiscontinuousFrontier) {
		t.Fatalf("expected ErrDiscontinuousFrontier, got %v", err)
	}
	if _, err := n.Insert(hp(t, 2), 1); err != nil {
		t.Fatalf("level 1: %v", err)
	}
	if _, err := n.Insert(hp(t, 3), 2); err != nil {
		t.Fatalf("level 2: %v", err)
	}
	// relaxing a known phenotype never trips the frontier check
	if changed, err := n.Insert(hp(t, 3), 1); err != nil || !changed {
		t.Fatalf("relax: changed=%v err=%v", changed, err)
	}

	err = n.InsertMany([]domain.Phenotype{hp(t, 4), hp(t, 5)}, 4)
	if !errors.Is(err, ErrDiscontinuousFrontier) {
		t.Fatalf("expected batch rejection, got %v", err)
	}

	relaxed := NewNetwork(root, WithPolicy(FrontierRelaxed))
	if _, err := relaxed.Insert(hp(t, 2), 7); err != nil {
		t.Fatalf("relaxed policy rejected insert: %v", err)
	}
}

func TestInsertManyStopsAtFirstError(t *testing.T) {
	root := hp(t, 1)
	n := NewNetwork(root)
	mustInsert(t, n, hp(t, 2), 1)

	err := n.InsertMany([]domain.Phenotype{root, hp(t, 3), hp(t, 4)}, 0)
	var distErr *DistanceError
	if !errors.As(err, &distErr) || !errors.Is(err, ErrRootDistance) {
		t.Fatalf("expected a root distance error, got %v", err)
	}
	if distErr.Phenotype != hp(t, 3) {
		t.Fatalf("expected the first offending phenotype, got %s", distErr.Phenotype)
	}
	if n.Len() != 2 || n.Contains(hp(t, 3)) || n.Contains(hp(t, 4)) {
		t.Fatalf("failed batch changed the network: %v", codes(n.Phenotypes()))
	}
}

func TestWithinFiltersByDistance(t *testing.T) {
	n := NewNetwork(hp(t, 1), WithPolicy(FrontierRelaxed))
	mustInsert(t, n, hp(t, 2), 1)
	mustInsert(t, n, hp(t, 3), 2)
	mustInsert(t, n, hp(t, 4), 3)

	if diff := cmp.Diff([]string{"hp:0000001", "hp:0000002", "hp:0000003"}, codes(n.Within(2))); diff != "" {
		t.Fatalf("within mismatch (-want +got):\n%s", diff)
	}
	if len(n.Phenotypes()) != 4 {
		t.Fatalf("expected all phenotypes, got %v", codes(n.Phenotypes()))
	}
}

func TestParseFrontierPolicy(t *testing.T) {
	for in, want := range map[string]FrontierPolicy{"strict": FrontierStrict, " Relaxed ": FrontierRelaxed} {
		got, err := ParseFrontierPolicy(in)
		if err != nil || got != want {
			t.Fatalf("parse %q: got %q err %v", in, got, err)
		}
	}
	if _, err := ParseFrontierPolicy("lenient"); err == nil {
		t.Fatalf("expected error for unknown policy")
	}
}

func TestSnapshotListsLevels(t *testing.T) {
	n := NewNetwork(hp(t, 1))
	mustInsert(t, n, hp(t, 3), 1)
	mustInsert(t, n, hp(t, 2), 1)

	want := Snapshot{
		Root: "hp:0000001",
		Levels: []Level{
			{Distance: 0, Phenotypes: []string{"hp:0000001"}},
			{Distance: 1, Phenotypes: []string{"hp:0000002", "hp:0000003"}},
		},
	}
	if diff := cmp.Diff(want, n.Snapshot()); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func mustInsert(t *testing.T, n *Network, p domain.Phenotype, d int) {
	t.Helper()
	if _, err := n.Insert(p, d); err != nil {
		t.Fatalf("insert %s@%d: %v", p, d, err)
	}
}

func assertSingleLevel(t *testing.T, n *Network) {
	t.Helper()
	seen := make(map[domain.Key]int)
	for _, d := range n.Distances() {
		ps, _ := n.AtDistance(d)
		for _, p := range ps {
			if prev, dup := seen[p.Key()]; dup {
				t.Fatalf("%s present at %d and %d", p, prev, d)
			}
			seen[p.Key()] = d
			if got, _ := n.DistanceOf(p); got != d {
				t.Fatalf("%s listed at %d but distance is %d", p, d, got)
			}
		}
	}
	if len(seen) != n.Len() {
		t.Fatalf("levels hold %d phenotypes, network has %d", len(seen), n.Len())
	}
}
