package kb

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

// ErrSkipEdge is returned by a Traverse visit func to drop an edge: its far
// end is not added to the next frontier.
var ErrSkipEdge = errors.New("skip edge")

// Traverse walks the ontology breadth first from root, one EdgeQuery per
// level and direction, and calls visit for every edge touching the frontier
// in order of increasing depth. Phenotypes reached again at a later level are
// still reported but not expanded twice. maxDistance <= 0 visits nothing.
// A visit func returning ErrSkipEdge drops that edge; any other error stops
// the walk.
func Traverse(ctx context.Context, k KnowledgeBase, root string, maxDistance int, alg Algorithm, visit func(EdgeRow) error) error {
	directions := []Direction{Down}
	switch alg {
	case AlgorithmChildren:
	case AlgorithmDistance:
		directions = append(directions, Up)
	default:
		return fmt.Errorf("unknown expansion algorithm %q", alg)
	}

	expanded := map[string]bool{root: true}
	frontier := []string{root}
	for depth := 1; depth <= maxDistance && len(frontier) > 0; depth++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		reached := make(map[string]bool)
		var next []string
		for _, dir := range directions {
			err := walkLevel(ctx, k, EdgeQuery{Frontier: frontier, Direction: dir}, func(from, to string) error {
				if err := visit(EdgeRow{Parent: from, Child: to, Depth: depth}); err != nil {
					if errors.Is(err, ErrSkipEdge) {
						return nil
					}
					return err
				}
				if !expanded[to] && !reached[to] {
					reached[to] = true
					next = append(next, to)
				}
				return nil
			})
			if err != nil {
				return fmt.Errorf("traverse %s depth %d: %w", root, depth, err)
			}
		}
		for _, p := range next {
			expanded[p] = true
		}
		slices.Sort(next)
		frontier = next
	}
	return nil
}

func walkLevel(ctx context.Context, k KnowledgeBase, q EdgeQuery, fn func(from, to string) error) error {
	cur, err := k.Edges(ctx, q)
	if err != nil {
		return err
	}
	defer func() { _ = cur.Close() }()
	for cur.Next() {
		e := cur.Row()
		from, to := e.Parent, e.Child
		if q.Direction == Up {
			from, to = e.Child, e.Parent
		}
		if err := fn(from, to); err != nil {
			return err
		}
	}
	return cur.Err()
}
