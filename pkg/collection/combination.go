// Package collection provides the dual-indexed pair container used to
// aggregate gene-disease rows.
//
// An Index stores pair records (a Combination or a type embedding one) and
// keeps two groupings in step with the primary set: one bucket per distinct
// first entity and one per distinct second entity. A record belongs to the
// primary set if and only if it belongs to exactly one bucket on each side,
// and a bucket disappears the moment its last record is removed.
package collection

import "genepri/pkg/domain"

// Entity is anything identified by a domain key.
type Entity interface {
	Key() domain.Key
}

// Pair is a record keyed by two entities. Equality of pairs is defined by the
// keys of both sides only; any payload a record carries is ignored.
type Pair[A, B Entity] interface {
	First() A
	Second() B
}

// PairKey is the comparable value identity of a pair.
type PairKey struct {
	A domain.Key
	B domain.Key
}

// Combination is the plain value pair record. Richer records embed it.
type Combination[A, B Entity] struct {
	first  A
	second B
}

// NewCombination pairs a with b.
func NewCombination[A, B Entity](a A, b B) Combination[A, B] {
	return Combination[A, B]{first: a, second: b}
}

// First returns the first entity of the pair.
func (c Combination[A, B]) First() A { return c.first }

// Second returns the second entity of the pair.
func (c Combination[A, B]) Second() B { return c.second }

// PairKey returns the value identity of the pair.
func (c Combination[A, B]) PairKey() PairKey {
	return PairKey{A: c.first.Key(), B: c.second.Key()}
}

// Equal reports value equality of the two pairs.
func (c Combination[A, B]) Equal(other Combination[A, B]) bool {
	return c.PairKey() == other.PairKey()
}
