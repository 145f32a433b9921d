package collection

import "genepri/pkg/domain"

// Index is a set of pair records with O(1) grouping by either side.
//
// Membership is by value: a record whose two keys equal those of a stored
// record is considered already present, whatever payload it carries. Insert
// never overwrites a stored record. Callers accumulating payload onto a pair
// must mutate the canonical stored record, which GetOrInsert returns; building
// a second populated record and inserting it silently drops its payload.
//
// P is normally a pointer type so the returned handles alias the stored
// records. An Index is not safe for concurrent use.
type Index[A, B Entity, P Pair[A, B]] struct {
	items map[PairKey]P
	byA   map[domain.Key]map[PairKey]P
	byB   map[domain.Key]map[PairKey]P
}

// New returns an empty index.
func New[A, B Entity, P Pair[A, B]]() *Index[A, B, P] {
	x := &Index[A, B, P]{}
	x.init()
	return x
}

func (x *Index[A, B, P]) init() {
	if x.items == nil {
		x.items = make(map[PairKey]P)
		x.byA = make(map[domain.Key]map[PairKey]P)
		x.byB = make(map[domain.Key]map[PairKey]P)
	}
}

func keyOf[A, B Entity](p Pair[A, B]) PairKey {
	return PairKey{A: p.First().Key(), B: p.Second().Key()}
}

// Len returns the number of stored records.
func (x *Index[A, B, P]) Len() int { return len(x.items) }

// Contains reports whether a value-equal record is stored.
func (x *Index[A, B, P]) Contains(p P) bool {
	_, ok := x.items[keyOf[A, B](p)]
	return ok
}

// Insert stores p unless a value-equal record already exists. It returns
// false, leaving the stored record untouched, in the latter case.
func (x *Index[A, B, P]) Insert(p P) bool {
	_, inserted := x.GetOrInsert(p)
	return inserted
}

// GetOrInsert returns the canonical stored record for p's pair, storing p
// first when the pair is new. The boolean reports whether p was stored.
func (x *Index[A, B, P]) GetOrInsert(p P) (P, bool) {
	x.init()
	k := keyOf[A, B](p)
	if stored, ok := x.items[k]; ok {
		return stored, false
	}
	x.items[k] = p
	addToBucket(x.byA, k.A, k, p)
	addToBucket(x.byB, k.B, k, p)
	return p, true
}

// Get returns the canonical stored record value-equal to p.
func (x *Index[A, B, P]) Get(p P) (P, bool) {
	stored, ok := x.items[keyOf[A, B](p)]
	return stored, ok
}

// Lookup returns the stored record for the pair (a, b).
func (x *Index[A, B, P]) Lookup(a A, b B) (P, bool) {
	stored, ok := x.items[PairKey{A: a.Key(), B: b.Key()}]
	return stored, ok
}

// GroupByA returns the records whose first entity is a. The boolean is false
// when no record exists for a, which is distinct from an empty group (an
// empty group is never stored).
func (x *Index[A, B, P]) GroupByA(a A) ([]P, bool) {
	return bucketValues(x.byA, a.Key())
}

// GroupByB returns the records whose second entity is b.
func (x *Index[A, B, P]) GroupByB(b B) ([]P, bool) {
	return bucketValues(x.byB, b.Key())
}

// Remove deletes the record value-equal to p. It reports whether one existed.
func (x *Index[A, B, P]) Remove(p P) bool {
	return x.removeKey(keyOf[A, B](p))
}

// RemoveAll deletes every record value-equal to an element of ps. It reports
// whether anything was removed.
func (x *Index[A, B, P]) RemoveAll(ps []P) bool {
	changed := false
	for _, p := range ps {
		if x.Remove(p) {
			changed = true
		}
	}
	return changed
}

// RetainOnly deletes every record not value-equal to an element of keep. It
// reports whether anything was removed.
func (x *Index[A, B, P]) RetainOnly(keep []P) bool {
	wanted := make(map[PairKey]struct{}, len(keep))
	for _, p := range keep {
		wanted[keyOf[A, B](p)] = struct{}{}
	}
	var drop []PairKey
	for k := range x.items {
		if _, ok := wanted[k]; !ok {
			drop = append(drop, k)
		}
	}
	for _, k := range drop {
		x.removeKey(k)
	}
	return len(drop) > 0
}

// Clear removes every record and bucket.
func (x *Index[A, B, P]) Clear() {
	x.items = nil
	x.byA = nil
	x.byB = nil
	x.init()
}

// Values returns the stored records in unspecified order.
func (x *Index[A, B, P]) Values() []P {
	out := make([]P, 0, len(x.items))
	for _, p := range x.items {
		out = append(out, p)
	}
	return out
}

// KeysA returns the distinct first entities in unspecified order.
func (x *Index[A, B, P]) KeysA() []A {
	out := make([]A, 0, len(x.byA))
	for _, bucket := range x.byA {
		for _, p := range bucket {
			out = append(out, p.First())
			break
		}
	}
	return out
}

// KeysB returns the distinct second entities in unspecified order.
func (x *Index[A, B, P]) KeysB() []B {
	out := make([]B, 0, len(x.byB))
	for _, bucket := range x.byB {
		for _, p := range bucket {
			out = append(out, p.Second())
			break
		}
	}
	return out
}

func (x *Index[A, B, P]) removeKey(k PairKey) bool {
	if _, ok := x.items[k]; !ok {
		return false
	}
	delete(x.items, k)
	removeFromBucket(x.byA, k.A, k)
	removeFromBucket(x.byB, k.B, k)
	return true
}

func addToBucket[P any](buckets map[domain.Key]map[PairKey]P, side domain.Key, k PairKey, p P) {
	bucket, ok := buckets[side]
	if !ok {
		bucket = make(map[PairKey]P)
		buckets[side] = bucket
	}
	bucket[k] = p
}

// removeFromBucket drops k from its bucket and the bucket itself once empty.
func removeFromBucket[P any](buckets map[domain.Key]map[PairKey]P, side domain.Key, k PairKey) {
	bucket, ok := buckets[side]
	if !ok {
		return
	}
	delete(bucket, k)
	if len(bucket) == 0 {
		delete(buckets, side)
	}
}

func bucketValues[P any](buckets map[domain.Key]map[PairKey]P, side domain.Key) ([]P, bool) {
	bucket, ok := buckets[side]
	if !ok {
		return nil, false
	}
	out := make([]P, 0, len(bucket))
	for _, p := range bucket {
		out = append(out, p)
	}
	return out, true
}
