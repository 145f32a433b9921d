package kb

// Cursor iterates query results in the manner of *sql.Rows.
type Cursor[T any] interface {
	// Next advances to the next row and reports whether one is available.
	Next() bool
	// Row returns the current row.
	Row() T
	// Err returns the error that stopped iteration, if any.
	Err() error
	Close() error
}

// AssociationCursor streams association rows.
type AssociationCursor = Cursor[AssociationRow]

// EdgeCursor streams ontology edges.
type EdgeCursor = Cursor[Edge]

// SliceCursor serves rows from memory.
type SliceCursor[T any] struct {
	rows []T
	pos  int
}

// NewSliceCursor returns a cursor over rows.
func NewSliceCursor[T any](rows []T) *SliceCursor[T] {
	return &SliceCursor[T]{rows: rows}
}

// Next implements Cursor.
func (c *SliceCursor[T]) Next() bool {
	if c.pos >= len(c.rows) {
		return false
	}
	c.pos++
	return true
}

// Row implements Cursor.
func (c *SliceCursor[T]) Row() T {
	if c.pos == 0 {
		var zero T
		return zero
	}
	return c.rows[c.pos-1]
}

// Err implements Cursor.
func (c *SliceCursor[T]) Err() error { return nil }

// Close implements Cursor.
func (c *SliceCursor[T]) Close() error {
	c.pos = len(c.rows)
	return nil
}

// Drain reads every remaining row and closes the cursor.
func Drain[T any](c Cursor[T]) ([]T, error) {
	defer func() { _ = c.Close() }()
	var out []T
	for c.Next() {
		out = append(out, c.Row())
	}
	return out, c.Err()
}
