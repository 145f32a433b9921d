// Package sqlstore implements the knowledge base on database/sql. The sqlite
// and postgres packages bind it to a driver and placeholder dialect.
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"genepri/internal/kb"
)

var (
	_ kb.KnowledgeBase = (*Store)(nil)
	_ kb.Loader        = (*Store)(nil)
)

// Dialect captures the SQL differences between supported databases.
type Dialect struct {
	Name string
	// Placeholder renders the n-th bind parameter, starting at 1.
	Placeholder func(n int) string
	// InList renders "column is one of the values bound at placeholder".
	InList func(column, placeholder string) string
	// ListArg encodes a list of values as the single argument InList binds.
	ListArg func(vs []string) any
}

var (
	// SQLite uses positional ? parameters and passes a list as one JSON array
	// expanded by json_each.
	SQLite = Dialect{
		Name:        "sqlite",
		Placeholder: func(int) string { return "?" },
		InList: func(column, placeholder string) string {
			return column + " IN (SELECT value FROM json_each(" + placeholder + "))"
		},
		ListArg: jsonArray,
	}
	// Postgres uses numbered $n parameters and binds lists as text[].
	Postgres = Dialect{
		Name:        "postgres",
		Placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
		InList: func(column, placeholder string) string {
			return column + " = ANY(" + placeholder + ")"
		},
		ListArg: func(vs []string) any { return vs },
	}
)

func jsonArray(vs []string) any {
	if vs == nil {
		vs = []string{}
	}
	b, _ := json.Marshal(vs) // a []string always marshals
	return string(b)
}

// Schema creates the knowledge base tables. Statements are separated by ";".
const Schema = `
CREATE TABLE IF NOT EXISTS gene_disease_associations (
	gene TEXT NOT NULL,
	disease TEXT NOT NULL,
	score DOUBLE PRECISION NOT NULL,
	source_name TEXT NOT NULL,
	source_locator TEXT NOT NULL,
	source_level TEXT NOT NULL,
	evidence TEXT,
	evidence_year INTEGER
);
CREATE INDEX IF NOT EXISTS gene_disease_associations_disease_idx ON gene_disease_associations (disease);
CREATE TABLE IF NOT EXISTS disease_phenotypes (
	disease TEXT NOT NULL,
	phenotype TEXT NOT NULL,
	PRIMARY KEY (phenotype, disease)
);
CREATE TABLE IF NOT EXISTS phenotype_edges (
	parent TEXT NOT NULL,
	child TEXT NOT NULL,
	PRIMARY KEY (parent, child)
);
CREATE INDEX IF NOT EXISTS phenotype_edges_child_idx ON phenotype_edges (child)
`

// Tables lists the knowledge base tables in load order.
var Tables = []string{"gene_disease_associations", "disease_phenotypes", "phenotype_edges"}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Store serves knowledge base queries from a *sql.DB.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

// New applies Schema and returns a store using db.
func New(ctx context.Context, db *sql.DB, dialect Dialect) (*Store, error) {
	if err := ApplySchema(ctx, db); err != nil {
		return nil, err
	}
	return &Store{db: db, dialect: dialect}, nil
}

// ApplySchema executes each Schema statement.
func ApplySchema(ctx context.Context, db execer) error {
	for _, stmt := range SplitStatements(Schema) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("execute ddl: %w", err)
		}
	}
	return nil
}

// SplitStatements splits a script on ";" and drops blank statements.
func SplitStatements(script string) []string {
	var out []string
	for _, stmt := range strings.Split(script, ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}

// DB exposes the underlying handle.
func (s *Store) DB() *sql.DB { return s.db }

// Dialect returns the placeholder dialect in use.
func (s *Store) Dialect() Dialect { return s.dialect }

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

type binder struct {
	dialect Dialect
	args    []any
}

func (b *binder) bind(v any) string {
	b.args = append(b.args, v)
	return b.dialect.Placeholder(len(b.args))
}

// in binds vs as one parameter and renders the membership test for column.
func (b *binder) in(column string, vs []string) string {
	return b.dialect.InList(column, b.bind(b.dialect.ListArg(vs)))
}

// AssociationsQuery renders the SQL and arguments for q.
func (s *Store) AssociationsQuery(q kb.AssociationQuery) (string, []any) {
	b := &binder{dialect: s.dialect}
	var sb strings.Builder
	sb.WriteString(`SELECT a.gene, a.disease, a.score, a.source_name, a.source_locator, a.source_level, a.evidence, a.evidence_year
FROM gene_disease_associations a
WHERE a.disease IN (SELECT dp.disease FROM disease_phenotypes dp WHERE `)
	sb.WriteString(b.in("dp.phenotype", q.Phenotypes))
	sb.WriteString(")\nAND a.score >= ")
	sb.WriteString(b.bind(q.MinScore))
	if len(q.Levels) > 0 {
		levels := make([]string, len(q.Levels))
		for i, l := range q.Levels {
			levels[i] = string(l)
		}
		sb.WriteString("\nAND ")
		sb.WriteString(b.in("a.source_level", levels))
	}
	sb.WriteString("\nORDER BY a.gene, a.disease, a.source_locator, a.evidence")
	return sb.String(), b.args
}

// EdgesQuery renders the SQL and arguments for q.
func (s *Store) EdgesQuery(q kb.EdgeQuery) (string, []any) {
	b := &binder{dialect: s.dialect}
	col := "parent"
	if q.Direction == kb.Up {
		col = "child"
	}
	return "SELECT parent, child FROM phenotype_edges WHERE " + b.in(col, q.Frontier) + " ORDER BY parent, child", b.args
}

// Associations implements kb.KnowledgeBase.
func (s *Store) Associations(ctx context.Context, q kb.AssociationQuery) (kb.AssociationCursor, error) {
	if len(q.Phenotypes) == 0 {
		return kb.NewSliceCursor[kb.AssociationRow](nil), nil
	}
	query, args := s.AssociationsQuery(q)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select associations: %w", err)
	}
	return &rowsCursor[kb.AssociationRow]{rows: rows, scan: scanAssociation}, nil
}

// Edges implements kb.KnowledgeBase.
func (s *Store) Edges(ctx context.Context, q kb.EdgeQuery) (kb.EdgeCursor, error) {
	if len(q.Frontier) == 0 {
		return kb.NewSliceCursor[kb.Edge](nil), nil
	}
	query, args := s.EdgesQuery(q)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select edges: %w", err)
	}
	return &rowsCursor[kb.Edge]{rows: rows, scan: scanEdge}, nil
}

func scanAssociation(rows *sql.Rows) (kb.AssociationRow, error) {
	var (
		row      kb.AssociationRow
		evidence sql.NullString
		year     sql.NullInt64
	)
	err := rows.Scan(&row.Gene, &row.Disease, &row.Score, &row.SourceName, &row.SourceLocator, &row.SourceLevel, &evidence, &year)
	if err != nil {
		return kb.AssociationRow{}, fmt.Errorf("scan association: %w", err)
	}
	row.Evidence = evidence.String
	row.EvidenceYear = int(year.Int64)
	return row, nil
}

func scanEdge(rows *sql.Rows) (kb.Edge, error) {
	var e kb.Edge
	if err := rows.Scan(&e.Parent, &e.Child); err != nil {
		return kb.Edge{}, fmt.Errorf("scan edge: %w", err)
	}
	return e, nil
}

type rowsCursor[T any] struct {
	rows *sql.Rows
	scan func(*sql.Rows) (T, error)
	row  T
	err  error
}

func (c *rowsCursor[T]) Next() bool {
	if c.err != nil || !c.rows.Next() {
		return false
	}
	c.row, c.err = c.scan(c.rows)
	return c.err == nil
}

func (c *rowsCursor[T]) Row() T { return c.row }

func (c *rowsCursor[T]) Err() error {
	if c.err != nil {
		return c.err
	}
	return c.rows.Err()
}

func (c *rowsCursor[T]) Close() error { return c.rows.Close() }
