package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"genepri/internal/kb"
)

// Load inserts ds in one transaction. Duplicate annotations and edges are
// ignored; association rows are appended as given.
func (s *Store) Load(ctx context.Context, ds kb.Dataset) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin load: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	insert := s.insertSQL("gene_disease_associations",
		[]string{"gene", "disease", "score", "source_name", "source_locator", "source_level", "evidence", "evidence_year"}, false)
	for _, r := range ds.Associations {
		var evidence, year any
		if r.Evidence != "" {
			evidence = r.Evidence
		}
		if r.EvidenceYear > 0 {
			year = int64(r.EvidenceYear)
		}
		if _, err = tx.ExecContext(ctx, insert, r.Gene, r.Disease, r.Score, r.SourceName, r.SourceLocator, r.SourceLevel, evidence, year); err != nil {
			return fmt.Errorf("insert association %s/%s: %w", r.Gene, r.Disease, err)
		}
	}

	insert = s.insertSQL("disease_phenotypes", []string{"disease", "phenotype"}, true)
	for _, a := range ds.Annotations {
		if _, err = tx.ExecContext(ctx, insert, a.Disease, a.Phenotype); err != nil {
			return fmt.Errorf("insert annotation %s/%s: %w", a.Disease, a.Phenotype, err)
		}
	}

	insert = s.insertSQL("phenotype_edges", []string{"parent", "child"}, true)
	for _, e := range ds.Edges {
		if _, err = tx.ExecContext(ctx, insert, e.Parent, e.Child); err != nil {
			return fmt.Errorf("insert edge %s/%s: %w", e.Parent, e.Child, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit load: %w", err)
	}
	return nil
}

func (s *Store) insertSQL(table string, cols []string, ignoreConflicts bool) string {
	marks := make([]string, len(cols))
	for i := range cols {
		marks[i] = s.dialect.Placeholder(i + 1)
	}
	stmt := "INSERT INTO " + table + " (" + strings.Join(cols, ", ") + ") VALUES (" + strings.Join(marks, ", ") + ")"
	if ignoreConflicts {
		stmt += " ON CONFLICT DO NOTHING"
	}
	return stmt
}

// Reset deletes every row.
func (s *Store) Reset(ctx context.Context) error {
	for _, table := range Tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("reset %s: %w", table, err)
		}
	}
	return nil
}

// Count returns the current table sizes.
func (s *Store) Count(ctx context.Context) (kb.Counts, error) {
	var c kb.Counts
	targets := []*int{&c.Associations, &c.Annotations, &c.Edges}
	for i, table := range Tables {
		var n sql.NullInt64
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			return kb.Counts{}, fmt.Errorf("count %s: %w", table, err)
		}
		*targets[i] = int(n.Int64)
	}
	return c, nil
}
