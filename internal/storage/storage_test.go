package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"genepri/internal/config"
	"genepri/internal/kb"
)

func TestOpenMemorySeedsDataset(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, kb.EdgesFile), []byte("hp:0000001\thp:0000002\n"), 0o600); err != nil {
		t.Fatalf("write edges: %v", err)
	}
	store, err := Open(context.Background(), config.KB{Driver: "memory", DatasetDir: dir})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = store.Close() }()

	cur, err := store.Edges(context.Background(), kb.EdgeQuery{Frontier: []string{"http://purl.obolibrary.org/obo/HP_0000001"}})
	if err != nil {
		t.Fatalf("edges: %v", err)
	}
	edges, err := kb.Drain(cur)
	if err != nil || len(edges) != 1 {
		t.Fatalf("expected one seeded edge, got %v %v", edges, err)
	}
}

func TestOpenMemoryRejectsBadDataset(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, kb.EdgesFile), []byte("nope\thp:0000002\n"), 0o600); err != nil {
		t.Fatalf("write edges: %v", err)
	}
	if _, err := Open(context.Background(), config.KB{Driver: "memory", DatasetDir: dir}); err == nil {
		t.Fatalf("expected dataset error")
	}
}

func TestOpenSQLite(t *testing.T) {
	store, err := Open(context.Background(), config.KB{Driver: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "kb.db")})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), config.KB{Driver: "oracle"}); err == nil {
		t.Fatalf("expected unknown driver error")
	}
}
