package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPredicates(t *testing.T) {
	cases := []struct {
		path     string
		internal bool
		third    bool
	}{
		{"fmt", false, false},
		{"encoding/json", false, false},
		{"genepri/pkg/domain", false, false},
		{"genepri/internal/kb", true, false},
		{"genepri/internalish", false, false},
		{"go.uber.org/zap", false, true},
		{"github.com/spf13/viper", false, true},
	}
	for _, tc := range cases {
		if got := InternalImport(tc.path); got != tc.internal {
			t.Errorf("InternalImport(%q) = %v", tc.path, got)
		}
		if got := ThirdPartyImport(tc.path); got != tc.third {
			t.Errorf("ThirdPartyImport(%q) = %v", tc.path, got)
		}
		if got := CoreImport(tc.path); got != (tc.internal || tc.third) {
			t.Errorf("CoreImport(%q) = %v", tc.path, got)
		}
	}
}

func TestDirectImportViolations(t *testing.T) {
	dir := t.TempDir()
	src := "package x\n\nimport (\n\t\"fmt\"\n\t\"genepri/internal/kb\"\n)\n\nvar _ = fmt.Sprint\nvar _ kb.Edge\n"
	if err := os.WriteFile(filepath.Join(dir, "x.go"), []byte(src), 0o600); err != nil {
		t.Fatal(err)
	}
	testSrc := "package x\n\nimport \"go.uber.org/zap\"\n\nvar _ = zap.NewNop\n"
	if err := os.WriteFile(filepath.Join(dir, "x_test.go"), []byte(testSrc), 0o600); err != nil {
		t.Fatal(err)
	}
	viols, err := directImportViolations(dir, CoreImport)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(viols) != 1 || viols[0] != "genepri/internal/kb (in x.go)" {
		t.Fatalf("unexpected violations %v", viols)
	}
}
