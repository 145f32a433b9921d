package blob

import (
	"sort"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

// TestInfraImportBoundaries keeps the backend packages behind their facades:
// only internal/blob may import the archive backends and only
// internal/storage may import the knowledge base backends. Test variants are
// exempt so tests can seed in-memory fixtures.
func TestInfraImportBoundaries(t *testing.T) {
	rules := []struct {
		infra   string
		allowed string
	}{
		{infra: "genepri/internal/infra/blob", allowed: "genepri/internal/blob"},
		{infra: "genepri/internal/infra/kb", allowed: "genepri/internal/storage"},
	}

	cfg := &packages.Config{Mode: packages.NeedName | packages.NeedImports, Tests: true}
	pkgs, err := packages.Load(cfg, "genepri/...")
	if err != nil {
		t.Fatalf("load packages: %v", err)
	}

	seen := make(map[string]struct{})
	for _, pkg := range pkgs {
		if strings.HasSuffix(pkg.PkgPath, "_test") || strings.Contains(pkg.ID, ".test]") {
			continue
		}
		for _, r := range rules {
			if hasPathPrefix(pkg.PkgPath, r.allowed) || hasPathPrefix(pkg.PkgPath, r.infra) {
				continue
			}
			for importPath := range pkg.Imports {
				if hasPathPrefix(importPath, r.infra) {
					seen[pkg.PkgPath+": "+importPath] = struct{}{}
				}
			}
		}
	}

	if len(seen) > 0 {
		violations := make([]string, 0, len(seen))
		for v := range seen {
			violations = append(violations, v)
		}
		sort.Strings(violations)
		for _, v := range violations {
			t.Errorf("forbidden infra import: %s", v)
		}
	}
}

func hasPathPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}
