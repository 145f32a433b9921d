package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"genepri/internal/kb"
	"genepri/pkg/phenotype"
)

const (
	edgesTSV = "parent\tchild\n" +
		"hp:0000118\thp:0000707\n" +
		"hp:0000707\thp:0001250\n"
	annotationsTSV = "disease\tphenotype\n" +
		"umls:C0000001\thp:0000707\n" +
		"umls:C0000002\thp:0001250\n"
	associationsTSV = "gene\tdisease\tscore\tsource_name\tsource\tlevel\tevidence\tyear\n" +
		"ncbigene:7\tumls:C0000001\t0.9\tCTD\tCTD_human\tcurated\tpmid:1\t2020\n" +
		"ncbigene:20\tumls:C0000002\t0.5\tMGD\tMGD\tanimal_model\t\t\n"
)

type fixture struct {
	dir     string
	config  string
	reports string
}

func writeDataset(t *testing.T, dir string) {
	t.Helper()
	files := map[string]string{
		kb.EdgesFile:        edgesTSV,
		kb.AnnotationsFile:  annotationsTSV,
		kb.AssociationsFile: associationsTSV,
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
	}
}

// newFixture writes a dataset and a config selecting the memory knowledge
// base seeded from it.
func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	dataset := filepath.Join(dir, "dataset")
	require.NoError(t, os.Mkdir(dataset, 0o755))
	writeDataset(t, dataset)

	f := fixture{dir: dir, config: filepath.Join(dir, "genepri.yaml"), reports: filepath.Join(dir, "reports")}
	cfg := "kb:\n" +
		"  driver: memory\n" +
		"  dataset_dir: " + dataset + "\n" +
		"blob:\n" +
		"  driver: fs\n" +
		"  fs_root: " + f.reports + "\n" +
		"log:\n" +
		"  level: error\n"
	require.NoError(t, os.WriteFile(f.config, []byte(cfg), 0o600))
	return f
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestPrioritizeStdout(t *testing.T) {
	f := newFixture(t)

	out, err := execute(t, "--config", f.config, "prioritize", "-p", "hp:0000118", "--distance", "1", "--stdout")
	require.NoError(t, err)
	require.Equal(t,
		"rank\tgene\tgene_name\tgene_score\tdisease\tdisease_name\tscore\tsources\tevidence\n"+
			"1\tncbigene:7\t\t0.9\tumls:C0000001\t\t0.9\tCTD_human:1\tpmid:1\n",
		out)

	out, err = execute(t, "--config", f.config, "prioritize", "-p", "hp:0000118", "--distance", "2", "--stdout")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	require.True(t, strings.HasPrefix(lines[2], "2\tncbigene:20\t"))
}

func TestPrioritizeWithoutExpansionFindsNothing(t *testing.T) {
	f := newFixture(t)
	out, err := execute(t, "--config", f.config, "prioritize", "-p", "hp:0000118", "--stdout")
	require.NoError(t, err)
	require.Equal(t, "rank\tgene\tgene_name\tgene_score\tdisease\tdisease_name\tscore\tsources\tevidence\n", out)
}

func TestPrioritizeLevelFilter(t *testing.T) {
	f := newFixture(t)
	out, err := execute(t, "--config", f.config, "prioritize", "-p", "hp:0000118", "--distance", "2", "--level", "animal_model", "--stdout")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	require.True(t, strings.HasPrefix(lines[1], "1\tncbigene:20\t"))
}

func TestPrioritizePublishes(t *testing.T) {
	f := newFixture(t)

	out, err := execute(t, "--config", f.config, "prioritize", "-p", "hp:0000118", "--distance", "1", "--run-id", "r1", "--format", "json")
	require.NoError(t, err)
	require.Equal(t, "runs/r1/prioritization.json\nruns/r1/networks.json\n", out)

	body, err := os.ReadFile(filepath.Join(f.reports, "runs", "r1", "networks.json"))
	require.NoError(t, err)
	var networks []phenotype.Snapshot
	require.NoError(t, json.Unmarshal(body, &networks))
	require.Equal(t, []phenotype.Snapshot{{
		Root: "hp:0000118",
		Levels: []phenotype.Level{
			{Distance: 0, Phenotypes: []string{"hp:0000118"}},
			{Distance: 1, Phenotypes: []string{"hp:0000707"}},
		},
	}}, networks)

	_, err = execute(t, "--config", f.config, "prioritize", "-p", "hp:0000118", "--run-id", "r1", "--format", "json")
	require.Error(t, err, "a run id is published once")
}

func TestPrioritizeRejectsBadInput(t *testing.T) {
	f := newFixture(t)
	cases := [][]string{
		{"prioritize", "--stdout"},
		{"prioritize", "-p", "HP:118", "--stdout"},
		{"prioritize", "-p", "hp:0000118", "--distance", "-1", "--stdout"},
		{"prioritize", "-p", "hp:0000118", "--algorithm", "bfs", "--stdout"},
		{"prioritize", "-p", "hp:0000118", "--strict", "--relaxed", "--stdout"},
		{"prioritize", "-p", "hp:0000118", "--format", "xml", "--stdout"},
		{"prioritize", "-p", "hp:0000118", "--min-score", "2", "--stdout"},
		{"prioritize", "-p", "hp:0000118", "--level", "rumour", "--stdout"},
	}
	for _, args := range cases {
		_, err := execute(t, append([]string{"--config", f.config}, args...)...)
		require.Error(t, err, "%v", args)
	}
}

func TestExpandDistanceAlgorithm(t *testing.T) {
	f := newFixture(t)
	out, err := execute(t, "--config", f.config, "expand", "-p", "hp:0000707", "--distance", "1", "--algorithm", "distance")
	require.NoError(t, err)
	require.Equal(t,
		"root\tdistance\tphenotype\n"+
			"hp:0000707\t0\thp:0000707\n"+
			"hp:0000707\t1\thp:0000118\n"+
			"hp:0000707\t1\thp:0001250\n",
		out)
}

func TestKBImportAndStats(t *testing.T) {
	f := newFixture(t)
	t.Setenv("GENEPRI_KB_DRIVER", "sqlite")
	t.Setenv("GENEPRI_KB_SQLITE_PATH", filepath.Join(f.dir, "kb.db"))
	dataset := filepath.Join(f.dir, "dataset")

	out, err := execute(t, "--config", f.config, "kb", "import", "--dir", dataset)
	require.NoError(t, err)
	require.Equal(t, "associations\t2\nannotations\t2\nedges\t2\n", out)

	out, err = execute(t, "--config", f.config, "kb", "import",
		"--edges", filepath.Join(dataset, kb.EdgesFile),
		"--associations", filepath.Join(dataset, kb.AssociationsFile))
	require.NoError(t, err)
	require.Equal(t, "associations\t4\nannotations\t2\nedges\t2\n", out, "edges are deduplicated, associations are not")

	out, err = execute(t, "--config", f.config, "kb", "import", "--replace", "--dir", dataset)
	require.NoError(t, err)
	require.Equal(t, "associations\t2\nannotations\t2\nedges\t2\n", out)

	out, err = execute(t, "--config", f.config, "kb", "stats")
	require.NoError(t, err)
	require.Equal(t, "associations\t2\nannotations\t2\nedges\t2\n", out)

	out, err = execute(t, "--config", f.config, "prioritize", "-p", "hp:0000118", "--distance", "2", "--stdout")
	require.NoError(t, err)
	require.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 3)

	_, err = execute(t, "--config", f.config, "kb", "import")
	require.Error(t, err)
}

func TestConfigRedactsSecrets(t *testing.T) {
	f := newFixture(t)
	t.Setenv("GENEPRI_BLOB_S3_SECRET_ACCESS_KEY", "hunter2")
	t.Setenv("GENEPRI_KB_POSTGRES_DSN", "postgres://app:pa55@db/genepri")

	out, err := execute(t, "--config", f.config, "config")
	require.NoError(t, err)
	require.NotContains(t, out, "hunter2")
	require.NotContains(t, out, "pa55")
	require.Contains(t, out, "driver: memory")
}

func TestInvalidConfigFails(t *testing.T) {
	f := newFixture(t)
	t.Setenv("GENEPRI_OUTPUT_FORMAT", "xml")
	_, err := execute(t, "--config", f.config, "config")
	require.ErrorContains(t, err, "output.format")
}

func TestRedactDSN(t *testing.T) {
	require.Equal(t, "postgres://app:xxxxx@db/genepri", redactDSN("postgres://app:secret@db/genepri"))
	require.Equal(t, redacted, redactDSN("host=db password=secret"))
	require.Equal(t, "host=db", redactDSN("host=db"))
}
