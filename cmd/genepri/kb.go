package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"genepri/internal/kb"
	"genepri/internal/storage"
)

func newKBCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kb",
		Short: "Manage the knowledge base",
	}
	cmd.AddCommand(newKBImportCmd(a), newKBStatsCmd(a))
	return cmd
}

func newKBImportCmd(a *app) *cobra.Command {
	var (
		associations string
		annotations  string
		edges        string
		dir          string
		replace      bool
	)
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load TSV files into the configured knowledge base",
		Long: `Load gene-disease associations, disease-phenotype annotations and
phenotype ontology edges from tab-separated files.

Identifiers may be given as codes (ncbigene:7, umls:C0000001, hp:0000118)
or as locators; they are stored as locators. Duplicate annotations and edges
are ignored.

Examples:
  genepri kb import --dir ./dataset
  genepri kb import --associations gda.tsv --annotations dp.tsv --edges hp.tsv --replace`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			var (
				ds  kb.Dataset
				err error
			)
			switch {
			case dir != "":
				ds, err = kb.ReadDatasetDir(dir)
			case associations == "" && annotations == "" && edges == "":
				return errors.New("nothing to import: pass --dir or at least one file flag")
			default:
				ds, err = kb.ReadDatasetFiles(associations, annotations, edges)
			}
			if err != nil {
				return err
			}

			store, err := storage.Open(ctx, a.cfg.KB)
			if err != nil {
				return fmt.Errorf("open knowledge base: %w", err)
			}
			defer a.closeQuietly("knowledge base", store)

			if replace {
				if err := store.Reset(ctx); err != nil {
					return err
				}
			}
			if err := store.Load(ctx, ds); err != nil {
				return fmt.Errorf("load dataset: %w", err)
			}
			counts, err := store.Count(ctx)
			if err != nil {
				return err
			}
			a.logger.Info("dataset imported",
				zap.String("driver", a.cfg.KB.Driver),
				zap.Int("associations", len(ds.Associations)),
				zap.Int("annotations", len(ds.Annotations)),
				zap.Int("edges", len(ds.Edges)),
				zap.Bool("replace", replace))
			printCounts(cmd, counts)
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&associations, "associations", "", "gene-disease association TSV")
	fl.StringVar(&annotations, "annotations", "", "disease-phenotype annotation TSV")
	fl.StringVar(&edges, "edges", "", "phenotype parent-child edge TSV")
	fl.StringVar(&dir, "dir", "", "directory holding "+kb.AssociationsFile+", "+kb.AnnotationsFile+" and "+kb.EdgesFile)
	fl.BoolVar(&replace, "replace", false, "delete existing rows before loading")
	cmd.MarkFlagsMutuallyExclusive("dir", "associations")
	cmd.MarkFlagsMutuallyExclusive("dir", "annotations")
	cmd.MarkFlagsMutuallyExclusive("dir", "edges")
	return cmd
}

func newKBStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print the number of rows in the knowledge base",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := storage.Open(cmd.Context(), a.cfg.KB)
			if err != nil {
				return fmt.Errorf("open knowledge base: %w", err)
			}
			defer a.closeQuietly("knowledge base", store)
			counts, err := store.Count(cmd.Context())
			if err != nil {
				return err
			}
			printCounts(cmd, counts)
			return nil
		},
	}
}

func printCounts(cmd *cobra.Command, c kb.Counts) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "associations\t%d\n", c.Associations)
	fmt.Fprintf(out, "annotations\t%d\n", c.Annotations)
	fmt.Fprintf(out, "edges\t%d\n", c.Edges)
}
