package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"genepri/internal/config"
	"genepri/internal/logging"
	"genepri/internal/metrics"
)

// app carries the state shared by every subcommand once the root
// PersistentPreRunE has run.
type app struct {
	configPath string
	verbose    bool

	cfg      *config.Config
	logger   *zap.Logger
	recorder metrics.Recorder
	server   *http.Server
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop(), recorder: metrics.Noop{}}
	root := &cobra.Command{
		Use:   "genepri",
		Short: "Phenotype-driven gene prioritization",
		Long: `genepri ranks candidate genes for a set of HPO phenotypes.

Each input phenotype is expanded into a network of related phenotypes by
walking the ontology, the gene-disease associations annotated to every
phenotype in those networks are aggregated, and genes are ranked by their
strongest association.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) { a.teardown() },
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default ./genepri.yaml when present)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newPrioritizeCmd(a),
		newExpandCmd(a),
		newKBCmd(a),
		newConfigCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := logging.New(cfg.Log, a.verbose)
	if err != nil {
		return err
	}
	a.logger = logger

	if cfg.Metrics.Enabled {
		a.startMetrics(cfg.Metrics.Listen)
	}
	a.logger.Debug("configuration loaded",
		zap.String("command", cmd.CommandPath()),
		zap.String("kb_driver", cfg.KB.Driver),
		zap.String("blob_driver", cfg.Blob.Driver))
	return nil
}

func (a *app) startMetrics(listen string) {
	p := metrics.NewPrometheus()
	a.recorder = p
	mux := http.NewServeMux()
	mux.Handle("/metrics", p.Handler())
	a.server = &http.Server{Addr: listen, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Warn("metrics server stopped", zap.String("listen", listen), zap.Error(err))
		}
	}()
	a.logger.Info("serving metrics", zap.String("listen", listen))
}

func (a *app) teardown() {
	if a.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = a.server.Shutdown(ctx)
	}
	_ = a.logger.Sync()
}

// closeQuietly logs a failed Close instead of masking the command's error.
func (a *app) closeQuietly(what string, closer interface{ Close() error }) {
	if err := closer.Close(); err != nil {
		a.logger.Warn(fmt.Sprintf("close %s", what), zap.Error(err))
	}
}
