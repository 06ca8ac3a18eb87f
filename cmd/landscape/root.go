package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joelkehle/drug-landscape/internal/config"
	"github.com/joelkehle/drug-landscape/internal/landscape"
	"github.com/joelkehle/drug-landscape/internal/logger"
	"github.com/joelkehle/drug-landscape/internal/narrative"
	"github.com/joelkehle/drug-landscape/internal/records"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	configPath string
	cfg        *config.Config
	log        *logger.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "landscape",
		Short: "Drug landscape explorer for clinical trials and publications",
		Long: `landscape aggregates clinical-trial and publication records for a disease:
intervention, phase and ATC category breakdowns, top drugs, phase 3/4 drugs and
drug recommendations drawn from diseases that share trial drugs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.log != nil {
				a.log.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to landscape.yaml (default: ./landscape.yaml or ~/.config/drug-landscape/landscape.yaml)")

	root.AddCommand(
		newServeCmd(a),
		newDiseasesCmd(a),
		newReportCmd(a),
		newSnapshotCmd(a),
	)
	return root
}

func (a *app) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	a.cfg = cfg
	a.log = log
	return nil
}

// loadStore reads the SQLite snapshot when data.snapshot is set, otherwise the
// configured CSV sources.
func (a *app) loadStore(ctx context.Context) (*records.Store, error) {
	if a.cfg.Data.Snapshot != "" {
		store, err := records.LoadSnapshot(ctx, a.cfg.Data.Snapshot)
		if err != nil {
			return nil, err
		}
		a.log.Info("datasets loaded from snapshot", "path", a.cfg.Data.Snapshot, "counts", store.Counts())
		return store, nil
	}
	return a.loadSources(ctx)
}

func (a *app) loadSources(ctx context.Context) (*records.Store, error) {
	loader := records.NewLoader(records.LoaderConfig{
		Timeout:     a.cfg.Data.Timeout,
		Concurrency: a.cfg.Data.Concurrency,
	}, a.log)
	return loader.LoadAll(ctx, a.cfg.Sources())
}

func (a *app) engine(ctx context.Context) (*landscape.Engine, error) {
	store, err := a.loadStore(ctx)
	if err != nil {
		return nil, err
	}
	return landscape.NewEngine(store, landscape.Options{
		TopDrugs:        a.cfg.Ranking.TopDrugs,
		Recommendations: a.cfg.Ranking.Recommendations,
	}, a.log), nil
}

// summarizer is nil unless narrative.enabled is set. A missing API key only
// disables the overview.
func (a *app) summarizer() *narrative.Summarizer {
	if !a.cfg.Narrative.Enabled {
		return nil
	}
	caller, err := narrative.NewAnthropicCallerFromEnv(a.cfg.Narrative.Model)
	if err != nil {
		a.log.Warn("narrative disabled", "error", err)
		return nil
	}
	return narrative.NewSummarizer(caller, a.log)
}
