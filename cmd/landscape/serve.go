package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/joelkehle/drug-landscape/internal/httpapi"
	"github.com/joelkehle/drug-landscape/internal/report"
	"github.com/joelkehle/drug-landscape/internal/telemetry"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Load the datasets and serve the landscape HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			return a.serve(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	shutdownTracing, err := telemetry.Init(ctx, a.log, telemetry.Config{
		Enabled:     a.cfg.Telemetry.Enabled,
		ServiceName: a.cfg.Telemetry.ServiceName,
		SampleRatio: a.cfg.Telemetry.SampleRatio,
	})
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			a.log.Warn("otel shutdown failed", "error", err)
		}
	}()

	engine, err := a.engine(ctx)
	if err != nil {
		return err
	}

	opts := httpapi.Options{
		PDF: report.NewChromiumPDFRenderer(a.cfg.Report.ChromePath),
		Log: a.log,
	}
	if s := a.summarizer(); s != nil {
		opts.Narrator = s
	}
	srv := &http.Server{
		Addr:              a.cfg.Server.Addr,
		Handler:           httpapi.NewServer(engine, opts),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("landscape api listening", "addr", srv.Addr, "diseases", len(engine.Diseases()))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		a.log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
