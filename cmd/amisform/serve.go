package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/reoring/amisform/config"
	"github.com/reoring/amisform/metrics"
	"github.com/reoring/amisform/middleware"
	"github.com/reoring/amisform/store"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(load configLoader) *cobra.Command {
	var addr, schemaDir string
	var watch bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the validation endpoint",
		Long: `Serve POST /forms/{name}/validate for every form found in the schema
directory, plus Prometheus metrics.

Examples:
  amisform serve --config amisform.yaml
  amisform serve --schemas ./schemas --addr :8080 --watch`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if schemaDir != "" {
				cfg.Server.SchemaDir = schemaDir
			}
			if cmd.Flags().Changed("watch") {
				cfg.Server.Watch = watch
			}
			if cfg.Server.SchemaDir == "" {
				return fmt.Errorf("server.schema_dir (or --schemas) is required")
			}
			if err := config.Validate(cfg); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg, cfg.NewLogger(os.Stderr))
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	cmd.Flags().StringVar(&schemaDir, "schemas", "", "schema directory (overrides server.schema_dir)")
	cmd.Flags().BoolVar(&watch, "watch", false, "reload schemas on change")
	return cmd
}

// newServer wires the store, validator, metrics and HTTP handlers.
func newServer(cfg *config.Config, logger *slog.Logger) (*http.Server, *store.Store, error) {
	collector := metrics.NewCollector("", nil)
	v, err := cfg.NewValidator(logger, collector)
	if err != nil {
		return nil, nil, err
	}
	st, err := store.Open(cfg.Server.SchemaDir, store.Options{Logger: logger})
	if err != nil {
		return nil, nil, err
	}
	parseOpt := cfg.ParseOpt()
	mux := http.NewServeMux()
	mux.Handle("/forms/", middleware.Handler(v, st, middleware.Options{
		Logger:       logger,
		Observer:     collector,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
		ParseOpt:     &parseOpt,
	}))
	mux.Handle(cfg.Server.MetricsPath, collector.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv, st, nil
}

func runServe(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	srv, st, err := newServer(cfg, logger)
	if err != nil {
		return err
	}
	if cfg.Server.Watch {
		go func() {
			if err := st.Watch(ctx); err != nil {
				logger.Error("schema watcher exited", "error", err)
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Server.Addr, "forms", len(st.Names()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(sctx)
}
