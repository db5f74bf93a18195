package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	tabulahttp "github.com/aretw0/tabula/pkg/adapters/http"
	"github.com/aretw0/tabula/pkg/domain"
	"github.com/aretw0/tabula/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// shutdownTimeout bounds how long in-flight requests may take on shutdown.
const shutdownTimeout = 5 * time.Second

// RunServe exposes the tables in opts.Paths over HTTP until ctx is done.
func RunServe(ctx context.Context, opts Options, addr string, watch bool) error {
	logger := createLogger(opts)

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := observability.NewMetrics(promReg)
	if err != nil {
		return err
	}

	manager, closeStore, err := setupPersistence(opts, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	env := tableEnv{logger: logger, manager: manager, watch: watch, hooks: metrics.Hooks()}
	if opts.Debug {
		env.hooks = domain.ChainHooks(env.hooks, createDebugHooks(logger))
	}

	reg, closeTables, err := loadRegistry(ctx, env, opts.Paths)
	if err != nil {
		return err
	}
	defer closeTables()

	srv := &http.Server{
		Addr:    addr,
		Handler: tabulahttp.NewHandler(reg, tabulahttp.WithLogger(logger), tabulahttp.WithGatherer(promReg)),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Starting tabula server", "addr", srv.Addr, "tables", len(reg.List()))
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		logger.Info("Shutting down tabula server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			closeErr := srv.Close()
			return errors.Join(fmt.Errorf("graceful shutdown did not complete in %v: %w", shutdownTimeout, err), closeErr)
		}
		return nil
	}
}
