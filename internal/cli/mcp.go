package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/aretw0/tabula/pkg/adapters/mcp"
)

// MCP transports.
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
)

// RunMCP exposes the tables in opts.Paths as MCP tools.
func RunMCP(ctx context.Context, opts Options, transport string, port int, watch bool) error {
	logger := createLogger(opts)

	manager, closeStore, err := setupPersistence(opts, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	env := tableEnv{logger: logger, manager: manager, watch: watch}
	if opts.Debug {
		env.hooks = createDebugHooks(logger)
	}

	reg, closeTables, err := loadRegistry(ctx, env, opts.Paths)
	if err != nil {
		return err
	}
	defer closeTables()

	srv := mcp.NewServer(reg, mcp.WithLogger(logger))

	switch transport {
	case TransportStdio:
		logger.Info("Starting tabula MCP server (stdio)")
		return srv.ServeStdio()
	case TransportSSE:
		logger.Info("Starting tabula MCP server (SSE)", "port", port)
		if err := srv.ServeSSE(ctx, port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	default:
		return fmt.Errorf("unknown transport %q, supported: %s, %s", transport, TransportStdio, TransportSSE)
	}
}
