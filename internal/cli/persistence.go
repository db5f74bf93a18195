package cli

import (
	"encoding/base64"
	"fmt"
	"log/slog"

	"github.com/aretw0/tabula/pkg/adapters/file"
	"github.com/aretw0/tabula/pkg/adapters/redis"
	"github.com/aretw0/tabula/pkg/persistence/middleware"
	"github.com/aretw0/tabula/pkg/ports"
	"github.com/aretw0/tabula/pkg/session"
)

// setupPersistence builds the session manager for the configured store.
// It returns a nil manager when persistence is disabled. The close func is
// never nil.
func setupPersistence(opts Options, logger *slog.Logger) (*session.Manager, func(), error) {
	noop := func() {}
	if !opts.persistent() {
		return nil, noop, nil
	}

	var (
		store        ports.StateStore
		managerOpts  = []session.Option{session.WithLogger(logger)}
		closeBackend = noop
	)

	if opts.RedisAddr != "" {
		rs := redis.New(opts.RedisAddr, opts.RedisPassword, opts.RedisDB)
		store = rs
		managerOpts = append(managerOpts, session.WithLocker(redis.NewLocker(rs.Client(), "tabula:lock:")))
		closeBackend = func() {
			if err := rs.Close(); err != nil {
				logger.Warn("Failed to close redis client", "err", err)
			}
		}
		logger.Info("Persisting table state in redis", "addr", opts.RedisAddr)
	} else {
		store = file.NewStore(opts.StateDir)
		logger.Info("Persisting table state on disk", "dir", opts.StateDir)
	}

	mws, err := storeMiddlewares(opts)
	if err != nil {
		closeBackend()
		return nil, noop, err
	}
	store = middleware.Chain(store, mws...)

	return session.NewManager(store, managerOpts...), closeBackend, nil
}

// storeMiddlewares masks PII before encrypting, so masking sees plain keys.
func storeMiddlewares(opts Options) ([]middleware.Middleware, error) {
	var mws []middleware.Middleware

	if len(opts.MaskKeys) > 0 {
		pii, err := middleware.NewPIIMiddleware(opts.MaskKeys)
		if err != nil {
			return nil, fmt.Errorf("invalid mask pattern: %w", err)
		}
		mws = append(mws, pii)
	}

	if opts.StateKey != "" {
		key, err := base64.StdEncoding.DecodeString(opts.StateKey)
		if err != nil {
			return nil, fmt.Errorf("state key must be base64: %w", err)
		}
		enc, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})
		if err != nil {
			return nil, err
		}
		mws = append(mws, enc)
	}

	return mws, nil
}
