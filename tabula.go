package tabula

import (
	"log/slog"

	"github.com/aretw0/tabula/internal/logging"
	"github.com/aretw0/tabula/internal/runtime"
	"github.com/aretw0/tabula/pkg/domain"
	"github.com/aretw0/tabula/pkg/store"
)

// Engine is the reference table engine bound by New.
type Engine[T any] = runtime.Engine[T]

// HeaderContext is the props value header descriptors receive from the reference engine.
type HeaderContext[T any] = runtime.HeaderContext[T]

// CellContext is the props value cell descriptors receive from the reference engine.
type CellContext[T any] = runtime.CellContext[T]

// Source is the configuration an adapter is built from: either a fixed
// options value or a store of options. Build one with Static or Reactive.
type Source[T any] struct {
	static   domain.Options[T]
	reactive store.Readable[domain.Options[T]]
}

// Static wraps a fixed options value.
func Static[T any](opts domain.Options[T]) Source[T] {
	return Source[T]{static: opts}
}

// Reactive wraps a store of options. Every emission supersedes the previous
// configuration in full.
func Reactive[T any](r store.Readable[domain.Options[T]]) Source[T] {
	return Source[T]{reactive: r}
}

// readable normalizes the source. A static source becomes a constant store.
func (s Source[T]) readable() store.Readable[domain.Options[T]] {
	if s.reactive != nil {
		return s.reactive
	}
	return store.NewReadable(s.static, nil)
}

// Option defines a functional option for configuring an adapter.
type Option func(*config)

type config struct {
	logger *slog.Logger
	hooks  domain.LifecycleHooks
	name   string
}

// WithLogger sets a custom structured logger for the adapter.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *config) {
		c.hooks = hooks
	}
}

// WithName labels the table in logs and events.
func WithName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

func newConfig(opts []Option) config {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = logging.NewNop()
	}
	if cfg.name != "" {
		cfg.logger = cfg.logger.With("table", cfg.name)
	}
	return cfg
}

// New creates an adapter around the reference engine.
func New[T any](source Source[T], opts ...Option) (store.Readable[*Engine[T]], error) {
	cfg := newConfig(opts)
	return NewAdapter[T, *Engine[T]](source, runtime.Factory[T](runtime.WithLogger(cfg.logger)), opts...)
}
