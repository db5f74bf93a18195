package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/tabula"
	"github.com/aretw0/tabula/pkg/adapters/file"
	"github.com/aretw0/tabula/pkg/domain"
	"github.com/aretw0/tabula/pkg/registry"
	"github.com/aretw0/tabula/pkg/session"
	"github.com/aretw0/tabula/pkg/store"
)

// tableEnv carries what every table opened by a command shares.
type tableEnv struct {
	logger  *slog.Logger
	hooks   domain.LifecycleHooks
	manager *session.Manager
	watch   bool
}

func (env tableEnv) adapterOptions(name string) []tabula.Option {
	return []tabula.Option{
		tabula.WithName(name),
		tabula.WithLogger(env.logger),
		tabula.WithLifecycleHooks(env.hooks),
	}
}

// openTable builds the adapter for the definition at path. In watch mode the
// configuration follows the file; otherwise it is read once. A saved
// snapshot, if any, becomes the initial state of a static table.
func openTable(ctx context.Context, env tableEnv, path string) (string, registry.Output, error) {
	def, err := file.Load(path)
	if err != nil {
		return "", nil, err
	}

	if env.watch {
		configs, err := file.Watch(path,
			file.WithLogger(env.logger),
			file.WithReloadHook(func(d *file.Definition, err error) {
				if err != nil {
					env.logger.Error("Table definition reload failed", "path", path, "err", err)
					return
				}
				env.logger.Info("Table definition reloaded", "table", d.Name)
			}),
		)
		if err != nil {
			return "", nil, err
		}
		out, err := tabula.New(tabula.Reactive(configs), env.adapterOptions(def.Name)...)
		return def.Name, out, err
	}

	opts := def.Options()
	if env.manager != nil {
		if opts, err = session.Restore(ctx, env.manager, def.Name, opts); err != nil {
			return "", nil, err
		}
	}
	out, err := tabula.New(tabula.Static(opts), env.adapterOptions(def.Name)...)
	return def.Name, out, err
}

// loadRegistry opens every path and registers it. With persistence enabled,
// each table's state is tracked, and watched tables get their saved state
// back through the engine. The close func releases everything.
func loadRegistry(ctx context.Context, env tableEnv, paths []string) (*registry.Registry, func(), error) {
	if len(paths) == 0 {
		return nil, nil, fmt.Errorf("no table definitions given: %w", domain.ErrInvalidConfig)
	}

	reg := registry.NewRegistry()
	var trackers []store.Unsubscriber
	closeAll := func() {
		for _, stop := range trackers {
			stop()
		}
		reg.Close()
	}

	for _, path := range paths {
		name, out, err := openTable(ctx, env, path)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		t, err := reg.Register(name, out)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		if env.manager == nil {
			continue
		}
		if env.watch {
			if err := restoreLive(ctx, env.manager, t); err != nil {
				closeAll()
				return nil, nil, err
			}
		}
		trackers = append(trackers, session.Track(ctx, env.manager, t.Name, t.Output()))
	}

	return reg, closeAll, nil
}

// restoreLive patches the saved snapshot into a running table.
func restoreLive(ctx context.Context, m *session.Manager, t *registry.Table) error {
	saved, err := m.Load(ctx, t.Name)
	if errors.Is(err, domain.ErrTableNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to restore table %q: %w", t.Name, err)
	}
	t.Patch(saved)
	return nil
}
