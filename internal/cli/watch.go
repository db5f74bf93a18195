package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/tabula"
	"github.com/aretw0/tabula/internal/presentation/tui"
	"github.com/aretw0/tabula/pkg/domain"
	"github.com/aretw0/tabula/pkg/registry"
	"github.com/muesli/termenv"
)

// RunWatch renders the first table in opts.Paths and renders it again on
// every change, either to the definition file or to the table state.
// It returns when ctx is done.
func RunWatch(ctx context.Context, opts Options, w io.Writer) error {
	if len(opts.Paths) == 0 {
		return fmt.Errorf("watch needs a table definition")
	}
	logger := createLogger(opts)

	manager, closeStore, err := setupPersistence(opts, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	render, err := chooseRenderer(opts, w)
	if err != nil {
		return err
	}

	env := tableEnv{logger: logger, manager: manager, watch: true}
	if opts.Debug {
		env.hooks = createDebugHooks(logger)
	}

	reg, closeTables, err := loadRegistry(ctx, env, opts.Paths[:1])
	if err != nil {
		return err
	}
	defer closeTables()
	t := reg.List()[0]

	var clearScreen func()
	if f, ok := w.(*os.File); ok && tui.IsTerminal(f) {
		output := termenv.NewOutput(f)
		clearScreen = output.ClearScreen
		tui.PrintBanner(w)
	}

	// The subscriber only signals: rendering runs outside store delivery.
	changed := make(chan struct{}, 1)
	unsubscribe := t.Output().Subscribe(func(*tabula.Engine[domain.Record]) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	printSystemMessage(w, "Watching '%s'. Press Ctrl+C to stop.", opts.Paths[0])
	first := true
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-changed:
			if !first && clearScreen != nil {
				clearScreen()
			}
			first = false
			if err := redraw(w, t, render); err != nil {
				logger.Error("Render failed", "table", t.Name, "err", err)
			}
		}
	}
}

func redraw(w io.Writer, t *registry.Table, render tui.RenderFunc) error {
	text, err := renderOutput(t.Name, t.Output(), render)
	if err != nil {
		return err
	}
	fmt.Fprint(w, text)
	return nil
}
