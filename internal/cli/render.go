package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/tabula/internal/presentation/tui"
	"github.com/aretw0/tabula/pkg/registry"
	"github.com/aretw0/tabula/pkg/store"
)

// RunRender prints every table in opts.Paths once.
func RunRender(ctx context.Context, opts Options, w io.Writer) error {
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

	env := tableEnv{logger: logger, manager: manager}
	if opts.Debug {
		env.hooks = createDebugHooks(logger)
	}

	for i, path := range opts.Paths {
		name, out, err := openTable(ctx, env, path)
		if err != nil {
			return err
		}
		text, err := renderOutput(name, out, render)
		if err != nil {
			return err
		}
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprint(w, text)
	}
	return nil
}

// chooseRenderer styles output for terminals. An explicit style always
// applies; otherwise plain markdown is printed when w is not a terminal.
func chooseRenderer(opts Options, w io.Writer) (tui.RenderFunc, error) {
	if opts.Plain {
		return tui.Plain, nil
	}
	width := tui.DefaultWidth
	f, isFile := w.(*os.File)
	if isFile && tui.IsTerminal(f) {
		width = tui.Width(f)
	} else if opts.Style == "" {
		return tui.Plain, nil
	}
	return tui.NewRenderer(opts.Style, width)
}

func renderOutput(name string, out registry.Output, render tui.RenderFunc) (string, error) {
	e := store.Get(out)
	headers, rows := e.Grid()

	title := name
	if t, ok := e.Options().Meta["title"].(string); ok && t != "" {
		title = t
	}

	text, err := render(tui.Markdown(title, headers, rows))
	if err != nil {
		return "", fmt.Errorf("failed to render table %q: %w", name, err)
	}
	return text, nil
}
