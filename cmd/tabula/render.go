package main

import (
	"os"

	"github.com/aretw0/tabula/internal/cli"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render <table.yaml>...",
	Short: "Render tables to the terminal",
	Long:  `Renders each table definition once as a markdown table, styled when printing to a terminal.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := optionsFrom(cmd, args)
		opts.Plain, _ = cmd.Flags().GetBool("plain")
		opts.Style, _ = cmd.Flags().GetString("style")
		return cli.RunRender(cmd.Context(), opts, os.Stdout)
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch <table.yaml>",
	Short: "Render a table and re-render it on every change",
	Long:  `Renders the table and re-renders it whenever its definition file or its state changes.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := optionsFrom(cmd, args)
		opts.Plain, _ = cmd.Flags().GetBool("plain")
		opts.Style, _ = cmd.Flags().GetString("style")

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()
		return cli.RunWatch(ctx, opts, os.Stdout)
	},
}

func init() {
	for _, c := range []*cobra.Command{renderCmd, watchCmd} {
		c.Flags().Bool("plain", false, "Print raw markdown")
		c.Flags().String("style", "", "Glamour style (dark, light, notty, ...); detected when empty")
		rootCmd.AddCommand(c)
	}
}
