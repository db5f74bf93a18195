package main

import (
	"fmt"

	"github.com/aretw0/tabula/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve <table.yaml>...",
	Short: "Start the HTTP server",
	Long:  `Serves the tables over a JSON API with state changes streamed as server-sent events.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")
		watch, _ := cmd.Flags().GetBool("watch")

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		fmt.Printf("Starting Tabula Server on :%s\n", port)
		if err := cli.RunServe(ctx, optionsFrom(cmd, args), ":"+port, watch); err != nil {
			return err
		}
		if sig := ctx.Signal(); sig != nil {
			fmt.Printf("\nSignal: %v\n", sig)
		}
		fmt.Println("Tabula Server stopped gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().BoolP("watch", "w", false, "Reload table definitions when their files change")
}
