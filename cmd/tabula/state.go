package main

import (
	"os"

	"github.com/aretw0/tabula/internal/cli"
	"github.com/spf13/cobra"
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Manage saved table state",
	Long:  `List, inspect, and remove table state saved with --state-dir or --redis.`,
}

var stateLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List saved table states",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.ListStates(cmd.Context(), optionsFrom(cmd, nil), os.Stdout)
	},
}

var stateInspectCmd = &cobra.Command{
	Use:   "inspect <table>",
	Short: "Print the saved state of a table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.InspectState(cmd.Context(), optionsFrom(cmd, nil), args[0], os.Stdout)
	},
}

var stateRmCmd = &cobra.Command{
	Use:   "rm <table>...",
	Short: "Remove the saved state of one or more tables",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.RemoveStates(cmd.Context(), optionsFrom(cmd, nil), args, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(stateCmd)
	stateCmd.AddCommand(stateLsCmd)
	stateCmd.AddCommand(stateInspectCmd)
	stateCmd.AddCommand(stateRmCmd)
}
