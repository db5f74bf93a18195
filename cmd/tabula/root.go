package main

import (
	"fmt"
	"os"

	"github.com/aretw0/tabula/internal/cli"
	"github.com/aretw0/tabula/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tabula",
	Short: "Tabula renders and serves reactive tables",
	Long: `Tabula loads table definitions from YAML files and keeps their state in sync
across the terminal, an HTTP API and MCP tools.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.Bool("debug", false, "Enable debug logging to stderr")
	flags.String("log-format", string(logging.FormatText), "Log format: 'text' or 'json'")
	flags.String("state-dir", "", "Persist table state as JSON files in this directory")
	flags.String("redis", "", "Persist table state in Redis at this address (wins over --state-dir)")
	flags.String("redis-password", "", "Redis password")
	flags.Int("redis-db", 0, "Redis database")
	flags.String("state-key", os.Getenv("TABULA_STATE_KEY"), "Base64 32 byte key encrypting saved state (default $TABULA_STATE_KEY)")
	flags.StringSlice("mask", nil, "Regular expression of state keys masked before saving (repeatable)")
}

// optionsFrom reads the persistent flags. args are the table definition paths.
func optionsFrom(cmd *cobra.Command, args []string) cli.Options {
	flags := cmd.Flags()
	debug, _ := flags.GetBool("debug")
	format, _ := flags.GetString("log-format")
	stateDir, _ := flags.GetString("state-dir")
	redisAddr, _ := flags.GetString("redis")
	redisPassword, _ := flags.GetString("redis-password")
	redisDB, _ := flags.GetInt("redis-db")
	stateKey, _ := flags.GetString("state-key")
	mask, _ := flags.GetStringSlice("mask")

	return cli.Options{
		Paths:         args,
		Debug:         debug,
		LogFormat:     logging.Format(format),
		StateDir:      stateDir,
		RedisAddr:     redisAddr,
		RedisPassword: redisPassword,
		RedisDB:       redisDB,
		StateKey:      stateKey,
		MaskKeys:      mask,
	}
}
