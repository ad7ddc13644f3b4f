package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/devstudy/devstudy-backend/config"
	"github.com/devstudy/devstudy-backend/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "devstudy-admin",
	Short: "Operational tasks for the devstudy backend",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logger.Init(logger.Config{Level: cfg.App.LogLevel, JSONOutput: cfg.IsProduction()})
		appConfig = cfg
		return nil
	},
	SilenceUsage: true,
}

// appConfig is loaded once before any subcommand runs.
var appConfig *config.Config

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(sweepCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
