// Package main provides the leedsctl operator CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"leedsbot-backend/cmd/leedsctl/commands"
	"leedsbot-backend/internal/config"
	"leedsbot-backend/internal/logger"
)

func main() {
	cfg := config.LoadForTools()

	log, err := logger.New(cfg.Env, "warn")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	rootCmd := &cobra.Command{
		Use:   "leedsctl",
		Short: "LeedsBot operator tool",
		Long: `LeedsBot operator tool

Runs migrations, mints development tokens, and checks the academic-integrity
guard and document extraction without starting the server.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, _ []string) {
			if err := cmd.Help(); err != nil {
				fmt.Printf("Error showing help: %v\n", err)
			}
		},
	}

	rootCmd.AddCommand(commands.MigrateCommand(cfg, log))
	rootCmd.AddCommand(commands.TokenCommand(cfg))
	rootCmd.AddCommand(commands.GuardCommand(cfg, log))
	rootCmd.AddCommand(commands.ExtractCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
