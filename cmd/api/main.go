package main

import (
	"os"

	"github.com/spf13/cobra"

	"esekoir/pkg/config"
	"esekoir/pkg/logger"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "esekoir",
	Short: "E-Sekoir rate board and marketplace API",
	Long: `E-Sekoir serves official and square-market DZD rates, the crypto, gold and
transfer boards, and the marketplace API (profiles, listings, messages,
comments, wallets, verification) on either Firebase or a local SQLite store.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
		logger.Init(cfg.Environment, cfg.LogLevel)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(ratesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
