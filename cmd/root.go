package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/azoom-yongrok-choi/dummyMCP/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "dummymcp",
	Short: "Natural-language queries over a tabular dataset",
	Long:  "Asks Claude to turn a question into a JSON filter, validates the filter against the dataset schema, compiles it into a parameterized SELECT, and runs it against the configured backend.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
