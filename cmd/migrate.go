package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/randofan/varsitylink/internal/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Long:  "Apply database migrations. --version 0 rolls every migration back, a negative version migrates to the latest one.",
	Run: func(cmd *cobra.Command, _ []string) {
		target, _ := cmd.Flags().GetInt("version")
		migrate(target)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)

	migrateCmd.Flags().Int("version", store.LatestVersion, "target schema version")
}

func migrate(target int) {
	ctx := context.Background()
	logger := newLogger()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	backend, dsn, err := resolveDatabase(config.Database)
	if err != nil {
		logger.Fatal("resolving the database", zap.Error(err))
	}

	result, err := store.Migrate(ctx, backend, dsn, target, logger)
	if err != nil {
		logger.Fatal("migrating the database", zap.Error(err))
	}

	logger.Info("migrations done",
		zap.String("backend", string(backend)),
		zap.Uint("from", result.From),
		zap.Uint("to", result.To),
		zap.Bool("changed", result.Changed),
	)
}
