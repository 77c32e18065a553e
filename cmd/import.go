package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/store"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Copy jobs from the configured source into a SQLite database",
	Run: func(cmd *cobra.Command, _ []string) {
		importJobs(cmd)
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().String("db", "", "target database (default from jobs.sqlite.path)")
}

func importJobs(cmd *cobra.Command) {
	ctx := context.Background()
	target, _ := cmd.Flags().GetString("db")

	logger, config := bootstrap()
	if strings.TrimSpace(target) == "" {
		target = config.Jobs.SQLite.Path
	}
	if strings.TrimSpace(target) == "" {
		logger.Fatal("target database is required", zap.String("hint", "pass --db or set jobs.sqlite.path"))
	}
	if strings.EqualFold(config.Jobs.Source, sourceSQLite) {
		logger.Fatal("import needs a file or feed source", zap.String("source", config.Jobs.Source))
	}

	pool, err := loadPool(ctx, config, logger)
	if err != nil {
		logger.Fatal("loading jobs", zap.Error(err))
	}

	db, err := store.Open(target)
	if err != nil {
		logger.Fatal("opening database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		logger.Fatal("migrating database", zap.Error(err))
	}

	for _, job := range pool.Items {
		if err := db.PutJob(ctx, job); err != nil {
			logger.Fatal("storing job", zap.Error(err))
		}
	}

	logger.Info("jobs imported", zap.String("db", target), zap.Int("count", pool.Len()))
}
