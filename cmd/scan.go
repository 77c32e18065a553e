package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Score every loaded job against a resume and show strong matches",
	Run: func(cmd *cobra.Command, _ []string) {
		scan(cmd)
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringP("resume", "r", "", "path to the resume (pdf, html, txt or md)")
	scanCmd.Flags().IntP("top-n", "n", 0, "number of matches (default from scan.top-n)")
	scanCmd.Flags().String("skill", "", "only scan jobs mentioning this skill")
	scanCmd.MarkFlagRequired("resume")
}

func scan(cmd *cobra.Command) {
	resume, _ := cmd.Flags().GetString("resume")
	topN, _ := cmd.Flags().GetInt("top-n")
	skill, _ := cmd.Flags().GetString("skill")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, config, pool, engine := prepare(ctx, skill)
	if topN <= 0 {
		topN = config.Scan.TopN
	}

	matches, err := engine.Scanner.Scan(ctx, resume, pool, topN)
	if err != nil {
		logger.Fatal("scanning jobs", zap.Error(err))
	}

	if len(matches) == 0 {
		logger.Info("no strong matches found", zap.String("resume", resume))
	}

	if err := writeMatches(cmd.OutOrStdout(), matches); err != nil {
		logger.Fatal("printing matches", zap.Error(err))
	}
}
