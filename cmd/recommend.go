package cmd

import (
	"context"
	"errors"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/jobs"
	"github.com/spigell/jobmatch/internal/matching"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Rank the loaded jobs against a resume",
	Run: func(cmd *cobra.Command, _ []string) {
		recommend(cmd)
	},
}

func init() {
	rootCmd.AddCommand(recommendCmd)

	recommendCmd.Flags().StringP("resume", "r", "", "path to the resume (pdf, html, txt or md)")
	recommendCmd.Flags().IntP("top-n", "n", 0, "number of recommendations (default from recommend.top-n)")
	recommendCmd.Flags().String("skill", "", "only rank jobs mentioning this skill")
	recommendCmd.Flags().Bool("exclude-shown", false, "append recommended jobs to the exclude file")
	recommendCmd.MarkFlagRequired("resume")
}

func recommend(cmd *cobra.Command) {
	resume, _ := cmd.Flags().GetString("resume")
	topN, _ := cmd.Flags().GetInt("top-n")
	skill, _ := cmd.Flags().GetString("skill")
	excludeShown, _ := cmd.Flags().GetBool("exclude-shown")

	logger, config, pool, engine := prepare(context.Background(), skill)
	if topN <= 0 {
		topN = config.Recommend.TopN
	}

	matches := engine.Recommender.Recommend(resume, pool, topN)
	if len(matches) == 0 {
		logger.Info("no matching jobs found", zap.String("resume", resume))
	}

	if excludeShown && len(matches) > 0 {
		if err := excludeMatches(config.ExcludeFile, matches); err != nil {
			logger.Fatal("updating exclude file", zap.Error(err))
		}
		logger.Info("appended to exclude file", zap.String("filename", config.ExcludeFile), zap.Int("count", len(matches)))
	}

	if err := writeMatches(cmd.OutOrStdout(), matches); err != nil {
		logger.Fatal("printing recommendations", zap.Error(err))
	}
}

// writeMatches prints matches as a JSON array, "[]" when there are none.
func writeMatches(w io.Writer, matches []matching.Match) error {
	if matches == nil {
		matches = []matching.Match{}
	}
	return printJSON(w, matches)
}

func excludeMatches(path string, matches []matching.Match) error {
	if path == "" {
		return errors.New("exclude-file is not configured")
	}

	shown := jobs.NewPool()
	for _, m := range matches {
		shown.Items = append(shown.Items, m.Job)
	}

	excluded, err := jobs.GetExcludedJobsFromFile(path)
	if err != nil {
		return err
	}
	excluded.Append(shown.ToExcluded())

	return excluded.ToFile(path)
}
