package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/skills"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a resume against one job and list the resume skills",
	Run: func(cmd *cobra.Command, _ []string) {
		score(cmd)
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringP("resume", "r", "", "path to the resume (pdf, html, txt or md)")
	scoreCmd.Flags().String("job", "", "id of a loaded job")
	scoreCmd.Flags().String("description", "", "job description text, used instead of --job")
	scoreCmd.MarkFlagRequired("resume")
	scoreCmd.MarkFlagsMutuallyExclusive("job", "description")
	scoreCmd.MarkFlagsOneRequired("job", "description")
}

type scoreResult struct {
	JobID   string   `json:"job_id,omitempty"`
	Percent float64  `json:"match_percent"`
	Skills  []string `json:"skills"`
}

func score(cmd *cobra.Command) {
	resume, _ := cmd.Flags().GetString("resume")
	jobID, _ := cmd.Flags().GetString("job")
	description, _ := cmd.Flags().GetString("description")

	logger, config := bootstrap()

	if jobID != "" {
		pool, err := loadPool(context.Background(), config, logger)
		if err != nil {
			logger.Fatal("loading jobs", zap.Error(err))
		}
		job, err := pool.Get(jobID)
		if err != nil {
			logger.Fatal("looking up job", zap.Error(err))
		}
		description = job.Description
	}

	engine, err := newEngine(config, logger)
	if err != nil {
		logger.Fatal("building the engine", zap.Error(err))
	}

	text := engine.Extractor.Extract(resume)
	result := scoreResult{
		JobID:   jobID,
		Percent: engine.Scorer.ScoreText(text, description),
		Skills:  engine.Tagger.Extract(text),
	}

	logger.Info("resume scored",
		zap.String("job_id", jobID),
		zap.Float64("match_percent", result.Percent),
		zap.String("skills", skills.JoinStored(result.Skills)),
	)

	if err := printJSON(cmd.OutOrStdout(), result); err != nil {
		logger.Fatal("printing score", zap.Error(err))
	}
}
