package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/jobs"
)

var similarCmd = &cobra.Command{
	Use:   "similar",
	Short: "Show the loaded jobs most similar to one job",
	Run: func(cmd *cobra.Command, _ []string) {
		similar(cmd)
	},
}

func init() {
	rootCmd.AddCommand(similarCmd)

	similarCmd.Flags().String("job", "", "id of the reference job (prompted when empty)")
	similarCmd.Flags().IntP("top-n", "n", 0, "number of similar jobs (default from similar.top-n)")
}

func similar(cmd *cobra.Command) {
	jobID, _ := cmd.Flags().GetString("job")
	topN, _ := cmd.Flags().GetInt("top-n")

	logger, config, pool, engine := prepare(context.Background(), "")
	if topN <= 0 {
		topN = config.Similar.TopN
	}

	if pool.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no jobs loaded"))
		return
	}

	if jobID == "" {
		var err error
		jobID, err = pickJob(pool)
		if err != nil {
			logger.Fatal("choosing a job", zap.Error(err))
		}
	}

	ref, err := pool.Get(jobID)
	if err != nil {
		logger.Fatal("looking up job", zap.Error(err))
	}

	result := engine.Similar.Similar(ref, pool, topN)
	if err := printJSON(cmd.OutOrStdout(), result); err != nil {
		logger.Fatal("printing similar jobs", zap.Error(err))
	}
}

// pickJob asks the user to choose a job interactively and returns its id.
func pickJob(pool *jobs.Pool) (string, error) {
	items := make([]string, 0, pool.Len())
	for _, job := range pool.Items {
		items = append(items, fmt.Sprintf("%s %s / %s / %s", job.ID, job.Title, job.Company, job.Location))
	}

	jobPrompt := promptui.Select{
		Label: "Choose a job and press ENTER",
		Items: items,
		Size:  10,
	}

	_, selected, err := jobPrompt.Run()
	if err != nil {
		return "", err
	}

	id := strings.Split(selected, " ")[0]
	if id == "" {
		return "", errors.New("empty job id selected")
	}
	return id, nil
}
