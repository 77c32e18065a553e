package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List the loaded jobs",
	Run: func(cmd *cobra.Command, _ []string) {
		listJobs(cmd)
	},
}

func init() {
	rootCmd.AddCommand(jobsCmd)

	jobsCmd.Flags().String("skill", "", "only list jobs mentioning this skill")
	jobsCmd.Flags().Bool("by-company", false, "group jobs by company")
	jobsCmd.Flags().Bool("dump", false, "dump jobs to a temporary file instead of stdout")
}

func listJobs(cmd *cobra.Command) {
	skill, _ := cmd.Flags().GetString("skill")
	byCompany, _ := cmd.Flags().GetBool("by-company")
	dump, _ := cmd.Flags().GetBool("dump")

	logger, _, pool, _ := prepare(context.Background(), skill)

	if dump {
		filename, err := pool.DumpToTmpFile()
		if err != nil {
			logger.Fatal("dump jobs to file", zap.Error(err))
		}
		logger.Info("dumping jobs to file", zap.String("filename", filename), zap.Int("count", pool.Len()))
		return
	}

	var out any = pool
	if byCompany {
		out = pool.ReportByCompany()
	}

	if err := printJSON(cmd.OutOrStdout(), out); err != nil {
		logger.Fatal("printing jobs", zap.Error(err))
	}
}
