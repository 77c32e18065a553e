package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/skills"
)

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "Tag skills in a text, a document or the loaded jobs",
	Run: func(cmd *cobra.Command, _ []string) {
		tagSkills(cmd)
	},
}

func init() {
	rootCmd.AddCommand(skillsCmd)

	skillsCmd.Flags().String("text", "", "free text to tag")
	skillsCmd.Flags().String("file", "", "document to extract and tag (pdf, html, txt or md)")
	skillsCmd.Flags().Bool("tally", false, "count skills across the loaded job descriptions")
	skillsCmd.Flags().Bool("collect", false, "list the union of skills across the loaded job descriptions")
	skillsCmd.MarkFlagsMutuallyExclusive("text", "file", "tally", "collect")
}

type skillsResult struct {
	Version string   `json:"dictionary_version"`
	Skills  []string `json:"skills"`
}

func tagSkills(cmd *cobra.Command) {
	text, _ := cmd.Flags().GetString("text")
	file, _ := cmd.Flags().GetString("file")
	tally, _ := cmd.Flags().GetBool("tally")
	collect, _ := cmd.Flags().GetBool("collect")

	logger, config := bootstrap()

	engine, err := newEngine(config, logger)
	if err != nil {
		logger.Fatal("building the engine", zap.Error(err))
	}

	var result any
	switch {
	case tally || collect:
		pool, err := loadPool(context.Background(), config, logger)
		if err != nil {
			logger.Fatal("loading jobs", zap.Error(err))
		}
		if tally {
			sets := make([][]string, 0, pool.Len())
			for _, description := range pool.Descriptions() {
				sets = append(sets, engine.Tagger.Extract(description))
			}
			result = skills.Tally(sets)
			break
		}
		result = skillsResult{
			Version: engine.Tagger.Dictionary().Version(),
			Skills:  engine.Tagger.Collect(pool.Descriptions()...),
		}
	case text != "" || file != "":
		if file != "" {
			text = engine.Extractor.Extract(file)
		}
		result = skillsResult{
			Version: engine.Tagger.Dictionary().Version(),
			Skills:  engine.Tagger.Extract(text),
		}
	default:
		logger.Fatal("nothing to tag", zap.String("hint", "pass one of --text, --file, --tally or --collect"))
	}

	if err := printJSON(cmd.OutOrStdout(), result); err != nil {
		logger.Fatal("printing skills", zap.Error(err))
	}
}
