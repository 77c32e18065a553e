package matching

import (
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/extract"
	"github.com/spigell/jobmatch/internal/logger"
	"github.com/spigell/jobmatch/internal/vectorspace"
)

// PairScorer scores one resume against one job description.
type PairScorer struct {
	source  extract.TextSource
	matcher *vectorspace.Matcher
	logger  *zap.Logger
}

func NewPairScorer(source extract.TextSource, log *zap.Logger, opts Options) *PairScorer {
	return &PairScorer{
		source:  source,
		matcher: opts.matcher(),
		logger:  logger.WithCallSite(log, "pair_scorer", "score"),
	}
}

// Score extracts the resume at resumePath and returns its match percent
// against description. Missing text on either side scores 0.
func (s *PairScorer) Score(resumePath, description string) float64 {
	return s.ScoreText(s.source.Extract(resumePath), description)
}

// ScoreText is Score for an already extracted resume.
func (s *PairScorer) ScoreText(resumeText, description string) float64 {
	if strings.TrimSpace(resumeText) == "" || strings.TrimSpace(description) == "" {
		s.logger.Debug("skipping score for empty input",
			zap.Bool("resume_empty", strings.TrimSpace(resumeText) == ""),
			zap.Bool("description_empty", strings.TrimSpace(description) == ""),
		)
		return 0
	}

	return vectorspace.Percent(s.matcher.Score(resumeText, description))
}
