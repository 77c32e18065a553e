package matching

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/extract"
	"github.com/spigell/jobmatch/internal/filtering"
	"github.com/spigell/jobmatch/internal/jobs"
	"github.com/spigell/jobmatch/internal/logger"
	"github.com/spigell/jobmatch/internal/vectorspace"
)

// Recommender ranks a job pool against a resume.
type Recommender struct {
	source  extract.TextSource
	matcher *vectorspace.Matcher
	logger  *zap.Logger
}

func NewRecommender(source extract.TextSource, log *zap.Logger, opts Options) *Recommender {
	return &Recommender{
		source:  source,
		matcher: opts.matcher(),
		logger:  logger.WithCallSite(log, "recommendation_engine", "recommend"),
	}
}

// Recommend extracts the resume at resumePath and ranks pool against it.
func (r *Recommender) Recommend(resumePath string, pool *jobs.Pool, topN int) []Match {
	return r.RecommendText(r.source.Extract(resumePath), pool, topN)
}

// RecommendText returns at most topN jobs with a match percent of at least
// RecommendFloorPercent, best first. Jobs with equal scores keep their pool
// order. Jobs with short descriptions are never ranked.
func (r *Recommender) RecommendText(resumeText string, pool *jobs.Pool, topN int) []Match {
	if topN <= 0 {
		topN = DefaultRecommendTopN
	}

	if strings.TrimSpace(resumeText) == "" {
		r.logger.Info("resume has no text, nothing to recommend")
		return []Match{}
	}

	candidates, err := filtering.Run(
		filtering.Deps{Logger: r.logger},
		[]filtering.Filter{filtering.NewDescriptionLength(MinDescriptionLength)},
		pool,
	)
	if err != nil {
		// The description step has no failure path.
		r.logger.Error("filtering candidates failed", zap.Error(err))
		return []Match{}
	}

	if candidates.Len() == 0 {
		r.logger.Info("no jobs with usable descriptions", zap.Int("jobs", pool.Len()))
		return []Match{}
	}

	ranked := r.matcher.Rank(resumeText, candidates.Descriptions())

	matches := make([]Match, 0, len(ranked))
	for _, sim := range ranked {
		percent := vectorspace.Percent(sim.Value)
		if percent < RecommendFloorPercent {
			continue
		}
		matches = append(matches, Match{Job: candidates.Items[sim.Index], Percent: percent})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Percent > matches[j].Percent
	})
	aboveFloor := len(matches)
	matches = truncate(matches, topN)

	r.logger.Info("recommendations ranked",
		zap.Int("jobs", pool.Len()),
		zap.Int("candidates", candidates.Len()),
		zap.Int("above_floor", aboveFloor),
		zap.Int("returned", len(matches)),
	)

	return matches
}
