package matching

import (
	"sort"

	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/filtering"
	"github.com/spigell/jobmatch/internal/jobs"
	"github.com/spigell/jobmatch/internal/logger"
	"github.com/spigell/jobmatch/internal/vectorspace"
)

// SimilarFinder ranks a job pool against a reference job. Scores stay raw
// fractions and no floor applies.
type SimilarFinder struct {
	matcher *vectorspace.Matcher
	logger  *zap.Logger
}

func NewSimilarFinder(log *zap.Logger) *SimilarFinder {
	return &SimilarFinder{
		matcher: vectorspace.New(vectorspace.Options{}),
		logger:  logger.WithCallSite(log, "similar_item_finder", "similar"),
	}
}

// Similar returns at most topN jobs from pool ordered by similarity to ref.
// The reference job itself, matched by id, is never part of the result.
func (f *SimilarFinder) Similar(ref *jobs.Job, pool *jobs.Pool, topN int) []Similar {
	if topN <= 0 {
		topN = DefaultSimilarTopN
	}
	if ref == nil {
		return []Similar{}
	}

	others, err := filtering.Run(
		filtering.Deps{Logger: f.logger},
		[]filtering.Filter{filtering.NewExcludeIDs("exclude_reference", ref.ID)},
		pool,
	)
	if err != nil {
		f.logger.Error("filtering pool failed", zap.Error(err))
		return []Similar{}
	}

	if others.Len() == 0 {
		return []Similar{}
	}

	ranked := f.matcher.Rank(ref.Description, others.Descriptions())

	result := make([]Similar, 0, len(ranked))
	for _, sim := range ranked {
		result = append(result, Similar{Job: others.Items[sim.Index], Similarity: sim.Value})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Similarity > result[j].Similarity
	})
	result = truncate(result, topN)

	f.logger.Debug("similar jobs ranked",
		zap.String("job_id", ref.ID),
		zap.Int("candidates", others.Len()),
		zap.Int("returned", len(result)),
	)

	return result
}
