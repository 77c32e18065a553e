// Package dashboard implements the job seeker's live scan: every job is
// scored pairwise against the resume and only strong matches are shown.
package dashboard

import (
	"context"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/jobmatch/internal/extract"
	"github.com/spigell/jobmatch/internal/jobs"
	"github.com/spigell/jobmatch/internal/logger"
	"github.com/spigell/jobmatch/internal/matching"
)

const (
	// FloorPercent is the lowest match percent the scan shows.
	FloorPercent = 40.0
	// DefaultTopN is used when the caller asks for a non-positive top n.
	DefaultTopN = 5

	defaultWorkers = 4
)

type Scanner struct {
	source  extract.TextSource
	scorer  *matching.PairScorer
	workers int
	logger  *zap.Logger
}

func NewScanner(source extract.TextSource, scorer *matching.PairScorer, workers int, log *zap.Logger) *Scanner {
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Scanner{
		source:  source,
		scorer:  scorer,
		workers: workers,
		logger:  logger.WithCallSite(log, "pair_scorer", "dashboard_scan"),
	}
}

// Scan scores every job in pool against the resume at resumePath and returns
// at most topN matches of at least FloorPercent, best first. The resume is
// read once. Only ctx cancellation produces an error.
func (s *Scanner) Scan(ctx context.Context, resumePath string, pool *jobs.Pool, topN int) ([]matching.Match, error) {
	if topN <= 0 {
		topN = DefaultTopN
	}

	text := s.source.Extract(resumePath)
	if text == "" || pool.Len() == 0 {
		return []matching.Match{}, nil
	}

	scores := make([]float64, pool.Len())

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, job := range pool.Items {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			scores[i] = s.scorer.ScoreText(text, job.Description)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	matches := make([]matching.Match, 0, len(scores))
	for i, score := range scores {
		if score >= FloorPercent {
			matches = append(matches, matching.Match{Job: pool.Items[i], Percent: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Percent > matches[j].Percent
	})

	s.logger.Info("dashboard scan finished",
		zap.Int("jobs", pool.Len()),
		zap.Int("strong_matches", len(matches)),
	)

	if len(matches) > topN {
		matches = matches[:topN]
	}
	return matches, nil
}
