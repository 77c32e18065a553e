// Package matching holds the consumer policies built on the vector space
// matcher: single pair scoring, resume recommendations and job-to-job
// similarity. Each policy owns its own floor and default result size.
package matching

import (
	"github.com/spigell/jobmatch/internal/jobs"
	"github.com/spigell/jobmatch/internal/vectorspace"
)

const (
	// RecommendFloorPercent is the lowest match percent a recommendation may have.
	RecommendFloorPercent = 1.0
	// MinDescriptionLength is exclusive: descriptions must be longer to be ranked.
	MinDescriptionLength = 20
	// DefaultRecommendTopN is used when the caller asks for a non-positive top n.
	DefaultRecommendTopN = 5
	// DefaultSimilarTopN is used when the caller asks for a non-positive top n.
	DefaultSimilarTopN = 3
)

// Match is a job scored against a resume, as a percentage in [0, 100].
type Match struct {
	Job     *jobs.Job `json:"job"`
	Percent float64   `json:"match_percent"`
}

// Similar is a job scored against a reference job, as a raw fraction in [0, 1].
type Similar struct {
	Job        *jobs.Job `json:"job"`
	Similarity float64   `json:"similarity"`
}

// Options configures the resume-facing scorers.
type Options struct {
	// MaxFeatures caps the vocabulary. Zero means vectorspace.DefaultMaxFeatures.
	MaxFeatures int
}

func (o Options) matcher() *vectorspace.Matcher {
	maxFeatures := o.MaxFeatures
	if maxFeatures <= 0 {
		maxFeatures = vectorspace.DefaultMaxFeatures
	}
	return vectorspace.New(vectorspace.Options{MaxFeatures: maxFeatures})
}

func truncate[T any](items []T, topN int) []T {
	if len(items) > topN {
		return items[:topN]
	}
	return items
}
