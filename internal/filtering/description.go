package filtering

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/jobs"
)

type descriptionLengthFilter struct {
	toggle
	min int
}

// NewDescriptionLength creates a filter that keeps jobs whose trimmed
// description is strictly longer than min characters.
func NewDescriptionLength(min int) Filter {
	return &descriptionLengthFilter{min: min}
}

func (f *descriptionLengthFilter) Name() string { return "description_length" }

func (f *descriptionLengthFilter) Apply(deps Deps, pool *jobs.Pool) (*jobs.Pool, Step, error) {
	initial := pool.Len()
	dropped := pool.Keep(func(j *jobs.Job) bool {
		return utf8.RuneCountInString(strings.TrimSpace(j.Description)) > f.min
	})

	if deps.Logger != nil && len(dropped) > 0 {
		deps.Logger.Debug("excluding jobs with short descriptions",
			zap.Strings("excluded_jobs", dropped),
			zap.Int("min_length", f.min),
			zap.Int("jobs_left", pool.Len()),
		)
	}

	return pool, Step{Initial: initial, Dropped: len(dropped), Left: pool.Len()}, nil
}

func (f *descriptionLengthFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"min_length_exclusive": strconv.Itoa(f.min)},
	}
}
