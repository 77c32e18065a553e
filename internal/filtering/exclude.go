package filtering

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/jobs"
)

type excludeIDsFilter struct {
	toggle
	name string
	ids  []string
}

// NewExcludeIDs creates a filter that removes jobs by id. name labels the step
// in logs and status output.
func NewExcludeIDs(name string, ids ...string) Filter {
	return &excludeIDsFilter{name: name, ids: ids}
}

func (f *excludeIDsFilter) Name() string { return f.name }

func (f *excludeIDsFilter) Apply(deps Deps, pool *jobs.Pool) (*jobs.Pool, Step, error) {
	initial := pool.Len()
	excluded := pool.Exclude(jobs.JobIDField, f.ids)
	if deps.Logger != nil && len(excluded) > 0 {
		deps.Logger.Debug("excluding jobs by id",
			zap.String("step", f.name),
			zap.Strings("excluded_jobs", excluded),
			zap.Int("jobs_left", pool.Len()),
		)
	}

	return pool, Step{Initial: initial, Dropped: len(excluded), Left: pool.Len()}, nil
}

func (f *excludeIDsFilter) Status() Status {
	details := map[string]string{}
	if len(f.ids) > 0 {
		details["ids"] = strings.Join(f.ids, ",")
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}

type excludeFileFilter struct {
	toggle
	path string
}

// NewExcludeFile creates a filter that removes jobs listed in an exclude file.
// An empty path turns the step into a no-op.
func NewExcludeFile(path string) Filter {
	return &excludeFileFilter{path: strings.TrimSpace(path)}
}

func (f *excludeFileFilter) Name() string { return "exclude_file" }

func (f *excludeFileFilter) Apply(deps Deps, pool *jobs.Pool) (*jobs.Pool, Step, error) {
	initial := pool.Len()
	if f.path == "" {
		return pool, Step{Initial: initial, Dropped: 0, Left: pool.Len()}, nil
	}

	excluded, err := jobs.GetExcludedJobsFromFile(f.path)
	if err != nil {
		return pool, Step{}, fmt.Errorf("getting excluded jobs from file: %w", err)
	}

	removed := pool.Exclude(jobs.JobIDField, excluded.IDs())
	if deps.Logger != nil && len(removed) > 0 {
		deps.Logger.Info("excluding jobs based on exclude file",
			zap.String("path", f.path),
			zap.Strings("excluded_jobs", removed),
			zap.Int("jobs_left", pool.Len()),
		)
	}

	return pool, Step{Initial: initial, Dropped: len(removed), Left: pool.Len()}, nil
}

func (f *excludeFileFilter) Status() Status {
	details := map[string]string{}
	if f.path != "" {
		details["path"] = f.path
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
