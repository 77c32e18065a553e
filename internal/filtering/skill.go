package filtering

import (
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/jobs"
	"github.com/spigell/jobmatch/internal/skills"
)

type skillFilter struct {
	toggle
	skill string
}

// NewSkill keeps jobs whose description mentions skill (case-insensitive
// substring). A blank skill disables the step.
func NewSkill(skill string) Filter {
	f := &skillFilter{skill: strings.TrimSpace(skill)}
	if f.skill == "" {
		f.Disable("no skill selected")
	}
	return f
}

func (f *skillFilter) Name() string { return "skill" }

func (f *skillFilter) Apply(deps Deps, pool *jobs.Pool) (*jobs.Pool, Step, error) {
	initial := pool.Len()
	dropped := pool.Keep(func(j *jobs.Job) bool {
		return skills.HasSkill(j.Description, f.skill)
	})

	if deps.Logger != nil {
		deps.Logger.Debug("filtering jobs by skill",
			zap.String("skill", f.skill),
			zap.Int("dropped", len(dropped)),
			zap.Int("jobs_left", pool.Len()),
		)
	}

	return pool, Step{Initial: initial, Dropped: len(dropped), Left: pool.Len()}, nil
}

func (f *skillFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"skill": f.skill},
	}
}
