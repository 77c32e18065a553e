package jobs

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	JobIDField      = "ID"
	JobCompanyField = "Company"
)

var ErrJobNotFound = errors.New("job not found")

// Job is the engine's view of a job posting. ID is the opaque reference back to
// the owning record.
type Job struct {
	ID          string `json:"id" yaml:"id" mapstructure:"id"`
	Title       string `json:"title,omitempty" yaml:"title" mapstructure:"title"`
	Company     string `json:"company,omitempty" yaml:"company" mapstructure:"company"`
	Location    string `json:"location,omitempty" yaml:"location" mapstructure:"location"`
	Description string `json:"description,omitempty" yaml:"description" mapstructure:"description"`
}

// Pool is an ordered collection of jobs. Order is significant: ranking ties
// keep it.
type Pool struct {
	Items []*Job `json:"items"`
}

type ExcludedJobs struct {
	Items []*ExcludedJob
}

type ExcludedJob struct {
	ID         string
	Title      string
	Company    string
	ExcludedAt time.Time
}

func NewPool(items ...*Job) *Pool {
	return &Pool{Items: items}
}

func (p *Pool) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Items)
}

// Clone returns a pool with its own slice; the jobs themselves are shared.
func (p *Pool) Clone() *Pool {
	if p == nil {
		return &Pool{}
	}
	items := make([]*Job, len(p.Items))
	copy(items, p.Items)
	return &Pool{Items: items}
}

func (p *Pool) FindByID(id string) *Job {
	for _, job := range p.Items {
		if job.ID == id {
			return job
		}
	}
	return nil
}

// Get is FindByID returning ErrJobNotFound for unknown ids.
func (p *Pool) Get(id string) (*Job, error) {
	if job := p.FindByID(id); job != nil {
		return job, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrJobNotFound, id)
}

func (p *Pool) IDs() []string {
	ids := make([]string, 0, p.Len())
	for _, job := range p.Items {
		ids = append(ids, job.ID)
	}
	return ids
}

func (p *Pool) Descriptions() []string {
	out := make([]string, 0, p.Len())
	for _, job := range p.Items {
		out = append(out, job.Description)
	}
	return out
}

func (j *Job) GetStringField(name string) string {
	switch name {
	case JobIDField:
		return j.ID
	case JobCompanyField:
		return j.Company
	default:
		return ""
	}
}

// Exclude removes every job whose field equals one of targets and returns the
// removed ids. The relative order of the remaining jobs is kept.
func (p *Pool) Exclude(name string, targets []string) []string {
	if len(targets) == 0 {
		return nil
	}

	set := make(map[string]struct{}, len(targets))
	for _, t := range targets {
		set[t] = struct{}{}
	}

	var excluded []string
	kept := p.Items[:0]
	for _, job := range p.Items {
		if _, ok := set[job.GetStringField(name)]; ok {
			excluded = append(excluded, job.ID)
			continue
		}
		kept = append(kept, job)
	}
	clear(p.Items[len(kept):])
	p.Items = kept

	return excluded
}

// Keep retains only jobs accepted by fn, preserving order, and returns the ids it dropped.
func (p *Pool) Keep(fn func(*Job) bool) []string {
	var dropped []string
	kept := p.Items[:0]
	for _, job := range p.Items {
		if fn(job) {
			kept = append(kept, job)
			continue
		}
		dropped = append(dropped, job.ID)
	}
	clear(p.Items[len(kept):])
	p.Items = kept

	return dropped
}

// ReportByCompany groups job titles and a short description preview by company.
func (p *Pool) ReportByCompany() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, job := range p.Items {
		key := job.Company
		if strings.TrimSpace(key) == "" {
			key = "(unknown company)"
		}
		report[key] = append(report[key], map[string]string{
			"id":       job.ID,
			"title":    job.Title,
			"location": job.Location,
		})
	}
	return report
}

func (p *Pool) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "jobs_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return "", err
	}
	return file.Name(), nil
}

func (p *Pool) ToExcluded() *ExcludedJobs {
	excluded := &ExcludedJobs{}
	for _, job := range p.Items {
		excluded.Items = append(excluded.Items, &ExcludedJob{
			ID:         job.ID,
			Title:      job.Title,
			Company:    job.Company,
			ExcludedAt: time.Now().UTC(),
		})
	}
	return excluded
}

// GetExcludedJobsFromFile reads an exclude file. A missing or empty file is an empty list.
func GetExcludedJobsFromFile(path string) (*ExcludedJobs, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &ExcludedJobs{}, nil
		}
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if stat.Size() == 0 {
		return &ExcludedJobs{}, nil
	}

	var excluded ExcludedJobs
	if err := json.NewDecoder(file).Decode(&excluded); err != nil {
		return nil, err
	}
	return &excluded, nil
}

func (e *ExcludedJobs) Append(s *ExcludedJobs) {
	e.Items = append(e.Items, s.Items...)
}

func (e *ExcludedJobs) IDs() []string {
	ids := make([]string, 0, len(e.Items))
	for _, job := range e.Items {
		ids = append(ids, job.ID)
	}
	return ids
}

func (e *ExcludedJobs) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}
