package jobs

import (
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/spigell/jobmatch/internal/extract"
)

// LoadFile reads a job pool from a JSON or YAML file. The document is either a
// list of jobs or a mapping with a "jobs" list. Scalar ids (numbers) are
// accepted and kept as strings.
func LoadFile(path string) (*Pool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading jobs file %q: %w", path, err)
	}

	// JSON is a subset of YAML, so one parser covers both formats.
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing jobs file %q: %w", path, err)
	}

	if doc, ok := raw.(map[string]any); ok {
		raw = doc["jobs"]
	}

	items, err := DecodeItems(raw)
	if err != nil {
		return nil, fmt.Errorf("decoding jobs file %q: %w", path, err)
	}

	return &Pool{Items: items}, nil
}

// DecodeItems converts loosely typed job records into jobs. Records without an id are rejected.
func DecodeItems(raw any) ([]*Job, error) {
	if raw == nil {
		return []*Job{}, nil
	}

	var items []*Job
	cfg := &mapstructure.DecoderConfig{
		Result:           &items,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, err
	}

	for i, job := range items {
		if job == nil {
			return nil, fmt.Errorf("job #%d is empty", i)
		}
		job.ID = strings.TrimSpace(job.ID)
		if job.ID == "" {
			return nil, fmt.Errorf("job #%d has no id", i)
		}
	}

	if items == nil {
		items = []*Job{}
	}
	return items, nil
}

// StripHTML replaces HTML descriptions with their visible text. Descriptions
// that fail to parse are left untouched.
func (p *Pool) StripHTML() {
	for _, job := range p.Items {
		if !strings.Contains(job.Description, "<") {
			continue
		}
		text, err := extract.HTMLText(strings.NewReader(job.Description))
		if err != nil {
			continue
		}
		job.Description = text
	}
}
