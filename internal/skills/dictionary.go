package skills

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultVersion identifies the built-in dictionary.
const DefaultVersion = "v1"

var defaultEntries = []string{
	"python", "java", "c++", "sql", "mysql", "postgresql",
	"flask", "django", "fastapi",
	"machine learning", "deep learning", "nlp",
	"pandas", "numpy", "scikit-learn",
	"data analysis", "data science",
	"html", "css", "javascript", "react",
	"docker", "git", "linux",
}

// Dictionary is an immutable, versioned, ordered list of lowercase skill keywords.
type Dictionary struct {
	version string
	entries []string
}

// NewDictionary normalises entries (trim, lowercase, drop blanks and duplicates)
// keeping their first-seen order.
func NewDictionary(version string, entries []string) (*Dictionary, error) {
	version = strings.TrimSpace(version)
	if version == "" {
		return nil, fmt.Errorf("skill dictionary version is required")
	}

	seen := make(map[string]struct{}, len(entries))
	normalized := make([]string, 0, len(entries))
	for _, e := range entries {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		normalized = append(normalized, e)
	}

	if len(normalized) == 0 {
		return nil, fmt.Errorf("skill dictionary %s has no entries", version)
	}

	return &Dictionary{version: version, entries: normalized}, nil
}

// Default returns the built-in dictionary.
func Default() *Dictionary {
	d, _ := NewDictionary(DefaultVersion, defaultEntries)
	return d
}

type dictionaryFile struct {
	Version string   `yaml:"version"`
	Skills  []string `yaml:"skills"`
}

// LoadDictionary reads a YAML file of the form {version: ..., skills: [...]}.
func LoadDictionary(path string) (*Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading skill dictionary %q: %w", path, err)
	}

	var file dictionaryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing skill dictionary %q: %w", path, err)
	}

	return NewDictionary(file.Version, file.Skills)
}

func (d *Dictionary) Version() string { return d.version }

func (d *Dictionary) Len() int { return len(d.entries) }

// Entries returns a copy of the keywords in dictionary order.
func (d *Dictionary) Entries() []string {
	out := make([]string, len(d.entries))
	copy(out, d.entries)
	return out
}
