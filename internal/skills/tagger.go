// Package skills detects canonical skill keywords in free text.
package skills

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

type pattern struct {
	re        *regexp.Regexp
	canonical string
}

// Tagger matches a Dictionary against text. Its compiled patterns are read-only,
// so one Tagger can serve concurrent callers.
type Tagger struct {
	dict     *Dictionary
	patterns []pattern
}

func NewTagger(dict *Dictionary) *Tagger {
	if dict == nil {
		dict = Default()
	}

	patterns := make([]pattern, 0, dict.Len())
	for _, entry := range dict.entries {
		// An entry must not touch a word character on either side, so "java"
		// never matches inside "javascript" and "c++" still matches before a space.
		re := regexp.MustCompile(`(?:^|[^0-9A-Za-z_])` + regexp.QuoteMeta(entry) + `(?:$|[^0-9A-Za-z_])`)
		patterns = append(patterns, pattern{re: re, canonical: TitleCase(entry)})
	}

	return &Tagger{dict: dict, patterns: patterns}
}

// Dictionary returns the dictionary the tagger was built from.
func (t *Tagger) Dictionary() *Dictionary {
	return t.dict
}

// Extract returns the canonical skills found in text, sorted alphabetically.
// Empty text yields an empty, non-nil slice.
func (t *Tagger) Extract(text string) []string {
	if strings.TrimSpace(text) == "" {
		return []string{}
	}

	lower := strings.ToLower(text)
	found := make(map[string]struct{})
	for _, p := range t.patterns {
		if p.re.MatchString(lower) {
			found[p.canonical] = struct{}{}
		}
	}

	return sortedKeys(found)
}

// Collect returns the sorted union of skills found across texts.
func (t *Tagger) Collect(texts ...string) []string {
	union := make(map[string]struct{})
	for _, text := range texts {
		for _, s := range t.Extract(text) {
			union[s] = struct{}{}
		}
	}
	return sortedKeys(union)
}

// HasSkill reports whether text mentions skill, ignoring case. It is a plain
// substring test, the loose match used when filtering a job list by a skill tag.
func HasSkill(text, skill string) bool {
	skill = strings.TrimSpace(skill)
	if skill == "" || text == "" {
		return false
	}
	return strings.Contains(strings.ToLower(text), strings.ToLower(skill))
}

// TitleCase upper-cases every letter that follows a non-letter and lower-cases
// the rest: "scikit-learn" becomes "Scikit-Learn", "sql" becomes "Sql".
func TitleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}
	return b.String()
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
