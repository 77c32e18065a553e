package skills

import (
	"sort"
	"strings"
)

// Count is how many skill sets mention a skill.
type Count struct {
	Skill string `json:"skill"`
	Count int    `json:"count"`
}

// Tally counts skills across sets, each set contributing at most once per skill.
// Results are ordered by count descending, then skill name.
func Tally(sets [][]string) []Count {
	counts := make(map[string]int)
	for _, set := range sets {
		seen := make(map[string]struct{}, len(set))
		for _, s := range set {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			counts[s]++
		}
	}

	out := make([]Count, 0, len(counts))
	for s, c := range counts {
		out = append(out, Count{Skill: s, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Skill < out[j].Skill
	})
	return out
}

// SplitStored parses a comma-joined skill list as stored next to an application.
func SplitStored(joined string) []string {
	parts := strings.Split(joined, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// JoinStored is the inverse of SplitStored.
func JoinStored(skills []string) string {
	return strings.Join(skills, ", ")
}
