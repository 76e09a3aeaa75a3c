package project

import (
	"sort"
	"strings"
)

// Stats summarizes a project list the way the dashboard header does.
type Stats struct {
	Total    int            `json:"total"`
	Featured int            `json:"featured"`
	Active   int            `json:"active"`
	Draft    int            `json:"draft"`
	ByStatus map[string]int `json:"by_status"`
}

// Summarize counts projects by flag and status. Status comparisons ignore
// case; ByStatus keys are lowercased, with blank statuses under "(none)".
func Summarize(projects []Project) Stats {
	stats := Stats{Total: len(projects), ByStatus: make(map[string]int)}
	for _, p := range projects {
		if p.Featured {
			stats.Featured++
		}
		switch {
		case p.Status.Is(StatusActive):
			stats.Active++
		case p.Status.Is(StatusDraft):
			stats.Draft++
		}
		key := strings.ToLower(strings.TrimSpace(string(p.Status)))
		if key == "" {
			key = "(none)"
		}
		stats.ByStatus[key]++
	}
	return stats
}

// StatusKeys returns the ByStatus keys sorted by descending count then name.
func (s Stats) StatusKeys() []string {
	keys := make([]string, 0, len(s.ByStatus))
	for k := range s.ByStatus {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ci, cj := s.ByStatus[keys[i]], s.ByStatus[keys[j]]
		if ci != cj {
			return ci > cj
		}
		return keys[i] < keys[j]
	})
	return keys
}
