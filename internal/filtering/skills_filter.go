package filtering

import (
	"context"
	"strings"

	"github.com/spigell/job-ranker/internal/ranking"
)

type requiredSkillsFilter struct {
	skills   []string
	disabled bool
}

// NewRequiredSkills creates a filter that keeps postings whose description
// contains every required skill as a case-insensitive substring. This is an
// AND across skills. An empty set passes everything.
func NewRequiredSkills(skills []string) Filter {
	cleaned := make([]string, 0, len(skills))
	for _, skill := range skills {
		if s := strings.TrimSpace(skill); s != "" {
			cleaned = append(cleaned, s)
		}
	}

	return &requiredSkillsFilter{
		skills: cleaned,
	}
}

func (f *requiredSkillsFilter) Name() string { return "required_skills" }

func (f *requiredSkillsFilter) Disable(string) { f.disabled = true }

func (f *requiredSkillsFilter) IsEnabled() bool { return !f.disabled }

func (f *requiredSkillsFilter) Validate() error { return nil }

func (f *requiredSkillsFilter) Apply(_ context.Context, items []ranking.ScoredPosting) ([]ranking.ScoredPosting, Step, error) {
	initial := len(items)
	if len(f.skills) == 0 {
		return items, Step{Initial: initial, Dropped: 0, Left: initial}, nil
	}

	kept := make([]ranking.ScoredPosting, 0, len(items))
	for _, item := range items {
		description := strings.ToLower(item.Posting.Description)

		all := true
		for _, skill := range f.skills {
			if !strings.Contains(description, strings.ToLower(skill)) {
				all = false
				break
			}
		}
		if all {
			kept = append(kept, item)
		}
	}

	return kept, Step{Initial: initial, Dropped: initial - len(kept), Left: len(kept)}, nil
}
