package filtering

import (
	"context"
	"strings"

	"github.com/spigell/job-ranker/internal/ranking"
)

type jobTypesFilter struct {
	types    []string
	disabled bool
}

// NewJobTypes creates a filter that keeps postings whose job type matches one
// of the allowed types. Matching ignores case and separators, so full_time,
// Full-time and "full time" are the same type. An empty set passes everything.
func NewJobTypes(types []string) Filter {
	return &jobTypesFilter{
		types: types,
	}
}

// canonicalJobType folds case and drops separators so the Adzuna contract
// values and the display names compare equal.
func canonicalJobType(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Map(func(r rune) rune {
		switch r {
		case '_', '-', ' ':
			return -1
		}
		return r
	}, s)
}

func (f *jobTypesFilter) Name() string { return "job_type" }

func (f *jobTypesFilter) Disable(string) { f.disabled = true }

func (f *jobTypesFilter) IsEnabled() bool { return !f.disabled }

func (f *jobTypesFilter) Validate() error { return nil }

func (f *jobTypesFilter) Apply(_ context.Context, items []ranking.ScoredPosting) ([]ranking.ScoredPosting, Step, error) {
	initial := len(items)
	if len(f.types) == 0 {
		return items, Step{Initial: initial, Dropped: 0, Left: initial}, nil
	}

	kept := make([]ranking.ScoredPosting, 0, len(items))
	for _, item := range items {
		jobType := canonicalJobType(item.Posting.JobType())
		for _, allowed := range f.types {
			if jobType == canonicalJobType(allowed) {
				kept = append(kept, item)
				break
			}
		}
	}

	return kept, Step{Initial: initial, Dropped: initial - len(kept), Left: len(kept)}, nil
}
