package filtering

import (
	"context"

	"github.com/spigell/job-ranker/internal/ranking"
)

type minScoreFilter struct {
	threshold float64
	disabled  bool
}

// NewMinScore creates a filter that drops postings scoring below the
// threshold. A non-positive threshold passes everything, so negative
// similarities survive unless a floor is asked for explicitly.
func NewMinScore(threshold float64) Filter {
	return &minScoreFilter{
		threshold: threshold,
	}
}

func (f *minScoreFilter) Name() string { return "min_score" }

func (f *minScoreFilter) Disable(string) { f.disabled = true }

func (f *minScoreFilter) IsEnabled() bool { return !f.disabled }

func (f *minScoreFilter) Validate() error { return nil }

func (f *minScoreFilter) Apply(_ context.Context, items []ranking.ScoredPosting) ([]ranking.ScoredPosting, Step, error) {
	initial := len(items)
	if f.threshold <= 0 {
		return items, Step{Initial: initial, Dropped: 0, Left: initial}, nil
	}

	kept := make([]ranking.ScoredPosting, 0, len(items))
	for _, item := range items {
		if item.Score >= f.threshold {
			kept = append(kept, item)
		}
	}

	return kept, Step{Initial: initial, Dropped: initial - len(kept), Left: len(kept)}, nil
}
