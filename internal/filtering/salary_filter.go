package filtering

import (
	"context"
	"fmt"

	"github.com/spigell/job-ranker/internal/ranking"
)

type salaryFloorFilter struct {
	min      float64
	disabled bool
}

// NewSalaryFloor creates a filter that keeps postings whose salary lower
// bound is at least min. Postings with no salary information cannot verify
// the constraint and are dropped. A non-positive min passes everything.
func NewSalaryFloor(min float64) Filter {
	return &salaryFloorFilter{
		min: min,
	}
}

func (f *salaryFloorFilter) Name() string { return "salary_floor" }

func (f *salaryFloorFilter) Disable(string) { f.disabled = true }

func (f *salaryFloorFilter) IsEnabled() bool { return !f.disabled }

func (f *salaryFloorFilter) Validate() error {
	if f.min < 0 {
		return fmt.Errorf("minimum salary cannot be negative: %v", f.min)
	}
	return nil
}

func (f *salaryFloorFilter) Apply(_ context.Context, items []ranking.ScoredPosting) ([]ranking.ScoredPosting, Step, error) {
	initial := len(items)
	if f.min <= 0 {
		return items, Step{Initial: initial, Dropped: 0, Left: initial}, nil
	}

	kept := make([]ranking.ScoredPosting, 0, len(items))
	for _, item := range items {
		floor, ok := item.Posting.SalaryFloor()
		if !ok {
			continue
		}
		if floor >= f.min {
			kept = append(kept, item)
		}
	}

	return kept, Step{Initial: initial, Dropped: initial - len(kept), Left: len(kept)}, nil
}
