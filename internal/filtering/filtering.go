package filtering

import (
	"context"
	"fmt"

	"github.com/spigell/job-ranker/internal/ranking"
	"go.uber.org/zap"
)

// Filter represents a single filtering step applied to ranked postings.
// Steps are pure: they never mutate or re-sort the input list.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate() error
	Apply(ctx context.Context, items []ranking.ScoredPosting) ([]ranking.ScoredPosting, Step, error)
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Criteria bundles the user-configurable constraints. Zero values mean no
// constraint on that dimension.
type Criteria struct {
	MinSalary  float64  `yaml:"min_salary" mapstructure:"min_salary"`
	Experience []string `yaml:"experience" mapstructure:"experience"`
	JobTypes   []string `yaml:"job_types" mapstructure:"job_types"`
	Skills     []string `yaml:"skills" mapstructure:"skills"`
	MinScore   float64  `yaml:"min_score" mapstructure:"min_score"`
}

// Steps builds the standard filter chain for the provided criteria. Every
// step is present; unset criteria make the corresponding step pass everything.
func Steps(c *Criteria) []Filter {
	if c == nil {
		c = &Criteria{}
	}

	return []Filter{
		NewSalaryFloor(c.MinSalary),
		NewExperience(c.Experience),
		NewJobTypes(c.JobTypes),
		NewRequiredSkills(c.Skills),
		NewMinScore(c.MinScore),
	}
}

// Filtering executes a chain of filters over a ranked posting list.
type Filtering struct {
	steps  []Filter
	logger *zap.Logger
}

func New(steps []Filter, logger *zap.Logger) *Filtering {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Filtering{
		steps:  steps,
		logger: logger,
	}
}

// DisableByName marks a filter with the provided name as disabled while keeping it in the list.
func DisableByName(steps []Filter, name, reason string) {
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// RunFilters validates all enabled steps up front, then applies them in
// order. The input list is never mutated; each step receives the output of
// the previous one.
func (f *Filtering) RunFilters(ctx context.Context, items []ranking.ScoredPosting) ([]ranking.ScoredPosting, error) {
	for _, step := range f.steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}
	}

	for _, step := range f.steps {
		if !step.IsEnabled() {
			f.logger.Info("filter disabled", zap.String("name", step.Name()))
			continue
		}

		next, info, err := step.Apply(ctx, items)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		f.logger.Info("filter step",
			zap.String("name", step.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)

		items = next
	}

	return items, nil
}
