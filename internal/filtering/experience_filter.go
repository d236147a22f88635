package filtering

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/spigell/job-ranker/internal/ranking"
)

// knownLevels fixes the detection order so the same posting always reports
// the same levels.
var knownLevels = []string{
	"Entry Level",
	"Junior",
	"Mid-Level",
	"Senior",
	"Lead",
	"Principal",
	"Executive",
}

var levelPatterns = map[string]*regexp.Regexp{
	"Entry Level": regexp.MustCompile(`(?i)\b(entry|junior|jr|graduate|intern)\b`),
	"Junior":      regexp.MustCompile(`(?i)\b(junior|jr)\b`),
	"Mid-Level":   regexp.MustCompile(`(?i)\b(mid|middle|intermediate)\b`),
	"Senior":      regexp.MustCompile(`(?i)\b(senior|sr)\b`),
	"Lead":        regexp.MustCompile(`(?i)\b(lead|principal|staff)\b`),
	"Principal":   regexp.MustCompile(`(?i)\b(principal|staff|architect)\b`),
	"Executive":   regexp.MustCompile(`(?i)\b(executive|director|vp|cto|ceo|head)\b`),
}

// DetectLevels reports every experience level whose keywords appear in the
// posting title or description.
func DetectLevels(title, description string) []string {
	text := title + " " + description

	var levels []string
	for _, level := range knownLevels {
		if levelPatterns[level].MatchString(text) {
			levels = append(levels, level)
		}
	}
	return levels
}

type experienceFilter struct {
	levels   []string
	disabled bool
}

// NewExperience creates a filter that keeps postings whose detected
// experience levels intersect the allowed set. An empty set passes everything.
func NewExperience(levels []string) Filter {
	return &experienceFilter{
		levels: levels,
	}
}

func (f *experienceFilter) Name() string { return "experience" }

func (f *experienceFilter) Disable(string) { f.disabled = true }

func (f *experienceFilter) IsEnabled() bool { return !f.disabled }

// Validate canonicalizes the configured level names and rejects unknown ones.
func (f *experienceFilter) Validate() error {
	canonical := make([]string, 0, len(f.levels))
	for _, level := range f.levels {
		matched := ""
		for _, known := range knownLevels {
			if strings.EqualFold(strings.TrimSpace(level), known) {
				matched = known
				break
			}
		}
		if matched == "" {
			return fmt.Errorf("unknown experience level %q (known: %s)", level, strings.Join(knownLevels, ", "))
		}
		canonical = append(canonical, matched)
	}
	f.levels = canonical

	return nil
}

func (f *experienceFilter) Apply(_ context.Context, items []ranking.ScoredPosting) ([]ranking.ScoredPosting, Step, error) {
	initial := len(items)
	if len(f.levels) == 0 {
		return items, Step{Initial: initial, Dropped: 0, Left: initial}, nil
	}

	kept := make([]ranking.ScoredPosting, 0, len(items))
	for _, item := range items {
		text := item.Posting.Title + " " + item.Posting.Description
		for _, level := range f.levels {
			if levelPatterns[level].MatchString(text) {
				kept = append(kept, item)
				break
			}
		}
	}

	return kept, Step{Initial: initial, Dropped: initial - len(kept), Left: len(kept)}, nil
}
