// Package ranking scores job postings against a reference resume vector by
// cosine similarity. All functions are pure and operate on in-memory values.
package ranking

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/spigell/job-ranker/internal/adzuna"
)

// Vector is a fixed-dimensionality embedding produced by an external model.
// Never mutated after creation.
type Vector []float64

// DimensionMismatchError reports vectors of unequal length. The mismatch is a
// hard error: truncating or padding would silently corrupt the ranking.
type DimensionMismatchError struct {
	Reference int
	Candidate int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("dimension mismatch: reference vector has %d dimensions, candidate has %d", e.Reference, e.Candidate)
}

// Candidate pairs a posting with its embedding vector.
type Candidate struct {
	Posting *adzuna.Posting
	Vector  Vector
}

// ScoredPosting is a posting with its similarity score and 1-based rank.
type ScoredPosting struct {
	Posting *adzuna.Posting `json:"posting"`
	Score   float64         `json:"score"`
	Rank    int             `json:"rank"`
}

// Score computes the cosine similarity between two vectors. A zero vector has
// undefined direction, so either norm being exactly zero yields 0 rather than
// an error. The result is not clamped.
func Score(reference, candidate Vector) (float64, error) {
	if len(reference) != len(candidate) {
		return 0, &DimensionMismatchError{
			Reference: len(reference),
			Candidate: len(candidate),
		}
	}

	var dot, normRef, normCand float64
	for i := range reference {
		dot += reference[i] * candidate[i]
		normRef += reference[i] * reference[i]
		normCand += candidate[i] * candidate[i]
	}

	if normRef == 0 || normCand == 0 {
		return 0, nil
	}

	return dot / (math.Sqrt(normRef) * math.Sqrt(normCand)), nil
}

// Rank scores every candidate against the reference and returns the list
// sorted by score descending, ties keeping their input order. Ranks are
// assigned 1..n after sorting. Any malformed candidate vector fails the whole
// call; callers wanting partial tolerance must pre-filter.
func Rank(reference Vector, candidates []Candidate) ([]ScoredPosting, error) {
	scored := make([]ScoredPosting, 0, len(candidates))
	for i, candidate := range candidates {
		score, err := Score(reference, candidate.Vector)
		if err != nil {
			var id string
			if candidate.Posting != nil {
				id = candidate.Posting.ID
			}
			return nil, fmt.Errorf("scoring posting %q (index %d): %w", id, i, err)
		}

		scored = append(scored, ScoredPosting{
			Posting: candidate.Posting,
			Score:   score,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	for i := range scored {
		scored[i].Rank = i + 1
	}

	return scored, nil
}

// TopN returns the first n entries of the ranked list, fewer when the list is
// shorter. n <= 0 returns an empty list.
func TopN(ranked []ScoredPosting, n int) []ScoredPosting {
	if n <= 0 {
		return []ScoredPosting{}
	}
	if n > len(ranked) {
		n = len(ranked)
	}

	return ranked[:n]
}

// Report by company.
func ReportByCompany(ranked []ScoredPosting) map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, item := range ranked {
		key := item.Posting.CompanyName()
		if key == "" {
			key = "Unknown company"
		}
		report[key] = append(report[key], map[string]string{
			"title":    item.Posting.Title,
			"url":      item.Posting.RedirectURL,
			"location": item.Posting.LocationName(),
			"salary":   item.Posting.SalaryString(),
			"job type": item.Posting.JobType(),
			"score":    strconv.FormatFloat(item.Score, 'f', 4, 64),
			"rank":     strconv.Itoa(item.Rank),
		})
	}
	return report
}
