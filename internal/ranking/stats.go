package ranking

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Stats summarizes the score distribution of a ranked list.
type Stats struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Q25    float64 `json:"q25"`
	Q75    float64 `json:"q75"`
}

// Summarize computes distribution statistics over the scores of a ranked
// list. An empty list yields zero stats.
func Summarize(ranked []ScoredPosting) Stats {
	if len(ranked) == 0 {
		return Stats{}
	}

	scores := make([]float64, 0, len(ranked))
	for _, item := range ranked {
		scores = append(scores, item.Score)
	}
	sort.Float64s(scores)

	s := Stats{
		Count:  len(scores),
		Mean:   stat.Mean(scores, nil),
		Median: stat.Quantile(0.5, stat.Empirical, scores, nil),
		Min:    scores[0],
		Max:    scores[len(scores)-1],
		Q25:    stat.Quantile(0.25, stat.Empirical, scores, nil),
		Q75:    stat.Quantile(0.75, stat.Empirical, scores, nil),
	}

	// Sample deviation needs at least two scores.
	if len(scores) > 1 {
		s.StdDev = stat.StdDev(scores, nil)
	}

	return s
}
