package results

import (
	"math"
	"strings"

	"github.com/spigell/job-ranker/internal/filtering"
	"github.com/spigell/job-ranker/internal/ranking"
)

// Recommendation is a flattened scored posting for reports.
type Recommendation struct {
	Rank       int     `json:"rank" csv:"rank"`
	Score      float64 `json:"similarity" csv:"similarity"`
	Title      string  `json:"title" csv:"title"`
	Company    string  `json:"company" csv:"company"`
	Location   string  `json:"location" csv:"location"`
	Salary     string  `json:"salary" csv:"salary"`
	JobType    string  `json:"job_type" csv:"job_type"`
	Experience string  `json:"experience,omitempty" csv:"experience"`
	URL        string  `json:"url" csv:"url"`
}

// Recommendations flattens scored postings into report rows. Scores are
// rounded to four decimals for display, experience levels are detected from
// the posting text.
func Recommendations(scored []ranking.ScoredPosting) []Recommendation {
	rows := make([]Recommendation, 0, len(scored))

	for _, sp := range scored {
		rows = append(rows, Recommendation{
			Rank:       sp.Rank,
			Score:      roundScore(sp.Score),
			Title:      sp.Posting.Title,
			Company:    sp.Posting.Company.DisplayName,
			Location:   sp.Posting.Location.DisplayName,
			Salary:     sp.Posting.SalaryString(),
			JobType:    sp.Posting.JobType(),
			Experience: strings.Join(filtering.DetectLevels(sp.Posting.Title, sp.Posting.Description), ", "),
			URL:        sp.Posting.RedirectURL,
		})
	}

	return rows
}

// ScoreRecord is one row of the full similarity listing, covering every
// ranked posting rather than just the top picks.
type ScoreRecord struct {
	Rank     int     `json:"rank"`
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Company  string  `json:"company"`
	Location string  `json:"location"`
	Score    float64 `json:"similarity_score"`
}

// ScoreRecords lists every scored posting in rank order.
func ScoreRecords(scored []ranking.ScoredPosting) []ScoreRecord {
	records := make([]ScoreRecord, 0, len(scored))

	for _, sp := range scored {
		records = append(records, ScoreRecord{
			Rank:     sp.Rank,
			ID:       sp.Posting.ID,
			Title:    sp.Posting.Title,
			Company:  sp.Posting.Company.DisplayName,
			Location: sp.Posting.Location.DisplayName,
			Score:    sp.Score,
		})
	}

	return records
}

func roundScore(score float64) float64 {
	return math.Round(score*10000) / 10000
}
