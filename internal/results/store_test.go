package results

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spigell/job-ranker/internal/adzuna"
	"github.com/spigell/job-ranker/internal/ranking"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(filepath.Join(t.TempDir(), "results"), zap.NewNop())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	return store
}

func scoredFixture() []ranking.ScoredPosting {
	first := &adzuna.Posting{
		ID:          "1001",
		Title:       "Senior Go Developer",
		Description: "Build Go services",
		SalaryMin:   120000,
		SalaryMax:   150000,
		RedirectURL: "https://example.com/jobs/1001",
	}
	first.Company.DisplayName = "Acme Corp"
	first.Location.DisplayName = "St. Louis, MO"
	first.ContractTime = "full_time"

	second := &adzuna.Posting{
		ID:    "1002",
		Title: "Platform Engineer",
	}
	second.Company.DisplayName = "Globex"
	second.Location.DisplayName = "Remote"

	return []ranking.ScoredPosting{
		{Posting: first, Score: 0.87654321, Rank: 1},
		{Posting: second, Score: 0.5, Rank: 2},
	}
}

func TestNewStoreCreatesNestedDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "deep", "run", "results")

	store, err := NewStore(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	info, err := os.Stat(store.Dir())
	if err != nil || !info.IsDir() {
		t.Fatalf("expected results directory to exist, got %v (err %v)", info, err)
	}
}

func TestSaveJSONRoundTrip(t *testing.T) {
	store := newTestStore(t)

	path, err := store.SaveJSON("scores.json", map[string]int{"count": 3})
	if err != nil {
		t.Fatalf("SaveJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}

	var decoded map[string]int
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("artifact is not valid json: %v", err)
	}

	if decoded["count"] != 3 {
		t.Fatalf("unexpected decoded artifact: %v", decoded)
	}

	if !strings.Contains(string(data), "\n") {
		t.Fatalf("expected indented output, got %q", string(data))
	}
}

func TestSaveText(t *testing.T) {
	store := newTestStore(t)

	path, err := store.SaveText("resume_cleaned.txt", "clean resume text")
	if err != nil {
		t.Fatalf("SaveText: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}

	if string(data) != "clean resume text" {
		t.Fatalf("unexpected content %q", string(data))
	}
}

func TestSaveCSVLayout(t *testing.T) {
	store := newTestStore(t)

	path, err := store.SaveCSV("top_recommendations.csv", Recommendations(scoredFixture()))
	if err != nil {
		t.Fatalf("SaveCSV: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines: %q", len(lines), string(data))
	}

	if lines[0] != "rank,similarity,title,company,location,salary,job_type,experience,url" {
		t.Fatalf("unexpected header %q", lines[0])
	}

	if !strings.HasPrefix(lines[1], "1,0.8765,Senior Go Developer,Acme Corp,") {
		t.Fatalf("unexpected first row %q", lines[1])
	}
}

func TestWriteCSVToExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	if err := WriteCSV(path, Recommendations(scoredFixture())); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected csv at %s: %v", path, err)
	}
}

func TestRecommendationsFlattenScoredPostings(t *testing.T) {
	rows := Recommendations(scoredFixture())

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	first := rows[0]

	if first.Rank != 1 || first.Title != "Senior Go Developer" || first.Company != "Acme Corp" {
		t.Fatalf("unexpected first row: %+v", first)
	}

	if first.Score != 0.8765 {
		t.Fatalf("expected score rounded to 0.8765, got %v", first.Score)
	}

	if first.Salary != "$120,000 - $150,000" {
		t.Fatalf("unexpected salary %q", first.Salary)
	}

	if first.JobType != "Full-time" {
		t.Fatalf("unexpected job type %q", first.JobType)
	}

	if first.Experience != "Senior" {
		t.Fatalf("expected detected experience level, got %q", first.Experience)
	}

	second := rows[1]

	if second.Salary != adzuna.SalaryNotSpecified || second.JobType != adzuna.JobTypeNotSpecified {
		t.Fatalf("expected not-specified fallbacks, got %+v", second)
	}
}

func TestScoreRecordsKeepRankOrder(t *testing.T) {
	records := ScoreRecords(scoredFixture())

	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	if records[0].Rank != 1 || records[0].ID != "1001" || records[0].Score != 0.87654321 {
		t.Fatalf("unexpected first record: %+v", records[0])
	}

	if records[1].Company != "Globex" {
		t.Fatalf("unexpected second record: %+v", records[1])
	}
}

func TestNewManifest(t *testing.T) {
	first := NewManifest(map[string]string{"keywords": "go developer"})
	second := NewManifest(nil)

	if first.RunID == "" || second.RunID == "" {
		t.Fatalf("expected run ids to be set")
	}

	if first.RunID == second.RunID {
		t.Fatalf("expected distinct run ids")
	}

	if first.CreatedAt.IsZero() {
		t.Fatalf("expected created timestamp")
	}
}

func TestDumpToTmpFile(t *testing.T) {
	path, err := DumpToTmpFile(Recommendations(scoredFixture()))
	if err != nil {
		t.Fatalf("DumpToTmpFile: %v", err)
	}
	defer os.Remove(path)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read dump: %v", err)
	}

	var rows []Recommendation
	if err := json.Unmarshal(data, &rows); err != nil {
		t.Fatalf("dump is not valid json: %v", err)
	}

	if len(rows) != 2 || rows[0].Title != "Senior Go Developer" {
		t.Fatalf("unexpected dump contents: %+v", rows)
	}
}
