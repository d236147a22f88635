package textproc

import (
	"strings"
	"testing"

	"github.com/spigell/job-ranker/internal/adzuna"
)

func TestClean(t *testing.T) {
	n := NewNormalizer()

	tests := []struct {
		name            string
		input           string
		removeStopWords bool
		expect          string
	}{
		{
			name:   "empty input",
			input:  "",
			expect: "",
		},
		{
			name:   "html tags and entities",
			input:  "<p>Senior &amp; Lead Engineer</p>",
			expect: "senior lead engineer",
		},
		{
			name:   "urls removed",
			input:  "Apply at https://example.com/jobs?id=1 today",
			expect: "apply at today",
		},
		{
			name:   "emails removed",
			input:  "Contact hr@example.com for details",
			expect: "contact for details",
		},
		{
			name:   "phone numbers removed",
			input:  "Call 314-555-1234 or (314) 555-9876 now",
			expect: "call or now",
		},
		{
			name:   "punctuation and case",
			input:  "Go, Python; and: SQL!",
			expect: "go python and sql",
		},
		{
			name:   "whitespace collapsed",
			input:  "too   many\n\nspaces\there",
			expect: "too many spaces here",
		},
		{
			name:            "stop words removed",
			input:           "the engineer is building the services",
			removeStopWords: true,
			expect:          "engineer building services",
		},
		{
			name:            "short words dropped with stop words",
			input:           "go is my language",
			removeStopWords: true,
			expect:          "language",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := n.Clean(tt.input, tt.removeStopWords); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}

func TestExtractSections(t *testing.T) {
	n := NewNormalizer()

	resume := strings.Join([]string{
		"Jane Doe",
		"Summary",
		"Seasoned backend engineer with a focus on distributed systems and a decade of shipping production services.",
		"Experience",
		"Acme Corp: built data pipelines and internal platforms used by every product team in the company daily.",
		"Skills",
		"Go, Python, SQL, Kubernetes, Terraform, AWS and general infrastructure automation at scale.",
		"Education",
		"BS Computer Science",
	}, "\n")

	sections := n.ExtractSections(resume)

	if sections["full_text"] != resume {
		t.Fatalf("full text not preserved")
	}
	if !strings.Contains(sections["experience"], "Acme Corp") {
		t.Fatalf("experience section not extracted: %q", sections["experience"])
	}
	if !strings.Contains(sections["skills"], "Kubernetes") {
		t.Fatalf("skills section not extracted: %q", sections["skills"])
	}
	if !strings.HasPrefix(strings.ToLower(sections["summary"]), "summary") {
		t.Fatalf("summary section should start at its header: %q", sections["summary"])
	}
}

func TestExtractSectionsMissingHeaders(t *testing.T) {
	n := NewNormalizer()

	sections := n.ExtractSections("just a plain paragraph, nothing resume shaped")

	if sections["experience"] != "" {
		t.Fatalf("expected empty experience, got %q", sections["experience"])
	}
	if sections["full_text"] == "" {
		t.Fatalf("full text must always be set")
	}
}

func TestPrepareResumeTextWeightsFocusSections(t *testing.T) {
	n := NewNormalizer()

	resume := strings.Join([]string{
		"Experience",
		"Worked on searchranking systems for a long while across several employers and shipped them to production.",
		"Education",
		"Studied computer science at a state university with honors and a minor in applied mathematics for good measure.",
	}, "\n")

	prepared := n.PrepareResumeText(resume, nil)

	// The experience section is repeated, so its words must occur more often
	// than the education ones.
	expCount := strings.Count(prepared, "searchranking")
	eduCount := strings.Count(prepared, "honors")
	if expCount <= eduCount {
		t.Fatalf("expected focus section weighted, got experience=%d education=%d", expCount, eduCount)
	}
	if prepared != strings.ToLower(prepared) {
		t.Fatalf("prepared text must be lowercase")
	}
}

func TestPrepareJobText(t *testing.T) {
	n := NewNormalizer()

	p := &adzuna.Posting{
		Title:        "Go Developer",
		Description:  "Write Go services",
		SalaryMin:    100000,
		SalaryMax:    150000,
		ContractTime: "full_time",
	}
	p.Company.DisplayName = "Acme"
	p.Location.DisplayName = "St. Louis, MO"

	got := n.PrepareJobText(p)

	if strings.Count(got, "go developer") != 2 {
		t.Fatalf("expected title repeated twice, got %q", got)
	}
	// Cleaning strips the period from "St. Louis".
	if !strings.Contains(got, "acme") || !strings.Contains(got, "st louis") {
		t.Fatalf("company or location missing: %q", got)
	}
	if !strings.Contains(got, "salary 100") {
		t.Fatalf("salary info missing: %q", got)
	}
	if !strings.Contains(got, "full-time") {
		t.Fatalf("job type missing: %q", got)
	}
}

func TestPrepareJobTextSkipsUnknownFields(t *testing.T) {
	n := NewNormalizer()

	p := &adzuna.Posting{Title: "Engineer", Description: "Do work"}
	got := n.PrepareJobText(p)

	if strings.Contains(got, "salary") {
		t.Fatalf("expected no salary text for a posting without bounds: %q", got)
	}
	if strings.Contains(got, "not specified") {
		t.Fatalf("expected unspecified job type to be skipped: %q", got)
	}
}

func TestNormalizeLocation(t *testing.T) {
	tests := []struct {
		input  string
		expect string
	}{
		{"Saint Louis, MO", "st. louis, mo"},
		{"St Louis", "st. louis"},
		{"NYC", "new york"},
		{"SF Bay Area", "san francisco"},
		{"  Chicago  ", "chicago"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeLocation(tt.input); got != tt.expect {
			t.Fatalf("NormalizeLocation(%q): expected %q, got %q", tt.input, tt.expect, got)
		}
	}
}
