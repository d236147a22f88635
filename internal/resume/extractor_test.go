package resume

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func writeResume(t *testing.T, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write resume file: %v", err)
	}

	return path
}

func TestExtractFileTxt(t *testing.T) {
	content := "Jane Doe\nSenior Go Developer\nExperience with distributed systems."
	path := writeResume(t, "resume.txt", []byte(content))

	got, err := NewExtractor(zap.NewNop()).ExtractFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got != content {
		t.Fatalf("unexpected text: %q", got)
	}
}

func TestExtractFileTxtLatin1Fallback(t *testing.T) {
	// 0xe9 is é in Latin-1 and invalid on its own in UTF-8.
	path := writeResume(t, "resume.txt", []byte("R\xe9sum\xe9 of Jos\xe9 Garc\xeda"))

	got, err := NewExtractor(zap.NewNop()).ExtractFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got != "Résumé of José García" {
		t.Fatalf("unexpected decoded text: %q", got)
	}
}

func TestExtractFileUnsupportedFormat(t *testing.T) {
	path := writeResume(t, "resume.rtf", []byte("{\\rtf1 hello}"))

	_, err := NewExtractor(zap.NewNop()).ExtractFile(path)
	if err == nil || !strings.Contains(err.Error(), "unsupported resume format") {
		t.Fatalf("expected unsupported format error, got %v", err)
	}
}

func TestExtractFileMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.txt")

	if _, err := NewExtractor(zap.NewNop()).ExtractFile(path); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestExtractFileEmptyText(t *testing.T) {
	path := writeResume(t, "resume.txt", []byte("   \n\t "))

	_, err := NewExtractor(zap.NewNop()).ExtractFile(path)
	if err == nil || !strings.Contains(err.Error(), "no text extracted") {
		t.Fatalf("expected empty text error, got %v", err)
	}
}

func TestExtractFileEmptyPath(t *testing.T) {
	if _, err := NewExtractor(zap.NewNop()).ExtractFile("  "); err == nil {
		t.Fatalf("expected error for blank path")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name     string
		text     string
		expected bool
	}{
		{
			name: "keywords and email",
			text: "Summary: engineer with experience in Go. Skills: Kubernetes, AWS. " +
				"Education: BS Computer Science. Contact: jane@example.com",
			expected: true,
		},
		{
			name:     "too short",
			text:     "Buy cheap widgets now",
			expected: false,
		},
		{
			name: "long enough but no resume signals",
			text: "The quick brown fox jumps over the lazy dog near the river bank today.",
			expected: false,
		},
		{
			name: "email and phone without keywords",
			text: "Reach me at jane@example.com or 314-555-1234 whenever convenient during the week.",
			expected: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Validate(tc.text); got != tc.expected {
				t.Fatalf("Validate(%q) = %v, want %v", tc.text, got, tc.expected)
			}
		})
	}
}

func TestExtractContacts(t *testing.T) {
	text := "Jane Doe\njane@example.com, backup jane.doe@corp.example.org\n" +
		"314-555-1234 or (314) 555-9876\n" +
		"https://www.linkedin.com/in/jane-doe and https://github.com/janedoe"

	contacts := ExtractContacts(text)

	if len(contacts.Emails) != 2 || contacts.Emails[0] != "jane@example.com" {
		t.Fatalf("unexpected emails: %v", contacts.Emails)
	}

	if len(contacts.Phones) != 2 {
		t.Fatalf("expected 2 phone numbers, got %v", contacts.Phones)
	}

	if contacts.LinkedIn != "linkedin.com/in/jane-doe" {
		t.Fatalf("unexpected linkedin: %q", contacts.LinkedIn)
	}

	if contacts.GitHub != "github.com/janedoe" {
		t.Fatalf("unexpected github: %q", contacts.GitHub)
	}
}
