package resume

import (
	"regexp"
	"strings"
)

var (
	emailRe       = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phoneRe       = regexp.MustCompile(`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`)
	phoneParensRe = regexp.MustCompile(`\(\d{3}\)\s*\d{3}[-.]?\d{4}`)
	linkedinRe    = regexp.MustCompile(`(?i)linkedin\.com/in/[\w-]+`)
	githubRe      = regexp.MustCompile(`(?i)github\.com/[\w-]+`)
)

var resumeKeywords = []string{
	"experience", "education", "skills", "work", "employment",
	"university", "college", "degree", "bachelor", "master",
	"phone", "email", "address", "linkedin", "github",
	"summary", "objective", "qualifications", "achievements",
}

// Contacts holds contact details pulled from resume text.
type Contacts struct {
	Emails   []string
	Phones   []string
	LinkedIn string
	GitHub   string
}

// ExtractContacts scans resume text for email addresses, phone numbers and
// profile links.
func ExtractContacts(text string) Contacts {
	contacts := Contacts{
		Emails: emailRe.FindAllString(text, -1),
		Phones: phoneRe.FindAllString(text, -1),
	}

	contacts.Phones = append(contacts.Phones, phoneParensRe.FindAllString(text, -1)...)
	contacts.LinkedIn = linkedinRe.FindString(text)
	contacts.GitHub = githubRe.FindString(text)

	return contacts
}

// Validate reports whether the text plausibly came from a resume. It counts
// weak signals and requires at least two of them: several section keywords,
// an email address, a phone number, a reasonable word count.
func Validate(text string) bool {
	if len(strings.TrimSpace(text)) < 50 {
		return false
	}

	lower := strings.ToLower(text)

	keywords := 0
	for _, keyword := range resumeKeywords {
		if strings.Contains(lower, keyword) {
			keywords++
		}
	}

	signals := 0
	if keywords >= 3 {
		signals++
	}
	if emailRe.MatchString(text) {
		signals++
	}
	if phoneRe.MatchString(text) || phoneParensRe.MatchString(text) {
		signals++
	}
	if len(strings.Fields(text)) >= 100 {
		signals++
	}

	return signals >= 2
}
