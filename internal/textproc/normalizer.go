// Package textproc cleans resume and job posting text before embedding
// generation.
package textproc

import (
	"html"
	"regexp"
	"strings"

	"github.com/spigell/job-ranker/internal/adzuna"
)

var (
	htmlTagRe     = regexp.MustCompile(`<[^>]+>`)
	urlRe         = regexp.MustCompile(`http[s]?://(?:[a-zA-Z]|[0-9]|[$-_@.&+]|[!*\(\),]|(?:%[0-9a-fA-F][0-9a-fA-F]))+`)
	emailRe       = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phoneRe       = regexp.MustCompile(`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`)
	phoneParensRe = regexp.MustCompile(`\(\d{3}\)\s*\d{3}[-.]?\d{4}`)
	specialsRe    = regexp.MustCompile(`[^\w\s.,!?;:()\-]`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
	punctuationRe = regexp.MustCompile(`[.,!?;:]+`)
)

type Normalizer struct {
	stopWords map[string]struct{}
}

func NewNormalizer() *Normalizer {
	words := []string{
		"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for",
		"of", "with", "by", "is", "are", "was", "were", "be", "been", "being",
		"have", "has", "had", "do", "does", "did", "will", "would", "could",
		"should", "may", "might", "must", "can", "this", "that", "these",
		"those", "i", "you", "he", "she", "it", "we", "they", "me", "him",
		"her", "us", "them", "my", "your", "his", "our", "their",
	}

	stopWords := make(map[string]struct{}, len(words))
	for _, w := range words {
		stopWords[w] = struct{}{}
	}

	return &Normalizer{stopWords: stopWords}
}

// Clean normalizes text for embedding generation: decodes HTML entities,
// strips tags, URLs, emails and phone numbers, drops special characters,
// collapses whitespace, removes punctuation and lowercases. Stop-word
// removal keeps words longer than two characters that are not stop-listed.
func (n *Normalizer) Clean(text string, removeStopWords bool) string {
	if text == "" {
		return ""
	}

	text = html.UnescapeString(text)
	text = htmlTagRe.ReplaceAllString(text, " ")
	text = urlRe.ReplaceAllString(text, " ")
	text = emailRe.ReplaceAllString(text, " ")
	text = phoneRe.ReplaceAllString(text, " ")
	text = phoneParensRe.ReplaceAllString(text, " ")
	text = specialsRe.ReplaceAllString(text, " ")
	text = punctuationRe.ReplaceAllString(text, " ")
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = strings.ToLower(text)

	if removeStopWords {
		words := strings.Fields(text)
		kept := make([]string, 0, len(words))
		for _, word := range words {
			if _, stop := n.stopWords[word]; stop {
				continue
			}
			if len(word) > 2 {
				kept = append(kept, word)
			}
		}
		text = strings.Join(kept, " ")
	}

	return strings.TrimSpace(text)
}

var sectionPatterns = map[string]*regexp.Regexp{
	"experience": regexp.MustCompile(`(?:work\s+)?experience|employment|professional\s+experience`),
	"education":  regexp.MustCompile(`education|academic|qualifications|degrees?`),
	"skills":     regexp.MustCompile(`skills|technical\s+skills|competencies|technologies`),
	"summary":    regexp.MustCompile(`summary|objective|profile|about`),
}

// ExtractSections locates common resume sections by their headers. Each found
// section runs from its header to the next section header, or to the end of
// the text. The full text is always present under "full_text".
func (n *Normalizer) ExtractSections(resumeText string) map[string]string {
	sections := map[string]string{
		"experience": "",
		"education":  "",
		"skills":     "",
		"summary":    "",
		"full_text":  resumeText,
	}

	textLower := strings.ToLower(resumeText)

	for name, pattern := range sectionPatterns {
		loc := pattern.FindStringIndex(textLower)
		if loc == nil {
			continue
		}
		start := loc[0]

		// Look for the next section header past the current one. The offset
		// skips the header itself so a section does not end on its own name.
		searchFrom := start + 100
		if searchFrom > len(textLower) {
			searchFrom = len(textLower)
		}

		end := len(resumeText)
		for otherName, otherPattern := range sectionPatterns {
			if otherName == name {
				continue
			}
			next := otherPattern.FindStringIndex(textLower[searchFrom:])
			if next != nil && searchFrom+next[0] < end {
				end = searchFrom + next[0]
			}
		}

		sections[name] = strings.TrimSpace(resumeText[start:end])
	}

	return sections
}

// PrepareResumeText cleans resume text for embedding, repeating the focus
// sections so they weigh more. Defaults to experience and skills. Stop words
// are kept: the embedding models handle them fine.
func (n *Normalizer) PrepareResumeText(resumeText string, focusSections []string) string {
	if len(focusSections) == 0 {
		focusSections = []string{"experience", "skills"}
	}

	sections := n.ExtractSections(resumeText)

	var parts []string
	for _, section := range focusSections {
		if text := sections[section]; text != "" {
			parts = append(parts, text, text)
		}
	}
	parts = append(parts, sections["full_text"])

	return n.Clean(strings.Join(parts, " "), false)
}

// PrepareJobText combines posting fields into one text for embedding. The
// title is repeated to weigh it more heavily.
func (n *Normalizer) PrepareJobText(p *adzuna.Posting) string {
	var parts []string

	if p.Title != "" {
		parts = append(parts, p.Title, p.Title)
	}
	if company := p.CompanyName(); company != "" {
		parts = append(parts, company)
	}
	if location := p.LocationName(); location != "" {
		parts = append(parts, location)
	}
	if p.Description != "" {
		parts = append(parts, p.Description)
	}
	if _, ok := p.SalaryFloor(); ok {
		parts = append(parts, "salary "+p.SalaryString())
	}
	if jobType := p.JobType(); jobType != adzuna.JobTypeNotSpecified {
		parts = append(parts, jobType)
	}

	return n.Clean(strings.Join(parts, " "), false)
}

// locationVariants maps common spellings to one canonical form.
var locationVariants = [][2]string{
	{"saint louis", "st. louis"},
	{"st louis", "st. louis"},
	{"saint paul", "st. paul"},
	{"st paul", "st. paul"},
	{"new york city", "new york"},
	{"nyc", "new york"},
	{"san francisco bay area", "san francisco"},
	{"sf bay area", "san francisco"},
	{"washington dc", "washington"},
	{"washington d.c.", "washington"},
}

// NormalizeLocation lowercases a location and folds common variants into a
// canonical spelling for consistent matching.
func NormalizeLocation(location string) string {
	if location == "" {
		return ""
	}

	location = strings.ToLower(strings.TrimSpace(location))
	for _, variant := range locationVariants {
		if strings.Contains(location, variant[0]) {
			location = strings.ReplaceAll(location, variant[0], variant[1])
		}
	}

	return location
}
