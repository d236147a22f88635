package adzuna

import (
	"encoding/json"
	"os"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// JobTypeNotSpecified is reported when a posting carries no contract fields.
	JobTypeNotSpecified = "Not specified"
	// SalaryNotSpecified is reported when a posting carries no salary bounds.
	SalaryNotSpecified = "Not specified"
)

type Postings struct {
	Items []*Posting
}

type Posting struct {
	ID      string `json:"id,omitempty"`
	Title   string `json:"title,omitempty"`
	Company struct {
		DisplayName string `json:"display_name,omitempty"`
	} `json:"company,omitempty"`
	Location struct {
		DisplayName string   `json:"display_name,omitempty"`
		Area        []string `json:"area,omitempty"`
	} `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
	// Salary bounds are in the country's currency per year. Zero means absent.
	SalaryMin         float64 `json:"salary_min,omitempty"`
	SalaryMax         float64 `json:"salary_max,omitempty"`
	SalaryIsPredicted string  `json:"salary_is_predicted,omitempty"`
	ContractType      string  `json:"contract_type,omitempty"`
	ContractTime      string  `json:"contract_time,omitempty"`
	RedirectURL       string  `json:"redirect_url,omitempty"`
	Created           string  `json:"created,omitempty"`
	Category          struct {
		Label string `json:"label,omitempty"`
		Tag   string `json:"tag,omitempty"`
	} `json:"category,omitempty"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
}

// jobTypes maps Adzuna contract fields to display names.
var jobTypes = map[string]string{
	"full_time": "Full-time",
	"part_time": "Part-time",
	"contract":  "Contract",
	"permanent": "Permanent",
}

var salaryPrinter = message.NewPrinter(language.English)

func (p *Posting) CompanyName() string {
	return p.Company.DisplayName
}

func (p *Posting) LocationName() string {
	return p.Location.DisplayName
}

// JobType returns the display job type derived from the contract fields.
// ContractTime wins over ContractType when both are present.
func (p *Posting) JobType() string {
	if t, ok := jobTypes[p.ContractTime]; ok {
		return t
	}
	if t, ok := jobTypes[p.ContractType]; ok {
		return t
	}

	return JobTypeNotSpecified
}

// SalaryFloor returns the lower salary bound, falling back to the upper bound
// when only that is known. ok is false when the posting has no salary info.
func (p *Posting) SalaryFloor() (float64, bool) {
	if p.SalaryMin > 0 {
		return p.SalaryMin, true
	}
	if p.SalaryMax > 0 {
		return p.SalaryMax, true
	}

	return 0, false
}

// SalaryString renders the salary bounds with grouped thousands.
func (p *Posting) SalaryString() string {
	switch {
	case p.SalaryMin > 0 && p.SalaryMax > p.SalaryMin:
		return salaryPrinter.Sprintf("$%.0f - $%.0f", p.SalaryMin, p.SalaryMax)
	case p.SalaryMin > 0 && p.SalaryMax == p.SalaryMin:
		return salaryPrinter.Sprintf("$%.0f", p.SalaryMin)
	case p.SalaryMin > 0:
		return salaryPrinter.Sprintf("$%.0f+", p.SalaryMin)
	case p.SalaryMax > 0:
		return salaryPrinter.Sprintf("Up to $%.0f", p.SalaryMax)
	default:
		return SalaryNotSpecified
	}
}

func (p *Postings) Len() int {
	return len(p.Items)
}

func (p *Postings) IDs() []string {
	ids := make([]string, 0, len(p.Items))
	for _, posting := range p.Items {
		ids = append(ids, posting.ID)
	}
	return ids
}

func (p *Postings) FindByID(id string) *Posting {
	for _, posting := range p.Items {
		if posting.ID == id {
			return posting
		}
	}
	return nil
}

func (p *Postings) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "postings_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return "", err
	}
	return file.Name(), nil
}
