package schema

import (
	"strconv"
	"strings"
)

// Person is one candidate professional extracted from search results.
// Every field must trace to retrieved text; a Person is never
// fabricated.
type Person struct {
	Name        string `json:"name"`
	Role        string `json:"role"`
	Company     string `json:"company"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
	LinkedInURL string `json:"linkedinUrl,omitempty"`
	Source      Source `json:"source"`
	WebURL      string `json:"webUrl,omitempty"`
}

// placeholderNames are fragments that mark a name as fabricated rather
// than extracted. Matching is case-insensitive.
var placeholderNames = []string{
	"not shown",
	"not available",
	"not provided",
	"unknown",
	"unnamed",
	"n/a",
	"redacted",
	"anonymous",
}

// Validate checks the Person invariants: required identity fields, a
// real attributable name, a closed source value, and the source/webUrl
// pairing rule.
func (p Person) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return invalid("person.name", "required")
	}
	lower := strings.ToLower(p.Name)
	for _, ph := range placeholderNames {
		if strings.Contains(lower, ph) {
			return invalid("person.name", "placeholder value "+strconv.Quote(p.Name))
		}
	}
	if strings.TrimSpace(p.Role) == "" {
		return invalid("person.role", "required")
	}
	if strings.TrimSpace(p.Company) == "" {
		return invalid("person.company", "required")
	}
	if !p.Source.Valid() {
		return invalid("person.source", "unrecognized value "+string(p.Source))
	}
	if p.Source == SourceLinkedIn && p.WebURL != "" {
		return invalid("person.webUrl", "must be empty for linkedin source")
	}
	if (p.Source == SourceWeb || p.Source == SourceCompanyPage) && p.WebURL == "" {
		return invalid("person.webUrl", "required for "+string(p.Source)+" source")
	}
	return nil
}

// Identity is the name+company key used to deduplicate pooled search
// results.
func (p Person) Identity() string {
	return strings.ToLower(strings.TrimSpace(p.Name)) + "|" + strings.ToLower(strings.TrimSpace(p.Company))
}
