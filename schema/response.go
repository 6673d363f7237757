package schema

import "strings"

// CompanyOption is one disambiguation candidate offered when the
// target company cannot be resolved from context.
type CompanyOption struct {
	Name        string `json:"name"`
	Domain      string `json:"domain,omitempty"`
	Description string `json:"description"`
}

// Validate checks the option's required fields.
func (o CompanyOption) Validate() error {
	if strings.TrimSpace(o.Name) == "" {
		return invalid("companyOption.name", "required")
	}
	return nil
}

// SearchResponse is the agent's structured output for one turn. The
// message is a short natural-language summary; it never duplicates the
// structured content and never names the people it accompanies.
type SearchResponse struct {
	Status         Status          `json:"status"`
	Message        string          `json:"message"`
	People         []Person        `json:"people,omitempty"`
	Emails         []EmailResult   `json:"emails,omitempty"`
	CompanyOptions []CompanyOption `json:"companyOptions,omitempty"`
}

// Validate checks the response envelope: a closed status value, a
// non-empty message that leaks no person names, and the exactly-one
// population rule — people for people_found, emails for emails_found,
// companyOptions for clarification_needed, nothing for cant_find and
// greeting.
func (r SearchResponse) Validate() error {
	if !r.Status.Valid() {
		return invalid("response.status", "unrecognized value "+string(r.Status))
	}
	if strings.TrimSpace(r.Message) == "" {
		return invalid("response.message", "required")
	}

	switch r.Status {
	case StatusPeopleFound:
		if len(r.People) == 0 {
			return invalid("response.people", "required for status people_found")
		}
		if len(r.Emails) > 0 || len(r.CompanyOptions) > 0 {
			return invalid("response", "only people may be set for status people_found")
		}
	case StatusEmailsFound:
		if len(r.Emails) == 0 {
			return invalid("response.emails", "required for status emails_found")
		}
		if len(r.People) > 0 || len(r.CompanyOptions) > 0 {
			return invalid("response", "only emails may be set for status emails_found")
		}
	case StatusClarificationNeeded:
		if len(r.CompanyOptions) == 0 {
			return invalid("response.companyOptions", "required for status clarification_needed")
		}
		if len(r.People) > 0 || len(r.Emails) > 0 {
			return invalid("response", "only companyOptions may be set for status clarification_needed")
		}
	default:
		if len(r.People) > 0 || len(r.Emails) > 0 || len(r.CompanyOptions) > 0 {
			return invalid("response", "no structured lists allowed for status "+string(r.Status))
		}
	}

	for _, p := range r.People {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	for _, e := range r.Emails {
		if err := e.Validate(); err != nil {
			return err
		}
	}
	for _, o := range r.CompanyOptions {
		if err := o.Validate(); err != nil {
			return err
		}
	}

	msg := strings.ToLower(r.Message)
	for _, p := range r.People {
		if name := strings.ToLower(strings.TrimSpace(p.Name)); name != "" && strings.Contains(msg, name) {
			return invalid("response.message", "must not contain person names")
		}
	}
	for _, e := range r.Emails {
		if name := strings.ToLower(strings.TrimSpace(e.Name)); name != "" && strings.Contains(msg, name) {
			return invalid("response.message", "must not contain person names")
		}
	}
	return nil
}
