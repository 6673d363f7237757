package schema

import "strings"

// EmailResult is the resolution outcome for one previously presented
// person. Name, role and company are denormalized copies kept for
// display.
type EmailResult struct {
	Name        string      `json:"name"`
	Role        string      `json:"role"`
	Company     string      `json:"company"`
	Email       string      `json:"email,omitempty"`
	EmailSource EmailSource `json:"emailSource"`
}

// Validate checks the EmailResult invariant: the email is empty iff the
// source is "none". The display copies are required, matching Person.
func (e EmailResult) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return invalid("email.name", "required")
	}
	if strings.TrimSpace(e.Role) == "" {
		return invalid("email.role", "required")
	}
	if strings.TrimSpace(e.Company) == "" {
		return invalid("email.company", "required")
	}
	if !e.EmailSource.Valid() {
		return invalid("email.emailSource", "unrecognized value "+string(e.EmailSource))
	}
	if e.EmailSource == EmailNone && e.Email != "" {
		return invalid("email.email", "must be empty when emailSource is none")
	}
	if e.EmailSource != EmailNone && e.Email == "" {
		return invalid("email.email", "required when emailSource is "+string(e.EmailSource))
	}
	return nil
}
