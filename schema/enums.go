package schema

// Source identifies where a Person record was found.
type Source string

const (
	SourceLinkedIn    Source = "linkedin"
	SourceWeb         Source = "web"
	SourceCompanyPage Source = "company_page"
)

// Valid reports whether s is a member of the closed source set.
func (s Source) Valid() bool {
	switch s {
	case SourceLinkedIn, SourceWeb, SourceCompanyPage:
		return true
	}
	return false
}

// EmailSource identifies how an email address was resolved.
type EmailSource string

const (
	EmailFromSearch EmailSource = "search"
	EmailGuessed    EmailSource = "guess"
	EmailNone       EmailSource = "none"
)

// Valid reports whether s is a member of the closed email-source set.
func (s EmailSource) Valid() bool {
	switch s {
	case EmailFromSearch, EmailGuessed, EmailNone:
		return true
	}
	return false
}

// Status is the outcome classification of one agent turn.
type Status string

const (
	StatusPeopleFound         Status = "people_found"
	StatusEmailsFound         Status = "emails_found"
	StatusCantFind            Status = "cant_find"
	StatusGreeting            Status = "greeting"
	StatusClarificationNeeded Status = "clarification_needed"
)

// Valid reports whether s is a member of the closed status set.
func (s Status) Valid() bool {
	switch s {
	case StatusPeopleFound, StatusEmailsFound, StatusCantFind,
		StatusGreeting, StatusClarificationNeeded:
		return true
	}
	return false
}

// Role is the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is a member of the closed role set.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}
