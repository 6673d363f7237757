package agent

import (
	"context"

	"github.com/smallnest/leadscout/schema"
)

// GoalAnalysis is the structured reading of a user's research request.
type GoalAnalysis struct {
	// Company is the resolved target company, empty when ambiguous.
	Company string `json:"company"`

	// RoleClass is the requested role class, e.g. "recruiter". Role
	// matching downstream is flexible: synonymous titles qualify.
	RoleClass string `json:"role"`

	// Direct reports that goal and context are specific enough to
	// search with the goal itself, skipping query planning.
	Direct bool `json:"direct"`

	// CompanyOptions holds two or more candidates when the target
	// company cannot be disambiguated; it forces a clarification turn.
	CompanyOptions []schema.CompanyOption `json:"companyOptions,omitempty"`
}

// Ambiguous reports whether the target needs user disambiguation.
func (a GoalAnalysis) Ambiguous() bool {
	return len(a.CompanyOptions) >= 2
}

// GoalAnalyzer classifies a research goal against the requester's
// context. Implemented by an LLM call in production and by stubs in
// tests.
type GoalAnalyzer interface {
	AnalyzeGoal(ctx context.Context, goal string, userContext schema.UserContext, recent []schema.ConversationTurn) (GoalAnalysis, error)
}

// PeopleExtractor scans pooled search snippets for full names of
// individuals currently affiliated with the target company. The
// implementation applies the role-flexibility policy (a required role
// class matches synonymous titles) and discards candidates without an
// attributable real name or current-employment evidence; candidates
// with ambiguous tenure are dropped silently.
type PeopleExtractor interface {
	ExtractPeople(ctx context.Context, analysis GoalAnalysis, snippets []schema.SearchSnippet) ([]schema.Person, error)
}
