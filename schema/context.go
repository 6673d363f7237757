package schema

import "strings"

// UserContext is the requester's declared profile, used to ground
// query planning. An empty UserContext is valid: when the profile
// store is unreachable the agent proceeds without it.
type UserContext struct {
	Field     string   `json:"field,omitempty"`
	Location  string   `json:"location,omitempty"`
	Interests []string `json:"interests,omitempty"`
}

// Empty reports whether no profile information is present.
func (c UserContext) Empty() bool {
	return c.Field == "" && c.Location == "" && len(c.Interests) == 0
}

// QuerySet is the list of search queries produced by the planning
// step. It is ephemeral: consumed by the search stage within the same
// agent turn, never persisted.
type QuerySet struct {
	Queries []string `json:"queries"`
}

// Validate requires at least one non-blank query.
func (q QuerySet) Validate() error {
	if len(q.Queries) == 0 {
		return invalid("queryset.queries", "at least one query required")
	}
	for _, query := range q.Queries {
		if strings.TrimSpace(query) == "" {
			return invalid("queryset.queries", "blank query")
		}
	}
	return nil
}

// SearchSnippet is one raw web-search result. An empty result list is
// valid, non-error output for a search call.
type SearchSnippet struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	URL     string `json:"url"`
}
