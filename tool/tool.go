package tool

import (
	"context"
	"errors"

	"github.com/smallnest/leadscout/schema"
)

var (
	// ErrContextUnavailable is returned by GetUserInfo when the profile
	// store is unreachable. The agent treats it as "proceed with empty
	// context", not as a fatal error.
	ErrContextUnavailable = errors.New("user context unavailable")

	// ErrQueryGenerationFailed is returned when no search queries can
	// be formed. It is fatal to the turn if the agent has no fallback.
	ErrQueryGenerationFailed = errors.New("query generation failed")
)

// UserInfoProvider returns the requester's declared field, location and
// interests. Side-effect free.
type UserInfoProvider interface {
	GetUserInfo(ctx context.Context, identity string) (schema.UserContext, error)
}

// QueryPlanner turns a research goal plus user context into a set of
// search queries. It must return at least one query or fail with
// ErrQueryGenerationFailed.
type QueryPlanner interface {
	GenerateQueries(ctx context.Context, goal string, userContext schema.UserContext) (schema.QuerySet, error)
}

// WebSearcher runs one search query. An empty slice is a valid,
// non-error result.
type WebSearcher interface {
	Search(ctx context.Context, query string) ([]schema.SearchSnippet, error)
}

// PageFetcher retrieves the readable text of a web page, used to gather
// per-person employment evidence.
type PageFetcher interface {
	FetchText(ctx context.Context, pageURL string) (string, error)
}

// EmailFinder discovers and verifies an email address for one person.
// Callers invoke it at most once per person per confirmed resolution
// request, never speculatively. A miss is reported as an EmailResult
// with source "none", not as an error.
type EmailFinder interface {
	FindAndVerify(ctx context.Context, person schema.Person) (schema.EmailResult, error)
}
