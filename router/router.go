// Package router classifies each incoming user turn as a people-search
// intent or a general-conversation intent. Classification happens
// before any tool invocation; the router itself never calls search or
// email tools. Ambiguous turns default to a direct reply with a short
// clarifying question rather than a guessed search.
package router

import (
	"context"
	"strings"

	"github.com/smallnest/leadscout/schema"
)

// Route is the closed set of dispatch targets.
type Route string

const (
	// RoutePeopleSearch hands the turn to the people-search agent.
	RoutePeopleSearch Route = "people_search"
	// RouteDirectReply answers conversationally with no tool calls.
	RouteDirectReply Route = "direct_reply"
)

// Valid reports whether r is a member of the closed route set.
func (r Route) Valid() bool {
	return r == RoutePeopleSearch || r == RouteDirectReply
}

// Decision is the router's output for one turn. Reply carries the
// assistant text for direct_reply routes and is empty otherwise.
type Decision struct {
	Route Route
	Reply string
}

// Classifier decides the route for the latest user turn given recent
// context. Implemented by an LLM call in production and by the
// rule-based classifier in tests and as a no-model fallback.
type Classifier interface {
	Classify(ctx context.Context, message string, recent []schema.ConversationTurn) (Decision, error)
}

// affirmations are normalized forms that count as an explicit
// confirmation of a pending offer.
var affirmations = []string{
	"yes", "yes please", "yep", "yeah", "sure", "ok", "okay",
	"go ahead", "do it", "please do", "sounds good",
}

// IsAffirmative reports whether the message explicitly confirms a
// pending offer, e.g. "yes find their emails". Detection is
// deterministic: the confirm gate must not depend on model mood.
func IsAffirmative(message string) bool {
	normalized := strings.ToLower(strings.TrimSpace(message))
	normalized = strings.Trim(normalized, ".!")

	for _, phrase := range affirmations {
		if normalized == phrase || strings.HasPrefix(normalized, phrase+" ") ||
			strings.HasPrefix(normalized, phrase+",") {
			return true
		}
	}
	// A lookup request counts only when it refers back to the offered
	// people. "find emails for engineers at Globex" is a new search.
	referring := strings.Contains(normalized, "their") ||
		strings.Contains(normalized, "these") || strings.Contains(normalized, "them")
	return referring && strings.Contains(normalized, "email") &&
		(strings.Contains(normalized, "find") || strings.Contains(normalized, "get") ||
			strings.Contains(normalized, "look up") || strings.Contains(normalized, "lookup"))
}
