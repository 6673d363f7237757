package router

import (
	"context"
	"strings"

	"github.com/smallnest/leadscout/schema"
)

const (
	greetingReply   = "Hi! Tell me what kind of professionals you are looking for and at which company."
	clarifyingReply = "Could you tell me a bit more? A role and a company is enough to get started."
)

var searchMarkers = []string{
	"find", "search", "look for", "looking for", "who works",
	"recruiters at", "engineers at", "people at", "contacts at",
}

var greetingMarkers = []string{
	"hi", "hey", "hello", "yo", "good morning", "good afternoon", "good evening",
	"thanks", "thank you",
}

// RuleClassifier is a deterministic, model-free Classifier: keyword
// triage with the same ask-don't-guess bias as the LLM classifier.
type RuleClassifier struct{}

// NewRuleClassifier creates the rule-based classifier.
func NewRuleClassifier() *RuleClassifier {
	return &RuleClassifier{}
}

// Classify routes on surface keywords. Anything that neither looks
// like a search request nor a greeting becomes a direct reply with a
// clarifying question.
func (c *RuleClassifier) Classify(ctx context.Context, message string, recent []schema.ConversationTurn) (Decision, error) {
	normalized := strings.ToLower(strings.TrimSpace(message))

	for _, marker := range searchMarkers {
		if strings.Contains(normalized, marker) {
			return Decision{Route: RoutePeopleSearch}, nil
		}
	}

	trimmed := strings.Trim(normalized, "!., ")
	for _, marker := range greetingMarkers {
		if trimmed == marker || strings.HasPrefix(trimmed, marker+" ") {
			return Decision{Route: RouteDirectReply, Reply: greetingReply}, nil
		}
	}

	return Decision{Route: RouteDirectReply, Reply: clarifyingReply}, nil
}
