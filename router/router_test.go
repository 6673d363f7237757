package router_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"github.com/smallnest/leadscout/router"
	"github.com/smallnest/leadscout/schema"
)

// toolCallModel is a mock llms.Model that answers with a route tool call.
type toolCallModel struct {
	next    string
	reply   string
	rawArgs string
	noCall  bool
}

func (m *toolCallModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	if m.noCall {
		return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: "plain text"}}}, nil
	}
	args := m.rawArgs
	if args == "" {
		encoded, _ := json.Marshal(map[string]string{"next": m.next, "reply": m.reply})
		args = string(encoded)
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{
		ToolCalls: []llms.ToolCall{{
			ID: "call-1",
			FunctionCall: &llms.FunctionCall{
				Name:      "route",
				Arguments: args,
			},
		}},
	}}}, nil
}

func (m *toolCallModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return "", nil
}

func TestLLMClassifierRoutes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		model     *toolCallModel
		wantRoute router.Route
		wantErr   bool
	}{
		{
			name:      "people search route",
			model:     &toolCallModel{next: "people_search"},
			wantRoute: router.RoutePeopleSearch,
		},
		{
			name:      "direct reply carries sanitized text",
			model:     &toolCallModel{next: "direct_reply", reply: "**Hello!** How can I help?"},
			wantRoute: router.RouteDirectReply,
		},
		{
			name:    "unknown route is a validation failure",
			model:   &toolCallModel{next: "ask_the_oracle"},
			wantErr: true,
		},
		{
			name:    "missing tool call is a validation failure",
			model:   &toolCallModel{noCall: true},
			wantErr: true,
		},
		{
			name:    "malformed arguments are a validation failure",
			model:   &toolCallModel{rawArgs: "{next:"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			classifier := router.NewLLMClassifier(tt.model)
			decision, err := classifier.Classify(context.Background(), "find recruiters at Acme Corp", nil)
			if tt.wantErr {
				var verr *schema.ValidationError
				require.Error(t, err)
				assert.ErrorAs(t, err, &verr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRoute, decision.Route)
			if decision.Route == router.RouteDirectReply {
				assert.Equal(t, "Hello! How can I help?", decision.Reply)
			}
		})
	}
}

func TestRuleClassifier(t *testing.T) {
	t.Parallel()

	classifier := router.NewRuleClassifier()

	tests := []struct {
		message   string
		wantRoute router.Route
	}{
		{message: "find recruiters at Acme Corp", wantRoute: router.RoutePeopleSearch},
		{message: "I'm looking for engineers at Initech", wantRoute: router.RoutePeopleSearch},
		{message: "hey", wantRoute: router.RouteDirectReply},
		{message: "Hello there!", wantRoute: router.RouteDirectReply},
		{message: "what's the weather", wantRoute: router.RouteDirectReply},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			t.Parallel()
			decision, err := classifier.Classify(context.Background(), tt.message, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRoute, decision.Route)
			if decision.Route == router.RouteDirectReply {
				assert.NotEmpty(t, decision.Reply)
			}
		})
	}
}

func TestIsAffirmative(t *testing.T) {
	t.Parallel()

	affirmative := []string{
		"yes", "Yes please!", "yeah", "sure", "ok", "go ahead",
		"yes find their emails", "please find their emails", "get their emails",
	}
	for _, msg := range affirmative {
		assert.True(t, router.IsAffirmative(msg), msg)
	}

	negative := []string{
		"no", "not now", "find recruiters at Globex instead", "who are these people?",
		"find emails for engineers at Globex", "look up emails for the Initech hiring team",
	}
	for _, msg := range negative {
		assert.False(t, router.IsAffirmative(msg), msg)
	}
}
