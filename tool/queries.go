package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/smallnest/leadscout/schema"
)

const queryPlannerSystemPrompt = `You generate web search queries for finding professionals at companies.
Given a research goal and optional requester context, produce 2-4 search queries that would surface
named individuals currently in the requested role at the target company. Prefer queries that hit
LinkedIn profiles and company team pages. Respond with a JSON object: {"queries": ["...", "..."]}.`

// OpenAIQueryPlanner implements QueryPlanner with a chat-completion
// call in JSON mode.
type OpenAIQueryPlanner struct {
	client *openai.Client
	model  string
}

type QueryPlannerOption func(*OpenAIQueryPlanner)

// WithPlannerModel overrides the completion model.
func WithPlannerModel(model string) QueryPlannerOption {
	return func(p *OpenAIQueryPlanner) {
		p.model = model
	}
}

// NewOpenAIQueryPlanner creates a planner backed by the given client.
func NewOpenAIQueryPlanner(client *openai.Client, opts ...QueryPlannerOption) *OpenAIQueryPlanner {
	p := &OpenAIQueryPlanner{
		client: client,
		model:  openai.GPT4oMini,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// GenerateQueries asks the model for a query set and validates it.
// Any failure, including a response with zero usable queries, maps to
// ErrQueryGenerationFailed.
func (p *OpenAIQueryPlanner) GenerateQueries(ctx context.Context, goal string, userContext schema.UserContext) (schema.QuerySet, error) {
	var sb strings.Builder
	sb.WriteString("Research goal: ")
	sb.WriteString(goal)
	if !userContext.Empty() {
		sb.WriteString("\nRequester context:")
		if userContext.Field != "" {
			sb.WriteString(" field=" + userContext.Field)
		}
		if userContext.Location != "" {
			sb.WriteString(" location=" + userContext.Location)
		}
		if len(userContext.Interests) > 0 {
			sb.WriteString(" interests=" + strings.Join(userContext.Interests, ","))
		}
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: queryPlannerSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: sb.String()},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return schema.QuerySet{}, fmt.Errorf("%w: %v", ErrQueryGenerationFailed, err)
	}
	if len(resp.Choices) == 0 {
		return schema.QuerySet{}, fmt.Errorf("%w: empty completion", ErrQueryGenerationFailed)
	}

	var queries schema.QuerySet
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &queries); err != nil {
		return schema.QuerySet{}, fmt.Errorf("%w: %v", ErrQueryGenerationFailed, err)
	}
	if err := queries.Validate(); err != nil {
		return schema.QuerySet{}, fmt.Errorf("%w: %v", ErrQueryGenerationFailed, err)
	}
	return queries, nil
}
