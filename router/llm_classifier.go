package router

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tmc/langchaingo/llms"

	"github.com/smallnest/leadscout/schema"
)

const classifierSystemPrompt = `You triage messages for a lead-research assistant.
Decide whether the latest user message asks to find professionals (by role, company or profile)
or is general conversation. When the intent is unclear, choose direct_reply and ask one short
clarifying question instead of guessing a search. You MUST answer by calling the 'route' tool.`

// LLMClassifier implements Classifier with a forced tool call, so the
// model's answer is always a member of the closed route set.
type LLMClassifier struct {
	model llms.Model
}

// NewLLMClassifier creates a classifier backed by the given model.
func NewLLMClassifier(model llms.Model) *LLMClassifier {
	return &LLMClassifier{model: model}
}

// Classify routes the message. Model output that is not a recognized
// route is a validation failure, never silently defaulted.
func (c *LLMClassifier) Classify(ctx context.Context, message string, recent []schema.ConversationTurn) (Decision, error) {
	routeTool := llms.Tool{
		Type: "function",
		Function: &llms.FunctionDefinition{
			Name:        "route",
			Description: "Select how to handle the user's message.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"next": map[string]any{
						"type": "string",
						"enum": []string{string(RoutePeopleSearch), string(RouteDirectReply)},
					},
					"reply": map[string]any{
						"type":        "string",
						"description": "Short conversational answer, only for direct_reply.",
					},
				},
				"required": []string{"next"},
			},
		},
	}

	inputMessages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, classifierSystemPrompt),
	}
	for _, turn := range recent {
		role := llms.ChatMessageTypeHuman
		if turn.Role == schema.RoleAssistant {
			role = llms.ChatMessageTypeAI
		}
		inputMessages = append(inputMessages, llms.TextParts(role, turn.Content))
	}
	inputMessages = append(inputMessages, llms.TextParts(llms.ChatMessageTypeHuman, message))

	resp, err := c.model.GenerateContent(ctx, inputMessages,
		llms.WithTools([]llms.Tool{routeTool}),
		llms.WithToolChoice(llms.ToolChoice{
			Type:     "function",
			Function: &llms.FunctionReference{Name: "route"},
		}),
	)
	if err != nil {
		return Decision{}, fmt.Errorf("route classification: %w", err)
	}
	if len(resp.Choices) == 0 || len(resp.Choices[0].ToolCalls) == 0 {
		return Decision{}, &schema.ValidationError{Field: "route", Reason: "model did not call the route tool"}
	}

	var args struct {
		Next  string `json:"next"`
		Reply string `json:"reply"`
	}
	tc := resp.Choices[0].ToolCalls[0]
	if err := json.Unmarshal([]byte(tc.FunctionCall.Arguments), &args); err != nil {
		return Decision{}, &schema.ValidationError{Field: "route", Reason: err.Error()}
	}

	route := Route(args.Next)
	if !route.Valid() {
		return Decision{}, &schema.ValidationError{Field: "route", Reason: "unrecognized value " + args.Next}
	}

	decision := Decision{Route: route}
	if route == RouteDirectReply {
		decision.Reply = SanitizeReply(args.Reply)
	}
	return decision, nil
}
