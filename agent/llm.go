package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"

	"github.com/smallnest/leadscout/schema"
)

const analyzerSystemPrompt = `You analyze requests for finding professionals at companies.
Given the request, the requester's context and recent conversation, respond with ONLY a JSON object:
{"company": "<resolved target company or empty>", "role": "<requested role class>", "direct": <true if the request names a specific company and role clearly enough to search as-is>,
 "companyOptions": [{"name": "...", "domain": "...", "description": "..."}]}
Populate companyOptions with two or more entries ONLY when the company name could refer to several
real companies and the context does not settle it; otherwise leave it out.`

const extractorSystemPrompt = `You extract people from web search results.
List every individual with a full, attributable name for whom the results show CURRENT employment
at the target company in the requested role class. Role matching is flexible: "recruiter" also matches
titles like talent acquisition, people operations, and hiring manager. Rules:
- Never invent a person or a field value; every field must come from the result text.
- Skip entries without a real personal name (e.g. "recruiter name not shown").
- Skip people whose current employment at the company is unclear or outdated.
- source is one of "linkedin", "web", "company_page". Use "linkedin" for linkedin.com profile results
  (set linkedinUrl, leave webUrl empty); otherwise set webUrl to the result URL.
Respond with ONLY a JSON object: {"people": [{"name": "...", "role": "...", "company": "...",
"location": "...", "description": "...", "linkedinUrl": "...", "source": "...", "webUrl": "..."}]}.
An empty list is a valid answer.`

// LLMAnalyzer implements GoalAnalyzer with a langchaingo model.
type LLMAnalyzer struct {
	model llms.Model
}

// NewLLMAnalyzer creates an analyzer backed by the given model.
func NewLLMAnalyzer(model llms.Model) *LLMAnalyzer {
	return &LLMAnalyzer{model: model}
}

// AnalyzeGoal classifies the research goal. Output that cannot be
// parsed as the expected JSON object is a validation failure.
func (a *LLMAnalyzer) AnalyzeGoal(ctx context.Context, goal string, userContext schema.UserContext, recent []schema.ConversationTurn) (GoalAnalysis, error) {
	var sb strings.Builder
	sb.WriteString("Request: ")
	sb.WriteString(goal)
	if !userContext.Empty() {
		fmt.Fprintf(&sb, "\nRequester: field=%s location=%s interests=%s",
			userContext.Field, userContext.Location, strings.Join(userContext.Interests, ","))
	}
	for _, turn := range recent {
		fmt.Fprintf(&sb, "\n[%s] %s", turn.Role, turn.Content)
	}

	content, err := generateText(ctx, a.model, analyzerSystemPrompt, sb.String())
	if err != nil {
		return GoalAnalysis{}, err
	}

	var analysis GoalAnalysis
	if err := json.Unmarshal(jsonBlock(content), &analysis); err != nil {
		return GoalAnalysis{}, &schema.ValidationError{Field: "analysis", Reason: err.Error()}
	}
	if len(analysis.CompanyOptions) == 1 {
		// A single option is not a disambiguation; treat it as resolved.
		analysis.Company = analysis.CompanyOptions[0].Name
		analysis.CompanyOptions = nil
	}
	for _, option := range analysis.CompanyOptions {
		if err := option.Validate(); err != nil {
			return GoalAnalysis{}, err
		}
	}
	return analysis, nil
}

// LLMExtractor implements PeopleExtractor with a langchaingo model.
type LLMExtractor struct {
	model llms.Model
}

// NewLLMExtractor creates an extractor backed by the given model.
func NewLLMExtractor(model llms.Model) *LLMExtractor {
	return &LLMExtractor{model: model}
}

// ExtractPeople scans the pooled snippets. Each returned Person is
// schema-validated; unparseable or invalid output fails the turn.
func (e *LLMExtractor) ExtractPeople(ctx context.Context, analysis GoalAnalysis, snippets []schema.SearchSnippet) ([]schema.Person, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Target company: %s\nRole class: %s\nSearch results:\n", analysis.Company, analysis.RoleClass)
	for i, snippet := range snippets {
		fmt.Fprintf(&sb, "%d. %s\n%s\n%s\n\n", i+1, snippet.Title, snippet.URL, snippet.Snippet)
	}

	content, err := generateText(ctx, e.model, extractorSystemPrompt, sb.String())
	if err != nil {
		return nil, err
	}

	var payload struct {
		People []schema.Person `json:"people"`
	}
	if err := json.Unmarshal(jsonBlock(content), &payload); err != nil {
		return nil, &schema.ValidationError{Field: "extraction", Reason: err.Error()}
	}
	for _, person := range payload.People {
		if err := person.Validate(); err != nil {
			return nil, err
		}
	}
	return payload.People, nil
}

func generateText(ctx context.Context, model llms.Model, system, user string) (string, error) {
	resp, err := model.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, system),
		llms.TextParts(llms.ChatMessageTypeHuman, user),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("model returned no choices")
	}
	return resp.Choices[0].Content, nil
}

// jsonBlock strips markdown code fences some models wrap around JSON.
func jsonBlock(content string) []byte {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	}
	return []byte(strings.TrimSpace(trimmed))
}
