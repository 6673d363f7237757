package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/smallnest/leadscout/graph"
	"github.com/smallnest/leadscout/log"
	"github.com/smallnest/leadscout/schema"
	"github.com/smallnest/leadscout/tool"
)

// Node names of the research state machine.
const (
	nodeGatherContext = "gather_context"
	nodePlanQueries   = "plan_queries"
	nodeSearch        = "search"
	nodeEnrich        = "enrich"
	nodeExtract       = "extract"
	nodePresent       = "present"
	nodeClarify       = "clarify"
)

// User-visible messages. They summarize the outcome and never carry
// person names, query text or internal error detail.
const (
	msgManyFound = "I found %d people matching that role. Want me to look up their emails?"
	msgFewFound  = "I only found %d matching people. I can broaden the search to related roles, or look up emails for these."
	msgCantFind  = "I couldn't find people matching that request. Try a different role or company, or give me more detail."
	msgClarify   = "That name matches more than one company. Which one did you mean?"
	msgEmails    = "Email lookup finished for %d people. Addresses are marked as found, guessed, or missing."
)

// ResearchState is the state threaded through the agent's graph for
// one search turn.
type ResearchState struct {
	Goal     string
	Identity string
	Recent   []schema.ConversationTurn

	Context  schema.UserContext
	Analysis GoalAnalysis
	Queries  []string
	Snippets []schema.SearchSnippet
	People   []schema.Person
	Response schema.SearchResponse
}

// Config wires the agent's tools and capabilities.
type Config struct {
	UserInfo  tool.UserInfoProvider
	Planner   tool.QueryPlanner
	Searcher  tool.WebSearcher
	Pages     tool.PageFetcher // optional evidence lookup
	Emails    tool.EmailFinder
	Analyzer  GoalAnalyzer
	Extractor PeopleExtractor

	Logger log.Logger

	// ToolTimeout bounds each tool call. A timed-out call is treated
	// as an empty result, except query generation which fails the turn.
	ToolTimeout time.Duration

	// MaxQueries caps the concurrent search fan-out per turn.
	MaxQueries int

	// MaxPageLookups caps per-turn evidence page fetches.
	MaxPageLookups int
}

// Agent is the people-search agent.
type Agent struct {
	cfg      Config
	logger   log.Logger
	runnable *graph.Runnable[ResearchState]
}

// New validates the configuration and compiles the agent's graph.
func New(cfg Config) (*Agent, error) {
	switch {
	case cfg.UserInfo == nil:
		return nil, fmt.Errorf("agent: UserInfo is required")
	case cfg.Planner == nil:
		return nil, fmt.Errorf("agent: Planner is required")
	case cfg.Searcher == nil:
		return nil, fmt.Errorf("agent: Searcher is required")
	case cfg.Emails == nil:
		return nil, fmt.Errorf("agent: Emails is required")
	case cfg.Analyzer == nil:
		return nil, fmt.Errorf("agent: Analyzer is required")
	case cfg.Extractor == nil:
		return nil, fmt.Errorf("agent: Extractor is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = log.GetDefaultLogger()
	}
	if cfg.ToolTimeout <= 0 {
		cfg.ToolTimeout = 20 * time.Second
	}
	if cfg.MaxQueries <= 0 {
		cfg.MaxQueries = 4
	}
	if cfg.MaxPageLookups <= 0 {
		cfg.MaxPageLookups = 3
	}

	a := &Agent{cfg: cfg, logger: cfg.Logger}

	runnable, err := a.buildGraph()
	if err != nil {
		return nil, err
	}
	a.runnable = runnable
	return a, nil
}

func (a *Agent) buildGraph() (*graph.Runnable[ResearchState], error) {
	g := graph.NewStateGraph[ResearchState]()

	g.AddNode(nodeGatherContext, "fetch requester profile", a.gatherContext)
	g.AddNode(nodePlanQueries, "generate search queries", a.planQueries)
	g.AddNode(nodeSearch, "fan out web searches", a.search)
	g.AddNode(nodeEnrich, "fetch evidence pages", a.enrich)
	g.AddNode(nodeExtract, "extract people from results", a.extract)
	g.AddNode(nodePresent, "assemble the turn response", a.present)
	g.AddNode(nodeClarify, "ask for company disambiguation", a.clarify)

	g.SetEntryPoint(nodeGatherContext)
	g.AddConditionalEdge(nodeGatherContext, func(ctx context.Context, s ResearchState) string {
		switch {
		case s.Analysis.Ambiguous():
			return nodeClarify
		case s.Analysis.Direct:
			return nodeSearch
		default:
			return nodePlanQueries
		}
	})
	g.AddEdge(nodePlanQueries, nodeSearch)
	g.AddEdge(nodeSearch, nodeEnrich)
	g.AddEdge(nodeEnrich, nodeExtract)
	g.AddEdge(nodeExtract, nodePresent)
	g.AddEdge(nodePresent, graph.END)
	g.AddEdge(nodeClarify, graph.END)

	return g.Compile()
}

// Search runs one search turn. All tool errors are absorbed into the
// returned SearchResponse status; the error return is non-nil only
// when ctx is cancelled, which callers treat as a superseded turn.
func (a *Agent) Search(ctx context.Context, goal, identity string, recent []schema.ConversationTurn) (schema.SearchResponse, error) {
	state := ResearchState{Goal: goal, Identity: identity, Recent: recent}

	out, err := a.runnable.Invoke(ctx, state)
	if err != nil {
		if ctx.Err() != nil {
			return schema.SearchResponse{}, ctx.Err()
		}
		a.logger.Error("search turn failed: %v", err)
		return cantFindResponse(), nil
	}

	if verr := out.Response.Validate(); verr != nil {
		a.logger.Error("search turn produced invalid response: %v", verr)
		return cantFindResponse(), nil
	}
	return out.Response, nil
}

// ResolveEmails resolves one email per previously presented person,
// concurrently. A failed or timed-out lookup yields that person's
// result with source "none"; the batch never fails. Only the
// orchestrator's confirm gate may call this, on the turn after a
// people_found presentation.
func (a *Agent) ResolveEmails(ctx context.Context, people []schema.Person) (schema.SearchResponse, error) {
	results, errs := graph.Fanout(ctx, people, func(ctx context.Context, person schema.Person) (schema.EmailResult, error) {
		toolCtx, cancel := a.toolContext(ctx)
		defer cancel()
		return a.cfg.Emails.FindAndVerify(toolCtx, person)
	})
	if ctx.Err() != nil {
		return schema.SearchResponse{}, ctx.Err()
	}

	emails := make([]schema.EmailResult, len(people))
	for i, person := range people {
		result := results[i]
		if errs[i] != nil || result.Validate() != nil {
			if errs[i] != nil {
				a.logger.Warn("email lookup failed for one person: %v", errs[i])
			}
			result = schema.EmailResult{
				Name:        person.Name,
				Role:        person.Role,
				Company:     person.Company,
				EmailSource: schema.EmailNone,
			}
		}
		emails[i] = result
	}

	resp := schema.SearchResponse{
		Status:  schema.StatusEmailsFound,
		Message: fmt.Sprintf(msgEmails, len(emails)),
		Emails:  emails,
	}
	if err := resp.Validate(); err != nil {
		a.logger.Error("email turn produced invalid response: %v", err)
		return cantFindResponse(), nil
	}
	return resp, nil
}

// gatherContext always runs first: the agent must not search blind
// when user context is available. An unreachable profile store means
// empty context, not a failed turn. Goal analysis happens here too so
// the outgoing conditional edge can branch on it.
func (a *Agent) gatherContext(ctx context.Context, s ResearchState) (ResearchState, error) {
	toolCtx, cancel := a.toolContext(ctx)
	userContext, err := a.cfg.UserInfo.GetUserInfo(toolCtx, s.Identity)
	cancel()
	if err != nil {
		a.logger.Warn("proceeding with empty user context: %v", err)
		userContext = schema.UserContext{}
	}
	s.Context = userContext

	toolCtx, cancel = a.toolContext(ctx)
	defer cancel()
	analysis, err := a.cfg.Analyzer.AnalyzeGoal(toolCtx, s.Goal, s.Context, s.Recent)
	if err != nil {
		return s, fmt.Errorf("goal analysis: %w", err)
	}
	s.Analysis = analysis

	if analysis.Direct {
		s.Queries = []string{directQuery(s.Goal, analysis)}
	}
	return s, nil
}

func (a *Agent) planQueries(ctx context.Context, s ResearchState) (ResearchState, error) {
	toolCtx, cancel := a.toolContext(ctx)
	defer cancel()

	queries, err := a.cfg.Planner.GenerateQueries(toolCtx, s.Goal, s.Context)
	if err != nil {
		// Fatal: with no queries there is nothing to search.
		return s, fmt.Errorf("%w: %v", tool.ErrQueryGenerationFailed, err)
	}
	s.Queries = queries.Queries
	if len(s.Queries) > a.cfg.MaxQueries {
		s.Queries = s.Queries[:a.cfg.MaxQueries]
	}
	return s, nil
}

// search fans out one web_search per query and pools the results
// behind a join barrier. A per-call timeout or provider error counts
// as an empty result for that call, never as a turn failure.
func (a *Agent) search(ctx context.Context, s ResearchState) (ResearchState, error) {
	results, errs := graph.Fanout(ctx, s.Queries, func(ctx context.Context, query string) ([]schema.SearchSnippet, error) {
		toolCtx, cancel := a.toolContext(ctx)
		defer cancel()
		return a.cfg.Searcher.Search(toolCtx, query)
	})

	for i, err := range errs {
		if err != nil {
			a.logger.Debug("search call %d returned no results: %v", i, err)
			continue
		}
		s.Snippets = append(s.Snippets, results[i]...)
	}
	return s, ctx.Err()
}

// enrich fetches readable text from a few non-LinkedIn result pages as
// extra employment evidence. Optional and best-effort.
func (a *Agent) enrich(ctx context.Context, s ResearchState) (ResearchState, error) {
	if a.cfg.Pages == nil {
		return s, nil
	}

	var candidates []schema.SearchSnippet
	for _, snippet := range s.Snippets {
		if len(candidates) == a.cfg.MaxPageLookups {
			break
		}
		if snippet.URL == "" || strings.Contains(snippet.URL, "linkedin.com") {
			continue
		}
		candidates = append(candidates, snippet)
	}

	texts, errs := graph.Fanout(ctx, candidates, func(ctx context.Context, snippet schema.SearchSnippet) (string, error) {
		toolCtx, cancel := a.toolContext(ctx)
		defer cancel()
		return a.cfg.Pages.FetchText(toolCtx, snippet.URL)
	})

	for i, err := range errs {
		if err != nil || texts[i] == "" {
			continue
		}
		s.Snippets = append(s.Snippets, schema.SearchSnippet{
			Title:   candidates[i].Title,
			Snippet: texts[i],
			URL:     candidates[i].URL,
		})
	}
	return s, ctx.Err()
}

func (a *Agent) extract(ctx context.Context, s ResearchState) (ResearchState, error) {
	if len(s.Snippets) == 0 {
		return s, nil
	}

	toolCtx, cancel := a.toolContext(ctx)
	defer cancel()

	people, err := a.cfg.Extractor.ExtractPeople(toolCtx, s.Analysis, s.Snippets)
	if err != nil {
		return s, fmt.Errorf("extraction: %w", err)
	}

	seen := make(map[string]bool, len(people))
	for _, person := range people {
		if err := person.Validate(); err != nil {
			return s, err
		}
		if seen[person.Identity()] {
			continue
		}
		seen[person.Identity()] = true
		s.People = append(s.People, person)
	}
	return s, nil
}

func (a *Agent) present(ctx context.Context, s ResearchState) (ResearchState, error) {
	switch n := len(s.People); {
	case n == 0:
		s.Response = cantFindResponse()
	case n < 3:
		// A thin result set gets a broaden offer, not a plain listing.
		s.Response = schema.SearchResponse{
			Status:  schema.StatusPeopleFound,
			Message: fmt.Sprintf(msgFewFound, n),
			People:  s.People,
		}
	default:
		s.Response = schema.SearchResponse{
			Status:  schema.StatusPeopleFound,
			Message: fmt.Sprintf(msgManyFound, n),
			People:  s.People,
		}
	}
	return s, nil
}

func (a *Agent) clarify(ctx context.Context, s ResearchState) (ResearchState, error) {
	s.Response = schema.SearchResponse{
		Status:         schema.StatusClarificationNeeded,
		Message:        msgClarify,
		CompanyOptions: s.Analysis.CompanyOptions,
	}
	return s, nil
}

func (a *Agent) toolContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, a.cfg.ToolTimeout)
}

func directQuery(goal string, analysis GoalAnalysis) string {
	if analysis.RoleClass != "" && analysis.Company != "" {
		return analysis.RoleClass + " at " + analysis.Company
	}
	return goal
}

func cantFindResponse() schema.SearchResponse {
	return schema.SearchResponse{
		Status:  schema.StatusCantFind,
		Message: msgCantFind,
	}
}

