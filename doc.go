// Leadscout is a conversational research assistant core for finding
// professionals and resolving their contact details.
//
// The module is organised around a small set of packages:
//
//   - schema: validated data contracts (people, emails, turns,
//     responses) with closed enums rejected eagerly.
//   - graph: a typed state graph runtime that drives the agent's
//     research pipeline, plus a bounded fan-out helper.
//   - tool: adapters for the external providers (user profiles, query
//     planning, web search, page text, email lookup).
//   - agent: the people-search agent, a compiled graph over the tools
//     that absorbs tool failures into response statuses.
//   - router: per-turn intent triage between people search and direct
//     conversation.
//   - conversation: the orchestrator that owns transcripts, the
//     search-then-confirm email discipline, and turn supersession,
//     with memory, Redis, SQLite and PostgreSQL stores.
//   - config, log: YAML configuration and the logging abstraction.
//   - cmd/leadscout: an interactive chat front end.
//
// Basic usage:
//
//	researchAgent, err := agent.New(agent.Config{ /* tools */ })
//	if err != nil {
//		return err
//	}
//	orch, err := conversation.New(conversation.Config{
//		Agent:      researchAgent,
//		Classifier: router.NewLLMClassifier(model),
//		Store:      conversation.NewMemoryStore(),
//	})
//	if err != nil {
//		return err
//	}
//	resp, err := orch.HandleTurn(ctx, conversation.TurnInput{
//		ConversationID: id,
//		Message:        "find recruiters at Acme Corp",
//	})
package leadscout
