package conversation_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallnest/leadscout/conversation"
	"github.com/smallnest/leadscout/router"
	"github.com/smallnest/leadscout/schema"
)

type stubAgent struct {
	searchCalls  atomic.Int32
	resolveCalls atomic.Int32

	searchResp  schema.SearchResponse
	resolveResp schema.SearchResponse

	mu            sync.Mutex
	resolvedWith  []schema.Person
	searchBlocked chan struct{}

	resolveBlocked chan struct{}
	resolveStarted chan struct{}
	resolveOnce    sync.Once
}

func (a *stubAgent) Search(ctx context.Context, goal, identity string, recent []schema.ConversationTurn) (schema.SearchResponse, error) {
	a.searchCalls.Add(1)
	if a.searchBlocked != nil {
		select {
		case <-a.searchBlocked:
		case <-ctx.Done():
			return schema.SearchResponse{}, ctx.Err()
		}
	}
	return a.searchResp, nil
}

func (a *stubAgent) ResolveEmails(ctx context.Context, people []schema.Person) (schema.SearchResponse, error) {
	a.resolveCalls.Add(1)
	a.mu.Lock()
	a.resolvedWith = people
	a.mu.Unlock()
	if a.resolveStarted != nil {
		a.resolveOnce.Do(func() { close(a.resolveStarted) })
	}
	if a.resolveBlocked != nil {
		select {
		case <-a.resolveBlocked:
		case <-ctx.Done():
			return schema.SearchResponse{}, ctx.Err()
		}
	}
	return a.resolveResp, nil
}

type stubClassifier struct {
	decision router.Decision
	err      error
	calls    atomic.Int32
}

func (c *stubClassifier) Classify(ctx context.Context, message string, recent []schema.ConversationTurn) (router.Decision, error) {
	c.calls.Add(1)
	return c.decision, c.err
}

func somePeople() []schema.Person {
	return []schema.Person{
		{
			Name:    "Jordan Mills",
			Role:    "Technical Recruiter",
			Company: "Acme Corp",
			Source:  schema.SourceLinkedIn,
		},
		{
			Name:    "Priya Nair",
			Role:    "Senior Recruiter",
			Company: "Acme Corp",
			Source:  schema.SourceWeb,
			WebURL:  "https://acme.example.com/team",
		},
	}
}

func peopleFoundResponse() schema.SearchResponse {
	return schema.SearchResponse{
		Status:  schema.StatusPeopleFound,
		Message: "I found 2 matching profiles. Want me to look up their email addresses?",
		People:  somePeople(),
	}
}

func emailsFoundResponse() schema.SearchResponse {
	return schema.SearchResponse{
		Status:  schema.StatusEmailsFound,
		Message: "Here are the email addresses I could resolve.",
		Emails: []schema.EmailResult{
			{
				Name: "Jordan Mills", Role: "Technical Recruiter", Company: "Acme Corp",
				Email: "jordan.mills@acme.example.com", EmailSource: schema.EmailFromSearch,
			},
			{
				Name: "Priya Nair", Role: "Senior Recruiter", Company: "Acme Corp",
				EmailSource: schema.EmailNone,
			},
		},
	}
}

func newOrchestrator(t *testing.T, agent *stubAgent, classifier *stubClassifier, opts ...func(*conversation.Config)) *conversation.Orchestrator {
	t.Helper()
	cfg := conversation.Config{
		Agent:      agent,
		Classifier: classifier,
		Store:      conversation.NewMemoryStore(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	orch, err := conversation.New(cfg)
	require.NoError(t, err)
	return orch
}

func TestSearchThenConfirmResolvesEmails(t *testing.T) {
	t.Parallel()

	agent := &stubAgent{searchResp: peopleFoundResponse(), resolveResp: emailsFoundResponse()}
	classifier := &stubClassifier{decision: router.Decision{Route: router.RoutePeopleSearch}}
	orch := newOrchestrator(t, agent, classifier)

	ctx := context.Background()
	first, err := orch.HandleTurn(ctx, conversation.TurnInput{
		ConversationID: "conv-1",
		Message:        "find recruiters at Acme Corp",
		UserIdentity:   "user-7",
	})
	require.NoError(t, err)
	assert.Equal(t, schema.StatusPeopleFound, first.Status)
	assert.Len(t, first.People, 2)

	second, err := orch.HandleTurn(ctx, conversation.TurnInput{
		ConversationID: "conv-1",
		Message:        "yes please",
		UserIdentity:   "user-7",
	})
	require.NoError(t, err)
	assert.Equal(t, schema.StatusEmailsFound, second.Status)
	assert.Len(t, second.Emails, 2)

	// The confirm turn resolves emails and never re-runs the search.
	assert.Equal(t, int32(1), agent.searchCalls.Load())
	assert.Equal(t, int32(1), agent.resolveCalls.Load())
	agent.mu.Lock()
	assert.Equal(t, somePeople(), agent.resolvedWith)
	agent.mu.Unlock()
}

func TestConfirmWithoutPendingGoesThroughClassifier(t *testing.T) {
	t.Parallel()

	agent := &stubAgent{}
	classifier := &stubClassifier{decision: router.Decision{Route: router.RouteDirectReply, Reply: "What would you like me to find?"}}
	orch := newOrchestrator(t, agent, classifier)

	resp, err := orch.HandleTurn(context.Background(), conversation.TurnInput{
		ConversationID: "conv-2",
		Message:        "yes please",
	})
	require.NoError(t, err)
	assert.Equal(t, schema.StatusGreeting, resp.Status)
	assert.Equal(t, int32(0), agent.resolveCalls.Load())
	assert.Equal(t, int32(1), classifier.calls.Load())
}

func TestGreetingNeverTouchesTheAgent(t *testing.T) {
	t.Parallel()

	agent := &stubAgent{}
	classifier := &stubClassifier{decision: router.Decision{Route: router.RouteDirectReply, Reply: "Hi! What can I find for you?"}}
	store := conversation.NewMemoryStore()
	orch, err := conversation.New(conversation.Config{Agent: agent, Classifier: classifier, Store: store})
	require.NoError(t, err)

	resp, err := orch.HandleTurn(context.Background(), conversation.TurnInput{
		ConversationID: "conv-3",
		Message:        "hello!",
	})
	require.NoError(t, err)
	assert.Equal(t, schema.StatusGreeting, resp.Status)
	assert.Equal(t, "Hi! What can I find for you?", resp.Message)
	assert.Equal(t, int32(0), agent.searchCalls.Load())
	assert.Equal(t, int32(0), agent.resolveCalls.Load())

	transcript, err := store.Turns(context.Background(), "conv-3")
	require.NoError(t, err)
	require.Len(t, transcript, 2)
	assert.Equal(t, schema.RoleUser, transcript[0].Role)
	assert.Equal(t, schema.RoleAssistant, transcript[1].Role)
}

func TestDirectReplyWithoutTextFallsBack(t *testing.T) {
	t.Parallel()

	agent := &stubAgent{}
	classifier := &stubClassifier{decision: router.Decision{Route: router.RouteDirectReply}}
	store := conversation.NewMemoryStore()
	orch, err := conversation.New(conversation.Config{Agent: agent, Classifier: classifier, Store: store})
	require.NoError(t, err)

	resp, err := orch.HandleTurn(context.Background(), conversation.TurnInput{
		ConversationID: "conv-9",
		Message:        "thanks!",
	})
	require.NoError(t, err)
	require.NoError(t, resp.Validate())
	assert.Equal(t, schema.StatusGreeting, resp.Status)
	assert.NotEmpty(t, resp.Message)

	// The transcribed reply is never blank either.
	transcript, err := store.Turns(context.Background(), "conv-9")
	require.NoError(t, err)
	require.Len(t, transcript, 2)
	assert.Equal(t, schema.RoleAssistant, transcript[1].Role)
	assert.NotEmpty(t, transcript[1].Content)
}

func TestOfferExpiresAfterUnrelatedTurns(t *testing.T) {
	t.Parallel()

	agent := &stubAgent{searchResp: peopleFoundResponse(), resolveResp: emailsFoundResponse()}
	classifier := &stubClassifier{decision: router.Decision{Route: router.RoutePeopleSearch}}
	orch := newOrchestrator(t, agent, classifier, func(cfg *conversation.Config) {
		cfg.StaleAfterTurns = 2
	})

	ctx := context.Background()

	_, err := orch.HandleTurn(ctx, conversation.TurnInput{ConversationID: "conv-4", Message: "find recruiters at Acme Corp"})
	require.NoError(t, err)

	classifier.decision = router.Decision{Route: router.RouteDirectReply, Reply: "Noted."}
	for _, msg := range []string{"what is a recruiter anyway", "interesting", "one more thing"} {
		_, err := orch.HandleTurn(ctx, conversation.TurnInput{ConversationID: "conv-4", Message: msg})
		require.NoError(t, err)
	}

	resp, err := orch.HandleTurn(ctx, conversation.TurnInput{ConversationID: "conv-4", Message: "yes find their emails"})
	require.NoError(t, err)

	// The offer went stale, so the confirmation falls through to the
	// classifier instead of resolving emails.
	assert.Equal(t, int32(0), agent.resolveCalls.Load())
	assert.Equal(t, schema.StatusGreeting, resp.Status)
}

func TestNewSearchReplacesPendingOffer(t *testing.T) {
	t.Parallel()

	agent := &stubAgent{searchResp: peopleFoundResponse(), resolveResp: emailsFoundResponse()}
	classifier := &stubClassifier{decision: router.Decision{Route: router.RoutePeopleSearch}}
	orch := newOrchestrator(t, agent, classifier)

	ctx := context.Background()
	_, err := orch.HandleTurn(ctx, conversation.TurnInput{ConversationID: "conv-5", Message: "find recruiters at Acme Corp"})
	require.NoError(t, err)

	_, err = orch.HandleTurn(ctx, conversation.TurnInput{ConversationID: "conv-5", Message: "find engineers at Globex instead"})
	require.NoError(t, err)
	assert.Equal(t, int32(2), agent.searchCalls.Load())

	resp, err := orch.HandleTurn(ctx, conversation.TurnInput{ConversationID: "conv-5", Message: "yes please"})
	require.NoError(t, err)
	assert.Equal(t, schema.StatusEmailsFound, resp.Status)
	assert.Equal(t, int32(1), agent.resolveCalls.Load())
}

// signalClassifier signals when it first runs so tests can order
// concurrent turns deterministically, then switches to the second
// decision for later turns.
type signalClassifier struct {
	first   router.Decision
	rest    router.Decision
	started chan struct{}
	once    sync.Once
	calls   atomic.Int32
}

func (c *signalClassifier) Classify(ctx context.Context, message string, recent []schema.ConversationTurn) (router.Decision, error) {
	n := c.calls.Add(1)
	c.once.Do(func() { close(c.started) })
	if n == 1 {
		return c.first, nil
	}
	return c.rest, nil
}

func TestNewerTurnSupersedesInFlightTurn(t *testing.T) {
	t.Parallel()

	blocked := make(chan struct{})
	defer close(blocked)

	agent := &stubAgent{searchResp: peopleFoundResponse(), searchBlocked: blocked}
	started := make(chan struct{})
	classifier := &signalClassifier{
		first:   router.Decision{Route: router.RoutePeopleSearch},
		rest:    router.Decision{Route: router.RouteDirectReply, Reply: "Understood."},
		started: started,
	}
	orch, err := conversation.New(conversation.Config{
		Agent:      agent,
		Classifier: classifier,
		Store:      conversation.NewMemoryStore(),
	})
	require.NoError(t, err)

	firstDone := make(chan error, 1)
	go func() {
		_, err := orch.HandleTurn(context.Background(), conversation.TurnInput{ConversationID: "conv-7", Message: "find recruiters at Acme Corp"})
		firstDone <- err
	}()

	<-started

	// A second message on the same conversation cancels the first turn
	// while its search is still blocked.
	resp, err := orch.HandleTurn(context.Background(), conversation.TurnInput{ConversationID: "conv-7", Message: "actually never mind"})
	require.NoError(t, err)
	assert.Equal(t, schema.StatusGreeting, resp.Status)

	err = <-firstDone
	require.Error(t, err)
	assert.ErrorIs(t, err, conversation.ErrSuperseded)
}

func TestOfferSurvivesSupersededConfirmation(t *testing.T) {
	t.Parallel()

	agent := &stubAgent{
		searchResp:     peopleFoundResponse(),
		resolveResp:    emailsFoundResponse(),
		resolveBlocked: make(chan struct{}),
		resolveStarted: make(chan struct{}),
	}
	classifier := &stubClassifier{decision: router.Decision{Route: router.RoutePeopleSearch}}
	orch := newOrchestrator(t, agent, classifier)

	ctx := context.Background()
	_, err := orch.HandleTurn(ctx, conversation.TurnInput{ConversationID: "conv-10", Message: "find recruiters at Acme Corp"})
	require.NoError(t, err)

	classifier.decision = router.Decision{Route: router.RouteDirectReply, Reply: "Sure, take your time."}

	confirmDone := make(chan error, 1)
	go func() {
		_, err := orch.HandleTurn(ctx, conversation.TurnInput{ConversationID: "conv-10", Message: "yes please"})
		confirmDone <- err
	}()

	<-agent.resolveStarted

	// A new message lands while the email lookup is still running and
	// cancels the confirm turn.
	_, err = orch.HandleTurn(ctx, conversation.TurnInput{ConversationID: "conv-10", Message: "one moment"})
	require.NoError(t, err)
	require.ErrorIs(t, <-confirmDone, conversation.ErrSuperseded)

	// The offer is still standing, so confirming again resolves the
	// same people instead of falling through to the classifier.
	close(agent.resolveBlocked)
	resp, err := orch.HandleTurn(ctx, conversation.TurnInput{ConversationID: "conv-10", Message: "yes please"})
	require.NoError(t, err)
	assert.Equal(t, schema.StatusEmailsFound, resp.Status)
	assert.Equal(t, int32(2), agent.resolveCalls.Load())
	agent.mu.Lock()
	assert.Equal(t, somePeople(), agent.resolvedWith)
	agent.mu.Unlock()
}

func TestClassifierFailureFallsBack(t *testing.T) {
	t.Parallel()

	agent := &stubAgent{}
	classifier := &stubClassifier{err: errors.New("model unavailable")}
	orch := newOrchestrator(t, agent, classifier)

	resp, err := orch.HandleTurn(context.Background(), conversation.TurnInput{
		ConversationID: "conv-8",
		Message:        "find recruiters at Acme Corp",
	})
	require.NoError(t, err)
	assert.Equal(t, schema.StatusCantFind, resp.Status)
	assert.NotEmpty(t, resp.Message)
	assert.Equal(t, int32(0), agent.searchCalls.Load())
}

func TestNewRequiresCollaborators(t *testing.T) {
	t.Parallel()

	_, err := conversation.New(conversation.Config{})
	require.Error(t, err)

	_, err = conversation.New(conversation.Config{Agent: &stubAgent{}})
	require.Error(t, err)

	_, err = conversation.New(conversation.Config{Agent: &stubAgent{}, Classifier: &stubClassifier{}})
	require.Error(t, err)
}

func TestHandleTurnValidatesInput(t *testing.T) {
	t.Parallel()

	orch := newOrchestrator(t, &stubAgent{}, &stubClassifier{decision: router.Decision{Route: router.RouteDirectReply, Reply: "Hi!"}})

	_, err := orch.HandleTurn(context.Background(), conversation.TurnInput{Message: "hi"})
	require.Error(t, err)

	_, err = orch.HandleTurn(context.Background(), conversation.TurnInput{ConversationID: "c", Message: "   "})
	require.Error(t, err)
}
