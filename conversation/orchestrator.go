package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/smallnest/leadscout/log"
	"github.com/smallnest/leadscout/router"
	"github.com/smallnest/leadscout/schema"
)

const (
	// defaultStaleAfterTurns is how many user turns an email offer
	// survives before it expires.
	defaultStaleAfterTurns = 3

	// defaultRecentWindow is how many trailing turns are handed to the
	// classifier and the agent as conversational context.
	defaultRecentWindow = 10

	fallbackMessage = "I wasn't able to act on that. Could you tell me the role and the company you are interested in?"

	// emptyReplyMessage stands in when the classifier routes to a
	// direct reply without supplying one.
	emptyReplyMessage = "Happy to help. Tell me the role and the company you are looking for."
)

// ErrSuperseded is returned for a turn that was cancelled because a
// newer turn arrived on the same conversation.
var ErrSuperseded = errors.New("conversation: turn superseded by a newer message")

// Agent is the research capability the orchestrator dispatches to.
// Implemented by the people-search agent.
type Agent interface {
	Search(ctx context.Context, goal, identity string, recent []schema.ConversationTurn) (schema.SearchResponse, error)
	ResolveEmails(ctx context.Context, people []schema.Person) (schema.SearchResponse, error)
}

// TurnInput is one incoming user message.
type TurnInput struct {
	ConversationID string
	Message        string
	// UserIdentity keys the requesting user's profile lookup.
	UserIdentity string
}

// Config assembles an Orchestrator.
type Config struct {
	Agent      Agent
	Classifier router.Classifier
	Store      Store
	Logger     log.Logger

	// StaleAfterTurns overrides how many user turns an email offer
	// stays valid. Zero means the default.
	StaleAfterTurns int

	// RecentWindow overrides how many trailing turns are passed as
	// context. Zero means the default.
	RecentWindow int
}

type activeTurn struct {
	cancel context.CancelFunc
}

// Orchestrator drives one conversation turn at a time: it appends the
// user turn, routes it, invokes the agent, and appends the reply. At
// most one turn per conversation is in flight; a newer turn cancels
// the one it supersedes.
type Orchestrator struct {
	agent      Agent
	classifier router.Classifier
	store      Store
	logger     log.Logger
	staleAfter int
	window     int

	mu     sync.Mutex
	active map[string]*activeTurn
}

// New validates the config and creates an Orchestrator.
func New(cfg Config) (*Orchestrator, error) {
	if cfg.Agent == nil {
		return nil, errors.New("conversation: Agent is required")
	}
	if cfg.Classifier == nil {
		return nil, errors.New("conversation: Classifier is required")
	}
	if cfg.Store == nil {
		return nil, errors.New("conversation: Store is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.GetDefaultLogger()
	}
	staleAfter := cfg.StaleAfterTurns
	if staleAfter <= 0 {
		staleAfter = defaultStaleAfterTurns
	}
	window := cfg.RecentWindow
	if window <= 0 {
		window = defaultRecentWindow
	}
	return &Orchestrator{
		agent:      cfg.Agent,
		classifier: cfg.Classifier,
		store:      cfg.Store,
		logger:     logger,
		staleAfter: staleAfter,
		window:     window,
		active:     make(map[string]*activeTurn),
	}, nil
}

// HandleTurn processes one user message and returns the structured
// reply. The user turn and the reply are both appended to the
// transcript; a superseded turn returns ErrSuperseded and appends no
// reply.
func (o *Orchestrator) HandleTurn(ctx context.Context, input TurnInput) (schema.SearchResponse, error) {
	if input.ConversationID == "" {
		return schema.SearchResponse{}, errors.New("conversation: ConversationID is required")
	}
	if strings.TrimSpace(input.Message) == "" {
		return schema.SearchResponse{}, errors.New("conversation: Message is required")
	}

	turnCtx, release := o.begin(ctx, input.ConversationID)
	defer release()

	if err := o.store.AppendTurn(turnCtx, input.ConversationID, schema.NewTurn(schema.RoleUser, input.Message)); err != nil {
		return schema.SearchResponse{}, fmt.Errorf("append user turn: %w", err)
	}

	transcript, err := o.store.Turns(turnCtx, input.ConversationID)
	if err != nil {
		return schema.SearchResponse{}, fmt.Errorf("load transcript: %w", err)
	}

	pending, err := o.freshPending(turnCtx, input.ConversationID, transcript)
	if err != nil {
		return schema.SearchResponse{}, err
	}

	resp, err := o.dispatch(turnCtx, input, transcript, pending)
	if err != nil {
		if turnCtx.Err() != nil {
			return schema.SearchResponse{}, ErrSuperseded
		}
		return schema.SearchResponse{}, err
	}

	// Only a valid reply is surfaced or transcribed.
	if err := resp.Validate(); err != nil {
		o.logger.Error("replacing invalid reply conversation=%s: %v", input.ConversationID, err)
		resp = schema.SearchResponse{Status: schema.StatusCantFind, Message: fallbackMessage}
	}

	if err := o.store.AppendTurn(turnCtx, input.ConversationID, schema.NewTurn(schema.RoleAssistant, resp.Message)); err != nil {
		return schema.SearchResponse{}, fmt.Errorf("append assistant turn: %w", err)
	}

	if resp.Status == schema.StatusPeopleFound {
		offer := PendingConfirmation{
			People:        resp.People,
			OfferedAtTurn: len(transcript) + 1,
			OfferedAt:     time.Now().UTC(),
		}
		if err := o.store.SavePending(turnCtx, input.ConversationID, offer); err != nil {
			return schema.SearchResponse{}, fmt.Errorf("save pending offer: %w", err)
		}
	}

	return resp, nil
}

// dispatch routes the turn. A turn performs either an email resolution
// or a search, never both.
func (o *Orchestrator) dispatch(ctx context.Context, input TurnInput, transcript []schema.ConversationTurn, pending *PendingConfirmation) (schema.SearchResponse, error) {
	if pending != nil && router.IsAffirmative(input.Message) {
		o.logger.Info("resolving emails for confirmed offer conversation=%s people=%d", input.ConversationID, len(pending.People))
		resp, err := o.agent.ResolveEmails(ctx, pending.People)
		if err != nil {
			// The offer stays saved so an interrupted confirmation
			// can be repeated.
			return schema.SearchResponse{}, err
		}
		if err := o.store.ClearPending(ctx, input.ConversationID); err != nil {
			return schema.SearchResponse{}, fmt.Errorf("clear pending offer: %w", err)
		}
		return resp, nil
	}

	decision, err := o.classifier.Classify(ctx, input.Message, o.recent(transcript))
	if err != nil {
		if ctx.Err() != nil {
			return schema.SearchResponse{}, ctx.Err()
		}
		o.logger.Warn("classification failed conversation=%s: %v", input.ConversationID, err)
		return schema.SearchResponse{
			Status:  schema.StatusCantFind,
			Message: fallbackMessage,
		}, nil
	}

	switch decision.Route {
	case router.RoutePeopleSearch:
		if pending != nil {
			if err := o.store.ClearPending(ctx, input.ConversationID); err != nil {
				return schema.SearchResponse{}, fmt.Errorf("clear pending offer: %w", err)
			}
		}
		return o.agent.Search(ctx, input.Message, input.UserIdentity, o.recent(transcript))
	case router.RouteDirectReply:
		reply := strings.TrimSpace(decision.Reply)
		if reply == "" {
			o.logger.Warn("classifier routed to direct reply without one conversation=%s", input.ConversationID)
			reply = emptyReplyMessage
		}
		return schema.SearchResponse{
			Status:  schema.StatusGreeting,
			Message: reply,
		}, nil
	default:
		return schema.SearchResponse{}, fmt.Errorf("conversation: unrecognized route %q", decision.Route)
	}
}

// freshPending loads the pending offer and expires it when too many
// user turns have passed since it was made. The returned offer, if
// any, is safe to act on this turn.
func (o *Orchestrator) freshPending(ctx context.Context, conversationID string, transcript []schema.ConversationTurn) (*PendingConfirmation, error) {
	pending, err := o.store.LoadPending(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("load pending offer: %w", err)
	}
	if pending == nil {
		return nil, nil
	}

	userTurnsSince := 0
	for i := pending.OfferedAtTurn; i < len(transcript); i++ {
		if transcript[i].Role == schema.RoleUser {
			userTurnsSince++
		}
	}
	if userTurnsSince > o.staleAfter {
		o.logger.Debug("expiring stale email offer conversation=%s", conversationID)
		if err := o.store.ClearPending(ctx, conversationID); err != nil {
			return nil, fmt.Errorf("clear pending offer: %w", err)
		}
		return nil, nil
	}
	return pending, nil
}

func (o *Orchestrator) recent(transcript []schema.ConversationTurn) []schema.ConversationTurn {
	if len(transcript) <= o.window {
		return transcript
	}
	return transcript[len(transcript)-o.window:]
}

// begin cancels any in-flight turn on the same conversation and
// registers this one as the active turn.
func (o *Orchestrator) begin(ctx context.Context, conversationID string) (context.Context, func()) {
	turnCtx, cancel := context.WithCancel(ctx)
	at := &activeTurn{cancel: cancel}

	o.mu.Lock()
	if prev, ok := o.active[conversationID]; ok {
		prev.cancel()
	}
	o.active[conversationID] = at
	o.mu.Unlock()

	return turnCtx, func() {
		o.mu.Lock()
		if o.active[conversationID] == at {
			delete(o.active, conversationID)
		}
		o.mu.Unlock()
		cancel()
	}
}
