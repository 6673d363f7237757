package conversation

import (
	"context"
	"time"

	"github.com/smallnest/leadscout/schema"
)

// PendingConfirmation records an email-lookup offer made to the user
// that has not yet been accepted or expired. People holds the exact
// result set the offer was made for; OfferedAtTurn is the transcript
// length at the moment of the offer, used to age the offer out.
type PendingConfirmation struct {
	People        []schema.Person `json:"people"`
	OfferedAtTurn int             `json:"offeredAtTurn"`
	OfferedAt     time.Time       `json:"offeredAt"`
}

// Store persists conversation transcripts and pending confirmations.
// Transcripts are append-only; AppendTurn never rewrites history.
type Store interface {
	// AppendTurn adds one turn to the end of the conversation.
	AppendTurn(ctx context.Context, conversationID string, turn schema.ConversationTurn) error

	// Turns returns the full transcript in append order. A conversation
	// that has never been written to yields an empty slice, not an error.
	Turns(ctx context.Context, conversationID string) ([]schema.ConversationTurn, error)

	// SavePending records an email-lookup offer, replacing any previous one.
	SavePending(ctx context.Context, conversationID string, pending PendingConfirmation) error

	// LoadPending returns the current offer, or nil when there is none.
	LoadPending(ctx context.Context, conversationID string) (*PendingConfirmation, error)

	// ClearPending removes the current offer. Clearing a conversation
	// with no offer is not an error.
	ClearPending(ctx context.Context, conversationID string) error

	// Close releases the store's resources.
	Close() error
}
