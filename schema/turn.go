package schema

import (
	"time"

	"github.com/google/uuid"
)

// ConversationTurn is one message in the ordered, append-only
// transcript of a conversation. Turns are immutable once appended.
type ConversationTurn struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewTurn creates a turn with a fresh ID and the current time.
func NewTurn(role Role, content string) ConversationTurn {
	return ConversationTurn{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
}

// Validate checks the turn's role and content.
func (t ConversationTurn) Validate() error {
	if !t.Role.Valid() {
		return invalid("turn.role", "unrecognized value "+string(t.Role))
	}
	if t.Content == "" {
		return invalid("turn.content", "required")
	}
	return nil
}
