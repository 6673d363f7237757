package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallnest/leadscout/conversation"
	"github.com/smallnest/leadscout/schema"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(Options{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSqliteStoreTurns(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	turns, err := store.Turns(ctx, "empty")
	assert.NoError(t, err)
	assert.Empty(t, turns)

	first := schema.NewTurn(schema.RoleUser, "find recruiters at Acme Corp")
	second := schema.NewTurn(schema.RoleAssistant, "I found 2 matching profiles.")
	require.NoError(t, store.AppendTurn(ctx, "c1", first))
	require.NoError(t, store.AppendTurn(ctx, "c1", second))
	require.NoError(t, store.AppendTurn(ctx, "c2", schema.NewTurn(schema.RoleUser, "hello")))

	turns, err = store.Turns(ctx, "c1")
	assert.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, first.ID, turns[0].ID)
	assert.Equal(t, first.Content, turns[0].Content)
	assert.Equal(t, schema.RoleAssistant, turns[1].Role)

	// Conversations are isolated.
	turns, err = store.Turns(ctx, "c2")
	assert.NoError(t, err)
	assert.Len(t, turns, 1)
}

func TestSqliteStorePending(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	pending, err := store.LoadPending(ctx, "c1")
	assert.NoError(t, err)
	assert.Nil(t, pending)

	offer := conversation.PendingConfirmation{
		People: []schema.Person{{
			Name:    "Jordan Mills",
			Role:    "Technical Recruiter",
			Company: "Acme Corp",
			Source:  schema.SourceLinkedIn,
		}},
		OfferedAtTurn: 2,
		OfferedAt:     time.Now().UTC(),
	}
	require.NoError(t, store.SavePending(ctx, "c1", offer))

	pending, err = store.LoadPending(ctx, "c1")
	assert.NoError(t, err)
	require.NotNil(t, pending)
	assert.Equal(t, offer.People, pending.People)
	assert.Equal(t, 2, pending.OfferedAtTurn)

	// A new offer replaces the previous one.
	offer.OfferedAtTurn = 6
	require.NoError(t, store.SavePending(ctx, "c1", offer))
	pending, err = store.LoadPending(ctx, "c1")
	assert.NoError(t, err)
	require.NotNil(t, pending)
	assert.Equal(t, 6, pending.OfferedAtTurn)

	require.NoError(t, store.ClearPending(ctx, "c1"))
	pending, err = store.LoadPending(ctx, "c1")
	assert.NoError(t, err)
	assert.Nil(t, pending)
}
