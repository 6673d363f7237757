// Package postgres provides a PostgreSQL-backed conversation store
// for multi-process deployments.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smallnest/leadscout/conversation"
	"github.com/smallnest/leadscout/schema"
)

// DBPool defines the interface for database connection pool
type DBPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// Store implements conversation.Store using PostgreSQL.
type Store struct {
	pool DBPool
}

// Options configures the Postgres connection.
type Options struct {
	ConnString string
}

// NewStore creates a Postgres-backed conversation store.
func NewStore(ctx context.Context, opts Options) (*Store, error) {
	pool, err := pgxpool.New(ctx, opts.ConnString)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	return &Store{pool: pool}, nil
}

// NewStoreWithPool wraps an existing pool. Useful for testing with mocks.
func NewStoreWithPool(pool DBPool) *Store {
	return &Store{pool: pool}
}

// InitSchema creates the necessary tables if they don't exist.
func (s *Store) InitSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS turns (
			id TEXT PRIMARY KEY,
			conversation_id TEXT NOT NULL,
			seq BIGSERIAL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_turns_conversation ON turns (conversation_id, seq);
		CREATE TABLE IF NOT EXISTS pending_offers (
			conversation_id TEXT PRIMARY KEY,
			people JSONB NOT NULL,
			offered_at_turn INTEGER NOT NULL,
			offered_at TIMESTAMPTZ NOT NULL
		);
	`
	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// AppendTurn adds one turn to the conversation.
func (s *Store) AppendTurn(ctx context.Context, conversationID string, turn schema.ConversationTurn) error {
	query := `
		INSERT INTO turns (id, conversation_id, role, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.pool.Exec(ctx, query,
		turn.ID,
		conversationID,
		string(turn.Role),
		turn.Content,
		turn.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append turn: %w", err)
	}
	return nil
}

// Turns returns the transcript in append order.
func (s *Store) Turns(ctx context.Context, conversationID string) ([]schema.ConversationTurn, error) {
	query := `
		SELECT id, role, content, created_at
		FROM turns
		WHERE conversation_id = $1
		ORDER BY seq
	`
	rows, err := s.pool.Query(ctx, query, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load turns: %w", err)
	}
	defer rows.Close()

	var turns []schema.ConversationTurn
	for rows.Next() {
		var turn schema.ConversationTurn
		var role string
		if err := rows.Scan(&turn.ID, &role, &turn.Content, &turn.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		turn.Role = schema.Role(role)
		turns = append(turns, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate turns: %w", err)
	}
	return turns, nil
}

// SavePending records the email-lookup offer, replacing any previous one.
func (s *Store) SavePending(ctx context.Context, conversationID string, pending conversation.PendingConfirmation) error {
	peopleJSON, err := json.Marshal(pending.People)
	if err != nil {
		return fmt.Errorf("failed to marshal people: %w", err)
	}

	query := `
		INSERT INTO pending_offers (conversation_id, people, offered_at_turn, offered_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (conversation_id) DO UPDATE SET
			people = EXCLUDED.people,
			offered_at_turn = EXCLUDED.offered_at_turn,
			offered_at = EXCLUDED.offered_at
	`
	_, err = s.pool.Exec(ctx, query,
		conversationID,
		peopleJSON,
		pending.OfferedAtTurn,
		pending.OfferedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save pending offer: %w", err)
	}
	return nil
}

// LoadPending returns the current offer, or nil when there is none.
func (s *Store) LoadPending(ctx context.Context, conversationID string) (*conversation.PendingConfirmation, error) {
	query := `
		SELECT people, offered_at_turn, offered_at
		FROM pending_offers
		WHERE conversation_id = $1
	`
	var pending conversation.PendingConfirmation
	var peopleJSON []byte
	err := s.pool.QueryRow(ctx, query, conversationID).Scan(
		&peopleJSON,
		&pending.OfferedAtTurn,
		&pending.OfferedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load pending offer: %w", err)
	}

	if err := json.Unmarshal(peopleJSON, &pending.People); err != nil {
		return nil, fmt.Errorf("failed to unmarshal people: %w", err)
	}
	return &pending, nil
}

// ClearPending removes the current offer.
func (s *Store) ClearPending(ctx context.Context, conversationID string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM pending_offers WHERE conversation_id = $1`, conversationID); err != nil {
		return fmt.Errorf("failed to clear pending offer: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
