// Package sqlite provides a SQLite-backed conversation store, suited
// to single-process deployments that need transcripts to survive a
// restart without running a database server.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/smallnest/leadscout/conversation"
	"github.com/smallnest/leadscout/schema"
)

// Store implements conversation.Store using SQLite.
type Store struct {
	db *sql.DB
}

// Options configures the SQLite connection.
type Options struct {
	Path string
}

// NewStore opens the database and creates the schema when missing.
func NewStore(opts Options) (*Store, error) {
	db, err := sql.Open("sqlite3", opts.Path)
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) initSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS turns (
			id TEXT PRIMARY KEY,
			conversation_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_turns_conversation ON turns (conversation_id, seq);
		CREATE TABLE IF NOT EXISTS pending_offers (
			conversation_id TEXT PRIMARY KEY,
			people TEXT NOT NULL,
			offered_at_turn INTEGER NOT NULL,
			offered_at DATETIME NOT NULL
		);
	`
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// AppendTurn adds one turn with the next sequence number.
func (s *Store) AppendTurn(ctx context.Context, conversationID string, turn schema.ConversationTurn) error {
	query := `
		INSERT INTO turns (id, conversation_id, seq, role, content, created_at)
		VALUES (?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM turns WHERE conversation_id = ?), ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		turn.ID,
		conversationID,
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
		WHERE conversation_id = ?
		ORDER BY seq
	`
	rows, err := s.db.QueryContext(ctx, query, conversationID)
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
		VALUES (?, ?, ?, ?)
		ON CONFLICT(conversation_id) DO UPDATE SET
			people = excluded.people,
			offered_at_turn = excluded.offered_at_turn,
			offered_at = excluded.offered_at
	`
	_, err = s.db.ExecContext(ctx, query,
		conversationID,
		string(peopleJSON),
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
		WHERE conversation_id = ?
	`
	var pending conversation.PendingConfirmation
	var peopleJSON string
	err := s.db.QueryRowContext(ctx, query, conversationID).Scan(
		&peopleJSON,
		&pending.OfferedAtTurn,
		&pending.OfferedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load pending offer: %w", err)
	}

	if err := json.Unmarshal([]byte(peopleJSON), &pending.People); err != nil {
		return nil, fmt.Errorf("failed to unmarshal people: %w", err)
	}
	return &pending, nil
}

// ClearPending removes the current offer.
func (s *Store) ClearPending(ctx context.Context, conversationID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM pending_offers WHERE conversation_id = ?`, conversationID); err != nil {
		return fmt.Errorf("failed to clear pending offer: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
