// Package redis provides a Redis-backed conversation store. Turns are
// kept in a per-conversation list and the pending email offer in a
// per-conversation key, both JSON encoded and optionally expiring.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/smallnest/leadscout/conversation"
	"github.com/smallnest/leadscout/schema"
)

// Store implements conversation.Store using Redis.
type Store struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string        // Key prefix, default "leadscout:"
	TTL      time.Duration // Expiration for conversations, default 0 (no expiration)
}

// NewStore creates a Redis-backed conversation store.
func NewStore(opts Options) *Store {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	prefix := opts.Prefix
	if prefix == "" {
		prefix = "leadscout:"
	}

	return &Store{
		client: client,
		prefix: prefix,
		ttl:    opts.TTL,
	}
}

// NewStoreFromClient wraps an existing client, useful for clustered
// or sentinel setups.
func NewStoreFromClient(client *redis.Client, prefix string, ttl time.Duration) *Store {
	if prefix == "" {
		prefix = "leadscout:"
	}
	return &Store{client: client, prefix: prefix, ttl: ttl}
}

func (s *Store) turnsKey(conversationID string) string {
	return fmt.Sprintf("%sconversation:%s:turns", s.prefix, conversationID)
}

func (s *Store) pendingKey(conversationID string) string {
	return fmt.Sprintf("%sconversation:%s:pending", s.prefix, conversationID)
}

// AppendTurn pushes one turn onto the end of the conversation list.
func (s *Store) AppendTurn(ctx context.Context, conversationID string, turn schema.ConversationTurn) error {
	data, err := json.Marshal(turn)
	if err != nil {
		return fmt.Errorf("failed to marshal turn: %w", err)
	}

	key := s.turnsKey(conversationID)
	pipe := s.client.Pipeline()
	pipe.RPush(ctx, key, data)
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append turn to redis: %w", err)
	}
	return nil
}

// Turns returns the full transcript in append order.
func (s *Store) Turns(ctx context.Context, conversationID string) ([]schema.ConversationTurn, error) {
	entries, err := s.client.LRange(ctx, s.turnsKey(conversationID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load turns from redis: %w", err)
	}

	turns := make([]schema.ConversationTurn, 0, len(entries))
	for _, entry := range entries {
		var turn schema.ConversationTurn
		if err := json.Unmarshal([]byte(entry), &turn); err != nil {
			return nil, fmt.Errorf("failed to unmarshal turn: %w", err)
		}
		turns = append(turns, turn)
	}
	return turns, nil
}

// SavePending records the email-lookup offer, replacing any previous one.
func (s *Store) SavePending(ctx context.Context, conversationID string, pending conversation.PendingConfirmation) error {
	data, err := json.Marshal(pending)
	if err != nil {
		return fmt.Errorf("failed to marshal pending offer: %w", err)
	}
	if err := s.client.Set(ctx, s.pendingKey(conversationID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save pending offer to redis: %w", err)
	}
	return nil
}

// LoadPending returns the current offer, or nil when there is none.
func (s *Store) LoadPending(ctx context.Context, conversationID string) (*conversation.PendingConfirmation, error) {
	data, err := s.client.Get(ctx, s.pendingKey(conversationID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load pending offer from redis: %w", err)
	}

	var pending conversation.PendingConfirmation
	if err := json.Unmarshal(data, &pending); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pending offer: %w", err)
	}
	return &pending, nil
}

// ClearPending removes the current offer.
func (s *Store) ClearPending(ctx context.Context, conversationID string) error {
	if err := s.client.Del(ctx, s.pendingKey(conversationID)).Err(); err != nil {
		return fmt.Errorf("failed to clear pending offer in redis: %w", err)
	}
	return nil
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}
