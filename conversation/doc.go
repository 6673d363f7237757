// Package conversation orchestrates multi-turn research conversations.
//
// The orchestrator owns the transcript and the single piece of
// cross-turn state: a pending email-confirmation offer. Each incoming
// user turn is routed either to the people-search agent, to the email
// resolver (when a fresh offer is confirmed), or to a direct reply.
// A search and an email lookup never happen in the same turn.
//
// Transcripts and pending offers persist through a Store. The memory
// implementation lives in this package; Redis, SQLite and PostgreSQL
// backends live in subpackages.
package conversation
