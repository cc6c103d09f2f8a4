package chat

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/brightsmile/clinic-platform/internal/users"
)

var transcriptTracer = otel.Tracer("clinic.internal.chat.transcript")

// Message is a single transcript entry.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Transcript is a session's ordered message list.
type Transcript struct {
	SessionID string    `json:"session_id"`
	UserEmail string    `json:"user_email,omitempty"`
	Messages  []Message `json:"messages"`
}

// SessionStore persists chat transcripts. Appends are pairwise: every turn
// records exactly one user message followed by one assistant message.
type SessionStore interface {
	AppendPair(ctx context.Context, sessionID, userEmail, userMsg, assistantMsg string) error
	History(ctx context.Context, sessionID string) ([]Message, error)
	// LatestForEmail returns the most recently updated transcript for an
	// email, or nil when the user has no sessions.
	LatestForEmail(ctx context.Context, email string) (*Transcript, error)
}

// SessionDB is the subset of pgxpool.Pool the store needs. pgxmock satisfies
// it in tests.
type SessionDB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresSessionStore stores transcripts in the relational database.
type PostgresSessionStore struct {
	db SessionDB
}

// NewPostgresSessionStore initializes a store backed by pgxpool.
func NewPostgresSessionStore(pool *pgxpool.Pool) *PostgresSessionStore {
	if pool == nil {
		panic("chat: pgx pool required")
	}
	return &PostgresSessionStore{db: pool}
}

// NewPostgresSessionStoreWithDB allows injecting mocks for tests.
func NewPostgresSessionStoreWithDB(db SessionDB) *PostgresSessionStore {
	return &PostgresSessionStore{db: db}
}

// AppendPair upserts the session row and appends the turn's two messages in
// one transaction, so a transcript never records a partial pair.
func (s *PostgresSessionStore) AppendPair(ctx context.Context, sessionID, userEmail, userMsg, assistantMsg string) error {
	ctx, span := transcriptTracer.Start(ctx, "transcript.append_pair")
	defer span.End()
	span.SetAttributes(attribute.String("session.id", sessionID))

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("chat: begin append: %w", err)
	}
	defer tx.Rollback(ctx)

	upsert := `
		INSERT INTO chat_sessions (session_id, user_email)
		VALUES ($1, NULLIF($2, ''))
		ON CONFLICT (session_id) DO UPDATE
		SET user_email = COALESCE(NULLIF($2, ''), chat_sessions.user_email),
		    updated_at = now()
	`
	if _, err := tx.Exec(ctx, upsert, sessionID, users.NormalizeEmail(userEmail)); err != nil {
		return fmt.Errorf("chat: upsert session: %w", err)
	}

	// The seq default (BIGSERIAL) is drawn per row in VALUES order, so the
	// user row always sorts before the assistant row even though both share
	// the transaction's now() timestamp.
	insert := `
		INSERT INTO chat_messages (id, session_id, role, content)
		VALUES ($1, $2, $3, $4), ($5, $2, $6, $7)
	`
	if _, err := tx.Exec(ctx, insert,
		uuid.New(), sessionID, "user", userMsg,
		uuid.New(), "assistant", assistantMsg,
	); err != nil {
		return fmt.Errorf("chat: append messages: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("chat: commit append: %w", err)
	}
	return nil
}

// History returns a session's messages in insertion order.
func (s *PostgresSessionStore) History(ctx context.Context, sessionID string) ([]Message, error) {
	ctx, span := transcriptTracer.Start(ctx, "transcript.history")
	defer span.End()
	span.SetAttributes(attribute.String("session.id", sessionID))

	query := `
		SELECT role, content, created_at
		FROM chat_messages
		WHERE session_id = $1
		ORDER BY seq
	`
	return s.queryMessages(ctx, query, sessionID)
}

// LatestForEmail fetches the most recently updated session for an email.
func (s *PostgresSessionStore) LatestForEmail(ctx context.Context, email string) (*Transcript, error) {
	ctx, span := transcriptTracer.Start(ctx, "transcript.latest_for_email")
	defer span.End()

	var sessionID string
	query := `
		SELECT session_id
		FROM chat_sessions
		WHERE user_email = $1
		ORDER BY updated_at DESC
		LIMIT 1
	`
	err := s.db.QueryRow(ctx, query, users.NormalizeEmail(email)).Scan(&sessionID)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("chat: latest session lookup: %w", err)
	}

	messages, err := s.History(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &Transcript{
		SessionID: sessionID,
		UserEmail: users.NormalizeEmail(email),
		Messages:  messages,
	}, nil
}

// DeleteOlderThan purges sessions idle longer than the retention window and
// their messages. Returns the number of sessions removed.
func (s *PostgresSessionStore) DeleteOlderThan(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-retention)

	if _, err := s.db.Exec(ctx, `
		DELETE FROM chat_messages
		WHERE session_id IN (SELECT session_id FROM chat_sessions WHERE updated_at < $1)
	`, cutoff); err != nil {
		return 0, fmt.Errorf("chat: purge messages: %w", err)
	}

	tag, err := s.db.Exec(ctx, `DELETE FROM chat_sessions WHERE updated_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("chat: purge sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (s *PostgresSessionStore) queryMessages(ctx context.Context, query string, args ...any) ([]Message, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("chat: select messages: %w", err)
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.Role, &m.Content, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("chat: scan message: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("chat: rows failed: %w", err)
	}
	return out, nil
}

// InMemorySessionStore keeps transcripts in memory for tests.
type InMemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Transcript
	updated  map[string]time.Time
}

// NewInMemorySessionStore creates a new in-memory store.
func NewInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{
		sessions: make(map[string]*Transcript),
		updated:  make(map[string]time.Time),
	}
}

// AppendPair records a turn's user and assistant messages.
func (s *InMemorySessionStore) AppendPair(ctx context.Context, sessionID, userEmail, userMsg, assistantMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tr, ok := s.sessions[sessionID]
	if !ok {
		tr = &Transcript{SessionID: sessionID}
		s.sessions[sessionID] = tr
	}
	if userEmail != "" {
		tr.UserEmail = users.NormalizeEmail(userEmail)
	}
	now := time.Now().UTC()
	tr.Messages = append(tr.Messages,
		Message{Role: "user", Content: userMsg, Timestamp: now},
		Message{Role: "assistant", Content: assistantMsg, Timestamp: now},
	)
	s.updated[sessionID] = now
	return nil
}

// History returns a session's messages.
func (s *InMemorySessionStore) History(ctx context.Context, sessionID string) ([]Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tr, ok := s.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	out := make([]Message, len(tr.Messages))
	copy(out, tr.Messages)
	return out, nil
}

// LatestForEmail returns the most recently updated transcript for an email.
func (s *InMemorySessionStore) LatestForEmail(ctx context.Context, email string) (*Transcript, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	email = users.NormalizeEmail(email)
	var (
		best     *Transcript
		bestTime time.Time
	)
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		tr := s.sessions[id]
		if tr.UserEmail != email {
			continue
		}
		if at := s.updated[id]; best == nil || at.After(bestTime) {
			best = tr
			bestTime = at
		}
	}
	if best == nil {
		return nil, nil
	}
	out := *best
	out.Messages = make([]Message, len(best.Messages))
	copy(out.Messages, best.Messages)
	return &out, nil
}
