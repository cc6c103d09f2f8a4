package chat

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
)

func TestPostgresAppendPairIsTransactional(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO chat_sessions`).
		WithArgs("session_1", "jane@example.com").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO chat_messages`).
		WithArgs(pgxmock.AnyArg(), "session_1", "user", "hi",
			pgxmock.AnyArg(), "assistant", "hello").
		WillReturnResult(pgxmock.NewResult("INSERT", 2))
	mock.ExpectCommit()

	store := NewPostgresSessionStoreWithDB(mock)
	if err := store.AppendPair(context.Background(), "session_1", "Jane@Example.com", "hi", "hello"); err != nil {
		t.Fatalf("AppendPair returned error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

// Both rows of a turn carry the same created_at (one transaction, one
// now()), so History must sort by the insertion sequence, never by id.
func TestPostgresHistoryOrdersBySequence(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	now := time.Now().UTC()
	rows := pgxmock.NewRows([]string{"role", "content", "created_at"}).
		AddRow("user", "hi", now).
		AddRow("assistant", "hello", now)
	mock.ExpectQuery(`ORDER BY seq`).
		WithArgs("session_1").
		WillReturnRows(rows)

	store := NewPostgresSessionStoreWithDB(mock)
	messages, err := store.History(context.Background(), "session_1")
	if err != nil {
		t.Fatalf("History returned error: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("len(messages) = %d, want 2", len(messages))
	}
	if messages[0].Role != "user" || messages[1].Role != "assistant" {
		t.Errorf("messages = %+v", messages)
	}
	if !messages[0].Timestamp.Equal(messages[1].Timestamp) {
		t.Errorf("pair timestamps differ: %v vs %v", messages[0].Timestamp, messages[1].Timestamp)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresLatestForEmailNone(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT session_id`).
		WithArgs("ghost@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"session_id"}))

	store := NewPostgresSessionStoreWithDB(mock)
	tr, err := store.LatestForEmail(context.Background(), "ghost@example.com")
	if err != nil {
		t.Fatalf("LatestForEmail returned error: %v", err)
	}
	if tr != nil {
		t.Errorf("transcript = %+v, want nil", tr)
	}
}
