package store

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func createTestUser(t *testing.T, s *SQLiteStore, username string) *User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), username, username+"@example.com", "hash", false)
	require.NoError(t, err)
	return u
}

func TestFAQRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.CreateFAQ(ctx, "library hours", "The library opens at 8 AM.")
	require.NoError(t, err)

	got, err := s.GetFAQ(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "library hours", got.Question)
	assert.Equal(t, "The library opens at 8 AM.", got.Answer)

	require.NoError(t, s.UpdateFAQ(ctx, id, "library timing", "The library opens at 9 AM."))
	got, err = s.GetFAQ(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "library timing", got.Question)
	assert.Equal(t, "The library opens at 9 AM.", got.Answer)

	require.NoError(t, s.DeleteFAQ(ctx, id))
	_, err = s.GetFAQ(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFAQMissingIDReportsNotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	assert.ErrorIs(t, s.UpdateFAQ(ctx, 42, "q", "a"), ErrNotFound)
	assert.ErrorIs(t, s.DeleteFAQ(ctx, 42), ErrNotFound)
	_, err := s.GetFAQ(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListFAQsAscendingAndStable(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, q := range []string{"fee", "fee", ""} {
		_, err := s.CreateFAQ(ctx, q, "answer for "+q)
		require.NoError(t, err)
	}

	first, err := s.ListFAQs(ctx)
	require.NoError(t, err)
	require.Len(t, first, 3)
	for i := 1; i < len(first); i++ {
		assert.Less(t, first[i-1].ID, first[i].ID)
	}

	second, err := s.ListFAQs(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestListFAQsEmpty(t *testing.T) {
	s := newTestStore(t)
	faqs, err := s.ListFAQs(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, faqs)
	assert.Empty(t, faqs)
}

func TestCreateUserConflict(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.CreateUser(ctx, "asha", "asha@example.com", "hash", false)
	require.NoError(t, err)

	_, err = s.CreateUser(ctx, "asha", "other@example.com", "hash", false)
	assert.ErrorIs(t, err, ErrConflict)

	_, err = s.CreateUser(ctx, "ravi", "asha@example.com", "hash", false)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestGetUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateUser(ctx, "admin", "admin@bbc.edu.in", "hash", true)
	require.NoError(t, err)

	byName, err := s.GetUserByUsername(ctx, "admin")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, created.ID, byName.ID)
	assert.True(t, byName.IsAdmin)

	byID, err := s.GetUserByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "admin@bbc.edu.in", byID.Email)

	missing, err := s.GetUserByUsername(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestChatHistoryOrdering(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	user := createTestUser(t, s, "meera")
	other := createTestUser(t, s, "kiran")

	senders := []string{SenderUser, SenderAI, SenderUser, SenderAI}
	for i, sender := range senders {
		_, err := s.AppendChatMessage(ctx, user.ID, sender, string(rune('a'+i)))
		require.NoError(t, err)
	}
	_, err := s.AppendChatMessage(ctx, other.ID, SenderUser, "not mine")
	require.NoError(t, err)

	history, err := s.ChatHistory(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, history, 4)
	for i, rec := range history {
		assert.Equal(t, senders[i], rec.Sender)
		assert.Equal(t, string(rune('a'+i)), rec.Message)
		if i > 0 {
			assert.False(t, rec.Timestamp.Before(history[i-1].Timestamp))
		}
	}
}

func TestChatHistoryClampsBackwardsClock(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	user := createTestUser(t, s, "dev")

	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }
	_, err := s.AppendChatMessage(ctx, user.ID, SenderUser, "first")
	require.NoError(t, err)

	s.now = func() time.Time { return base.Add(-time.Hour) }
	rec, err := s.AppendChatMessage(ctx, user.ID, SenderAI, "second")
	require.NoError(t, err)
	assert.True(t, rec.Timestamp.Equal(base))

	history, err := s.ChatHistory(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "first", history[0].Message)
	assert.Equal(t, "second", history[1].Message)
}

func TestRecordExchange(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	user := createTestUser(t, s, "neha")

	require.NoError(t, s.RecordExchange(ctx, user.ID, "hello", "Hello! Welcome."))

	history, err := s.ChatHistory(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, SenderUser, history[0].Sender)
	assert.Equal(t, "hello", history[0].Message)
	assert.Equal(t, SenderAI, history[1].Sender)
	assert.Equal(t, "Hello! Welcome.", history[1].Message)
}

func TestAppendRejectsUnknownSender(t *testing.T) {
	s := newTestStore(t)
	user := createTestUser(t, s, "sam")

	_, err := s.AppendChatMessage(context.Background(), user.ID, "model", "hi")
	assert.Error(t, err)
}

func TestSeedIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	admin := AdminSeed{Username: "admin", Email: "admin@bbc.edu.in", PasswordHash: "hash"}

	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	require.NoError(t, s.Seed(ctx, admin, logger))
	require.NoError(t, s.Seed(ctx, admin, logger))

	faqs, err := s.ListFAQs(ctx)
	require.NoError(t, err)
	require.Len(t, faqs, len(DefaultFAQs))
	assert.Equal(t, DefaultFAQs[0].Question, faqs[0].Question)
	assert.Equal(t, DefaultFAQs[9].Answer, faqs[9].Answer)

	u, err := s.GetUserByUsername(ctx, "admin")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.True(t, u.IsAdmin)

	assert.Equal(t, 1, strings.Count(logs.String(), `"msg":"seeded admin user"`))
	assert.Equal(t, 1, strings.Count(logs.String(), `"msg":"seeded default faqs"`))
}

func TestSeedKeepsExistingFAQs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.CreateFAQ(ctx, "custom", "custom answer")
	require.NoError(t, err)
	require.NoError(t, s.Seed(ctx, AdminSeed{Username: "admin", Email: "admin@bbc.edu.in", PasswordHash: "hash"}, nil))

	faqs, err := s.ListFAQs(ctx)
	require.NoError(t, err)
	require.Len(t, faqs, 1)
	assert.Equal(t, "custom", faqs[0].Question)
}

func TestListFAQsQueryFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, question, answer FROM faqs ORDER BY id ASC")).
		WillReturnError(errors.New("disk I/O error"))

	s := NewSQLiteStoreFromDB(db)
	_, err = s.ListFAQs(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk I/O error")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateFAQNoRowsViaMock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE faqs SET question = ?, answer = ? WHERE id = ?")).
		WithArgs("q", "a", int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	s := NewSQLiteStoreFromDB(db)
	err = s.UpdateFAQ(context.Background(), 7, "q", "a")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUserMapsConstraintError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique})

	s := NewSQLiteStoreFromDB(db)
	_, err = s.CreateUser(context.Background(), "asha", "asha@example.com", "hash", false)
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}
