package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3" // SQLite driver
)

type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps ":memory:" databases coherent and serialises writers.
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := NewSQLiteStoreFromDB(db)
	if err = store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

// NewSQLiteStoreFromDB wraps an already opened handle without touching the schema.
func NewSQLiteStoreFromDB(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db, now: time.Now}
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
    PRAGMA foreign_keys = ON;

    CREATE TABLE IF NOT EXISTS users (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        username TEXT UNIQUE NOT NULL,
        email TEXT UNIQUE NOT NULL,
        password TEXT NOT NULL,
        is_admin BOOLEAN DEFAULT FALSE
    );

    CREATE TABLE IF NOT EXISTS chat_history (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        user_id INTEGER NOT NULL,
        sender TEXT NOT NULL CHECK (sender IN ('user', 'ai')),
        message TEXT NOT NULL,
        timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
        FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE
    );

    CREATE INDEX IF NOT EXISTS idx_chat_history_user ON chat_history (user_id, timestamp, id);

    CREATE TABLE IF NOT EXISTS faqs (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        question TEXT NOT NULL,
        answer TEXT NOT NULL
    );
    `
	_, err := s.db.Exec(schema)
	return err
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrConstraint &&
			(sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique || sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey)
	}
	return false
}

// User methods

// CreateUser inserts a user. Duplicate usernames or emails yield ErrConflict.
func (s *SQLiteStore) CreateUser(ctx context.Context, username, email, passwordHash string, isAdmin bool) (*User, error) {
	res, err := s.db.ExecContext(ctx, "INSERT INTO users (username, email, password, is_admin) VALUES (?, ?, ?, ?)", username, email, passwordHash, isAdmin)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("user %q: %w", username, ErrConflict)
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read user id: %w", err)
	}
	return &User{ID: id, Username: username, Email: email, PasswordHash: passwordHash, IsAdmin: isAdmin}, nil
}

// GetUserByUsername returns nil, nil when no such user exists.
func (s *SQLiteStore) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	err := s.db.QueryRowContext(ctx, "SELECT id, username, email, password, is_admin FROM users WHERE username = ?", username).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.IsAdmin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // User not found
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &user, nil
}

// GetUserByID returns nil, nil when no such user exists.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id int64) (*User, error) {
	var user User
	err := s.db.QueryRowContext(ctx, "SELECT id, username, email, password, is_admin FROM users WHERE id = ?", id).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.IsAdmin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return &user, nil
}

// FAQ methods

// ListFAQs returns every FAQ in ascending id order, which is also match priority.
func (s *SQLiteStore) ListFAQs(ctx context.Context) ([]FAQ, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, question, answer FROM faqs ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query faqs: %w", err)
	}
	defer rows.Close()

	faqs := []FAQ{}
	for rows.Next() {
		var faq FAQ
		if err := rows.Scan(&faq.ID, &faq.Question, &faq.Answer); err != nil {
			return nil, fmt.Errorf("failed to scan faq row: %w", err)
		}
		faqs = append(faqs, faq)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate faqs: %w", err)
	}
	return faqs, nil
}

func (s *SQLiteStore) GetFAQ(ctx context.Context, id int64) (*FAQ, error) {
	var faq FAQ
	err := s.db.QueryRowContext(ctx, "SELECT id, question, answer FROM faqs WHERE id = ?", id).
		Scan(&faq.ID, &faq.Question, &faq.Answer)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("faq %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get faq: %w", err)
	}
	return &faq, nil
}

func (s *SQLiteStore) CreateFAQ(ctx context.Context, question, answer string) (int64, error) {
	res, err := s.db.ExecContext(ctx, "INSERT INTO faqs (question, answer) VALUES (?, ?)", question, answer)
	if err != nil {
		return 0, fmt.Errorf("failed to insert faq: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read faq id: %w", err)
	}
	return id, nil
}

func (s *SQLiteStore) UpdateFAQ(ctx context.Context, id int64, question, answer string) error {
	res, err := s.db.ExecContext(ctx, "UPDATE faqs SET question = ?, answer = ? WHERE id = ?", question, answer, id)
	if err != nil {
		return fmt.Errorf("failed to update faq: %w", err)
	}
	return expectOneRow(res, id)
}

func (s *SQLiteStore) DeleteFAQ(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM faqs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete faq: %w", err)
	}
	return expectOneRow(res, id)
}

func expectOneRow(res sql.Result, id int64) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("faq %d: %w", id, ErrNotFound)
	}
	return nil
}

// Chat history methods

// AppendChatMessage stores one message with a server-assigned timestamp.
func (s *SQLiteStore) AppendChatMessage(ctx context.Context, userID int64, sender, message string) (*ChatRecord, error) {
	var record *ChatRecord
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		record, err = s.appendChatMessage(ctx, tx, userID, sender, message)
		return err
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// RecordExchange stores a user message and its reply as one unit.
func (s *SQLiteStore) RecordExchange(ctx context.Context, userID int64, userMessage, reply string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := s.appendChatMessage(ctx, tx, userID, SenderUser, userMessage); err != nil {
			return err
		}
		_, err := s.appendChatMessage(ctx, tx, userID, SenderAI, reply)
		return err
	})
}

func (s *SQLiteStore) appendChatMessage(ctx context.Context, tx *sql.Tx, userID int64, sender, message string) (*ChatRecord, error) {
	if sender != SenderUser && sender != SenderAI {
		return nil, fmt.Errorf("invalid sender %q", sender)
	}

	ts := s.now().UTC()
	var last time.Time
	err := tx.QueryRowContext(ctx, "SELECT timestamp FROM chat_history WHERE user_id = ? ORDER BY timestamp DESC, id DESC LIMIT 1", userID).Scan(&last)
	switch {
	case err == nil:
		// Clock steps backwards must not reorder a user's history.
		if ts.Before(last) {
			ts = last.UTC()
		}
	case errors.Is(err, sql.ErrNoRows):
	default:
		return nil, fmt.Errorf("failed to read last chat timestamp: %w", err)
	}

	res, err := tx.ExecContext(ctx, "INSERT INTO chat_history (user_id, sender, message, timestamp) VALUES (?, ?, ?, ?)", userID, sender, message, ts)
	if err != nil {
		return nil, fmt.Errorf("failed to insert chat message: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read chat message id: %w", err)
	}
	return &ChatRecord{ID: id, UserID: userID, Sender: sender, Message: message, Timestamp: ts}, nil
}

// ChatHistory returns a user's messages oldest first.
func (s *SQLiteStore) ChatHistory(ctx context.Context, userID int64) ([]ChatRecord, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, user_id, sender, message, timestamp FROM chat_history WHERE user_id = ? ORDER BY timestamp ASC, id ASC", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat history: %w", err)
	}
	defer rows.Close()

	records := []ChatRecord{}
	for rows.Next() {
		var rec ChatRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Sender, &rec.Message, &rec.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan chat history row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate chat history: %w", err)
	}
	return records, nil
}

func (s *SQLiteStore) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
