package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens dsn and applies migrations.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// In-memory databases are per connection.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS accounts (
			email TEXT PRIMARY KEY,
			username TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS food_history (
			email TEXT NOT NULL,
			food TEXT NOT NULL,
			saved_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (email, food),
			FOREIGN KEY (email) REFERENCES accounts(email) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_food_history_email ON food_history(email, saved_at)`,
	}
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateAccount(ctx context.Context, acc Account) error {
	createdAt := acc.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO accounts (email, username, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		strings.ToLower(acc.Email), acc.Username, acc.PasswordHash, createdAt)
	if isConstraint(err) {
		return ErrAccountExists
	}
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetAccount(ctx context.Context, email string) (Account, error) {
	var acc Account
	err := s.db.QueryRowContext(ctx,
		`SELECT email, username, password_hash, created_at FROM accounts WHERE email = ?`,
		strings.ToLower(email)).Scan(&acc.Email, &acc.Username, &acc.PasswordHash, &acc.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Account{}, ErrAccountNotFound
	}
	if err != nil {
		return Account{}, fmt.Errorf("query account: %w", err)
	}
	return acc, nil
}

func (s *SQLiteStore) GetHistory(ctx context.Context, email string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT food FROM food_history WHERE email = ? ORDER BY saved_at, rowid`,
		strings.ToLower(email))
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	foods := []string{}
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		foods = append(foods, f)
	}
	return foods, rows.Err()
}

func (s *SQLiteStore) AppendHistory(ctx context.Context, email, food string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO food_history (email, food) VALUES (?, ?) ON CONFLICT(email, food) DO NOTHING`,
		strings.ToLower(email), food)
	if isConstraint(err) {
		// only the foreign key can fail here
		return ErrAccountNotFound
	}
	if err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

func (s *SQLiteStore) RemoveHistory(ctx context.Context, email, food string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM food_history WHERE email = ? AND food = ?`,
		strings.ToLower(email), food)
	if err != nil {
		return fmt.Errorf("remove history: %w", err)
	}
	return nil
}

func isConstraint(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint
}
