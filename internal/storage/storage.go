package storage

import (
	"context"
	"errors"
	"time"
)

var (
	ErrAccountExists   = errors.New("account already exists")
	ErrAccountNotFound = errors.New("account not found")
)

// Account is a registered user. Email is the lower-cased primary key.
type Account struct {
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password"`
	Food         []string  `json:"food,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Store persists accounts and their saved-food history.
// History operations follow set semantics: AppendHistory of a food already
// present and RemoveHistory of an absent food are no-ops. GetHistory of an
// unknown account returns an empty list.
// Implementations must be safe for concurrent use.
type Store interface {
	CreateAccount(ctx context.Context, acc Account) error
	// GetAccount returns ErrAccountNotFound for unknown emails.
	GetAccount(ctx context.Context, email string) (Account, error)

	GetHistory(ctx context.Context, email string) ([]string, error)
	// AppendHistory returns ErrAccountNotFound for unknown emails.
	AppendHistory(ctx context.Context, email, food string) error
	RemoveHistory(ctx context.Context, email, food string) error

	Close() error
}

// Event is a single issued recommendation.
// Events are appended in chronological order.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Session   string    `json:"session"`
	Anonymous bool      `json:"anonymous"`
	Location  string    `json:"location"`
	Food      string    `json:"food"`
}

// Recorder abstracts persistence of recommendation events.
// LoadEvents should return events in chronological order.
// AppendEvent should atomically append a new event.
// Implementations must be safe for concurrent use.
type Recorder interface {
	AppendEvent(event Event) error
	LoadEvents() ([]Event, error)
}
