// Package auth registers and logs in accounts and issues access tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"whattoeat/internal/storage"
)

// ErrInvalidCredentials hides whether the email or the password was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

type AccountStore interface {
	CreateAccount(ctx context.Context, acc storage.Account) error
	GetAccount(ctx context.Context, email string) (storage.Account, error)
}

type Profile struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type Service struct {
	accounts AccountStore
	tokens   *JWTManager
	now      func() time.Time
}

func NewService(accounts AccountStore, tokens *JWTManager) *Service {
	return &Service{accounts: accounts, tokens: tokens, now: time.Now}
}

// Register returns storage.ErrAccountExists for a taken email.
func (s *Service) Register(ctx context.Context, req RegisterRequest) error {
	req.Email = normalizeEmail(req.Email)
	if err := Validate(req); err != nil {
		return err
	}
	hash, err := HashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.accounts.CreateAccount(ctx, storage.Account{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	})
}

// Login returns a signed token and the account profile.
func (s *Service) Login(ctx context.Context, req LoginRequest) (string, Profile, error) {
	req.Email = normalizeEmail(req.Email)
	if err := Validate(req); err != nil {
		return "", Profile{}, err
	}
	acc, err := s.accounts.GetAccount(ctx, req.Email)
	if errors.Is(err, storage.ErrAccountNotFound) {
		return "", Profile{}, ErrInvalidCredentials
	}
	if err != nil {
		return "", Profile{}, fmt.Errorf("load account: %w", err)
	}
	if !CheckPassword(acc.PasswordHash, req.Password) {
		return "", Profile{}, ErrInvalidCredentials
	}
	token, err := s.tokens.GenerateToken(acc.Email)
	if err != nil {
		return "", Profile{}, err
	}
	return token, Profile{Username: acc.Username, Email: acc.Email}, nil
}

// Profile returns storage.ErrAccountNotFound for unknown emails.
func (s *Service) Profile(ctx context.Context, email string) (Profile, error) {
	acc, err := s.accounts.GetAccount(ctx, normalizeEmail(email))
	if err != nil {
		return Profile{}, err
	}
	return Profile{Username: acc.Username, Email: acc.Email}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
