package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileStore keeps all accounts in one JSON document. Every mutation rewrites
// the file. Suitable for single-instance deployments and development.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure dir: %w", err)
	}
	// Touch file if not exists
	f, err := os.OpenFile(path, os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("touch file: %w", err)
	}
	_ = f.Close()
	return &FileStore{path: path}, nil
}

func (s *FileStore) CreateAccount(ctx context.Context, acc Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	accounts, err := s.loadUnlocked()
	if err != nil {
		return err
	}
	acc.Email = strings.ToLower(acc.Email)
	for _, a := range accounts {
		if a.Email == acc.Email {
			return ErrAccountExists
		}
	}
	return s.saveUnlocked(append(accounts, acc))
}

func (s *FileStore) GetAccount(ctx context.Context, email string) (Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	accounts, err := s.loadUnlocked()
	if err != nil {
		return Account{}, err
	}
	i := indexOf(accounts, email)
	if i < 0 {
		return Account{}, ErrAccountNotFound
	}
	return accounts[i], nil
}

func (s *FileStore) GetHistory(ctx context.Context, email string) ([]string, error) {
	acc, err := s.GetAccount(ctx, email)
	if errors.Is(err, ErrAccountNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	return append([]string{}, acc.Food...), nil
}

func (s *FileStore) AppendHistory(ctx context.Context, email, food string) error {
	return s.update(email, func(acc *Account) {
		for _, f := range acc.Food {
			if f == food {
				return
			}
		}
		acc.Food = append(acc.Food, food)
	})
}

func (s *FileStore) RemoveHistory(ctx context.Context, email, food string) error {
	return s.update(email, func(acc *Account) {
		out := acc.Food[:0]
		for _, f := range acc.Food {
			if f != food {
				out = append(out, f)
			}
		}
		acc.Food = out
	})
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) update(email string, fn func(acc *Account)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	accounts, err := s.loadUnlocked()
	if err != nil {
		return err
	}
	i := indexOf(accounts, email)
	if i < 0 {
		return ErrAccountNotFound
	}
	fn(&accounts[i])
	return s.saveUnlocked(accounts)
}

func indexOf(accounts []Account, email string) int {
	email = strings.ToLower(email)
	for i, a := range accounts {
		if a.Email == email {
			return i
		}
	}
	return -1
}

func (s *FileStore) loadUnlocked() ([]Account, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read accounts: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return []Account{}, nil
	}
	var accounts []Account
	if err := json.Unmarshal(data, &accounts); err != nil {
		return nil, fmt.Errorf("decode accounts: %w", err)
	}
	return accounts, nil
}

func (s *FileStore) saveUnlocked(accounts []Account) error {
	data, err := json.MarshalIndent(accounts, "", "  ")
	if err != nil {
		return fmt.Errorf("encode accounts: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write accounts: %w", err)
	}
	return os.Rename(tmp, s.path)
}
