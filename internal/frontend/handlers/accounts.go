package handlers

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cory-johannsen/mudtrix/internal/storage/postgres"
)

// MemoryAccounts is an AccountStore kept in process memory. It backs servers
// started without a database; accounts vanish on restart.
type MemoryAccounts struct {
	mu       sync.Mutex
	nextID   int64
	accounts map[string]postgres.Account
}

// NewMemoryAccounts returns an empty MemoryAccounts.
func NewMemoryAccounts() *MemoryAccounts {
	return &MemoryAccounts{accounts: make(map[string]postgres.Account)}
}

// Create registers username with a bcrypt-hashed password and the player role.
//
// Postcondition: Returns postgres.ErrAccountExists if the username is taken,
// ignoring case.
func (m *MemoryAccounts) Create(_ context.Context, username, password string) (postgres.Account, error) {
	hash, err := postgres.HashPassword(password)
	if err != nil {
		return postgres.Account{}, fmt.Errorf("hashing password: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	key := strings.ToLower(username)
	if _, taken := m.accounts[key]; taken {
		return postgres.Account{}, postgres.ErrAccountExists
	}
	m.nextID++
	acct := postgres.Account{
		ID:           m.nextID,
		UID:          uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		Role:         postgres.RolePlayer,
		CreatedAt:    time.Now(),
	}
	m.accounts[key] = acct
	return acct, nil
}

// Authenticate verifies credentials the same way the database repository does.
func (m *MemoryAccounts) Authenticate(_ context.Context, username, password string) (postgres.Account, error) {
	m.mu.Lock()
	acct, ok := m.accounts[strings.ToLower(username)]
	m.mu.Unlock()
	if !ok {
		return postgres.Account{}, postgres.ErrAccountNotFound
	}
	if !postgres.CheckPassword(password, acct.PasswordHash) {
		return postgres.Account{}, postgres.ErrInvalidCredentials
	}
	return acct, nil
}

// SetRole changes the role of username.
//
// Postcondition: Returns postgres.ErrInvalidRole or postgres.ErrAccountNotFound
// on failure.
func (m *MemoryAccounts) SetRole(username, role string) error {
	if !postgres.ValidRole(role) {
		return postgres.ErrInvalidRole
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := strings.ToLower(username)
	acct, ok := m.accounts[key]
	if !ok {
		return postgres.ErrAccountNotFound
	}
	acct.Role = role
	m.accounts[key] = acct
	return nil
}
