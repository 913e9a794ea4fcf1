// Package demousers is a throwaway in-memory user list used by the demo
// /api/users endpoint. Nothing is persisted.
package demousers

import (
	"context"
	"fmt"
	"strings"
	"sync"

	pkgerrors "github.com/angelmondragon/storefront-bff/pkg/errors"
)

type User struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

// Store keeps users in insertion order.
type Store struct {
	mu    sync.RWMutex
	users []User
}

func NewStore() *Store {
	return &Store{users: []User{}}
}

func (s *Store) List(ctx context.Context) []User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]User, len(s.users))
	copy(out, s.users)
	return out
}

// Add appends u unless the email is already taken, and returns the full list.
func (s *Store) Add(ctx context.Context, u User) ([]User, error) {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = strings.TrimSpace(u.Email)
	if u.Email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("Email '%s' is already exist", u.Email))
		}
	}
	s.users = append(s.users, u)
	out := make([]User, len(s.users))
	copy(out, s.users)
	return out, nil
}
