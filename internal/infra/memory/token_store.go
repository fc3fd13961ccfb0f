package memory

import (
	"context"
	"sync"
	"time"

	"dota-picker-service/internal/domain"
)

type tokenEntry struct {
	userID    int64
	expiresAt time.Time
}

// TokenStore is an in-memory implementation of app.TokenStore.
type TokenStore struct {
	mu     sync.Mutex
	tokens map[string]tokenEntry
	clock  func() time.Time
}

func NewTokenStore() *TokenStore {
	return NewTokenStoreWithClock(time.Now)
}

// NewTokenStoreWithClock allows deterministic expiry in tests.
func NewTokenStoreWithClock(clock func() time.Time) *TokenStore {
	return &TokenStore{tokens: make(map[string]tokenEntry), clock: clock}
}

func (s *TokenStore) Issue(_ context.Context, userID int64, ttl time.Duration) (string, error) {
	token, err := domain.NewToken()
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	s.tokens[token] = tokenEntry{userID: userID, expiresAt: s.clock().Add(ttl)}
	s.mu.Unlock()
	return token, nil
}

func (s *TokenStore) Resolve(_ context.Context, token string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.tokens[token]
	if !ok {
		return 0, domain.ErrInvalidToken
	}
	if entry.expiresAt.Before(s.clock()) {
		delete(s.tokens, token)
		return 0, domain.ErrInvalidToken
	}
	return entry.userID, nil
}
