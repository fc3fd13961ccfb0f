package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"dota-picker-service/internal/domain"
)

// TokenStore keeps access tokens in the tokens table. Expired rows are
// deleted lazily on resolve.
type TokenStore struct {
	pool *pgxpool.Pool
}

func NewTokenStore(pool *pgxpool.Pool) *TokenStore {
	return &TokenStore{pool: pool}
}

func (s *TokenStore) Issue(ctx context.Context, userID int64, ttl time.Duration) (string, error) {
	token, err := domain.NewToken()
	if err != nil {
		return "", err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO tokens (token, user_id, expires_at) VALUES ($1, $2, $3)
		 ON CONFLICT (token) DO UPDATE SET user_id=EXCLUDED.user_id, expires_at=EXCLUDED.expires_at`,
		token, userID, time.Now().Add(ttl))
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

func (s *TokenStore) Resolve(ctx context.Context, token string) (int64, error) {
	var userID int64
	var expiresAt time.Time
	err := s.pool.QueryRow(ctx,
		`SELECT user_id, expires_at FROM tokens WHERE token=$1`, token).
		Scan(&userID, &expiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, domain.ErrInvalidToken
	}
	if err != nil {
		return 0, fmt.Errorf("resolve token: %w", err)
	}
	if expiresAt.Before(time.Now()) {
		_, _ = s.pool.Exec(ctx, `DELETE FROM tokens WHERE token=$1`, token)
		return 0, domain.ErrInvalidToken
	}
	return userID, nil
}
