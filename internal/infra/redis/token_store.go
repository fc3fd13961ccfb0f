package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"dota-picker-service/internal/domain"
)

// TokenStore keeps access tokens in Redis with their TTL enforced by key
// expiry: SET picker:token:<token> <userID> EX <ttl>.
type TokenStore struct {
	client *redis.Client
}

func NewTokenStore(client *redis.Client) *TokenStore {
	return &TokenStore{client: client}
}

func (s *TokenStore) Issue(ctx context.Context, userID int64, ttl time.Duration) (string, error) {
	token, err := domain.NewToken()
	if err != nil {
		return "", err
	}
	if err := s.client.Set(ctx, s.key(token), userID, ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

func (s *TokenStore) Resolve(ctx context.Context, token string) (int64, error) {
	raw, err := s.client.Get(ctx, s.key(token)).Result()
	if err == redis.Nil {
		return 0, domain.ErrInvalidToken
	}
	if err != nil {
		return 0, err
	}
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, domain.ErrInvalidToken
	}
	return userID, nil
}

func (s *TokenStore) key(token string) string {
	return "picker:token:" + token
}
