package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"dota-picker-service/internal/domain"
	"dota-picker-service/internal/infra/memory"
)

type countingRepo struct {
	inner *memory.ResultRepository
	loads int
}

func (r *countingRepo) Load(ctx context.Context, userID int64) (domain.QuizResults, bool, error) {
	r.loads++
	return r.inner.Load(ctx, userID)
}

func (r *countingRepo) Save(ctx context.Context, userID int64, results domain.QuizResults) error {
	return r.inner.Save(ctx, userID, results)
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}

func TestResultCacheServesRepeatLoadsFromRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	repo := &countingRepo{inner: memory.NewResultRepository()}
	var stored domain.QuizResults
	stored.SetPosition(domain.PositionResult{Primary: domain.Pos1, Secondary: domain.Pos2, Key: "pos1_pos2"})
	if err := repo.inner.Save(context.Background(), 5, stored); err != nil {
		t.Fatalf("seed repo: %v", err)
	}

	cache := NewResultCache(newClient(mr), repo, time.Minute)
	ctx := context.Background()

	first, ok, err := cache.Load(ctx, 5)
	if err != nil || !ok {
		t.Fatalf("first load: ok=%v err=%v", ok, err)
	}
	if first.PositionQuiz.Key != "pos1_pos2" {
		t.Fatalf("unexpected payload: %+v", first.PositionQuiz)
	}
	if repo.loads != 1 {
		t.Fatalf("expected one backing load, got %d", repo.loads)
	}

	if _, ok, err := cache.Load(ctx, 5); err != nil || !ok {
		t.Fatalf("second load: ok=%v err=%v", ok, err)
	}
	if repo.loads != 1 {
		t.Fatalf("second load must hit the cache, backing loads = %d", repo.loads)
	}

	// After expiry the backing store is consulted again.
	mr.FastForward(2 * time.Minute)
	if _, _, err := cache.Load(ctx, 5); err != nil {
		t.Fatalf("load after expiry: %v", err)
	}
	if repo.loads != 2 {
		t.Fatalf("expected reload after expiry, backing loads = %d", repo.loads)
	}
}

func TestResultCacheWritesThrough(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	repo := &countingRepo{inner: memory.NewResultRepository()}
	cache := NewResultCache(newClient(mr), repo, time.Minute)
	ctx := context.Background()

	var results domain.QuizResults
	results.SetHero(domain.HeroResult{HeroPositionIndex: 3, Difficulty: domain.DifficultyHard})
	if err := cache.Save(ctx, 8, results); err != nil {
		t.Fatalf("save: %v", err)
	}

	// The backing store has the payload.
	persisted, ok, err := repo.inner.Load(ctx, 8)
	if err != nil || !ok {
		t.Fatalf("backing load: ok=%v err=%v", ok, err)
	}
	if _, ok := persisted.Hero(3); !ok {
		t.Fatalf("payload not written through: %+v", persisted)
	}

	// The cache was refreshed, so the next load never touches the store.
	if _, ok, err := cache.Load(ctx, 8); err != nil || !ok {
		t.Fatalf("cached load: ok=%v err=%v", ok, err)
	}
	if repo.loads != 0 {
		t.Fatalf("expected zero backing loads, got %d", repo.loads)
	}
}

func TestResultCacheDecodesLegacyCacheEntries(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	legacy := `{"type": "position_quiz", "position": "pos4", "extraPos": "pos5", "key": "pos4_pos5"}`
	if err := mr.Set("picker:results:11", legacy); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	repo := &countingRepo{inner: memory.NewResultRepository()}
	cache := NewResultCache(newClient(mr), repo, time.Minute)

	results, ok, err := cache.Load(context.Background(), 11)
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if results.PositionQuiz == nil || results.PositionQuiz.Key != "pos4_pos5" {
		t.Fatalf("legacy cache entry not adapted: %+v", results.PositionQuiz)
	}
	if repo.loads != 0 {
		t.Fatalf("cache hit must not touch the backing store, loads = %d", repo.loads)
	}
}

func TestTokenStoreExpiresWithKeyTTL(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewTokenStore(newClient(mr))
	ctx := context.Background()

	token, err := store.Issue(ctx, 42, time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if !mr.Exists("picker:token:" + token) {
		t.Fatal("token key missing in redis")
	}

	userID, err := store.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if userID != 42 {
		t.Fatalf("resolved wrong user: %d", userID)
	}

	mr.FastForward(2 * time.Minute)
	if _, err := store.Resolve(ctx, token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected expiry, got %v", err)
	}
}
