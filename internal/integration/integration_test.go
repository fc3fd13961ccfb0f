package integration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"dota-picker-service/internal/app"
	"dota-picker-service/internal/content"
	"dota-picker-service/internal/domain"
	"dota-picker-service/internal/infra/postgres"
	pgmigrations "dota-picker-service/internal/infra/postgres/migrations"
	infraredis "dota-picker-service/internal/infra/redis"
	"dota-picker-service/internal/logger"
	"dota-picker-service/internal/metrics"
)

func TestQuizFlowEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	runMigrations(t, ctx, pgURL)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}

	store, err := content.Load()
	if err != nil {
		t.Fatalf("load content: %v", err)
	}

	repo := infraredis.NewResultCache(redisClient, postgres.NewResultRepository(pool), 5*time.Minute)
	tokens := infraredis.NewTokenStore(redisClient)
	service := app.NewPickerService(repo, store, logger.Nop(), metrics.New())

	token, err := tokens.Issue(ctx, 42, time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	userID, err := tokens.Resolve(ctx, token)
	if err != nil || userID != 42 {
		t.Fatalf("resolve token: user=%d err=%v", userID, err)
	}

	posAnswers := make([]int, len(store.PositionQuiz()))
	posRes, err := service.SubmitPositionQuiz(ctx, userID, posAnswers)
	if err != nil {
		t.Fatalf("submit position quiz: %v", err)
	}
	if posRes.Key == "" {
		t.Fatalf("degenerate position result: %+v", posRes)
	}

	heroQuestions, err := store.HeroQuiz(posRes.PositionIndex)
	if err != nil {
		t.Fatalf("hero quiz content: %v", err)
	}
	heroRes, err := service.SubmitHeroQuiz(ctx, userID, posRes.PositionIndex, make([]int, len(heroQuestions)), 3)
	if err != nil {
		t.Fatalf("submit hero quiz: %v", err)
	}
	if len(heroRes.TopHeroes) == 0 {
		t.Fatalf("no hero picks: %+v", heroRes)
	}

	// Both results come back from the persisted payload.
	results, ok, err := service.Results(ctx, userID)
	if err != nil || !ok {
		t.Fatalf("results: ok=%v err=%v", ok, err)
	}
	if results.PositionQuiz == nil || results.PositionQuiz.Key != posRes.Key {
		t.Fatalf("position result lost: %+v", results.PositionQuiz)
	}
	if _, ok := results.Hero(posRes.PositionIndex); !ok {
		t.Fatalf("hero result lost: %+v", results.HeroQuizByPosition)
	}

	// The payload survives a cache flush, proving Postgres holds it.
	if err := redisClient.FlushAll(ctx).Err(); err != nil {
		t.Fatalf("flush redis: %v", err)
	}
	results, ok, err = service.Results(ctx, userID)
	if err != nil || !ok {
		t.Fatalf("results after flush: ok=%v err=%v", ok, err)
	}
	if results.PositionQuiz == nil || results.PositionQuiz.Key != posRes.Key {
		t.Fatalf("position result not in postgres: %+v", results.PositionQuiz)
	}

	// Flushing redis also invalidates tokens; postgres-backed tokens do not.
	if _, err := tokens.Resolve(ctx, token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected token gone after flush, got %v", err)
	}
	pgTokens := postgres.NewTokenStore(pool)
	pgToken, err := pgTokens.Issue(ctx, 42, time.Hour)
	if err != nil {
		t.Fatalf("issue pg token: %v", err)
	}
	if userID, err := pgTokens.Resolve(ctx, pgToken); err != nil || userID != 42 {
		t.Fatalf("resolve pg token: user=%d err=%v", userID, err)
	}
}

func runMigrations(t *testing.T, ctx context.Context, dsn string) {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "picker", "POSTGRES_PASSWORD": "pickerpass", "POSTGRES_DB": "pickerdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://picker:pickerpass@%s:%s/pickerdb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
