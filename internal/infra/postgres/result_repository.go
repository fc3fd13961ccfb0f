package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"dota-picker-service/internal/domain"
)

// ResultRepository stores the per-user payload as JSONB in quiz_results.
type ResultRepository struct {
	pool *pgxpool.Pool
}

func NewResultRepository(pool *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{pool: pool}
}

func (r *ResultRepository) Load(ctx context.Context, userID int64) (domain.QuizResults, bool, error) {
	var raw []byte
	err := r.pool.QueryRow(ctx,
		`SELECT result FROM quiz_results WHERE user_id=$1`, userID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.QuizResults{}, false, nil
	}
	if err != nil {
		return domain.QuizResults{}, false, fmt.Errorf("load results: %w", err)
	}
	results, err := domain.DecodeResults(raw)
	if err != nil {
		return domain.QuizResults{}, false, fmt.Errorf("decode results: %w", err)
	}
	return results, true, nil
}

func (r *ResultRepository) Save(ctx context.Context, userID int64, results domain.QuizResults) error {
	raw, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO quiz_results (user_id, result, updated_at) VALUES ($1, $2, now())
		 ON CONFLICT (user_id) DO UPDATE SET result=EXCLUDED.result, updated_at=now()`,
		userID, raw)
	if err != nil {
		return fmt.Errorf("save results: %w", err)
	}
	return nil
}
