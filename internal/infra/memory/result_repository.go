package memory

import (
	"context"
	"sync"

	"dota-picker-service/internal/domain"
)

// ResultRepository is an in-memory implementation of app.ResultRepository,
// used for tests and for running without external services.
type ResultRepository struct {
	mu      sync.RWMutex
	results map[int64]domain.QuizResults
}

func NewResultRepository() *ResultRepository {
	return &ResultRepository{results: make(map[int64]domain.QuizResults)}
}

func (r *ResultRepository) Load(_ context.Context, userID int64) (domain.QuizResults, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	results, ok := r.results[userID]
	if !ok {
		return domain.QuizResults{}, false, nil
	}
	return copyResults(results), true, nil
}

func (r *ResultRepository) Save(_ context.Context, userID int64, results domain.QuizResults) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results[userID] = copyResults(results)
	return nil
}

// copyResults detaches the hero map so callers cannot mutate stored state.
func copyResults(in domain.QuizResults) domain.QuizResults {
	out := in
	if in.HeroQuizByPosition != nil {
		out.HeroQuizByPosition = make(map[string]*domain.HeroResult, len(in.HeroQuizByPosition))
		for k, v := range in.HeroQuizByPosition {
			res := *v
			out.HeroQuizByPosition[k] = &res
		}
	}
	return out
}
