package app

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"dota-picker-service/internal/content"
	"dota-picker-service/internal/domain"
	"dota-picker-service/internal/metrics"
	"dota-picker-service/internal/scoring"
)

// ResultRepository abstracts how per-user quiz results are stored
// (in-memory, Postgres, Redis-cached). Load returns ok=false when the user
// has no stored result; that is an expected steady state, not an error.
type ResultRepository interface {
	Load(ctx context.Context, userID int64) (domain.QuizResults, bool, error)
	Save(ctx context.Context, userID int64, results domain.QuizResults) error
}

// TokenStore maps opaque access tokens to user identities. The scoring
// core never sees tokens; transport resolves them first.
type TokenStore interface {
	Issue(ctx context.Context, userID int64, ttl time.Duration) (string, error)
	Resolve(ctx context.Context, token string) (int64, error)
}

// PickerService contains the quiz use cases.
type PickerService struct {
	results ResultRepository
	content *content.Store
	log     *zap.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewPickerService(results ResultRepository, store *content.Store, log *zap.Logger, m *metrics.Metrics) *PickerService {
	return &PickerService{results: results, content: store, log: log, metrics: m, now: time.Now}
}

// NewPickerServiceWithClock is test-only for deterministic timestamps.
func NewPickerServiceWithClock(results ResultRepository, store *content.Store, log *zap.Logger, m *metrics.Metrics, now func() time.Time) *PickerService {
	return &PickerService{results: results, content: store, log: log, metrics: m, now: now}
}

// Content exposes the static content collaborator for transport handlers.
func (s *PickerService) Content() *content.Store {
	return s.content
}

// SubmitPositionQuiz scores a completed position quiz and persists the
// result, overwriting any previous position result.
func (s *PickerService) SubmitPositionQuiz(ctx context.Context, userID int64, answers []int) (domain.PositionResult, error) {
	outcome, err := scoring.ScorePositions(s.content.PositionQuiz(), answers)
	if err != nil {
		return domain.PositionResult{}, err
	}

	desc, ok := s.content.PairDescription(outcome.Key())
	if !ok {
		// Validate rules this out at startup; reaching it means the
		// content shipped incomplete.
		return domain.PositionResult{}, fmt.Errorf("no description for key %q", outcome.Key())
	}

	res := domain.PositionResult{
		Type:          domain.ResultTypePosition,
		Primary:       outcome.Primary,
		Secondary:     outcome.Secondary,
		PositionIndex: outcome.Primary.Index(),
		Label:         s.content.Label(outcome.Primary),
		Key:           outcome.Key(),
		Description:   desc,
		CreatedAt:     s.now(),
	}

	if err := s.merge(ctx, userID, func(r *domain.QuizResults) {
		r.SetPosition(res)
	}); err != nil {
		return domain.PositionResult{}, err
	}

	s.metrics.PositionQuizzes.Inc()
	s.log.Info("position quiz completed",
		zap.Int64("user_id", userID),
		zap.String("key", res.Key))
	return res, nil
}

// SubmitHeroQuiz scores a completed hero quiz for one position and persists
// it into that position's slot; results for other positions are retained.
func (s *PickerService) SubmitHeroQuiz(ctx context.Context, userID int64, positionIndex int, answers []int, topN int) (domain.HeroResult, error) {
	questions, err := s.content.HeroQuiz(positionIndex)
	if err != nil {
		return domain.HeroResult{}, err
	}
	catalog, err := s.content.Catalog(positionIndex)
	if err != nil {
		return domain.HeroResult{}, err
	}

	outcome, err := scoring.ScoreHeroes(catalog, questions, answers, topN)
	if err != nil {
		return domain.HeroResult{}, err
	}

	res := domain.HeroResult{
		Type:              domain.ResultTypeHero,
		HeroPositionIndex: positionIndex,
		TopHeroes:         outcome.Picks,
		Difficulty:        outcome.Difficulty,
		Summary:           scoring.Summarize(outcome.Tags, s.content.Phrases()),
		CreatedAt:         s.now(),
	}

	if err := s.merge(ctx, userID, func(r *domain.QuizResults) {
		r.SetHero(res)
	}); err != nil {
		return domain.HeroResult{}, err
	}

	pos, _ := domain.PositionFromIndex(positionIndex)
	s.metrics.HeroQuizzes.WithLabelValues(string(pos)).Inc()
	s.log.Info("hero quiz completed",
		zap.Int64("user_id", userID),
		zap.Int("position_index", positionIndex),
		zap.Int("picks", len(res.TopHeroes)))
	return res, nil
}

// Results returns the stored payload for a user. ok=false means the user
// has not taken any quiz yet.
func (s *PickerService) Results(ctx context.Context, userID int64) (domain.QuizResults, bool, error) {
	results, ok, err := s.results.Load(ctx, userID)
	if err != nil {
		return domain.QuizResults{}, false, fmt.Errorf("%w: %w", domain.ErrResultUnavailable, err)
	}
	return results, ok, nil
}

// SaveResult accepts a single raw result object from a client (the
// save_result contract: a payload with a top-level type discriminator) and
// merges it into the stored payload. Unknown types are logged and dropped
// without failing the request.
func (s *PickerService) SaveResult(ctx context.Context, userID int64, raw json.RawMessage) error {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidAnswer, err)
	}

	switch probe.Type {
	case domain.ResultTypePosition:
		var res domain.PositionResult
		if err := json.Unmarshal(raw, &res); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrInvalidAnswer, err)
		}
		return s.merge(ctx, userID, func(r *domain.QuizResults) {
			r.SetPosition(res)
		})
	case domain.ResultTypeHero:
		var res domain.HeroResult
		if err := json.Unmarshal(raw, &res); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrInvalidAnswer, err)
		}
		if _, ok := domain.PositionFromIndex(res.HeroPositionIndex); !ok {
			return fmt.Errorf("%w: %d", domain.ErrInvalidPosition, res.HeroPositionIndex)
		}
		return s.merge(ctx, userID, func(r *domain.QuizResults) {
			r.SetHero(res)
		})
	default:
		s.log.Warn("save_result with unknown type",
			zap.Int64("user_id", userID),
			zap.String("type", probe.Type))
		return nil
	}
}

// merge implements read-modify-write over the stored payload. Concurrent
// writers race as last-write-wins, matching the persistence contract.
func (s *PickerService) merge(ctx context.Context, userID int64, mutate func(*domain.QuizResults)) error {
	results, _, err := s.results.Load(ctx, userID)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrResultUnavailable, err)
	}
	mutate(&results)
	if err := s.results.Save(ctx, userID, results); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrResultUnavailable, err)
	}
	return nil
}
