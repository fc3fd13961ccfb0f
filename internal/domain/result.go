package domain

import (
	"encoding/json"
	"strconv"
)

// QuizResults is the persisted per-user payload. A user holds at most one
// position result and one hero result per position.
type QuizResults struct {
	PositionQuiz       *PositionResult        `json:"position_quiz,omitempty"`
	HeroQuizByPosition map[string]*HeroResult `json:"hero_quiz_by_position,omitempty"`
}

// IsZero reports whether no quiz has been recorded.
func (r QuizResults) IsZero() bool {
	return r.PositionQuiz == nil && len(r.HeroQuizByPosition) == 0
}

// SetPosition overwrites the position slot.
func (r *QuizResults) SetPosition(res PositionResult) {
	res.Type = ResultTypePosition
	r.PositionQuiz = &res
}

// SetHero overwrites the hero slot for the result's position. Results for
// other positions are retained.
func (r *QuizResults) SetHero(res HeroResult) {
	res.Type = ResultTypeHero
	if r.HeroQuizByPosition == nil {
		r.HeroQuizByPosition = make(map[string]*HeroResult)
	}
	r.HeroQuizByPosition[strconv.Itoa(res.HeroPositionIndex)] = &res
}

// Hero returns the stored hero result for a position index.
func (r QuizResults) Hero(positionIndex int) (*HeroResult, bool) {
	res, ok := r.HeroQuizByPosition[strconv.Itoa(positionIndex)]
	return res, ok
}

// legacyResults is the pre-migration single-slot payload: the position
// result lived at the top level next to a "type" discriminator, and at most
// one hero result sat under "hero_quiz".
type legacyResults struct {
	Type          string      `json:"type"`
	Primary       Position    `json:"position"`
	Secondary     Position    `json:"extraPos"`
	PositionIndex int         `json:"positionIndex"`
	Label         string      `json:"label"`
	Key           string      `json:"key"`
	HeroQuiz      *HeroResult `json:"hero_quiz"`
}

// DecodeResults parses a persisted payload, accepting both the current
// shape and the legacy one. The current shape wins when both are present.
// Legacy adaptation is best-effort: a legacy hero result without a usable
// position index is dropped.
func DecodeResults(data []byte) (QuizResults, error) {
	if len(data) == 0 {
		return QuizResults{}, nil
	}

	var current QuizResults
	if err := json.Unmarshal(data, &current); err != nil {
		return QuizResults{}, err
	}
	if !current.IsZero() {
		return current, nil
	}

	var legacy legacyResults
	if err := json.Unmarshal(data, &legacy); err != nil {
		return QuizResults{}, err
	}
	return adaptLegacy(legacy), nil
}

func adaptLegacy(l legacyResults) QuizResults {
	var out QuizResults
	if l.Type == ResultTypePosition && l.Primary != "" {
		out.SetPosition(PositionResult{
			Primary:       l.Primary,
			Secondary:     l.Secondary,
			PositionIndex: l.PositionIndex,
			Label:         l.Label,
			Key:           l.Key,
		})
	}
	if l.HeroQuiz != nil && l.HeroQuiz.HeroPositionIndex >= 0 {
		out.SetHero(*l.HeroQuiz)
	}
	return out
}
