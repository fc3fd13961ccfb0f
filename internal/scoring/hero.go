package scoring

import (
	"fmt"

	"dota-picker-service/internal/domain"
)

// Hand-tuned extra credit for tags that appear in few answers, so picking
// one says more about the player than a common tag does.
var rareTagBonus = map[string]float64{
	"lane_push_jungle": 0.2,
	"needs_tank_items": 0.2,
	"lane_roam":        0.6,
	"splitpush":        0.6,
}

const difficultyBonus = 1.5

// DefaultTopN is the recommendation size when the caller does not ask for
// a specific one.
const DefaultTopN = 5

// HeroOutcome is the pure result of one hero quiz pass.
type HeroOutcome struct {
	Picks      []domain.HeroPick
	Difficulty domain.Difficulty
	// Tags is the ordered descriptive-tag multiset the picks were scored
	// from, difficulty markers excluded. Feed it to Summarize.
	Tags []string
}

// ScoreHeroes ranks a position's catalog against the selected answers.
// answers holds one option index per question, in question order. Each
// hero scores the sum of its weights over the collected tag multiset, a
// rare-tag bonus per occurrence of a bonus tag it has weight for, and a
// flat bonus when its declared difficulty matches the selected one. When
// several answers carry a difficulty marker the last one wins.
func ScoreHeroes(catalog []domain.Hero, questions []domain.HeroQuestion, answers []int, topN int) (HeroOutcome, error) {
	if len(answers) != len(questions) {
		return HeroOutcome{}, fmt.Errorf("%w: got %d answers for %d questions",
			domain.ErrAnswerCount, len(answers), len(questions))
	}
	if topN <= 0 {
		topN = DefaultTopN
	}

	var collected []string
	var selected domain.Difficulty
	for qi, ai := range answers {
		opts := questions[qi].Answers
		if ai < 0 || ai >= len(opts) {
			return HeroOutcome{}, fmt.Errorf("%w: question %d option %d",
				domain.ErrInvalidAnswer, qi, ai)
		}
		for _, tag := range opts[ai].Tags {
			if domain.IsDifficultyTag(tag) {
				selected = domain.Difficulty(tag)
				continue
			}
			collected = append(collected, tag)
		}
	}

	var flatBonus func(domain.Hero) bool
	if selected != "" {
		flatBonus = func(h domain.Hero) bool { return h.Difficulty == selected }
	}
	ranked := AccumulateAndRank(catalog, collected, domain.Hero.Weight, rareTagBonus, difficultyBonus, flatBonus)

	if topN > len(ranked) {
		topN = len(ranked)
	}
	top := ranked[:topN]

	scores := make([]float64, len(top))
	for i, r := range top {
		scores[i] = r.Score
	}
	percents := MatchPercents(scores)

	picks := make([]domain.HeroPick, len(top))
	for i, r := range top {
		picks[i] = domain.HeroPick{
			Name:         r.Item.Name,
			Score:        r.Score,
			MatchPercent: percents[i],
		}
	}

	return HeroOutcome{Picks: picks, Difficulty: selected, Tags: collected}, nil
}
