package scoring

import (
	"fmt"
	"sort"

	"dota-picker-service/internal/domain"
)

// PositionOutcome is the pure result of the position quiz: the two
// top-ranked categories and the accumulated totals they were picked from.
type PositionOutcome struct {
	Primary   domain.Position
	Secondary domain.Position
	Totals    map[domain.Position]int
}

// Key is the combined lookup key selecting the static description table
// entry, exactly "{primary}_{secondary}".
func (o PositionOutcome) Key() string {
	return string(o.Primary) + "_" + string(o.Secondary)
}

// ScorePositions accumulates each answer's partial-credit vector over the
// five categories and ranks them. answers holds one selected option index
// per question, in question order. Ties rank the earlier-declared category
// higher, so the outcome is deterministic.
func ScorePositions(questions []domain.PositionQuestion, answers []int) (PositionOutcome, error) {
	if len(answers) != len(questions) {
		return PositionOutcome{}, fmt.Errorf("%w: got %d answers for %d questions",
			domain.ErrAnswerCount, len(answers), len(questions))
	}

	totals := make(map[domain.Position]int, 5)
	for _, p := range domain.Positions() {
		totals[p] = 0
	}
	for qi, ai := range answers {
		opts := questions[qi].Answers
		if ai < 0 || ai >= len(opts) {
			return PositionOutcome{}, fmt.Errorf("%w: question %d option %d",
				domain.ErrInvalidAnswer, qi, ai)
		}
		for pos, credit := range opts[ai].Credit {
			totals[pos] += credit
		}
	}

	ranked := domain.Positions()
	sort.SliceStable(ranked, func(i, j int) bool {
		return totals[ranked[i]] > totals[ranked[j]]
	})

	return PositionOutcome{
		Primary:   ranked[0],
		Secondary: ranked[1],
		Totals:    totals,
	}, nil
}
