package scoring

import (
	"math"
	"sort"
)

// Ranked pairs a candidate with its accumulated score.
type Ranked[T any] struct {
	Item  T
	Score float64
}

// AccumulateAndRank scores each candidate as the sum, over the contribution
// multiset, of weight(candidate, tag) plus bonus[tag] whenever the weight is
// positive. Duplicate tags in the multiset contribute again, bonus included.
// flatBonus adds flat once per matching candidate. The result is sorted by
// score descending; ties keep the candidates' declaration order.
func AccumulateAndRank[T any](
	candidates []T,
	contributions []string,
	weight func(T, string) float64,
	bonus map[string]float64,
	flat float64,
	flatBonus func(T) bool,
) []Ranked[T] {
	ranked := make([]Ranked[T], len(candidates))
	for i, c := range candidates {
		var score float64
		for _, tag := range contributions {
			w := weight(c, tag)
			if w <= 0 {
				continue
			}
			score += w
			score += bonus[tag]
		}
		if flatBonus != nil && flatBonus(c) {
			score += flat
		}
		ranked[i] = Ranked[T]{Item: c, Score: score}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// MatchPercents normalizes the displayed slice of scores onto [55,100].
// Every entry is 100 when the slice has one element or no score spread;
// otherwise the band is stretched linearly over the slice's own min/max, so
// the top entry always lands on 100.
func MatchPercents(scores []float64) []int {
	out := make([]int, len(scores))
	if len(scores) == 0 {
		return out
	}
	min, max := scores[0], scores[0]
	for _, s := range scores[1:] {
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}
	if len(scores) == 1 || max == min {
		for i := range out {
			out[i] = 100
		}
		return out
	}
	for i, s := range scores {
		out[i] = int(math.Round(55 + (s-min)/(max-min)*45))
	}
	return out
}
