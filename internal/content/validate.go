package content

import (
	"fmt"

	"dota-picker-service/internal/domain"
)

// Validate checks content completeness. It runs at load so a missing table
// entry fails the process start instead of a user request.
func (s *Store) Validate() error {
	if len(s.positionQuiz) == 0 {
		return fmt.Errorf("position quiz has no questions")
	}
	for i, q := range s.positionQuiz {
		if len(q.Answers) == 0 {
			return fmt.Errorf("position question %d has no answers", i)
		}
		for _, a := range q.Answers {
			for pos, credit := range a.Credit {
				if pos.Index() < 0 {
					return fmt.Errorf("position question %d: unknown category %q", i, pos)
				}
				if credit < 0 {
					return fmt.Errorf("position question %d: negative credit for %q", i, pos)
				}
			}
		}
	}

	for _, p := range domain.Positions() {
		if s.labels[p] == "" {
			return fmt.Errorf("missing label for %s", p)
		}
	}

	// Every ordered pair of distinct categories is reachable as a
	// primary/secondary outcome, so all 20 keys must exist.
	for _, primary := range domain.Positions() {
		for _, secondary := range domain.Positions() {
			if primary == secondary {
				continue
			}
			key := string(primary) + "_" + string(secondary)
			if _, ok := s.pairs[key]; !ok {
				return fmt.Errorf("missing pair description %q", key)
			}
		}
	}

	for _, p := range domain.Positions() {
		questions := s.heroQuestions[p]
		if len(questions) == 0 {
			return fmt.Errorf("hero quiz for %s has no questions", p)
		}
		for i, q := range questions {
			if len(q.Answers) == 0 {
				return fmt.Errorf("hero quiz %s question %d has no answers", p, i)
			}
		}

		catalog := s.catalogs[p]
		if len(catalog) == 0 {
			return fmt.Errorf("hero catalog for %s is empty", p)
		}
		seen := make(map[string]bool, len(catalog))
		for _, h := range catalog {
			if h.Name == "" {
				return fmt.Errorf("hero catalog for %s has an unnamed entry", p)
			}
			if seen[h.Name] {
				return fmt.Errorf("hero catalog for %s: duplicate hero %q", p, h.Name)
			}
			seen[h.Name] = true
			switch h.Difficulty {
			case domain.DifficultyEasy, domain.DifficultyMedium, domain.DifficultyHard:
			default:
				return fmt.Errorf("hero %q: unknown difficulty %q", h.Name, h.Difficulty)
			}
			for tag, w := range h.Weights {
				if w < 0 {
					return fmt.Errorf("hero %q: negative weight for tag %q", h.Name, tag)
				}
			}
		}
	}
	return nil
}
