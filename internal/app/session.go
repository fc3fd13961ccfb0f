package app

import (
	"fmt"

	"dota-picker-service/internal/domain"
)

// QuizMode distinguishes the two quiz flows a session can drive.
type QuizMode string

const (
	ModePosition QuizMode = "position"
	ModeHero     QuizMode = "hero"
)

// QuizSession carries the state of one in-progress quiz: which quiz, which
// question is current, and the options chosen so far. One session belongs
// to one connection; nothing here is shared or global.
type QuizSession struct {
	mode          QuizMode
	positionIndex int
	topN          int

	posQuestions  []domain.PositionQuestion
	heroQuestions []domain.HeroQuestion
	answers       []int
}

// NewPositionSession starts a position quiz session.
func (s *PickerService) NewPositionSession() *QuizSession {
	return &QuizSession{
		mode:         ModePosition,
		posQuestions: s.content.PositionQuiz(),
	}
}

// NewHeroSession starts a hero quiz session for a position index.
func (s *PickerService) NewHeroSession(positionIndex, topN int) (*QuizSession, error) {
	questions, err := s.content.HeroQuiz(positionIndex)
	if err != nil {
		return nil, err
	}
	return &QuizSession{
		mode:          ModeHero,
		positionIndex: positionIndex,
		topN:          topN,
		heroQuestions: questions,
	}, nil
}

func (q *QuizSession) Mode() QuizMode     { return q.mode }
func (q *QuizSession) PositionIndex() int { return q.positionIndex }
func (q *QuizSession) TopN() int          { return q.topN }

// Answers returns the option indexes collected so far, in question order.
func (q *QuizSession) Answers() []int { return q.answers }

func (q *QuizSession) total() int {
	if q.mode == ModePosition {
		return len(q.posQuestions)
	}
	return len(q.heroQuestions)
}

// Done reports whether every question has been answered.
func (q *QuizSession) Done() bool {
	return len(q.answers) >= q.total()
}

// Question returns the current prompt and option texts, with 1-based
// progress numbering.
func (q *QuizSession) Question() (prompt string, options []string, number, total int) {
	cursor := len(q.answers)
	total = q.total()
	if cursor >= total {
		return "", nil, total, total
	}
	if q.mode == ModePosition {
		question := q.posQuestions[cursor]
		options = make([]string, len(question.Answers))
		for i, a := range question.Answers {
			options[i] = a.Text
		}
		return question.Prompt, options, cursor + 1, total
	}
	question := q.heroQuestions[cursor]
	options = make([]string, len(question.Answers))
	for i, a := range question.Answers {
		options[i] = a.Text
	}
	return question.Prompt, options, cursor + 1, total
}

// Answer records the selected option for the current question and reports
// whether the quiz is complete.
func (q *QuizSession) Answer(option int) (bool, error) {
	if q.Done() {
		return true, fmt.Errorf("%w: quiz already complete", domain.ErrInvalidAnswer)
	}
	cursor := len(q.answers)
	var optionCount int
	if q.mode == ModePosition {
		optionCount = len(q.posQuestions[cursor].Answers)
	} else {
		optionCount = len(q.heroQuestions[cursor].Answers)
	}
	if option < 0 || option >= optionCount {
		return false, fmt.Errorf("%w: question %d option %d", domain.ErrInvalidAnswer, cursor, option)
	}
	q.answers = append(q.answers, option)
	return q.Done(), nil
}
