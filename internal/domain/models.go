package domain

import "time"

// Position identifies one of the five fixed role categories (pos1..pos5).
type Position string

const (
	Pos1 Position = "pos1" // Carry
	Pos2 Position = "pos2" // Mid
	Pos3 Position = "pos3" // Offlane
	Pos4 Position = "pos4" // Roamer
	Pos5 Position = "pos5" // Support
)

// Positions returns all categories in declaration order. The order is the
// tie-break priority for position ranking, so it must stay fixed.
func Positions() []Position {
	return []Position{Pos1, Pos2, Pos3, Pos4, Pos5}
}

// Index maps pos1..pos5 onto 0..4.
func (p Position) Index() int {
	switch p {
	case Pos1:
		return 0
	case Pos2:
		return 1
	case Pos3:
		return 2
	case Pos4:
		return 3
	case Pos5:
		return 4
	}
	return -1
}

// PositionFromIndex is the inverse of Index.
func PositionFromIndex(i int) (Position, bool) {
	all := Positions()
	if i < 0 || i >= len(all) {
		return "", false
	}
	return all[i], true
}

// Difficulty is the declared complexity of a hero. The same three values
// double as reserved answer tags in the hero quiz.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// IsDifficultyTag reports whether a quiz tag is a reserved difficulty marker.
func IsDifficultyTag(tag string) bool {
	switch Difficulty(tag) {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// PositionAnswer is one selectable option of a position-quiz question. Credit
// holds non-negative partial credit per category; absent categories score 0.
type PositionAnswer struct {
	Text   string           `json:"text" yaml:"text"`
	Credit map[Position]int `json:"credit" yaml:"credit"`
}

// PositionQuestion is a position-quiz question with its ordered options.
type PositionQuestion struct {
	Prompt  string           `json:"prompt" yaml:"prompt"`
	Answers []PositionAnswer `json:"answers" yaml:"answers"`
}

// HeroAnswer is one selectable option of a hero-quiz question. Tags carry
// the descriptive labels scored against hero weight tables; a tag may also
// be a difficulty marker, which is excluded from descriptive aggregation.
type HeroAnswer struct {
	Text string   `json:"text" yaml:"text"`
	Tags []string `json:"tags" yaml:"tags"`
}

// HeroQuestion is a hero-quiz question. Question sets belong to a position;
// pos4 and pos5 share one set.
type HeroQuestion struct {
	ID      string       `json:"id,omitempty" yaml:"id,omitempty"`
	Prompt  string       `json:"prompt" yaml:"prompt"`
	Answers []HeroAnswer `json:"answers" yaml:"answers"`
}

// Hero is one catalog entry. Weights maps tag -> non-negative contribution;
// a missing tag contributes zero.
type Hero struct {
	Name       string
	Difficulty Difficulty
	Weights    map[string]float64
}

// Weight returns the hero's weight for a tag, zero if absent.
func (h Hero) Weight(tag string) float64 {
	return h.Weights[tag]
}

// PairDescription is the static content looked up by the combined
// "{primary}_{secondary}" key of a position result.
type PairDescription struct {
	Title       string         `json:"title" yaml:"title"`
	Description string         `json:"description" yaml:"description"`
	Stats       map[string]int `json:"stats" yaml:"stats"`
}

// PositionResult is the outcome of the position quiz. Immutable once
// computed; persisted as the position_quiz slot of QuizResults.
type PositionResult struct {
	Type          string          `json:"type"`
	Primary       Position        `json:"position"`
	Secondary     Position        `json:"extraPos"`
	PositionIndex int             `json:"positionIndex"`
	Label         string          `json:"label"`
	Key           string          `json:"key"`
	Description   PairDescription `json:"description"`
	CreatedAt     time.Time       `json:"date"`
}

// HeroPick is one ranked entry of a hero recommendation.
type HeroPick struct {
	Name         string  `json:"name"`
	Score        float64 `json:"score"`
	MatchPercent int     `json:"matchPercent"`
}

// HeroResult is the outcome of a hero quiz for one position. Persisted in
// the hero_quiz_by_position map keyed by the stringified position index.
type HeroResult struct {
	Type              string     `json:"type"`
	HeroPositionIndex int        `json:"heroPositionIndex"`
	TopHeroes         []HeroPick `json:"topHeroes"`
	Difficulty        Difficulty `json:"difficulty,omitempty"`
	Summary           string     `json:"summary,omitempty"`
	CreatedAt         time.Time  `json:"date"`
}

const (
	ResultTypePosition = "position_quiz"
	ResultTypeHero     = "hero_quiz"
)
