// Package content is the static-content collaborator: question sets, hero
// catalogs, and the description tables backing quiz results. Everything is
// embedded, parsed once at load, and immutable afterwards.
package content

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"dota-picker-service/internal/domain"
)

//go:embed data/*.yaml
var dataFS embed.FS

// Store holds all loaded content. Safe for concurrent reads.
type Store struct {
	positionQuiz  []domain.PositionQuestion
	labels        map[domain.Position]string
	pairs         map[string]domain.PairDescription
	heroQuestions map[domain.Position][]domain.HeroQuestion
	catalogs      map[domain.Position][]domain.Hero
	phrases       map[string]string
}

type positionQuizFile struct {
	Questions []domain.PositionQuestion `yaml:"questions"`
}

type positionsFile struct {
	Labels map[domain.Position]string            `yaml:"labels"`
	Pairs  map[string]domain.PairDescription     `yaml:"pairs"`
}

type heroQuestionsFile struct {
	// Sets are keyed pos1..pos3 plus the shared "pos45" set used by both
	// the roamer and support quizzes.
	Sets map[string][]domain.HeroQuestion `yaml:"sets"`
}

// heroSpec supports both catalog encodings: a plain tag list (weight 1.0
// per tag) and an explicit fractional weight map. When both are present the
// explicit weight wins.
type heroSpec struct {
	Name       string             `yaml:"name"`
	Difficulty domain.Difficulty  `yaml:"difficulty"`
	Tags       []string           `yaml:"tags"`
	Weights    map[string]float64 `yaml:"weights"`
}

type heroesFile struct {
	Catalogs map[domain.Position][]heroSpec `yaml:"catalogs"`
}

type phrasesFile struct {
	Phrases map[string]string `yaml:"phrases"`
}

// Load parses the embedded content and validates it. A validation failure
// is a content defect and aborts startup.
func Load() (*Store, error) {
	s := &Store{}

	var pq positionQuizFile
	if err := readYAML("data/position_quiz.yaml", &pq); err != nil {
		return nil, err
	}
	s.positionQuiz = pq.Questions

	var pf positionsFile
	if err := readYAML("data/positions.yaml", &pf); err != nil {
		return nil, err
	}
	s.labels = pf.Labels
	s.pairs = pf.Pairs

	var hq heroQuestionsFile
	if err := readYAML("data/hero_questions.yaml", &hq); err != nil {
		return nil, err
	}
	s.heroQuestions = map[domain.Position][]domain.HeroQuestion{
		domain.Pos1: hq.Sets["pos1"],
		domain.Pos2: hq.Sets["pos2"],
		domain.Pos3: hq.Sets["pos3"],
		// pos4 and pos5 share one question set but keep distinct catalogs.
		domain.Pos4: hq.Sets["pos45"],
		domain.Pos5: hq.Sets["pos45"],
	}

	var hf heroesFile
	if err := readYAML("data/heroes.yaml", &hf); err != nil {
		return nil, err
	}
	s.catalogs = make(map[domain.Position][]domain.Hero, len(hf.Catalogs))
	for pos, specs := range hf.Catalogs {
		heroes := make([]domain.Hero, len(specs))
		for i, spec := range specs {
			heroes[i] = spec.hero()
		}
		s.catalogs[pos] = heroes
	}

	var ph phrasesFile
	if err := readYAML("data/phrases.yaml", &ph); err != nil {
		return nil, err
	}
	s.phrases = ph.Phrases

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func readYAML(name string, out any) error {
	raw, err := dataFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

func (h heroSpec) hero() domain.Hero {
	weights := make(map[string]float64, len(h.Tags)+len(h.Weights))
	for _, tag := range h.Tags {
		weights[tag] = 1.0
	}
	for tag, w := range h.Weights {
		weights[tag] = w
	}
	return domain.Hero{Name: h.Name, Difficulty: h.Difficulty, Weights: weights}
}

// PositionQuiz returns the ordered position-quiz questions.
func (s *Store) PositionQuiz() []domain.PositionQuestion {
	return s.positionQuiz
}

// Label returns the human-readable name of a category.
func (s *Store) Label(p domain.Position) string {
	return s.labels[p]
}

// PairDescription looks up the static entry for a "{primary}_{secondary}"
// key. A miss means incomplete content, which Validate rules out for every
// reachable key.
func (s *Store) PairDescription(key string) (domain.PairDescription, bool) {
	d, ok := s.pairs[key]
	return d, ok
}

// HeroQuiz returns the question set for a position index.
func (s *Store) HeroQuiz(positionIndex int) ([]domain.HeroQuestion, error) {
	pos, ok := domain.PositionFromIndex(positionIndex)
	if !ok {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidPosition, positionIndex)
	}
	return s.heroQuestions[pos], nil
}

// Catalog returns the hero catalog for a position index.
func (s *Store) Catalog(positionIndex int) ([]domain.Hero, error) {
	pos, ok := domain.PositionFromIndex(positionIndex)
	if !ok {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidPosition, positionIndex)
	}
	return s.catalogs[pos], nil
}

// Phrases returns the tag phrase dictionary used for result summaries.
func (s *Store) Phrases() map[string]string {
	return s.phrases
}
