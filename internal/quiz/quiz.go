// Package quiz turns questionnaire answers into a prakriti assessment.
package quiz

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"mcp-ahara/internal/apperrors"
	"mcp-ahara/internal/models"
)

// AlgorithmVersion tags every assessment.
const AlgorithmVersion = "quiz-sum-v1"

// tridoshaSpread is the gap below which neighbouring percentages count as balanced.
const tridoshaSpread = 10

type Assessor struct {
	quiz  models.PrakritiQuiz
	newID func() string
	clock func() time.Time
}

type Option func(*Assessor)

func WithClock(clock func() time.Time) Option {
	return func(a *Assessor) {
		a.clock = clock
	}
}

func WithIDGenerator(gen func() string) Option {
	return func(a *Assessor) {
		a.newID = gen
	}
}

func NewAssessor(quiz models.PrakritiQuiz, opts ...Option) *Assessor {
	a := &Assessor{
		quiz:  quiz,
		newID: func() string { return "quiz_" + uuid.NewString() },
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Assessor) Questions() []models.PrakritiQuestion {
	return a.quiz.Questions
}

// Assess sums the chosen options and converts the totals to rounded percentages.
// Every question must be answered with a valid option index.
func (a *Assessor) Assess(answers map[string]int) (models.PrakritiQuizResult, error) {
	known := make(map[string]bool, len(a.quiz.Questions))
	var vata, pitta, kapha float64
	for _, q := range a.quiz.Questions {
		known[q.ID] = true
		idx, ok := answers[q.ID]
		if !ok {
			return models.PrakritiQuizResult{}, apperrors.NewInvalidInputError("question %s is not answered", q.ID)
		}
		if idx < 0 || idx >= len(q.Options) {
			return models.PrakritiQuizResult{}, apperrors.NewInvalidInputError("answer %d for question %s is out of range [0, %d)", idx, q.ID, len(q.Options))
		}
		opt := q.Options[idx]
		vata += opt.VataScore
		pitta += opt.PittaScore
		kapha += opt.KaphaScore
	}
	for id := range answers {
		if !known[id] {
			return models.PrakritiQuizResult{}, apperrors.NewInvalidInputError("unknown question %s", id)
		}
	}

	total := vata + pitta + kapha
	if total <= 0 {
		return models.PrakritiQuizResult{}, apperrors.NewInvalidInputError("answers carry no dosha score")
	}
	prakriti := models.NewDoshaPrakriti(percent(vata, total), percent(pitta, total), percent(kapha, total))
	interp := a.interpretation(prakriti)

	return models.PrakritiQuizResult{
		ID:              a.newID(),
		TotalVata:       vata,
		TotalPitta:      pitta,
		TotalKapha:      kapha,
		Prakriti:        prakriti,
		Description:     interp.Description,
		Recommendations: append([]string{}, interp.Recommendations...),
		CreatedAt:       a.clock().UTC(),
	}, nil
}

// InterpretationKey is tridosha when the ranked percentages are each within 10 points of
// the next, else dominant_secondary, else dominant_dominant.
func InterpretationKey(p models.DoshaPrakriti) string {
	ranked := p.Ranked()
	if math.Abs(p.Percent(ranked[0])-p.Percent(ranked[1])) < tridoshaSpread &&
		math.Abs(p.Percent(ranked[1])-p.Percent(ranked[2])) < tridoshaSpread {
		return "tridosha"
	}
	if p.Secondary != "" {
		return fmt.Sprintf("%s_%s", p.Dominant, p.Secondary)
	}
	return fmt.Sprintf("%s_dominant", p.Dominant)
}

func (a *Assessor) interpretation(p models.DoshaPrakriti) models.Interpretation {
	if interp, ok := a.quiz.Interpretations[InterpretationKey(p)]; ok {
		return interp
	}
	return a.quiz.Interpretations[fmt.Sprintf("%s_dominant", p.Dominant)]
}

func percent(part, total float64) float64 {
	return math.Floor(part/total*100 + 0.5)
}
