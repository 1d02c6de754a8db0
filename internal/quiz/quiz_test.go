package quiz

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"mcp-ahara/internal/apperrors"
	"mcp-ahara/internal/dataset"
	"mcp-ahara/internal/models"
)

var fixedTime = time.Date(2024, 3, 14, 9, 30, 0, 0, time.UTC)

type AssessorTestSuite struct {
	suite.Suite
	assessor *Assessor
}

func (s *AssessorTestSuite) SetupTest() {
	catalog, err := dataset.Load()
	s.Require().NoError(err)
	s.assessor = NewAssessor(catalog.Quiz(),
		WithClock(func() time.Time { return fixedTime }),
		WithIDGenerator(func() string { return "quiz_1" }),
	)
}

func answers(bodyFrame, skin, appetite, digestion, sleep, temperament, weather, activity int) map[string]int {
	return map[string]int{
		"body_frame":  bodyFrame,
		"skin":        skin,
		"appetite":    appetite,
		"digestion":   digestion,
		"sleep":       sleep,
		"temperament": temperament,
		"weather":     weather,
		"activity":    activity,
	}
}

func (s *AssessorTestSuite) TestSingleDominantDosha() {
	// Act
	result, err := s.assessor.Assess(answers(0, 0, 0, 0, 0, 0, 0, 0))

	// Assert
	s.Require().NoError(err)
	s.Equal(23.0, result.TotalVata)
	s.Equal(0.0, result.TotalPitta)
	s.Equal(1.0, result.TotalKapha)
	s.Equal(models.DoshaPrakriti{Vata: 96, Pitta: 0, Kapha: 4, Dominant: models.DoshaVata}, result.Prakriti)
	s.Contains(result.Description, "Vata is your leading dosha")
	s.NotEmpty(result.Recommendations)
	s.Equal("quiz_1", result.ID)
	s.Equal(fixedTime, result.CreatedAt)
}

func (s *AssessorTestSuite) TestDualDosha() {
	result, err := s.assessor.Assess(answers(1, 1, 1, 1, 0, 0, 1, 0))

	s.Require().NoError(err)
	s.Equal(models.DoshaPrakriti{Vata: 38, Pitta: 63, Kapha: 0, Dominant: models.DoshaPitta, Secondary: models.DoshaVata}, result.Prakriti)
	s.Contains(result.Description, "Pitta-vata constitution")
}

func (s *AssessorTestSuite) TestTridosha() {
	result, err := s.assessor.Assess(answers(0, 1, 2, 0, 1, 2, 0, 1))

	s.Require().NoError(err)
	s.Equal(models.DoshaPrakriti{Vata: 33, Pitta: 38, Kapha: 29, Dominant: models.DoshaPitta, Secondary: models.DoshaVata}, result.Prakriti)
	s.Contains(result.Description, "tridoshic")
}

func (s *AssessorTestSuite) TestInvalidAnswers() {
	tests := []struct {
		name    string
		answers map[string]int
	}{
		{"missing answer", func() map[string]int { a := answers(0, 0, 0, 0, 0, 0, 0, 0); delete(a, "sleep"); return a }()},
		{"out of range", answers(0, 0, 0, 3, 0, 0, 0, 0)},
		{"negative", answers(0, -1, 0, 0, 0, 0, 0, 0)},
		{"unknown question", func() map[string]int { a := answers(0, 0, 0, 0, 0, 0, 0, 0); a["hair"] = 1; return a }()},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.assessor.Assess(tt.answers)

			s.Require().Error(err)
			s.True(apperrors.Is(err, apperrors.CodeInvalidInput))
		})
	}
}

func (s *AssessorTestSuite) TestQuestions() {
	s.Len(s.assessor.Questions(), 8)
}

func TestAssessorTestSuite(t *testing.T) {
	suite.Run(t, new(AssessorTestSuite))
}

func TestInterpretationKey(t *testing.T) {
	tests := []struct {
		name string
		p    models.DoshaPrakriti
		want string
	}{
		{"single", models.NewDoshaPrakriti(70, 20, 10), "vata_dominant"},
		{"dual", models.NewDoshaPrakriti(20, 45, 35), "pitta_kapha"},
		{"balanced", models.NewDoshaPrakriti(30, 36, 34), "tridosha"},
		{"one wide gap", models.NewDoshaPrakriti(40, 35, 25), "vata_pitta"},
		{"tie keeps vata first", models.NewDoshaPrakriti(20, 40, 40), "pitta_kapha"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InterpretationKey(tt.p))
		})
	}
}

func TestAssessWithZeroScores(t *testing.T) {
	quiz := models.PrakritiQuiz{Questions: []models.PrakritiQuestion{
		{ID: "q", Options: []models.PrakritiOption{{Text: "nothing"}}},
	}}

	_, err := NewAssessor(quiz).Assess(map[string]int{"q": 0})

	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidInput))
}
