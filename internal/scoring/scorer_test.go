package scoring

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"mcp-ahara/internal/models"
	"mcp-ahara/internal/testutil"
)

func inSeason(s models.Season) Config {
	cfg := DefaultConfig()
	cfg.Season = s
	return cfg
}

type ScorerTestSuite struct {
	suite.Suite
	scorer *Scorer
}

func (s *ScorerTestSuite) SetupTest() {
	s.scorer = NewScorer(DefaultConfig())
}

func (s *ScorerTestSuite) TestPittaPatientHeatingFoodInSummer() {
	// Arrange
	patient := testutil.Patient(models.DoshaPitta)
	food := testutil.NewFoodBuilder("hot_pickle").
		Name("Hot Pickle").
		Virya(models.ViryaUshna).
		Dosha(0, 2, 0).
		Season(models.SeasonHemanta).
		Build()

	// Act
	result := s.scorer.ScoreWith(food, patient, inSeason(models.SeasonGrishma))

	// Assert
	s.Equal(0, result.Breakdown.DoshaBalance)
	s.Equal(40, result.Breakdown.ViryaMatch)
	s.Equal(20, result.AyurvedicScore)
	s.Equal(58, result.NutritionalScore)
	s.Equal(39, result.TotalScore)
	s.Contains(result.Warnings, "Hot Pickle is heating. Consider cooling alternatives in summer.")
	s.Contains(result.Warnings, "Hot Pickle may aggravate your pitta dosha. Consume in moderation.")
	s.Contains(result.Recommendations, "Hot Pickle is best consumed in its natural season for optimal benefits.")
}

func (s *ScorerTestSuite) TestDoshaBalanceEndpoints() {
	patient := testutil.Patient(models.DoshaVata)
	tests := []struct {
		effect float64
		want   int
	}{
		{-2, 100}, {-1, 75}, {0, 50}, {1, 25}, {2, 0},
	}
	for _, tt := range tests {
		food := testutil.NewFoodBuilder("f").Dosha(tt.effect, 0, 0).Build()

		result := s.scorer.ScoreWith(food, patient, inSeason(models.SeasonVasanta))

		s.Equal(tt.want, result.Breakdown.DoshaBalance, "effect %v", tt.effect)
	}
}

func (s *ScorerTestSuite) TestVikritiOverridesTargetDosha() {
	// Arrange
	patient := testutil.Patient(models.DoshaPitta)
	vikriti := models.NewDoshaPrakriti(10, 20, 70)
	patient.Vikriti = &vikriti
	food := testutil.NewFoodBuilder("barley").Dosha(0, 2, -2).Build()

	// Act
	result := s.scorer.ScoreWith(food, patient, inSeason(models.SeasonVasanta))

	// Assert
	s.Equal(100, result.Breakdown.DoshaBalance)
	// insights still speak about the constitution
	s.Contains(result.Warnings, "barley may aggravate your pitta dosha. Consume in moderation.")
}

func (s *ScorerTestSuite) TestViryaMatch() {
	tests := []struct {
		name     string
		dominant models.DoshaType
		season   models.Season
		virya    models.Virya
		seasons  []models.Season
		want     int
	}{
		{"pitta prefers cooling", models.DoshaPitta, models.SeasonVasanta, models.ViryaSheeta, nil, 100},
		{"vata mismatch", models.DoshaVata, models.SeasonVasanta, models.ViryaSheeta, nil, 40},
		{"mismatch in season", models.DoshaVata, models.SeasonSharad, models.ViryaSheeta, []models.Season{models.SeasonSharad}, 55},
		{"match in season is capped", models.DoshaKapha, models.SeasonVarsha, models.ViryaUshna, []models.Season{models.SeasonVarsha}, 100},
		{"winter forces heating for pitta", models.DoshaPitta, models.SeasonShishira, models.ViryaUshna, nil, 100},
		{"summer forces cooling for kapha", models.DoshaKapha, models.SeasonGrishma, models.ViryaUshna, nil, 40},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			food := testutil.NewFoodBuilder("f").Virya(tt.virya).Season(tt.seasons...).Build()

			result := s.scorer.ScoreWith(food, testutil.Patient(tt.dominant), inSeason(tt.season))

			s.Equal(tt.want, result.Breakdown.ViryaMatch)
		})
	}
}

func (s *ScorerTestSuite) TestRasaDiversity() {
	for k := 1; k <= len(models.AllRasas); k++ {
		food := testutil.NewFoodBuilder("f").Rasa(models.AllRasas[:k]...).Build()

		result := s.scorer.ScoreWith(food, testutil.Patient(models.DoshaKapha), inSeason(models.SeasonVasanta))

		s.Equal(int(math.Min(100, float64(40+15*(k-1)))), result.Breakdown.RasaDiversity, "k=%d", k)
	}
}

func (s *ScorerTestSuite) TestNutritionalComponents() {
	// Arrange
	food := testutil.NewFoodBuilder("dal").
		Name("Dal").
		Calories(400).
		Protein(20).
		Fiber(6).
		Build()
	food.Nutrition.Vitamins = map[string]float64{"A": 1, "B1": 1, "B6": 1, "C": 1, "K": 1}
	food.Nutrition.Minerals = map[string]float64{"iron": 1, "zinc": 1}

	// Act
	result := s.scorer.ScoreWith(food, testutil.Patient(models.DoshaKapha), inSeason(models.SeasonVasanta))

	// Assert
	s.Equal(70, result.Breakdown.CaloriesFit) // ratio 0.8
	s.Equal(50, result.Breakdown.ProteinFit)  // 5 g per 100 kcal
	s.Equal(100, result.Breakdown.MicronutrientDensity)
	s.Contains(result.Recommendations, "Dal is high in fiber, good for digestion.")
	s.NotContains(result.Recommendations, "Dal is a good protein source.")
}

func (s *ScorerTestSuite) TestInsightsForLeanProteinAndContraindications() {
	food := testutil.NewFoodBuilder("chicken").
		Name("Chicken").
		Category(models.CategoryMeat).
		Calories(165).
		Protein(31).
		Dosha(-1, 1, 0).
		Contraindications("acidity", "pitta_excess").
		Build()

	result := s.scorer.ScoreWith(food, testutil.Patient(models.DoshaVata), inSeason(models.SeasonVasanta))

	s.Equal(100, result.Breakdown.ProteinFit)
	s.Contains(result.Recommendations, "Chicken is a good protein source.")
	s.Contains(result.Recommendations, "Chicken helps balance your vata dosha.")
	s.Contains(result.Warnings, "Note: Chicken should be avoided in: acidity, pitta_excess")
}

func (s *ScorerTestSuite) TestWeights() {
	food := testutil.NewFoodBuilder("f").Build()
	cfg := inSeason(models.SeasonVasanta)
	cfg.AyurvedicWeight = 1
	cfg.NutritionalWeight = 0

	result := s.scorer.ScoreWith(food, testutil.Patient(models.DoshaPitta), cfg)

	s.Equal(result.AyurvedicScore, result.TotalScore)
}

func (s *ScorerTestSuite) TestSeasonFromClock() {
	may := time.Date(2025, time.May, 10, 12, 0, 0, 0, time.UTC)
	scorer := NewScorer(DefaultConfig(), WithClock(func() time.Time { return may }))
	food := testutil.NewFoodBuilder("chilli").Name("Chilli").Virya(models.ViryaUshna).Build()

	result := scorer.Score(food, testutil.Patient(models.DoshaVata))

	s.Equal(models.SeasonGrishma, scorer.Season(scorer.Config()))
	s.Equal(40, result.Breakdown.ViryaMatch)
	s.Contains(result.Warnings, "Chilli is heating. Consider cooling alternatives in summer.")
}

func TestScorerTestSuite(t *testing.T) {
	suite.Run(t, new(ScorerTestSuite))
}

func TestScoreProperties(t *testing.T) {
	factory := testutil.NewFoodFactory(42)
	scorer := NewScorer(DefaultConfig())
	weights := [][2]float64{{0.5, 0.5}, {0.7, 0.3}, {0.2, 0.8}, {1, 1}}

	for i := 0; i < 300; i++ {
		food := factory.Food()
		patient := factory.Patient()
		w := weights[i%len(weights)]
		cfg := inSeason(models.AllSeasons[i%len(models.AllSeasons)])
		cfg.AyurvedicWeight, cfg.NutritionalWeight = w[0], w[1]

		first := scorer.ScoreWith(food, patient, cfg)
		second := scorer.ScoreWith(food, patient, cfg)

		require.Equal(t, first, second, "scoring must be idempotent")
		assert.GreaterOrEqual(t, first.TotalScore, 0)
		assert.LessOrEqual(t, first.TotalScore, 100)
		want := math.Min(100, math.Floor(w[0]*float64(first.AyurvedicScore)+w[1]*float64(first.NutritionalScore)+0.5+1e-9))
		assert.Equal(t, int(want), first.TotalScore)
		for _, c := range []int{
			first.Breakdown.DoshaBalance, first.Breakdown.ViryaMatch, first.Breakdown.RasaDiversity,
			first.Breakdown.CaloriesFit, first.Breakdown.ProteinFit, first.Breakdown.MicronutrientDensity,
		} {
			assert.GreaterOrEqual(t, c, 0)
			assert.LessOrEqual(t, c, 100)
		}
	}
}

func TestDoshaBalanceIsMonotonic(t *testing.T) {
	scorer := NewScorer(DefaultConfig())
	patient := testutil.Patient(models.DoshaKapha)
	prev := 101
	for effect := -2.0; effect <= 2.0; effect += 0.5 {
		food := testutil.NewFoodBuilder("f").Dosha(0, 0, effect).Build()
		got := scorer.ScoreWith(food, patient, inSeason(models.SeasonVasanta)).Breakdown.DoshaBalance
		assert.Less(t, got, prev)
		prev = got
	}
}

func TestOverridesApply(t *testing.T) {
	w := 0.8
	o := &Overrides{AyurvedicWeight: &w, Season: models.SeasonVarsha}

	cfg := o.Apply(DefaultConfig())

	assert.Equal(t, 0.8, cfg.AyurvedicWeight)
	assert.Equal(t, DefaultNutritionalWeight, cfg.NutritionalWeight)
	assert.Equal(t, models.SeasonVarsha, cfg.Season)
	assert.Equal(t, DefaultConfig(), (*Overrides)(nil).Apply(DefaultConfig()))
}
