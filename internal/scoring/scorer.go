// Package scoring computes the ANH (Ayur-Nutri Hybrid) score of a food for a patient.
package scoring

import (
	"fmt"
	"math"
	"strings"
	"time"

	"mcp-ahara/internal/dataset"
	"mcp-ahara/internal/models"
)

// AlgorithmVersion tags every score produced by this package.
const AlgorithmVersion = "rule-based-v1"

// Sub-score weights.
const (
	doshaBalanceWeight  = 0.5
	viryaMatchWeight    = 0.3
	rasaDiversityWeight = 0.2

	caloriesFitWeight   = 0.4
	proteinFitWeight    = 0.4
	micronutrientWeight = 0.2
)

const (
	neutralDoshaScore    = 50.0
	pointsPerDoshaEffect = 25.0

	viryaMatchScore    = 100.0
	viryaMismatchScore = 40.0
	inSeasonBonus      = 15.0

	rasaBaseScore     = 40.0
	rasaPerExtraTaste = 15.0

	calorieFreeRatio = 0.5

	micronutrientBase      = 50.0
	fiberBonus             = 10.0
	fiberLowThreshold      = 2.0
	fiberHighThreshold     = 5.0
	pointsPerMicronutrient = 5.0
	micronutrientMapCap    = 20.0

	goodProteinFit = 70
)

// Scorable is anything that can be scored through the food scoring path.
type Scorable interface {
	ScorableFood() models.Food
}

// Scorer is stateless apart from its defaults and clock, and safe for concurrent use.
type Scorer struct {
	cfg   Config
	clock func() time.Time
}

type Option func(*Scorer)

// WithClock fixes the time used to derive the current season.
func WithClock(clock func() time.Time) Option {
	return func(s *Scorer) {
		s.clock = clock
	}
}

func NewScorer(cfg Config, opts ...Option) *Scorer {
	s := &Scorer{cfg: cfg, clock: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scorer) Config() Config {
	return s.cfg
}

// Season is the configured season, or the season of the current month.
func (s *Scorer) Season(cfg Config) models.Season {
	if cfg.Season != "" {
		return cfg.Season
	}
	return dataset.CurrentSeason(s.clock())
}

// Score rates food for patient with the scorer's default config.
func (s *Scorer) Score(food models.Food, patient models.PatientProfile) models.ANHScoreResult {
	return s.ScoreWith(food, patient, s.cfg)
}

func (s *Scorer) ScoreScorable(item Scorable, patient models.PatientProfile) models.ANHScoreResult {
	return s.Score(item.ScorableFood(), patient)
}

// ScoreWith rates food for patient. Components are rounded first; the sub-scores and
// the total are computed from the rounded components, so the total always equals
// round(wA*ayurvedic + wN*nutritional).
func (s *Scorer) ScoreWith(food models.Food, patient models.PatientProfile, cfg Config) models.ANHScoreResult {
	season := s.Season(cfg)

	b := models.ScoreBreakdown{
		DoshaBalance:         round(doshaBalance(food, patient.TargetDosha())),
		ViryaMatch:           round(viryaMatch(food, patient.Prakriti.Dominant, season)),
		RasaDiversity:        round(rasaDiversity(len(food.Ayurvedic.Rasa))),
		CaloriesFit:          round(caloriesFit(food.Nutrition.Calories, cfg.CalorieTarget)),
		ProteinFit:           round(proteinFit(food.Nutrition)),
		MicronutrientDensity: round(micronutrientDensity(food.Nutrition)),
	}

	ayurvedic := round(doshaBalanceWeight*float64(b.DoshaBalance) +
		viryaMatchWeight*float64(b.ViryaMatch) +
		rasaDiversityWeight*float64(b.RasaDiversity))
	nutritional := round(caloriesFitWeight*float64(b.CaloriesFit) +
		proteinFitWeight*float64(b.ProteinFit) +
		micronutrientWeight*float64(b.MicronutrientDensity))

	total := round(cfg.AyurvedicWeight*float64(ayurvedic) + cfg.NutritionalWeight*float64(nutritional))
	if total < 0 {
		total = 0
	} else if total > 100 {
		total = 100
	}

	recs, warns := insights(food, patient, season, b)
	return models.ANHScoreResult{
		TotalScore:       total,
		AyurvedicScore:   ayurvedic,
		NutritionalScore: nutritional,
		Breakdown:        b,
		Recommendations:  recs,
		Warnings:         warns,
	}
}

func doshaBalance(food models.Food, target models.DoshaType) float64 {
	return clamp(neutralDoshaScore-food.Ayurvedic.DoshaEffect.For(target)*pointsPerDoshaEffect, 0, 100)
}

// PreferredVirya is the potency favoured for a constitution, with summer forcing cooling
// and the two winters forcing heating.
func PreferredVirya(dominant models.DoshaType, season models.Season) models.Virya {
	switch {
	case season == models.SeasonGrishma:
		return models.ViryaSheeta
	case season.IsWinter():
		return models.ViryaUshna
	case dominant == models.DoshaPitta:
		return models.ViryaSheeta
	default:
		return models.ViryaUshna
	}
}

func viryaMatch(food models.Food, dominant models.DoshaType, season models.Season) float64 {
	score := viryaMismatchScore
	if food.Ayurvedic.Virya == PreferredVirya(dominant, season) {
		score = viryaMatchScore
	}
	if food.InSeason(season) {
		score = math.Min(100, score+inSeasonBonus)
	}
	return score
}

func rasaDiversity(tastes int) float64 {
	return clamp(rasaBaseScore+float64(tastes-1)*rasaPerExtraTaste, 0, 100)
}

func caloriesFit(calories, target float64) float64 {
	if target <= 0 {
		target = DefaultCalorieTarget
	}
	ratio := calories / target
	if ratio <= calorieFreeRatio {
		return 100
	}
	return math.Max(0, 100-(ratio-calorieFreeRatio)*100)
}

func proteinFit(n models.NutritionalInfo) float64 {
	perHundredCal := n.Protein / math.Max(1, n.Calories) * 100
	return clamp(perHundredCal*10, 0, 100)
}

func micronutrientDensity(n models.NutritionalInfo) float64 {
	score := micronutrientBase
	if n.Fiber > fiberLowThreshold {
		score += fiberBonus
	}
	if n.Fiber > fiberHighThreshold {
		score += fiberBonus
	}
	score += math.Min(micronutrientMapCap, float64(len(n.Vitamins))*pointsPerMicronutrient)
	score += math.Min(micronutrientMapCap, float64(len(n.Minerals))*pointsPerMicronutrient)
	return math.Min(100, score)
}

// insights never affect the score. Dosha insights follow the constitution, not the imbalance.
func insights(food models.Food, patient models.PatientProfile, season models.Season, b models.ScoreBreakdown) (recs, warns []string) {
	recs, warns = []string{}, []string{}
	dominant := patient.Prakriti.Dominant

	switch effect := food.Ayurvedic.DoshaEffect.For(dominant); {
	case effect > 0:
		warns = append(warns, fmt.Sprintf("%s may aggravate your %s dosha. Consume in moderation.", food.Name, dominant))
	case effect < 0:
		recs = append(recs, fmt.Sprintf("%s helps balance your %s dosha.", food.Name, dominant))
	}

	if season == models.SeasonGrishma && food.Ayurvedic.Virya == models.ViryaUshna {
		warns = append(warns, fmt.Sprintf("%s is heating. Consider cooling alternatives in summer.", food.Name))
	}

	if len(food.Season) > 0 && !food.InSeason(season) {
		recs = append(recs, fmt.Sprintf("%s is best consumed in its natural season for optimal benefits.", food.Name))
	}

	if b.ProteinFit > goodProteinFit {
		recs = append(recs, fmt.Sprintf("%s is a good protein source.", food.Name))
	}

	if food.Nutrition.Fiber > fiberHighThreshold {
		recs = append(recs, fmt.Sprintf("%s is high in fiber, good for digestion.", food.Name))
	}

	if len(food.Contraindications) > 0 {
		warns = append(warns, fmt.Sprintf("Note: %s should be avoided in: %s", food.Name, strings.Join(food.Contraindications, ", ")))
	}
	return recs, warns
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// round is half-up for the non-negative values scores produce, with a small epsilon
// so 64.5 computed as 64.49999999 still rounds up.
func round(v float64) int {
	return int(math.Floor(v + 0.5 + 1e-9))
}
