// Package composer builds meals greedily from the food catalog for a patient.
package composer

import (
	"math"
	"sort"

	"github.com/google/uuid"

	"mcp-ahara/internal/apperrors"
	"mcp-ahara/internal/models"
	"mcp-ahara/internal/scoring"
)

// AlgorithmVersion tags every composed, planned or optimized meal.
const AlgorithmVersion = "csp-greedy-v1"

const (
	// minAdmissionScore is the lowest ANH score a food may have to join a meal.
	minAdmissionScore = 40
	// proteinContributor is the per-serving protein above which a food always adds value.
	proteinContributor = 5.0
	// warmupItems is the number of items admitted on score alone.
	warmupItems = 3
	// targetItems is the item count after which composition stops once targets are met.
	targetItems = 5

	minPortion  = 0.5
	maxPortion  = 2.0
	portionStep = 0.5

	// optimizeThreshold is the item score below which optimize looks for a replacement.
	optimizeThreshold = 50
)

type ConstraintDetails struct {
	CaloriesOK bool `json:"calories_ok"`
	ProteinOK  bool `json:"protein_ok"`
	RasaOK     bool `json:"rasa_ok"`
	DoshaOK    bool `json:"dosha_ok"`
}

func (d ConstraintDetails) All() bool {
	return d.CaloriesOK && d.ProteinOK && d.RasaOK && d.DoshaOK
}

// ComposedMeal is a meal with its score and how it fares against the constraints.
// Unmet constraints are reported here, never as errors.
type ComposedMeal struct {
	Meal                 models.Meal            `json:"meal"`
	TotalANHScore        int                    `json:"total_anh_score"`
	ConstraintsSatisfied bool                   `json:"constraints_satisfied"`
	ConstraintDetails    ConstraintDetails      `json:"constraint_details"`
	Constraints          models.MealConstraints `json:"constraints"`
}

type DailyPlan struct {
	Breakfast ComposedMeal `json:"breakfast"`
	Lunch     ComposedMeal `json:"lunch"`
	Dinner    ComposedMeal `json:"dinner"`
	Snack     ComposedMeal `json:"snack"`
}

type Composer struct {
	foods   []models.Food
	scorer  *scoring.Scorer
	allergy AllergyMatcher
	newID   func() string
}

type Option func(*Composer)

func WithAllergyMatcher(m AllergyMatcher) Option {
	return func(c *Composer) {
		c.allergy = m
	}
}

// WithIDGenerator replaces the meal id source.
func WithIDGenerator(gen func() string) Option {
	return func(c *Composer) {
		c.newID = gen
	}
}

func New(foods []models.Food, scorer *scoring.Scorer, opts ...Option) *Composer {
	c := &Composer{
		foods:   append([]models.Food(nil), foods...),
		scorer:  scorer,
		allergy: SubstringAllergyMatcher{},
		newID:   func() string { return "meal_" + uuid.NewString() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Resolve layers overrides over the meal-type defaults.
func Resolve(mealType models.MealType, patient models.PatientProfile, overrides *models.ConstraintOverrides) (models.MealConstraints, error) {
	if !mealType.Valid() {
		return models.MealConstraints{}, apperrors.NewInvalidInputError("unknown meal type %q", mealType)
	}
	return overrides.Apply(DefaultConstraints(mealType, patient)), nil
}

// Compose walks the ranked, filtered catalog once and admits foods greedily.
// The total calories never exceed MaxCalories.
func (c *Composer) Compose(patient models.PatientProfile, mealType models.MealType, overrides *models.ConstraintOverrides) (ComposedMeal, error) {
	cons, err := Resolve(mealType, patient, overrides)
	if err != nil {
		return ComposedMeal{}, err
	}

	ranked := c.scorer.Rank(c.Available(patient, cons), patient, c.scorer.Config())

	var (
		items    []models.MealItem
		calories float64
		protein  float64
		rasas    = make(map[models.Rasa]bool)
	)
	for _, candidate := range ranked {
		food := candidate.Food
		if calories+food.Nutrition.Calories > cons.MaxCalories {
			continue
		}

		addsRasa := false
		for _, r := range food.Ayurvedic.Rasa {
			if !rasas[r] {
				addsRasa = true
				break
			}
		}

		if candidate.Score.TotalScore >= minAdmissionScore &&
			(addsRasa || food.Nutrition.Protein > proteinContributor || len(items) < warmupItems) {
			qty := portion(food, cons.MaxCalories-calories, cons.MinProtein-protein)
			items = append(items, models.NewMealItem(food, qty))
			calories += food.Nutrition.Calories * qty
			protein += food.Nutrition.Protein * qty
			for _, r := range food.Ayurvedic.Rasa {
				rasas[r] = true
			}
		}

		if len(items) >= targetItems && len(rasas) >= cons.MinRasaCount && protein >= cons.MinProtein {
			break
		}
	}

	return c.finish(models.NewMeal(c.newID(), mealType, items), patient, cons), nil
}

// portion sizes a serving multiplier: enough to close the protein gap for protein-rich
// foods, else one serving; rounded to half servings within [0.5, 2] and never above
// the remaining calorie budget.
func portion(food models.Food, remainingCalories, remainingProtein float64) float64 {
	target := 1.0
	if remainingProtein > 0 && food.Nutrition.Protein > proteinContributor {
		byCalories := math.Inf(1)
		if food.Nutrition.Calories > 0 {
			byCalories = remainingCalories / food.Nutrition.Calories
		}
		target = math.Min(byCalories, remainingProtein/food.Nutrition.Protein)
	}

	qty := math.Floor(target/portionStep+0.5) * portionStep
	qty = math.Max(minPortion, math.Min(maxPortion, qty))

	for qty > minPortion && food.Nutrition.Calories*qty > remainingCalories {
		qty -= portionStep
	}
	return qty
}

// Available filters the catalog by the constraints and the patient's allergies and diet.
func (c *Composer) Available(patient models.PatientProfile, cons models.MealConstraints) []models.Food {
	exclude := make(map[string]bool, len(cons.ExcludeFoods))
	for _, id := range cons.ExcludeFoods {
		exclude[id] = true
	}
	excludeCat := make(map[models.FoodCategory]bool, len(cons.ExcludeCategories))
	for _, cat := range cons.ExcludeCategories {
		excludeCat[cat] = true
	}
	includeCat := make(map[models.FoodCategory]bool, len(cons.IncludeCategories))
	for _, cat := range cons.IncludeCategories {
		includeCat[cat] = true
	}

	var out []models.Food
	for _, food := range c.foods {
		if exclude[food.ID] || excludeCat[food.Category] {
			continue
		}
		if len(includeCat) > 0 && !includeCat[food.Category] {
			continue
		}
		if cons.ViryaPreference != "" && food.Ayurvedic.Virya != cons.ViryaPreference {
			continue
		}
		if c.allergic(food, patient.Allergies) {
			continue
		}
		if !AllowedByDiet(food, patient) {
			continue
		}
		out = append(out, food)
	}
	return out
}

func (c *Composer) allergic(food models.Food, allergies []string) bool {
	for _, a := range allergies {
		if c.allergy.Matches(food, a) {
			return true
		}
	}
	return false
}

// AllowedByDiet applies the patient's dietary preferences.
func AllowedByDiet(food models.Food, patient models.PatientProfile) bool {
	animal := food.Category == models.CategoryMeat || food.Category == models.CategorySeafood
	switch {
	case patient.HasPreference(models.PreferenceVegan):
		return !animal && food.Category != models.CategoryDairy
	case patient.HasPreference(models.PreferenceVegetarian):
		return !animal
	case patient.HasPreference(models.PreferenceEggetarian):
		return !animal || food.ID == "egg"
	default:
		return true
	}
}

// MealScore is the quantity-weighted average of the item scores, 0 for an empty meal.
func (c *Composer) MealScore(items []models.MealItem, patient models.PatientProfile) int {
	var weighted, quantity float64
	for _, item := range items {
		weighted += float64(c.scorer.Score(item.Food, patient).TotalScore) * item.Quantity
		quantity += item.Quantity
	}
	if quantity == 0 {
		return 0
	}
	return int(math.Floor(weighted/quantity + 0.5))
}

func (c *Composer) finish(meal models.Meal, patient models.PatientProfile, cons models.MealConstraints) ComposedMeal {
	details := Evaluate(meal, cons)
	return ComposedMeal{
		Meal:                 meal,
		TotalANHScore:        c.MealScore(meal.Foods, patient),
		ConstraintsSatisfied: details.All(),
		ConstraintDetails:    details,
		Constraints:          cons,
	}
}

// Evaluate checks a meal's aggregates against the constraints.
func Evaluate(meal models.Meal, cons models.MealConstraints) ConstraintDetails {
	return ConstraintDetails{
		CaloriesOK: meal.TotalNutrition.Calories <= cons.MaxCalories+1e-9,
		ProteinOK:  meal.TotalNutrition.Protein >= cons.MinProtein-1e-9,
		RasaOK:     len(meal.RasaCoverage) >= cons.MinRasaCount,
		DoshaOK:    meal.OverallDoshaEffect.For(cons.TargetDosha) <= 0,
	}
}

// DailyPlan composes the four meals independently; overrides are layered over each meal's defaults.
func (c *Composer) DailyPlan(patient models.PatientProfile, overrides *models.ConstraintOverrides) (DailyPlan, error) {
	var plan DailyPlan
	for _, slot := range []struct {
		mealType models.MealType
		into     *ComposedMeal
	}{
		{models.MealBreakfast, &plan.Breakfast},
		{models.MealLunch, &plan.Lunch},
		{models.MealDinner, &plan.Dinner},
		{models.MealSnack, &plan.Snack},
	} {
		composed, err := c.Compose(patient, slot.mealType, overrides)
		if err != nil {
			return DailyPlan{}, err
		}
		*slot.into = composed
	}
	return plan, nil
}

type Swap struct {
	Replaced string `json:"replaced"`
	With     string `json:"with"`
	OldScore int    `json:"old_score"`
	NewScore int    `json:"new_score"`
}

type OptimizedMeal struct {
	ComposedMeal
	Swaps  []Swap `json:"swaps"`
	Rounds int    `json:"rounds"`
}

// Optimize replaces at most the single lowest-scoring item, and only when it scores
// below 50 and a same-category food scores strictly higher. It is a one-step local
// improvement, not a search.
func (c *Composer) Optimize(meal models.Meal, patient models.PatientProfile, overrides *models.ConstraintOverrides) (OptimizedMeal, error) {
	return c.OptimizeIteratively(meal, patient, overrides, 1)
}

// OptimizeIteratively repeats the one-step swap until nothing changes or maxRounds swaps were tried.
func (c *Composer) OptimizeIteratively(meal models.Meal, patient models.PatientProfile, overrides *models.ConstraintOverrides, maxRounds int) (OptimizedMeal, error) {
	cons, err := Resolve(meal.Type, patient, overrides)
	if err != nil {
		return OptimizedMeal{}, err
	}
	if maxRounds < 1 {
		return OptimizedMeal{}, apperrors.NewInvalidInputError("max rounds must be at least 1, got %d", maxRounds)
	}

	pool := c.Available(patient, cons)
	items := append([]models.MealItem(nil), meal.Foods...)
	swaps := []Swap{}
	rounds := 0
	for rounds < maxRounds {
		rounds++
		swap, ok := c.swapWorst(items, pool, patient)
		if !ok {
			break
		}
		swaps = append(swaps, swap)
	}

	id := meal.ID
	if id == "" {
		id = c.newID()
	}
	return OptimizedMeal{
		ComposedMeal: c.finish(models.NewMeal(id, meal.Type, items), patient, cons),
		Swaps:        swaps,
		Rounds:       rounds,
	}, nil
}

// swapWorst replaces the lowest-scoring item in place. Ties go to the earliest item.
func (c *Composer) swapWorst(items []models.MealItem, pool []models.Food, patient models.PatientProfile) (Swap, bool) {
	if len(items) == 0 {
		return Swap{}, false
	}
	scores := make([]int, len(items))
	for i, item := range items {
		scores[i] = c.scorer.Score(item.Food, patient).TotalScore
	}
	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return scores[order[a]] < scores[order[b]] })

	worst := order[0]
	if scores[worst] >= optimizeThreshold {
		return Swap{}, false
	}

	worstFood := items[worst].Food
	var best *models.Food
	bestScore := -1
	for i := range pool {
		alt := pool[i]
		if alt.Category != worstFood.Category || alt.ID == worstFood.ID {
			continue
		}
		if s := c.scorer.Score(alt, patient).TotalScore; s > bestScore {
			best, bestScore = &pool[i], s
		}
	}
	if best == nil || bestScore <= scores[worst] {
		return Swap{}, false
	}

	items[worst] = models.NewMealItem(*best, items[worst].Quantity)
	return Swap{Replaced: worstFood.ID, With: best.ID, OldScore: scores[worst], NewScore: bestScore}, true
}
