package recipe

import (
	"fmt"
	"sort"
	"strings"

	"mcp-ahara/internal/models"
	"mcp-ahara/internal/scoring"
)

// AlgorithmVersion tags every recipe score.
const AlgorithmVersion = "recipe-aggregate-v1"

const (
	lowIngredientScore = 40
	balancedRasaCount  = 4
	maxListedBenefits  = 3
)

type IngredientScore struct {
	FoodID   string  `json:"food_id"`
	Name     string  `json:"name"`
	Score    int     `json:"score"`
	Quantity float64 `json:"quantity"`
}

type Result struct {
	Recipe           models.Recipe         `json:"recipe"`
	Nutrition        Nutrition             `json:"nutrition"`
	Profile          AyurvedicProfile      `json:"ayurvedic_profile"`
	ANHScore         models.ANHScoreResult `json:"anh_score"`
	IngredientScores []IngredientScore     `json:"ingredient_scores"`
	Missing          []string              `json:"missing_ingredients,omitempty"`
	Warnings         []string              `json:"warnings"`
	Recommendations  []string              `json:"recommendations"`
}

type Scorer struct {
	catalog Catalog
	scorer  *scoring.Scorer
}

func NewScorer(catalog Catalog, scorer *scoring.Scorer) *Scorer {
	return &Scorer{catalog: catalog, scorer: scorer}
}

// Score aggregates recipe and scores it as a single food for patient.
func (s *Scorer) Score(recipe models.Recipe, patient models.PatientProfile) Result {
	agg := Build(s.catalog, recipe)
	anh := s.scorer.ScoreScorable(agg, patient)

	ingredients := make([]IngredientScore, 0, len(recipe.Ingredients))
	for _, ing := range recipe.Ingredients {
		food, ok := s.catalog.Food(ing.FoodID)
		if !ok {
			continue
		}
		ingredients = append(ingredients, IngredientScore{
			FoodID:   ing.FoodID,
			Name:     food.Name,
			Score:    s.scorer.Score(food, patient).TotalScore,
			Quantity: ing.Quantity,
		})
	}

	warns, recs := s.insights(recipe, patient, agg.Profile, ingredients)
	return Result{
		Recipe:           recipe,
		Nutrition:        agg.Nutrition,
		Profile:          agg.Profile,
		ANHScore:         anh,
		IngredientScores: ingredients,
		Missing:          agg.Missing,
		Warnings:         append(append([]string{}, anh.Warnings...), warns...),
		Recommendations:  append(append([]string{}, anh.Recommendations...), recs...),
	}
}

func (s *Scorer) insights(recipe models.Recipe, patient models.PatientProfile, profile AyurvedicProfile, ingredients []IngredientScore) (warns, recs []string) {
	var low []string
	for _, i := range ingredients {
		if i.Score < lowIngredientScore {
			low = append(low, i.Name)
		}
	}
	if len(low) > 0 {
		warns = append(warns, "Some ingredients may not be ideal for your constitution: "+strings.Join(low, ", "))
	}

	dominant := patient.Prakriti.Dominant
	method := recipe.PreparationMethod
	if mod, ok := s.catalog.CookingModifier(method); ok {
		switch {
		case dominant == models.DoshaPitta && mod.ViryaShift > 0:
			warns = append(warns, fmt.Sprintf("%s cooking adds heat. Consider lighter preparation methods for pitta.", method))
		case dominant == models.DoshaKapha && method == models.CookingFried:
			warns = append(warns, "Fried foods may aggravate kapha. Consider roasted or steamed alternatives.")
		case dominant == models.DoshaVata && method == models.CookingRaw:
			warns = append(warns, "Raw foods may aggravate vata. Consider cooked or warm preparations.")
		}
	}

	if len(profile.Rasas) >= balancedRasaCount {
		recs = append(recs, fmt.Sprintf("This recipe has %d tastes, good for balanced nutrition.", len(profile.Rasas)))
	}
	if profile.DoshaEffect.For(dominant) < 0 {
		recs = append(recs, fmt.Sprintf("This recipe helps pacify your %s dosha.", dominant))
	}
	if len(recipe.Season) > 0 {
		seasons := make([]string, len(recipe.Season))
		for i, season := range recipe.Season {
			seasons[i] = string(season)
		}
		recs = append(recs, "Best consumed in: "+strings.Join(seasons, ", "))
	}
	if len(recipe.HealthBenefits) > 0 {
		benefits := recipe.HealthBenefits
		if len(benefits) > maxListedBenefits {
			benefits = benefits[:maxListedBenefits]
		}
		recs = append(recs, "Benefits: "+strings.Join(benefits, ", "))
	}
	return warns, recs
}

// TopRecipes scores every recipe and returns the best n, highest score first.
// Equal scores keep input order. n <= 0 returns all.
func (s *Scorer) TopRecipes(recipes []models.Recipe, patient models.PatientProfile, n int) []Result {
	results := make([]Result, 0, len(recipes))
	for _, r := range recipes {
		results = append(results, s.Score(r, patient))
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].ANHScore.TotalScore > results[j].ANHScore.TotalScore
	})
	if n > 0 && n < len(results) {
		results = results[:n]
	}
	return results
}
