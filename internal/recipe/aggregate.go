// Package recipe scores composite dishes by aggregating their ingredients into a
// single food and running it through the ANH scorer.
package recipe

import (
	"math"

	"mcp-ahara/internal/models"
)

// Grams per unit. A "piece" is the ingredient's own serving weight; unknown units count as grams.
var unitGrams = map[string]float64{
	"g":    1,
	"ml":   1,
	"tsp":  5,
	"tbsp": 15,
	"cup":  240,
}

const (
	// dominantRasaShare is the share of total ingredient weight a taste must exceed.
	dominantRasaShare = 0.1
	// cookingViryaFactor scales a method's virya shift by total ingredient weight.
	cookingViryaFactor = 0.3

	virtualServingGrams = 200
)

// Catalog is the reference data the recipe scorer reads.
type Catalog interface {
	Food(id string) (models.Food, bool)
	CookingModifier(method models.CookingMethod) (models.CookingModifier, bool)
}

type Nutrition struct {
	Total      models.NutritionalInfo `json:"total"`
	PerServing models.NutritionalInfo `json:"per_serving"`
}

type AyurvedicProfile struct {
	Rasas         []models.Rasa      `json:"rasas"`
	DominantVirya models.Virya       `json:"dominant_virya"`
	DoshaEffect   models.DoshaEffect `json:"dosha_effect"`
	Gunas         []string           `json:"gunas"`
}

// Aggregate is a recipe reduced to food-shaped properties. Ingredients missing from
// the catalog are skipped and listed in Missing.
type Aggregate struct {
	Recipe    models.Recipe    `json:"recipe"`
	Nutrition Nutrition        `json:"nutrition"`
	Profile   AyurvedicProfile `json:"ayurvedic_profile"`
	Missing   []string         `json:"missing_ingredients,omitempty"`
}

// ScorableFood lets an aggregate go through the food scoring path.
func (a Aggregate) ScorableFood() models.Food {
	return ToScorableFood(a)
}

// ToScorableFood builds the synthetic food for an aggregate: grains, sweet post-digestive
// effect and a 200 g serving, with per-serving nutrition.
func ToScorableFood(a Aggregate) models.Food {
	return models.Food{
		ID:        "recipe_" + a.Recipe.ID,
		Name:      a.Recipe.Name,
		NameHindi: a.Recipe.NameHindi,
		Category:  models.CategoryGrains,
		Ayurvedic: models.AyurvedicProperties{
			Rasa:        a.Profile.Rasas,
			Virya:       a.Profile.DominantVirya,
			Vipaka:      models.VipakaMadhura,
			DoshaEffect: a.Profile.DoshaEffect,
			Guna:        a.Profile.Gunas,
		},
		Nutrition:    a.Nutrition.PerServing,
		ServingSize:  "1 serving",
		ServingGrams: virtualServingGrams,
		Season:       a.Recipe.Season,
	}
}

// Build reduces recipe to nutrition and an Ayurvedic profile using catalog.
func Build(catalog Catalog, recipe models.Recipe) Aggregate {
	var (
		total       models.NutritionalInfo
		rasaWeight  = make(map[models.Rasa]float64)
		viryaTally  float64
		dosha       models.DoshaEffect
		totalWeight float64
		gunas       = newOrderedSet()
		missing     []string
	)

	for _, ing := range recipe.Ingredients {
		food, ok := catalog.Food(ing.FoodID)
		if !ok {
			missing = append(missing, ing.FoodID)
			continue
		}

		total = total.Add(food.Nutrition, grams(ing, food)/food.ServingGrams)

		w := ing.Quantity
		totalWeight += w
		for _, r := range food.Ayurvedic.Rasa {
			rasaWeight[r] += w
		}
		if food.Ayurvedic.Virya == models.ViryaUshna {
			viryaTally += w
		} else {
			viryaTally -= w
		}
		dosha = dosha.Add(food.Ayurvedic.DoshaEffect.Scale(w))
		gunas.add(food.Ayurvedic.Guna...)
	}

	if totalWeight > 0 {
		dosha = models.DoshaEffect{
			Vata:  roundTo(dosha.Vata/totalWeight, 1),
			Pitta: roundTo(dosha.Pitta/totalWeight, 1),
			Kapha: roundTo(dosha.Kapha/totalWeight, 1),
		}
	}

	if mod, ok := catalog.CookingModifier(recipe.PreparationMethod); ok {
		viryaTally += mod.ViryaShift * totalWeight * cookingViryaFactor
		dosha = dosha.Add(mod.DoshaModifier)
		gunas.add(mod.GunaChange...)
	}

	threshold := totalWeight * dominantRasaShare
	rasas := []models.Rasa{}
	for _, r := range models.AllRasas {
		if rasaWeight[r] > threshold {
			rasas = append(rasas, r)
		}
	}
	if len(rasas) == 0 {
		rasas = []models.Rasa{models.RasaMadhura}
	}

	virya := models.ViryaSheeta
	if viryaTally > 0 {
		virya = models.ViryaUshna
	}

	return Aggregate{
		Recipe: recipe,
		Nutrition: Nutrition{
			Total:      total,
			PerServing: perServing(total, recipe.Servings),
		},
		Profile: AyurvedicProfile{
			Rasas:         rasas,
			DominantVirya: virya,
			DoshaEffect: models.DoshaEffect{
				Vata:  roundTo(dosha.Vata, 0),
				Pitta: roundTo(dosha.Pitta, 0),
				Kapha: roundTo(dosha.Kapha, 0),
			},
			Gunas: gunas.items,
		},
		Missing: missing,
	}
}

func grams(ing models.RecipeIngredient, food models.Food) float64 {
	if ing.Unit == "piece" {
		return ing.Quantity * food.ServingGrams
	}
	perUnit, ok := unitGrams[ing.Unit]
	if !ok {
		perUnit = 1
	}
	return ing.Quantity * perUnit
}

// perServing divides the totals by servings: calories to whole numbers, the rest to one decimal.
func perServing(total models.NutritionalInfo, servings int) models.NutritionalInfo {
	s := float64(servings)
	if s <= 0 {
		s = 1
	}
	return models.NutritionalInfo{
		Calories: roundTo(total.Calories/s, 0),
		Protein:  roundTo(total.Protein/s, 1),
		Carbs:    roundTo(total.Carbs/s, 1),
		Fat:      roundTo(total.Fat/s, 1),
		Fiber:    roundTo(total.Fiber/s, 1),
	}
}

// roundTo rounds half up to the given number of decimals.
func roundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	r := math.Floor(v*p+0.5) / p
	if r == 0 {
		return 0
	}
	return r
}

type orderedSet struct {
	seen  map[string]bool
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]bool), items: []string{}}
}

func (s *orderedSet) add(values ...string) {
	for _, v := range values {
		if !s.seen[v] {
			s.seen[v] = true
			s.items = append(s.items, v)
		}
	}
}
