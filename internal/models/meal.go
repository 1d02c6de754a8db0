// internal/models/meal.go
package models

import "fmt"

type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

var AllMealTypes = []MealType{MealBreakfast, MealLunch, MealDinner, MealSnack}

func (m MealType) Valid() bool {
	for _, known := range AllMealTypes {
		if m == known {
			return true
		}
	}
	return false
}

// DisplayName is the default meal name for a meal type.
func (m MealType) DisplayName() string {
	switch m {
	case MealBreakfast:
		return "Morning Meal"
	case MealLunch:
		return "Afternoon Meal"
	case MealDinner:
		return "Evening Meal"
	case MealSnack:
		return "Light Snack"
	default:
		return "Meal"
	}
}

func ParseMealType(s string) (MealType, error) {
	m := MealType(s)
	if !m.Valid() {
		return "", fmt.Errorf("invalid meal type %q: must be one of breakfast, lunch, dinner, snack", s)
	}
	return m, nil
}

// MealItem is a portion of a food. Quantity is a multiplier of the food's serving, not grams.
type MealItem struct {
	FoodID   string  `json:"food_id"`
	Food     Food    `json:"food"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

func NewMealItem(food Food, quantity float64) MealItem {
	return MealItem{FoodID: food.ID, Food: food, Quantity: quantity, Unit: food.ServingSize}
}

// Nutrition is the food's nutrition scaled by quantity.
func (i MealItem) Nutrition() NutritionalInfo {
	return NutritionalInfo{}.Add(i.Food.Nutrition, i.Quantity)
}

// Meal aggregates are derived from Foods and are only built through NewMeal.
type Meal struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	Type               MealType        `json:"type"`
	Foods              []MealItem      `json:"foods"`
	TotalNutrition     NutritionalInfo `json:"total_nutrition"`
	RasaCoverage       []Rasa          `json:"rasa_coverage"`
	OverallDoshaEffect DoshaEffect     `json:"overall_dosha_effect"`
}

// NewMeal builds a meal and its aggregates from items. Taste coverage keeps first-seen order.
// The dosha effect is the plain per-item sum, independent of quantity.
func NewMeal(id string, mealType MealType, items []MealItem) Meal {
	meal := Meal{
		ID:           id,
		Name:         mealType.DisplayName(),
		Type:         mealType,
		Foods:        make([]MealItem, len(items)),
		RasaCoverage: []Rasa{},
	}
	copy(meal.Foods, items)

	seen := make(map[Rasa]bool)
	for _, item := range items {
		meal.TotalNutrition = meal.TotalNutrition.Add(item.Food.Nutrition, item.Quantity)
		for _, r := range item.Food.Ayurvedic.Rasa {
			if !seen[r] {
				seen[r] = true
				meal.RasaCoverage = append(meal.RasaCoverage, r)
			}
		}
		meal.OverallDoshaEffect = meal.OverallDoshaEffect.Add(item.Food.Ayurvedic.DoshaEffect)
	}
	return meal
}

// FoodList returns the foods of the meal in item order.
func (m Meal) FoodList() []Food {
	foods := make([]Food, 0, len(m.Foods))
	for _, item := range m.Foods {
		foods = append(foods, item.Food)
	}
	return foods
}
