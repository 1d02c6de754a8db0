package composer

import "mcp-ahara/internal/models"

const (
	baseMaxCalories  = 500.0
	baseMinProtein   = 20.0
	baseMinRasaCount = 4
)

type mealTarget struct {
	maxCalories  float64
	minProtein   float64
	minRasaCount int
}

var mealTargets = map[models.MealType]mealTarget{
	models.MealBreakfast: {maxCalories: 400, minProtein: 15, minRasaCount: baseMinRasaCount},
	models.MealLunch:     {maxCalories: 600, minProtein: 25, minRasaCount: 5},
	models.MealDinner:    {maxCalories: 500, minProtein: 20, minRasaCount: 4},
	models.MealSnack:     {maxCalories: 200, minProtein: 5, minRasaCount: 2},
}

// DefaultConstraints returns the meal-type targets for patient, aimed at the patient's target dosha.
func DefaultConstraints(mealType models.MealType, patient models.PatientProfile) models.MealConstraints {
	t, ok := mealTargets[mealType]
	if !ok {
		t = mealTarget{maxCalories: baseMaxCalories, minProtein: baseMinProtein, minRasaCount: baseMinRasaCount}
	}
	return models.MealConstraints{
		MaxCalories:  t.maxCalories,
		MinProtein:   t.minProtein,
		MinRasaCount: t.minRasaCount,
		TargetDosha:  patient.TargetDosha(),
	}
}
