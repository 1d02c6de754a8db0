// internal/models/condition.go
package models

type NutrientRange struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

type NutrientRecommendation struct {
	Nutrient    string         `json:"nutrient" yaml:"nutrient"`
	Direction   string         `json:"direction" yaml:"direction"`
	TargetRange *NutrientRange `json:"target_range,omitempty" yaml:"target_range"`
	Unit        string         `json:"unit" yaml:"unit"`
}

type HealthCondition struct {
	ID                        string                   `json:"id" yaml:"id"`
	Name                      string                   `json:"name" yaml:"name"`
	NameAyurvedic             string                   `json:"name_ayurvedic,omitempty" yaml:"name_ayurvedic"`
	Description               string                   `json:"description" yaml:"description"`
	AffectedDoshas            []DoshaType              `json:"affected_doshas" yaml:"affected_doshas"`
	RecommendedNutrients      []NutrientRecommendation `json:"recommended_nutrients" yaml:"recommended_nutrients"`
	AvoidFoodCategories       []FoodCategory           `json:"avoid_food_categories" yaml:"avoid_food_categories"`
	RecommendedFoodCategories []FoodCategory           `json:"recommended_food_categories" yaml:"recommended_food_categories"`
	DietaryGuidelines         []string                 `json:"dietary_guidelines" yaml:"dietary_guidelines"`
}
