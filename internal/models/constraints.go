// internal/models/constraints.go
package models

// MealConstraints is the resolved constraint set for one composition call.
type MealConstraints struct {
	MaxCalories       float64        `json:"max_calories"`
	MinProtein        float64        `json:"min_protein"`
	MinRasaCount      int            `json:"min_rasa_count"`
	TargetDosha       DoshaType      `json:"target_dosha"`
	ViryaPreference   Virya          `json:"virya_preference,omitempty"`
	ExcludeFoods      []string       `json:"exclude_foods,omitempty"`
	IncludeCategories []FoodCategory `json:"include_categories,omitempty"`
	ExcludeCategories []FoodCategory `json:"exclude_categories,omitempty"`
}

// ConstraintOverrides carries caller-supplied constraints. Nil fields fall back to meal-type defaults.
type ConstraintOverrides struct {
	MaxCalories       *float64       `json:"max_calories,omitempty" validate:"omitempty,gt=0"`
	MinProtein        *float64       `json:"min_protein,omitempty" validate:"omitempty,gte=0"`
	MinRasaCount      *int           `json:"min_rasa_count,omitempty" validate:"omitempty,gte=0,lte=6"`
	TargetDosha       DoshaType      `json:"target_dosha,omitempty" validate:"omitempty,oneof=vata pitta kapha"`
	ViryaPreference   Virya          `json:"virya_preference,omitempty" validate:"omitempty,oneof=ushna sheeta"`
	ExcludeFoods      []string       `json:"exclude_foods,omitempty"`
	IncludeCategories []FoodCategory `json:"include_categories,omitempty"`
	ExcludeCategories []FoodCategory `json:"exclude_categories,omitempty"`
}

// Apply layers the overrides over base and returns the result.
func (o *ConstraintOverrides) Apply(base MealConstraints) MealConstraints {
	if o == nil {
		return base
	}
	if o.MaxCalories != nil {
		base.MaxCalories = *o.MaxCalories
	}
	if o.MinProtein != nil {
		base.MinProtein = *o.MinProtein
	}
	if o.MinRasaCount != nil {
		base.MinRasaCount = *o.MinRasaCount
	}
	if o.TargetDosha != "" {
		base.TargetDosha = o.TargetDosha
	}
	if o.ViryaPreference != "" {
		base.ViryaPreference = o.ViryaPreference
	}
	if o.ExcludeFoods != nil {
		base.ExcludeFoods = o.ExcludeFoods
	}
	if o.IncludeCategories != nil {
		base.IncludeCategories = o.IncludeCategories
	}
	if o.ExcludeCategories != nil {
		base.ExcludeCategories = o.ExcludeCategories
	}
	return base
}
