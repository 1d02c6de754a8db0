// internal/models/recipe.go
package models

type RecipeCategory string

const (
	RecipeVegan         RecipeCategory = "vegan"
	RecipeVegetarian    RecipeCategory = "vegetarian"
	RecipeNonVegetarian RecipeCategory = "non_vegetarian"
)

type CookingMethod string

const (
	CookingBoiled         CookingMethod = "boiled"
	CookingSteamed        CookingMethod = "steamed"
	CookingPressureCooked CookingMethod = "pressure_cooked"
	CookingSlowCooked     CookingMethod = "slow_cooked"
	CookingSauteed        CookingMethod = "sauteed"
	CookingTempered       CookingMethod = "tempered"
	CookingRoasted        CookingMethod = "roasted"
	CookingBaked          CookingMethod = "baked"
	CookingFried          CookingMethod = "fried"
	CookingRaw            CookingMethod = "raw"
)

type RecipeIngredient struct {
	FoodID   string  `json:"food_id" yaml:"food_id"`
	Quantity float64 `json:"quantity" yaml:"quantity"`
	Unit     string  `json:"unit" yaml:"unit"`
}

type Recipe struct {
	ID                string             `json:"id" yaml:"id"`
	Name              string             `json:"name" yaml:"name"`
	NameHindi         string             `json:"name_hindi,omitempty" yaml:"name_hindi"`
	Category          RecipeCategory     `json:"category" yaml:"category"`
	Region            string             `json:"region,omitempty" yaml:"region"`
	MealTypes         []MealType         `json:"meal_types,omitempty" yaml:"meal_types"`
	Servings          int                `json:"servings" yaml:"servings"`
	PreparationMethod CookingMethod      `json:"preparation_method" yaml:"preparation_method"`
	Ingredients       []RecipeIngredient `json:"ingredients" yaml:"ingredients"`
	Season            []Season           `json:"season,omitempty" yaml:"season"`
	HealthBenefits    []string           `json:"health_benefits,omitempty" yaml:"health_benefits"`
	Contraindications []string           `json:"contraindications,omitempty" yaml:"contraindications"`
}

// CookingModifier nudges a recipe's potency tally and dosha effect.
type CookingModifier struct {
	ViryaShift    float64     `json:"virya_shift" yaml:"virya_shift"`
	DoshaModifier DoshaEffect `json:"dosha_modifier" yaml:"dosha_modifier"`
	GunaChange    []string    `json:"guna_change" yaml:"guna_change"`
}
