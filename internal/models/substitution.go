// internal/models/substitution.go
package models

// SubstitutionRule is a curated mapping from a food (or a whole category) to alternatives for one reason.
type SubstitutionRule struct {
	OriginalFoodID   string       `json:"original_food_id,omitempty" yaml:"original_food_id"`
	OriginalCategory FoodCategory `json:"original_category,omitempty" yaml:"original_category"`
	Reason           string       `json:"reason" yaml:"reason"`
	Alternatives     []string     `json:"alternatives" yaml:"alternatives"`
	Note             string       `json:"note,omitempty" yaml:"note"`
}
