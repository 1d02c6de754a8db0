// internal/models/saved.go
package models

import "time"

type SavedMealItem struct {
	FoodID   string  `json:"food_id"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// SavedMeal is a meal recorded against a patient. Scores are captured at save time.
type SavedMeal struct {
	ID                   string          `json:"id"`
	PatientID            string          `json:"patient_id"`
	Name                 string          `json:"name"`
	Type                 MealType        `json:"type"`
	Timestamp            time.Time       `json:"timestamp"`
	Items                []SavedMealItem `json:"items"`
	TotalCalories        float64         `json:"total_calories"`
	TotalProtein         float64         `json:"total_protein"`
	TotalANHScore        int             `json:"total_anh_score"`
	ConstraintsSatisfied bool            `json:"constraints_satisfied"`
	Algorithm            string          `json:"algorithm"`
	CreatedAt            time.Time       `json:"created_at"`
}
