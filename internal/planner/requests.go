package planner

import (
	"mcp-ahara/internal/models"
	"mcp-ahara/internal/scoring"
)

// PatientRef carries either an inline profile or the id of a stored one.
type PatientRef struct {
	Patient   *models.PatientProfile `json:"patient,omitempty"`
	PatientID string                 `json:"patient_id,omitempty"`
}

type FoodQuantity struct {
	FoodID   string  `json:"food_id" validate:"required"`
	Quantity float64 `json:"quantity" validate:"gt=0,lte=10"`
}

type ScoreFoodRequest struct {
	PatientRef
	FoodID string             `json:"food_id" validate:"required"`
	Config *scoring.Overrides `json:"config,omitempty"`
}

type RankFoodsRequest struct {
	PatientRef
	Limit    int                 `json:"limit,omitempty" validate:"gte=0,lte=500"`
	MinScore *int                `json:"min_score,omitempty" validate:"omitempty,gte=0,lte=100"`
	Category models.FoodCategory `json:"category,omitempty"`
	Config   *scoring.Overrides  `json:"config,omitempty"`
}

type ComposeMealRequest struct {
	PatientRef
	MealType    models.MealType             `json:"meal_type" validate:"required,meal_type"`
	Constraints *models.ConstraintOverrides `json:"constraints,omitempty"`
}

type DailyPlanRequest struct {
	PatientRef
	Constraints *models.ConstraintOverrides `json:"constraints,omitempty"`
}

type OptimizeMealRequest struct {
	PatientRef
	MealID      string                      `json:"meal_id,omitempty"`
	MealType    models.MealType             `json:"meal_type" validate:"required,meal_type"`
	Foods       []FoodQuantity              `json:"foods" validate:"dive"`
	Constraints *models.ConstraintOverrides `json:"constraints,omitempty"`
	Iterative   bool                        `json:"iterative,omitempty"`
	MaxRounds   int                         `json:"max_rounds,omitempty" validate:"gte=0,lte=50"`
}

type ValidatePairRequest struct {
	Food1ID string `json:"food1_id" validate:"required"`
	Food2ID string `json:"food2_id" validate:"required"`
}

// MealFood is a meal entry for compatibility checks. A missing quantity counts as one serving.
type MealFood struct {
	FoodID   string  `json:"food_id" validate:"required"`
	Quantity float64 `json:"quantity,omitempty" validate:"gte=0,lte=10"`
}

// ValidateMealRequest takes the meal as foods; food_ids is accepted as a shorthand.
type ValidateMealRequest struct {
	Foods   []MealFood `json:"foods" validate:"required_without=FoodIDs,dive"`
	FoodIDs []string   `json:"food_ids,omitempty" validate:"required_without=Foods"`
}

type ValidateAdditionRequest struct {
	ExistingFoodIDs []string `json:"existing_food_ids"`
	NewFoodID       string   `json:"new_food_id" validate:"required"`
}

type TimeOfDayRequest struct {
	FoodID    string           `json:"food_id" validate:"required"`
	TimeOfDay models.TimeOfDay `json:"time_of_day" validate:"required,time_of_day"`
}

type ScoreRecipeRequest struct {
	PatientRef
	RecipeID string `json:"recipe_id" validate:"required"`
}

type TopRecipesRequest struct {
	PatientRef
	Limit       int    `json:"limit,omitempty" validate:"gte=0,lte=100"`
	ConditionID string `json:"condition_id,omitempty"`
}

type FindSubstitutesRequest struct {
	PatientRef
	FoodID string `json:"food_id" validate:"required"`
	Reason string `json:"reason" validate:"required,substitution_reason"`
	Count  int    `json:"count,omitempty" validate:"gte=0,lte=50"`
}

type AssessPrakritiRequest struct {
	Answers   map[string]int `json:"answers" validate:"required"`
	PatientID string         `json:"patient_id,omitempty"`
}

type SavePatientRequest struct {
	Patient models.PatientProfile `json:"patient"`
}

type GetPatientRequest struct {
	PatientID string `json:"patient_id" validate:"required"`
}

type ListRequest struct {
	Limit int `json:"limit,omitempty" validate:"gte=0,lte=500"`
}

type SaveMealRequest struct {
	PatientID string          `json:"patient_id" validate:"required"`
	MealType  models.MealType `json:"meal_type" validate:"required,meal_type"`
	Foods     []FoodQuantity  `json:"foods" validate:"required,min=1,dive"`
	Timestamp string          `json:"timestamp,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

type GetMealsRequest struct {
	PatientID string `json:"patient_id" validate:"required"`
	StartDate string `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Limit     int    `json:"limit,omitempty" validate:"gte=0,lte=500"`
}

type RecipeSubstitutesRequest struct {
	PatientRef
	RecipeID string `json:"recipe_id" validate:"required"`
	Reason   string `json:"reason" validate:"required,substitution_reason"`
}

type AllergySubstitutesRequest struct {
	PatientRef
	FoodID string `json:"food_id" validate:"required"`
}

type QuizHistoryRequest struct {
	PatientID string `json:"patient_id" validate:"required"`
	Limit     int    `json:"limit,omitempty" validate:"gte=0,lte=500"`
}
