package planner

import (
	"context"

	"mcp-ahara/internal/composer"
	"mcp-ahara/internal/models"
	"mcp-ahara/internal/viruddha"
)

// PlannedMeal is a composed meal together with the incompatibilities among its foods.
type PlannedMeal struct {
	composer.ComposedMeal
	Compatibility viruddha.Result `json:"compatibility"`
}

type PlannedDay struct {
	Breakfast     PlannedMeal `json:"breakfast"`
	Lunch         PlannedMeal `json:"lunch"`
	Dinner        PlannedMeal `json:"dinner"`
	Snack         PlannedMeal `json:"snack"`
	TotalCalories float64     `json:"total_calories"`
	TotalProtein  float64     `json:"total_protein"`
}

type OptimizedResult struct {
	composer.OptimizedMeal
	Compatibility viruddha.Result `json:"compatibility"`
}

func (s *Service) plan(meal composer.ComposedMeal) PlannedMeal {
	return PlannedMeal{
		ComposedMeal:  meal,
		Compatibility: s.checker.CheckMeal(meal.Meal.FoodList()),
	}
}

// ComposeMeal builds one meal for a patient and checks it for incompatible pairs.
func (s *Service) ComposeMeal(ctx context.Context, req ComposeMealRequest) (*Response, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	patient, err := s.resolvePatient(ctx, req.PatientRef)
	if err != nil {
		return nil, err
	}

	meal, err := s.composer.Compose(patient, req.MealType, req.Constraints)
	if err != nil {
		return nil, err
	}
	return s.respond(composer.AlgorithmVersion, s.plan(meal)), nil
}

// DailyPlan composes breakfast, lunch, dinner and a snack with the same overrides.
func (s *Service) DailyPlan(ctx context.Context, req DailyPlanRequest) (*Response, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	patient, err := s.resolvePatient(ctx, req.PatientRef)
	if err != nil {
		return nil, err
	}

	day, err := s.composer.DailyPlan(patient, req.Constraints)
	if err != nil {
		return nil, err
	}

	planned := PlannedDay{
		Breakfast: s.plan(day.Breakfast),
		Lunch:     s.plan(day.Lunch),
		Dinner:    s.plan(day.Dinner),
		Snack:     s.plan(day.Snack),
	}
	for _, m := range []PlannedMeal{planned.Breakfast, planned.Lunch, planned.Dinner, planned.Snack} {
		planned.TotalCalories += m.Meal.TotalNutrition.Calories
		planned.TotalProtein += m.Meal.TotalNutrition.Protein
	}
	return s.respond(composer.AlgorithmVersion, planned), nil
}

// OptimizeMeal swaps the weakest item of a caller-built meal for a better food of
// the same category. Iterative requests repeat the swap up to max_rounds times.
func (s *Service) OptimizeMeal(ctx context.Context, req OptimizeMealRequest) (*Response, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	patient, err := s.resolvePatient(ctx, req.PatientRef)
	if err != nil {
		return nil, err
	}
	items, err := s.mealItems(req.Foods)
	if err != nil {
		return nil, err
	}

	meal := models.NewMeal(req.MealID, req.MealType, items)

	rounds := 1
	if req.Iterative {
		rounds = req.MaxRounds
		if rounds == 0 {
			rounds = defaultMaxRounds
		}
	}
	optimized, err := s.composer.OptimizeIteratively(meal, patient, req.Constraints, rounds)
	if err != nil {
		return nil, err
	}
	return s.respond(composer.AlgorithmVersion, OptimizedResult{
		OptimizedMeal: optimized,
		Compatibility: s.checker.CheckMeal(optimized.Meal.FoodList()),
	}), nil
}
