package planner

import (
	"context"

	"mcp-ahara/internal/apperrors"
	"mcp-ahara/internal/models"
	"mcp-ahara/internal/viruddha"
)

type CompatibilityResult struct {
	viruddha.Result
	Summary string   `json:"summary"`
	Skipped []string `json:"skipped,omitempty"`
}

type TimeOfDayResult struct {
	FoodID       string             `json:"food_id"`
	TimeOfDay    models.TimeOfDay   `json:"time_of_day"`
	IsCompatible bool               `json:"is_compatible"`
	Warnings     []viruddha.Warning `json:"warnings"`
}

type RulesResult struct {
	Rules   []models.ViruddhaRule `json:"rules"`
	Skipped []viruddha.Issue      `json:"skipped"`
}

func (s *Service) compatibility(r viruddha.Result, skipped []string) *Response {
	return s.respond(viruddha.AlgorithmVersion, CompatibilityResult{
		Result:  r,
		Summary: viruddha.Summary(r),
		Skipped: skipped,
	})
}

// knownFoods resolves ids against the catalog and returns the unknown ones separately.
func (s *Service) knownFoods(ids []string) ([]models.Food, []string) {
	var (
		foods   []models.Food
		unknown []string
	)
	for _, id := range ids {
		f, ok := s.catalog.Food(id)
		if !ok {
			unknown = append(unknown, id)
			continue
		}
		foods = append(foods, f)
	}
	return foods, unknown
}

// ValidatePair checks two foods against the incompatibility rules.
func (s *Service) ValidatePair(_ context.Context, req ValidatePairRequest) (*Response, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	a, err := s.food(req.Food1ID)
	if err != nil {
		return nil, err
	}
	b, err := s.food(req.Food2ID)
	if err != nil {
		return nil, err
	}
	return s.compatibility(s.checker.CheckPair(a, b), nil), nil
}

// ValidateMeal checks every pair of a meal. Unknown food ids are reported as skipped.
func (s *Service) ValidateMeal(_ context.Context, req ValidateMealRequest) (*Response, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(req.Foods)+len(req.FoodIDs))
	for _, f := range req.Foods {
		ids = append(ids, f.FoodID)
	}
	ids = append(ids, req.FoodIDs...)
	if len(ids) == 0 {
		return nil, apperrors.NewValidationError("foods must contain at least 1 item")
	}
	foods, unknown := s.knownFoods(ids)
	return s.compatibility(s.checker.CheckMeal(foods), unknown), nil
}

// ValidateAddition checks a new food against the foods already in a meal.
func (s *Service) ValidateAddition(_ context.Context, req ValidateAdditionRequest) (*Response, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	food, err := s.food(req.NewFoodID)
	if err != nil {
		return nil, err
	}
	existing, unknown := s.knownFoods(req.ExistingFoodIDs)
	return s.compatibility(s.checker.CheckAddition(existing, food), unknown), nil
}

// CheckTimeOfDay reports the time rules a food breaks when eaten at the given time.
func (s *Service) CheckTimeOfDay(_ context.Context, req TimeOfDayRequest) (*Response, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	food, err := s.food(req.FoodID)
	if err != nil {
		return nil, err
	}
	warnings := s.checker.CheckTimeOfDay(food, req.TimeOfDay)
	return s.respond(viruddha.AlgorithmVersion, TimeOfDayResult{
		FoodID:       food.ID,
		TimeOfDay:    req.TimeOfDay,
		IsCompatible: len(warnings) == 0,
		Warnings:     warnings,
	}), nil
}

// ListRules returns the loaded rules and the ones skipped as malformed.
func (s *Service) ListRules(_ context.Context) (*Response, error) {
	skipped := s.issues
	if skipped == nil {
		skipped = []viruddha.Issue{}
	}
	return s.respond(viruddha.AlgorithmVersion, RulesResult{
		Rules:   s.checker.Index().Rules(),
		Skipped: skipped,
	}), nil
}

// RuleGraph exports the pair rules as nodes and edges.
func (s *Service) RuleGraph(_ context.Context) (*Response, error) {
	return s.respond(viruddha.AlgorithmVersion, s.checker.Index().Graph()), nil
}
