package planner

import (
	"context"

	"mcp-ahara/internal/apperrors"
	"mcp-ahara/internal/recipe"
)

type TopRecipesResult struct {
	Considered int             `json:"considered"`
	Recipes    []recipe.Result `json:"recipes"`
}

// ScoreRecipe aggregates a catalog recipe and scores it for a patient.
func (s *Service) ScoreRecipe(ctx context.Context, req ScoreRecipeRequest) (*Response, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	patient, err := s.resolvePatient(ctx, req.PatientRef)
	if err != nil {
		return nil, err
	}
	r, ok := s.catalog.Recipe(req.RecipeID)
	if !ok {
		return nil, apperrors.NewNotFoundError("recipe", req.RecipeID)
	}
	return s.respond(recipe.AlgorithmVersion, s.recipes.Score(r, patient)), nil
}

// TopRecipes ranks the recipes a patient's diet allows, optionally dropping those
// contraindicated for a health condition.
func (s *Service) TopRecipes(ctx context.Context, req TopRecipesRequest) (*Response, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	patient, err := s.resolvePatient(ctx, req.PatientRef)
	if err != nil {
		return nil, err
	}

	recipes := recipe.FilterByPreference(s.catalog.Recipes(), patient.DietaryPreferences)
	if req.ConditionID != "" {
		if _, ok := s.catalog.Condition(req.ConditionID); !ok {
			return nil, apperrors.NewNotFoundError("condition", req.ConditionID)
		}
		recipes = recipe.ForCondition(recipes, req.ConditionID)
	}

	limit := req.Limit
	if limit == 0 {
		limit = defaultRecipeLimit
	}
	return s.respond(recipe.AlgorithmVersion, TopRecipesResult{
		Considered: len(recipes),
		Recipes:    s.recipes.TopRecipes(recipes, patient, limit),
	}), nil
}

// ListRecipes returns the recipe catalog.
func (s *Service) ListRecipes(_ context.Context) (*Response, error) {
	return s.respond("", s.catalog.Recipes()), nil
}

// ListConditions returns the health conditions with their dietary guidance.
func (s *Service) ListConditions(_ context.Context) (*Response, error) {
	return s.respond("", s.catalog.Conditions()), nil
}

// ListQuestions returns the constitution questionnaire without its scoring weights.
func (s *Service) ListQuestions(_ context.Context) (*Response, error) {
	type option struct {
		Index int    `json:"index"`
		Text  string `json:"text"`
	}
	type question struct {
		ID       string   `json:"id"`
		Question string   `json:"question"`
		Category string   `json:"category"`
		Options  []option `json:"options"`
	}

	questions := []question{}
	for _, q := range s.assessor.Questions() {
		out := question{ID: q.ID, Question: q.Question, Category: q.Category, Options: []option{}}
		for i, o := range q.Options {
			out.Options = append(out.Options, option{Index: i, Text: o.Text})
		}
		questions = append(questions, out)
	}
	return s.respond("", questions), nil
}
