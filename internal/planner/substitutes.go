package planner

import (
	"context"

	"mcp-ahara/internal/apperrors"
	"mcp-ahara/internal/substitution"
)

// FindSubstitutes ranks alternatives for a food. The patient is optional; without
// one the ANH component of the blend is neutral.
func (s *Service) FindSubstitutes(ctx context.Context, req FindSubstitutesRequest) (*Response, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	reason, err := substitution.ParseReason(req.Reason)
	if err != nil {
		return nil, apperrors.NewInvalidInputError("%v", err)
	}
	patient, err := s.optionalPatient(ctx, req.PatientRef)
	if err != nil {
		return nil, err
	}

	result, err := s.substitution.Find(req.FoodID, reason, patient, req.Count)
	if err != nil {
		return nil, err
	}
	return s.respond(substitution.AlgorithmVersion, result), nil
}

type RecipeSubstitutesResult struct {
	RecipeID     string                `json:"recipe_id"`
	Reason       substitution.Reason   `json:"reason"`
	Substitutes  []substitution.Result `json:"substitutes"`
	UnknownFoods []string              `json:"unknown_foods,omitempty"`
}

// RecipeSubstitutes finds alternatives for every ingredient of a catalog recipe.
func (s *Service) RecipeSubstitutes(ctx context.Context, req RecipeSubstitutesRequest) (*Response, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	reason, err := substitution.ParseReason(req.Reason)
	if err != nil {
		return nil, apperrors.NewInvalidInputError("%v", err)
	}
	r, ok := s.catalog.Recipe(req.RecipeID)
	if !ok {
		return nil, apperrors.NewNotFoundError("recipe", req.RecipeID)
	}
	patient, err := s.optionalPatient(ctx, req.PatientRef)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		ids = append(ids, ing.FoodID)
	}
	results, unknown, err := s.substitution.ForRecipe(ids, reason, patient)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []substitution.Result{}
	}
	return s.respond(substitution.AlgorithmVersion, RecipeSubstitutesResult{
		RecipeID:     r.ID,
		Reason:       reason,
		Substitutes:  results,
		UnknownFoods: unknown,
	}), nil
}

// AllergySubstitutes picks the reason implied by the patient's allergies and ranks
// alternatives for the food under it.
func (s *Service) AllergySubstitutes(ctx context.Context, req AllergySubstitutesRequest) (*Response, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	patient, err := s.resolvePatient(ctx, req.PatientRef)
	if err != nil {
		return nil, err
	}
	result, err := s.substitution.ForAllergies(req.FoodID, patient)
	if err != nil {
		return nil, err
	}
	return s.respond(substitution.AlgorithmVersion, result), nil
}
