package planner

import (
	"context"
	"time"

	"github.com/google/uuid"

	"mcp-ahara/internal/apperrors"
	"mcp-ahara/internal/composer"
	"mcp-ahara/internal/models"
	"mcp-ahara/internal/quiz"
)

// SavePatient stores a profile, assigning an id when it has none. A prakriti without
// a dominant dosha has it derived from the percentages.
func (s *Service) SavePatient(ctx context.Context, req SavePatientRequest) (*Response, error) {
	store, err := s.requireStore()
	if err != nil {
		return nil, err
	}

	patient := req.Patient
	if patient.ID == "" {
		patient.ID = "patient_" + uuid.NewString()
	}
	if patient.Prakriti.Dominant == "" {
		p := patient.Prakriti
		patient.Prakriti = models.NewDoshaPrakriti(p.Vata, p.Pitta, p.Kapha)
	}
	req.Patient = patient
	if err := s.validate(req); err != nil {
		return nil, err
	}
	if err := patient.Validate(); err != nil {
		return nil, apperrors.NewInvalidInputError("patient: %v", err)
	}

	if err := store.SavePatient(ctx, patient); err != nil {
		return nil, err
	}
	return s.respond("", patient), nil
}

func (s *Service) GetPatient(ctx context.Context, req GetPatientRequest) (*Response, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	store, err := s.requireStore()
	if err != nil {
		return nil, err
	}
	patient, err := store.GetPatient(ctx, req.PatientID)
	if err != nil {
		return nil, err
	}
	return s.respond("", patient), nil
}

func (s *Service) ListPatients(ctx context.Context, req ListRequest) (*Response, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	store, err := s.requireStore()
	if err != nil {
		return nil, err
	}
	patients, err := store.ListPatients(ctx, req.Limit)
	if err != nil {
		return nil, err
	}
	return s.respond("", patients), nil
}

// AssessPrakriti scores a questionnaire. With a patient id the result replaces the
// patient's prakriti; either way it is recorded when storage is configured.
func (s *Service) AssessPrakriti(ctx context.Context, req AssessPrakritiRequest) (*Response, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	result, err := s.assessor.Assess(req.Answers)
	if err != nil {
		return nil, err
	}

	if req.PatientID != "" {
		store, err := s.requireStore()
		if err != nil {
			return nil, err
		}
		patient, err := store.GetPatient(ctx, req.PatientID)
		if err != nil {
			return nil, err
		}
		patient.Prakriti = result.Prakriti
		if err := store.SavePatient(ctx, patient); err != nil {
			return nil, err
		}
		result.PatientID = patient.ID
	}
	if s.store != nil {
		if err := s.store.SaveQuizResult(ctx, result); err != nil {
			return nil, err
		}
	}
	return s.respond(quiz.AlgorithmVersion, result), nil
}

// QuizHistory lists a patient's assessments, newest first.
func (s *Service) QuizHistory(ctx context.Context, req QuizHistoryRequest) (*Response, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	store, err := s.requireStore()
	if err != nil {
		return nil, err
	}
	results, err := store.GetQuizResults(ctx, req.PatientID, req.Limit)
	if err != nil {
		return nil, err
	}
	return s.respond(quiz.AlgorithmVersion, results), nil
}

// SaveMeal records a meal against a stored patient, scoring it and checking it
// against the meal type's default constraints at save time.
func (s *Service) SaveMeal(ctx context.Context, req SaveMealRequest) (*Response, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	store, err := s.requireStore()
	if err != nil {
		return nil, err
	}
	patient, err := store.GetPatient(ctx, req.PatientID)
	if err != nil {
		return nil, err
	}
	items, err := s.mealItems(req.Foods)
	if err != nil {
		return nil, err
	}

	now := s.clock().UTC()
	timestamp := now
	if req.Timestamp != "" {
		timestamp, err = time.Parse(time.RFC3339, req.Timestamp)
		if err != nil {
			return nil, apperrors.NewInvalidInputError("invalid timestamp %q: %v", req.Timestamp, err)
		}
	}

	meal := models.NewMeal(s.newMealID(), req.MealType, items)
	details := composer.Evaluate(meal, composer.DefaultConstraints(req.MealType, patient))
	saved := models.SavedMeal{
		ID:                   meal.ID,
		PatientID:            patient.ID,
		Name:                 meal.Name,
		Type:                 meal.Type,
		Timestamp:            timestamp.UTC(),
		Items:                make([]models.SavedMealItem, 0, len(items)),
		TotalCalories:        meal.TotalNutrition.Calories,
		TotalProtein:         meal.TotalNutrition.Protein,
		TotalANHScore:        s.composer.MealScore(items, patient),
		ConstraintsSatisfied: details.All(),
		Algorithm:            composer.AlgorithmVersion,
		CreatedAt:            now,
	}
	for _, item := range items {
		saved.Items = append(saved.Items, models.SavedMealItem{
			FoodID:   item.FoodID,
			Quantity: item.Quantity,
			Unit:     item.Unit,
		})
	}

	if err := store.SaveMeal(ctx, saved); err != nil {
		return nil, err
	}
	return s.respond(composer.AlgorithmVersion, saved), nil
}

// GetMeals lists a patient's saved meals, newest first, within an optional date range.
func (s *Service) GetMeals(ctx context.Context, req GetMealsRequest) (*Response, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	store, err := s.requireStore()
	if err != nil {
		return nil, err
	}
	meals, err := store.GetMeals(ctx, req.PatientID, req.StartDate, req.EndDate, req.Limit)
	if err != nil {
		return nil, err
	}
	return s.respond("", meals), nil
}
