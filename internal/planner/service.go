// Package planner is the request/response surface over the scoring, composition and
// compatibility engines. Every response carries the algorithm that produced it.
package planner

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"mcp-ahara/internal/apperrors"
	"mcp-ahara/internal/composer"
	"mcp-ahara/internal/dataset"
	"mcp-ahara/internal/models"
	"mcp-ahara/internal/quiz"
	"mcp-ahara/internal/recipe"
	"mcp-ahara/internal/scoring"
	"mcp-ahara/internal/substitution"
	"mcp-ahara/internal/viruddha"
)

const (
	defaultRankLimit   = 20
	defaultRecipeLimit = 10
	defaultMaxRounds   = 5
)

// Store persists patients, assessments and meals.
type Store interface {
	SavePatient(ctx context.Context, patient models.PatientProfile) error
	GetPatient(ctx context.Context, id string) (models.PatientProfile, error)
	ListPatients(ctx context.Context, limit int) ([]models.PatientProfile, error)
	SaveQuizResult(ctx context.Context, result models.PrakritiQuizResult) error
	GetQuizResults(ctx context.Context, patientID string, limit int) ([]models.PrakritiQuizResult, error)
	SaveMeal(ctx context.Context, meal models.SavedMeal) error
	GetMeals(ctx context.Context, patientID, startDate, endDate string, limit int) ([]models.SavedMeal, error)
}

type Meta struct {
	Algorithm string    `json:"algorithm,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type Response struct {
	Data interface{} `json:"data"`
	Meta Meta        `json:"meta"`
}

type Config struct {
	Scoring         scoring.Config
	AllergyMatching string
}

type Service struct {
	catalog      *dataset.Catalog
	store        Store
	scorer       *scoring.Scorer
	composer     *composer.Composer
	checker      *viruddha.Checker
	recipes      *recipe.Scorer
	substitution *substitution.Engine
	assessor     *quiz.Assessor
	validator    *validator.Validate
	clock        func() time.Time
	newMealID    func() string
	issues       []viruddha.Issue
}

type Option func(*serviceOptions)

type serviceOptions struct {
	store       Store
	clock       func() time.Time
	newMealID   func() string
	newResultID func() string
}

// WithStore enables the patient, quiz and meal persistence operations.
func WithStore(store Store) Option {
	return func(o *serviceOptions) {
		o.store = store
	}
}

// WithClock fixes the clock used for seasons, response timestamps and saved records.
func WithClock(clock func() time.Time) Option {
	return func(o *serviceOptions) {
		o.clock = clock
	}
}

// WithIDGenerators replaces the meal and quiz-result id sources.
func WithIDGenerators(meal, result func() string) Option {
	return func(o *serviceOptions) {
		o.newMealID = meal
		o.newResultID = result
	}
}

// New wires the engines over catalog. Rules that fail validation are skipped and
// reported through Issues.
func New(catalog *dataset.Catalog, cfg Config, opts ...Option) *Service {
	o := serviceOptions{
		clock:     time.Now,
		newMealID: func() string { return "meal_" + uuid.NewString() },
	}
	for _, opt := range opts {
		opt(&o)
	}

	scorer := scoring.NewScorer(cfg.Scoring, scoring.WithClock(o.clock))
	quizOpts := []quiz.Option{quiz.WithClock(o.clock)}
	if o.newResultID != nil {
		quizOpts = append(quizOpts, quiz.WithIDGenerator(o.newResultID))
	}

	meals := composer.New(catalog.Foods(), scorer,
		composer.WithAllergyMatcher(composer.MatcherFor(cfg.AllergyMatching)),
		composer.WithIDGenerator(o.newMealID))
	index, issues := viruddha.BuildIndex(catalog.Rules(), catalog)

	return &Service{
		catalog:      catalog,
		store:        o.store,
		scorer:       scorer,
		composer:     meals,
		checker:      viruddha.NewChecker(index),
		recipes:      recipe.NewScorer(catalog, scorer),
		substitution: substitution.NewEngine(catalog, scorer),
		assessor:     quiz.NewAssessor(catalog.Quiz(), quizOpts...),
		validator:    newValidator(),
		clock:        o.clock,
		newMealID:    o.newMealID,
		issues:       issues,
	}
}

// Issues lists the incompatibility rules skipped at startup.
func (s *Service) Issues() []viruddha.Issue {
	return s.issues
}

func (s *Service) respond(algorithm string, data interface{}) *Response {
	return &Response{
		Data: data,
		Meta: Meta{Algorithm: algorithm, Timestamp: s.clock().UTC()},
	}
}

// resolvePatient prefers the inline profile and falls back to the stored one.
func (s *Service) resolvePatient(ctx context.Context, ref PatientRef) (models.PatientProfile, error) {
	if ref.Patient != nil {
		if err := ref.Patient.Validate(); err != nil {
			return models.PatientProfile{}, apperrors.NewInvalidInputError("patient: %v", err)
		}
		return *ref.Patient, nil
	}
	if ref.PatientID == "" {
		return models.PatientProfile{}, apperrors.NewInvalidInputError("patient or patient_id is required")
	}
	store, err := s.requireStore()
	if err != nil {
		return models.PatientProfile{}, err
	}
	return store.GetPatient(ctx, ref.PatientID)
}

// optionalPatient resolves ref only when it names a patient.
func (s *Service) optionalPatient(ctx context.Context, ref PatientRef) (*models.PatientProfile, error) {
	if ref.Patient == nil && ref.PatientID == "" {
		return nil, nil
	}
	p, err := s.resolvePatient(ctx, ref)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Service) requireStore() (Store, error) {
	if s.store == nil {
		return nil, apperrors.NewInternalError("storage is not configured")
	}
	return s.store, nil
}

func (s *Service) food(id string) (models.Food, error) {
	f, ok := s.catalog.Food(id)
	if !ok {
		return models.Food{}, apperrors.NewNotFoundError("food", id)
	}
	return f, nil
}

// mealItems builds meal items from ids and quantities; unknown ids are NotFound.
func (s *Service) mealItems(foods []FoodQuantity) ([]models.MealItem, error) {
	items := make([]models.MealItem, 0, len(foods))
	for _, fq := range foods {
		f, err := s.food(fq.FoodID)
		if err != nil {
			return nil, err
		}
		items = append(items, models.NewMealItem(f, fq.Quantity))
	}
	return items, nil
}
