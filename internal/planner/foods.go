package planner

import (
	"context"

	"mcp-ahara/internal/apperrors"
	"mcp-ahara/internal/models"
	"mcp-ahara/internal/scoring"
)

// ScoreFood computes the ANH score of one food for a patient.
func (s *Service) ScoreFood(ctx context.Context, req ScoreFoodRequest) (*Response, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	patient, err := s.resolvePatient(ctx, req.PatientRef)
	if err != nil {
		return nil, err
	}
	food, err := s.food(req.FoodID)
	if err != nil {
		return nil, err
	}

	cfg := req.Config.Apply(s.scorer.Config())
	return s.respond(scoring.AlgorithmVersion, scoring.ScoredFood{
		Food:  food,
		Score: s.scorer.ScoreWith(food, patient, cfg),
	}), nil
}

// RankedFood is one entry of a ranking, flattened from the food and its score.
type RankedFood struct {
	FoodID           string              `json:"food_id"`
	Name             string              `json:"name"`
	Category         models.FoodCategory `json:"category"`
	TotalScore       int                 `json:"total_score"`
	AyurvedicScore   int                 `json:"ayurvedic_score"`
	NutritionalScore int                 `json:"nutritional_score"`
}

func newRankedFood(sf scoring.ScoredFood) RankedFood {
	return RankedFood{
		FoodID:           sf.Food.ID,
		Name:             sf.Food.Name,
		Category:         sf.Food.Category,
		TotalScore:       sf.Score.TotalScore,
		AyurvedicScore:   sf.Score.AyurvedicScore,
		NutritionalScore: sf.Score.NutritionalScore,
	}
}

type RankFoodsResult struct {
	Season models.Season `json:"season"`
	Total  int           `json:"total"`
	Foods  []RankedFood  `json:"foods"`
}

// RankFoods ranks the catalog, or one category of it, for a patient.
func (s *Service) RankFoods(ctx context.Context, req RankFoodsRequest) (*Response, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	patient, err := s.resolvePatient(ctx, req.PatientRef)
	if err != nil {
		return nil, err
	}

	foods := s.catalog.Foods()
	if req.Category != "" {
		if !req.Category.Valid() {
			return nil, apperrors.NewInvalidInputError("unknown food category %q", req.Category)
		}
		foods = s.catalog.FoodsByCategory(req.Category)
	}

	cfg := req.Config.Apply(s.scorer.Config())
	var ranked []scoring.ScoredFood
	if req.MinScore != nil {
		ranked = s.scorer.FilterByMinScore(foods, patient, *req.MinScore, cfg)
	} else {
		ranked = s.scorer.Rank(foods, patient, cfg)
	}

	limit := req.Limit
	if limit == 0 {
		limit = defaultRankLimit
	}
	total := len(ranked)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	out := make([]RankedFood, 0, len(ranked))
	for _, sf := range ranked {
		out = append(out, newRankedFood(sf))
	}
	return s.respond(scoring.AlgorithmVersion, RankFoodsResult{
		Season: s.scorer.Season(cfg),
		Total:  total,
		Foods:  out,
	}), nil
}
