package scoring

import (
	"sort"

	"mcp-ahara/internal/models"
)

type ScoredFood struct {
	Food  models.Food           `json:"food"`
	Score models.ANHScoreResult `json:"score"`
}

// Rank scores every food and orders them by total score, highest first. Ties keep input order.
func (s *Scorer) Rank(foods []models.Food, patient models.PatientProfile, cfg Config) []ScoredFood {
	scored := make([]ScoredFood, len(foods))
	for i, f := range foods {
		scored[i] = ScoredFood{Food: f, Score: s.ScoreWith(f, patient, cfg)}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score.TotalScore > scored[j].Score.TotalScore
	})
	return scored
}

// TopRecommendations returns the first min(n, len(foods)) entries of the ranking.
func (s *Scorer) TopRecommendations(foods []models.Food, patient models.PatientProfile, n int, cfg Config) []ScoredFood {
	ranked := s.Rank(foods, patient, cfg)
	if n < 0 {
		n = 0
	}
	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

// FilterByMinScore keeps the ranked foods scoring at least minScore.
func (s *Scorer) FilterByMinScore(foods []models.Food, patient models.PatientProfile, minScore int, cfg Config) []ScoredFood {
	ranked := s.Rank(foods, patient, cfg)
	out := ranked[:0]
	for _, sf := range ranked {
		if sf.Score.TotalScore >= minScore {
			out = append(out, sf)
		}
	}
	return out
}
