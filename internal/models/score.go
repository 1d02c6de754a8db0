// internal/models/score.go
package models

// ScoreBreakdown holds the six component scores, each 0-100.
type ScoreBreakdown struct {
	DoshaBalance         int `json:"dosha_balance"`
	ViryaMatch           int `json:"virya_match"`
	RasaDiversity        int `json:"rasa_diversity"`
	CaloriesFit          int `json:"calories_fit"`
	ProteinFit           int `json:"protein_fit"`
	MicronutrientDensity int `json:"micronutrient_density"`
}

// ANHScoreResult is a computed value and is never persisted.
type ANHScoreResult struct {
	TotalScore       int            `json:"total_score"`
	AyurvedicScore   int            `json:"ayurvedic_score"`
	NutritionalScore int            `json:"nutritional_score"`
	Breakdown        ScoreBreakdown `json:"breakdown"`
	Recommendations  []string       `json:"recommendations"`
	Warnings         []string       `json:"warnings"`
}
