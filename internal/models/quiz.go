// internal/models/quiz.go
package models

import "time"

type PrakritiOption struct {
	Text       string  `json:"text" yaml:"text"`
	VataScore  float64 `json:"vata_score" yaml:"vata_score"`
	PittaScore float64 `json:"pitta_score" yaml:"pitta_score"`
	KaphaScore float64 `json:"kapha_score" yaml:"kapha_score"`
}

type PrakritiQuestion struct {
	ID       string           `json:"id" yaml:"id"`
	Question string           `json:"question" yaml:"question"`
	Category string           `json:"category" yaml:"category"`
	Options  []PrakritiOption `json:"options" yaml:"options"`
}

type Interpretation struct {
	Description     string   `json:"description" yaml:"description"`
	Recommendations []string `json:"recommendations" yaml:"recommendations"`
}

type PrakritiQuiz struct {
	Questions       []PrakritiQuestion        `json:"questions" yaml:"questions"`
	Interpretations map[string]Interpretation `json:"interpretations" yaml:"interpretations"`
}

type PrakritiQuizResult struct {
	ID              string        `json:"id"`
	PatientID       string        `json:"patient_id,omitempty"`
	TotalVata       float64       `json:"total_vata"`
	TotalPitta      float64       `json:"total_pitta"`
	TotalKapha      float64       `json:"total_kapha"`
	Prakriti        DoshaPrakriti `json:"prakriti"`
	Description     string        `json:"description"`
	Recommendations []string      `json:"recommendations"`
	CreatedAt       time.Time     `json:"created_at"`
}
