package scoring

import "mcp-ahara/internal/models"

const (
	DefaultAyurvedicWeight   = 0.5
	DefaultNutritionalWeight = 0.5
	DefaultCalorieTarget     = 500.0
	DefaultProteinTarget     = 20.0
)

// Config tunes a score. An empty Season means the season of the scorer's clock.
type Config struct {
	AyurvedicWeight   float64       `json:"ayurvedic_weight"`
	NutritionalWeight float64       `json:"nutritional_weight"`
	CalorieTarget     float64       `json:"calorie_target"`
	ProteinTarget     float64       `json:"protein_target"`
	Season            models.Season `json:"season,omitempty"`
}

func DefaultConfig() Config {
	return Config{
		AyurvedicWeight:   DefaultAyurvedicWeight,
		NutritionalWeight: DefaultNutritionalWeight,
		CalorieTarget:     DefaultCalorieTarget,
		ProteinTarget:     DefaultProteinTarget,
	}
}

// Overrides is the per-call partial config a caller may send.
type Overrides struct {
	AyurvedicWeight   *float64      `json:"ayurvedic_weight,omitempty" validate:"omitempty,gte=0"`
	NutritionalWeight *float64      `json:"nutritional_weight,omitempty" validate:"omitempty,gte=0"`
	CalorieTarget     *float64      `json:"calorie_target,omitempty" validate:"omitempty,gt=0"`
	ProteinTarget     *float64      `json:"protein_target,omitempty" validate:"omitempty,gte=0"`
	Season            models.Season `json:"season,omitempty" validate:"omitempty,oneof=vasanta grishma varsha sharad hemanta shishira"`
}

func (o *Overrides) Apply(base Config) Config {
	if o == nil {
		return base
	}
	if o.AyurvedicWeight != nil {
		base.AyurvedicWeight = *o.AyurvedicWeight
	}
	if o.NutritionalWeight != nil {
		base.NutritionalWeight = *o.NutritionalWeight
	}
	if o.CalorieTarget != nil {
		base.CalorieTarget = *o.CalorieTarget
	}
	if o.ProteinTarget != nil {
		base.ProteinTarget = *o.ProteinTarget
	}
	if o.Season != "" {
		base.Season = o.Season
	}
	return base
}
