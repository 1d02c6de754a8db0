// internal/models/patient.go
package models

import (
	"errors"
	"fmt"
)

type DoshaType string

const (
	DoshaVata  DoshaType = "vata"
	DoshaPitta DoshaType = "pitta"
	DoshaKapha DoshaType = "kapha"
)

var AllDoshas = []DoshaType{DoshaVata, DoshaPitta, DoshaKapha}

func (d DoshaType) Valid() bool {
	return d == DoshaVata || d == DoshaPitta || d == DoshaKapha
}

// secondaryDoshaThreshold is the percentage the runner-up dosha must exceed to be reported as secondary.
const secondaryDoshaThreshold = 25

// DoshaPrakriti is a dosha distribution in percent (summing to roughly 100).
type DoshaPrakriti struct {
	Vata      float64   `json:"vata" validate:"gte=0,lte=100"`
	Pitta     float64   `json:"pitta" validate:"gte=0,lte=100"`
	Kapha     float64   `json:"kapha" validate:"gte=0,lte=100"`
	Dominant  DoshaType `json:"dominant" validate:"required,oneof=vata pitta kapha"`
	Secondary DoshaType `json:"secondary,omitempty" validate:"omitempty,oneof=vata pitta kapha"`
}

// NewDoshaPrakriti computes the dominant and secondary dosha from percentages.
// Ties keep the vata, pitta, kapha order.
func NewDoshaPrakriti(vata, pitta, kapha float64) DoshaPrakriti {
	p := DoshaPrakriti{Vata: vata, Pitta: pitta, Kapha: kapha}
	ranked := p.Ranked()
	p.Dominant = ranked[0]
	if p.Percent(ranked[1]) > secondaryDoshaThreshold {
		p.Secondary = ranked[1]
	}
	return p
}

func (p DoshaPrakriti) Percent(d DoshaType) float64 {
	switch d {
	case DoshaVata:
		return p.Vata
	case DoshaPitta:
		return p.Pitta
	case DoshaKapha:
		return p.Kapha
	default:
		return 0
	}
}

// Ranked returns the doshas ordered by percentage, highest first.
func (p DoshaPrakriti) Ranked() []DoshaType {
	ranked := []DoshaType{DoshaVata, DoshaPitta, DoshaKapha}
	// insertion sort keeps ties stable
	for i := 1; i < len(ranked); i++ {
		for j := i; j > 0 && p.Percent(ranked[j]) > p.Percent(ranked[j-1]); j-- {
			ranked[j], ranked[j-1] = ranked[j-1], ranked[j]
		}
	}
	return ranked
}

// Validate checks that the dominant dosha holds the highest percentage.
func (p DoshaPrakriti) Validate() error {
	if !p.Dominant.Valid() {
		return fmt.Errorf("unknown dominant dosha %q", p.Dominant)
	}
	top := p.Percent(p.Dominant)
	for _, d := range AllDoshas {
		if p.Percent(d) > top {
			return fmt.Errorf("dominant dosha %s (%.0f%%) is lower than %s (%.0f%%)", p.Dominant, top, d, p.Percent(d))
		}
	}
	return nil
}

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

type DietaryPreference string

const (
	PreferenceVegetarian    DietaryPreference = "vegetarian"
	PreferenceVegan         DietaryPreference = "vegan"
	PreferenceEggetarian    DietaryPreference = "eggetarian"
	PreferenceNonVegetarian DietaryPreference = "non-vegetarian"
	PreferenceJain          DietaryPreference = "jain"
	PreferenceSattvic       DietaryPreference = "sattvic"
)

type WeightGoal string

const (
	WeightLose     WeightGoal = "lose"
	WeightMaintain WeightGoal = "maintain"
	WeightGain     WeightGoal = "gain"
)

type DietGoal string

const (
	GoalWeightLoss         DietGoal = "weight_loss"
	GoalWeightGain         DietGoal = "weight_gain"
	GoalMuscleBuilding     DietGoal = "muscle_building"
	GoalDiabetesManagement DietGoal = "diabetes_management"
	GoalHeartHealth        DietGoal = "heart_health"
	GoalDigestiveHealth    DietGoal = "digestive_health"
	GoalEnergyBoost        DietGoal = "energy_boost"
	GoalImmunity           DietGoal = "immunity"
	GoalSkinHealth         DietGoal = "skin_health"
	GoalMentalClarity      DietGoal = "mental_clarity"
)

type PatientGoals struct {
	WeightGoal         WeightGoal `json:"weight_goal,omitempty" validate:"omitempty,oneof=lose maintain gain"`
	DailyCalorieTarget float64    `json:"daily_calorie_target,omitempty" validate:"gte=0"`
	ProteinTarget      float64    `json:"protein_target,omitempty" validate:"gte=0"`
	DietGoals          []DietGoal `json:"diet_goals,omitempty"`
}

// PatientProfile is created from quiz results or demo presets.
type PatientProfile struct {
	ID                 string              `json:"id"`
	Name               string              `json:"name"`
	Age                int                 `json:"age,omitempty" validate:"gte=0,lte=130"`
	Gender             Gender              `json:"gender,omitempty" validate:"omitempty,oneof=male female other"`
	Prakriti           DoshaPrakriti       `json:"prakriti" validate:"required"`
	Vikriti            *DoshaPrakriti      `json:"vikriti,omitempty" validate:"omitempty"`
	Conditions         []string            `json:"conditions,omitempty"`
	Allergies          []string            `json:"allergies,omitempty"`
	DietaryPreferences []DietaryPreference `json:"dietary_preferences,omitempty"`
	Goals              PatientGoals        `json:"goals"`
}

// TargetDosha is the dosha balancing logic aims at: the current imbalance when known, else the constitution.
func (p PatientProfile) TargetDosha() DoshaType {
	if p.Vikriti != nil && p.Vikriti.Dominant != "" {
		return p.Vikriti.Dominant
	}
	return p.Prakriti.Dominant
}

func (p PatientProfile) HasPreference(pref DietaryPreference) bool {
	for _, have := range p.DietaryPreferences {
		if have == pref {
			return true
		}
	}
	return false
}

func (p PatientProfile) Validate() error {
	if err := p.Prakriti.Validate(); err != nil {
		return fmt.Errorf("prakriti: %w", err)
	}
	if p.Vikriti != nil {
		if err := p.Vikriti.Validate(); err != nil {
			return fmt.Errorf("vikriti: %w", err)
		}
	}
	if p.Age < 0 {
		return errors.New("age cannot be negative")
	}
	return nil
}
