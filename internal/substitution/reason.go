// Package substitution ranks alternative foods for a food that has to be replaced.
package substitution

import (
	"fmt"
	"strings"

	"mcp-ahara/internal/models"
)

type Reason string

const (
	ReasonDairyFree        Reason = "dairy_free"
	ReasonGlutenFree       Reason = "gluten_free"
	ReasonNutFree          Reason = "nut_free"
	ReasonVegan            Reason = "vegan"
	ReasonLowCalorie       Reason = "low_calorie"
	ReasonLowCarb          Reason = "low_carb"
	ReasonHighProtein      Reason = "high_protein"
	ReasonPittaPacifying   Reason = "pitta_pacifying"
	ReasonVataPacifying    Reason = "vata_pacifying"
	ReasonKaphaPacifying   Reason = "kapha_pacifying"
	ReasonDiabetesFriendly Reason = "diabetes_friendly"
	ReasonHeartFriendly    Reason = "heart_friendly"
	ReasonAllergy          Reason = "allergy"
)

var reasonLabels = map[Reason]string{
	ReasonDairyFree:        "Dairy-free alternative",
	ReasonGlutenFree:       "Gluten-free alternative",
	ReasonNutFree:          "Nut-free alternative",
	ReasonVegan:            "Plant-based alternative",
	ReasonLowCalorie:       "Lower calorie option",
	ReasonLowCarb:          "Lower carbohydrate option",
	ReasonHighProtein:      "Higher protein option",
	ReasonPittaPacifying:   "Cooling for pitta",
	ReasonVataPacifying:    "Grounding for vata",
	ReasonKaphaPacifying:   "Stimulating for kapha",
	ReasonDiabetesFriendly: "Diabetes-friendly option",
	ReasonHeartFriendly:    "Heart-healthy option",
	ReasonAllergy:          "Allergy-safe alternative",
}

// AllReasons lists the reasons in a stable order.
var AllReasons = []Reason{
	ReasonDairyFree, ReasonGlutenFree, ReasonNutFree, ReasonVegan, ReasonLowCalorie,
	ReasonLowCarb, ReasonHighProtein, ReasonPittaPacifying, ReasonVataPacifying,
	ReasonKaphaPacifying, ReasonDiabetesFriendly, ReasonHeartFriendly, ReasonAllergy,
}

func (r Reason) Valid() bool {
	_, ok := reasonLabels[r]
	return ok
}

func (r Reason) Label() string {
	return reasonLabels[r]
}

func ParseReason(s string) (Reason, error) {
	r := Reason(s)
	if !r.Valid() {
		return "", fmt.Errorf("invalid substitution reason %q", s)
	}
	return r, nil
}

// PacifyingReason maps a dosha to its pacifying reason.
func PacifyingReason(d models.DoshaType) Reason {
	switch d {
	case models.DoshaVata:
		return ReasonVataPacifying
	case models.DoshaPitta:
		return ReasonPittaPacifying
	default:
		return ReasonKaphaPacifying
	}
}

// pacifies returns the dosha a pacifying reason targets.
func (r Reason) pacifies() (models.DoshaType, bool) {
	switch r {
	case ReasonVataPacifying:
		return models.DoshaVata, true
	case ReasonPittaPacifying:
		return models.DoshaPitta, true
	case ReasonKaphaPacifying:
		return models.DoshaKapha, true
	default:
		return "", false
	}
}

var glutenFoods = map[string]bool{"wheat_roti": true, "semolina": true, "daliya": true, "oats": true}

const (
	lowCalorieShare = 0.7
	lowCarbLimit    = 10.0
)

// excludes reports whether candidate is ruled out by the reason, independent of similarity.
func (r Reason) excludes(original, candidate models.Food) bool {
	switch r {
	case ReasonDairyFree:
		return candidate.Category == models.CategoryDairy
	case ReasonGlutenFree:
		return glutenFoods[candidate.ID]
	case ReasonNutFree:
		return candidate.Category == models.CategoryNutsSeeds || strings.Contains(candidate.ID, "nut")
	case ReasonVegan:
		return candidate.Category == models.CategoryDairy ||
			candidate.Category == models.CategoryMeat ||
			candidate.Category == models.CategorySeafood
	case ReasonLowCalorie:
		return candidate.Nutrition.Calories > original.Nutrition.Calories*lowCalorieShare
	case ReasonLowCarb:
		return candidate.Nutrition.Carbs > lowCarbLimit
	case ReasonHighProtein:
		return candidate.Nutrition.Protein < original.Nutrition.Protein
	case ReasonDiabetesFriendly:
		return candidate.Category == models.CategorySweets || candidate.ID == "rice_white" || candidate.ID == "aloo"
	}
	if d, ok := r.pacifies(); ok {
		return candidate.Ayurvedic.DoshaEffect.For(d) > 0
	}
	return false
}
