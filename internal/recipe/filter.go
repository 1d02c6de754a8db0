package recipe

import (
	"strings"

	"mcp-ahara/internal/models"
)

// FilterByPreference keeps recipes allowed by the strictest dietary preference present.
func FilterByPreference(recipes []models.Recipe, prefs []models.DietaryPreference) []models.Recipe {
	has := func(p models.DietaryPreference) bool {
		for _, have := range prefs {
			if have == p {
				return true
			}
		}
		return false
	}

	out := []models.Recipe{}
	for _, r := range recipes {
		var ok bool
		switch {
		case has(models.PreferenceVegan):
			ok = r.Category == models.RecipeVegan
		case has(models.PreferenceVegetarian):
			ok = r.Category == models.RecipeVegan || r.Category == models.RecipeVegetarian
		case has(models.PreferenceEggetarian):
			ok = r.Category != models.RecipeNonVegetarian || containsFood(r, "egg")
		default:
			ok = true
		}
		if ok {
			out = append(out, r)
		}
	}
	return out
}

// ForCondition drops recipes whose contraindications mention conditionID, case-insensitively.
func ForCondition(recipes []models.Recipe, conditionID string) []models.Recipe {
	id := strings.ToLower(conditionID)
	out := []models.Recipe{}
	for _, r := range recipes {
		contraindicated := false
		for _, c := range r.Contraindications {
			if strings.Contains(strings.ToLower(c), id) {
				contraindicated = true
				break
			}
		}
		if !contraindicated {
			out = append(out, r)
		}
	}
	return out
}

func containsFood(r models.Recipe, foodID string) bool {
	for _, ing := range r.Ingredients {
		if ing.FoodID == foodID {
			return true
		}
	}
	return false
}
