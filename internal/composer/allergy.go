package composer

import (
	"strings"

	"mcp-ahara/internal/models"
)

// AllergyMatcher decides whether a food must be dropped for one allergy string.
type AllergyMatcher interface {
	Matches(food models.Food, allergy string) bool
}

// SubstringAllergyMatcher drops a food when the allergy appears anywhere in its name or
// category, case-insensitively. "milk" catches "Cow Milk", and "pea" also catches "Peanuts".
type SubstringAllergyMatcher struct{}

func (SubstringAllergyMatcher) Matches(food models.Food, allergy string) bool {
	a := strings.ToLower(strings.TrimSpace(allergy))
	if a == "" {
		return false
	}
	return strings.Contains(strings.ToLower(food.Name), a) || strings.Contains(string(food.Category), a)
}

// ExactAllergyMatcher drops a food only when the allergy equals its id, name, category
// or one of its contraindication tags.
type ExactAllergyMatcher struct{}

func (ExactAllergyMatcher) Matches(food models.Food, allergy string) bool {
	a := strings.ToLower(strings.TrimSpace(allergy))
	if a == "" {
		return false
	}
	if a == food.ID || a == strings.ToLower(food.Name) || a == string(food.Category) {
		return true
	}
	for _, tag := range food.Contraindications {
		if strings.ToLower(tag) == a {
			return true
		}
	}
	return false
}

// MatcherFor returns the matcher for a configured mode; anything but "exact" is substring.
func MatcherFor(mode string) AllergyMatcher {
	if mode == "exact" {
		return ExactAllergyMatcher{}
	}
	return SubstringAllergyMatcher{}
}
