package composer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mcp-ahara/internal/models"
	"mcp-ahara/internal/testutil"
)

func filterCatalog() []models.Food {
	return []models.Food{
		testutil.NewFoodBuilder("milk_cow").Name("Cow Milk").Category(models.CategoryDairy).Build(),
		testutil.NewFoodBuilder("peanuts").Name("Peanuts").Category(models.CategoryNutsSeeds).Contraindications("nut_allergy").Build(),
		testutil.NewFoodBuilder("chicken").Name("Chicken").Category(models.CategoryMeat).Virya(models.ViryaUshna).Build(),
		testutil.NewFoodBuilder("egg").Name("Egg").Category(models.CategoryMeat).Virya(models.ViryaUshna).Build(),
		testutil.NewFoodBuilder("prawns").Name("Prawns").Category(models.CategorySeafood).Virya(models.ViryaUshna).Build(),
		testutil.NewFoodBuilder("rice").Name("White Rice").Category(models.CategoryGrains).Build(),
		testutil.NewFoodBuilder("ginger").Name("Ginger").Category(models.CategorySpices).Virya(models.ViryaUshna).Build(),
	}
}

func ids(foods []models.Food) []string {
	out := make([]string, 0, len(foods))
	for _, f := range foods {
		out = append(out, f.ID)
	}
	return out
}

func TestAvailable(t *testing.T) {
	composer := New(filterCatalog(), vasantaScorer())
	base := models.MealConstraints{MaxCalories: 500}
	withPref := func(p models.DietaryPreference) models.PatientProfile {
		patient := testutil.Patient(models.DoshaVata)
		patient.DietaryPreferences = []models.DietaryPreference{p}
		return patient
	}
	withAllergy := func(a ...string) models.PatientProfile {
		patient := testutil.Patient(models.DoshaVata)
		patient.Allergies = a
		return patient
	}

	tests := []struct {
		name    string
		patient models.PatientProfile
		cons    models.MealConstraints
		want    []string
	}{
		{"no filters", testutil.Patient(models.DoshaVata), base,
			[]string{"milk_cow", "peanuts", "chicken", "egg", "prawns", "rice", "ginger"}},
		{"exclude foods and categories", testutil.Patient(models.DoshaVata),
			models.MealConstraints{ExcludeFoods: []string{"rice"}, ExcludeCategories: []models.FoodCategory{models.CategoryMeat}},
			[]string{"milk_cow", "peanuts", "prawns", "ginger"}},
		{"include categories", testutil.Patient(models.DoshaVata),
			models.MealConstraints{IncludeCategories: []models.FoodCategory{models.CategoryGrains, models.CategorySpices}},
			[]string{"rice", "ginger"}},
		{"virya preference", testutil.Patient(models.DoshaVata),
			models.MealConstraints{ViryaPreference: models.ViryaSheeta},
			[]string{"milk_cow", "peanuts", "rice"}},
		{"vegetarian", withPref(models.PreferenceVegetarian), base,
			[]string{"milk_cow", "peanuts", "rice", "ginger"}},
		{"vegan", withPref(models.PreferenceVegan), base,
			[]string{"peanuts", "rice", "ginger"}},
		{"eggetarian", withPref(models.PreferenceEggetarian), base,
			[]string{"milk_cow", "peanuts", "egg", "rice", "ginger"}},
		{"allergy by name", withAllergy("MILK"), base,
			[]string{"peanuts", "chicken", "egg", "prawns", "rice", "ginger"}},
		{"allergy by category", withAllergy("seafood"), base,
			[]string{"milk_cow", "peanuts", "chicken", "egg", "rice", "ginger"}},
		{"substring matching over-reaches", withAllergy("pea"), base,
			[]string{"milk_cow", "chicken", "egg", "prawns", "rice", "ginger"}},
		{"blank allergy is ignored", withAllergy("  "), base,
			[]string{"milk_cow", "peanuts", "chicken", "egg", "prawns", "rice", "ginger"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(composer.Available(tt.patient, tt.cons)))
		})
	}
}

func TestExactAllergyMatcher(t *testing.T) {
	composer := New(filterCatalog(), vasantaScorer(), WithAllergyMatcher(MatcherFor("exact")))
	patient := testutil.Patient(models.DoshaVata)

	patient.Allergies = []string{"pea"}
	assert.Contains(t, ids(composer.Available(patient, models.MealConstraints{})), "peanuts")

	patient.Allergies = []string{"nut_allergy", "Cow Milk"}
	got := ids(composer.Available(patient, models.MealConstraints{}))
	assert.NotContains(t, got, "peanuts")
	assert.NotContains(t, got, "milk_cow")
	assert.Contains(t, got, "rice")
}

func TestMatcherFor(t *testing.T) {
	assert.IsType(t, SubstringAllergyMatcher{}, MatcherFor("substring"))
	assert.IsType(t, ExactAllergyMatcher{}, MatcherFor("exact"))
	assert.IsType(t, SubstringAllergyMatcher{}, MatcherFor(""))
}
