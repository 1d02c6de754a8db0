// Package testutil provides data factories for tests.
package testutil

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v6"

	"mcp-ahara/internal/models"
)

// FoodFactory generates random but well-formed foods.
type FoodFactory struct {
	faker *gofakeit.Faker
	seq   int
}

func NewFoodFactory(seed int64) *FoodFactory {
	return &FoodFactory{faker: gofakeit.New(seed)}
}

func (f *FoodFactory) halfStep(lo, hi int) float64 {
	return float64(f.faker.Number(lo*2, hi*2)) / 2
}

func (f *FoodFactory) Food() models.Food {
	f.seq++
	rasaCount := f.faker.Number(1, len(models.AllRasas))
	rasas := append([]models.Rasa(nil), models.AllRasas...)
	f.faker.ShuffleAnySlice(rasas)

	virya := models.ViryaUshna
	if f.faker.Bool() {
		virya = models.ViryaSheeta
	}

	var seasons []models.Season
	for _, s := range models.AllSeasons {
		if f.faker.Number(0, 2) == 0 {
			seasons = append(seasons, s)
		}
	}

	vitamins := map[string]float64{}
	for i := 0; i < f.faker.Number(0, 6); i++ {
		vitamins[fmt.Sprintf("v%d", i)] = f.faker.Float64Range(0, 100)
	}

	return models.Food{
		ID:       fmt.Sprintf("food_%d", f.seq),
		Name:     f.faker.Noun(),
		Category: models.AllCategories[f.faker.Number(0, len(models.AllCategories)-1)],
		Ayurvedic: models.AyurvedicProperties{
			Rasa:   rasas[:rasaCount],
			Virya:  virya,
			Vipaka: models.VipakaMadhura,
			DoshaEffect: models.DoshaEffect{
				Vata:  f.halfStep(-2, 2),
				Pitta: f.halfStep(-2, 2),
				Kapha: f.halfStep(-2, 2),
			},
		},
		Nutrition: models.NutritionalInfo{
			Calories: f.faker.Float64Range(0, 900),
			Protein:  f.faker.Float64Range(0, 40),
			Carbs:    f.faker.Float64Range(0, 100),
			Fat:      f.faker.Float64Range(0, 50),
			Fiber:    f.faker.Float64Range(0, 15),
			Vitamins: vitamins,
		},
		ServingSize:  "1 serving",
		ServingGrams: f.faker.Float64Range(5, 300),
		Season:       seasons,
	}
}

func (f *FoodFactory) Foods(n int) []models.Food {
	foods := make([]models.Food, n)
	for i := range foods {
		foods[i] = f.Food()
	}
	return foods
}

// Patient returns a random patient with a consistent prakriti and, half the time, a vikriti.
func (f *FoodFactory) Patient() models.PatientProfile {
	v := f.faker.Float64Range(0, 100)
	p := f.faker.Float64Range(0, 100-v)
	p1 := models.NewDoshaPrakriti(v, p, 100-v-p)

	patient := models.PatientProfile{
		ID:       f.faker.UUID(),
		Name:     f.faker.Name(),
		Age:      f.faker.Number(18, 80),
		Prakriti: p1,
	}
	if f.faker.Bool() {
		k := f.faker.Float64Range(0, 100)
		vk := models.NewDoshaPrakriti((100-k)/2, (100-k)/2, k)
		patient.Vikriti = &vk
	}
	return patient
}

// FoodBuilder builds a specific food for scenario tests.
type FoodBuilder struct {
	food models.Food
}

// NewFoodBuilder starts from a neutral single-taste cooling grain of 100 kcal.
func NewFoodBuilder(id string) *FoodBuilder {
	return &FoodBuilder{food: models.Food{
		ID:       id,
		Name:     id,
		Category: models.CategoryGrains,
		Ayurvedic: models.AyurvedicProperties{
			Rasa:   []models.Rasa{models.RasaMadhura},
			Virya:  models.ViryaSheeta,
			Vipaka: models.VipakaMadhura,
		},
		Nutrition:    models.NutritionalInfo{Calories: 100, Protein: 2, Carbs: 20, Fat: 1, Fiber: 1},
		ServingSize:  "1 serving",
		ServingGrams: 100,
	}}
}

func (b *FoodBuilder) Name(name string) *FoodBuilder {
	b.food.Name = name
	return b
}

func (b *FoodBuilder) Category(c models.FoodCategory) *FoodBuilder {
	b.food.Category = c
	return b
}

func (b *FoodBuilder) Virya(v models.Virya) *FoodBuilder {
	b.food.Ayurvedic.Virya = v
	return b
}

func (b *FoodBuilder) Rasa(r ...models.Rasa) *FoodBuilder {
	b.food.Ayurvedic.Rasa = r
	return b
}

func (b *FoodBuilder) Dosha(vata, pitta, kapha float64) *FoodBuilder {
	b.food.Ayurvedic.DoshaEffect = models.DoshaEffect{Vata: vata, Pitta: pitta, Kapha: kapha}
	return b
}

func (b *FoodBuilder) Calories(c float64) *FoodBuilder {
	b.food.Nutrition.Calories = c
	return b
}

func (b *FoodBuilder) Protein(p float64) *FoodBuilder {
	b.food.Nutrition.Protein = p
	return b
}

func (b *FoodBuilder) Carbs(c float64) *FoodBuilder {
	b.food.Nutrition.Carbs = c
	return b
}

func (b *FoodBuilder) Fiber(f float64) *FoodBuilder {
	b.food.Nutrition.Fiber = f
	return b
}

func (b *FoodBuilder) Season(s ...models.Season) *FoodBuilder {
	b.food.Season = s
	return b
}

func (b *FoodBuilder) Contraindications(c ...string) *FoodBuilder {
	b.food.Contraindications = c
	return b
}

func (b *FoodBuilder) ServingGrams(g float64) *FoodBuilder {
	b.food.ServingGrams = g
	return b
}

func (b *FoodBuilder) Build() models.Food {
	return b.food
}

// Patient returns a patient whose constitution is led by dominant.
func Patient(dominant models.DoshaType) models.PatientProfile {
	pct := map[models.DoshaType]float64{models.DoshaVata: 20, models.DoshaPitta: 20, models.DoshaKapha: 20}
	pct[dominant] = 60
	return models.PatientProfile{
		ID:       "patient_" + string(dominant),
		Name:     "Test " + string(dominant),
		Age:      35,
		Prakriti: models.NewDoshaPrakriti(pct[models.DoshaVata], pct[models.DoshaPitta], pct[models.DoshaKapha]),
	}
}
