// Package dataset holds the embedded reference data: foods, incompatibility rules, recipes,
// cooking modifiers, health conditions, the prakriti questionnaire and curated substitutions.
package dataset

import (
	"embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"mcp-ahara/internal/models"
)

//go:embed data/*.yaml
var files embed.FS

// Data is the raw content a Catalog is built from.
type Data struct {
	Foods          []models.Food
	Rules          []models.ViruddhaRule
	Recipes        []models.Recipe
	CookingMethods map[models.CookingMethod]models.CookingModifier
	Conditions     []models.HealthCondition
	Quiz           models.PrakritiQuiz
	Substitutions  []models.SubstitutionRule
}

// Catalog is read-only after construction and safe for concurrent use.
type Catalog struct {
	foods         []models.Food
	foodIndex     map[string]int
	rules         []models.ViruddhaRule
	recipes       []models.Recipe
	recipeIndex   map[string]int
	cooking       map[models.CookingMethod]models.CookingModifier
	conditions    []models.HealthCondition
	quiz          models.PrakritiQuiz
	substitutions []models.SubstitutionRule
}

// Load parses the embedded data files and validates them.
func Load() (*Catalog, error) {
	var data Data
	sources := []struct {
		name string
		into interface{}
	}{
		{"foods.yaml", &data.Foods},
		{"rules.yaml", &data.Rules},
		{"recipes.yaml", &data.Recipes},
		{"cooking_methods.yaml", &data.CookingMethods},
		{"conditions.yaml", &data.Conditions},
		{"quiz.yaml", &data.Quiz},
		{"substitutions.yaml", &data.Substitutions},
	}
	for _, src := range sources {
		raw, err := files.ReadFile("data/" + src.name)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", src.name, err)
		}
		if err := yaml.Unmarshal(raw, src.into); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", src.name, err)
		}
	}
	return New(data)
}

// New builds a catalog from data, failing on the first malformed food, recipe or mapping.
// Rules are kept as given; the incompatibility index decides which ones it can use.
func New(data Data) (*Catalog, error) {
	c := &Catalog{
		foods:         append([]models.Food(nil), data.Foods...),
		foodIndex:     make(map[string]int, len(data.Foods)),
		rules:         append([]models.ViruddhaRule(nil), data.Rules...),
		recipes:       append([]models.Recipe(nil), data.Recipes...),
		recipeIndex:   make(map[string]int, len(data.Recipes)),
		cooking:       make(map[models.CookingMethod]models.CookingModifier, len(data.CookingMethods)),
		conditions:    append([]models.HealthCondition(nil), data.Conditions...),
		quiz:          data.Quiz,
		substitutions: append([]models.SubstitutionRule(nil), data.Substitutions...),
	}
	for method, mod := range data.CookingMethods {
		c.cooking[method] = mod
	}

	for i, f := range c.foods {
		if err := validateFood(f); err != nil {
			return nil, fmt.Errorf("invalid food #%d: %w", i, err)
		}
		if _, dup := c.foodIndex[f.ID]; dup {
			return nil, fmt.Errorf("duplicate food id %q", f.ID)
		}
		c.foodIndex[f.ID] = i
	}

	for i, r := range c.recipes {
		if r.ID == "" {
			return nil, fmt.Errorf("recipe #%d has no id", i)
		}
		if _, dup := c.recipeIndex[r.ID]; dup {
			return nil, fmt.Errorf("duplicate recipe id %q", r.ID)
		}
		if r.Servings <= 0 {
			return nil, fmt.Errorf("recipe %s: servings must be positive", r.ID)
		}
		for _, ing := range r.Ingredients {
			if _, ok := c.foodIndex[ing.FoodID]; !ok {
				return nil, fmt.Errorf("recipe %s: unknown ingredient %q", r.ID, ing.FoodID)
			}
			if ing.Quantity <= 0 {
				return nil, fmt.Errorf("recipe %s: ingredient %s has non-positive quantity", r.ID, ing.FoodID)
			}
		}
		c.recipeIndex[r.ID] = i
	}

	for _, s := range c.substitutions {
		if s.OriginalFoodID == "" && s.OriginalCategory == "" {
			return nil, fmt.Errorf("substitution for %s names neither a food nor a category", s.Reason)
		}
		for _, alt := range s.Alternatives {
			if _, ok := c.foodIndex[alt]; !ok {
				return nil, fmt.Errorf("substitution %s/%s: unknown alternative %q", s.OriginalFoodID, s.Reason, alt)
			}
		}
	}

	for _, q := range c.quiz.Questions {
		if len(q.Options) == 0 {
			return nil, fmt.Errorf("quiz question %s has no options", q.ID)
		}
	}

	return c, nil
}

func validateFood(f models.Food) error {
	if f.ID == "" {
		return fmt.Errorf("missing id")
	}
	if !f.Category.Valid() {
		return fmt.Errorf("food %s: unknown category %q", f.ID, f.Category)
	}
	if !f.Ayurvedic.Virya.Valid() {
		return fmt.Errorf("food %s: unknown virya %q", f.ID, f.Ayurvedic.Virya)
	}
	if len(f.Ayurvedic.Rasa) == 0 {
		return fmt.Errorf("food %s: no rasa", f.ID)
	}
	for _, d := range models.AllDoshas {
		if e := f.Ayurvedic.DoshaEffect.For(d); e < -2 || e > 2 {
			return fmt.Errorf("food %s: %s effect %.1f outside [-2, 2]", f.ID, d, e)
		}
	}
	for _, s := range f.Season {
		if !s.Valid() {
			return fmt.Errorf("food %s: unknown season %q", f.ID, s)
		}
	}
	if f.ServingGrams <= 0 {
		return fmt.Errorf("food %s: serving grams must be positive", f.ID)
	}
	return nil
}

// Foods returns the catalog in file order. The slice is a copy.
func (c *Catalog) Foods() []models.Food {
	return append([]models.Food(nil), c.foods...)
}

func (c *Catalog) Food(id string) (models.Food, bool) {
	i, ok := c.foodIndex[id]
	if !ok {
		return models.Food{}, false
	}
	return c.foods[i], true
}

// Lookup satisfies the food lookup used by the incompatibility index.
func (c *Catalog) Lookup(id string) (models.Food, bool) {
	return c.Food(id)
}

func (c *Catalog) FoodsByCategory(category models.FoodCategory) []models.Food {
	var out []models.Food
	for _, f := range c.foods {
		if f.Category == category {
			out = append(out, f)
		}
	}
	return out
}

type CategoryCount struct {
	Category models.FoodCategory `json:"category"`
	Count    int                 `json:"count"`
}

// CategoryCounts lists every category with at least one food, in category order.
func (c *Catalog) CategoryCounts() []CategoryCount {
	counts := make(map[models.FoodCategory]int)
	for _, f := range c.foods {
		counts[f.Category]++
	}
	var out []CategoryCount
	for _, cat := range models.AllCategories {
		if n := counts[cat]; n > 0 {
			out = append(out, CategoryCount{Category: cat, Count: n})
		}
	}
	return out
}

func (c *Catalog) Rules() []models.ViruddhaRule {
	return append([]models.ViruddhaRule(nil), c.rules...)
}

func (c *Catalog) Recipes() []models.Recipe {
	return append([]models.Recipe(nil), c.recipes...)
}

func (c *Catalog) Recipe(id string) (models.Recipe, bool) {
	i, ok := c.recipeIndex[id]
	if !ok {
		return models.Recipe{}, false
	}
	return c.recipes[i], true
}

// CookingModifier returns the modifier for a method. Unknown methods have no modifier.
func (c *Catalog) CookingModifier(method models.CookingMethod) (models.CookingModifier, bool) {
	mod, ok := c.cooking[method]
	return mod, ok
}

// CookingMethods lists the known methods sorted by name.
func (c *Catalog) CookingMethods() []models.CookingMethod {
	methods := make([]models.CookingMethod, 0, len(c.cooking))
	for m := range c.cooking {
		methods = append(methods, m)
	}
	sort.Slice(methods, func(i, j int) bool { return methods[i] < methods[j] })
	return methods
}

func (c *Catalog) Conditions() []models.HealthCondition {
	return append([]models.HealthCondition(nil), c.conditions...)
}

func (c *Catalog) Condition(id string) (models.HealthCondition, bool) {
	for _, cond := range c.conditions {
		if cond.ID == id {
			return cond, true
		}
	}
	return models.HealthCondition{}, false
}

func (c *Catalog) Quiz() models.PrakritiQuiz {
	return c.quiz
}

func (c *Catalog) SubstitutionRules() []models.SubstitutionRule {
	return append([]models.SubstitutionRule(nil), c.substitutions...)
}
