package substitution

import (
	"math"
	"sort"
	"strings"

	"mcp-ahara/internal/apperrors"
	"mcp-ahara/internal/models"
	"mcp-ahara/internal/scoring"
)

// AlgorithmVersion tags every substitution result.
const AlgorithmVersion = "similarity-blend-v1"

const (
	DefaultCount = 5

	similarityWeight = 0.3
	anhWeight        = 0.7
	// neutralANHScore stands in for the ANH score when no patient is given.
	neutralANHScore = 50

	proteinRich = 10.0
)

type Catalog interface {
	Foods() []models.Food
	Food(id string) (models.Food, bool)
	SubstitutionRules() []models.SubstitutionRule
}

type Alternative struct {
	Food            models.Food `json:"food"`
	SimilarityScore int         `json:"similarity_score"`
	ANHScore        int         `json:"anh_score"`
	Reasons         []string    `json:"reasons"`
	Curated         bool        `json:"curated"`
}

type Result struct {
	Original     models.Food   `json:"original"`
	Reason       Reason        `json:"reason"`
	Alternatives []Alternative `json:"alternatives"`
	Notes        []string      `json:"notes,omitempty"`
}

type Engine struct {
	catalog Catalog
	scorer  *scoring.Scorer
}

func NewEngine(catalog Catalog, scorer *scoring.Scorer) *Engine {
	return &Engine{catalog: catalog, scorer: scorer}
}

// Find ranks up to count alternatives for foodID by 0.3*similarity + 0.7*ANH score.
// Curated alternatives come first in the candidate order, so they win ties.
// patient may be nil; count <= 0 means DefaultCount.
func (e *Engine) Find(foodID string, reason Reason, patient *models.PatientProfile, count int) (Result, error) {
	if !reason.Valid() {
		return Result{}, apperrors.NewInvalidInputError("unknown substitution reason %q", reason)
	}
	original, ok := e.catalog.Food(foodID)
	if !ok {
		return Result{}, apperrors.NewNotFoundError("food", foodID)
	}
	if count <= 0 {
		count = DefaultCount
	}

	var (
		candidates []models.Food
		curated    = make(map[string]bool)
		seen       = map[string]bool{original.ID: true}
		notes      []string
	)
	add := func(f models.Food) {
		if seen[f.ID] {
			return
		}
		seen[f.ID] = true
		candidates = append(candidates, f)
	}

	for _, rule := range e.curatedRules(original, reason) {
		if rule.Note != "" {
			notes = append(notes, rule.Note)
		}
		for _, id := range rule.Alternatives {
			f, ok := e.catalog.Food(id)
			if !ok || reason.excludes(original, f) {
				continue
			}
			curated[id] = true
			add(f)
		}
	}
	for _, f := range e.catalog.Foods() {
		if !reason.excludes(original, f) && similar(original, f, patient) {
			add(f)
		}
	}

	alts := make([]Alternative, 0, len(candidates))
	for _, f := range candidates {
		anh := neutralANHScore
		if patient != nil {
			anh = e.scorer.Score(f, *patient).TotalScore
		}
		alts = append(alts, Alternative{
			Food:            f,
			SimilarityScore: Similarity(original, f),
			ANHScore:        anh,
			Reasons:         explain(original, f, reason),
			Curated:         curated[f.ID],
		})
	}
	sort.SliceStable(alts, func(i, j int) bool {
		return blended(alts[i]) > blended(alts[j])
	})
	if len(alts) > count {
		alts = alts[:count]
	}

	return Result{Original: original, Reason: reason, Alternatives: alts, Notes: notes}, nil
}

// curatedRules returns the food-specific rule, then the category rule, for the reason.
func (e *Engine) curatedRules(original models.Food, reason Reason) []models.SubstitutionRule {
	var byFood, byCategory *models.SubstitutionRule
	rules := e.catalog.SubstitutionRules()
	for i := range rules {
		r := &rules[i]
		if Reason(r.Reason) != reason {
			continue
		}
		if byFood == nil && r.OriginalFoodID == original.ID {
			byFood = r
		}
		if byCategory == nil && r.OriginalFoodID == "" && r.OriginalCategory == original.Category {
			byCategory = r
		}
	}
	var out []models.SubstitutionRule
	for _, r := range []*models.SubstitutionRule{byFood, byCategory} {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out
}

func blended(a Alternative) float64 {
	return similarityWeight*float64(a.SimilarityScore) + anhWeight*float64(a.ANHScore)
}

// similar keeps same-category foods, protein-rich pairs across categories, and foods that
// pacify the patient's dominant dosha as the original does.
func similar(original, candidate models.Food, patient *models.PatientProfile) bool {
	if candidate.Category == original.Category {
		return true
	}
	if original.Nutrition.Protein > proteinRich && candidate.Nutrition.Protein > proteinRich {
		return true
	}
	if patient != nil {
		d := patient.Prakriti.Dominant
		return candidate.Ayurvedic.DoshaEffect.For(d) < 0 && original.Ayurvedic.DoshaEffect.For(d) < 0
	}
	return false
}

// Similarity scores 0-100: category 30, nutrition up to 30, Ayurvedic overlap up to 40.
func Similarity(original, alt models.Food) int {
	score := 0.0
	if original.Category == alt.Category {
		score += 30
	}

	on, an := original.Nutrition, alt.Nutrition
	score += math.Max(0, 10-math.Abs(on.Calories-an.Calories)/20)
	score += math.Max(0, 10-math.Abs(on.Protein-an.Protein))
	score += math.Max(0, 10-math.Abs(on.Carbs-an.Carbs)/5)

	for _, r := range uniqueRasas(original.Ayurvedic.Rasa) {
		if alt.HasRasa(r) {
			score += 5
		}
	}
	if original.Ayurvedic.Virya == alt.Ayurvedic.Virya {
		score += 10
	}
	for _, d := range models.AllDoshas {
		if sign(original.Ayurvedic.DoshaEffect.For(d)) == sign(alt.Ayurvedic.DoshaEffect.For(d)) {
			score += 5
		}
	}

	return int(math.Min(100, math.Floor(score+0.5)))
}

func explain(original, alt models.Food, reason Reason) []string {
	reasons := []string{reason.Label()}
	if alt.Nutrition.Protein > original.Nutrition.Protein {
		reasons = append(reasons, "Higher protein")
	}
	if alt.Nutrition.Fiber > original.Nutrition.Fiber {
		reasons = append(reasons, "More fiber")
	}
	if alt.Nutrition.Calories < original.Nutrition.Calories {
		reasons = append(reasons, "Fewer calories")
	}
	if original.Ayurvedic.Virya == alt.Ayurvedic.Virya {
		reasons = append(reasons, "Same "+alt.Ayurvedic.Virya.Label()+" nature")
	}
	return reasons
}

// ForRecipe finds substitutes for each ingredient. Unknown ids are returned in missing.
func (e *Engine) ForRecipe(foodIDs []string, reason Reason, patient *models.PatientProfile) ([]Result, []string, error) {
	var (
		results []Result
		missing []string
	)
	for _, id := range foodIDs {
		res, err := e.Find(id, reason, patient, DefaultCount)
		if apperrors.Is(err, apperrors.CodeNotFound) {
			missing = append(missing, id)
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		results = append(results, res)
	}
	return results, missing, nil
}

// AllergyReason picks the reason implied by the patient's allergies for a food:
// dairy_free, gluten_free or nut_free when an allergy and the food agree, else allergy.
func AllergyReason(food models.Food, allergies []string) Reason {
	for _, allergy := range allergies {
		a := strings.ToLower(allergy)
		if (strings.Contains(a, "dairy") || strings.Contains(a, "milk")) && food.Category == models.CategoryDairy {
			return ReasonDairyFree
		}
		if (strings.Contains(a, "gluten") || strings.Contains(a, "wheat")) && glutenFoods[food.ID] && food.ID != "oats" {
			return ReasonGlutenFree
		}
		if strings.Contains(a, "nut") && food.Category == models.CategoryNutsSeeds {
			return ReasonNutFree
		}
	}
	return ReasonAllergy
}

func (e *Engine) ForAllergies(foodID string, patient models.PatientProfile) (Result, error) {
	food, ok := e.catalog.Food(foodID)
	if !ok {
		return Result{}, apperrors.NewNotFoundError("food", foodID)
	}
	return e.Find(foodID, AllergyReason(food, patient.Allergies), &patient, DefaultCount)
}

func (e *Engine) ForDosha(foodID string, dosha models.DoshaType, patient *models.PatientProfile) (Result, error) {
	return e.Find(foodID, PacifyingReason(dosha), patient, DefaultCount)
}

func uniqueRasas(rasas []models.Rasa) []models.Rasa {
	seen := make(map[models.Rasa]bool, len(rasas))
	out := make([]models.Rasa, 0, len(rasas))
	for _, r := range rasas {
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	return out
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
