package viruddha

import (
	"fmt"
	"sort"
	"strings"

	"mcp-ahara/internal/models"
)

type Warning struct {
	Rule    models.ViruddhaRule `json:"rule"`
	Food1   string              `json:"food1"`
	Food2   string              `json:"food2"`
	Message string              `json:"message"`
}

// Result carries independent severity counts; callers decide what blocks.
type Result struct {
	IsCompatible  bool      `json:"is_compatible"`
	Warnings      []Warning `json:"warnings"`
	SevereCount   int       `json:"severe_count"`
	ModerateCount int       `json:"moderate_count"`
	MildCount     int       `json:"mild_count"`
	PairsChecked  int       `json:"pairs_checked"`
}

func newResult(warnings []Warning, pairs int) Result {
	r := Result{Warnings: warnings, PairsChecked: pairs}
	if r.Warnings == nil {
		r.Warnings = []Warning{}
	}
	for _, w := range r.Warnings {
		switch w.Rule.Severity {
		case models.SeveritySevere:
			r.SevereCount++
		case models.SeverityModerate:
			r.ModerateCount++
		case models.SeverityMild:
			r.MildCount++
		}
	}
	r.IsCompatible = len(r.Warnings) == 0
	return r
}

type Checker struct {
	index *Index
}

func NewChecker(index *Index) *Checker {
	return &Checker{index: index}
}

func (c *Checker) Index() *Index {
	return c.index
}

// CheckPair is symmetric: CheckPair(a, b) and CheckPair(b, a) report the same rules.
func (c *Checker) CheckPair(a, b models.Food) Result {
	return newResult(c.pairWarnings(a, b), 1)
}

func (c *Checker) pairWarnings(a, b models.Food) []Warning {
	var warnings []Warning
	seen := make(map[string]bool)
	add := func(rule models.ViruddhaRule) {
		if seen[rule.ID] {
			return
		}
		seen[rule.ID] = true
		warnings = append(warnings, Warning{
			Rule:    rule,
			Food1:   a.Name,
			Food2:   b.Name,
			Message: formatMessage(rule, a.Name, b.Name),
		})
	}

	// direct pass: rules naming either food whose other side reaches the other food
	for _, id := range uniqueStrings(a.ID, b.ID) {
		for _, rule := range c.index.byFood[id] {
			if rule.Links(a, b) {
				add(rule)
			}
		}
	}

	// category pass: category-to-category rules
	for _, cat := range []models.FoodCategory{a.Category, b.Category} {
		for _, rule := range c.index.byCategory[cat] {
			if rule.IsCategoryPair(a.Category, b.Category) {
				add(rule)
			}
		}
	}
	return warnings
}

func formatMessage(rule models.ViruddhaRule, food1, food2 string) string {
	return fmt.Sprintf("[%s] %s + %s: %s", strings.ToUpper(string(rule.Severity)), food1, food2, rule.Reason)
}

// CheckMeal checks every unordered pair of foods once, keyed by the sorted id pair.
func (c *Checker) CheckMeal(foods []models.Food) Result {
	var warnings []Warning
	checked := make(map[string]bool)
	pairs := 0
	for i := 0; i < len(foods); i++ {
		for j := i + 1; j < len(foods); j++ {
			ids := []string{foods[i].ID, foods[j].ID}
			sort.Strings(ids)
			key := ids[0] + "\x00" + ids[1]
			if checked[key] {
				continue
			}
			checked[key] = true
			pairs++
			warnings = append(warnings, c.pairWarnings(foods[i], foods[j])...)
		}
	}
	return newResult(warnings, pairs)
}

// CheckAddition checks the new food against every existing food.
func (c *Checker) CheckAddition(existing []models.Food, food models.Food) Result {
	var warnings []Warning
	for _, e := range existing {
		warnings = append(warnings, c.pairWarnings(e, food)...)
	}
	return newResult(warnings, len(existing))
}

// CheckTimeOfDay applies the time rules bound to the food.
func (c *Checker) CheckTimeOfDay(food models.Food, t models.TimeOfDay) []Warning {
	warnings := []Warning{}
	for _, rule := range c.index.timeByFood[food.ID] {
		if rule.TimeOfDay != t {
			continue
		}
		warnings = append(warnings, Warning{
			Rule:    rule,
			Food1:   food.Name,
			Food2:   strings.ToUpper(string(t[:1])) + string(t[1:]) + " time",
			Message: fmt.Sprintf("%s should not be consumed at %s. %s", food.Name, t, rule.Reason),
		})
	}
	return warnings
}

// Summary renders the counts of a result as one sentence.
func Summary(r Result) string {
	if r.IsCompatible {
		return "All foods in this combination are compatible according to Ayurvedic principles."
	}
	var parts []string
	if r.SevereCount > 0 {
		parts = append(parts, fmt.Sprintf("%d severe incompatibility(ies)", r.SevereCount))
	}
	if r.ModerateCount > 0 {
		parts = append(parts, fmt.Sprintf("%d moderate incompatibility(ies)", r.ModerateCount))
	}
	if r.MildCount > 0 {
		parts = append(parts, fmt.Sprintf("%d mild incompatibility(ies)", r.MildCount))
	}
	return fmt.Sprintf("Warning: Found %s. Please review the detailed warnings.", strings.Join(parts, ", "))
}
