// Package viruddha detects incompatible food combinations (viruddha aahara).
package viruddha

import (
	"fmt"

	"mcp-ahara/internal/models"
)

// AlgorithmVersion tags every compatibility result.
const AlgorithmVersion = "graph-lookup-v1"

// FoodLookup resolves food ids referenced by rules.
type FoodLookup interface {
	Lookup(id string) (models.Food, bool)
}

// Issue describes a rule that was skipped while building the index.
type Issue struct {
	RuleID string `json:"rule_id"`
	Reason string `json:"reason"`
}

func (i Issue) String() string {
	return fmt.Sprintf("rule %q: %s", i.RuleID, i.Reason)
}

// Index is immutable once built. Pair rules are indexed under every food id and
// category they mention; time rules are kept apart under their food id.
type Index struct {
	pairRules  []models.ViruddhaRule
	timeRules  []models.ViruddhaRule
	byFood     map[string][]models.ViruddhaRule
	byCategory map[models.FoodCategory][]models.ViruddhaRule
	timeByFood map[string][]models.ViruddhaRule
}

// BuildIndex indexes the well-formed rules and reports the rest as issues.
// A nil lookup skips the food id existence check.
func BuildIndex(rules []models.ViruddhaRule, lookup FoodLookup) (*Index, []Issue) {
	idx := &Index{
		byFood:     make(map[string][]models.ViruddhaRule),
		byCategory: make(map[models.FoodCategory][]models.ViruddhaRule),
		timeByFood: make(map[string][]models.ViruddhaRule),
	}
	var issues []Issue
	seen := make(map[string]bool, len(rules))

	for _, rule := range rules {
		if rule.ID != "" && seen[rule.ID] {
			issues = append(issues, Issue{RuleID: rule.ID, Reason: "duplicate rule id"})
			continue
		}
		if reason := validateRule(rule, lookup); reason != "" {
			issues = append(issues, Issue{RuleID: rule.ID, Reason: reason})
			continue
		}
		seen[rule.ID] = true

		if rule.TimeOfDay != "" {
			idx.timeRules = append(idx.timeRules, rule)
			idx.timeByFood[rule.Food1] = append(idx.timeByFood[rule.Food1], rule)
			continue
		}

		idx.pairRules = append(idx.pairRules, rule)
		for _, id := range uniqueStrings(rule.Food1, rule.Food2) {
			idx.byFood[id] = append(idx.byFood[id], rule)
		}
		for _, c := range uniqueStrings(string(rule.Category1), string(rule.Category2)) {
			cat := models.FoodCategory(c)
			idx.byCategory[cat] = append(idx.byCategory[cat], rule)
		}
	}
	return idx, issues
}

func validateRule(rule models.ViruddhaRule, lookup FoodLookup) string {
	if rule.ID == "" {
		return "missing id"
	}
	if !rule.Severity.Valid() {
		return fmt.Sprintf("unknown severity %q", rule.Severity)
	}
	if !rule.Type.Valid() {
		return fmt.Sprintf("unknown type %q", rule.Type)
	}
	for _, c := range []models.FoodCategory{rule.Category1, rule.Category2} {
		if c != "" && !c.Valid() {
			return fmt.Sprintf("unknown category %q", c)
		}
	}
	if lookup != nil {
		for _, id := range []string{rule.Food1, rule.Food2} {
			if id == "" {
				continue
			}
			if _, ok := lookup.Lookup(id); !ok {
				return fmt.Sprintf("unknown food %q", id)
			}
		}
	}

	if rule.TimeOfDay != "" {
		if !rule.TimeOfDay.Valid() {
			return fmt.Sprintf("unknown time of day %q", rule.TimeOfDay)
		}
		if rule.Food1 == "" {
			return "time rule needs food1"
		}
		if rule.Food2 != "" || rule.Category2 != "" {
			return "time rule cannot name a second side"
		}
		return ""
	}

	if rule.Food1 == "" && rule.Category1 == "" {
		return "first side names neither a food nor a category"
	}
	if rule.Food2 == "" && rule.Category2 == "" {
		return "second side names neither a food nor a category"
	}
	return ""
}

func uniqueStrings(a, b string) []string {
	switch {
	case a == "" && b == "":
		return nil
	case a == "" || a == b:
		return []string{b}
	case b == "":
		return []string{a}
	default:
		return []string{a, b}
	}
}

// Rules returns the pair rules followed by the time rules.
func (idx *Index) Rules() []models.ViruddhaRule {
	out := make([]models.ViruddhaRule, 0, len(idx.pairRules)+len(idx.timeRules))
	out = append(out, idx.pairRules...)
	return append(out, idx.timeRules...)
}

// FoodRules lists every rule that names the food, time rules included.
func (idx *Index) FoodRules(id string) []models.ViruddhaRule {
	out := append([]models.ViruddhaRule(nil), idx.byFood[id]...)
	return append(out, idx.timeByFood[id]...)
}

func (idx *Index) CategoryRules(category models.FoodCategory) []models.ViruddhaRule {
	return append([]models.ViruddhaRule(nil), idx.byCategory[category]...)
}

type GraphNode struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

type GraphEdge struct {
	RuleID   string              `json:"rule_id"`
	Source   string              `json:"source"`
	Target   string              `json:"target"`
	Severity models.Severity     `json:"severity"`
	Type     models.ViruddhaType `json:"type"`
}

type Graph struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// Graph exports the pair rules for visualisation: one edge per rule, each side a food or category node.
func (idx *Index) Graph() Graph {
	g := Graph{Nodes: []GraphNode{}, Edges: []GraphEdge{}}
	seen := make(map[GraphNode]bool)
	side := func(food string, category models.FoodCategory) string {
		node := GraphNode{ID: food, Type: "food"}
		if food == "" {
			node = GraphNode{ID: string(category), Type: "category"}
		}
		if !seen[node] {
			seen[node] = true
			g.Nodes = append(g.Nodes, node)
		}
		return node.ID
	}
	for _, rule := range idx.pairRules {
		g.Edges = append(g.Edges, GraphEdge{
			RuleID:   rule.ID,
			Source:   side(rule.Food1, rule.Category1),
			Target:   side(rule.Food2, rule.Category2),
			Severity: rule.Severity,
			Type:     rule.Type,
		})
	}
	return g
}
