// internal/models/rule.go
package models

type Severity string

const (
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

func (s Severity) Valid() bool {
	return s == SeverityMild || s == SeverityModerate || s == SeveritySevere
}

// ViruddhaType is one of the twelve classical incompatibility categories.
type ViruddhaType string

const (
	ViruddhaSamyoga  ViruddhaType = "samyoga"  // combination
	ViruddhaKrama    ViruddhaType = "krama"    // sequence
	ViruddhaDesha    ViruddhaType = "desha"    // place
	ViruddhaKala     ViruddhaType = "kala"     // time
	ViruddhaMatra    ViruddhaType = "matra"    // quantity
	ViruddhaSatmya   ViruddhaType = "satmya"   // habit
	ViruddhaDosha    ViruddhaType = "dosha"    // constitution
	ViruddhaSamskara ViruddhaType = "samskara" // processing
	ViruddhaVirya    ViruddhaType = "virya"    // potency
	ViruddhaKostha   ViruddhaType = "kostha"   // bowel
	ViruddhaAvastha  ViruddhaType = "avastha"  // state of health
	ViruddhaPaka     ViruddhaType = "paka"     // cooking
)

var AllViruddhaTypes = []ViruddhaType{
	ViruddhaSamyoga, ViruddhaKrama, ViruddhaDesha, ViruddhaKala, ViruddhaMatra, ViruddhaSatmya,
	ViruddhaDosha, ViruddhaSamskara, ViruddhaVirya, ViruddhaKostha, ViruddhaAvastha, ViruddhaPaka,
}

func (t ViruddhaType) Valid() bool {
	for _, known := range AllViruddhaTypes {
		if t == known {
			return true
		}
	}
	return false
}

type TimeOfDay string

const (
	TimeMorning   TimeOfDay = "morning"
	TimeAfternoon TimeOfDay = "afternoon"
	TimeEvening   TimeOfDay = "evening"
	TimeNight     TimeOfDay = "night"
)

func (t TimeOfDay) Valid() bool {
	return t == TimeMorning || t == TimeAfternoon || t == TimeEvening || t == TimeNight
}

// ViruddhaRule pairs two sides, each a specific food or a whole category.
// A rule with TimeOfDay set binds Food1 to a time of day instead of a second food.
type ViruddhaRule struct {
	ID        string       `json:"id" yaml:"id"`
	Food1     string       `json:"food1,omitempty" yaml:"food1"`
	Food2     string       `json:"food2,omitempty" yaml:"food2"`
	Category1 FoodCategory `json:"category1,omitempty" yaml:"category1"`
	Category2 FoodCategory `json:"category2,omitempty" yaml:"category2"`
	TimeOfDay TimeOfDay    `json:"time_of_day,omitempty" yaml:"time_of_day"`
	Type      ViruddhaType `json:"type" yaml:"type"`
	Severity  Severity     `json:"severity" yaml:"severity"`
	Reason    string       `json:"reason" yaml:"reason"`
	Reference string       `json:"reference,omitempty" yaml:"reference"`
}

// MentionsFood reports whether either food side of the rule is id.
func (r ViruddhaRule) MentionsFood(id string) bool {
	return id != "" && (r.Food1 == id || r.Food2 == id)
}

// MentionsCategory reports whether either category side of the rule is c.
func (r ViruddhaRule) MentionsCategory(c FoodCategory) bool {
	return c != "" && (r.Category1 == c || r.Category2 == c)
}

// IsCategoryPair reports whether the rule links exactly the categories a and b, in either order.
func (r ViruddhaRule) IsCategoryPair(a, b FoodCategory) bool {
	return (r.Category1 == a && r.Category2 == b) || (r.Category1 == b && r.Category2 == a)
}

func sideMatches(food string, category FoodCategory, f Food) bool {
	return (food != "" && food == f.ID) || (category != "" && category == f.Category)
}

// Links reports whether one side of the rule matches a and the other side matches b, in either order.
func (r ViruddhaRule) Links(a, b Food) bool {
	return (sideMatches(r.Food1, r.Category1, a) && sideMatches(r.Food2, r.Category2, b)) ||
		(sideMatches(r.Food1, r.Category1, b) && sideMatches(r.Food2, r.Category2, a))
}
