// internal/models/food.go
package models

// Rasa is one of the six classical tastes.
type Rasa string

const (
	RasaMadhura Rasa = "madhura" // sweet
	RasaAmla    Rasa = "amla"    // sour
	RasaLavana  Rasa = "lavana"  // salty
	RasaKatu    Rasa = "katu"    // pungent
	RasaTikta   Rasa = "tikta"   // bitter
	RasaKashaya Rasa = "kashaya" // astringent
)

// AllRasas lists the tastes in their classical order.
var AllRasas = []Rasa{RasaMadhura, RasaAmla, RasaLavana, RasaKatu, RasaTikta, RasaKashaya}

// Virya is the heating or cooling potency of a food.
type Virya string

const (
	ViryaUshna  Virya = "ushna"  // heating
	ViryaSheeta Virya = "sheeta" // cooling
)

func (v Virya) Valid() bool {
	return v == ViryaUshna || v == ViryaSheeta
}

// Label returns the plain English name of the potency.
func (v Virya) Label() string {
	if v == ViryaUshna {
		return "heating"
	}
	return "cooling"
}

// Vipaka is the post-digestive effect.
type Vipaka string

const (
	VipakaMadhura Vipaka = "madhura"
	VipakaAmla    Vipaka = "amla"
	VipakaKatu    Vipaka = "katu"
)

type FoodCategory string

const (
	CategoryGrains     FoodCategory = "grains"
	CategoryPulses     FoodCategory = "pulses"
	CategoryVegetables FoodCategory = "vegetables"
	CategoryFruits     FoodCategory = "fruits"
	CategoryDairy      FoodCategory = "dairy"
	CategoryOils       FoodCategory = "oils"
	CategorySpices     FoodCategory = "spices"
	CategoryNutsSeeds  FoodCategory = "nuts_seeds"
	CategorySweets     FoodCategory = "sweets"
	CategoryMeat       FoodCategory = "meat"
	CategorySeafood    FoodCategory = "seafood"
	CategoryBeverages  FoodCategory = "beverages"
)

var AllCategories = []FoodCategory{
	CategoryGrains, CategoryPulses, CategoryVegetables, CategoryFruits,
	CategoryDairy, CategoryOils, CategorySpices, CategoryNutsSeeds,
	CategorySweets, CategoryMeat, CategorySeafood, CategoryBeverages,
}

func (c FoodCategory) Valid() bool {
	for _, known := range AllCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Season is one of the six Ayurvedic seasons (ritu).
type Season string

const (
	SeasonVasanta  Season = "vasanta"  // spring
	SeasonGrishma  Season = "grishma"  // summer
	SeasonVarsha   Season = "varsha"   // monsoon
	SeasonSharad   Season = "sharad"   // autumn
	SeasonHemanta  Season = "hemanta"  // early winter
	SeasonShishira Season = "shishira" // late winter
)

var AllSeasons = []Season{SeasonVasanta, SeasonGrishma, SeasonVarsha, SeasonSharad, SeasonHemanta, SeasonShishira}

func (s Season) Valid() bool {
	for _, known := range AllSeasons {
		if s == known {
			return true
		}
	}
	return false
}

// IsWinter reports whether the season is one of the two winter seasons.
func (s Season) IsWinter() bool {
	return s == SeasonHemanta || s == SeasonShishira
}

// DoshaEffect holds the per-dosha effect of a food, from -2 (pacifies) to +2 (aggravates).
type DoshaEffect struct {
	Vata  float64 `json:"vata" yaml:"vata"`
	Pitta float64 `json:"pitta" yaml:"pitta"`
	Kapha float64 `json:"kapha" yaml:"kapha"`
}

// For returns the effect on a single dosha.
func (d DoshaEffect) For(dosha DoshaType) float64 {
	switch dosha {
	case DoshaVata:
		return d.Vata
	case DoshaPitta:
		return d.Pitta
	case DoshaKapha:
		return d.Kapha
	default:
		return 0
	}
}

func (d DoshaEffect) Add(o DoshaEffect) DoshaEffect {
	return DoshaEffect{Vata: d.Vata + o.Vata, Pitta: d.Pitta + o.Pitta, Kapha: d.Kapha + o.Kapha}
}

func (d DoshaEffect) Scale(f float64) DoshaEffect {
	return DoshaEffect{Vata: d.Vata * f, Pitta: d.Pitta * f, Kapha: d.Kapha * f}
}

type AyurvedicProperties struct {
	Rasa        []Rasa      `json:"rasa" yaml:"rasa"`
	Virya       Virya       `json:"virya" yaml:"virya"`
	Vipaka      Vipaka      `json:"vipaka" yaml:"vipaka"`
	DoshaEffect DoshaEffect `json:"dosha_effect" yaml:"dosha_effect"`
	Guna        []string    `json:"guna,omitempty" yaml:"guna"`
}

// NutritionalInfo is per serving. Vitamins and minerals are optional maps of nutrient to amount.
type NutritionalInfo struct {
	Calories float64            `json:"calories" yaml:"calories"`
	Protein  float64            `json:"protein" yaml:"protein"`
	Carbs    float64            `json:"carbs" yaml:"carbs"`
	Fat      float64            `json:"fat" yaml:"fat"`
	Fiber    float64            `json:"fiber" yaml:"fiber"`
	Vitamins map[string]float64 `json:"vitamins,omitempty" yaml:"vitamins"`
	Minerals map[string]float64 `json:"minerals,omitempty" yaml:"minerals"`
}

// Add returns the macro sum of n and o scaled by quantity. Micronutrient maps are not aggregated.
func (n NutritionalInfo) Add(o NutritionalInfo, quantity float64) NutritionalInfo {
	return NutritionalInfo{
		Calories: n.Calories + o.Calories*quantity,
		Protein:  n.Protein + o.Protein*quantity,
		Carbs:    n.Carbs + o.Carbs*quantity,
		Fat:      n.Fat + o.Fat*quantity,
		Fiber:    n.Fiber + o.Fiber*quantity,
	}
}

// Food is immutable reference data loaded once from the catalog.
type Food struct {
	ID                string              `json:"id" yaml:"id"`
	Name              string              `json:"name" yaml:"name"`
	NameHindi         string              `json:"name_hindi,omitempty" yaml:"name_hindi"`
	Category          FoodCategory        `json:"category" yaml:"category"`
	Ayurvedic         AyurvedicProperties `json:"ayurvedic" yaml:"ayurvedic"`
	Nutrition         NutritionalInfo     `json:"nutrition" yaml:"nutrition"`
	ServingSize       string              `json:"serving_size" yaml:"serving_size"`
	ServingGrams      float64             `json:"serving_grams" yaml:"serving_grams"`
	Season            []Season            `json:"season,omitempty" yaml:"season"`
	Contraindications []string            `json:"contraindications,omitempty" yaml:"contraindications"`
}

func (f Food) InSeason(s Season) bool {
	for _, season := range f.Season {
		if season == s {
			return true
		}
	}
	return false
}

func (f Food) HasRasa(r Rasa) bool {
	for _, rasa := range f.Ayurvedic.Rasa {
		if rasa == r {
			return true
		}
	}
	return false
}
