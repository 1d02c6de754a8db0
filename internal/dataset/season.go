package dataset

import (
	"time"

	"mcp-ahara/internal/models"
)

// SeasonForMonth maps a calendar month to its two-month ritu.
func SeasonForMonth(m time.Month) models.Season {
	switch m {
	case time.January, time.February:
		return models.SeasonShishira
	case time.March, time.April:
		return models.SeasonVasanta
	case time.May, time.June:
		return models.SeasonGrishma
	case time.July, time.August:
		return models.SeasonVarsha
	case time.September, time.October:
		return models.SeasonSharad
	default:
		return models.SeasonHemanta
	}
}

// CurrentSeason is the season for now's month.
func CurrentSeason(now time.Time) models.Season {
	return SeasonForMonth(now.Month())
}
