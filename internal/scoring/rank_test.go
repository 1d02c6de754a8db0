package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcp-ahara/internal/models"
	"mcp-ahara/internal/testutil"
)

func TestRankIsSortedDescending(t *testing.T) {
	factory := testutil.NewFoodFactory(7)
	foods := factory.Foods(60)
	scorer := NewScorer(DefaultConfig())

	ranked := scorer.Rank(foods, factory.Patient(), inSeason(models.SeasonSharad))

	require.Len(t, ranked, len(foods))
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Score.TotalScore, ranked[i].Score.TotalScore)
	}
}

func TestRankKeepsInputOrderOnTies(t *testing.T) {
	a := testutil.NewFoodBuilder("a").Build()
	b := testutil.NewFoodBuilder("b").Build()
	c := testutil.NewFoodBuilder("c").Build()
	scorer := NewScorer(DefaultConfig())

	ranked := scorer.Rank([]models.Food{a, b, c}, testutil.Patient(models.DoshaVata), inSeason(models.SeasonVarsha))

	assert.Equal(t, []string{"a", "b", "c"}, []string{ranked[0].Food.ID, ranked[1].Food.ID, ranked[2].Food.ID})
}

func TestTopRecommendationsIsPrefix(t *testing.T) {
	factory := testutil.NewFoodFactory(11)
	foods := factory.Foods(25)
	patient := factory.Patient()
	scorer := NewScorer(DefaultConfig())
	cfg := inSeason(models.SeasonHemanta)
	ranked := scorer.Rank(foods, patient, cfg)

	for _, n := range []int{0, 1, 10, 25, 40} {
		top := scorer.TopRecommendations(foods, patient, n, cfg)

		want := n
		if want > len(foods) {
			want = len(foods)
		}
		require.Len(t, top, want)
		assert.Equal(t, ranked[:want], top)
	}
}

func TestFilterByMinScore(t *testing.T) {
	factory := testutil.NewFoodFactory(3)
	foods := factory.Foods(40)
	scorer := NewScorer(DefaultConfig())

	kept := scorer.FilterByMinScore(foods, factory.Patient(), 50, inSeason(models.SeasonVasanta))

	for _, sf := range kept {
		assert.GreaterOrEqual(t, sf.Score.TotalScore, 50)
	}
}
