package dating

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imadgeboyega/sangam-discovery/internal/profile"
)

func explainPair(a, b *profile.Profile) CompatibilityResult {
	cfg := DefaultMatchingConfig()
	return NewExplainer(cfg).Explain(a, b, NewScorer(cfg, clock).Score(a, b))
}

func TestExplainReasonPriority(t *testing.T) {
	a := member("a", profile.GenderFemale, 29)
	a.SpiritualOrganizations = []string{"ISKCON", "Art of Living"}
	a.DailyPractices = []string{"Japa", "Meditation", "Yoga"}
	a.Diet = strPtr("Vegetarian")
	a.City, a.State, a.Country = strPtr("Pune"), strPtr("MH"), strPtr("India")
	a.LifePhilosophy = strPtr("Spiritual")

	b := member("b", profile.GenderMale, 31)
	b.SpiritualOrganizations = []string{"art of living", "iskcon"}
	b.DailyPractices = []string{"yoga", "japa"}
	b.Diet = strPtr("Vegan")
	b.City, b.State, b.Country = strPtr("Pune"), strPtr("MH"), strPtr("India")
	b.LifePhilosophy = strPtr("spiritual")

	r := explainPair(a, b)

	assert.Equal(t, []string{
		"Both connected to the Art of Living community",
		"Both connected to the ISKCON community",
		"Share 2 core spiritual practices: Japa, Yoga",
		"Compatible dietary practices: vegetarian and vegan",
		"Same city — easy to meet",
		"Similar life philosophy",
	}, r.Reasons)
	assert.Empty(t, r.Concerns)
}

func TestExplainConcerns(t *testing.T) {
	a := member("a", profile.GenderFemale, 29)
	a.TempleVisitFrequency = templePtr(profile.TempleDaily)
	a.LifePhilosophy = strPtr("Spiritual")

	b := member("b", profile.GenderMale, 31)
	b.TempleVisitFrequency = templePtr(profile.TempleMonthly)
	b.LifePhilosophy = strPtr("Worldly")

	r := explainPair(a, b)
	assert.Equal(t, []string{
		"Different temple visit rhythms: Daily vs Monthly",
		"Different life philosophies: Spiritual vs Worldly",
	}, r.Concerns)
	assert.NotContains(t, r.Reasons, "Similar life philosophy")
}

func TestExplainSinglePracticeIsNotAReason(t *testing.T) {
	a := member("a", profile.GenderFemale, 29)
	a.DailyPractices = []string{"Japa"}
	b := member("b", profile.GenderMale, 31)
	b.DailyPractices = []string{"Japa", "Yoga"}

	for _, reason := range explainPair(a, b).Reasons {
		assert.NotContains(t, reason, "core spiritual practices")
	}
}

func TestExplainUniqueStrengths(t *testing.T) {
	a := member("a", profile.GenderFemale, 29)
	a.SpiritualOrganizations = []string{"ISKCON"}
	a.DailyPractices = []string{"Japa", "Kirtan"}
	a.TempleVisitFrequency = templePtr(profile.TempleWeekly)
	a.Diet = strPtr("Sattvic")
	a.VanaprasthaInterest = strPtr("yes")

	b := member("b", profile.GenderMale, 31)
	b.SpiritualOrganizations = []string{"ISKCON"}
	b.DailyPractices = []string{"Japa", "Kirtan"}
	b.TempleVisitFrequency = templePtr(profile.TempleWeekly)
	b.Diet = strPtr("Sattvic")
	b.VanaprasthaInterest = strPtr("yes")

	r := explainPair(a, b)
	require.Equal(t, 100.0, r.Breakdown[DimensionSpiritual])
	require.Equal(t, 100.0, r.Breakdown[DimensionLifestyle])

	assert.Contains(t, r.UniqueStrengths, "ISKCON spiritual community bond")
	assert.Contains(t, r.UniqueStrengths, "High potential for shared spiritual growth")
	assert.Contains(t, r.UniqueStrengths, "Matches stated partner preferences")
	// lifestyle is already explained by the diet reason
	assert.NotContains(t, r.UniqueStrengths, "Harmonious daily lifestyle")
}

func TestExplainEmptyProfiles(t *testing.T) {
	r := explainPair(&profile.Profile{ID: "a"}, &profile.Profile{ID: "b"})
	assert.Empty(t, r.Reasons)
	assert.Empty(t, r.Concerns)
	assert.Empty(t, r.UniqueStrengths)
	assert.NotNil(t, r.Reasons)
}

func TestDisplayedReasons(t *testing.T) {
	reasons := []string{"a", "b", "c", "d", "e", "f"}
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, displayedReasons(reasons, 5))
	assert.Equal(t, []string{"a"}, displayedReasons([]string{"a"}, 5))
}
