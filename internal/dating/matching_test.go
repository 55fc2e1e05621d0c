package dating

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imadgeboyega/sangam-discovery/internal/profile"
)

func newTestScorer() *Scorer {
	return NewScorer(DefaultMatchingConfig(), clock)
}

func assertInRange(t *testing.T, r CompatibilityResult) {
	t.Helper()
	assert.GreaterOrEqual(t, r.Total, 0.0)
	assert.LessOrEqual(t, r.Total, 100.0)
	require.Len(t, r.Breakdown, len(Dimensions))
	for _, d := range Dimensions {
		v, ok := r.Breakdown[d]
		require.True(t, ok, "missing dimension %s", d)
		assert.GreaterOrEqual(t, v, 0.0, d)
		assert.LessOrEqual(t, v, 100.0, d)
	}
}

func TestScoreTotalityWithEmptyProfiles(t *testing.T) {
	s := newTestScorer()
	empty := &profile.Profile{ID: "a", IsOnboarded: true, IsActive: true}
	other := &profile.Profile{ID: "b", IsOnboarded: true, IsActive: true}

	r := s.Score(empty, other)
	assertInRange(t, r)

	for _, d := range []Dimension{DimensionSpiritual, DimensionLifestyle, DimensionPsychological,
		DimensionDemographic, DimensionPreference, DimensionSemantic} {
		assert.Equal(t, 50.0, r.Breakdown[d], d)
	}
	assert.Equal(t, 80.0, r.Breakdown[DimensionGrowth])
	assert.InDelta(t, 51.5, r.Total, 1e-9)
	assert.Equal(t, int(math.Round(r.Total)), r.Score)
}

func TestScoreEmptyCandidateIsNeutral(t *testing.T) {
	s := newTestScorer()
	requester := member("a", profile.GenderMale, 30)
	requester.SpiritualOrganizations = []string{"ISKCON"}
	requester.DailyPractices = []string{"Meditation", "Japa"}
	requester.Diet = strPtr("Vegetarian")
	requester.TempleVisitFrequency = templePtr(profile.TempleWeekly)
	requester.VanaprasthaInterest = strPtr("yes")

	candidate := &profile.Profile{ID: "b", IsOnboarded: true, IsActive: true}

	r := s.Score(requester, candidate)
	assert.Equal(t, 50.0, r.Breakdown[DimensionSpiritual])
	assert.Equal(t, 50.0, r.Breakdown[DimensionLifestyle])
}

func TestScoreSharedCommunityExample(t *testing.T) {
	s := newTestScorer()

	a := member("a", profile.GenderMale, 30)
	a.SpiritualOrganizations = []string{"ISKCON", "AoL"}
	a.DailyPractices = []string{"Meditation", "Yoga"}
	a.TempleVisitFrequency = templePtr(profile.TempleWeekly)
	a.City, a.State, a.Country = strPtr("Pune"), strPtr("Maharashtra"), strPtr("India")

	b := member("b", profile.GenderFemale, 28)
	b.SpiritualOrganizations = []string{"ISKCON", "BrahmaKumaris"}
	b.DailyPractices = []string{"meditation", "yoga"}
	b.TempleVisitFrequency = templePtr(profile.TempleWeekly)
	b.City, b.State, b.Country = strPtr("Pune"), strPtr("Maharashtra"), strPtr("India")

	r := s.Score(a, b)
	assertInRange(t, r)
	// orgs 1/3, practices 2/2 case-insensitively, same temple rhythm
	assert.InDelta(t, 100.0/3*0.40+100*0.35+100*0.25, r.Breakdown[DimensionSpiritual], 1e-9)
	assert.Greater(t, r.Breakdown[DimensionSpiritual], 70.0)
	assert.Equal(t, 100.0, r.Breakdown[DimensionDemographic])
	assert.Equal(t, 100.0, r.Breakdown[DimensionPreference])

	explained := NewExplainer(DefaultMatchingConfig()).Explain(a, b, r)
	require.NotEmpty(t, explained.Reasons)
	assert.Contains(t, explained.Reasons[0], "ISKCON")
}

func TestScoreDeterministic(t *testing.T) {
	s := newTestScorer()
	a := member("a", profile.GenderFemale, 33)
	a.About = strPtr("Teacher who loves kirtan and trekking")
	a.IdealPartnerNotes = strPtr("Kind, devoted, enjoys kirtan")
	b := member("b", profile.GenderMale, 35)
	b.About = strPtr("Engineer, kirtan on weekends, kind heart")

	assert.Equal(t, s.Score(a, b), s.Score(a, b))
}

func TestTempleScore(t *testing.T) {
	s := newTestScorer()
	tests := []struct {
		a, b profile.TempleFrequency
		want float64
	}{
		{profile.TempleWeekly, profile.TempleWeekly, 100},
		{profile.TempleWeekly, profile.TempleDaily, 75},
		{profile.TempleMonthly, profile.TempleDaily, 50},
		{profile.TempleNever, profile.TempleWeekly, 25},
		{profile.TempleNever, profile.TempleDaily, 25},
		{"Sometimes", profile.TempleDaily, 50},
	}
	for _, tt := range tests {
		a := &profile.Profile{TempleVisitFrequency: templePtr(tt.a)}
		b := &profile.Profile{TempleVisitFrequency: templePtr(tt.b)}
		assert.Equal(t, tt.want, s.templeScore(a, b), "%s vs %s", tt.a, tt.b)
	}
}

func TestDietScore(t *testing.T) {
	s := newTestScorer()
	tests := []struct {
		a, b *string
		want float64
	}{
		{strPtr("Vegetarian"), strPtr("vegetarian "), 100},
		{strPtr("Vegetarian"), strPtr("Vegan"), 80},
		{strPtr("Jain"), strPtr("Sattvic"), 80},
		{strPtr("Vegan"), strPtr("Non-vegetarian"), 40},
		{nil, strPtr("Vegan"), 50},
	}
	for _, tt := range tests {
		got := s.dietScore(&profile.Profile{Diet: tt.a}, &profile.Profile{Diet: tt.b})
		assert.Equal(t, tt.want, got)
	}
}

func TestVanaprasthaScore(t *testing.T) {
	s := newTestScorer()
	tests := []struct {
		a, b string
		want float64
	}{
		{"yes", "Yes", 100},
		{"open", "no", 70},
		{"yes", "no", 30},
		{"yes", "", 50},
	}
	for _, tt := range tests {
		got := s.vanaprasthaScore(&profile.Profile{VanaprasthaInterest: strPtr(tt.a)}, &profile.Profile{VanaprasthaInterest: strPtr(tt.b)})
		assert.Equal(t, tt.want, got, "%q vs %q", tt.a, tt.b)
	}
}

func TestPsychologicalScore(t *testing.T) {
	s := newTestScorer()
	tests := []struct {
		a, b string
		want float64
	}{
		{"Spiritual", "spiritual", 100},
		{"Balance", "Worldly", 70},
		{"A balance of spiritual and worldly life", "Spiritual", 70},
		{"Spiritual", "Worldly", 30},
		{"Spiritual", "adventurous", 50},
	}
	for _, tt := range tests {
		got := s.psychologicalScore(&profile.Profile{LifePhilosophy: strPtr(tt.a)}, &profile.Profile{LifePhilosophy: strPtr(tt.b)})
		assert.Equal(t, tt.want, got, "%q vs %q", tt.a, tt.b)
	}
}

func TestAgeScore(t *testing.T) {
	s := newTestScorer()
	tests := []struct {
		a, b int
		want float64
	}{
		{30, 30, 100},
		{30, 33, 100},
		{30, 39, 50},
		{30, 45, 0},
		{30, 60, 0},
	}
	for _, tt := range tests {
		got := s.ageScore(&profile.Profile{Birthdate: bornYearsAgo(tt.a)}, &profile.Profile{Birthdate: bornYearsAgo(tt.b)}, fixedNow)
		assert.InDelta(t, tt.want, got, 1e-9, "%d vs %d", tt.a, tt.b)
	}
	assert.Equal(t, 50.0, s.ageScore(&profile.Profile{}, &profile.Profile{Birthdate: bornYearsAgo(30)}, fixedNow))
}

func TestLocationScore(t *testing.T) {
	s := newTestScorer()
	loc := func(city, state, country string) *profile.Profile {
		p := &profile.Profile{}
		if city != "" {
			p.City = strPtr(city)
		}
		if state != "" {
			p.State = strPtr(state)
		}
		if country != "" {
			p.Country = strPtr(country)
		}
		return p
	}

	assert.Equal(t, 100.0, s.locationScore(loc("Pune", "MH", "India"), loc("pune", "MH", "India")))
	assert.Equal(t, 70.0, s.locationScore(loc("Pune", "MH", "India"), loc("Mumbai", "MH", "India")))
	assert.Equal(t, 40.0, s.locationScore(loc("Pune", "MH", "India"), loc("Bengaluru", "KA", "India")))
	assert.Equal(t, 15.0, s.locationScore(loc("Pune", "MH", "India"), loc("London", "", "UK")))
	assert.Equal(t, 50.0, s.locationScore(loc("", "", ""), loc("London", "", "UK")))
}

func TestPreferenceScore(t *testing.T) {
	s := newTestScorer()

	requester := member("a", profile.GenderMale, 30)
	requester.PreferredMinAge = intPtr(25)
	requester.PreferredMaxAge = intPtr(30)

	inRange := member("b", profile.GenderFemale, 27)
	outOfRange := member("c", profile.GenderFemale, 40)
	wrongGender := member("d", profile.GenderMale, 27)

	assert.Equal(t, 100.0, s.preferenceScore(requester, inRange, fixedNow))
	assert.Equal(t, 60.0, s.preferenceScore(requester, outOfRange, fixedNow))
	assert.Equal(t, 60.0, s.preferenceScore(requester, wrongGender, fixedNow))
	assert.Equal(t, 50.0, s.preferenceScore(&profile.Profile{}, inRange, fixedNow))
}

func TestSemanticScore(t *testing.T) {
	s := newTestScorer()

	a := &profile.Profile{
		IdealPartnerNotes: strPtr("Kirtan, seva and trekking."),
		About:             strPtr("I teach yoga."),
	}
	b := &profile.Profile{
		About:             strPtr("Kirtan every weekend; seva at the temple; trekking in monsoon!"),
		IdealPartnerNotes: strPtr("A yoga teacher"),
	}

	// a->b: {kirtan, seva, trekking} all found; b->a: {yoga, teacher} vs {teach, yoga} -> 1/2
	assert.InDelta(t, 75.0, s.semanticScore(a, b), 1e-9)
	assert.Equal(t, 50.0, s.semanticScore(&profile.Profile{}, b))
}

func TestGrowthScoreCapped(t *testing.T) {
	s := newTestScorer()
	assert.Equal(t, 60.0, s.growthScore(0))
	assert.Equal(t, 100.0, s.growthScore(100))
	assert.Equal(t, 80.0, s.growthScore(50))
}
