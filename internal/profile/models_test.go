package profile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func gender(g Gender) *Gender { return &g }

func active(id string) *Profile {
	return &Profile{ID: id, IsOnboarded: true, IsActive: true}
}

func TestProfileAge(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	p := &Profile{Birthdate: date(1994, 6, 15)}
	age, ok := p.Age(now)
	assert.True(t, ok)
	assert.Equal(t, 30, age)

	p.Birthdate = date(1994, 6, 16)
	age, _ = p.Age(now)
	assert.Equal(t, 29, age)

	_, ok = (&Profile{}).Age(now)
	assert.False(t, ok)
}

func TestTempleFrequencyOrdinal(t *testing.T) {
	o, ok := TempleFrequency("weekly").Ordinal()
	assert.True(t, ok)
	assert.Equal(t, 3, o)

	_, ok = TempleFrequency("sometimes").Ordinal()
	assert.False(t, ok)
}

func TestTierRank(t *testing.T) {
	assert.Less(t, TierDrishti.Rank(), TierSparsh.Rank())
	assert.Less(t, TierSparsh.Rank(), TierSangam.Rank())
	assert.Less(t, TierSangam.Rank(), TierSamarpan.Rank())
	assert.Equal(t, 0, Tier("gold").Rank())
}

func TestCandidateFilterMatches(t *testing.T) {
	f := &CandidateFilter{
		RequesterID:    "me",
		ExcludeIDs:     []string{"seen"},
		Genders:        []Gender{GenderFemale},
		BornAfter:      date(1990, 1, 1),
		BornOnOrBefore: date(2000, 1, 1),
	}

	ok := active("a")
	ok.Gender = gender(GenderFemale)
	ok.Birthdate = date(1995, 5, 5)
	assert.True(t, f.Matches(ok))

	self := *ok
	self.ID = "me"
	assert.False(t, f.Matches(&self))

	seen := *ok
	seen.ID = "seen"
	assert.False(t, f.Matches(&seen))

	banned := *ok
	banned.IsBanned = true
	assert.False(t, f.Matches(&banned))

	male := *ok
	male.Gender = gender(GenderMale)
	assert.False(t, f.Matches(&male))

	onBoundary := *ok
	onBoundary.Birthdate = date(1990, 1, 1)
	assert.False(t, f.Matches(&onBoundary), "lower bound is exclusive")

	upper := *ok
	upper.Birthdate = date(2000, 1, 1)
	assert.True(t, f.Matches(&upper), "upper bound is inclusive")

	noBirthdate := *ok
	noBirthdate.Birthdate = nil
	assert.False(t, f.Matches(&noBirthdate))

	open := &CandidateFilter{RequesterID: "me"}
	assert.True(t, open.Matches(&noBirthdate))
}
