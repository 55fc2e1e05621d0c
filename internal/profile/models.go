// internal/profile/models.go

package profile

import (
	"strings"
	"time"

	"github.com/lib/pq"
)

// Gender is the self-declared gender of a member.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// TempleFrequency is how often a member visits a temple. Values are ordered.
type TempleFrequency string

const (
	TempleNever   TempleFrequency = "Never"
	TempleRarely  TempleFrequency = "Rarely"
	TempleMonthly TempleFrequency = "Monthly"
	TempleWeekly  TempleFrequency = "Weekly"
	TempleDaily   TempleFrequency = "Daily"
)

var templeOrder = map[TempleFrequency]int{
	TempleNever:   0,
	TempleRarely:  1,
	TempleMonthly: 2,
	TempleWeekly:  3,
	TempleDaily:   4,
}

// Ordinal returns the position of f on the Never..Daily scale and false for
// values outside of it.
func (f TempleFrequency) Ordinal() (int, bool) {
	for k, v := range templeOrder {
		if strings.EqualFold(string(k), strings.TrimSpace(string(f))) {
			return v, true
		}
	}
	return 0, false
}

// Tier is the subscription level. Values are ordered by increasing privilege.
type Tier string

const (
	TierDrishti  Tier = "drishti"
	TierSparsh   Tier = "sparsh"
	TierSangam   Tier = "sangam"
	TierSamarpan Tier = "samarpan"
)

// Rank returns the privilege order of the tier; unknown tiers rank as drishti.
func (t Tier) Rank() int {
	switch Tier(strings.ToLower(string(t))) {
	case TierSparsh:
		return 1
	case TierSangam:
		return 2
	case TierSamarpan:
		return 3
	default:
		return 0
	}
}

// Profile holds the matchable attributes of a member. Every optional
// attribute is a pointer or an empty slice; nil means unknown.
type Profile struct {
	ID          string  `json:"id" db:"id"`
	DisplayName string  `json:"display_name" db:"display_name"`
	Gender      *Gender `json:"gender,omitempty" db:"gender"`

	Birthdate       *time.Time `json:"birthdate,omitempty" db:"birthdate"`
	PreferredMinAge *int       `json:"preferred_min_age,omitempty" db:"preferred_min_age"`
	PreferredMaxAge *int       `json:"preferred_max_age,omitempty" db:"preferred_max_age"`

	// Location ids as stored; names are filled in by the LocationResolver.
	CityID    *int64  `json:"-" db:"city_id"`
	StateID   *int64  `json:"-" db:"state_id"`
	CountryID *int64  `json:"-" db:"country_id"`
	City      *string `json:"city,omitempty" db:"-"`
	State     *string `json:"state,omitempty" db:"-"`
	Country   *string `json:"country,omitempty" db:"-"`

	SpiritualOrganizations pq.StringArray   `json:"spiritual_organizations" db:"spiritual_organizations"`
	DailyPractices         pq.StringArray   `json:"daily_practices" db:"daily_practices"`
	Diet                   *string          `json:"diet,omitempty" db:"diet"`
	TempleVisitFrequency   *TempleFrequency `json:"temple_visit_frequency,omitempty" db:"temple_visit_frequency"`
	LifePhilosophy         *string          `json:"life_philosophy,omitempty" db:"life_philosophy"`
	VanaprasthaInterest    *string          `json:"vanaprastha_interest,omitempty" db:"vanaprastha_interest"`

	Profession        *string `json:"profession,omitempty" db:"profession"`
	Education         *string `json:"education,omitempty" db:"education"`
	About             *string `json:"about,omitempty" db:"about"`
	IdealPartnerNotes *string `json:"ideal_partner_notes,omitempty" db:"ideal_partner_notes"`

	PhotoKey *string `json:"-" db:"photo_key"`

	Tier        Tier      `json:"-" db:"subscription_tier"`
	IsOnboarded bool      `json:"-" db:"is_onboarded"`
	IsActive    bool      `json:"-" db:"is_active"`
	IsBanned    bool      `json:"-" db:"is_banned"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Matchable reports whether the profile may be used as a scoring input.
func (p *Profile) Matchable() bool {
	return p != nil && p.IsOnboarded && p.IsActive && !p.IsBanned
}

// Age returns the age in whole years at asOf, or false when the birthdate is
// unknown.
func (p *Profile) Age(asOf time.Time) (int, bool) {
	if p == nil || p.Birthdate == nil {
		return 0, false
	}
	b := p.Birthdate.UTC()
	now := asOf.UTC()
	age := now.Year() - b.Year()
	if now.Month() < b.Month() || (now.Month() == b.Month() && now.Day() < b.Day()) {
		age--
	}
	if age < 0 {
		return 0, false
	}
	return age, true
}

// CandidateFilter is the declarative description of one candidate query.
// It is built by the discovery policy and executed by a Repository.
type CandidateFilter struct {
	RequesterID string   `json:"requester_id"`
	ExcludeIDs  []string `json:"exclude_ids"`

	// Genders restricts candidates to these values; empty means unrestricted.
	Genders []Gender `json:"genders,omitempty"`

	// BornAfter is exclusive, BornOnOrBefore inclusive. Nil means unbounded.
	BornAfter      *time.Time `json:"born_after,omitempty"`
	BornOnOrBefore *time.Time `json:"born_on_or_before,omitempty"`

	Limit int `json:"limit"`
}

// Matches applies the filter to a single profile. It mirrors the SQL the
// Postgres repository generates and is used by in-memory stores.
func (f *CandidateFilter) Matches(p *Profile) bool {
	if !p.Matchable() || p.ID == f.RequesterID {
		return false
	}
	for _, id := range f.ExcludeIDs {
		if id == p.ID {
			return false
		}
	}
	if len(f.Genders) > 0 {
		if p.Gender == nil {
			return false
		}
		ok := false
		for _, g := range f.Genders {
			if g == *p.Gender {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if f.BornAfter != nil || f.BornOnOrBefore != nil {
		if p.Birthdate == nil {
			return false
		}
		if f.BornAfter != nil && !p.Birthdate.After(*f.BornAfter) {
			return false
		}
		if f.BornOnOrBefore != nil && p.Birthdate.After(*f.BornOnOrBefore) {
			return false
		}
	}
	return true
}
