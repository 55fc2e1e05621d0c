// internal/dating/eligibility.go
// Candidate pool selection with progressively relaxed filters

package dating

import (
	"context"
	"reflect"
	"sort"
	"time"

	"github.com/imadgeboyega/sangam-discovery/internal/profile"
)

// FallbackStage identifies which eligibility filter produced the pool.
type FallbackStage string

const (
	StageStrict FallbackStage = "strict" // gender and widened age window
	StageNoAge  FallbackStage = "no_age" // gender only
	StageOpen   FallbackStage = "open"   // activity flags, self and exclusions only
)

var fallbackStages = []FallbackStage{StageStrict, StageNoAge, StageOpen}

// CandidateSource executes a declarative candidate filter.
type CandidateSource interface {
	QueryEligibleCandidates(ctx context.Context, filter *profile.CandidateFilter) ([]*profile.Profile, error)
}

// Selection is the outcome of SelectCandidates.
type Selection struct {
	Candidates   []*profile.Profile
	Stage        FallbackStage
	FallbackUsed bool
}

// EligibilityFilter assembles the candidate pool for one requester.
type EligibilityFilter struct {
	source CandidateSource
	cfg    EligibilityConfig
	now    func() time.Time
}

func NewEligibilityFilter(source CandidateSource, cfg EligibilityConfig, now func() time.Time) *EligibilityFilter {
	if now == nil {
		now = time.Now
	}
	return &EligibilityFilter{source: source, cfg: cfg, now: now}
}

// SelectCandidates tries each stage in order and returns the first non-empty
// pool. An empty Selection is a normal outcome, not an error. Stages whose
// filter is identical to an earlier one are not queried again.
func (e *EligibilityFilter) SelectCandidates(ctx context.Context, requester *profile.Profile, excluded map[string]struct{}, limit int) (*Selection, error) {
	excludeIDs := sortedIDs(excluded)
	now := e.now()

	var tried []*profile.CandidateFilter
	for _, stage := range fallbackStages {
		filter := BuildFilter(requester, excludeIDs, limit, stage, e.cfg, now)
		if containsFilter(tried, filter) {
			continue
		}
		tried = append(tried, filter)

		found, err := e.source.QueryEligibleCandidates(ctx, filter)
		if err != nil {
			return nil, err
		}

		candidates := sanitizeCandidates(found, requester.ID, excluded, limit)
		if len(candidates) > 0 {
			return &Selection{
				Candidates:   candidates,
				Stage:        stage,
				FallbackUsed: stage != StageStrict,
			}, nil
		}
	}

	return &Selection{
		Candidates:   []*profile.Profile{},
		Stage:        StageOpen,
		FallbackUsed: true,
	}, nil
}

// BuildFilter is the pure policy for one stage.
func BuildFilter(requester *profile.Profile, excludeIDs []string, limit int, stage FallbackStage, cfg EligibilityConfig, now time.Time) *profile.CandidateFilter {
	f := &profile.CandidateFilter{
		RequesterID: requester.ID,
		ExcludeIDs:  excludeIDs,
		Limit:       limit,
	}

	if stage == StageStrict || stage == StageNoAge {
		f.Genders = compatibleGenders(requester.Gender)
	}
	if stage == StageStrict {
		f.BornAfter, f.BornOnOrBefore = birthdateWindow(requester, cfg, now)
	}
	return f
}

// compatibleGenders returns nil when the requester is unrestricted.
func compatibleGenders(g *profile.Gender) []profile.Gender {
	if g == nil {
		return nil
	}
	switch *g {
	case profile.GenderMale:
		return []profile.Gender{profile.GenderFemale, profile.GenderOther}
	case profile.GenderFemale:
		return []profile.Gender{profile.GenderMale, profile.GenderOther}
	default:
		return nil
	}
}

// preferredAgeRange applies defaults to a partially stated range.
func preferredAgeRange(p *profile.Profile, cfg EligibilityConfig) (int, int) {
	lo, hi := cfg.DefaultMinAge, cfg.DefaultMaxAge
	if p.PreferredMinAge != nil {
		lo = *p.PreferredMinAge
	}
	if p.PreferredMaxAge != nil {
		hi = *p.PreferredMaxAge
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi
}

// birthdateWindow widens the preferred range by the slack on both ends and
// converts it into birthdate bounds: age >= lo and age <= hi.
func birthdateWindow(p *profile.Profile, cfg EligibilityConfig, now time.Time) (*time.Time, *time.Time) {
	lo, hi := preferredAgeRange(p, cfg)
	lo -= cfg.AgeSlackYears
	hi += cfg.AgeSlackYears
	if lo < cfg.MinAge {
		lo = cfg.MinAge
	}
	if hi < lo {
		hi = lo
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	onOrBefore := today.AddDate(-lo, 0, 0)
	after := today.AddDate(-(hi + 1), 0, 0)
	return &after, &onOrBefore
}

// sanitizeCandidates dedupes by id and drops self, excluded and
// non-matchable profiles, preserving source order.
func sanitizeCandidates(found []*profile.Profile, requesterID string, excluded map[string]struct{}, limit int) []*profile.Profile {
	seen := make(map[string]struct{}, len(found))
	out := make([]*profile.Profile, 0, len(found))
	for _, p := range found {
		if !p.Matchable() || p.ID == requesterID {
			continue
		}
		if _, skip := excluded[p.ID]; skip {
			continue
		}
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func sortedIDs(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func containsFilter(tried []*profile.CandidateFilter, f *profile.CandidateFilter) bool {
	for _, t := range tried {
		if reflect.DeepEqual(t, f) {
			return true
		}
	}
	return false
}
