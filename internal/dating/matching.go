// internal/dating/matching.go
// Compatibility scoring across seven weighted dimensions

package dating

import (
	"math"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/imadgeboyega/sangam-discovery/internal/profile"
)

// Scorer computes CompatibilityResults. It is total: missing attributes
// contribute cfg.Neutral instead of failing or collapsing to zero.
type Scorer struct {
	cfg MatchingConfig
	now func() time.Time
}

// NewScorer creates a scorer; now is used to derive ages.
func NewScorer(cfg MatchingConfig, now func() time.Time) *Scorer {
	if now == nil {
		now = time.Now
	}
	return &Scorer{cfg: cfg, now: now}
}

// Score rates candidate against requester. Rationale fields are left empty.
func (s *Scorer) Score(requester, candidate *profile.Profile) CompatibilityResult {
	asOf := s.now()

	spiritual := s.spiritualScore(requester, candidate)
	b := Breakdown{
		DimensionSpiritual:     spiritual,
		DimensionLifestyle:     s.lifestyleScore(requester, candidate),
		DimensionPsychological: s.psychologicalScore(requester, candidate),
		DimensionDemographic:   s.demographicScore(requester, candidate, asOf),
		DimensionPreference:    s.preferenceScore(requester, candidate, asOf),
		DimensionSemantic:      s.semanticScore(requester, candidate),
		DimensionGrowth:        s.growthScore(spiritual),
	}
	for d, v := range b {
		b[d] = clampScore(v)
	}

	w := s.cfg.Weights
	total := b[DimensionSpiritual]*w.Spiritual +
		b[DimensionLifestyle]*w.Lifestyle +
		b[DimensionPsychological]*w.Psychological +
		b[DimensionDemographic]*w.Demographic +
		b[DimensionPreference]*w.Preference +
		b[DimensionSemantic]*w.Semantic +
		b[DimensionGrowth]*w.Growth
	total = clampScore(total)

	return CompatibilityResult{
		Total:           total,
		Score:           int(math.Round(total)),
		Breakdown:       b,
		Reasons:         []string{},
		Concerns:        []string{},
		UniqueStrengths: []string{},
	}
}

// Spiritual: organizations, practices and temple rhythm blended.
func (s *Scorer) spiritualScore(a, b *profile.Profile) float64 {
	sc := s.cfg.Spiritual
	orgs := s.overlapScore(a.SpiritualOrganizations, b.SpiritualOrganizations)
	practices := s.overlapScore(a.DailyPractices, b.DailyPractices)
	temple := s.templeScore(a, b)

	return orgs*sc.OrganizationsWeight + practices*sc.PracticesWeight + temple*sc.TempleWeight
}

// overlapScore is the Jaccard ratio scaled to 100, neutral when either side
// is empty.
func (s *Scorer) overlapScore(a, b []string) float64 {
	shared, union := overlap(a, b)
	if union == 0 || len(normalizeSet(a)) == 0 || len(normalizeSet(b)) == 0 {
		return s.cfg.Neutral
	}
	return 100 * float64(len(shared)) / float64(union)
}

func (s *Scorer) templeScore(a, b *profile.Profile) float64 {
	dist, ok := templeDistance(a, b)
	if !ok {
		return s.cfg.Neutral
	}
	penalties := s.cfg.Spiritual.TemplePenalties
	if dist >= len(penalties) {
		dist = len(penalties) - 1
	}
	return penalties[dist]
}

// Lifestyle: diet and vanaprastha stance, equally weighted by default.
func (s *Scorer) lifestyleScore(a, b *profile.Profile) float64 {
	lc := s.cfg.Lifestyle
	return s.dietScore(a, b)*lc.DietWeight + s.vanaprasthaScore(a, b)*lc.VanaprasthaWeight
}

var vegCompatibleDiets = map[string]bool{
	"vegetarian":        true,
	"vegan":             true,
	"sattvic":           true,
	"jain":              true,
	"lacto-vegetarian":  true,
	"lacto vegetarian":  true,
	"lacto-ovo":         true,
	"ovo-vegetarian":    true,
	"plant-based":       true,
	"plant based":       true,
	"pure vegetarian":   true,
	"strict vegetarian": true,
}

func (s *Scorer) dietScore(a, b *profile.Profile) float64 {
	da, db := normalizeText(a.Diet), normalizeText(b.Diet)
	if da == "" || db == "" {
		return s.cfg.Neutral
	}
	switch {
	case da == db:
		return s.cfg.Lifestyle.DietExact
	case vegCompatibleDiets[da] && vegCompatibleDiets[db]:
		return s.cfg.Lifestyle.DietVegCompatible
	default:
		return s.cfg.Lifestyle.DietOther
	}
}

type vanaprasthaStance int

const (
	vanaprasthaUnknown vanaprasthaStance = iota
	vanaprasthaYes
	vanaprasthaNo
	vanaprasthaOpen
)

func parseVanaprastha(v *string) vanaprasthaStance {
	switch normalizeText(v) {
	case "yes", "y", "true", "interested":
		return vanaprasthaYes
	case "no", "n", "false", "not interested":
		return vanaprasthaNo
	case "open", "maybe", "undecided", "open to it":
		return vanaprasthaOpen
	default:
		return vanaprasthaUnknown
	}
}

func (s *Scorer) vanaprasthaScore(a, b *profile.Profile) float64 {
	va, vb := parseVanaprastha(a.VanaprasthaInterest), parseVanaprastha(b.VanaprasthaInterest)
	lc := s.cfg.Lifestyle
	switch {
	case va == vanaprasthaUnknown || vb == vanaprasthaUnknown:
		return s.cfg.Neutral
	case va == vb:
		return lc.VanaprasthaSame
	case va == vanaprasthaOpen || vb == vanaprasthaOpen:
		return lc.VanaprasthaOpen
	default:
		return lc.VanaprasthaOpposite
	}
}

// philosophyStance is a life-philosophy position on the spiritual to worldly
// axis.
type philosophyStance int

const (
	stanceUnknown philosophyStance = iota
	stanceSpiritual
	stanceBalance
	stanceWorldly
)

func (p philosophyStance) String() string {
	switch p {
	case stanceSpiritual:
		return "Spiritual"
	case stanceBalance:
		return "Balance"
	case stanceWorldly:
		return "Worldly"
	default:
		return "Unknown"
	}
}

// parseStance checks "balance" first so "a balance of spiritual and worldly"
// maps to Balance.
func parseStance(v *string) philosophyStance {
	text := normalizeText(v)
	switch {
	case text == "":
		return stanceUnknown
	case strings.Contains(text, "balance"), strings.Contains(text, "middle"):
		return stanceBalance
	case strings.Contains(text, "spiritual"), strings.Contains(text, "renunciat"), strings.Contains(text, "devotion"):
		return stanceSpiritual
	case strings.Contains(text, "worldly"), strings.Contains(text, "material"), strings.Contains(text, "career"):
		return stanceWorldly
	default:
		return stanceUnknown
	}
}

func stancesOpposite(a, b philosophyStance) bool {
	return (a == stanceSpiritual && b == stanceWorldly) || (a == stanceWorldly && b == stanceSpiritual)
}

func (s *Scorer) psychologicalScore(a, b *profile.Profile) float64 {
	sa, sb := parseStance(a.LifePhilosophy), parseStance(b.LifePhilosophy)
	pc := s.cfg.Psychological
	switch {
	case sa == stanceUnknown || sb == stanceUnknown:
		return s.cfg.Neutral
	case sa == sb:
		return pc.Identical
	case sa == stanceBalance || sb == stanceBalance:
		return pc.BalanceExtreme
	default:
		return pc.OppositeExtremes
	}
}

// Demographic: age closeness and location match.
func (s *Scorer) demographicScore(a, b *profile.Profile, asOf time.Time) float64 {
	dc := s.cfg.Demographic
	return s.ageScore(a, b, asOf)*dc.AgeWeight + s.locationScore(a, b)*dc.LocationWeight
}

func (s *Scorer) ageScore(a, b *profile.Profile, asOf time.Time) float64 {
	ageA, okA := a.Age(asOf)
	ageB, okB := b.Age(asOf)
	if !okA || !okB {
		return s.cfg.Neutral
	}

	dc := s.cfg.Demographic
	diff := ageA - ageB
	if diff < 0 {
		diff = -diff
	}
	switch {
	case diff <= dc.AgeFullWithin:
		return 100
	case diff >= dc.AgeZeroAt:
		return 0
	default:
		return 100 * float64(dc.AgeZeroAt-diff) / float64(dc.AgeZeroAt-dc.AgeFullWithin)
	}
}

type locationMatch int

const (
	locationUnknown locationMatch = iota
	locationSameCity
	locationSameState
	locationSameCountry
	locationDifferentCountry
)

func compareLocation(a, b *profile.Profile) locationMatch {
	city := sameText(a.City, b.City)
	state := sameText(a.State, b.State)
	country := sameText(a.Country, b.Country)

	switch {
	case city == textSame && state != textDifferent && country != textDifferent:
		return locationSameCity
	case state == textSame && country != textDifferent:
		return locationSameState
	case country == textSame:
		return locationSameCountry
	case country == textDifferent:
		return locationDifferentCountry
	default:
		return locationUnknown
	}
}

func (s *Scorer) locationScore(a, b *profile.Profile) float64 {
	dc := s.cfg.Demographic
	switch compareLocation(a, b) {
	case locationSameCity:
		return dc.SameCity
	case locationSameState:
		return dc.SameState
	case locationSameCountry:
		return dc.SameCountry
	case locationDifferentCountry:
		return dc.DifferentCountry
	default:
		return s.cfg.Neutral
	}
}

// Preference: does the candidate satisfy the requester's gender and age range?
// Any failed check gives Partial, any passed check gives Satisfied, no
// decidable check gives Neutral.
func (s *Scorer) preferenceScore(requester, candidate *profile.Profile, asOf time.Time) float64 {
	checks := []checkResult{
		genderCheck(requester, candidate),
		s.ageRangeCheck(requester, candidate, asOf),
	}

	anySatisfied := false
	for _, c := range checks {
		switch c {
		case checkFailed:
			return s.cfg.Preference.Partial
		case checkPassed:
			anySatisfied = true
		}
	}
	if anySatisfied {
		return s.cfg.Preference.Satisfied
	}
	return s.cfg.Neutral
}

type checkResult int

const (
	checkUnknown checkResult = iota
	checkPassed
	checkFailed
)

func genderCheck(requester, candidate *profile.Profile) checkResult {
	if requester.Gender == nil {
		return checkUnknown
	}
	allowed := compatibleGenders(requester.Gender)
	if allowed == nil {
		return checkPassed
	}
	if candidate.Gender == nil {
		return checkUnknown
	}
	for _, g := range allowed {
		if g == *candidate.Gender {
			return checkPassed
		}
	}
	return checkFailed
}

// ageRangeCheck uses the stated range without eligibility slack.
func (s *Scorer) ageRangeCheck(requester, candidate *profile.Profile, asOf time.Time) checkResult {
	if requester.PreferredMinAge == nil && requester.PreferredMaxAge == nil {
		return checkUnknown
	}
	age, ok := candidate.Age(asOf)
	if !ok {
		return checkUnknown
	}
	lo, hi := preferredAgeRange(requester, s.cfg.Eligibility)
	if age >= lo && age <= hi {
		return checkPassed
	}
	return checkFailed
}

// Semantic: keyword overlap between one side's ideal-partner notes and the
// other's about text, averaged over both directions.
func (s *Scorer) semanticScore(a, b *profile.Profile) float64 {
	minLen := s.cfg.Semantic.MinTokenLength
	var scores []float64
	if v, ok := keywordOverlap(tokenize(a.IdealPartnerNotes, minLen), tokenize(b.About, minLen)); ok {
		scores = append(scores, v)
	}
	if v, ok := keywordOverlap(tokenize(b.IdealPartnerNotes, minLen), tokenize(a.About, minLen)); ok {
		scores = append(scores, v)
	}
	if len(scores) == 0 {
		return s.cfg.Neutral
	}

	sum := 0.0
	for _, v := range scores {
		sum += v
	}
	return sum / float64(len(scores))
}

// keywordOverlap is |a∩b| / min(|a|,|b|) scaled to 100.
func keywordOverlap(a, b map[string]struct{}) (float64, bool) {
	if len(a) == 0 || len(b) == 0 {
		return 0, false
	}
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}
	shared := 0
	for t := range small {
		if _, ok := large[t]; ok {
			shared++
		}
	}
	return 100 * float64(shared) / float64(len(small)), true
}

var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "who": {}, "that": {}, "this": {},
	"you": {}, "your": {}, "are": {}, "was": {}, "but": {}, "not": {}, "have": {},
	"has": {}, "from": {}, "they": {}, "their": {}, "them": {}, "love": {}, "loves": {}, "like": {},
	"someone": {}, "person": {}, "partner": {}, "looking": {}, "want": {}, "also": {},
	"about": {}, "very": {}, "really": {}, "into": {}, "our": {}, "its": {}, "can": {},
	"will": {}, "would": {}, "should": {}, "what": {}, "when": {}, "where": {}, "which": {},
}

func tokenize(text *string, minLen int) map[string]struct{} {
	if text == nil {
		return nil
	}
	words := strings.FieldsFunc(strings.ToLower(*text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := make(map[string]struct{}, len(words))
	for _, w := range words {
		if len([]rune(w)) < minLen {
			continue
		}
		if _, stop := stopwords[w]; stop {
			continue
		}
		out[w] = struct{}{}
	}
	return out
}

func (s *Scorer) growthScore(spiritual float64) float64 {
	g := s.cfg.Growth
	return math.Min(g.Cap, g.Base+g.SpiritualFactor*spiritual)
}

// overlap returns the shared items in a's spelling, sorted, and the size of
// the case-insensitive union.
func overlap(a, b []string) ([]string, int) {
	na, nb := normalizeSet(a), normalizeSet(b)
	shared := make([]string, 0)
	for k, orig := range na {
		if _, ok := nb[k]; ok {
			shared = append(shared, orig)
		}
	}
	sort.Strings(shared)
	return shared, len(na) + len(nb) - len(shared)
}

func normalizeSet(items []string) map[string]string {
	out := make(map[string]string, len(items))
	for _, it := range items {
		trimmed := strings.TrimSpace(it)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if prev, ok := out[key]; !ok || trimmed < prev {
			out[key] = trimmed
		}
	}
	return out
}

func templeDistance(a, b *profile.Profile) (int, bool) {
	if a.TempleVisitFrequency == nil || b.TempleVisitFrequency == nil {
		return 0, false
	}
	oa, okA := a.TempleVisitFrequency.Ordinal()
	ob, okB := b.TempleVisitFrequency.Ordinal()
	if !okA || !okB {
		return 0, false
	}
	if oa > ob {
		return oa - ob, true
	}
	return ob - oa, true
}

type textComparison int

const (
	textUnknown textComparison = iota
	textSame
	textDifferent
)

func sameText(a, b *string) textComparison {
	na, nb := normalizeText(a), normalizeText(b)
	if na == "" || nb == "" {
		return textUnknown
	}
	if na == nb {
		return textSame
	}
	return textDifferent
}

func normalizeText(v *string) string {
	if v == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(*v))
}

func clampScore(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(100, v))
}
