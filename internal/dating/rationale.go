// internal/dating/rationale.go
// Human readable reasons, concerns and strengths for a scored pair

package dating

import (
	"fmt"
	"strings"

	"github.com/imadgeboyega/sangam-discovery/internal/profile"
)

// Explainer derives rationale strings from a CompatibilityResult and the
// attributes the two profiles share.
type Explainer struct {
	cfg    MatchingConfig
	scorer *Scorer
}

func NewExplainer(cfg MatchingConfig) *Explainer {
	return &Explainer{cfg: cfg, scorer: NewScorer(cfg, nil)}
}

// Explain fills Reasons, Concerns and UniqueStrengths. Reasons come out in
// priority order: organizations, practices, diet, city, philosophy.
func (e *Explainer) Explain(requester, candidate *profile.Profile, result CompatibilityResult) CompatibilityResult {
	rc := e.cfg.Rationale
	reasons := make([]string, 0, 4)
	concerns := make([]string, 0, 2)
	covered := map[Dimension]bool{}

	sharedOrgs, _ := overlap(requester.SpiritualOrganizations, candidate.SpiritualOrganizations)
	for _, org := range sharedOrgs {
		reasons = append(reasons, fmt.Sprintf("Both connected to the %s community", org))
	}

	sharedPractices, _ := overlap(requester.DailyPractices, candidate.DailyPractices)
	if len(sharedPractices) >= rc.MinSharedPractices {
		reasons = append(reasons, fmt.Sprintf("Share %d core spiritual practices: %s",
			len(sharedPractices), strings.Join(sharedPractices, ", ")))
	}

	if requester.Diet != nil && candidate.Diet != nil && e.scorer.dietScore(requester, candidate) >= rc.DietReasonMin {
		reasons = append(reasons, dietReason(*requester.Diet, *candidate.Diet))
		covered[DimensionLifestyle] = true
	}

	if compareLocation(requester, candidate) == locationSameCity {
		reasons = append(reasons, "Same city — easy to meet")
		covered[DimensionDemographic] = true
	}

	if result.Breakdown[DimensionPsychological] >= rc.PhilosophyReasonMin &&
		parseStance(requester.LifePhilosophy) != stanceUnknown {
		reasons = append(reasons, "Similar life philosophy")
		covered[DimensionPsychological] = true
	}

	if dist, ok := templeDistance(requester, candidate); ok && dist >= rc.TempleConcernDistance {
		concerns = append(concerns, fmt.Sprintf("Different temple visit rhythms: %s vs %s",
			*requester.TempleVisitFrequency, *candidate.TempleVisitFrequency))
	}

	sa, sb := parseStance(requester.LifePhilosophy), parseStance(candidate.LifePhilosophy)
	if stancesOpposite(sa, sb) {
		concerns = append(concerns, fmt.Sprintf("Different life philosophies: %s vs %s", sa, sb))
	}

	strengths := make([]string, 0, 2)
	for _, d := range Dimensions {
		if covered[d] || result.Breakdown[d] < rc.StrengthMin {
			continue
		}
		strengths = append(strengths, strengthTag(d, sharedOrgs))
	}

	result.Reasons = reasons
	result.Concerns = concerns
	result.UniqueStrengths = strengths
	return result
}

func dietReason(a, b string) string {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if strings.EqualFold(a, b) {
		return fmt.Sprintf("Compatible dietary practices: both %s", strings.ToLower(a))
	}
	return fmt.Sprintf("Compatible dietary practices: %s and %s", strings.ToLower(a), strings.ToLower(b))
}

func strengthTag(d Dimension, sharedOrgs []string) string {
	switch d {
	case DimensionSpiritual:
		if len(sharedOrgs) > 0 {
			return fmt.Sprintf("%s spiritual community bond", sharedOrgs[0])
		}
		return "Deep spiritual alignment"
	case DimensionLifestyle:
		return "Harmonious daily lifestyle"
	case DimensionPsychological:
		return "Shared outlook on life"
	case DimensionDemographic:
		return "Close in age and location"
	case DimensionPreference:
		return "Matches stated partner preferences"
	case DimensionSemantic:
		return "Strong alignment on what you each seek"
	case DimensionGrowth:
		return "High potential for shared spiritual growth"
	default:
		return string(d)
	}
}

// displayedReasons caps reasons for presentation; they are already in
// priority order.
func displayedReasons(reasons []string, limit int) []string {
	if limit <= 0 || len(reasons) <= limit {
		return reasons
	}
	return reasons[:limit]
}
