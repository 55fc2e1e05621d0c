// internal/dating/ranking.go
// Tier boost, deterministic ordering and page insights

package dating

import (
	"math"
	"sort"

	"github.com/imadgeboyega/sangam-discovery/internal/profile"
)

// DefaultPageSize is used when the caller does not ask for a page size.
const DefaultPageSize = 15

type Ranker struct {
	boosts   TierBoosts
	insights InsightConfig
}

func NewRanker(cfg MatchingConfig) *Ranker {
	return &Ranker{boosts: cfg.Boosts, insights: cfg.Insights}
}

// Boost adds the tier boost to a raw total. The result never exceeds the
// cap, for any tier and any raw total.
func (r *Ranker) Boost(total float64, tier profile.Tier) float64 {
	var boost float64
	switch tier.Rank() {
	case profile.TierSamarpan.Rank():
		boost = r.boosts.Samarpan
	case profile.TierSangam.Rank():
		boost = r.boosts.Sangam
	case profile.TierSparsh.Rank():
		boost = r.boosts.Sparsh
	default:
		boost = r.boosts.Drishti
	}
	return math.Min(total+boost, r.boosts.Cap)
}

// Rank boosts, sorts by boosted total descending with ties broken by id
// ascending, assigns 1-based ranks and truncates to pageSize.
func (r *Ranker) Rank(scored []ScoredCandidate, tier profile.Tier, pageSize int, fallbackUsed bool) []RankedCandidate {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	ranked := make([]RankedCandidate, 0, len(scored))
	for _, sc := range scored {
		ranked = append(ranked, RankedCandidate{
			Profile:         sc.Profile,
			Compatibility:   sc.Result,
			BoostedTotal:    r.Boost(sc.Result.Total, tier),
			IsFallbackMatch: fallbackUsed,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].BoostedTotal != ranked[j].BoostedTotal {
			return ranked[i].BoostedTotal > ranked[j].BoostedTotal
		}
		return ranked[i].Profile.ID < ranked[j].Profile.ID
	})

	if len(ranked) > pageSize {
		ranked = ranked[:pageSize]
	}
	for i := range ranked {
		ranked[i].MatchRank = i + 1
	}
	return ranked
}

// Insights summarises one page.
func (r *Ranker) Insights(page []RankedCandidate) Insights {
	if len(page) == 0 {
		return Insights{}
	}

	var sum, top float64
	var spiritual, perfect int
	for _, c := range page {
		sum += c.BoostedTotal
		if c.BoostedTotal > top {
			top = c.BoostedTotal
		}
		if c.Compatibility.Breakdown[DimensionSpiritual] >= r.insights.SpiritualMatchMin {
			spiritual++
		}
		if c.BoostedTotal >= r.insights.PerfectMatchMin {
			perfect++
		}
	}

	return Insights{
		AvgCompatibility: int(math.Round(sum / float64(len(page)))),
		TopScore:         math.Round(top*100) / 100,
		SpiritualMatches: spiritual,
		PerfectMatches:   perfect,
	}
}
