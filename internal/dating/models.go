package dating

import (
	"time"

	"github.com/imadgeboyega/sangam-discovery/internal/profile"
)

// Dimension names one compatibility axis.
type Dimension string

const (
	DimensionSpiritual     Dimension = "spiritual"
	DimensionLifestyle     Dimension = "lifestyle"
	DimensionPsychological Dimension = "psychological"
	DimensionDemographic   Dimension = "demographic"
	DimensionPreference    Dimension = "preference"
	DimensionSemantic      Dimension = "semantic"
	DimensionGrowth        Dimension = "growth_potential"
)

// Dimensions in reporting order.
var Dimensions = []Dimension{
	DimensionSpiritual,
	DimensionLifestyle,
	DimensionPsychological,
	DimensionDemographic,
	DimensionPreference,
	DimensionSemantic,
	DimensionGrowth,
}

// Breakdown maps every dimension to its 0..100 sub-score.
type Breakdown map[Dimension]float64

type CompatibilityResult struct {
	// Total keeps fractional precision; Score is the rounded display value.
	Total           float64   `json:"total"`
	Score           int       `json:"score"`
	Breakdown       Breakdown `json:"breakdown"`
	Reasons         []string  `json:"reasons"`
	Concerns        []string  `json:"concerns"`
	UniqueStrengths []string  `json:"unique_strengths"`
}

// ScoredCandidate pairs a candidate with its explained result.
type ScoredCandidate struct {
	Profile *profile.Profile
	Result  CompatibilityResult
}

type RankedCandidate struct {
	Profile         *profile.Profile    `json:"profile"`
	Compatibility   CompatibilityResult `json:"compatibility"`
	BoostedTotal    float64             `json:"boosted_total"`
	MatchRank       int                 `json:"match_rank"`
	IsFallbackMatch bool                `json:"is_fallback_match"`
	PhotoURL        *string             `json:"photo_url"`
}

type Insights struct {
	AvgCompatibility int     `json:"avg_compatibility"`
	TopScore         float64 `json:"top_score"`
	SpiritualMatches int     `json:"spiritual_matches"`
	PerfectMatches   int     `json:"perfect_matches"`
}

type DiscoverResponse struct {
	Candidates    []RankedCandidate `json:"candidates"`
	FallbackUsed  bool              `json:"fallback_used"`
	FallbackStage FallbackStage     `json:"fallback_stage"`
	Insights      Insights          `json:"insights"`
	Message       string            `json:"message,omitempty"`
}

// DiscoverParams are the caller supplied paging controls. Zero values take
// the service defaults; upper bounds come from the handler's Limits.
type DiscoverParams struct {
	PageSize  int `json:"page_size" validate:"omitempty,min=1"`
	PoolLimit int `json:"pool_limit" validate:"omitempty,min=1"`
}

// DecisionAction is the swipe a member made on another profile.
type DecisionAction string

const (
	DecisionLike      DecisionAction = "like"
	DecisionPass      DecisionAction = "pass"
	DecisionSuperlike DecisionAction = "superlike"
)

// Decision is one immutable like/pass record. Discovery only reads target ids.
type Decision struct {
	ActorID   string         `json:"actor_id" db:"actor_id"`
	TargetID  string         `json:"target_id" db:"target_id"`
	Action    DecisionAction `json:"action" db:"action"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
}
