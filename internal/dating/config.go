// internal/dating/config.go
// Every constant the discovery pipeline uses, with layered loading

package dating

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// MatchingEnvPrefix prefixes environment overrides, e.g.
// MATCHING_WEIGHTS__SPIRITUAL=0.3 sets weights.spiritual.
const MatchingEnvPrefix = "MATCHING_"

// DimensionWeights combine the seven dimensions into the total. They sum to 1.
type DimensionWeights struct {
	Spiritual     float64 `koanf:"spiritual"`
	Lifestyle     float64 `koanf:"lifestyle"`
	Psychological float64 `koanf:"psychological"`
	Demographic   float64 `koanf:"demographic"`
	Preference    float64 `koanf:"preference"`
	Semantic      float64 `koanf:"semantic"`
	Growth        float64 `koanf:"growth_potential"`
}

// SpiritualConfig weights organizations, practices and temple rhythm.
type SpiritualConfig struct {
	OrganizationsWeight float64 `koanf:"organizations_weight"`
	PracticesWeight     float64 `koanf:"practices_weight"`
	TempleWeight        float64 `koanf:"temple_weight"`
	// TemplePenalties[d] is the score at ordinal distance d; the last entry
	// applies to every larger distance.
	TemplePenalties []float64 `koanf:"temple_penalties"`
}

type LifestyleConfig struct {
	DietWeight          float64 `koanf:"diet_weight"`
	VanaprasthaWeight   float64 `koanf:"vanaprastha_weight"`
	DietExact           float64 `koanf:"diet_exact"`
	DietVegCompatible   float64 `koanf:"diet_veg_compatible"`
	DietOther           float64 `koanf:"diet_other"`
	VanaprasthaSame     float64 `koanf:"vanaprastha_same"`
	VanaprasthaOpen     float64 `koanf:"vanaprastha_open"`
	VanaprasthaOpposite float64 `koanf:"vanaprastha_opposite"`
}

type PsychologicalConfig struct {
	Identical        float64 `koanf:"identical"`
	BalanceExtreme   float64 `koanf:"balance_extreme"`
	OppositeExtremes float64 `koanf:"opposite_extremes"`
}

type DemographicConfig struct {
	AgeWeight        float64 `koanf:"age_weight"`
	LocationWeight   float64 `koanf:"location_weight"`
	AgeFullWithin    int     `koanf:"age_full_within"`
	AgeZeroAt        int     `koanf:"age_zero_at"`
	SameCity         float64 `koanf:"same_city"`
	SameState        float64 `koanf:"same_state"`
	SameCountry      float64 `koanf:"same_country"`
	DifferentCountry float64 `koanf:"different_country"`
}

type PreferenceConfig struct {
	Satisfied float64 `koanf:"satisfied"`
	Partial   float64 `koanf:"partial"`
}

type SemanticConfig struct {
	MinTokenLength int `koanf:"min_token_length"`
}

// GrowthConfig: growth = min(Cap, Base + SpiritualFactor*spiritual).
type GrowthConfig struct {
	Base            float64 `koanf:"base"`
	SpiritualFactor float64 `koanf:"spiritual_factor"`
	Cap             float64 `koanf:"cap"`
}

// TierBoosts are added to the total after scoring; the result never exceeds Cap.
type TierBoosts struct {
	Drishti  float64 `koanf:"drishti"`
	Sparsh   float64 `koanf:"sparsh"`
	Sangam   float64 `koanf:"sangam"`
	Samarpan float64 `koanf:"samarpan"`
	Cap      float64 `koanf:"cap"`
}

type RationaleConfig struct {
	DietReasonMin         float64 `koanf:"diet_reason_min"`
	PhilosophyReasonMin   float64 `koanf:"philosophy_reason_min"`
	MinSharedPractices    int     `koanf:"min_shared_practices"`
	TempleConcernDistance int     `koanf:"temple_concern_distance"`
	StrengthMin           float64 `koanf:"strength_min"`
	MaxDisplayedReasons   int     `koanf:"max_displayed_reasons"`
}

type InsightConfig struct {
	SpiritualMatchMin float64 `koanf:"spiritual_match_min"`
	PerfectMatchMin   float64 `koanf:"perfect_match_min"`
}

type EligibilityConfig struct {
	AgeSlackYears int `koanf:"age_slack_years"`
	MinAge        int `koanf:"min_age"`
	DefaultMinAge int `koanf:"default_min_age"`
	DefaultMaxAge int `koanf:"default_max_age"`
}

// MatchingConfig holds all weights, penalties, boosts and thresholds.
type MatchingConfig struct {
	Neutral       float64             `koanf:"neutral"`
	Weights       DimensionWeights    `koanf:"weights"`
	Spiritual     SpiritualConfig     `koanf:"spiritual"`
	Lifestyle     LifestyleConfig     `koanf:"lifestyle"`
	Psychological PsychologicalConfig `koanf:"psychological"`
	Demographic   DemographicConfig   `koanf:"demographic"`
	Preference    PreferenceConfig    `koanf:"preference"`
	Semantic      SemanticConfig      `koanf:"semantic"`
	Growth        GrowthConfig        `koanf:"growth"`
	Boosts        TierBoosts          `koanf:"boosts"`
	Rationale     RationaleConfig     `koanf:"rationale"`
	Insights      InsightConfig       `koanf:"insights"`
	Eligibility   EligibilityConfig   `koanf:"eligibility"`
}

// DefaultMatchingConfig returns the documented production constants.
func DefaultMatchingConfig() MatchingConfig {
	return MatchingConfig{
		Neutral: 50,
		Weights: DimensionWeights{
			Spiritual:     0.25,
			Lifestyle:     0.15,
			Psychological: 0.15,
			Demographic:   0.20,
			Preference:    0.10,
			Semantic:      0.10,
			Growth:        0.05,
		},
		Spiritual: SpiritualConfig{
			OrganizationsWeight: 0.40,
			PracticesWeight:     0.35,
			TempleWeight:        0.25,
			TemplePenalties:     []float64{100, 75, 50, 25},
		},
		Lifestyle: LifestyleConfig{
			DietWeight:          0.5,
			VanaprasthaWeight:   0.5,
			DietExact:           100,
			DietVegCompatible:   80,
			DietOther:           40,
			VanaprasthaSame:     100,
			VanaprasthaOpen:     70,
			VanaprasthaOpposite: 30,
		},
		Psychological: PsychologicalConfig{
			Identical:        100,
			BalanceExtreme:   70,
			OppositeExtremes: 30,
		},
		Demographic: DemographicConfig{
			AgeWeight:        0.5,
			LocationWeight:   0.5,
			AgeFullWithin:    3,
			AgeZeroAt:        15,
			SameCity:         100,
			SameState:        70,
			SameCountry:      40,
			DifferentCountry: 15,
		},
		Preference: PreferenceConfig{Satisfied: 100, Partial: 60},
		Semantic:   SemanticConfig{MinTokenLength: 3},
		Growth:     GrowthConfig{Base: 60, SpiritualFactor: 0.4, Cap: 100},
		Boosts: TierBoosts{
			Drishti:  0,
			Sparsh:   0.5,
			Sangam:   1,
			Samarpan: 2,
			Cap:      99,
		},
		Rationale: RationaleConfig{
			DietReasonMin:         80,
			PhilosophyReasonMin:   80,
			MinSharedPractices:    2,
			TempleConcernDistance: 2,
			StrengthMin:           90,
			MaxDisplayedReasons:   5,
		},
		Insights: InsightConfig{SpiritualMatchMin: 70, PerfectMatchMin: 90},
		Eligibility: EligibilityConfig{
			AgeSlackYears: 2,
			MinAge:        18,
			DefaultMinAge: 18,
			DefaultMaxAge: 100,
		},
	}
}

// LoadMatchingConfig layers defaults, an optional YAML file and MATCHING_
// environment variables, then validates the result.
func LoadMatchingConfig(path string) (MatchingConfig, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(DefaultMatchingConfig(), "koanf"), nil); err != nil {
		return MatchingConfig{}, fmt.Errorf("failed to load matching defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return MatchingConfig{}, fmt.Errorf("failed to load matching config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(MatchingEnvPrefix, ".", matchingEnvKey), nil); err != nil {
		return MatchingConfig{}, fmt.Errorf("failed to load matching env overrides: %w", err)
	}

	var cfg MatchingConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return MatchingConfig{}, fmt.Errorf("failed to unmarshal matching config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return MatchingConfig{}, fmt.Errorf("invalid matching config: %w", err)
	}
	return cfg, nil
}

// MATCHING_BOOSTS__SAMARPAN -> boosts.samarpan
func matchingEnvKey(key string) string {
	key = strings.TrimPrefix(key, MatchingEnvPrefix)
	return strings.ReplaceAll(strings.ToLower(key), "__", ".")
}

const weightTolerance = 1e-6

// Validate rejects weight groups that do not sum to 1 and scores outside 0..100.
func (c MatchingConfig) Validate() error {
	var errs []error

	checkSum := func(name string, ws ...float64) {
		sum := 0.0
		for _, w := range ws {
			if w < 0 {
				errs = append(errs, fmt.Errorf("%s: negative weight %v", name, w))
			}
			sum += w
		}
		if math.Abs(sum-1) > weightTolerance {
			errs = append(errs, fmt.Errorf("%s must sum to 1, got %.4f", name, sum))
		}
	}
	checkScore := func(name string, v float64) {
		if v < 0 || v > 100 {
			errs = append(errs, fmt.Errorf("%s must be within 0..100, got %v", name, v))
		}
	}

	w := c.Weights
	checkSum("weights", w.Spiritual, w.Lifestyle, w.Psychological, w.Demographic, w.Preference, w.Semantic, w.Growth)
	checkSum("spiritual weights", c.Spiritual.OrganizationsWeight, c.Spiritual.PracticesWeight, c.Spiritual.TempleWeight)
	checkSum("lifestyle weights", c.Lifestyle.DietWeight, c.Lifestyle.VanaprasthaWeight)
	checkSum("demographic weights", c.Demographic.AgeWeight, c.Demographic.LocationWeight)

	checkScore("neutral", c.Neutral)
	if len(c.Spiritual.TemplePenalties) == 0 {
		errs = append(errs, errors.New("spiritual.temple_penalties must not be empty"))
	}
	for i, p := range c.Spiritual.TemplePenalties {
		checkScore(fmt.Sprintf("spiritual.temple_penalties[%d]", i), p)
	}
	for name, v := range map[string]float64{
		"lifestyle.diet_exact":            c.Lifestyle.DietExact,
		"lifestyle.diet_veg_compatible":   c.Lifestyle.DietVegCompatible,
		"lifestyle.diet_other":            c.Lifestyle.DietOther,
		"lifestyle.vanaprastha_same":      c.Lifestyle.VanaprasthaSame,
		"lifestyle.vanaprastha_open":      c.Lifestyle.VanaprasthaOpen,
		"lifestyle.vanaprastha_opposite":  c.Lifestyle.VanaprasthaOpposite,
		"psychological.identical":         c.Psychological.Identical,
		"psychological.balance_extreme":   c.Psychological.BalanceExtreme,
		"psychological.opposite_extremes": c.Psychological.OppositeExtremes,
		"demographic.same_city":           c.Demographic.SameCity,
		"demographic.same_state":          c.Demographic.SameState,
		"demographic.same_country":        c.Demographic.SameCountry,
		"demographic.different_country":   c.Demographic.DifferentCountry,
		"preference.satisfied":            c.Preference.Satisfied,
		"preference.partial":              c.Preference.Partial,
		"growth.cap":                      c.Growth.Cap,
		"boosts.cap":                      c.Boosts.Cap,
	} {
		checkScore(name, v)
	}

	if c.Demographic.AgeFullWithin < 0 || c.Demographic.AgeZeroAt <= c.Demographic.AgeFullWithin {
		errs = append(errs, errors.New("demographic.age_zero_at must exceed age_full_within"))
	}
	if c.Semantic.MinTokenLength < 1 {
		errs = append(errs, errors.New("semantic.min_token_length must be at least 1"))
	}
	if c.Rationale.MaxDisplayedReasons < 1 {
		errs = append(errs, errors.New("rationale.max_displayed_reasons must be at least 1"))
	}
	if c.Eligibility.MinAge < 1 || c.Eligibility.AgeSlackYears < 0 {
		errs = append(errs, errors.New("eligibility.min_age must be positive and age_slack_years non-negative"))
	}
	if c.Eligibility.DefaultMinAge > c.Eligibility.DefaultMaxAge {
		errs = append(errs, errors.New("eligibility.default_min_age exceeds default_max_age"))
	}

	return errors.Join(errs...)
}

