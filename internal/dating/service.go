// internal/dating/service.go

package dating

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/imadgeboyega/sangam-discovery/internal/common/database"
	"github.com/imadgeboyega/sangam-discovery/internal/profile"
)

// EmptyPoolMessage is returned when every eligibility stage came back empty.
const EmptyPoolMessage = "no more profiles right now"

// DefaultPoolLimit bounds the raw candidate pool.
const DefaultPoolLimit = 100

type Service interface {
	Discover(ctx context.Context, requesterID string, params DiscoverParams) (*DiscoverResponse, error)
	Compatibility(ctx context.Context, requesterID, candidateID string) (*CompatibilityResult, error)
}

// ServiceOptions carries the tunables that are not matching constants.
type ServiceOptions struct {
	DefaultPageSize       int
	DefaultPoolLimit      int
	EnrichmentConcurrency int
	Logger                zerolog.Logger
	Now                   func() time.Time
}

type service struct {
	profiles    profile.Repository
	ledger      DecisionLedger
	eligibility *EligibilityFilter
	scorer      *Scorer
	explainer   *Explainer
	ranker      *Ranker
	enricher    *Enricher
	cfg         MatchingConfig
	opts        ServiceOptions
	logger      zerolog.Logger
}

func NewService(profiles profile.Repository, ledger DecisionLedger, photos profile.PhotoResolver, cfg MatchingConfig, opts ServiceOptions) Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.DefaultPageSize <= 0 {
		opts.DefaultPageSize = DefaultPageSize
	}
	if opts.DefaultPoolLimit <= 0 {
		opts.DefaultPoolLimit = DefaultPoolLimit
	}

	return &service{
		profiles:    profiles,
		ledger:      ledger,
		eligibility: NewEligibilityFilter(profiles, cfg.Eligibility, opts.Now),
		scorer:      NewScorer(cfg, opts.Now),
		explainer:   NewExplainer(cfg),
		ranker:      NewRanker(cfg),
		enricher:    NewEnricher(photos, opts.EnrichmentConcurrency),
		cfg:         cfg,
		opts:        opts,
		logger:      opts.Logger.With().Str("component", "discovery").Logger(),
	}
}

// Discover returns the ranked, explained page for requesterID.
func (s *service) Discover(ctx context.Context, requesterID string, params DiscoverParams) (*DiscoverResponse, error) {
	start := time.Now()
	defer func() { RecordResponseTime("discover", time.Since(start)) }()

	pageSize, poolLimit := s.paging(params)

	requester, err := s.loadRequester(ctx, requesterID)
	if err != nil {
		RecordDiscoverOutcome(outcomeLabel(err))
		return nil, err
	}

	excluded, err := s.ledger.GetDecidedTargetIDs(ctx, requester.ID)
	if err != nil {
		RecordDiscoverOutcome("error")
		return nil, adapterError("decision_ledger", err)
	}

	selection, err := s.eligibility.SelectCandidates(ctx, requester, excluded, poolLimit)
	if err != nil {
		RecordDiscoverOutcome("error")
		return nil, adapterError("profile_store", err)
	}
	RecordFallbackStage(selection.Stage)
	RecordPoolSize(len(selection.Candidates))

	log := s.logger.With().
		Str("requester_id", requester.ID).
		Str("stage", string(selection.Stage)).
		Int("pool", len(selection.Candidates)).
		Logger()

	if len(selection.Candidates) == 0 {
		RecordDiscoverOutcome("empty")
		log.Info().Msg("discovery pool empty")
		return &DiscoverResponse{
			Candidates:    []RankedCandidate{},
			FallbackUsed:  selection.FallbackUsed,
			FallbackStage: selection.Stage,
			Message:       EmptyPoolMessage,
		}, nil
	}

	scored := make([]ScoredCandidate, 0, len(selection.Candidates))
	for _, c := range selection.Candidates {
		result := s.explainer.Explain(requester, c, s.scorer.Score(requester, c))
		RecordCompatibilityScore(result.Total)
		scored = append(scored, ScoredCandidate{Profile: c, Result: result})
	}

	page := s.ranker.Rank(scored, requester.Tier, pageSize, selection.FallbackUsed)
	for i := range page {
		page[i].Compatibility.Reasons = displayedReasons(page[i].Compatibility.Reasons, s.cfg.Rationale.MaxDisplayedReasons)
	}

	for _, f := range s.enricher.Enrich(ctx, page) {
		RecordEnrichmentFailure(f.Field)
		log.Warn().Err(f.Err).Str("candidate_id", f.CandidateID).Str("field", f.Field).Msg("candidate enrichment failed")
	}

	insights := s.ranker.Insights(page)
	RecordDiscoverOutcome("ok")
	log.Info().
		Int("returned", len(page)).
		Int("avg_compatibility", insights.AvgCompatibility).
		Bool("fallback_used", selection.FallbackUsed).
		Dur("took", time.Since(start)).
		Msg("discovery served")

	return &DiscoverResponse{
		Candidates:    page,
		FallbackUsed:  selection.FallbackUsed,
		FallbackStage: selection.Stage,
		Insights:      insights,
	}, nil
}

// Compatibility scores one pair on demand.
func (s *service) Compatibility(ctx context.Context, requesterID, candidateID string) (*CompatibilityResult, error) {
	start := time.Now()
	defer func() { RecordResponseTime("compatibility", time.Since(start)) }()

	if requesterID == candidateID {
		return nil, ErrSelfCompatibility
	}

	requester, err := s.loadRequester(ctx, requesterID)
	if err != nil {
		return nil, err
	}

	candidate, err := s.profiles.GetProfile(ctx, candidateID)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			return nil, ErrCandidateNotFound
		}
		return nil, adapterError("profile_store", err)
	}
	if !candidate.Matchable() {
		return nil, ErrCandidateNotFound
	}

	result := s.explainer.Explain(requester, candidate, s.scorer.Score(requester, candidate))
	RecordCompatibilityScore(result.Total)
	return &result, nil
}

func (s *service) loadRequester(ctx context.Context, requesterID string) (*profile.Profile, error) {
	requester, err := s.profiles.GetProfile(ctx, requesterID)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			return nil, ErrRequesterNotFound
		}
		return nil, adapterError("profile_store", err)
	}
	if requester.IsBanned {
		return nil, ErrRequesterNotFound
	}
	if !requester.IsOnboarded || !requester.IsActive {
		return nil, ErrRequesterNotOnboarded
	}
	return requester, nil
}

func (s *service) paging(params DiscoverParams) (int, int) {
	pageSize := params.PageSize
	if pageSize <= 0 {
		pageSize = s.opts.DefaultPageSize
	}
	poolLimit := params.PoolLimit
	if poolLimit <= 0 {
		poolLimit = s.opts.DefaultPoolLimit
	}
	// the scorer needs at least a page worth of candidates to choose from
	if poolLimit < pageSize {
		poolLimit = pageSize
	}
	return pageSize, poolLimit
}

// adapterError wraps I/O failures. Cancellation is passed through untouched.
func adapterError(component string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &ConfigurationError{Component: component, Err: err}
}

func outcomeLabel(err error) string {
	switch {
	case errors.Is(err, ErrRequesterNotFound):
		return "requester_not_found"
	case errors.Is(err, ErrRequesterNotOnboarded):
		return "onboarding_required"
	case errors.Is(err, database.ErrBreakerOpen):
		return "breaker_open"
	default:
		return "error"
	}
}
