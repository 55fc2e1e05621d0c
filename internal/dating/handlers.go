package dating

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/imadgeboyega/sangam-discovery/internal/auth"
	"github.com/imadgeboyega/sangam-discovery/internal/common/utils"
)

// Default ceilings for caller supplied paging values.
const (
	DefaultMaxPageSize  = 50
	DefaultMaxPoolLimit = 500
)

// Limits caps page_size and pool_limit. Zero fields take the defaults.
type Limits struct {
	MaxPageSize  int
	MaxPoolLimit int
}

type Handler struct {
	service Service
	limits  Limits
	logger  zerolog.Logger
}

func NewHandler(service Service, limits Limits, logger zerolog.Logger) *Handler {
	if limits.MaxPageSize <= 0 {
		limits.MaxPageSize = DefaultMaxPageSize
	}
	if limits.MaxPoolLimit <= 0 {
		limits.MaxPoolLimit = DefaultMaxPoolLimit
	}
	return &Handler{service: service, limits: limits, logger: logger}
}

// DiscoverMatches handles GET /discover?page_size=&pool_limit=
func (h *Handler) DiscoverMatches(w http.ResponseWriter, r *http.Request) {
	userID, ok := requesterID(w, r)
	if !ok {
		return
	}

	var params DiscoverParams
	q := r.URL.Query()
	for key, dst := range map[string]*int{"page_size": &params.PageSize, "pool_limit": &params.PoolLimit} {
		raw := q.Get(key)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "invalid_parameter", key+" must be an integer")
			return
		}
		*dst = n
	}
	if err := utils.ValidateStruct(params); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid_parameter", err.Error())
		return
	}
	if params.PageSize > h.limits.MaxPageSize {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid_parameter",
			fmt.Sprintf("page_size must be at most %d", h.limits.MaxPageSize))
		return
	}
	if params.PoolLimit > h.limits.MaxPoolLimit {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid_parameter",
			fmt.Sprintf("pool_limit must be at most %d", h.limits.MaxPoolLimit))
		return
	}

	resp, err := h.service.Discover(r.Context(), userID, params)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	utils.RespondWithData(w, http.StatusOK, resp, resp.Message)
}

// GetCompatibility handles GET /compatibility/{userId}
func (h *Handler) GetCompatibility(w http.ResponseWriter, r *http.Request) {
	userID, ok := requesterID(w, r)
	if !ok {
		return
	}

	candidateID := mux.Vars(r)["userId"]
	if _, err := uuid.Parse(candidateID); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid_parameter", "Invalid user ID")
		return
	}

	result, err := h.service.Compatibility(r.Context(), userID, candidateID)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	utils.RespondWithData(w, http.StatusOK, result, "")
}

func requesterID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return "", false
	}
	if _, err := uuid.Parse(userID); err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "unauthorized", "Invalid user in token")
		return "", false
	}
	return userID, true
}

func (h *Handler) respondWithServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var cfgErr *ConfigurationError

	switch {
	case errors.Is(err, ErrRequesterNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "requester_not_found", err.Error())
	case errors.Is(err, ErrRequesterNotOnboarded):
		utils.RespondWithError(w, http.StatusConflict, "onboarding_required", err.Error())
	case errors.Is(err, ErrCandidateNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "candidate_not_found", err.Error())
	case errors.Is(err, ErrSelfCompatibility):
		utils.RespondWithError(w, http.StatusBadRequest, "invalid_parameter", err.Error())
	case errors.As(err, &cfgErr):
		h.logger.Error().Err(err).Str("component", cfgErr.Component).Str("path", r.URL.Path).Msg("backing service unavailable")
		utils.RespondWithError(w, http.StatusServiceUnavailable, "service_unavailable", "Discovery is temporarily unavailable")
	case errors.Is(err, context.DeadlineExceeded):
		utils.RespondWithError(w, http.StatusGatewayTimeout, "timeout", "Request timed out")
	default:
		h.logger.Error().Err(err).Str("path", r.URL.Path).Msg("discovery request failed")
		utils.RespondWithError(w, http.StatusInternalServerError, "internal_error", "Failed to process request")
	}
}
