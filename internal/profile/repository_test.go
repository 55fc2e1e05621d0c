package profile

import (
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestBuildCandidateQueryStrict(t *testing.T) {
	after := time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)
	before := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

	query, args := buildCandidateQuery(&CandidateFilter{
		RequesterID:    "me",
		ExcludeIDs:     []string{"x", "y"},
		Genders:        []Gender{GenderFemale, GenderOther},
		BornAfter:      &after,
		BornOnOrBefore: &before,
		Limit:          50,
	})

	assert.Contains(t, query, "p.is_onboarded = TRUE")
	assert.Contains(t, query, "p.is_banned = FALSE")
	assert.Contains(t, query, "p.id::text <> $1")
	assert.Contains(t, query, "ANY($2::text[])")
	assert.Contains(t, query, "p.gender = ANY($3::text[])")
	assert.Contains(t, query, "p.birthdate > $4")
	assert.Contains(t, query, "p.birthdate <= $5")
	assert.Contains(t, query, "ORDER BY p.created_at DESC")
	assert.Contains(t, query, "LIMIT $6")

	assert.Len(t, args, 6)
	assert.Equal(t, "me", args[0])
	assert.Equal(t, pq.Array([]string{"x", "y"}), args[1])
	assert.Equal(t, pq.Array([]string{"Female", "Other"}), args[2])
	assert.Equal(t, after, args[3])
	assert.Equal(t, before, args[4])
	assert.Equal(t, 50, args[5])
}

func TestBuildCandidateQueryOpen(t *testing.T) {
	query, args := buildCandidateQuery(&CandidateFilter{RequesterID: "me"})

	assert.NotContains(t, query, "p.gender = ANY")
	assert.NotContains(t, query, "p.birthdate >")
	assert.NotContains(t, query, "p.birthdate <=")
	assert.Contains(t, query, "LIMIT $3")
	assert.Equal(t, pq.Array([]string{}), args[1])
	assert.Equal(t, 100, args[2])
}

func TestCandidateQueryDefaultsMissingTier(t *testing.T) {
	query, _ := buildCandidateQuery(&CandidateFilter{RequesterID: "me"})

	assert.Contains(t, query, "COALESCE(p.subscription_tier, 'drishti') AS subscription_tier")
	assert.Equal(t, 0, Tier("").Rank())
}
