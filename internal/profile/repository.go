// internal/profile/repository.go

package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/imadgeboyega/sangam-discovery/internal/common/database"
)

// ErrProfileNotFound is returned when no profile exists for an id.
var ErrProfileNotFound = errors.New("profile not found")

// Repository is the read-only Profile Store used by discovery.
type Repository interface {
	GetProfile(ctx context.Context, id string) (*Profile, error)
	QueryEligibleCandidates(ctx context.Context, filter *CandidateFilter) ([]*Profile, error)
}

const profileColumns = `
	p.id, p.display_name, p.gender, p.birthdate,
	p.preferred_min_age, p.preferred_max_age,
	p.city_id, p.state_id, p.country_id,
	p.spiritual_organizations, p.daily_practices, p.diet,
	p.temple_visit_frequency, p.life_philosophy, p.vanaprastha_interest,
	p.profession, p.education, p.about, p.ideal_partner_notes,
	p.photo_key, COALESCE(p.subscription_tier, 'drishti') AS subscription_tier,
	p.is_onboarded, p.is_active, p.is_banned, p.created_at`

// postgresRepository implements Repository using PostgreSQL
type postgresRepository struct {
	db        *sqlx.DB
	locations *LocationResolver
	breaker   *database.Breaker
}

// NewPostgresRepository creates a new PostgreSQL profile store. locations and
// breaker are optional.
func NewPostgresRepository(db *sqlx.DB, locations *LocationResolver, breaker *database.Breaker) Repository {
	return &postgresRepository{db: db, locations: locations, breaker: breaker}
}

// GetProfile retrieves a profile by id with location names resolved
func (r *postgresRepository) GetProfile(ctx context.Context, id string) (*Profile, error) {
	p, err := database.Execute(r.breaker, func() (*Profile, error) {
		var p Profile
		query := `SELECT` + profileColumns + ` FROM profiles p WHERE p.id::text = $1`
		if err := r.db.GetContext(ctx, &p, query, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrProfileNotFound
			}
			return nil, fmt.Errorf("failed to get profile: %w", err)
		}
		return &p, nil
	})
	if err != nil {
		return nil, err
	}

	if err := r.locations.Resolve(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// QueryEligibleCandidates runs one candidate filter
func (r *postgresRepository) QueryEligibleCandidates(ctx context.Context, filter *CandidateFilter) ([]*Profile, error) {
	query, args := buildCandidateQuery(filter)

	profiles, err := database.Execute(r.breaker, func() ([]*Profile, error) {
		var out []*Profile
		if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
			return nil, fmt.Errorf("failed to query candidates: %w", err)
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}

	if err := r.locations.Resolve(ctx, profiles...); err != nil {
		return nil, err
	}
	return profiles, nil
}

// buildCandidateQuery renders a CandidateFilter as SQL. It must stay in step
// with CandidateFilter.Matches.
func buildCandidateQuery(f *CandidateFilter) (string, []interface{}) {
	exclude := f.ExcludeIDs
	if exclude == nil {
		exclude = []string{}
	}

	where := []string{
		"p.is_onboarded = TRUE",
		"p.is_active = TRUE",
		"p.is_banned = FALSE",
		"p.id::text <> $1",
		"NOT (p.id::text = ANY($2::text[]))",
	}
	args := []interface{}{f.RequesterID, pq.Array(exclude)}

	if len(f.Genders) > 0 {
		genders := make([]string, len(f.Genders))
		for i, g := range f.Genders {
			genders[i] = string(g)
		}
		args = append(args, pq.Array(genders))
		where = append(where, fmt.Sprintf("p.gender = ANY($%d::text[])", len(args)))
	}
	if f.BornAfter != nil {
		args = append(args, *f.BornAfter)
		where = append(where, fmt.Sprintf("p.birthdate > $%d", len(args)))
	}
	if f.BornOnOrBefore != nil {
		args = append(args, *f.BornOnOrBefore)
		where = append(where, fmt.Sprintf("p.birthdate <= $%d", len(args)))
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)

	query := `SELECT` + profileColumns + `
		FROM profiles p
		WHERE ` + strings.Join(where, "\n\t\tAND ") + fmt.Sprintf(`
		ORDER BY p.created_at DESC, p.id ASC
		LIMIT $%d`, len(args))

	return query, args
}
