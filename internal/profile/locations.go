// internal/profile/locations.go
// Resolves city/state/country ids to names with a cache in front of Postgres

package profile

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// LocationKind selects one of the location lookup tables.
type LocationKind string

const (
	LocationCity    LocationKind = "city"
	LocationState   LocationKind = "state"
	LocationCountry LocationKind = "country"
)

var locationTables = map[LocationKind]string{
	LocationCity:    "cities",
	LocationState:   "states",
	LocationCountry: "countries",
}

// NameCache stores resolved location names.
type NameCache interface {
	GetNames(ctx context.Context, kind LocationKind, ids []int64) (map[int64]string, error)
	SetNames(ctx context.Context, kind LocationKind, names map[int64]string) error
}

// NameSource is the authoritative lookup behind the cache.
type NameSource interface {
	LookupNames(ctx context.Context, kind LocationKind, ids []int64) (map[int64]string, error)
}

// LocationResolver fills Profile.City/State/Country from their ids.
type LocationResolver struct {
	cache  NameCache
	source NameSource
	logger zerolog.Logger
}

// NewLocationResolver creates a cache-aside resolver. cache may be nil.
func NewLocationResolver(cache NameCache, source NameSource, logger zerolog.Logger) *LocationResolver {
	return &LocationResolver{cache: cache, source: source, logger: logger}
}

// Resolve sets the location names on every profile. Cache failures are
// logged and bypassed; source failures are returned.
func (r *LocationResolver) Resolve(ctx context.Context, profiles ...*Profile) error {
	if r == nil || len(profiles) == 0 {
		return nil
	}

	kinds := []struct {
		kind LocationKind
		id   func(*Profile) *int64
		set  func(*Profile, *string)
	}{
		{LocationCity, func(p *Profile) *int64 { return p.CityID }, func(p *Profile, s *string) { p.City = s }},
		{LocationState, func(p *Profile) *int64 { return p.StateID }, func(p *Profile, s *string) { p.State = s }},
		{LocationCountry, func(p *Profile) *int64 { return p.CountryID }, func(p *Profile, s *string) { p.Country = s }},
	}

	for _, k := range kinds {
		ids := collectIDs(profiles, k.id)
		if len(ids) == 0 {
			continue
		}

		names, err := r.lookup(ctx, k.kind, ids)
		if err != nil {
			return err
		}

		for _, p := range profiles {
			if p == nil {
				continue
			}
			if id := k.id(p); id != nil {
				if name, ok := names[*id]; ok {
					n := name
					k.set(p, &n)
				}
			}
		}
	}
	return nil
}

func (r *LocationResolver) lookup(ctx context.Context, kind LocationKind, ids []int64) (map[int64]string, error) {
	names := make(map[int64]string, len(ids))
	missing := ids

	if r.cache != nil {
		cached, err := r.cache.GetNames(ctx, kind, ids)
		if err != nil {
			r.logger.Warn().Err(err).Str("kind", string(kind)).Msg("location cache read failed")
		} else {
			missing = missing[:0:0]
			for _, id := range ids {
				if name, ok := cached[id]; ok {
					names[id] = name
				} else {
					missing = append(missing, id)
				}
			}
		}
	}

	if len(missing) == 0 || r.source == nil {
		return names, nil
	}

	loaded, err := r.source.LookupNames(ctx, kind, missing)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s names: %w", kind, err)
	}
	for id, name := range loaded {
		names[id] = name
	}

	if r.cache != nil && len(loaded) > 0 {
		if err := r.cache.SetNames(ctx, kind, loaded); err != nil {
			r.logger.Warn().Err(err).Str("kind", string(kind)).Msg("location cache write failed")
		}
	}
	return names, nil
}

func collectIDs(profiles []*Profile, id func(*Profile) *int64) []int64 {
	seen := make(map[int64]struct{})
	for _, p := range profiles {
		if p == nil {
			continue
		}
		if v := id(p); v != nil {
			seen[*v] = struct{}{}
		}
	}
	out := make([]int64, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// postgresNameSource reads the cities/states/countries tables.
type postgresNameSource struct {
	db *sqlx.DB
}

// NewPostgresNameSource creates a NameSource backed by the location tables
func NewPostgresNameSource(db *sqlx.DB) NameSource {
	return &postgresNameSource{db: db}
}

func (s *postgresNameSource) LookupNames(ctx context.Context, kind LocationKind, ids []int64) (map[int64]string, error) {
	table, ok := locationTables[kind]
	if !ok {
		return nil, fmt.Errorf("unknown location kind %q", kind)
	}

	var rows []struct {
		ID   int64  `db:"id"`
		Name string `db:"name"`
	}
	query := "SELECT id, name FROM " + table + " WHERE id = ANY($1)"
	if err := s.db.SelectContext(ctx, &rows, query, pq.Array(ids)); err != nil {
		return nil, err
	}

	out := make(map[int64]string, len(rows))
	for _, row := range rows {
		out[row.ID] = row.Name
	}
	return out, nil
}

// redisNameCache keeps names under location:{kind}:{id}.
type redisNameCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisNameCache creates a Redis NameCache. Location names change rarely
// so a long ttl is fine.
func NewRedisNameCache(client *redis.Client, ttl time.Duration) NameCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &redisNameCache{client: client, ttl: ttl}
}

func locationKey(kind LocationKind, id int64) string {
	return "location:" + string(kind) + ":" + strconv.FormatInt(id, 10)
}

func (c *redisNameCache) GetNames(ctx context.Context, kind LocationKind, ids []int64) (map[int64]string, error) {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = locationKey(kind, id)
	}

	vals, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	out := make(map[int64]string, len(ids))
	for i, v := range vals {
		if s, ok := v.(string); ok {
			out[ids[i]] = s
		}
	}
	return out, nil
}

func (c *redisNameCache) SetNames(ctx context.Context, kind LocationKind, names map[int64]string) error {
	pipe := c.client.Pipeline()
	for id, name := range names {
		pipe.Set(ctx, locationKey(kind, id), name, c.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// memoryNameCache is used when Redis is not configured.
type memoryNameCache struct {
	mu    sync.RWMutex
	names map[string]string
}

// NewMemoryNameCache creates a process-local NameCache
func NewMemoryNameCache() NameCache {
	return &memoryNameCache{names: make(map[string]string)}
}

func (c *memoryNameCache) GetNames(_ context.Context, kind LocationKind, ids []int64) (map[int64]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[int64]string, len(ids))
	for _, id := range ids {
		if name, ok := c.names[locationKey(kind, id)]; ok {
			out[id] = name
		}
	}
	return out, nil
}

func (c *memoryNameCache) SetNames(_ context.Context, kind LocationKind, names map[int64]string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for id, name := range names {
		c.names[locationKey(kind, id)] = name
	}
	return nil
}
