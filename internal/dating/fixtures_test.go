package dating

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/imadgeboyega/sangam-discovery/internal/profile"
)

var fixedNow = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func genderPtr(g profile.Gender) *profile.Gender { return &g }

func templePtr(f profile.TempleFrequency) *profile.TempleFrequency { return &f }

// bornYearsAgo returns a birthdate that makes the member exactly years old
// at fixedNow.
func bornYearsAgo(years int) *time.Time {
	b := time.Date(fixedNow.Year()-years, 1, 1, 0, 0, 0, 0, time.UTC)
	return &b
}

func member(id string, g profile.Gender, age int) *profile.Profile {
	return &profile.Profile{
		ID:          id,
		DisplayName: "member " + id,
		Gender:      genderPtr(g),
		Birthdate:   bornYearsAgo(age),
		Tier:        profile.TierDrishti,
		IsOnboarded: true,
		IsActive:    true,
		CreatedAt:   fixedNow.Add(-time.Hour),
	}
}

// fakeStore is an in-memory Profile Store honouring CandidateFilter.Matches.
type fakeStore struct {
	mu       sync.Mutex
	profiles map[string]*profile.Profile
	filters  []*profile.CandidateFilter
	getErr   error
	queryErr error
	// extra profiles returned regardless of the filter, to simulate a sloppy adapter
	leak []*profile.Profile
}

func newFakeStore(profiles ...*profile.Profile) *fakeStore {
	s := &fakeStore{profiles: map[string]*profile.Profile{}}
	for _, p := range profiles {
		s.profiles[p.ID] = p
	}
	return s
}

func (s *fakeStore) GetProfile(_ context.Context, id string) (*profile.Profile, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	p, ok := s.profiles[id]
	if !ok {
		return nil, profile.ErrProfileNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *fakeStore) QueryEligibleCandidates(_ context.Context, f *profile.CandidateFilter) ([]*profile.Profile, error) {
	s.mu.Lock()
	s.filters = append(s.filters, f)
	s.mu.Unlock()

	if s.queryErr != nil {
		return nil, s.queryErr
	}

	var out []*profile.Profile
	for _, p := range s.profiles {
		if f.Matches(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return append(out, s.leak...), nil
}

type fakeLedger struct {
	decided map[string]map[string]struct{}
	err     error
}

func (l *fakeLedger) GetDecidedTargetIDs(_ context.Context, requesterID string) (map[string]struct{}, error) {
	if l.err != nil {
		return nil, l.err
	}
	out := map[string]struct{}{}
	for id := range l.decided[requesterID] {
		out[id] = struct{}{}
	}
	return out, nil
}

func decided(actor string, targets ...string) *fakeLedger {
	set := map[string]struct{}{}
	for _, t := range targets {
		set[t] = struct{}{}
	}
	return &fakeLedger{decided: map[string]map[string]struct{}{actor: set}}
}

type fakePhotos struct {
	fail map[string]bool
}

func (f fakePhotos) PhotoURL(_ context.Context, key string) (string, error) {
	if f.fail[key] {
		return "", fmt.Errorf("presign %s: access denied", key)
	}
	return "https://cdn.test/" + key, nil
}

// uuidFor builds a deterministic uuid-shaped id.
func uuidFor(n int) string {
	return fmt.Sprintf("00000000-0000-4000-8000-%012d", n)
}
