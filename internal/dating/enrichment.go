// internal/dating/enrichment.go
// Per-candidate photo URL lookup fanned out over the ranked page

package dating

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/imadgeboyega/sangam-discovery/internal/profile"
)

const fieldPhotoURL = "photo_url"

// Enricher resolves display fields for ranked candidates.
type Enricher struct {
	photos      profile.PhotoResolver
	concurrency int
}

func NewEnricher(photos profile.PhotoResolver, concurrency int) *Enricher {
	if concurrency <= 0 {
		concurrency = 8
	}
	return &Enricher{photos: photos, concurrency: concurrency}
}

// Enrich sets PhotoURL in place. Each goroutine writes only its own index so
// the ranking order is untouched. Failures leave PhotoURL nil and are
// returned for logging; they never abort the batch.
func (e *Enricher) Enrich(ctx context.Context, page []RankedCandidate) []*EnrichmentError {
	if e == nil || e.photos == nil || len(page) == 0 {
		return nil
	}

	failures := make([]*EnrichmentError, len(page))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for i := range page {
		p := page[i].Profile
		if p == nil || p.PhotoKey == nil || *p.PhotoKey == "" {
			continue
		}

		g.Go(func() error {
			url, err := e.resolve(gctx, *p.PhotoKey)
			if err != nil {
				if !errors.Is(err, profile.ErrNoPhoto) {
					failures[i] = &EnrichmentError{CandidateID: p.ID, Field: fieldPhotoURL, Err: err}
				}
				return nil
			}
			page[i].PhotoURL = &url
			return nil
		})
	}
	_ = g.Wait()

	out := failures[:0]
	for _, f := range failures {
		if f != nil {
			out = append(out, f)
		}
	}
	return out
}

// resolve converts panics from a resolver into an error so one bad key
// cannot take down the request.
func (e *Enricher) resolve(ctx context.Context, key string) (url string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New("photo resolver panicked")
		}
	}()
	return e.photos.PhotoURL(ctx, key)
}
