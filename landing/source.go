// Package landing serves the static activity JSON shown on the landing page
// through a read-through cache.
package landing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

const (
	// FreshTTL is how long a fetched blob is served without refetching.
	FreshTTL = 7 * 24 * time.Hour
	// StaleTTL is how long past freshness a blob may still be served when
	// the upstream fails.
	StaleTTL = 14 * 24 * time.Hour

	freshKey = "landing:activity-data"
	staleKey = "landing:activity-data:stale"

	maxBlob = 8 << 20
)

// CacheControl is the response header matching FreshTTL and StaleTTL.
var CacheControl = fmt.Sprintf("public, max-age=%d, stale-while-revalidate=%d", int(FreshTTL.Seconds()), int(StaleTTL.Seconds()))

var (
	ErrNotConfigured = errors.New("landing: activity data url not configured")
	ErrUnavailable   = errors.New("landing: upstream unavailable and nothing cached")
)

type Source struct {
	url    string
	client *http.Client
	cache  Cache
	log    *logrus.Entry
}

// NewSource reads from url. cache may be nil, in which case every call
// fetches.
func NewSource(url string, cache Cache, log *logrus.Entry) *Source {
	return &Source{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
		cache:  cache,
		log:    log.WithField("component", "landing"),
	}
}

// Fetch returns the blob from the cache, the upstream or the stale copy, in
// that order.
func (s *Source) Fetch(ctx context.Context) ([]byte, error) {
	if s.url == "" {
		return nil, ErrNotConfigured
	}
	if b, ok := s.cached(ctx, freshKey); ok {
		return b, nil
	}
	b, err := s.download(ctx)
	if err == nil {
		s.store(ctx, b)
		return b, nil
	}
	s.log.WithError(err).Warn("activity data fetch failed")
	if b, ok := s.cached(ctx, staleKey); ok {
		return b, nil
	}
	return nil, ErrUnavailable
}

func (s *Source) cached(ctx context.Context, key string) ([]byte, bool) {
	if s.cache == nil {
		return nil, false
	}
	b, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.WithError(err).WithField("key", key).Warn("cache read failed")
		return nil, false
	}
	return b, ok
}

func (s *Source) store(ctx context.Context, b []byte) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, freshKey, b, FreshTTL); err != nil {
		s.log.WithError(err).Warn("cache write failed")
		return
	}
	if err := s.cache.Set(ctx, staleKey, b, FreshTTL+StaleTTL); err != nil {
		s.log.WithError(err).Warn("cache write failed")
	}
}

func (s *Source) download(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("activity data status %d", resp.StatusCode)
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBlob))
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(b) {
		return nil, errors.New("activity data is not valid json")
	}
	return b, nil
}
