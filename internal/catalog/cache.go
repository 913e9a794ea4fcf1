package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

// listCache is the slice of the redis client used to memoize listings.
type listCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CacheKey(scope, id string) string
}

// cachedList serves a listing from cache when present and stores fresh
// results for ttl. Cache failures fall through to fetch.
func cachedList[T any](ctx context.Context, s *service, scope, id string, fetch func(context.Context) (Page[T], error)) (Page[T], error) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return fetch(ctx)
	}
	key := s.cache.CacheKey(scope, id)

	raw, err := s.cache.Get(ctx, key)
	switch {
	case err == nil:
		var page Page[T]
		jsonErr := json.Unmarshal([]byte(raw), &page)
		if jsonErr == nil {
			return page, nil
		}
		s.warn(ctx, "catalog.cache_decode_failed", key, jsonErr)
	case !errors.Is(err, redislib.Nil):
		s.warn(ctx, "catalog.cache_read_failed", key, err)
	}

	page, err := fetch(ctx)
	if err != nil {
		return page, err
	}
	payload, err := json.Marshal(page)
	if err != nil {
		return page, nil
	}
	if err := s.cache.Set(ctx, key, string(payload), s.cacheTTL); err != nil {
		s.warn(ctx, "catalog.cache_write_failed", key, err)
	}
	return page, nil
}

func (s *service) warn(ctx context.Context, msg, key string, err error) {
	if s.logg == nil {
		return
	}
	s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"cache_key": key, "error": err.Error()}), msg)
}
