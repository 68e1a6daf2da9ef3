package loader

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/frame-player/internal/cache"
	"github.com/SAP-F-2025/frame-player/internal/models"
)

// CachedResolver remembers resolved dimensions per asset bundle so repeated
// sessions over the same bundle skip decoding.
type CachedResolver struct {
	next   Resolver
	cache  cache.CacheService
	bundle string
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedResolver(next Resolver, c cache.CacheService, bundle string, ttl time.Duration, logger *slog.Logger) *CachedResolver {
	return &CachedResolver{
		next:   next,
		cache:  c,
		bundle: bundle,
		ttl:    ttl,
		logger: logger,
	}
}

func (r *CachedResolver) cacheKey(image string) string {
	return "dims:" + r.bundle + ":" + image
}

func (r *CachedResolver) Resolve(ctx context.Context, image string) (models.Dimensions, error) {
	var dims models.Dimensions
	err := r.cache.Get(ctx, r.cacheKey(image), &dims)
	if err == nil && dims.Width > 0 && dims.Height > 0 {
		return dims, nil
	}
	if err != nil && !errors.Is(err, cache.ErrCacheMiss) {
		r.logger.Debug("Dimension cache unavailable, resolving directly", "image", image, "error", err)
	}

	dims, err = r.next.Resolve(ctx, image)
	if err != nil {
		return models.Dimensions{}, err
	}

	if err := r.cache.Set(ctx, r.cacheKey(image), dims, r.ttl); err != nil {
		r.logger.Debug("Failed to cache image dimensions", "image", image, "error", err)
	}
	return dims, nil
}

func (r *CachedResolver) URL(image string) string {
	return r.next.URL(image)
}
