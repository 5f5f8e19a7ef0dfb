package service

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/tubepulse/standout/internal/metrics"
	"github.com/tubepulse/standout/internal/model"
	"github.com/tubepulse/standout/pkg/hash"
)

// DefaultCacheTTL applies when no TTL is configured.
const DefaultCacheTTL = 15 * time.Minute

// CacheService provides a Redis cache-aside layer for scraper results.
type CacheService struct {
	rdb *redis.Client
	ttl time.Duration
	log zerolog.Logger
}

// NewCacheService creates a new CacheService. If redisURL is empty or connection
// fails, it returns a CacheService with a nil client (cache operations become no-ops).
func NewCacheService(redisURL string, ttl time.Duration, log zerolog.Logger) *CacheService {
	log = log.With().Str("component", "cache").Logger()
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	disabled := &CacheService{ttl: ttl, log: log}

	if redisURL == "" {
		log.Info().Msg("redis: no URL configured, caching disabled")
		return disabled
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Warn().Err(err).Msg("redis: invalid URL, caching disabled")
		return disabled
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Msg("redis: connection failed, caching disabled")
		_ = rdb.Close()
		return disabled
	}

	log.Info().Dur("ttl", ttl).Msg("redis: connected, caching enabled")
	return &CacheService{rdb: rdb, ttl: ttl, log: log}
}

// Client returns the underlying Redis client (for health checks). May be nil.
func (c *CacheService) Client() *redis.Client {
	return c.rdb
}

// Enabled reports whether a Redis connection is in use.
func (c *CacheService) Enabled() bool {
	return c.rdb != nil
}

// get decodes a cached value into v. A miss or a disabled cache reports
// false with a nil error.
func (c *CacheService) get(ctx context.Context, key string, v any) (bool, error) {
	if c.rdb == nil {
		return false, nil
	}
	data, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, err
	}
	return true, nil
}

func (c *CacheService) set(ctx context.Context, key string, v any) error {
	if c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, c.ttl).Err()
}

// Close shuts down the Redis connection.
func (c *CacheService) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

func channelInfoKey(url string) string {
	return hash.Key("apify:channel", url)
}

func recentVideosKey(url string, max int) string {
	return hash.Key("apify:videos:"+strconv.Itoa(max), url)
}

// CachedFetcher wraps a VideoFetcher with the cache. Cache errors are logged
// and fall through to the wrapped fetcher; failed fetches are never cached.
type CachedFetcher struct {
	next  VideoFetcher
	cache *CacheService
}

var _ VideoFetcher = (*CachedFetcher)(nil)

// NewCachedFetcher wraps next. With a disabled cache every call goes
// straight to next.
func NewCachedFetcher(next VideoFetcher, cache *CacheService) *CachedFetcher {
	return &CachedFetcher{next: next, cache: cache}
}

func (f *CachedFetcher) FetchChannelInfo(ctx context.Context, url string) (model.ChannelInfo, error) {
	key := channelInfoKey(url)

	var info model.ChannelInfo
	if f.lookup(ctx, key, &info) {
		return info, nil
	}

	info, err := f.next.FetchChannelInfo(ctx, url)
	if err != nil {
		return info, err
	}
	f.store(ctx, key, info)
	return info, nil
}

func (f *CachedFetcher) FetchRecentVideos(ctx context.Context, channelURL string, max int) ([]model.RawVideo, error) {
	key := recentVideosKey(channelURL, max)

	var videos []model.RawVideo
	if f.lookup(ctx, key, &videos) {
		return videos, nil
	}

	videos, err := f.next.FetchRecentVideos(ctx, channelURL, max)
	if err != nil {
		return nil, err
	}
	f.store(ctx, key, videos)
	return videos, nil
}

func (f *CachedFetcher) lookup(ctx context.Context, key string, v any) bool {
	if !f.cache.Enabled() {
		return false
	}
	hit, err := f.cache.get(ctx, key, v)
	if err != nil {
		f.cache.log.Warn().Err(err).Str("key", key).Msg("cache read failed")
	}
	if hit {
		metrics.CacheHits.Inc()
	} else {
		metrics.CacheMisses.Inc()
	}
	return hit
}

func (f *CachedFetcher) store(ctx context.Context, key string, v any) {
	if err := f.cache.set(ctx, key, v); err != nil {
		f.cache.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}
