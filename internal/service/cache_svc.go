package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mirchandani-mohnish/ytanalytics/internal/youtube"
)

// DetailCacheTTL bounds how long a video's full snippet is reused across
// refresh cycles. Descriptions rarely change; an hour keeps quota usage down
// without serving stale text for long.
const DetailCacheTTL = time.Hour

// CacheService provides a Redis cache-aside layer for video detail lookups.
type CacheService struct {
	rdb *redis.Client
}

// NewCacheService creates a new CacheService. If redisURL is empty or connection
// fails, it returns a CacheService with a nil client (cache operations become no-ops).
func NewCacheService(redisURL string) *CacheService {
	if redisURL == "" {
		log.Println("redis: no URL configured, caching disabled")
		return &CacheService{}
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("redis: invalid URL %q, caching disabled: %v", redisURL, err)
		return &CacheService{}
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("redis: connection failed, caching disabled: %v", err)
		return &CacheService{}
	}

	log.Println("redis: connected, caching enabled")
	return &CacheService{rdb: rdb}
}

// Client returns the underlying Redis client (for health checks). May be nil.
func (c *CacheService) Client() *redis.Client {
	return c.rdb
}

// GetDetail retrieves a cached video detail. Returns nil if not cached or
// cache is disabled.
func (c *CacheService) GetDetail(ctx context.Context, videoID string) (*youtube.VideoDetail, error) {
	if c.rdb == nil {
		return nil, nil
	}
	data, err := c.rdb.Get(ctx, detailKey(videoID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var detail youtube.VideoDetail
	if err := json.Unmarshal(data, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// SetDetail stores a video detail in cache.
func (c *CacheService) SetDetail(ctx context.Context, videoID string, detail *youtube.VideoDetail) error {
	if c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(detail)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, detailKey(videoID), b, DetailCacheTTL).Err()
}

// Close shuts down the Redis connection.
func (c *CacheService) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

func detailKey(videoID string) string {
	return fmt.Sprintf("video:detail:%s", videoID)
}
