package performance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"cati-platform/pkg/logger"
)

// Cache keeps recently built reports in Redis so repeated dashboard polls
// do not rebuild the same aggregation. Reports are deterministic for a
// given scope, so a short TTL only bounds staleness of new records.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Cache{rdb: rdb, ttl: ttl}
}

// CacheKey is stable across callers with an identical effective scope.
func CacheKey(scope Scope) string {
	return fmt.Sprintf("report:%s:%s", scope.CampaignID, scope.Fingerprint())
}

func (c *Cache) Get(ctx context.Context, key string) (CampaignReport, bool) {
	if c == nil || c.rdb == nil {
		return CampaignReport{}, false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.From(ctx).Warn("report cache read failed", "key", key, "error", err)
		}
		return CampaignReport{}, false
	}
	var report CampaignReport
	if err := json.Unmarshal(raw, &report); err != nil {
		// Stale shape from an older build; treat as a miss.
		return CampaignReport{}, false
	}
	return report, true
}

func (c *Cache) Set(ctx context.Context, key string, report CampaignReport) {
	if c == nil || c.rdb == nil {
		return
	}
	raw, err := json.Marshal(report)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		logger.From(ctx).Warn("report cache write failed", "key", key, "error", err)
	}
}
