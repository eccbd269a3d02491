// README: Redis-backed cache for remote aggregator responses.
package aggregator

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"shipscope/internal/modules/carrier"
)

const cacheTTL = 5 * time.Minute

// cache stores normalized remote candidate lists keyed by the exact query.
// A nil redis client disables it; every method is nil-safe so the service
// never has to care whether redis is configured.
type cache struct {
	redis *redis.Client
}

func newCache(rdb *redis.Client) *cache {
	return &cache{redis: rdb}
}

func cacheKey(trackingNumber string, limit int, hint string) string {
	return fmt.Sprintf("aggregator:%s:%d:%s", trackingNumber, limit, hint)
}

func (c *cache) get(ctx context.Context, key string) ([]carrier.Probe, bool) {
	if c == nil || c.redis == nil {
		return nil, false
	}
	raw, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var probes []carrier.Probe
	if err := json.Unmarshal(raw, &probes); err != nil {
		return nil, false
	}
	return probes, true
}

func (c *cache) set(ctx context.Context, key string, probes []carrier.Probe) {
	if c == nil || c.redis == nil {
		return
	}
	raw, err := json.Marshal(probes)
	if err != nil {
		return
	}
	// Best effort; a write failure only costs a future round trip.
	_ = c.redis.Set(ctx, key, raw, cacheTTL).Err()
}
