// README: Aggregator service — remote probe source with silent local fallback.
package aggregator

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"shipscope/internal/config"
	"shipscope/internal/modules/carrier"
)

// Source labels where a candidate list came from.
const (
	SourceAggregator = "aggregator"
	SourceLocal      = "local"
)

// Result is the aggregation outcome. The aggregator is advisory: its
// unavailability never surfaces as an error, only as Source flipping to
// "local".
type Result struct {
	OK         bool            `json:"ok"`
	Source     string          `json:"source"`
	Candidates []carrier.Probe `json:"candidates"`
}

type Service struct {
	detector *carrier.Detector
	client   *client
	cache    *cache
	log      zerolog.Logger
}

// NewService wires the aggregator. When cfg is not fully configured the
// remote path is skipped entirely; rdb may be nil to disable caching.
func NewService(cfg config.AggregatorConfig, detector *carrier.Detector, rdb *redis.Client, log zerolog.Logger) *Service {
	s := &Service{
		detector: detector,
		cache:    newCache(rdb),
		log:      log,
	}
	if cfg.Enabled() {
		s.client = newClient(cfg.BaseURL, cfg.APIKey)
	}
	return s
}

// Aggregate resolves carrier candidates for a tracking number, preferring the
// remote aggregator when configured and falling back to local probing on any
// failure. The output shape is identical either way apart from the Source tag.
func (s *Service) Aggregate(ctx context.Context, trackingNumber string, limit int, carrierHint string) Result {
	if s.client == nil {
		return s.local(trackingNumber, limit)
	}

	normalized := carrier.Normalize(trackingNumber)
	key := cacheKey(normalized, limit, carrierHint)
	if candidates, ok := s.cache.get(ctx, key); ok {
		return Result{OK: true, Source: SourceAggregator, Candidates: candidates}
	}

	candidates, err := s.client.identify(ctx, normalized, limit, carrierHint)
	if err != nil {
		s.log.Debug().Err(err).Str("tracking_number", normalized).
			Msg("aggregator unavailable, falling back to local probe")
		return s.local(trackingNumber, limit)
	}

	s.cache.set(ctx, key, candidates)
	return Result{OK: true, Source: SourceAggregator, Candidates: candidates}
}

func (s *Service) local(trackingNumber string, limit int) Result {
	candidates := s.detector.Probe(trackingNumber, limit)
	if candidates == nil {
		candidates = []carrier.Probe{}
	}
	return Result{OK: true, Source: SourceLocal, Candidates: candidates}
}
