// README: Pickup optimizer ranks carriers by weighted cost/speed/reliability.
package pickup

import (
	"context"
	"fmt"
	"sort"
	"time"

	"shipscope/internal/modules/geosim"
)

// DistanceProvider supplies a road distance for a route. The optimizer works
// without one by falling back to the synthetic great-circle distance, so a
// provider is advisory in the same way the probe aggregator is.
type DistanceProvider interface {
	DistanceKm(ctx context.Context, origin, destination string) (float64, error)
}

const (
	baseHandlingFeeUSD   = 12.0
	perKmRateUSD         = 0.045
	longHaulThresholdKm  = 1000.0
	longHaulDiscount     = 0.9
	costCeilingUSD       = 100.0
	speedCeilingDays     = 14.0
	defaultCostWeight    = 1.0
	defaultSpeedWeight   = 1.5
	defaultReliabilityW  = 1.0
)

type Service struct {
	distance DistanceProvider
}

// NewService builds the optimizer; distance may be nil for the local-only path.
func NewService(distance DistanceProvider) *Service {
	return &Service{distance: distance}
}

// Optimize ranks the given carriers for a pickup on the origin→destination
// route, using the current time as the scheduling anchor.
func (s *Service) Optimize(ctx context.Context, origin, destination string, carriers []string, prefs *Preferences) Result {
	return s.OptimizeAt(ctx, time.Now().UTC(), origin, destination, carriers, prefs)
}

// OptimizeAt is the pure variant: for a fixed clock the same inputs always
// produce the same ranking.
func (s *Service) OptimizeAt(ctx context.Context, now time.Time, origin, destination string, carriers []string, prefs *Preferences) Result {
	distanceKm, source := s.routeDistance(ctx, origin, destination)
	costW, speedW, relW := normalizeWeights(prefs)

	factors := Factors{
		DistanceKm:        distanceKm,
		CostWeight:        costW,
		SpeedWeight:       speedW,
		ReliabilityWeight: relW,
		DistanceSource:    source,
	}

	options := make([]Option, 0, len(carriers))
	for _, name := range carriers {
		options = append(options, s.buildOption(now, origin, destination, name, distanceKm, costW, speedW, relW))
	}

	// Stable: equal scores keep the caller's carrier order.
	sort.SliceStable(options, func(i, j int) bool {
		return options[i].Score > options[j].Score
	})

	result := Result{Factors: factors}
	if len(options) > 0 {
		result.Recommended = &options[0]
		result.Alternatives = options[1:]
	} else {
		result.Alternatives = []Option{}
	}
	return result
}

func (s *Service) buildOption(now time.Time, origin, destination, name string, distanceKm, costW, speedW, relW float64) Option {
	family := classifyFamily(name)

	cost := (baseHandlingFeeUSD + distanceKm*perKmRateUSD) * family.rateMultiplier()
	if distanceKm > longHaulThresholdKm {
		// Long hauls consolidate into linehaul networks; per-km pricing eases off.
		cost *= longHaulDiscount
	}

	// Distance-derived seed keeps the estimate reproducible per route.
	seed := fmt.Sprintf("pickup:%.0f", distanceKm)
	eta := geosim.PredictEtaWithConfidenceAt(now, origin, destination, name, seed)

	availability, windows := family.availability()
	pickupAt := geosim.AddBusinessDays(now, 1)
	deliveryAt := geosim.AddBusinessDays(pickupAt, eta.EstimatedDays)

	costScore := (1 - clampFloat(cost, 0, costCeilingUSD)/costCeilingUSD) * 100
	speedScore := (1 - clampFloat(float64(eta.EstimatedDays), 0, speedCeilingDays)/speedCeilingDays) * 100
	reliability := float64(eta.ConfidenceScore)

	return Option{
		CarrierName:           name,
		EstimatedPickupTime:   pickupAt,
		EstimatedDeliveryTime: deliveryAt,
		TransitDays:           eta.EstimatedDays,
		ReliabilityScore:      eta.ConfidenceScore,
		CostEstimate:          family.costEstimate(),
		EstimatedCostUSD:      roundCents(cost),
		Availability:          availability,
		PickupWindows:         windows,
		Recommendation:        recommendationFor(name, family, eta.EstimatedDays, cost),
		Score:                 costScore*costW + speedScore*speedW + reliability*relW,
	}
}

func (s *Service) routeDistance(ctx context.Context, origin, destination string) (float64, string) {
	if s.distance != nil {
		if km, err := s.distance.DistanceKm(ctx, origin, destination); err == nil && km > 0 {
			return km, "maps"
		}
		// Provider failure degrades to the synthetic route, never to an error.
	}
	from := geosim.CoordsForOrigin(origin)
	to := geosim.CoordsForDestination(destination, destination)
	return geosim.HaversineKm(from, to), "synthetic"
}

func normalizeWeights(prefs *Preferences) (cost, speed, reliability float64) {
	cost, speed, reliability = defaultCostWeight, defaultSpeedWeight, defaultReliabilityW
	if prefs != nil {
		if prefs.CostWeight > 0 {
			cost = prefs.CostWeight
		}
		if prefs.SpeedWeight > 0 {
			speed = prefs.SpeedWeight
		}
		if prefs.ReliabilityWeight > 0 {
			reliability = prefs.ReliabilityWeight
		}
	}
	total := cost + speed + reliability
	return cost / total, speed / total, reliability / total
}

func recommendationFor(name string, family carrierFamily, transitDays int, cost float64) string {
	switch family {
	case familyPremium:
		return fmt.Sprintf("%s offers priority handling on this route: %d business-day transit with the widest choice of pickup windows.", name, transitDays)
	case familyEconomy:
		return fmt.Sprintf("%s is the budget pick at roughly $%.2f; expect %d business days and a single all-day pickup slot.", name, cost, transitDays)
	default:
		return fmt.Sprintf("%s balances cost (~$%.2f) against a %d business-day transit on this route.", name, cost, transitDays)
	}
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func roundCents(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
