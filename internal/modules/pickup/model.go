// README: Pickup option value types and carrier-family heuristics.
package pickup

import (
	"strings"
	"time"
)

// CostEstimate is the coarse price band of a pickup option.
type CostEstimate string

const (
	CostEconomy  CostEstimate = "economy"
	CostStandard CostEstimate = "standard"
	CostPremium  CostEstimate = "premium"
)

// Option is a fully-priced pickup recommendation for one carrier.
type Option struct {
	CarrierName           string       `json:"carrierName"`
	EstimatedPickupTime   time.Time    `json:"estimatedPickupTime"`
	EstimatedDeliveryTime time.Time    `json:"estimatedDeliveryTime"`
	TransitDays           int          `json:"transitDays"`
	ReliabilityScore      int          `json:"reliabilityScore"`
	CostEstimate          CostEstimate `json:"costEstimate"`
	EstimatedCostUSD      float64      `json:"estimatedCostUsd"`
	Availability          string       `json:"availability"`
	PickupWindows         []string     `json:"pickupWindows"`
	Recommendation        string       `json:"recommendation"`
	Score                 float64      `json:"score"`
}

// Preferences weight the composite ranking. Zero values fall back to the
// speed-biased defaults.
type Preferences struct {
	CostWeight        float64 `json:"costWeight"`
	SpeedWeight       float64 `json:"speedWeight"`
	ReliabilityWeight float64 `json:"reliabilityWeight"`
}

// Factors echoes the normalized weights and route distance that produced a
// ranking, for display alongside the options.
type Factors struct {
	DistanceKm        float64 `json:"distanceKm"`
	CostWeight        float64 `json:"costWeight"`
	SpeedWeight       float64 `json:"speedWeight"`
	ReliabilityWeight float64 `json:"reliabilityWeight"`
	DistanceSource    string  `json:"distanceSource"`
}

// Result is the ranked recommendation set.
type Result struct {
	Recommended  *Option  `json:"recommended"`
	Alternatives []Option `json:"alternatives"`
	Factors      Factors  `json:"optimizationFactors"`
}

type carrierFamily int

const (
	familyUnknown carrierFamily = iota
	familyPremium
	familyEconomy
)

// economy markers win over brand names so "UPS SurePost" prices as economy.
var (
	familyEconomyMarkers = []string{"usps", "postal", "post", "ecommerce", "economy", "surepost", "smartpost"}
	familyPremiumMarkers = []string{"ups", "fedex", "dhl"}
)

func classifyFamily(name string) carrierFamily {
	n := strings.ToLower(name)
	for _, m := range familyEconomyMarkers {
		if strings.Contains(n, m) {
			return familyEconomy
		}
	}
	for _, m := range familyPremiumMarkers {
		if strings.Contains(n, m) {
			return familyPremium
		}
	}
	return familyUnknown
}

func (f carrierFamily) costEstimate() CostEstimate {
	switch f {
	case familyPremium:
		return CostPremium
	case familyEconomy:
		return CostEconomy
	default:
		return CostStandard
	}
}

func (f carrierFamily) rateMultiplier() float64 {
	switch f {
	case familyPremium:
		return 1.4
	case familyEconomy:
		return 0.9
	default:
		return 1.2
	}
}

// Premium carriers run finer-grained pickup windows; economy services
// typically offer a single all-day slot.
func (f carrierFamily) availability() (string, []string) {
	switch f {
	case familyPremium:
		return "high", []string{"08:00-10:00", "10:00-12:00", "12:00-15:00", "15:00-18:00"}
	case familyEconomy:
		return "low", []string{"09:00-17:00"}
	default:
		return "medium", []string{"09:00-12:00", "13:00-17:00"}
	}
}
