// README: Transit-time and ETA model on top of the seeded hash.
package geosim

import (
	"math"
	"strings"
	"time"

	"shipscope/internal/types"
)

// EtaPrediction is a confidence-scored delivery estimate. All fields are
// derived deterministically from the inputs and the supplied clock.
type EtaPrediction struct {
	EstimatedDate   time.Time        `json:"estimatedDate"`
	Confidence      types.Confidence `json:"confidence"`
	ConfidenceScore int              `json:"confidenceScore"`
	WeatherFactor   float64          `json:"weatherFactor"`
	TrafficFactor   float64          `json:"trafficFactor"`
	MinDays         int              `json:"minDays"`
	EstimatedDays   int              `json:"estimatedDays"`
	MaxDays         int              `json:"maxDays"`
}

type serviceClass int

const (
	classStandard serviceClass = iota
	classExpress
	classEconomy
)

// economy markers are checked before express ones so "FedEx SmartPost" lands
// in the economy class despite carrying an express brand name.
var (
	economyMarkers = []string{"ecommerce", "economy", "smartpost", "surepost", "mail innovations", "ground advantage"}
	expressMarkers = []string{"express", "priority", "overnight", "ups", "fedex", "dhl"}
)

func classifyService(carrierName string) serviceClass {
	name := strings.ToLower(carrierName)
	for _, m := range economyMarkers {
		if strings.Contains(name, m) {
			return classEconomy
		}
	}
	for _, m := range expressMarkers {
		if strings.Contains(name, m) {
			return classExpress
		}
	}
	return classStandard
}

// PredictTransitBusinessDays estimates transit time in business days for a
// distance band, adjusted by recognized express/economy carrier names. For a
// fixed distance, express ≤ standard ≤ economy always holds.
func PredictTransitBusinessDays(distanceKm float64, carrierName string) int {
	var days int
	switch {
	case distanceKm < 500:
		days = 2
	case distanceKm < 1500:
		days = 3
	case distanceKm < 5000:
		days = 7
	default:
		days = 10
	}

	switch classifyService(carrierName) {
	case classExpress:
		if days > 1 {
			days--
		}
	case classEconomy:
		days += 2
		if days > 14 {
			days = 14
		}
	}
	return days
}

// PredictEtaWithConfidenceAt is the pure ETA model: the same
// (origin, destination, carrier, seed) tuple and clock always reproduce the
// same prediction. Weather and traffic risk are hash-derived, never sampled.
func PredictEtaWithConfidenceAt(now time.Time, origin, destination, carrier, seed string) EtaPrediction {
	if seed == "" {
		seed = destination
	}

	from := CoordsForOrigin(origin)
	to := CoordsForDestination(destination, seed)
	distance := HaversineKm(from, to)

	base := PredictTransitBusinessDays(distance, carrier)

	riskSeed := origin + "|" + destination + "|" + carrier + "|" + seed
	weather := Unit(riskSeed, "weather")
	traffic := Unit(riskSeed, "traffic")

	minDays := base - 1
	if minDays < 1 {
		minDays = 1
	}
	maxDays := base + 2 + int((weather+traffic)*2)
	estimated := base + int(math.Round(weather*0.75+traffic*0.75))
	if estimated > maxDays {
		estimated = maxDays
	}
	if estimated < minDays {
		estimated = minDays
	}

	score := 95.0
	score -= distance / 250.0
	score -= (weather + traffic) * 15
	switch classifyService(carrier) {
	case classExpress:
		score += 5
	case classEconomy:
		score -= 10
	}
	confidenceScore := int(clamp(score, 0, 100))

	return EtaPrediction{
		EstimatedDate:   AddBusinessDays(now, estimated),
		Confidence:      confidenceTier(confidenceScore),
		ConfidenceScore: confidenceScore,
		WeatherFactor:   weather,
		TrafficFactor:   traffic,
		MinDays:         minDays,
		EstimatedDays:   estimated,
		MaxDays:         maxDays,
	}
}

// PredictEtaWithConfidence runs the model against the current time.
func PredictEtaWithConfidence(origin, destination, carrier, seed string) EtaPrediction {
	return PredictEtaWithConfidenceAt(time.Now().UTC(), origin, destination, carrier, seed)
}

// PredictEtaDateAt returns only the estimated delivery date.
func PredictEtaDateAt(now time.Time, origin, destination, carrier, seed string) time.Time {
	return PredictEtaWithConfidenceAt(now, origin, destination, carrier, seed).EstimatedDate
}

// PredictEtaDate runs PredictEtaDateAt against the current time.
func PredictEtaDate(origin, destination, carrier, seed string) time.Time {
	return PredictEtaDateAt(time.Now().UTC(), origin, destination, carrier, seed)
}

func confidenceTier(score int) types.Confidence {
	switch {
	case score >= 75:
		return types.ConfidenceHigh
	case score >= 50:
		return types.ConfidenceMedium
	default:
		return types.ConfidenceLow
	}
}
