// README: Pure geographic helpers — hub lookup, synthetic coordinates, distance, interpolation.
package geosim

import (
	"math"
	"strings"
	"time"

	"shipscope/internal/types"
)

const earthRadiusKm = 6371.0

// Synthetic coordinates are clamped away from the poles and the antimeridian
// so the demo map never has to deal with wraparound artifacts.
const (
	minLat, maxLat = -60.0, 80.0
	minLng, maxLng = -170.0, 170.0
)

// memphisHub is the canonical fallback origin for unknown hub names.
var memphisHub = types.LatLng{Lat: 35.1495, Lng: -90.0490}

// hubs maps lower-cased city names to major sortation hub coordinates.
var hubs = map[string]types.LatLng{
	"memphis":      memphisHub,
	"louisville":   {Lat: 38.2527, Lng: -85.7585},
	"indianapolis": {Lat: 39.7684, Lng: -86.1581},
	"cincinnati":   {Lat: 39.1031, Lng: -84.5120},
	"anchorage":    {Lat: 61.2181, Lng: -149.9003},
	"leipzig":      {Lat: 51.3397, Lng: 12.3731},
	"paris":        {Lat: 48.8566, Lng: 2.3522},
	"dubai":        {Lat: 25.2048, Lng: 55.2708},
	"hong kong":    {Lat: 22.3193, Lng: 114.1694},
	"shanghai":     {Lat: 31.2304, Lng: 121.4737},
	"new york":     {Lat: 40.7128, Lng: -74.0060},
	"los angeles":  {Lat: 34.0522, Lng: -118.2437},
}

// CoordsForOrigin looks up a named hub city. Unknown or empty names resolve
// to the Memphis hub; no hashing is involved.
func CoordsForOrigin(name string) types.LatLng {
	if pos, ok := hubs[strings.ToLower(strings.TrimSpace(name))]; ok {
		return pos
	}
	return memphisHub
}

// CoordsForDestination derives stable synthetic coordinates for a destination.
// The destination label is the effective seed whenever it is non-empty, so
// different tracking numbers shipping to the same place land on the same spot.
func CoordsForDestination(destinationLabel, trackingNumber string) types.LatLng {
	seed := strings.TrimSpace(destinationLabel)
	if seed == "" {
		seed = trackingNumber
	}
	lat := minLat + Unit(seed, "lat")*140
	lng := minLng + Unit(seed, "lng")*340
	return types.LatLng{
		Lat: clamp(lat, minLat, maxLat),
		Lng: clamp(lng, minLng, maxLng),
	}
}

// ProgressForStatus maps a shipment status to route progress in [0,1].
// Unknown statuses get the conservative just-created value.
func ProgressForStatus(status string) float64 {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case "CREATED":
		return 0.1
	case "IN_TRANSIT":
		return 0.5
	case "OUT_FOR_DELIVERY":
		return 0.85
	case "DELIVERED":
		return 1.0
	default:
		return 0.1
	}
}

// Interpolate linearly interpolates between a and b; t is clamped to [0,1]
// so t=0 yields exactly a and t=1 exactly b.
func Interpolate(a, b types.LatLng, t float64) types.LatLng {
	t = clamp(t, 0, 1)
	if t == 1 {
		return b
	}
	return types.LatLng{
		Lat: a.Lat + (b.Lat-a.Lat)*t,
		Lng: a.Lng + (b.Lng-a.Lng)*t,
	}
}

// HaversineKm returns the great-circle distance in kilometres between two
// points specified in decimal degrees.
func HaversineKm(a, b types.LatLng) float64 {
	dLat := degreesToRadians(b.Lat - a.Lat)
	dLng := degreesToRadians(b.Lng - a.Lng)

	rLat1 := degreesToRadians(a.Lat)
	rLat2 := degreesToRadians(b.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

// AddBusinessDays advances t by n weekday increments, skipping Saturday and
// Sunday. n=0 returns the identical instant.
func AddBusinessDays(t time.Time, n int) time.Time {
	for i := 0; i < n; i++ {
		t = t.AddDate(0, 0, 1)
		for t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
			t = t.AddDate(0, 0, 1)
		}
	}
	return t
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
