// README: Common value types shared across modules.
package types

// ID identifies a stored entity (hex, 32 chars from the generator).
type ID string

// LatLng is a WGS84 coordinate pair in decimal degrees.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Confidence is the coarse tier attached to carrier guesses and ETA predictions.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)
