// README: Shipment aggregate and status definitions.
package shipment

import (
	"time"

	"shipscope/internal/types"
)

type Status string

const (
	StatusNone           Status = "none"
	StatusCreated        Status = "CREATED"
	StatusInTransit      Status = "IN_TRANSIT"
	StatusOutForDelivery Status = "OUT_FOR_DELIVERY"
	StatusDelivered      Status = "DELIVERED"
)

type Shipment struct {
	ID             types.ID
	TrackingNumber string
	CarrierCode    string
	CarrierName    string
	Origin         string
	Destination    string
	OriginPos      types.LatLng
	DestinationPos types.LatLng
	CurrentPos     types.LatLng
	Status         Status
	StatusVersion  int
	Eta            time.Time
	EtaConfidence  types.Confidence
	CreatedAt      time.Time
	DeliveredAt    *time.Time
}

type Event struct {
	ID         int64
	ShipmentID types.ID
	FromStatus Status
	ToStatus   Status
	CreatedAt  time.Time
}

// AllowedTransitions represents the simulated shipment lifecycle as code.
var AllowedTransitions = map[Status][]Status{
	StatusCreated:        {StatusInTransit},
	StatusInTransit:      {StatusOutForDelivery},
	StatusOutForDelivery: {StatusDelivered},
}

func CanTransition(from, to Status) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}

// NextStatus returns the single forward step in the simulated lifecycle,
// or StatusNone from a terminal state.
func NextStatus(from Status) Status {
	next, ok := AllowedTransitions[from]
	if !ok || len(next) == 0 {
		return StatusNone
	}
	return next[0]
}
