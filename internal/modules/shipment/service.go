// README: Shipment service derives routes and ETAs from the engine and simulates progress.
package shipment

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"shipscope/internal/modules/carrier"
	"shipscope/internal/modules/geosim"
	"shipscope/internal/types"
)

var (
	ErrBadRequest   = errors.New("bad request")
	ErrNotFound     = errors.New("shipment not found")
	ErrInvalidState = errors.New("invalid state transition")
	ErrConflict     = errors.New("shipment state conflict")
)

type Service struct {
	store    *Store
	detector *carrier.Detector
}

func NewService(store *Store, detector *carrier.Detector) *Service {
	return &Service{store: store, detector: detector}
}

type CreateCommand struct {
	TrackingNumber string
	Origin         string
	Destination    string
}

type AdvanceCommand struct {
	ShipmentID types.ID
}

// Create records a shipment with coordinates and an ETA derived entirely
// from the deterministic engine — no live carrier feed is consulted.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*Shipment, error) {
	if cmd.TrackingNumber == "" || cmd.Destination == "" {
		return nil, ErrBadRequest
	}

	carrierCode, carrierName := "unknown", "Unknown Carrier"
	if g := s.detector.Guess(cmd.TrackingNumber); g != nil {
		carrierCode, carrierName = g.Code, g.Name
	}

	originPos := geosim.CoordsForOrigin(cmd.Origin)
	destPos := geosim.CoordsForDestination(cmd.Destination, carrier.Normalize(cmd.TrackingNumber))
	eta := geosim.PredictEtaWithConfidence(cmd.Origin, cmd.Destination, carrierName, cmd.TrackingNumber)

	now := time.Now()
	sh := &Shipment{
		ID:             newID(),
		TrackingNumber: cmd.TrackingNumber,
		CarrierCode:    carrierCode,
		CarrierName:    carrierName,
		Origin:         cmd.Origin,
		Destination:    cmd.Destination,
		OriginPos:      originPos,
		DestinationPos: destPos,
		CurrentPos:     geosim.Interpolate(originPos, destPos, geosim.ProgressForStatus(string(StatusCreated))),
		Status:         StatusCreated,
		StatusVersion:  0,
		Eta:            eta.EstimatedDate,
		EtaConfidence:  eta.Confidence,
		CreatedAt:      now,
	}
	if err := s.store.Create(ctx, sh); err != nil {
		return nil, err
	}
	_ = s.store.AppendEvent(ctx, &Event{
		ShipmentID: sh.ID,
		FromStatus: StatusNone,
		ToStatus:   StatusCreated,
		CreatedAt:  now,
	})
	return sh, nil
}

// Advance moves the shipment one step through the simulated lifecycle and
// re-derives its position by interpolating along the route.
func (s *Service) Advance(ctx context.Context, cmd AdvanceCommand) (*Shipment, error) {
	sh, err := s.store.Get(ctx, cmd.ShipmentID)
	if err != nil {
		return nil, err
	}

	to := NextStatus(sh.Status)
	if to == StatusNone || !CanTransition(sh.Status, to) {
		return nil, ErrInvalidState
	}

	pos := geosim.Interpolate(sh.OriginPos, sh.DestinationPos, geosim.ProgressForStatus(string(to)))
	ok, err := s.store.UpdateStatus(ctx, sh.ID, sh.Status, to, sh.StatusVersion, pos)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrConflict
	}
	_ = s.store.AppendEvent(ctx, &Event{
		ShipmentID: sh.ID,
		FromStatus: sh.Status,
		ToStatus:   to,
		CreatedAt:  time.Now(),
	})
	return s.store.Get(ctx, sh.ID)
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Shipment, error) {
	return s.store.Get(ctx, id)
}

func newID() types.ID {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return types.ID(hex.EncodeToString(b[:]))
}
