// README: Shipment store backed by PostgreSQL.
package shipment

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"shipscope/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, sh *Shipment) error {
	_, err := s.db.Exec(ctx, `
        INSERT INTO shipments (
            id, tracking_number, carrier_code, carrier_name,
            origin, destination,
            origin_lat, origin_lng, destination_lat, destination_lng,
            current_lat, current_lng,
            status, status_version, eta, eta_confidence, created_at
        ) VALUES (
            $1, $2, $3, $4,
            $5, $6,
            $7, $8, $9, $10,
            $11, $12,
            $13, $14, $15, $16, $17
        )`,
		string(sh.ID),
		sh.TrackingNumber,
		sh.CarrierCode,
		sh.CarrierName,
		sh.Origin,
		sh.Destination,
		sh.OriginPos.Lat, sh.OriginPos.Lng,
		sh.DestinationPos.Lat, sh.DestinationPos.Lng,
		sh.CurrentPos.Lat, sh.CurrentPos.Lng,
		string(sh.Status),
		sh.StatusVersion,
		sh.Eta,
		string(sh.EtaConfidence),
		sh.CreatedAt,
	)
	return err
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Shipment, error) {
	row := s.db.QueryRow(ctx, `
        SELECT id, tracking_number, carrier_code, carrier_name,
               origin, destination,
               origin_lat, origin_lng, destination_lat, destination_lng,
               current_lat, current_lng,
               status, status_version, eta, eta_confidence, created_at, delivered_at
        FROM shipments
        WHERE id = $1`, string(id),
	)

	var sh Shipment
	var deliveredAt sql.NullTime
	err := row.Scan(
		&sh.ID, &sh.TrackingNumber, &sh.CarrierCode, &sh.CarrierName,
		&sh.Origin, &sh.Destination,
		&sh.OriginPos.Lat, &sh.OriginPos.Lng, &sh.DestinationPos.Lat, &sh.DestinationPos.Lng,
		&sh.CurrentPos.Lat, &sh.CurrentPos.Lng,
		&sh.Status, &sh.StatusVersion, &sh.Eta, &sh.EtaConfidence, &sh.CreatedAt, &deliveredAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if deliveredAt.Valid {
		t := deliveredAt.Time
		sh.DeliveredAt = &t
	}
	return &sh, nil
}

// UpdateStatus performs an optimistic, versioned transition and moves the
// simulated position along the route in the same statement.
func (s *Store) UpdateStatus(ctx context.Context, id types.ID, from, to Status, version int, pos types.LatLng) (bool, error) {
	tag, err := s.db.Exec(ctx, `
        UPDATE shipments
        SET status = $1,
            status_version = status_version + 1,
            current_lat = $2,
            current_lng = $3,
            delivered_at = CASE WHEN $1 = 'DELIVERED' THEN NOW() ELSE delivered_at END
        WHERE id = $4 AND status = $5 AND status_version = $6`,
		string(to),
		pos.Lat,
		pos.Lng,
		string(id),
		string(from),
		version,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) AppendEvent(ctx context.Context, e *Event) error {
	_, err := s.db.Exec(ctx, `
        INSERT INTO shipment_status_events (
            shipment_id, from_status, to_status, created_at
        ) VALUES ($1, $2, $3, $4)`,
		string(e.ShipmentID),
		string(e.FromStatus),
		string(e.ToStatus),
		e.CreatedAt,
	)
	return err
}

func (s *Store) ListEvents(ctx context.Context, id types.ID) ([]Event, error) {
	rows, err := s.db.Query(ctx, `
        SELECT id, shipment_id, from_status, to_status, created_at
        FROM shipment_status_events
        WHERE shipment_id = $1
        ORDER BY id`, string(id),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var createdAt time.Time
		if err := rows.Scan(&e.ID, &e.ShipmentID, &e.FromStatus, &e.ToStatus, &createdAt); err != nil {
			return nil, err
		}
		e.CreatedAt = createdAt
		events = append(events, e)
	}
	return events, rows.Err()
}
