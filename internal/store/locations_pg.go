package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/common/db"
	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/domain"
)

type LocationsPG struct {
	conn *db.Conn
}

func NewLocationsPG(conn *db.Conn) *LocationsPG { return &LocationsPG{conn: conn} }

// Upsert keeps a single live row per rider; replaying the same report is a
// no-op beyond refreshing the timestamp.
func (r *LocationsPG) Upsert(ctx context.Context, l domain.RiderLocation) error {
	_, err := r.conn.Exec(ctx, `
		INSERT INTO rider_locations (rider_id, order_id, latitude, longitude, updated_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (rider_id) DO UPDATE SET
			order_id = EXCLUDED.order_id,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			updated_at = EXCLUDED.updated_at`,
		l.RiderID, l.OrderID, l.Latitude, l.Longitude, l.UpdatedAt,
	)
	if err != nil {
		return storeErr("upsert rider location", err)
	}
	return nil
}

func (r *LocationsPG) ByRider(ctx context.Context, riderID uuid.UUID) (domain.RiderLocation, error) {
	return r.get(ctx, `SELECT rider_id, order_id, latitude, longitude, updated_at
		FROM rider_locations WHERE rider_id = $1`, riderID)
}

func (r *LocationsPG) ByOrder(ctx context.Context, orderID uuid.UUID) (domain.RiderLocation, error) {
	return r.get(ctx, `SELECT rider_id, order_id, latitude, longitude, updated_at
		FROM rider_locations WHERE order_id = $1`, orderID)
}

func (r *LocationsPG) get(ctx context.Context, q string, arg any) (domain.RiderLocation, error) {
	var l domain.RiderLocation
	err := r.conn.QueryRow(ctx, q, arg).Scan(&l.RiderID, &l.OrderID, &l.Latitude, &l.Longitude, &l.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.RiderLocation{}, ErrLocationNotFound
	}
	if err != nil {
		return domain.RiderLocation{}, storeErr("get rider location", err)
	}
	return l, nil
}
