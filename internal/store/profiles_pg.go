package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/common/db"
	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/domain"
)

// ProfilesPG reads the profiles table owned by the auth service. The core
// never writes it.
type ProfilesPG struct {
	conn *db.Conn
}

func NewProfilesPG(conn *db.Conn) *ProfilesPG { return &ProfilesPG{conn: conn} }

func (r *ProfilesPG) Get(ctx context.Context, id uuid.UUID) (domain.Profile, error) {
	var p domain.Profile
	err := r.conn.QueryRow(ctx, `
		SELECT id, role, full_name, phone FROM profiles WHERE id = $1`, id).
		Scan(&p.ID, &p.Role, &p.FullName, &p.Phone)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Profile{}, ErrProfileNotFound
	}
	if err != nil {
		return domain.Profile{}, storeErr("get profile", err)
	}
	return p, nil
}

func (r *ProfilesPG) ListByRole(ctx context.Context, role domain.Role) ([]domain.Profile, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT id, role, full_name, phone FROM profiles WHERE role = $1 ORDER BY full_name`, role)
	if err != nil {
		return nil, storeErr("list profiles", err)
	}
	defer rows.Close()
	var out []domain.Profile
	for rows.Next() {
		var p domain.Profile
		if err := rows.Scan(&p.ID, &p.Role, &p.FullName, &p.Phone); err != nil {
			return nil, storeErr("scan profile", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// NewPG wires the four Postgres repositories into one Store.
func NewPG(conn *db.Conn) Store {
	return Store{
		Orders:        NewOrdersPG(conn),
		Locations:     NewLocationsPG(conn),
		Notifications: NewNotificationsPG(conn),
		Profiles:      NewProfilesPG(conn),
	}
}
