package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/common/db"
	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/domain"
)

type NotificationsPG struct {
	conn *db.Conn
}

func NewNotificationsPG(conn *db.Conn) *NotificationsPG { return &NotificationsPG{conn: conn} }

func (r *NotificationsPG) Insert(ctx context.Context, n domain.Notification) error {
	_, err := r.conn.Exec(ctx, `
		INSERT INTO notifications (id, user_id, order_id, message, is_read, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		n.ID, n.UserID, n.OrderID, n.Message, n.IsRead, n.CreatedAt,
	)
	if err != nil {
		return storeErr("insert notification", err)
	}
	return nil
}

func (r *NotificationsPG) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT id, user_id, order_id, message, is_read, created_at
		FROM notifications WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, storeErr("list notifications", err)
	}
	defer rows.Close()
	var out []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.OrderID, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, storeErr("scan notification", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *NotificationsPG) MarkRead(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	tag, err := r.conn.Exec(ctx, `
		UPDATE notifications SET is_read = true WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, storeErr("mark notification read", err)
	}
	return tag.RowsAffected() == 1, nil
}
