package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/common/db"
	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/domain"
)

type OrdersPG struct {
	conn *db.Conn
}

func NewOrdersPG(conn *db.Conn) *OrdersPG { return &OrdersPG{conn: conn} }

const orderColumns = `id, customer_id, delivery_address, delivery_phone, total_amount,
	status, payment_status, payment_method, estimated_delivery_time,
	assigned_rider_id, created_at, updated_at`

func (r *OrdersPG) Insert(ctx context.Context, o domain.Order, lines []domain.OrderLine) error {
	tx, err := r.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return storeErr("begin order insert", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO orders (`+orderColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		o.ID, o.CustomerID, o.DeliveryAddress, o.DeliveryPhone, o.TotalAmount,
		o.Status, o.PaymentStatus, o.PaymentMethod, o.EstimatedDelivery,
		o.AssignedRiderID, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return storeErr("insert order", err)
	}
	for _, l := range lines {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_items (order_id, menu_item_id, quantity, unit_price, notes)
			VALUES ($1,$2,$3,$4,$5)`,
			o.ID, l.MenuItemID, l.Quantity, l.UnitPrice, l.Notes,
		)
		if err != nil {
			return storeErr("insert order item", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return storeErr("commit order insert", err)
	}
	return nil
}

func (r *OrdersPG) Get(ctx context.Context, id uuid.UUID) (domain.Order, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, domain.ErrUnknownOrder
	}
	if err != nil {
		return domain.Order{}, storeErr("get order", err)
	}
	return o, nil
}

func (r *OrdersPG) Lines(ctx context.Context, orderID uuid.UUID) ([]domain.OrderLine, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT order_id, menu_item_id, quantity, unit_price, notes
		FROM order_items WHERE order_id = $1 ORDER BY id`, orderID)
	if err != nil {
		return nil, storeErr("list order items", err)
	}
	defer rows.Close()
	var lines []domain.OrderLine
	for rows.Next() {
		var l domain.OrderLine
		if err := rows.Scan(&l.OrderID, &l.MenuItemID, &l.Quantity, &l.UnitPrice, &l.Notes); err != nil {
			return nil, storeErr("scan order item", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// UpdateWhereStatus is the compare-and-set the transition engine relies on:
// the row changes only if status still equals expected.
func (r *OrdersPG) UpdateWhereStatus(ctx context.Context, id uuid.UUID, expected domain.Status, patch OrderPatch) (bool, error) {
	sets := []string{"updated_at = $3"}
	args := []any{id, expected, patch.UpdatedAt}
	if patch.Status != nil {
		args = append(args, *patch.Status)
		sets = append(sets, fmt.Sprintf("status = $%d", len(args)))
	}
	if patch.AssignedRiderID != nil {
		args = append(args, *patch.AssignedRiderID)
		sets = append(sets, fmt.Sprintf("assigned_rider_id = $%d", len(args)))
	}
	tag, err := r.conn.Exec(ctx, `
		UPDATE orders SET `+strings.Join(sets, ", ")+`
		WHERE id = $1 AND status = $2`, args...)
	if err != nil {
		return false, storeErr("conditional order update", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *OrdersPG) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]domain.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders
		WHERE customer_id = $1 ORDER BY created_at DESC`, customerID)
}

func (r *OrdersPG) ListByRiderAndStatus(ctx context.Context, riderID uuid.UUID, status domain.Status) ([]domain.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders
		WHERE assigned_rider_id = $1 AND status = $2 ORDER BY updated_at DESC`, riderID, status)
}

func (r *OrdersPG) ListActive(ctx context.Context) ([]domain.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders
		WHERE status NOT IN ($1, $2) ORDER BY created_at DESC`,
		domain.StatusDelivered, domain.StatusCancelled)
}

func (r *OrdersPG) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	err := r.conn.QueryRow(ctx, `
		SELECT count(*),
		       count(*) FILTER (WHERE status NOT IN ($1, $2)),
		       COALESCE(sum(total_amount) FILTER (WHERE payment_status = $3), 0)
		FROM orders`,
		domain.StatusDelivered, domain.StatusCancelled, domain.PaymentPaid,
	).Scan(&s.TotalOrders, &s.PendingOrders, &s.PaidRevenue)
	if err != nil {
		return Stats{}, storeErr("order stats", err)
	}
	return s, nil
}

func (r *OrdersPG) list(ctx context.Context, q string, args ...any) ([]domain.Order, error) {
	rows, err := r.conn.Query(ctx, q, args...)
	if err != nil {
		return nil, storeErr("list orders", err)
	}
	defer rows.Close()
	var out []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, storeErr("scan order", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func scanOrder(row pgx.Row) (domain.Order, error) {
	var o domain.Order
	err := row.Scan(
		&o.ID, &o.CustomerID, &o.DeliveryAddress, &o.DeliveryPhone, &o.TotalAmount,
		&o.Status, &o.PaymentStatus, &o.PaymentMethod, &o.EstimatedDelivery,
		&o.AssignedRiderID, &o.CreatedAt, &o.UpdatedAt,
	)
	return o, err
}

// storeErr tags infrastructure failures as retryable.
func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, domain.ErrStoreUnavailable, err)
}
