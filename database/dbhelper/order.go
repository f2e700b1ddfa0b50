package dbhelper

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ray-remotestate/burgerhouse/models"
	"github.com/ray-remotestate/burgerhouse/orders"
)

const orderColumns = `id, user_id, customer, address, cart_items, subtotal, delivery_fee, total, status, created_at`

// Orders is the Postgres implementation of orders.Store.
type Orders struct {
	db *sql.DB
}

var _ orders.Store = (*Orders)(nil)

func NewOrders(db *sql.DB) *Orders {
	return &Orders{db: db}
}

func (o *Orders) CreateOrder(ctx context.Context, draft models.OrderDraft) (uuid.UUID, error) {
	customer, err := json.Marshal(draft.Customer)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to encode customer: %w", err)
	}
	lines := draft.CartItems
	if lines == nil {
		lines = []models.CartItem{}
	}
	cartItems, err := json.Marshal(lines)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to encode cart items: %w", err)
	}

	var orderID uuid.UUID
	err = o.db.QueryRowContext(ctx, `
		INSERT INTO orders (user_id, customer, address, cart_items, subtotal, delivery_fee, total, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		draft.UserID, string(customer), draft.Address, string(cartItems),
		draft.Subtotal, draft.DeliveryFee, draft.Total(), models.OrderStatusPending,
	).Scan(&orderID)
	if err != nil {
		return uuid.Nil, err
	}
	return orderID, nil
}

func (o *Orders) ListOrdersForUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	return o.list(ctx, `SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

func (o *Orders) ListAllOrders(ctx context.Context) ([]models.Order, error) {
	return o.list(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`)
}

func (o *Orders) GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	row := o.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, orderID)
	order, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (o *Orders) SetOrderStatus(ctx context.Context, orderID uuid.UUID, status models.OrderStatus) error {
	res, err := o.db.ExecContext(ctx, `UPDATE orders SET status = $2 WHERE id = $1`, orderID, status)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return orders.ErrOrderNotFound
	}
	return nil
}

func (o *Orders) list(ctx context.Context, query string, args ...any) ([]models.Order, error) {
	rows, err := o.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	list := make([]models.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, order)
	}
	return list, rows.Err()
}

func scanOrder(s scanner) (models.Order, error) {
	var (
		order     models.Order
		customer  []byte
		cartItems []byte
	)
	err := s.Scan(&order.ID, &order.UserID, &customer, &order.Address, &cartItems,
		&order.Subtotal, &order.DeliveryFee, &order.Total, &order.Status, &order.CreatedAt)
	if err != nil {
		return models.Order{}, err
	}
	if err := json.Unmarshal(customer, &order.Customer); err != nil {
		return models.Order{}, fmt.Errorf("failed to decode customer of order %s: %w", order.ID, err)
	}
	if err := json.Unmarshal(cartItems, &order.CartItems); err != nil {
		return models.Order{}, fmt.Errorf("failed to decode cart items of order %s: %w", order.ID, err)
	}
	return order, nil
}
