package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/orderdesk/orderdesk/internal/model"
)

// CreateOrder inserts a new order. Returns ErrConflict if the order_no
// business key is already taken. The ID, CreatedAt, and UpdatedAt fields on
// order are populated after a successful insert.
func (s *Store) CreateOrder(ctx context.Context, order *model.Order) error {
	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now

	const q = `INSERT INTO orders
		(order_no, customer_name, total_cents, status, created_at, updated_at)
		VALUES
		(:order_no, :customer_name, :total_cents, :status, :created_at, :updated_at)`

	id, err := s.insertID(ctx, q, order)
	if err != nil {
		if isConflict(err) {
			return ErrConflict
		}
		return fmt.Errorf("insert order: %w", err)
	}
	order.ID = id
	return nil
}

// ListOrders returns orders newest first.
func (s *Store) ListOrders(ctx context.Context, limit, offset int) ([]model.Order, error) {
	var orders []model.Order
	err := s.db.SelectContext(ctx, &orders,
		s.rebind("SELECT * FROM orders ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"),
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// CountOrders returns the total number of orders.
func (s *Store) CountOrders(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM orders"); err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return count, nil
}

// GetOrderByNo returns an order by its business key.
func (s *Store) GetOrderByNo(ctx context.Context, orderNo string) (*model.Order, error) {
	var order model.Order
	err := s.db.GetContext(ctx, &order,
		s.rebind("SELECT * FROM orders WHERE order_no = ?"), orderNo)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get order by no: %w", err)
	}
	return &order, nil
}

// UpdateOrderStatus patches the status of the order with the given business
// key. Returns ErrNotFound if no such order exists. Status values are
// write-once-unchecked: no transition rules are enforced here.
func (s *Store) UpdateOrderStatus(ctx context.Context, orderNo, status string) error {
	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx,
		s.rebind("UPDATE orders SET status = ?, updated_at = ? WHERE order_no = ?"),
		status, now, orderNo)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update order status rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
