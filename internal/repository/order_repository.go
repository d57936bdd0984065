package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pos-inventory/internal/domain"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	List(ctx context.Context) ([]*domain.Order, error)
	FindByID(ctx context.Context, id int64) (*domain.Order, error)
	Create(ctx context.Context, order *domain.Order) error
	Update(ctx context.Context, order *domain.Order) error
	Delete(ctx context.Context, id int64) error
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

const orderColumns = `id, transaction_time, total_price, total_item, payment_amount, cashier_id, cashier_name, payment_method, created_at, updated_at`

const orderWithCashierSelect = `
	SELECT o.id, o.transaction_time, o.total_price, o.total_item, o.payment_amount,
		o.cashier_id, o.cashier_name, o.payment_method, o.created_at, o.updated_at,
		u.id, u.name, u.email, u.role
	FROM orders o
	JOIN users u ON u.id = o.cashier_id
`

func orderDest(o *domain.Order) []interface{} {
	return []interface{}{
		&o.ID,
		&o.TransactionTime,
		&o.TotalPrice,
		&o.TotalItem,
		&o.PaymentAmount,
		&o.CashierID,
		&o.CashierName,
		&o.PaymentMethod,
		&o.CreatedAt,
		&o.UpdatedAt,
	}
}

func scanOrderWithCashier(s scanner) (*domain.Order, error) {
	order := &domain.Order{Cashier: &domain.Cashier{}}
	dest := append(orderDest(order),
		&order.Cashier.ID,
		&order.Cashier.Name,
		&order.Cashier.Email,
		&order.Cashier.Role,
	)
	return order, s.Scan(dest...)
}

// List retrieves all orders with their cashier, newest first
func (r *orderRepository) List(ctx context.Context) ([]*domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, orderWithCashierSelect+" ORDER BY o.created_at DESC, o.id DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []*domain.Order{}
	for rows.Next() {
		order, err := scanOrderWithCashier(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}

// FindByID retrieves an order with its cashier
func (r *orderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	order, err := scanOrderWithCashier(r.db.QueryRowContext(ctx, orderWithCashierSelect+" WHERE o.id = $1", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order by ID: %w", err)
	}

	return order, nil
}

// Create inserts an order and fills in its generated fields
func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	query := `
		INSERT INTO orders (transaction_time, total_price, total_item, payment_amount, cashier_id, cashier_name, payment_method)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + orderColumns

	err := r.db.QueryRowContext(
		ctx,
		query,
		order.TransactionTime,
		order.TotalPrice,
		order.TotalItem,
		order.PaymentAmount,
		order.CashierID,
		order.CashierName,
		order.PaymentMethod,
	).Scan(orderDest(order)...)
	if err != nil {
		return wrapWriteError("create order", err)
	}

	return nil
}

// Update overwrites the payment fields of an order. Cashier and
// transaction time are fixed once the order exists.
func (r *orderRepository) Update(ctx context.Context, order *domain.Order) error {
	query := `
		UPDATE orders
		SET total_price = $2, total_item = $3, payment_amount = $4, payment_method = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + orderColumns

	err := r.db.QueryRowContext(
		ctx,
		query,
		order.ID,
		order.TotalPrice,
		order.TotalItem,
		order.PaymentAmount,
		order.PaymentMethod,
	).Scan(orderDest(order)...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrOrderNotFound
		}
		return wrapWriteError("update order", err)
	}

	return nil
}

// Delete removes an order
func (r *orderRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return wrapWriteError("delete order", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrOrderNotFound
	}

	return nil
}
