package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fort2008/ChoganLuxury-Ecommerce/internal/domain/models"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderStorage описывает методы для работы с заказами.
type OrderStorage interface {
	// CreateOrder - идемпотентная вставка: если заказ с таким session_id
	// уже существует, вставка молча пропускается (существующая строка побеждает).
	CreateOrder(ctx context.Context, order *models.Order) error
	// MarkOrderPaid переводит заказ в статус paid и сохраняет email покупателя.
	// Повторное применение того же события ничего не меняет.
	MarkOrderPaid(ctx context.Context, sessionID string, customerEmail string) error
	GetOrderBySessionID(ctx context.Context, sessionID string) (*models.Order, error)
	// ListOrders возвращает все заказы, сначала новые.
	ListOrders(ctx context.Context) ([]*models.Order, error)
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт новый репозиторий заказов.
func NewOrderRepository(db *sql.DB) OrderStorage {
	return &orderRepository{db: db}
}

func (r *orderRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	query := `INSERT INTO orders (session_id, items_json, total, currency, status, created_at)
	          VALUES ($1, $2, $3, $4, $5, NOW())
	          ON CONFLICT (session_id) DO NOTHING`
	_, err := r.db.ExecContext(ctx, query,
		order.SessionID, order.ItemsJSON, order.Total, order.Currency, order.Status)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *orderRepository) MarkOrderPaid(ctx context.Context, sessionID string, customerEmail string) error {
	// событие без email плательщика оставляет customer_email пустым (NULL)
	query := `UPDATE orders SET status = $1, customer_email = NULLIF($2, '') WHERE session_id = $3`
	_, err := r.db.ExecContext(ctx, query, models.OrderStatusPaid, customerEmail, sessionID)
	if err != nil {
		return fmt.Errorf("failed to mark order paid: %w", err)
	}
	return nil
}

func (r *orderRepository) GetOrderBySessionID(ctx context.Context, sessionID string) (*models.Order, error) {
	order := &models.Order{}
	row := r.db.QueryRowContext(ctx,
		`SELECT session_id, items_json, total, currency, status, customer_email, created_at
		 FROM orders WHERE session_id = $1`, sessionID)
	if err := row.Scan(&order.SessionID, &order.ItemsJSON, &order.Total, &order.Currency,
		&order.Status, &order.CustomerEmail, &order.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) ListOrders(ctx context.Context) ([]*models.Order, error) {
	query := `
		SELECT session_id, items_json, total, currency, status, customer_email, created_at
		FROM orders
		ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order := &models.Order{}
		if err := rows.Scan(&order.SessionID, &order.ItemsJSON, &order.Total, &order.Currency,
			&order.Status, &order.CustomerEmail, &order.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}
