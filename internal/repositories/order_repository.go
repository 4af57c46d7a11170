package repositories

import (
	"context"

	"genricycle/internal/database"
	"genricycle/internal/models"
)

type OrderRepository struct {
	conn database.Conn
}

func NewOrderRepository(conn database.Conn) *OrderRepository {
	return &OrderRepository{conn: conn}
}

// Create inserts the order and its items, filling in generated ids.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	row, err := r.conn.QueryRow(ctx, `
		INSERT INTO orders (user_id, status, total_amount)
		VALUES (?, ?, ?)
		RETURNING id, created_at
	`, order.UserID, order.Status, order.TotalAmount)
	if err != nil {
		return err
	}
	order.ID = row.Int64("id")
	order.CreatedAt = row.String("created_at")

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		row, err := r.conn.QueryRow(ctx, `
			INSERT INTO order_items (order_id, medicine_id, quantity, price)
			VALUES (?, ?, ?, ?)
			RETURNING id
		`, item.OrderID, item.MedicineID, item.Quantity, item.Price)
		if err != nil {
			return err
		}
		item.ID = row.Int64("id")
	}
	return nil
}

// ListByUser returns the user's orders, newest first, with their items.
func (r *OrderRepository) ListByUser(ctx context.Context, userID int64) ([]models.Order, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT id, user_id, status, total_amount, created_at
		FROM orders WHERE user_id = ?
		ORDER BY id DESC
	`, userID)
	if err != nil {
		return nil, err
	}

	orders := make([]models.Order, 0, len(rows))
	index := make(map[int64]int, len(rows))
	for _, row := range rows {
		index[row.Int64("id")] = len(orders)
		orders = append(orders, models.Order{
			ID:          row.Int64("id"),
			UserID:      row.Int64("user_id"),
			Status:      row.String("status"),
			TotalAmount: row.Float64("total_amount"),
			CreatedAt:   row.String("created_at"),
			Items:       []models.OrderItem{},
		})
	}
	if len(orders) == 0 {
		return orders, nil
	}

	items, err := r.conn.Query(ctx, `
		SELECT oi.id, oi.order_id, oi.medicine_id, oi.quantity, oi.price
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.user_id = ?
		ORDER BY oi.id
	`, userID)
	if err != nil {
		return nil, err
	}
	for _, row := range items {
		i, ok := index[row.Int64("order_id")]
		if !ok {
			continue
		}
		orders[i].Items = append(orders[i].Items, models.OrderItem{
			ID:         row.Int64("id"),
			OrderID:    row.Int64("order_id"),
			MedicineID: row.Int64("medicine_id"),
			Quantity:   row.Int64("quantity"),
			Price:      row.Float64("price"),
		})
	}
	return orders, nil
}
