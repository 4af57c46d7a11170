package repositories

import (
	"context"

	"genricycle/internal/database"
	"genricycle/internal/models"
)

type AddressRepository struct {
	conn database.Conn
}

func NewAddressRepository(conn database.Conn) *AddressRepository {
	return &AddressRepository{conn: conn}
}

func (r *AddressRepository) Create(ctx context.Context, addr *models.Address) error {
	if addr.IsDefault {
		if _, err := r.conn.Exec(ctx, "UPDATE addresses SET is_default = 0 WHERE user_id = ?", addr.UserID); err != nil {
			return err
		}
	}
	isDefault := 0
	if addr.IsDefault {
		isDefault = 1
	}
	row, err := r.conn.QueryRow(ctx, `
		INSERT INTO addresses (user_id, line1, city, pincode, is_default)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`, addr.UserID, addr.Line1, addr.City, addr.Pincode, isDefault)
	if err != nil {
		return err
	}
	addr.ID = row.Int64("id")
	return nil
}

func (r *AddressRepository) ListByUser(ctx context.Context, userID int64) ([]models.Address, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT id, user_id, line1, city, pincode, is_default
		FROM addresses WHERE user_id = ?
		ORDER BY is_default DESC, id
	`, userID)
	if err != nil {
		return nil, err
	}
	addresses := make([]models.Address, 0, len(rows))
	for _, row := range rows {
		addresses = append(addresses, models.Address{
			ID:        row.Int64("id"),
			UserID:    row.Int64("user_id"),
			Line1:     row.String("line1"),
			City:      row.String("city"),
			Pincode:   row.String("pincode"),
			IsDefault: row.Bool("is_default"),
		})
	}
	return addresses, nil
}
