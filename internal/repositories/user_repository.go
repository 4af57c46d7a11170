package repositories

import (
	"context"
	"errors"

	"genricycle/internal/database"
	"genricycle/internal/models"
)

const userColumns = "id, name, email, phone, role, language, currency, created_at, password_hash"

type UserRepository struct {
	conn database.Conn
}

func NewUserRepository(conn database.Conn) *UserRepository {
	return &UserRepository{conn: conn}
}

func scanUser(row database.Row) *models.User {
	return &models.User{
		ID:           row.Int64("id"),
		Name:         row.String("name"),
		Email:        row.String("email"),
		Phone:        row.NullString("phone"),
		Role:         row.String("role"),
		Language:     row.NullString("language"),
		Currency:     row.NullString("currency"),
		CreatedAt:    row.String("created_at"),
		PasswordHash: row.NullString("password_hash"),
	}
}

// FindUserByEmail returns nil when no user has the address.
func (r *UserRepository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	row, err := r.conn.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE email = ?", email)
	if err != nil {
		if errors.Is(err, database.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return scanUser(row), nil
}

func (r *UserRepository) FindUserByID(ctx context.Context, id int64) (*models.User, error) {
	row, err := r.conn.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
	if err != nil {
		if errors.Is(err, database.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return scanUser(row), nil
}

// Create inserts the user and fills in the generated id.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	row, err := r.conn.QueryRow(ctx, `
		INSERT INTO users (name, email, phone, role, language, currency, password_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`, user.Name, user.Email, user.Phone, user.Role, user.Language, user.Currency, user.PasswordHash)
	if err != nil {
		return err
	}
	user.ID = row.Int64("id")
	return nil
}

// Update rewrites the profile columns. Email and password are left alone.
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	_, err := r.conn.Exec(ctx, `
		UPDATE users SET name = ?, phone = ?, role = ?, language = ?, currency = ?
		WHERE id = ?
	`, user.Name, user.Phone, user.Role, user.Language, user.Currency, user.ID)
	return err
}

// DeleteByEmail removes the user; child rows go with it through ON DELETE
// CASCADE. It returns the number of users removed.
func (r *UserRepository) DeleteByEmail(ctx context.Context, email string) (int64, error) {
	return r.conn.Exec(ctx, "DELETE FROM users WHERE email = ?", email)
}
