package repositories

import (
	"context"
	"errors"

	"genricycle/internal/database"
	"genricycle/internal/models"
)

type CatalogRepository struct {
	conn database.Conn
}

func NewCatalogRepository(conn database.Conn) *CatalogRepository {
	return &CatalogRepository{conn: conn}
}

func (r *CatalogRepository) Medicines(ctx context.Context) ([]models.Medicine, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT m.id, m.slug, m.name, m.generic_name, m.brand, m.description, m.price, m.stock, m.image_url,
			c.name AS category_name
		FROM medicines m
		LEFT JOIN categories c ON m.category_id = c.id
		ORDER BY m.name ASC
	`)
	if err != nil {
		return nil, err
	}
	medicines := make([]models.Medicine, 0, len(rows))
	for _, row := range rows {
		medicines = append(medicines, models.Medicine{
			ID:           row.Int64("id"),
			Slug:         row.String("slug"),
			Name:         row.String("name"),
			GenericName:  row.String("generic_name"),
			Brand:        row.String("brand"),
			Description:  row.String("description"),
			Price:        row.Float64("price"),
			Stock:        row.Int64("stock"),
			ImageURL:     row.String("image_url"),
			CategoryName: row.NullString("category_name"),
		})
	}
	return medicines, nil
}

// MedicinePrice returns nil when the medicine does not exist.
func (r *CatalogRepository) MedicinePrice(ctx context.Context, id int64) (*float64, error) {
	row, err := r.conn.QueryRow(ctx, "SELECT price FROM medicines WHERE id = ?", id)
	if err != nil {
		if errors.Is(err, database.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	price := row.Float64("price")
	return &price, nil
}

func (r *CatalogRepository) Categories(ctx context.Context) ([]models.Category, error) {
	rows, err := r.conn.Query(ctx, "SELECT id, name FROM categories ORDER BY name")
	if err != nil {
		return nil, err
	}
	categories := make([]models.Category, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, models.Category{ID: row.Int64("id"), Name: row.String("name")})
	}
	return categories, nil
}

func (r *CatalogRepository) Doctors(ctx context.Context) ([]models.Doctor, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT id, name, specialty, experience_years, consultation_fee, image_url
		FROM doctors ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	doctors := make([]models.Doctor, 0, len(rows))
	for _, row := range rows {
		doctors = append(doctors, models.Doctor{
			ID:              row.Int64("id"),
			Name:            row.String("name"),
			Specialty:       row.String("specialty"),
			ExperienceYears: row.Int64("experience_years"),
			ConsultationFee: row.Float64("consultation_fee"),
			ImageURL:        row.String("image_url"),
		})
	}
	return doctors, nil
}

func (r *CatalogRepository) LabTests(ctx context.Context) ([]models.LabTest, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT lt.id, lt.name, lt.category, lt.price, l.name AS lab_name, l.city
		FROM lab_tests lt
		LEFT JOIN labs l ON lt.lab_id = l.id
		ORDER BY lt.name
	`)
	if err != nil {
		return nil, err
	}
	tests := make([]models.LabTest, 0, len(rows))
	for _, row := range rows {
		tests = append(tests, models.LabTest{
			ID:       row.Int64("id"),
			Name:     row.String("name"),
			Category: row.String("category"),
			Price:    row.Float64("price"),
			LabName:  row.NullString("lab_name"),
			City:     row.NullString("city"),
		})
	}
	return tests, nil
}
