package services

import (
	"context"

	"genricycle/internal/database"
	"genricycle/internal/models"
	"genricycle/internal/repositories"
)

type CatalogService struct {
	catalogRepo *repositories.CatalogRepository
}

func NewCatalogService(conn database.Conn) *CatalogService {
	return &CatalogService{catalogRepo: repositories.NewCatalogRepository(conn)}
}

func (s *CatalogService) Medicines(ctx context.Context) ([]models.Medicine, error) {
	return s.catalogRepo.Medicines(ctx)
}

func (s *CatalogService) Categories(ctx context.Context) ([]models.Category, error) {
	return s.catalogRepo.Categories(ctx)
}

func (s *CatalogService) Doctors(ctx context.Context) ([]models.Doctor, error) {
	return s.catalogRepo.Doctors(ctx)
}

func (s *CatalogService) LabTests(ctx context.Context) ([]models.LabTest, error) {
	return s.catalogRepo.LabTests(ctx)
}
