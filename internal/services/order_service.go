package services

import (
	"context"
	"errors"
	"fmt"

	"genricycle/internal/database"
	"genricycle/internal/models"
	"genricycle/internal/repositories"
	"genricycle/internal/utils"
)

var ErrMedicineNotFound = errors.New("medicine not found")

type CreateAddressRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Line1     string `json:"line1" binding:"required"`
	City      string `json:"city"`
	Pincode   string `json:"pincode"`
	IsDefault bool   `json:"is_default"`
}

type OrderItemRequest struct {
	MedicineID int64 `json:"medicine_id" binding:"required,gt=0"`
	Quantity   int64 `json:"quantity" binding:"required,gt=0"`
}

type CreateOrderRequest struct {
	Email string             `json:"email" binding:"required,email"`
	Items []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// OrderService handles the per-user transactional tables: addresses and
// orders with their items.
type OrderService struct {
	conn        database.Conn
	userRepo    *repositories.UserRepository
	addressRepo *repositories.AddressRepository
	orderRepo   *repositories.OrderRepository
	catalogRepo *repositories.CatalogRepository
}

func NewOrderService(conn database.Conn) *OrderService {
	return &OrderService{
		conn:        conn,
		userRepo:    repositories.NewUserRepository(conn),
		addressRepo: repositories.NewAddressRepository(conn),
		orderRepo:   repositories.NewOrderRepository(conn),
		catalogRepo: repositories.NewCatalogRepository(conn),
	}
}

func (s *OrderService) user(ctx context.Context, email string) (*models.User, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *OrderService) ListAddresses(ctx context.Context, email string) ([]models.Address, error) {
	user, err := s.user(ctx, email)
	if err != nil {
		return nil, err
	}
	return s.addressRepo.ListByUser(ctx, user.ID)
}

func (s *OrderService) AddAddress(ctx context.Context, req CreateAddressRequest) (*models.Address, error) {
	user, err := s.user(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	addr := &models.Address{
		UserID:    user.ID,
		Line1:     req.Line1,
		City:      req.City,
		Pincode:   req.Pincode,
		IsDefault: req.IsDefault,
	}
	if err := s.addressRepo.Create(ctx, addr); err != nil {
		return nil, err
	}
	if err := s.conn.Commit(ctx); err != nil {
		return nil, err
	}
	return addr, nil
}

func (s *OrderService) ListOrders(ctx context.Context, email string) ([]models.Order, error) {
	user, err := s.user(ctx, email)
	if err != nil {
		return nil, err
	}
	return s.orderRepo.ListByUser(ctx, user.ID)
}

// PlaceOrder prices every item from the catalog and stores the order as
// pending.
func (s *OrderService) PlaceOrder(ctx context.Context, req CreateOrderRequest) (*models.Order, error) {
	user, err := s.user(ctx, req.Email)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		UserID: user.ID,
		Status: models.OrderStatusPending,
		Items:  make([]models.OrderItem, 0, len(req.Items)),
	}
	for _, it := range req.Items {
		price, err := s.catalogRepo.MedicinePrice(ctx, it.MedicineID)
		if err != nil {
			return nil, err
		}
		if price == nil {
			return nil, fmt.Errorf("%w: %d", ErrMedicineNotFound, it.MedicineID)
		}
		order.Items = append(order.Items, models.OrderItem{
			MedicineID: it.MedicineID,
			Quantity:   it.Quantity,
			Price:      *price,
		})
		order.TotalAmount += *price * float64(it.Quantity)
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		_ = s.conn.Rollback(ctx)
		return nil, err
	}
	if err := s.conn.Commit(ctx); err != nil {
		return nil, err
	}
	return order, nil
}
