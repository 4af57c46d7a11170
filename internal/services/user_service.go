package services

import (
	"context"
	"errors"

	"genricycle/internal/database"
	"genricycle/internal/models"
	"genricycle/internal/repositories"
	"genricycle/internal/utils"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type UpsertUserRequest struct {
	Name     string  `json:"name"`
	Email    string  `json:"email" binding:"required,email"`
	Phone    *string `json:"phone"`
	Role     string  `json:"role"`
	Language *string `json:"language"`
	Currency *string `json:"currency"`
}

type SignupRequest struct {
	Name     string  `json:"name"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=6"`
	Phone    *string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserService works on one request's connection and commits its own writes.
type UserService struct {
	conn     database.Conn
	userRepo *repositories.UserRepository
	hasher   *utils.PasswordHasher
}

func NewUserService(conn database.Conn) *UserService {
	return &UserService{
		conn:     conn,
		userRepo: repositories.NewUserRepository(conn),
		hasher:   utils.NewPasswordHasher(utils.DefaultArgon2Params),
	}
}

func (s *UserService) GetUser(ctx context.Context, email string) (*models.User, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// Upsert creates the user or updates the profile of an existing one. The
// boolean reports whether a new row was inserted.
func (s *UserService) Upsert(ctx context.Context, req UpsertUserRequest) (*models.User, bool, error) {
	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Role:     req.Role,
		Language: req.Language,
		Currency: req.Currency,
	}
	user.Prepare()

	existing, err := s.userRepo.FindUserByEmail(ctx, user.Email)
	if err != nil {
		return nil, false, err
	}

	created := existing == nil
	if created {
		err = s.userRepo.Create(ctx, user)
	} else {
		user.ID = existing.ID
		err = s.userRepo.Update(ctx, user)
	}
	if err != nil {
		return nil, false, err
	}
	if err := s.conn.Commit(ctx); err != nil {
		return nil, false, err
	}

	saved, err := s.userRepo.FindUserByID(ctx, user.ID)
	if err != nil {
		return nil, false, err
	}
	return saved, created, nil
}

func (s *UserService) Signup(ctx context.Context, req SignupRequest) (*models.User, error) {
	user := &models.User{Name: req.Name, Email: req.Email, Phone: req.Phone}
	user.Prepare()

	existing, err := s.userRepo.FindUserByEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUserExists
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = &hash

	if err := s.userRepo.Create(ctx, user); err != nil {
		// lost a race with a concurrent signup for the same address
		if database.IsUniqueViolation(err) {
			return nil, ErrUserExists
		}
		return nil, err
	}
	if err := s.conn.Commit(ctx); err != nil {
		return nil, err
	}
	return s.userRepo.FindUserByID(ctx, user.ID)
}

func (s *UserService) Login(ctx context.Context, req LoginRequest) (*models.User, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, utils.NormalizeEmail(req.Email))
	if err != nil {
		return nil, err
	}
	if user == nil || user.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}
	if err := s.hasher.Verify(*user.PasswordHash, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) DeleteUser(ctx context.Context, email string) error {
	n, err := s.userRepo.DeleteByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return s.conn.Commit(ctx)
}
