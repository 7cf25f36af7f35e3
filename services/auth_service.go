package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"toy-store/models"
	"toy-store/repositories"
	"toy-store/utils"
)

type AuthService struct {
	customers CustomerRepository
	secret    string
	expiry    time.Duration
}

func NewAuthService(customers CustomerRepository, secret string, expiry time.Duration) *AuthService {
	return &AuthService{customers: customers, secret: secret, expiry: expiry}
}

func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	existing, err := s.customers.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	customer := &models.Customer{
		ID:        "cus_" + uuid.NewString(),
		Email:     email,
		Password:  hashedPassword,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, err
	}

	return s.issue(customer)
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	customer, err := s.customers.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	valid, err := utils.VerifyPassword(customer.Password, req.Password)
	if err != nil || !valid {
		return nil, ErrInvalidCredentials
	}

	return s.issue(customer)
}

func (s *AuthService) issue(customer *models.Customer) (*models.LoginResponse, error) {
	token, err := utils.GenerateToken(s.secret, s.expiry, customer.ID, customer.Email)
	if err != nil {
		return nil, err
	}
	return &models.LoginResponse{Token: token, Customer: *customer}, nil
}

func (s *AuthService) GetProfile(ctx context.Context, customerID string) (*models.Customer, error) {
	customer, err := s.customers.FindByID(ctx, customerID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrNotFound
	}
	return customer, err
}
