package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"toy-store/models"
)

type CustomerRepository struct {
	db *pgxpool.Pool
}

func NewCustomerRepository(db *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	query := `
		INSERT INTO customers (id, email, password, first_name, last_name, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`
	now := time.Now()
	return r.db.QueryRow(
		ctx,
		query,
		customer.ID,
		customer.Email,
		customer.Password,
		customer.FirstName,
		customer.LastName,
		customer.Phone,
		now,
		now,
	).Scan(&customer.CreatedAt, &customer.UpdatedAt)
}

func (r *CustomerRepository) FindByEmail(ctx context.Context, email string) (*models.Customer, error) {
	query := `SELECT id, email, password, first_name, last_name, phone, created_at, updated_at
	          FROM customers WHERE LOWER(email) = LOWER($1)`

	customer := &models.Customer{}
	err := r.db.QueryRow(ctx, query, email).Scan(
		&customer.ID,
		&customer.Email,
		&customer.Password,
		&customer.FirstName,
		&customer.LastName,
		&customer.Phone,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	return customer, nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, id string) (*models.Customer, error) {
	query := `SELECT id, email, password, first_name, last_name, phone, created_at, updated_at
	          FROM customers WHERE id = $1`

	customer := &models.Customer{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&customer.ID,
		&customer.Email,
		&customer.Password,
		&customer.FirstName,
		&customer.LastName,
		&customer.Phone,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	return customer, nil
}
