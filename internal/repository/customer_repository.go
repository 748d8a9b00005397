package repository

import (
	"context"
	"database/sql"

	"github.com/spec-kit/escalation-service/internal/domain"
)

// CustomerRepository encapsulates customer persistence.
type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, id int64) (*domain.Customer, error)
	GetByPhone(ctx context.Context, phone string) (*domain.Customer, error)
}

type customerRepository struct {
	db *sql.DB
}

// NewCustomerRepository instantiates repository.
func NewCustomerRepository(db *sql.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	const query = `
        INSERT INTO customers (name, phone)
        VALUES (?, ?)
        RETURNING id, created_at`
	var createdAtSec int64
	if err := r.db.QueryRowContext(ctx, query, customer.Name, customer.Phone).
		Scan(&customer.ID, &createdAtSec); err != nil {
		return err
	}
	customer.CreatedAt = createdAtSec * 1000
	return nil
}

func (r *customerRepository) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	const query = `SELECT id, name, phone, created_at FROM customers WHERE id = ?`
	return r.fetchSingle(ctx, query, id)
}

func (r *customerRepository) GetByPhone(ctx context.Context, phone string) (*domain.Customer, error) {
	const query = `SELECT id, name, phone, created_at FROM customers WHERE phone = ?`
	return r.fetchSingle(ctx, query, phone)
}

func (r *customerRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Customer, error) {
	var customer domain.Customer
	var createdAtSec int64
	if err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&customer.ID,
		&customer.Name,
		&customer.Phone,
		&createdAtSec,
	); err != nil {
		return nil, err
	}
	customer.CreatedAt = createdAtSec * 1000
	return &customer, nil
}
