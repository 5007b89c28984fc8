package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jwpconsulting/projectify/internal/domain"
)

// CustomerRepository implements domain.CustomerRepository
type CustomerRepository struct {
	q Querier
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(q Querier) *CustomerRepository {
	return &CustomerRepository{q: q}
}

func (r *CustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	query := `
		INSERT INTO customers (id, workspace_id, subscription_status, seats, stripe_customer_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.q.Exec(ctx, query,
		customer.ID,
		customer.WorkspaceID,
		customer.SubscriptionStatus,
		customer.Seats,
		customer.StripeCustomerID,
		customer.CreatedAt,
		customer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

func (r *CustomerRepository) GetByWorkspace(ctx context.Context, workspaceID uuid.UUID) (*domain.Customer, error) {
	query := `
		SELECT id, workspace_id, subscription_status, seats, stripe_customer_id, created_at, updated_at
		FROM customers
		WHERE workspace_id = $1
	`
	var c domain.Customer
	err := r.q.QueryRow(ctx, query, workspaceID).Scan(
		&c.ID,
		&c.WorkspaceID,
		&c.SubscriptionStatus,
		&c.Seats,
		&c.StripeCustomerID,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return &c, nil
}

func (r *CustomerRepository) Update(ctx context.Context, workspaceID uuid.UUID, update *domain.CustomerUpdate) error {
	query := `
		UPDATE customers
		SET subscription_status = COALESCE($2, subscription_status),
		    seats = COALESCE($3, seats),
		    stripe_customer_id = COALESCE($4, stripe_customer_id),
		    updated_at = NOW()
		WHERE workspace_id = $1
	`
	_, err := r.q.Exec(ctx, query, workspaceID,
		update.SubscriptionStatus,
		update.Seats,
		update.StripeCustomerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}
	return nil
}
