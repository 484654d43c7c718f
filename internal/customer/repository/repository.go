package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/AlibekovAA/invoice-dashboard/internal/common/constants"
	"github.com/AlibekovAA/invoice-dashboard/internal/common/db"
	"github.com/AlibekovAA/invoice-dashboard/internal/customer/domain"
)

type Repository interface {
	List(ctx context.Context) ([]domain.Customer, error)
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// List returns every customer ordered by name, for the invoice form select.
func (r *PgRepository) List(ctx context.Context) ([]domain.Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DBQueryTimeout)
	defer cancel()

	start := time.Now()
	rows, err := r.pool.Query(
		ctx,
		`SELECT id::text, name, email, image_url FROM customers ORDER BY name ASC`,
	)
	if err != nil {
		return nil, db.HandleExecError(err, "list customers", start)
	}
	defer rows.Close()

	var customers []domain.Customer
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.ImageURL); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, c)
	}

	if err := rows.Err(); err != nil {
		return nil, db.HandleExecError(err, "list customers", start)
	}

	db.MeasureQueryDuration("list customers", start)
	return customers, nil
}
