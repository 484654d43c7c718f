package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/AlibekovAA/invoice-dashboard/internal/common/constants"
	"github.com/AlibekovAA/invoice-dashboard/internal/common/db"
	"github.com/AlibekovAA/invoice-dashboard/internal/invoice/domain"
)

var ErrInvoiceNotFound = errors.New("invoice not found")

// invalidTextRepresentation is raised when a malformed id reaches a uuid column.
const invalidTextRepresentation = "22P02"

type Repository interface {
	Create(ctx context.Context, invoice domain.Invoice) error
	Update(ctx context.Context, id domain.ID, changes domain.Changes) error
	Delete(ctx context.Context, id domain.ID) error
	FindByID(ctx context.Context, id domain.ID) (domain.Invoice, error)
	Search(ctx context.Context, query string, limit, offset int) ([]domain.Summary, error)
	Count(ctx context.Context, query string) (int, error)
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Create(ctx context.Context, invoice domain.Invoice) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DBQueryTimeout)
	defer cancel()

	start := time.Now()
	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO invoices (id, customer_id, amount, status, date) VALUES ($1, $2, $3, $4, $5::date)`,
		string(invoice.ID),
		invoice.CustomerID,
		invoice.Amount,
		string(invoice.Status),
		invoice.Date,
	)
	return db.HandleExecError(err, "create invoice", start)
}

// Update sets customer, amount and status only. A missing id updates zero rows
// and is not reported as an error.
func (r *PgRepository) Update(ctx context.Context, id domain.ID, changes domain.Changes) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DBQueryTimeout)
	defer cancel()

	start := time.Now()
	_, err := r.pool.Exec(
		ctx,
		`UPDATE invoices SET customer_id = $1, amount = $2, status = $3 WHERE id = $4`,
		changes.CustomerID,
		changes.Amount,
		string(changes.Status),
		string(id),
	)
	return db.HandleExecError(err, "update invoice", start)
}

func (r *PgRepository) Delete(ctx context.Context, id domain.ID) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DBQueryTimeout)
	defer cancel()

	start := time.Now()
	_, err := r.pool.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, string(id))
	return db.HandleExecError(err, "delete invoice", start)
}

func (r *PgRepository) FindByID(ctx context.Context, id domain.ID) (domain.Invoice, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DBQueryTimeout)
	defer cancel()

	start := time.Now()
	row := r.pool.QueryRow(
		ctx,
		`SELECT id::text, customer_id::text, amount, status, date::text FROM invoices WHERE id = $1`,
		string(id),
	)

	var (
		invoice domain.Invoice
		status  string
	)
	err := row.Scan(&invoice.ID, &invoice.CustomerID, &invoice.Amount, &status, &invoice.Date)
	if isInvalidID(err) {
		db.MeasureQueryDuration("find invoice by id", start)
		return domain.Invoice{}, ErrInvoiceNotFound
	}
	if err := db.HandleQueryError(err, ErrInvoiceNotFound, "find invoice by id", start); err != nil {
		return domain.Invoice{}, err
	}

	invoice.Status = domain.Status(status)
	return invoice, nil
}

const searchFilter = `
	customers.name ILIKE $1 ESCAPE '\' OR
	customers.email ILIKE $1 ESCAPE '\' OR
	invoices.amount::text ILIKE $1 ESCAPE '\' OR
	invoices.date::text ILIKE $1 ESCAPE '\' OR
	invoices.status ILIKE $1 ESCAPE '\'`

// Search matches query as a substring of customer name or email, amount, date
// or status, newest first.
func (r *PgRepository) Search(ctx context.Context, query string, limit, offset int) ([]domain.Summary, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DBQueryTimeout)
	defer cancel()

	start := time.Now()
	rows, err := r.pool.Query(
		ctx,
		`SELECT invoices.id::text, invoices.customer_id::text, invoices.amount, invoices.status,
			invoices.date::text, customers.name, customers.email, customers.image_url
		FROM invoices
		JOIN customers ON invoices.customer_id = customers.id
		WHERE`+searchFilter+`
		ORDER BY invoices.date DESC, invoices.id
		LIMIT $2 OFFSET $3`,
		likePattern(query),
		limit,
		offset,
	)
	if err != nil {
		return nil, db.HandleExecError(err, "search invoices", start)
	}
	defer rows.Close()

	var summaries []domain.Summary
	for rows.Next() {
		var (
			s      domain.Summary
			status string
		)
		if err := rows.Scan(
			&s.ID,
			&s.CustomerID,
			&s.Amount,
			&status,
			&s.Date,
			&s.CustomerName,
			&s.CustomerEmail,
			&s.CustomerImageURL,
		); err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		s.Status = domain.Status(status)
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, db.HandleExecError(err, "search invoices", start)
	}

	db.MeasureQueryDuration("search invoices", start)
	return summaries, nil
}

func (r *PgRepository) Count(ctx context.Context, query string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DBQueryTimeout)
	defer cancel()

	start := time.Now()
	var count int
	err := r.pool.QueryRow(
		ctx,
		`SELECT COUNT(*)
		FROM invoices
		JOIN customers ON invoices.customer_id = customers.id
		WHERE`+searchFilter,
		likePattern(query),
	).Scan(&count)
	if err := db.HandleExecError(err, "count invoices", start); err != nil {
		return 0, err
	}
	return count, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern matches query literally as a substring.
func likePattern(query string) string {
	return "%" + likeEscaper.Replace(query) + "%"
}

func isInvalidID(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == invalidTextRepresentation
}
