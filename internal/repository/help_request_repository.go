package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/spec-kit/escalation-service/internal/domain"
)

// ErrDanglingCustomer signals a help request whose customer_id resolves to no
// customer row. The service layer surfaces it as an integrity fault.
var ErrDanglingCustomer = errors.New("help request references missing customer")

// HelpRequestRepository encapsulates help request persistence.
type HelpRequestRepository interface {
	Create(ctx context.Context, request *domain.HelpRequest) error
	GetByID(ctx context.Context, id int64) (*domain.HelpRequest, error)
	GetWithCustomer(ctx context.Context, id int64) (*domain.HelpRequestWithCustomer, error)
	ListWithCustomer(ctx context.Context) ([]domain.HelpRequestWithCustomer, error)
	// ClaimForProcessing transitions id from `from` to `to` only when the
	// current status is exactly `from`. Returns false when no row matched.
	ClaimForProcessing(ctx context.Context, id int64, from, to domain.RequestStatus) (bool, error)
	// Resolve sets the answer, status `resolved` and resolved_at atomically,
	// returning the updated row or sql.ErrNoRows.
	Resolve(ctx context.Context, id int64, answer string) (*domain.HelpRequest, error)
}

type helpRequestRepository struct {
	db *sql.DB
}

// NewHelpRequestRepository instantiates repository.
func NewHelpRequestRepository(db *sql.DB) HelpRequestRepository {
	return &helpRequestRepository{db: db}
}

func (r *helpRequestRepository) Create(ctx context.Context, request *domain.HelpRequest) error {
	const query = `
        INSERT INTO help_requests (customer_id, question, status, answer)
        VALUES (?, ?, ?, ?)
        RETURNING id, status, created_at`
	var createdAtSec int64
	if err := r.db.QueryRowContext(ctx, query,
		request.CustomerID,
		request.Question,
		request.Status,
		request.Answer,
	).Scan(&request.ID, &request.Status, &createdAtSec); err != nil {
		return err
	}
	request.CreatedAt = createdAtSec * 1000
	return nil
}

func (r *helpRequestRepository) GetByID(ctx context.Context, id int64) (*domain.HelpRequest, error) {
	const query = `
        SELECT id, customer_id, question, status, answer, created_at, resolved_at
        FROM help_requests WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return scanHelpRequest(row)
}

func (r *helpRequestRepository) GetWithCustomer(ctx context.Context, id int64) (*domain.HelpRequestWithCustomer, error) {
	const query = `
        SELECT hr.id, hr.customer_id, hr.question, hr.status, hr.answer, hr.created_at, hr.resolved_at,
               c.id, c.name, c.phone, c.created_at
        FROM help_requests hr
        LEFT JOIN customers c ON hr.customer_id = c.id
        WHERE hr.id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return scanHelpRequestWithCustomer(row)
}

func (r *helpRequestRepository) ListWithCustomer(ctx context.Context) ([]domain.HelpRequestWithCustomer, error) {
	const query = `
        SELECT hr.id, hr.customer_id, hr.question, hr.status, hr.answer, hr.created_at, hr.resolved_at,
               c.id, c.name, c.phone, c.created_at
        FROM help_requests hr
        LEFT JOIN customers c ON hr.customer_id = c.id
        ORDER BY hr.created_at DESC, hr.id DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]domain.HelpRequestWithCustomer, 0)
	for rows.Next() {
		joined, err := scanHelpRequestWithCustomer(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *joined)
	}
	return result, rows.Err()
}

func (r *helpRequestRepository) ClaimForProcessing(ctx context.Context, id int64, from, to domain.RequestStatus) (bool, error) {
	const query = `UPDATE help_requests SET status = ? WHERE id = ? AND status = ?`
	res, err := r.db.ExecContext(ctx, query, to, id, from)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (r *helpRequestRepository) Resolve(ctx context.Context, id int64, answer string) (*domain.HelpRequest, error) {
	const query = `
        UPDATE help_requests
        SET answer = ?, status = 'resolved', resolved_at = unixepoch()
        WHERE id = ?
        RETURNING id, customer_id, question, status, answer, created_at, resolved_at`
	row := r.db.QueryRowContext(ctx, query, answer, id)
	return scanHelpRequest(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHelpRequest(row rowScanner) (*domain.HelpRequest, error) {
	var request domain.HelpRequest
	var answer sql.NullString
	var createdAtSec int64
	var resolvedAtSec sql.NullInt64
	if err := row.Scan(
		&request.ID,
		&request.CustomerID,
		&request.Question,
		&request.Status,
		&answer,
		&createdAtSec,
		&resolvedAtSec,
	); err != nil {
		return nil, err
	}
	applyHelpRequestTimes(&request, answer, createdAtSec, resolvedAtSec)
	return &request, nil
}

func scanHelpRequestWithCustomer(row rowScanner) (*domain.HelpRequestWithCustomer, error) {
	var joined domain.HelpRequestWithCustomer
	var answer sql.NullString
	var createdAtSec int64
	var resolvedAtSec sql.NullInt64
	var customerID sql.NullInt64
	var customerName, customerPhone sql.NullString
	var customerCreatedSec sql.NullInt64
	if err := row.Scan(
		&joined.ID,
		&joined.CustomerID,
		&joined.Question,
		&joined.Status,
		&answer,
		&createdAtSec,
		&resolvedAtSec,
		&customerID,
		&customerName,
		&customerPhone,
		&customerCreatedSec,
	); err != nil {
		return nil, err
	}
	if !customerID.Valid {
		return nil, ErrDanglingCustomer
	}
	applyHelpRequestTimes(&joined.HelpRequest, answer, createdAtSec, resolvedAtSec)
	joined.Customer = domain.Customer{
		ID:        customerID.Int64,
		Name:      customerName.String,
		Phone:     customerPhone.String,
		CreatedAt: customerCreatedSec.Int64 * 1000,
	}
	return &joined, nil
}

func applyHelpRequestTimes(request *domain.HelpRequest, answer sql.NullString, createdAtSec int64, resolvedAtSec sql.NullInt64) {
	if answer.Valid {
		request.Answer = &answer.String
	}
	request.CreatedAt = createdAtSec * 1000
	if resolvedAtSec.Valid {
		resolvedMs := resolvedAtSec.Int64 * 1000
		request.ResolvedAt = &resolvedMs
	}
}
