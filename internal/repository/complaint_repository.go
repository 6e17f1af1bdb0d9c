package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// ComplaintRepository encapsulates complaint persistence. Every mutating
// method is a single statement.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *domain.Complaint) error
	GetByID(ctx context.Context, id string) (*domain.Complaint, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Complaint, error)
	ListAll(ctx context.Context) ([]domain.Complaint, error)
	UpdateContent(ctx context.Context, id, ownerID, title, description string) (*domain.Complaint, error)
	Delete(ctx context.Context, id, ownerID string) error
	MarkInProgress(ctx context.Context, id string) (*domain.Complaint, domain.ComplaintStatus, error)
	Resolve(ctx context.Context, id string, note *string, resolvedAt time.Time) (*domain.Complaint, domain.ComplaintStatus, error)
	Summarize(ctx context.Context, ownerID *string) (domain.ComplaintSummary, error)
}

type complaintRepository struct {
	pool *pgxpool.Pool
}

// NewComplaintRepository instantiates repository.
func NewComplaintRepository(pool *pgxpool.Pool) ComplaintRepository {
	return &complaintRepository{pool: pool}
}

const complaintColumns = `id, owner_id, title, description, status, created_at, resolved_at, resolve_note`

func (r *complaintRepository) Create(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        INSERT INTO complaints (owner_id, title, description, status)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at`
	if err := r.pool.QueryRow(ctx, query,
		complaint.OwnerID,
		complaint.Title,
		complaint.Description,
		complaint.Status,
	).Scan(&complaint.ID, &complaint.CreatedAt); err != nil {
		return fmt.Errorf("create complaint: %w", err)
	}
	return nil
}

func (r *complaintRepository) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	const query = `SELECT ` + complaintColumns + ` FROM complaints WHERE id=$1`
	complaint, err := scanComplaint(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFoundOr(err, "get complaint")
	}
	return complaint, nil
}

func (r *complaintRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Complaint, error) {
	const query = `SELECT ` + complaintColumns + `
        FROM complaints WHERE owner_id=$1
        ORDER BY created_at DESC, id`
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list complaints by owner: %w", err)
	}
	defer rows.Close()
	return scanComplaints(rows)
}

// ListAll keeps actionable complaints ahead of resolved ones.
func (r *complaintRepository) ListAll(ctx context.Context) ([]domain.Complaint, error) {
	const query = `SELECT ` + complaintColumns + `
        FROM complaints
        ORDER BY (status = 'RESOLVED') ASC, created_at DESC, id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list complaints: %w", err)
	}
	defer rows.Close()
	return scanComplaints(rows)
}

func (r *complaintRepository) UpdateContent(ctx context.Context, id, ownerID, title, description string) (*domain.Complaint, error) {
	const query = `
        UPDATE complaints SET title=$3, description=$4
        WHERE id=$1 AND owner_id=$2
        RETURNING ` + complaintColumns
	complaint, err := scanComplaint(r.pool.QueryRow(ctx, query, id, ownerID, title, description))
	if err != nil {
		return nil, notFoundOr(err, "update complaint")
	}
	return complaint, nil
}

func (r *complaintRepository) Delete(ctx context.Context, id, ownerID string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM complaints WHERE id=$1 AND owner_id=$2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete complaint: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkInProgress moves the complaint to IN_PROGRESS from any status and
// returns the status it had before. Resolution fields are cleared with it.
func (r *complaintRepository) MarkInProgress(ctx context.Context, id string) (*domain.Complaint, domain.ComplaintStatus, error) {
	const query = `
        UPDATE complaints c SET status='IN_PROGRESS', resolved_at=NULL, resolve_note=NULL
        FROM (SELECT id, status FROM complaints WHERE id=$1 FOR UPDATE) prev
        WHERE c.id = prev.id
        RETURNING prev.status, c.id, c.owner_id, c.title, c.description, c.status, c.created_at, c.resolved_at, c.resolve_note`
	return r.transition(ctx, query, id)
}

// Resolve writes status, note, and timestamp in one statement.
func (r *complaintRepository) Resolve(ctx context.Context, id string, note *string, resolvedAt time.Time) (*domain.Complaint, domain.ComplaintStatus, error) {
	const query = `
        UPDATE complaints c SET status='RESOLVED', resolve_note=$2, resolved_at=$3
        FROM (SELECT id, status FROM complaints WHERE id=$1 FOR UPDATE) prev
        WHERE c.id = prev.id
        RETURNING prev.status, c.id, c.owner_id, c.title, c.description, c.status, c.created_at, c.resolved_at, c.resolve_note`
	return r.transition(ctx, query, id, note, resolvedAt)
}

func (r *complaintRepository) transition(ctx context.Context, query string, args ...any) (*domain.Complaint, domain.ComplaintStatus, error) {
	var (
		previous  domain.ComplaintStatus
		complaint domain.Complaint
	)
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&previous,
		&complaint.ID,
		&complaint.OwnerID,
		&complaint.Title,
		&complaint.Description,
		&complaint.Status,
		&complaint.CreatedAt,
		&complaint.ResolvedAt,
		&complaint.ResolveNote,
	); err != nil {
		return nil, "", notFoundOr(err, "transition complaint")
	}
	return &complaint, previous, nil
}

// Summarize counts complaints per status, across all owners when ownerID is nil.
func (r *complaintRepository) Summarize(ctx context.Context, ownerID *string) (domain.ComplaintSummary, error) {
	const query = `
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE status='PENDING'),
               COUNT(*) FILTER (WHERE status='IN_PROGRESS'),
               COUNT(*) FILTER (WHERE status='RESOLVED')
        FROM complaints
        WHERE $1::uuid IS NULL OR owner_id=$1::uuid`
	var summary domain.ComplaintSummary
	if err := r.pool.QueryRow(ctx, query, ownerID).Scan(
		&summary.Total,
		&summary.Pending,
		&summary.InProgress,
		&summary.Resolved,
	); err != nil {
		return domain.ComplaintSummary{}, fmt.Errorf("summarize complaints: %w", err)
	}
	return summary, nil
}

func notFoundOr(err error, op string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

func scanComplaint(row pgx.Row) (*domain.Complaint, error) {
	var complaint domain.Complaint
	if err := row.Scan(
		&complaint.ID,
		&complaint.OwnerID,
		&complaint.Title,
		&complaint.Description,
		&complaint.Status,
		&complaint.CreatedAt,
		&complaint.ResolvedAt,
		&complaint.ResolveNote,
	); err != nil {
		return nil, err
	}
	return &complaint, nil
}

func scanComplaints(rows pgx.Rows) ([]domain.Complaint, error) {
	result := []domain.Complaint{}
	for rows.Next() {
		complaint, err := scanComplaint(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *complaint)
	}
	return result, rows.Err()
}
