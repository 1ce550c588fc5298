package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"complaintdesk/internal/models"
)

var ErrComplaintNotFound = errors.New("complaint not found")

type ComplaintFilters struct {
	Status   models.ComplaintStatus
	Priority models.ComplaintPriority
	UserID   string
}

type ComplaintRepository struct {
	pool *pgxpool.Pool
}

func NewComplaintRepository(pool *pgxpool.Pool) *ComplaintRepository {
	return &ComplaintRepository{pool: pool}
}

func (r *ComplaintRepository) Create(ctx context.Context, complaint models.Complaint) error {
	const query = `
		INSERT INTO complaints (
			id, user_id, title, description, category, priority, status, submitted_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		complaint.ID,
		complaint.UserID,
		complaint.Title,
		complaint.Description,
		complaint.Category,
		complaint.Priority,
		complaint.Status,
		complaint.SubmittedAt,
	)
	return err
}

func (r *ComplaintRepository) GetByID(ctx context.Context, id string) (models.Complaint, error) {
	const query = `
		SELECT id, user_id, title, description, category, priority, status, submitted_at, updated_at
		FROM complaints WHERE id = $1
	`

	row := r.pool.QueryRow(ctx, query, id)
	return scanComplaint(row)
}

// List returns complaints newest-first, narrowed by any non-zero filters.
func (r *ComplaintRepository) List(ctx context.Context, filters ComplaintFilters) ([]models.Complaint, error) {
	query := `
		SELECT id, user_id, title, description, category, priority, status, submitted_at, updated_at
		FROM complaints
	`

	var (
		conditions []string
		args       []any
	)
	if filters.Status != "" {
		args = append(args, filters.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filters.Priority != "" {
		args = append(args, filters.Priority)
		conditions = append(conditions, fmt.Sprintf("priority = $%d", len(args)))
	}
	if filters.UserID != "" {
		args = append(args, filters.UserID)
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY submitted_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var complaints []models.Complaint
	for rows.Next() {
		complaint, err := scanComplaint(rows)
		if err != nil {
			return nil, err
		}
		complaints = append(complaints, complaint)
	}
	return complaints, rows.Err()
}

func (r *ComplaintRepository) UpdateStatus(ctx context.Context, id string, status models.ComplaintStatus) error {
	const query = `
		UPDATE complaints SET status = $2, updated_at = NOW() WHERE id = $1
	`

	cmd, err := r.pool.Exec(ctx, query, id, status)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrComplaintNotFound
	}
	return nil
}

func (r *ComplaintRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM complaints WHERE id = $1`

	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrComplaintNotFound
	}
	return nil
}

// CountByStatus feeds the daily digest.
func (r *ComplaintRepository) CountByStatus(ctx context.Context, status models.ComplaintStatus) (int, error) {
	const query = `SELECT COUNT(*) FROM complaints WHERE status = $1`

	row := r.pool.QueryRow(ctx, query, status)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func scanComplaint(row pgx.Row) (models.Complaint, error) {
	var complaint models.Complaint
	if err := row.Scan(
		&complaint.ID,
		&complaint.UserID,
		&complaint.Title,
		&complaint.Description,
		&complaint.Category,
		&complaint.Priority,
		&complaint.Status,
		&complaint.SubmittedAt,
		&complaint.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Complaint{}, ErrComplaintNotFound
		}
		return models.Complaint{}, err
	}
	return complaint, nil
}
