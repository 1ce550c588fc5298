package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"complaintdesk/internal/models"
)

type AttachmentRepository struct {
	pool *pgxpool.Pool
}

func NewAttachmentRepository(pool *pgxpool.Pool) *AttachmentRepository {
	return &AttachmentRepository{pool: pool}
}

func (r *AttachmentRepository) Create(ctx context.Context, attachment models.Attachment) error {
	const query = `
		INSERT INTO attachments (
			id, complaint_id, object_key, file_name, content_type, size_bytes, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		attachment.ID,
		attachment.ComplaintID,
		attachment.ObjectKey,
		attachment.FileName,
		attachment.ContentType,
		attachment.SizeBytes,
	)
	return err
}

func (r *AttachmentRepository) ListByComplaint(ctx context.Context, complaintID string) ([]models.Attachment, error) {
	const query = `
		SELECT id, complaint_id, object_key, file_name, content_type, size_bytes, created_at
		FROM attachments WHERE complaint_id = $1
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, complaintID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attachments []models.Attachment
	for rows.Next() {
		var a models.Attachment
		if err := rows.Scan(
			&a.ID,
			&a.ComplaintID,
			&a.ObjectKey,
			&a.FileName,
			&a.ContentType,
			&a.SizeBytes,
			&a.CreatedAt,
		); err != nil {
			return nil, err
		}
		attachments = append(attachments, a)
	}
	return attachments, rows.Err()
}
