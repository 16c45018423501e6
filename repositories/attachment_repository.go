package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/blogem/household-budget/database"
	"github.com/blogem/household-budget/models"
)

// AttachmentRepository interface defines attachment database operations.
// Attachments are created by the upload pipeline, which lives outside
// this service; here they can only be renamed and deleted.
type AttachmentRepository interface {
	GetByUUID(ctx context.Context, attachmentUUID, householdUUID string) (*models.Attachment, error)
	Update(ctx context.Context, tx *database.Tx, attachment *models.Attachment) error
}

type attachmentRepository struct {
	db *database.DB
}

// NewAttachmentRepository creates a new attachment repository
func NewAttachmentRepository(db *database.DB) AttachmentRepository {
	return &attachmentRepository{db: db}
}

// GetByUUID loads an attachment whose linked expense resolves to the
// household, nil when absent. Ownership is transitive: attachment →
// expense → subcategory → category → household.
func (r *attachmentRepository) GetByUUID(ctx context.Context, attachmentUUID, householdUUID string) (*models.Attachment, error) {
	query := `
		SELECT a.uuid, a.entity_type, a.entity_uuid, a.name, a.aws_bucket, a.aws_key, a.created_at, a.updated_at
		FROM attachments a
		JOIN expenses e ON e.uuid = a.entity_uuid AND e.deleted_at IS NULL
		JOIN subcategories s ON s.uuid = e.subcategory_uuid AND s.deleted_at IS NULL
		JOIN categories c ON c.uuid = s.category_uuid AND c.deleted_at IS NULL
		WHERE a.uuid = ? AND a.entity_type = 'expense' AND c.household_uuid = ? AND a.deleted_at IS NULL
	`

	var attachment models.Attachment
	var awsBucket, awsKey sql.NullString

	err := r.db.QueryRowContext(ctx, query, attachmentUUID, householdUUID).Scan(
		&attachment.UUID,
		&attachment.EntityType,
		&attachment.EntityUUID,
		&attachment.Name,
		&awsBucket,
		&awsKey,
		&attachment.CreatedAt,
		&attachment.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get attachment: %w", err)
	}

	if awsBucket.Valid {
		attachment.AwsBucket = &awsBucket.String
	}
	if awsKey.Valid {
		attachment.AwsKey = &awsKey.String
	}

	models.MarkLoaded(&attachment)
	return &attachment, nil
}

// Update persists the attachment's audited columns.
func (r *attachmentRepository) Update(ctx context.Context, tx *database.Tx, attachment *models.Attachment) error {
	attachment.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE attachments
		SET name = ?, updated_at = ?
		WHERE uuid = ? AND deleted_at IS NULL
	`

	result, err := tx.ExecContext(ctx, query, attachment.Name, attachment.UpdatedAt, attachment.UUID)
	if err != nil {
		return fmt.Errorf("failed to update attachment: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("attachment %s not found", attachment.UUID)
	}
	return nil
}
