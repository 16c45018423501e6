package services

import (
	"context"

	"github.com/blogem/household-budget/apperr"
	"github.com/blogem/household-budget/database"
	"github.com/blogem/household-budget/models"
	"github.com/blogem/household-budget/repositories"
)

// UpdateAttachmentParams carries an attachment rename.
type UpdateAttachmentParams struct {
	AuditApiCallUUID string
	AttachmentUUID   string
	Name             *string
}

// AttachmentService handles attachment business logic. Uploads happen
// elsewhere; attachments can only be renamed and deleted here, with
// ownership resolved through the linked expense.
type AttachmentService interface {
	UpdateAttachment(ctx context.Context, params UpdateAttachmentParams) (*models.Attachment, error)
	DeleteAttachment(ctx context.Context, auditApiCallUUID, attachmentUUID string) error
}

type attachmentService struct {
	db    *database.DB
	repos *repositories.Repositories
	audit AuditService
}

// NewAttachmentService creates a new attachment service
func NewAttachmentService(db *database.DB, repos *repositories.Repositories, audit AuditService) AttachmentService {
	return &attachmentService{db: db, repos: repos, audit: audit}
}

// UpdateAttachment renames an attachment. A no-op update opens no
// transaction.
func (s *attachmentService) UpdateAttachment(ctx context.Context, params UpdateAttachmentParams) (*models.Attachment, error) {
	if params.Name != nil && *params.Name == "" {
		return nil, apperr.Validation("Name is required")
	}

	user, err := resolveAuditUser(ctx, s.repos, params.AuditApiCallUUID)
	if err != nil {
		return nil, err
	}

	attachment, err := s.repos.Attachment.GetByUUID(ctx, params.AttachmentUUID, user.HouseholdUUID)
	if err != nil {
		return nil, err
	}
	if attachment == nil {
		return nil, apperr.NotFound("Attachment not found")
	}

	if params.Name != nil {
		attachment.Name = *params.Name
	}

	if len(models.ChangedColumns(attachment)) == 0 {
		return attachment, nil
	}

	err = s.db.WithTransaction(ctx, func(tx *database.Tx) error {
		if err := s.repos.Attachment.Update(ctx, tx, attachment); err != nil {
			return err
		}
		return s.audit.TrackChanges(ctx, TrackChangesParams{
			AuditApiCallUUID: params.AuditApiCallUUID,
			ChangedRecords:   []models.Record{attachment},
			Tx:               tx,
		})
	})
	if err != nil {
		return nil, err
	}

	models.MarkLoaded(attachment)
	return attachment, nil
}

// DeleteAttachment soft-deletes an attachment.
func (s *attachmentService) DeleteAttachment(ctx context.Context, auditApiCallUUID, attachmentUUID string) error {
	user, err := resolveAuditUser(ctx, s.repos, auditApiCallUUID)
	if err != nil {
		return err
	}

	attachment, err := s.repos.Attachment.GetByUUID(ctx, attachmentUUID, user.HouseholdUUID)
	if err != nil {
		return err
	}
	if attachment == nil {
		return apperr.NotFound("Attachment not found")
	}

	return s.db.WithTransaction(ctx, func(tx *database.Tx) error {
		return s.audit.TrackChanges(ctx, TrackChangesParams{
			AuditApiCallUUID: auditApiCallUUID,
			DeletedRecords:   []models.Record{attachment},
			Tx:               tx,
		})
	})
}
