package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/blogem/household-budget/apperr"
	"github.com/blogem/household-budget/database"
	"github.com/blogem/household-budget/models"
	"github.com/blogem/household-budget/repositories"
)

// TrackChangesParams describes one audit-tracking request. The
// transaction is supplied by the caller; tracking never opens its own,
// so a failed mutation rolls back its audit rows with it.
type TrackChangesParams struct {
	AuditApiCallUUID string
	NewRecords       []models.Record
	ChangedRecords   []models.Record
	DeletedRecords   []models.Record
	Tx               *database.Tx
}

// AuditService records attribute-level diffs for every mutation. All
// domain services delegate here from inside their transaction.
type AuditService interface {
	TrackChanges(ctx context.Context, params TrackChangesParams) error
}

type auditService struct {
	repos  *repositories.Repositories
	logger *logrus.Logger
}

// NewAuditService creates a new audit service
func NewAuditService(repos *repositories.Repositories, logger *logrus.Logger) AuditService {
	return &auditService{repos: repos, logger: logger}
}

// TrackChanges resolves the single audit log for the API call (created
// on first use, reused on later calls within the same request) and
// writes one change row per changed attribute. New records report every
// audited column with a null old value; changed records report only
// columns differing from their last persisted value; deleted records
// are soft-deleted here and report a single deleted_at change.
func (s *auditService) TrackChanges(ctx context.Context, params TrackChangesParams) error {
	if params.Tx == nil {
		return apperr.Audit("Transaction is required")
	}

	apiCall, err := s.repos.Audit.GetApiCall(ctx, params.AuditApiCallUUID)
	if err != nil {
		return err
	}
	if apiCall == nil || apiCall.UserUUID == nil {
		return apperr.Audit("Missing audit API call")
	}

	auditLog, err := s.repos.Audit.GetOrCreateLog(ctx, params.Tx, apiCall.UUID)
	if err != nil {
		return err
	}

	for _, record := range params.NewRecords {
		if err := s.trackNewRecord(ctx, params.Tx, auditLog, record); err != nil {
			return err
		}
	}
	for _, record := range params.ChangedRecords {
		if err := s.trackRecordUpdate(ctx, params.Tx, auditLog, record); err != nil {
			return err
		}
	}
	for _, record := range params.DeletedRecords {
		if err := s.trackRecordDestroy(ctx, params.Tx, auditLog, record); err != nil {
			return err
		}
	}

	return nil
}

// trackNewRecord writes one change row per audited column, old value
// null.
func (s *auditService) trackNewRecord(ctx context.Context, tx *database.Tx, auditLog *models.AuditLog, record models.Record) error {
	if auditLog == nil {
		return apperr.Audit("Audit log is required")
	}
	if record == nil {
		return apperr.Audit("Instance is required")
	}
	if tx == nil {
		return apperr.Audit("Transaction is required")
	}

	for _, column := range record.AuditColumns() {
		change := &models.AuditChange{
			AuditLogUUID: auditLog.UUID,
			TableName:    record.TableName(),
			Key:          record.PrimaryKeyValue(),
			Attribute:    column,
			OldValue:     models.NullValue(),
			NewValue:     record.AuditValue(column),
		}
		if err := s.repos.Audit.CreateChange(ctx, tx, change); err != nil {
			return err
		}
	}

	return nil
}

// trackRecordUpdate writes one change row per column whose current
// value differs from the last persisted value.
func (s *auditService) trackRecordUpdate(ctx context.Context, tx *database.Tx, auditLog *models.AuditLog, record models.Record) error {
	if auditLog == nil {
		return apperr.Audit("Audit log is required")
	}
	if record == nil {
		return apperr.Audit("Instance is required")
	}
	if tx == nil {
		return apperr.Audit("Transaction is required")
	}

	for _, column := range models.ChangedColumns(record) {
		change := &models.AuditChange{
			AuditLogUUID: auditLog.UUID,
			TableName:    record.TableName(),
			Key:          record.PrimaryKeyValue(),
			Attribute:    column,
			OldValue:     models.LoadedValue(record, column),
			NewValue:     record.AuditValue(column),
		}
		if err := s.repos.Audit.CreateChange(ctx, tx, change); err != nil {
			return err
		}
	}

	return nil
}

// trackRecordDestroy soft-deletes a paranoid record and writes a single
// change row for deleted_at. Non-paranoid records are skipped: deleting
// them is the caller's job and produces no audit row.
func (s *auditService) trackRecordDestroy(ctx context.Context, tx *database.Tx, auditLog *models.AuditLog, record models.Record) error {
	if auditLog == nil {
		return apperr.Audit("Audit log is required")
	}
	if record == nil {
		return apperr.Audit("Instance is required")
	}
	if tx == nil {
		return apperr.Audit("Transaction is required")
	}

	if !record.Paranoid() {
		s.logger.WithField("table", record.TableName()).Warn("skipping destroy tracking for non-paranoid model")
		return nil
	}

	soft, ok := record.(models.SoftDeletable)
	if !ok {
		return apperr.Audit("Instance is not soft-deletable")
	}

	oldValue := soft.DeletedValue()
	deletedAt := time.Now().UTC()

	if err := s.repos.Audit.SoftDelete(ctx, tx, soft, deletedAt); err != nil {
		return err
	}
	soft.MarkDeleted(deletedAt)

	change := &models.AuditChange{
		AuditLogUUID: auditLog.UUID,
		TableName:    record.TableName(),
		Key:          record.PrimaryKeyValue(),
		Attribute:    "deleted_at",
		OldValue:     oldValue,
		NewValue:     models.TimeValue(deletedAt),
	}
	return s.repos.Audit.CreateChange(ctx, tx, change)
}
