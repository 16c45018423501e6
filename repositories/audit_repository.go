package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/blogem/household-budget/database"
	"github.com/blogem/household-budget/models"
)

// AuditRepository handles the append-only audit tables and the generic
// soft delete used by the change tracker.
type AuditRepository interface {
	CreateApiCall(ctx context.Context, call *models.AuditApiCall) error
	GetApiCall(ctx context.Context, apiCallUUID string) (*models.AuditApiCall, error)
	GetOrCreateLog(ctx context.Context, tx *database.Tx, apiCallUUID string) (*models.AuditLog, error)
	CreateChange(ctx context.Context, tx *database.Tx, change *models.AuditChange) error
	SoftDelete(ctx context.Context, tx *database.Tx, record models.SoftDeletable, deletedAt time.Time) error
	GetChangesForApiCall(ctx context.Context, apiCallUUID string) ([]models.AuditChange, error)
}

type auditRepository struct {
	db *database.DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *database.DB) AuditRepository {
	return &auditRepository{db: db}
}

// CreateApiCall inserts the record of one inbound request. Called by
// the audit middleware before controller logic runs.
func (r *auditRepository) CreateApiCall(ctx context.Context, call *models.AuditApiCall) error {
	if call.UUID == "" {
		call.UUID = uuid.NewString()
	}
	call.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO audit_api_calls (uuid, user_uuid, http_method, route, ip_address, user_agent, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	var userUUID sql.NullString
	if call.UserUUID != nil {
		userUUID = sql.NullString{String: *call.UserUUID, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, query,
		call.UUID,
		userUUID,
		call.HTTPMethod,
		call.Route,
		call.IPAddress,
		call.UserAgent,
		call.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create audit api call: %w", err)
	}
	return nil
}

// GetApiCall returns nil without error when no such call exists.
func (r *auditRepository) GetApiCall(ctx context.Context, apiCallUUID string) (*models.AuditApiCall, error) {
	query := `
		SELECT uuid, user_uuid, http_method, route, ip_address, user_agent, created_at
		FROM audit_api_calls
		WHERE uuid = ?
	`

	var call models.AuditApiCall
	var userUUID sql.NullString

	err := r.db.QueryRowContext(ctx, query, apiCallUUID).Scan(
		&call.UUID,
		&userUUID,
		&call.HTTPMethod,
		&call.Route,
		&call.IPAddress,
		&call.UserAgent,
		&call.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get audit api call: %w", err)
	}

	if userUUID.Valid {
		call.UserUUID = &userUUID.String
	}
	return &call, nil
}

// GetOrCreateLog resolves the single audit log for one API call,
// creating it on first use. Runs inside the caller's transaction so a
// rollback also removes the log.
func (r *auditRepository) GetOrCreateLog(ctx context.Context, tx *database.Tx, apiCallUUID string) (*models.AuditLog, error) {
	query := `
		SELECT uuid, audit_api_call_uuid, created_at
		FROM audit_logs
		WHERE audit_api_call_uuid = ?
	`

	var log models.AuditLog
	err := tx.QueryRowContext(ctx, query, apiCallUUID).Scan(
		&log.UUID,
		&log.AuditApiCallUUID,
		&log.CreatedAt,
	)
	if err == nil {
		return &log, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to get audit log: %w", err)
	}

	log = models.AuditLog{
		UUID:             uuid.NewString(),
		AuditApiCallUUID: apiCallUUID,
		CreatedAt:        time.Now().UTC(),
	}

	insert := `
		INSERT INTO audit_logs (uuid, audit_api_call_uuid, created_at)
		VALUES (?, ?, ?)
	`
	if _, err := tx.ExecContext(ctx, insert, log.UUID, log.AuditApiCallUUID, log.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to create audit log: %w", err)
	}
	return &log, nil
}

// CreateChange appends one attribute-level diff row.
func (r *auditRepository) CreateChange(ctx context.Context, tx *database.Tx, change *models.AuditChange) error {
	if change.UUID == "" {
		change.UUID = uuid.NewString()
	}
	change.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO audit_changes (uuid, audit_log_uuid, table_name, key, attribute, old_value, new_value, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := tx.ExecContext(ctx, query,
		change.UUID,
		change.AuditLogUUID,
		change.TableName,
		change.Key,
		change.Attribute,
		change.OldValue.NullString(),
		change.NewValue.NullString(),
		change.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create audit change: %w", err)
	}
	return nil
}

// SoftDelete marks any paranoid record deleted, keyed by its declared
// primary key column.
func (r *auditRepository) SoftDelete(ctx context.Context, tx *database.Tx, record models.SoftDeletable, deletedAt time.Time) error {
	query := fmt.Sprintf(
		"UPDATE %s SET deleted_at = ?, updated_at = ? WHERE %s = ? AND deleted_at IS NULL",
		record.TableName(), record.PrimaryKeyColumn(),
	)

	result, err := tx.ExecContext(ctx, query, deletedAt, deletedAt, record.PrimaryKeyValue())
	if err != nil {
		return fmt.Errorf("failed to soft delete %s: %w", record.TableName(), err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%s row %s not found", record.TableName(), record.PrimaryKeyValue())
	}
	return nil
}

// GetChangesForApiCall returns every change row attributed to one API
// call, ordered by table and attribute.
func (r *auditRepository) GetChangesForApiCall(ctx context.Context, apiCallUUID string) ([]models.AuditChange, error) {
	query := `
		SELECT c.uuid, c.audit_log_uuid, c.table_name, c.key, c.attribute, c.old_value, c.new_value, c.created_at
		FROM audit_changes c
		JOIN audit_logs l ON l.uuid = c.audit_log_uuid
		WHERE l.audit_api_call_uuid = ?
		ORDER BY c.table_name, c.key, c.attribute
	`

	rows, err := r.db.QueryContext(ctx, query, apiCallUUID)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit changes: %w", err)
	}
	defer rows.Close()

	var changes []models.AuditChange
	for rows.Next() {
		var change models.AuditChange
		var oldValue, newValue sql.NullString

		err := rows.Scan(
			&change.UUID,
			&change.AuditLogUUID,
			&change.TableName,
			&change.Key,
			&change.Attribute,
			&oldValue,
			&newValue,
			&change.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit change: %w", err)
		}

		if oldValue.Valid {
			change.OldValue = models.StringValue(oldValue.String)
		} else {
			change.OldValue = models.NullValue()
		}
		if newValue.Valid {
			change.NewValue = models.StringValue(newValue.String)
		} else {
			change.NewValue = models.NullValue()
		}

		changes = append(changes, change)
	}

	return changes, rows.Err()
}
